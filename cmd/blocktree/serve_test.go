package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/factex/blocktree"
	main "github.com/factex/blocktree/cmd/blocktree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for a missing config file", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
		}

		cmd := &main.ServeCmd{Config: filepath.Join(t.TempDir(), "absent.yml")}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, blocktree.ENOTFOUND, blocktree.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("returns EINVALID for a malformed config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yml")
		require.NoError(t, os.WriteFile(path, []byte("addr: [:::"), 0o644))

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
		}

		cmd := &main.ServeCmd{Config: path}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, blocktree.EINVALID, blocktree.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})
}
