package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/factex/blocktree"
	"github.com/factex/blocktree/mock"
	btslog "github.com/factex/blocktree/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("logs input size and node count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Parser{
			ParseFn: func(markup []byte) (*blocktree.RawNode, error) {
				return &blocktree.RawNode{
					Tag: "div",
					Children: []*blocktree.RawNode{
						{Tag: "p", Children: []*blocktree.RawNode{{Text: "hi"}}},
					},
				}, nil
			},
		}

		parser := btslog.NewLoggingParser(inner, logger)
		raw, err := parser.Parse([]byte("<div><p>hi</p></div>"))

		require.NoError(t, err)
		assert.Equal(t, "div", raw.Tag)
		output := buf.String()
		assert.Contains(t, output, "parse")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "nodes=3")
	})

	t.Run("logs nodes=0 on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Parser{
			ParseFn: func(markup []byte) (*blocktree.RawNode, error) {
				return nil, blocktree.Errorf(blocktree.EINVALID, "bad input")
			},
		}

		parser := btslog.NewLoggingParser(inner, logger)
		_, err := parser.Parse([]byte("x"))

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "nodes=0")
		assert.Contains(t, output, "bad input")
	})
}
