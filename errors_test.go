package blocktree_test

import (
	"errors"
	"testing"

	"github.com/factex/blocktree"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := blocktree.Errorf(blocktree.ERANGE, "node index %d out of range", 42)

	assert.Equal(t, blocktree.ERANGE, blocktree.ErrorCode(err))
	assert.Equal(t, "node index 42 out of range", blocktree.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, blocktree.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, blocktree.EINTERNAL, blocktree.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, blocktree.ErrorMessage(nil))
}
