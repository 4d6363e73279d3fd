package goldmark_test

import (
	"testing"

	"github.com/factex/blocktree"
	"github.com/factex/blocktree/goldmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTree(t *testing.T, markdown string) *blocktree.Tree {
	t.Helper()

	raw, err := goldmark.NewParser().Parse([]byte(markdown))
	require.NoError(t, err)
	return blocktree.Build(raw)
}

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("headings and paragraphs map to html tags", func(t *testing.T) {
		t.Parallel()

		tree := parseTree(t, "# Title\n\nPara one.\n\nPara two.\n")

		assert.Equal(t, []string{"Title", "Para one.", "Para two."}, tree.TextNodes())

		groups := tree.SimilarSenseTexts()
		require.Len(t, groups, 2)
		assert.Equal(t, []string{"Title"}, groups[0])
		assert.Equal(t, []string{"Para one.", "Para two."}, groups[1])
	})

	t.Run("lists keep item order", func(t *testing.T) {
		t.Parallel()

		tree := parseTree(t, "- alpha\n- beta\n- gamma\n")

		assert.Equal(t, []string{"alpha", "beta", "gamma"}, tree.TextNodes())
	})

	t.Run("emphasis splits runs like inline html", func(t *testing.T) {
		t.Parallel()

		tree := parseTree(t, "Hello **world** again\n")

		assert.Equal(t, []string{"Hello", "world", "again"}, tree.TextNodes())
	})

	t.Run("code blocks come out under pre", func(t *testing.T) {
		t.Parallel()

		tree := parseTree(t, "```\nx := 1\n```\n")

		require.Len(t, tree.TextNodes(), 1)

		var leafTag string
		for i := range tree.DFS() {
			n, err := tree.Node(i)
			require.NoError(t, err)
			if n.IsText() {
				leafTag = n.Tag
			}
		}
		assert.Equal(t, "pre", leafTag)
	})

	t.Run("empty document yields only the root", func(t *testing.T) {
		t.Parallel()

		tree := parseTree(t, "")

		assert.Empty(t, tree.TextNodes())
	})

	t.Run("markdown and html versions of a page subtract", func(t *testing.T) {
		t.Parallel()

		primary := parseTree(t, "Shared intro.\n\nUnique body.\n")
		template := parseTree(t, "Shared intro.\n\nOther body.\n")

		primary.Subtract(template)

		assert.Equal(t, []string{"Unique body."}, primary.TextNodes())
	})
}
