package goquery_test

import (
	"testing"

	"github.com/factex/blocktree"
	"github.com/factex/blocktree/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<nav><a href="/">Home</a></nav>
<main class="content"><h1>Title</h1><p>Body.</p></main>
<footer>Legal.</footer>
</body></html>`

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("scopes the tree to the selector match", func(t *testing.T) {
		t.Parallel()

		raw, err := goquery.NewParser("main.content").Parse([]byte(page))
		require.NoError(t, err)

		assert.Equal(t, "main", raw.Tag)

		tree := blocktree.Build(raw)
		assert.Equal(t, []string{"Title", "Body."}, tree.TextNodes())
	})

	t.Run("empty selector yields the whole document", func(t *testing.T) {
		t.Parallel()

		raw, err := goquery.NewParser("").Parse([]byte(page))
		require.NoError(t, err)

		assert.Equal(t, "html", raw.Tag)

		tree := blocktree.Build(raw)
		assert.Equal(t, []string{"Home", "Title", "Body.", "Legal."}, tree.TextNodes())
	})

	t.Run("returns ENOTFOUND when nothing matches", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewParser("article.missing").Parse([]byte(page))

		assert.Equal(t, blocktree.ENOTFOUND, blocktree.ErrorCode(err))
	})

	t.Run("returns EINVALID for an uncompilable selector", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewParser("main[").Parse([]byte(page))

		assert.Equal(t, blocktree.EINVALID, blocktree.ErrorCode(err))
	})

	t.Run("uses the first match when several qualify", func(t *testing.T) {
		t.Parallel()

		markup := `<div><section><p>first</p></section><section><p>second</p></section></div>`

		raw, err := goquery.NewParser("section").Parse([]byte(markup))
		require.NoError(t, err)

		tree := blocktree.Build(raw)
		assert.Equal(t, []string{"first"}, tree.TextNodes())
	})
}
