package blocktree_test

import (
	"testing"

	"github.com/factex/blocktree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_Subtract(t *testing.T) {
	t.Parallel()

	t.Run("unlinks leaves repeated verbatim in the template", func(t *testing.T) {
		t.Parallel()

		primary := blocktree.Build(elem("div",
			elem("nav", text("Home")),
			elem("p", text("Article A.")),
		))
		template := blocktree.Build(elem("div",
			elem("nav", text("Home")),
			elem("p", text("Other.")),
		))

		primary.Subtract(template)

		assert.Equal(t, []string{"Article A."}, primary.TextNodes())
	})

	t.Run("container with one surviving child stays linked", func(t *testing.T) {
		t.Parallel()

		primary := blocktree.Build(elem("div",
			elem("ul",
				elem("li", text("shared")),
				elem("li", text("unique")),
			),
		))
		template := blocktree.Build(elem("div",
			elem("ul",
				elem("li", text("shared")),
				elem("li", text("different")),
			),
		))

		primary.Subtract(template)

		assert.Equal(t, []string{"unique"}, primary.TextNodes())
		// the ul container survives because it carries unique content
		ul, err := primary.Node(2)
		require.NoError(t, err)
		require.True(t, ul.IsContainer())
		assert.True(t, primary.IsLive(ul.Index))
	})

	t.Run("fully matched container is unlinked as a whole", func(t *testing.T) {
		t.Parallel()

		primary := blocktree.Build(elem("div",
			elem("nav",
				elem("a", text("Home")),
				elem("a", text("About")),
			),
			elem("p", text("Content.")),
		))
		template := blocktree.Build(elem("div",
			elem("nav",
				elem("a", text("Home")),
				elem("a", text("About")),
			),
			elem("p", text("Unrelated.")),
		))

		primary.Subtract(template)

		assert.Equal(t, []string{"Content."}, primary.TextNodes())

		var live []int
		for i := range primary.DFS() {
			live = append(live, i)
		}
		nav, err := primary.Node(2)
		require.NoError(t, err)
		require.Equal(t, "nav", nav.Tag)
		assert.NotContains(t, live, nav.Index, "matched nav container is pruned, not just its leaves")
	})

	t.Run("tag mismatch ends alignment for the level", func(t *testing.T) {
		t.Parallel()

		primary := blocktree.Build(elem("div",
			elem("h2", text("inserted")),
			elem("p", text("boilerplate")),
		))
		template := blocktree.Build(elem("div",
			elem("p", text("boilerplate")),
		))

		primary.Subtract(template)

		// positional alignment stops at h2 vs p, so nothing past the
		// mismatch is compared even though the texts agree
		assert.Equal(t, []string{"inserted", "boilerplate"}, primary.TextNodes())
	})

	t.Run("extra children in the primary are never unlinked", func(t *testing.T) {
		t.Parallel()

		primary := blocktree.Build(elem("div",
			elem("p", text("shared")),
			elem("p", text("extra")),
		))
		template := blocktree.Build(elem("div",
			elem("p", text("shared")),
		))

		primary.Subtract(template)

		assert.Equal(t, []string{"extra"}, primary.TextNodes())
	})

	t.Run("is idempotent for the same template", func(t *testing.T) {
		t.Parallel()

		primary := blocktree.Build(elem("div",
			elem("nav", text("Home")),
			elem("p", text("Article A.")),
		))
		template := blocktree.Build(elem("div",
			elem("nav", text("Home")),
			elem("p", text("Other.")),
		))

		primary.Subtract(template)
		first := primary.TextNodes()
		fp := primary.Fingerprint()

		primary.Subtract(template)

		assert.Equal(t, first, primary.TextNodes())
		assert.Equal(t, fp, primary.Fingerprint())
	})

	t.Run("identical trees reduce to the root", func(t *testing.T) {
		t.Parallel()

		build := func() *blocktree.Tree {
			return blocktree.Build(elem("div",
				elem("h1", text("Title")),
				elem("p", text("Para one.")),
				elem("p", text("Para two.")),
			))
		}
		primary := build()
		template := build()

		primary.Subtract(template)

		assert.Empty(t, primary.TextNodes())
		assert.True(t, primary.IsLive(0), "root is never unlinked")

		var live []int
		for i := range primary.DFS() {
			live = append(live, i)
		}
		assert.Equal(t, []int{0}, live)
	})

	t.Run("template is left untouched", func(t *testing.T) {
		t.Parallel()

		primary := blocktree.Build(elem("div", elem("p", text("same"))))
		template := blocktree.Build(elem("div", elem("p", text("same"))))

		primary.Subtract(template)

		assert.Empty(t, primary.TextNodes())
		assert.Equal(t, []string{"same"}, template.TextNodes())
	})
}

func TestTree_Subtract_GreedyAlignment(t *testing.T) {
	t.Parallel()

	t.Run("resynchronizes past inserted children", func(t *testing.T) {
		t.Parallel()

		primary := blocktree.Build(elem("div",
			elem("h2", text("inserted")),
			elem("p", text("boilerplate")),
		))
		template := blocktree.Build(elem("div",
			elem("p", text("boilerplate")),
		))

		primary.Subtract(template, blocktree.WithGreedyAlignment())

		assert.Equal(t, []string{"inserted"}, primary.TextNodes())
	})

	t.Run("keeps document order on both sides", func(t *testing.T) {
		t.Parallel()

		primary := blocktree.Build(elem("div",
			elem("p", text("beta")),
			elem("p", text("alpha")),
		))
		template := blocktree.Build(elem("div",
			elem("p", text("alpha")),
			elem("p", text("beta")),
		))

		primary.Subtract(template, blocktree.WithGreedyAlignment())

		// "beta" consumes the template cursor past "alpha", so "alpha"
		// in the primary has no counterpart left to its right
		assert.Equal(t, []string{"alpha"}, primary.TextNodes())
	})
}

func TestTree_Subtract_ClassAwareAlignment(t *testing.T) {
	t.Parallel()

	t.Run("keeps leaves whose classes diverge", func(t *testing.T) {
		t.Parallel()

		primary := blocktree.Build(elem("div",
			classed("p", []string{"byline", "meta"}, text("shared")),
		))
		template := blocktree.Build(elem("div",
			classed("p", []string{"footer", "legal"}, text("shared")),
		))

		primary.Subtract(template, blocktree.WithClassAwareAlignment())
		assert.Equal(t, []string{"shared"}, primary.TextNodes())

		// without class awareness the same pair matches
		primary.Subtract(template)
		assert.Empty(t, primary.TextNodes())
	})

	t.Run("sparse classes never block alignment", func(t *testing.T) {
		t.Parallel()

		primary := blocktree.Build(elem("div",
			classed("p", []string{"lead"}, text("shared")),
		))
		template := blocktree.Build(elem("div",
			elem("p", text("shared")),
		))

		primary.Subtract(template, blocktree.WithClassAwareAlignment())

		assert.Empty(t, primary.TextNodes())
	})
}

func TestTree_Cross(t *testing.T) {
	t.Parallel()

	t.Run("keeps only the shared content", func(t *testing.T) {
		t.Parallel()

		primary := blocktree.Build(elem("div",
			elem("nav", text("Home")),
			elem("p", text("Article A.")),
		))
		template := blocktree.Build(elem("div",
			elem("nav", text("Home")),
			elem("p", text("Other.")),
		))

		primary.Cross(template)

		assert.Equal(t, []string{"Home"}, primary.TextNodes())
	})

	t.Run("no overlap leaves only the root", func(t *testing.T) {
		t.Parallel()

		primary := blocktree.Build(elem("div", elem("p", text("alpha"))))
		template := blocktree.Build(elem("section", elem("p", text("beta"))))

		primary.Cross(template)

		assert.Empty(t, primary.TextNodes())
		assert.True(t, primary.IsLive(0))
	})
}
