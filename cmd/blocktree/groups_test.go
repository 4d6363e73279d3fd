package main_test

import (
	"testing"

	main "github.com/factex/blocktree/cmd/blocktree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupsCmd_Run(t *testing.T) {
	t.Parallel()

	const listPage = `<html><body>
		<ul><li>One</li><li>Two</li></ul>
		<article><p>Body text.</p></article>
	</body></html>`

	t.Run("prints numbered group headers", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps(map[string]string{
			"https://example.com/page": listPage,
		})

		cmd := &main.GroupsCmd{Source: "https://example.com/page"}

		err := cmd.Run(deps)

		require.NoError(t, err)
		want := "## Group 1 (2)\nOne\nTwo\n\n" +
			"## Group 2 (1)\nBody text.\n"
		assert.Equal(t, want, stdout.String())
	})

	t.Run("emits JSON when asked", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps(map[string]string{
			"https://example.com/page": listPage,
		})

		cmd := &main.GroupsCmd{Source: "https://example.com/page", JSON: true}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.JSONEq(t, `{"groups": [["One", "Two"], ["Body text."]]}`, stdout.String())
	})

	t.Run("bounds the grouping signature depth", func(t *testing.T) {
		t.Parallel()

		pages := map[string]string{
			"https://example.com/page": `<html><body>
				<section><div><p>First.</p></div></section>
				<aside><div><p>Second.</p></div></aside>
			</body></html>`,
		}

		deps, stdout, _ := newTestDeps(pages)
		cmd := &main.GroupsCmd{Source: "https://example.com/page"}
		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, "## Group 1 (1)\nFirst.\n\n## Group 2 (1)\nSecond.\n", stdout.String(),
			"full signatures keep differently nested blocks apart")

		deps, stdout, _ = newTestDeps(pages)
		cmd = &main.GroupsCmd{Source: "https://example.com/page", Depth: 1}
		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, "## Group 1 (2)\nFirst.\nSecond.\n", stdout.String(),
			"a depth of one groups by the leaf tag alone")
	})
}
