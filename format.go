package blocktree

import (
	"fmt"
	"strings"
)

// FormatTexts formats extracted text blocks for display, one block per
// line.
func FormatTexts(texts []string) string {
	if len(texts) == 0 {
		return ""
	}
	return strings.Join(texts, "\n")
}

// FormatGroups formats similarity groups for display. Each group gets a
// numbered header followed by its member texts, groups separated by blank
// lines.
func FormatGroups(groups [][]string) string {
	if len(groups) == 0 {
		return ""
	}

	parts := make([]string, 0, len(groups))
	for i, group := range groups {
		var b strings.Builder
		fmt.Fprintf(&b, "## Group %d (%d)\n", i+1, len(group))
		b.WriteString(strings.Join(group, "\n"))
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n\n")
}

// FormatExtractions formats per-page extraction results for display or
// file output. Each page gets a header with its URL, pages separated by
// blank lines.
func FormatExtractions(exs []*Extraction) string {
	if len(exs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(exs))
	for _, ex := range exs {
		parts = append(parts, "## Page: "+ex.URL+"\n"+FormatTexts(ex.Texts))
	}

	return strings.Join(parts, "\n\n")
}
