package blocktree

import (
	"fmt"
	"html"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Tree is a block tree built from one markup document.
//
// A tree always has a synthetic root container at index 0 and owns the
// store its nodes live in. Trees are cheap to traverse repeatedly; methods
// that consult liveness recompute it on every call, so results always
// reflect subtractions applied so far.
type Tree struct {
	store *Store
}

// NewTree returns an empty tree holding only the root container.
// Most callers want Build instead.
func NewTree() *Tree {
	t := &Tree{store: &Store{}}
	t.store.Allocate(KindContainer, RootTag, NoParent)
	return t
}

// Len returns the number of allocated nodes, live or not.
func (t *Tree) Len() int { return t.store.Len() }

// Node returns the node at index i.
// Returns ERANGE if i was never allocated. The node may be unlinked or
// sit below an unlinked ancestor; use IsLive to check.
func (t *Tree) Node(i int) (*Node, error) { return t.store.Get(i) }

// Root returns the synthetic root container.
func (t *Tree) Root() *Node { return t.store.node(0) }

// IsLive reports whether the node at index i is part of the live tree.
func (t *Tree) IsLive(i int) bool { return t.store.IsLive(i) }

// Unlink removes the node at index i from the live tree without deleting
// it. Subtraction uses this internally; callers can also prune manually.
// Unlinking the root or an unallocated index is a no-op.
func (t *Tree) Unlink(i int) { t.store.Unlink(i) }

// TextNodes returns the texts of the live text leaves in document order.
func (t *Tree) TextNodes() []string {
	var texts []string
	for i := range t.DFS() {
		if n := t.store.node(i); n.IsText() {
			texts = append(texts, n.Text)
		}
	}
	return texts
}

// Fingerprint returns a hash over the tags and texts of the live leaves in
// document order. Two trees with identical live text content produce the
// same fingerprint, which makes it a cheap change detector for re-fetched
// pages.
func (t *Tree) Fingerprint() uint64 {
	d := xxhash.New()
	for i := range t.DFS() {
		n := t.store.node(i)
		if !n.IsText() {
			continue
		}
		_, _ = d.WriteString(n.Tag)
		_, _ = d.WriteString("\x1f")
		_, _ = d.WriteString(n.Text)
		_, _ = d.WriteString("\x1e")
	}
	return d.Sum64()
}

// String renders the live tree as an indented outline, one node per line.
// Containers print as tag markers, leaves print their text.
func (t *Tree) String() string {
	var b strings.Builder
	t.renderOutline(&b, 0, 0)
	return b.String()
}

func (t *Tree) renderOutline(b *strings.Builder, i, depth int) {
	n := t.store.node(i)
	if !n.Linked {
		return
	}
	indent := strings.Repeat("  ", depth)
	if n.IsText() {
		fmt.Fprintf(b, "%s%s\n", indent, n.Text)
		return
	}
	fmt.Fprintf(b, "%s<%s>\n", indent, n.Tag)
	for _, c := range n.Children {
		t.renderOutline(b, c, depth+1)
	}
	fmt.Fprintf(b, "%s</%s>\n", indent, n.Tag)
}

// HTML renders the live tree back to minimal HTML, suitable as input to a
// Converter. The synthetic root is not emitted. A leaf whose tag matches
// its parent container renders as bare text so split runs reassemble
// without nesting the element into itself.
func (t *Tree) HTML() string {
	var b strings.Builder
	for _, c := range t.store.node(0).Children {
		t.renderHTML(&b, c, RootTag)
	}
	return b.String()
}

func (t *Tree) renderHTML(b *strings.Builder, i int, parentTag string) {
	n := t.store.node(i)
	if !n.Linked {
		return
	}
	if n.IsText() {
		if n.Tag == parentTag {
			b.WriteString(html.EscapeString(n.Text))
		} else {
			fmt.Fprintf(b, "<%s>%s</%s>", n.Tag, html.EscapeString(n.Text), n.Tag)
		}
		return
	}
	b.WriteString("<" + n.Tag + ">")
	for _, c := range n.Children {
		t.renderHTML(b, c, n.Tag)
	}
	b.WriteString("</" + n.Tag + ">")
}
