package blocktree

import "iter"

// DFS returns a lazy pre-order iterator over the indices of the live
// nodes, root first. Subtrees rooted at an unlinked node are skipped
// without being visited. The sequence is restartable: each range starts a
// fresh traversal reflecting the tree's state at that point.
func (t *Tree) DFS() iter.Seq[int] {
	return func(yield func(int) bool) {
		t.walk(0, yield)
	}
}

// walk visits i and its descendants in pre-order. It reports whether the
// traversal should continue with the next sibling.
func (t *Tree) walk(i int, yield func(int) bool) bool {
	n := t.store.node(i)
	if !n.Linked {
		return true
	}
	if !yield(i) {
		return false
	}
	for _, c := range n.Children {
		if !t.walk(c, yield) {
			return false
		}
	}
	return true
}
