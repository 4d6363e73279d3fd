package blocktree

// Store is an append-only arena of nodes addressed by integer index.
//
// Indices are assigned at allocation and never reused or invalidated:
// unlinking removes a node from the live tree but keeps it in the arena,
// so an index handed out earlier stays a valid, if stale, handle. A store
// grows only while its tree is being built and is owned by exactly one
// Tree afterwards. Stores are not safe for concurrent mutation.
type Store struct {
	nodes []*Node
}

// Len returns the number of allocated nodes, live or not.
func (s *Store) Len() int { return len(s.nodes) }

// Allocate appends a new linked node and wires it into its parent's child
// list. It returns the index of the new node. Pass NoParent to allocate
// the root.
func (s *Store) Allocate(kind Kind, tag string, parent int) int {
	idx := len(s.nodes)
	s.nodes = append(s.nodes, &Node{
		Index:  idx,
		Kind:   kind,
		Tag:    tag,
		Parent: parent,
		Linked: true,
	})
	if parent != NoParent {
		p := s.nodes[parent]
		p.Children = append(p.Children, idx)
	}
	return idx
}

// Get returns the node at index i.
// Returns ERANGE if i was never allocated. The returned pointer stays
// valid for the lifetime of the store even after the node is unlinked.
func (s *Store) Get(i int) (*Node, error) {
	if i < 0 || i >= len(s.nodes) {
		return nil, Errorf(ERANGE, "node index %d out of range [0,%d)", i, len(s.nodes))
	}
	return s.nodes[i], nil
}

// node returns the node at a known-valid index.
func (s *Store) node(i int) *Node { return s.nodes[i] }

// Unlink removes the node at index i from the live tree without deleting
// it. Unlinking an already unlinked node is a no-op, as is unlinking the
// root or an index that was never allocated.
func (s *Store) Unlink(i int) {
	if i <= 0 || i >= len(s.nodes) {
		return
	}
	s.nodes[i].Linked = false
}

// IsLive reports whether the node at index i and all of its ancestors are
// linked. Liveness is resolved by walking the parent chain, so unlinking a
// container hides its whole subtree without touching descendant flags.
func (s *Store) IsLive(i int) bool {
	if i < 0 || i >= len(s.nodes) {
		return false
	}
	for {
		n := s.nodes[i]
		if !n.Linked {
			return false
		}
		if n.Parent == NoParent {
			return true
		}
		i = n.Parent
	}
}
