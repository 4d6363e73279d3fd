package blocktree

// Kind identifies the role a node plays in a block tree.
type Kind string

const (
	// KindContainer marks a structural node grouping other nodes.
	KindContainer Kind = "container"

	// KindText marks a leaf node holding one contiguous run of text.
	KindText Kind = "text"
)

// NoParent is the parent index of the root node.
const NoParent = -1

// RootTag is the tag of the synthetic container every tree carries at
// index 0.
const RootTag = "root"

// Node is one block of a tree: a structural container or a text leaf.
//
// Nodes are owned by a Store and addressed by Index. Everything except
// Linked is fixed once construction completes; Linked is flipped by
// subtraction. Callers must treat all fields as read-only and must not
// assume a node obtained by index is still part of the live tree; check
// Store.IsLive when that matters.
type Node struct {
	// Index is the node's address within its store, assigned in
	// pre-order during construction.
	Index int

	// Kind is KindContainer or KindText.
	Kind Kind

	// Tag is the markup element the node derives from. For a text leaf
	// this is the element that directly enclosed the text.
	Tag string

	// Classes holds the style classes of the originating element, in
	// document order. Nil when the element had none.
	Classes []string

	// Text is the normalized text run. Empty for containers.
	Text string

	// Parent is the index of the enclosing container, or NoParent for
	// the root.
	Parent int

	// Children are child indices in document order. Unlinking does not
	// remove entries; traversal filters dead branches instead.
	Children []int

	// Linked is false once the node has been removed from the live tree.
	Linked bool
}

// IsText reports whether the node is a text leaf.
func (n *Node) IsText() bool { return n.Kind == KindText }

// IsContainer reports whether the node is a structural container.
func (n *Node) IsContainer() bool { return n.Kind == KindContainer }
