package blocktree

// RawNode is one node of a parsed markup document, the contract between
// parser implementations and the tree builder.
//
// A raw node is either an element (Tag set, children in document order) or
// a character-data run (Text set, no children). Text is carried exactly as
// written in the document; the builder owns whitespace normalization and
// decides which runs survive.
type RawNode struct {
	// Tag is the lowercase element name. Empty for character data.
	Tag string

	// Classes are the element's style classes, in document order.
	Classes []string

	// Text is the character data run. Empty for elements.
	Text string

	// Children are the element's direct children in document order.
	Children []*RawNode
}

// IsElement reports whether the raw node is an element.
func (r *RawNode) IsElement() bool { return r.Tag != "" }

// Parser turns raw markup into a RawNode document.
type Parser interface {
	// Parse parses markup into a raw tree rooted at the document element.
	// Implementations handle encoding and malformed-input recovery;
	// returns EINVALID when the input cannot be parsed at all.
	Parse(markup []byte) (*RawNode, error)
}
