package blocktree

import "strings"

// defaultSkipTags are elements whose subtrees never contribute readable
// text and are discarded wholesale during construction.
var defaultSkipTags = map[string]struct{}{
	"script":   {},
	"style":    {},
	"meta":     {},
	"link":     {},
	"iframe":   {},
	"object":   {},
	"noscript": {},
}

// BuildOption configures tree construction.
type BuildOption func(*buildConfig)

type buildConfig struct {
	skip map[string]struct{}
}

// WithSkipTags replaces the default set of discarded elements (script,
// style, meta, link, iframe, object, noscript).
func WithSkipTags(tags ...string) BuildOption {
	return func(c *buildConfig) {
		c.skip = make(map[string]struct{}, len(tags))
		for _, tag := range tags {
			c.skip[strings.ToLower(tag)] = struct{}{}
		}
	}
}

// Build constructs a Tree from a parsed raw document.
//
// The raw element tree maps onto a simplified block tree: every non-empty
// character-data run becomes a text leaf tagged with its directly enclosing
// element, elements that group other elements become containers, and
// anything that carries no text anywhere below it is discarded without ever
// being allocated. Containers are only materialized once a text descendant
// forces them into existence, which makes node indices come out in
// pre-order over the finished tree, with the synthetic root fixed at
// index 0.
func Build(raw *RawNode, opts ...BuildOption) *Tree {
	cfg := buildConfig{skip: defaultSkipTags}
	for _, opt := range opts {
		opt(&cfg)
	}

	t := NewTree()
	if raw != nil {
		b := &builder{store: t.store, skip: cfg.skip}
		b.visit(raw, &pending{index: 0})
	}
	return t
}

// pending is an element on the current ancestor path whose container has
// not yet been allocated. index stays -1 until the first text descendant
// materializes the chain top-down.
type pending struct {
	parent  *pending
	tag     string
	classes []string
	index   int
}

type builder struct {
	store *Store
	skip  map[string]struct{}
}

// visit walks one raw element in document order, emitting leaves for its
// character-data runs and descending into child elements. Elements that
// only hold text do not open a container level of their own; their runs
// become leaves of the nearest grouping ancestor, tagged with the element
// itself.
func (b *builder) visit(e *RawNode, attach *pending) {
	if e == nil || b.skipped(e.Tag) {
		return
	}

	level := attach
	if b.groups(e) {
		level = &pending{parent: attach, tag: e.Tag, classes: e.Classes, index: -1}
	}

	for _, c := range e.Children {
		if c.IsElement() {
			b.visit(c, level)
			continue
		}
		text := Normalize(c.Text)
		if text == "" {
			continue
		}
		idx := b.store.Allocate(KindText, e.Tag, b.materialize(level))
		leaf := b.store.node(idx)
		leaf.Text = text
		leaf.Classes = e.Classes
	}
}

// groups reports whether e has at least one child element surviving the
// skip set, i.e. whether it acts as a structural grouping rather than a
// plain text holder.
func (b *builder) groups(e *RawNode) bool {
	for _, c := range e.Children {
		if c.IsElement() && !b.skipped(c.Tag) {
			return true
		}
	}
	return false
}

// materialize allocates the container chain from the nearest allocated
// ancestor down to p and returns p's index.
func (b *builder) materialize(p *pending) int {
	if p.index >= 0 {
		return p.index
	}
	parent := b.materialize(p.parent)
	p.index = b.store.Allocate(KindContainer, p.tag, parent)
	b.store.node(p.index).Classes = p.classes
	return p.index
}

func (b *builder) skipped(tag string) bool {
	_, ok := b.skip[strings.ToLower(tag)]
	return ok
}
