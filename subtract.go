package blocktree

// SubtractOption configures tree subtraction.
type SubtractOption func(*subtractConfig)

type subtractConfig struct {
	greedy     bool
	classAware bool
}

// WithGreedyAlignment makes container alignment scan forward through the
// template's children for the best-matching counterpart instead of stopping
// at the first positional mismatch. This tolerates template levels with
// reordered or interleaved children at the cost of more comparisons; it can
// only ever unlink more than the strict positional baseline.
func WithGreedyAlignment() SubtractOption {
	return func(c *subtractConfig) { c.greedy = true }
}

// WithClassAwareAlignment additionally requires aligned nodes to share a
// style class before their subtrees are compared. Nodes where both sides
// carry at most one class combined are exempt, so plain markup keeps
// aligning as before.
func WithClassAwareAlignment() SubtractOption {
	return func(c *subtractConfig) { c.classAware = true }
}

// Subtract unlinks every subtree of t that has a structurally and
// textually equivalent counterpart in template, on the premise that
// content repeated verbatim across pages of the same site is boilerplate.
//
// Alignment starts at both roots and recurses top-down: leaves match when
// their tags agree and their texts are byte-equal, containers are unlinked
// only when every one of their children matched. Children are paired by
// position over each container's full child list, so subtracting the same
// template twice changes nothing. The template is never modified.
func (t *Tree) Subtract(template *Tree, opts ...SubtractOption) {
	cfg := subtractConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &matcher{primary: t.store, template: template.store, cfg: cfg}
	matched, _, _ := m.match(0, 0)
	for _, i := range matched {
		t.store.Unlink(i)
	}
}

// Cross keeps only the overlap with template: every live node that is
// neither a matched leaf nor an ancestor of one is unlinked. It is the
// complement of Subtract and useful for inspecting what two pages share.
func (t *Tree) Cross(template *Tree, opts ...SubtractOption) {
	cfg := subtractConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &matcher{primary: t.store, template: template.store, cfg: cfg}
	matched, _, _ := m.match(0, 0)

	keep := make(map[int]struct{})
	for _, i := range matched {
		if !t.store.node(i).IsText() {
			continue
		}
		for j := i; j != NoParent; j = t.store.node(j).Parent {
			keep[j] = struct{}{}
		}
	}
	for i := 0; i < t.store.Len(); i++ {
		if _, ok := keep[i]; !ok {
			t.store.Unlink(i)
		}
	}
}

// matcher aligns a primary store against a template store. Matching is
// pure: it inspects structure and text only, never the linked flags, so
// the same pair of trees always aligns the same way no matter what was
// unlinked before.
type matcher struct {
	primary  *Store
	template *Store
	cfg      subtractConfig
}

// match aligns primary node ti against template node si. It returns the
// primary indices to unlink (matched leaves plus fully matched
// containers), the number of matched leaves beneath ti, and whether ti's
// subtree matched completely.
func (m *matcher) match(ti, si int) (matched []int, leaves int, all bool) {
	tn := m.primary.node(ti)
	sn := m.template.node(si)

	if tn.IsText() {
		if tn.Text == sn.Text {
			return []int{ti}, 1, true
		}
		return nil, 0, false
	}

	if m.cfg.greedy {
		matched, leaves, all = m.alignGreedy(tn, sn)
	} else {
		matched, leaves, all = m.alignPositional(tn, sn)
	}
	if all {
		matched = append(matched, ti)
	}
	return matched, leaves, all
}

// alignPositional pairs children by position and stops the level at the
// first candidate mismatch. A level where every child of tn matched
// completely reports all=true; extra children on the template side do not
// count against it.
func (m *matcher) alignPositional(tn, sn *Node) (matched []int, leaves int, all bool) {
	all = true
	k := 0
	for ; k < len(tn.Children) && k < len(sn.Children); k++ {
		ti, si := tn.Children[k], sn.Children[k]
		if !m.candidate(m.primary.node(ti), m.template.node(si)) {
			break
		}
		sub, n, ok := m.match(ti, si)
		matched = append(matched, sub...)
		leaves += n
		all = all && ok
	}
	if k < len(tn.Children) {
		all = false
	}
	return matched, leaves, all
}

// alignGreedy walks tn's children in order, searching forward from a
// template cursor for the candidate whose subtree matches the most leaves.
// The cursor only advances past committed matches, so document order is
// preserved on both sides.
func (m *matcher) alignGreedy(tn, sn *Node) (matched []int, leaves int, all bool) {
	all = true
	cursor := 0
	for _, ti := range tn.Children {
		tc := m.primary.node(ti)

		var best []int
		bestLeaves := 0
		bestAll := false
		bestAt := -1
		for j := cursor; j < len(sn.Children); j++ {
			sc := m.template.node(sn.Children[j])
			if !m.candidate(tc, sc) {
				continue
			}
			sub, n, ok := m.match(ti, sn.Children[j])
			if n > bestLeaves {
				best, bestLeaves, bestAll, bestAt = sub, n, ok, j
			}
		}

		if bestAt < 0 {
			all = false
			continue
		}
		matched = append(matched, best...)
		leaves += bestLeaves
		all = all && bestAll
		cursor = bestAt + 1
	}
	return matched, leaves, all
}

// candidate reports whether two nodes may be aligned at all: same kind and
// tag, and compatible classes when class-aware alignment is on.
func (m *matcher) candidate(tn, sn *Node) bool {
	if tn.Kind != sn.Kind || tn.Tag != sn.Tag {
		return false
	}
	if !m.cfg.classAware {
		return true
	}
	return classesCompatible(tn.Classes, sn.Classes)
}

// classesCompatible reports whether two class lists share an entry. Nodes
// with at most one class between them are considered compatible, so
// unstyled markup is unaffected by class-aware alignment.
func classesCompatible(a, b []string) bool {
	if len(a)+len(b) < 2 {
		return true
	}
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
