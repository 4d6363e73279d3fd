package blocktree

import "strings"

// ClusterOption configures similar-sense grouping.
type ClusterOption func(*clusterConfig)

type clusterConfig struct {
	depth int
}

// WithClusterDepth bounds the signature to the last n path elements
// (counting the leaf), so leaves at different depths can still group when
// their nearest markup context agrees. Zero or negative n means the full
// root-to-leaf path, which is the default.
func WithClusterDepth(n int) ClusterOption {
	return func(c *clusterConfig) { c.depth = n }
}

// SimilarSenseGroups partitions the live text leaves into groups judged to
// express the same kind of content. Two leaves share a group iff their
// structural signatures (the tag path from the root down to the leaf) are
// equal. Groups come back in the document order of their first member,
// with member indices in document order; singleton groups are included.
func (t *Tree) SimilarSenseGroups(opts ...ClusterOption) [][]int {
	cfg := clusterConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	var groups [][]int
	bySignature := make(map[string]int)
	for i := range t.DFS() {
		if !t.store.node(i).IsText() {
			continue
		}
		sig := t.signature(i, cfg.depth)
		g, ok := bySignature[sig]
		if !ok {
			g = len(groups)
			bySignature[sig] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

// SimilarSenseTexts is SimilarSenseGroups with members resolved to their
// texts.
func (t *Tree) SimilarSenseTexts(opts ...ClusterOption) [][]string {
	groups := t.SimilarSenseGroups(opts...)
	texts := make([][]string, len(groups))
	for g, members := range groups {
		texts[g] = make([]string, len(members))
		for k, i := range members {
			texts[g][k] = t.store.node(i).Text
		}
	}
	return texts
}

// signature renders the leaf's structural path as root>...>tag, truncated
// to the trailing depth elements when depth > 0.
func (t *Tree) signature(leaf, depth int) string {
	var tags []string
	for i := leaf; i != NoParent; i = t.store.node(i).Parent {
		tags = append(tags, t.store.node(i).Tag)
	}
	if depth > 0 && len(tags) > depth {
		tags = tags[:depth]
	}
	// tags were collected leaf-up; reverse into path order
	for l, r := 0, len(tags)-1; l < r; l, r = l+1, r-1 {
		tags[l], tags[r] = tags[r], tags[l]
	}
	return strings.Join(tags, ">")
}
