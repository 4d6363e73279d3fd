// Package bloom provides probabilistic text-block deduplication using
// Bloom filters, for suppressing boilerplate repeated across pages that
// share no subtractable template.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/factex/blocktree"
)

// Dedup tracks normalized text blocks already seen across pages.
type Dedup struct {
	f *bloom.BloomFilter
}

// NewDedup creates a filter sized for n expected text blocks with the
// given false positive rate.
func NewDedup(n uint, fpRate float64) *Dedup {
	return &Dedup{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a text block. Text is normalized before hashing so callers
// can pass raw and extracted forms interchangeably.
func (d *Dedup) Add(text string) {
	d.f.AddString(blocktree.Normalize(text))
}

// Seen returns true if the text block might have been added before.
// False positives are possible; false negatives are not.
func (d *Dedup) Seen(text string) bool {
	return d.f.TestString(blocktree.Normalize(text))
}

// Filter returns the blocks not seen before, recording each new block as
// it goes. Order is preserved.
func (d *Dedup) Filter(texts []string) []string {
	var fresh []string
	for _, t := range texts {
		if d.f.TestAndAddString(blocktree.Normalize(t)) {
			continue
		}
		fresh = append(fresh, t)
	}
	return fresh
}

// EstimatedCount returns the approximate number of distinct blocks added.
func (d *Dedup) EstimatedCount() uint {
	return uint(d.f.ApproximatedSize())
}
