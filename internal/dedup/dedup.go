// Package dedup tracks which matches have already been ingested.
package dedup

import (
	"slices"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultExpected is the number of ids a Set is sized for when the caller has
// no better estimate.
const DefaultExpected = 1_000_000

// falsePositiveRate of the bloom prefilter. A false positive only costs an
// exact map lookup.
const falsePositiveRate = 0.001

// A Set of processed match ids. Membership is exact: the bloom filter only
// short-circuits lookups for ids that were never added.
//
// A Set is not safe for concurrent use.
type Set struct {
	filter *bloom.BloomFilter
	ids    map[string]struct{}
}

// New returns a Set sized for roughly expected ids, containing ids.
func New(expected int, ids ...string) *Set {
	if expected < len(ids) {
		expected = len(ids)
	}
	if expected <= 0 {
		expected = DefaultExpected
	}
	s := &Set{
		filter: bloom.NewWithEstimates(uint(expected), falsePositiveRate),
		ids:    make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Contains returns true if the id has been added.
func (s *Set) Contains(id string) bool {
	if !s.filter.TestString(id) {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Add adds the id. It returns false if the id was already present.
func (s *Set) Add(id string) bool {
	if s.Contains(id) {
		return false
	}
	s.filter.AddString(id)
	s.ids[id] = struct{}{}
	return true
}

// Len returns the number of ids in the set.
func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns every id in the set, sorted.
func (s *Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
