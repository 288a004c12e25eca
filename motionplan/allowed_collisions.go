package motionplan

import (
	"sort"
)

// LinkPair names two links, in either order.
type LinkPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

func (p LinkPair) canonical() LinkPair {
	if p.B < p.A {
		return LinkPair{A: p.B, B: p.A}
	}
	return p
}

// AllowedCollisionSet is a symmetric set of link pairs whose contact is not considered a self collision.
// It is immutable once built and may be shared between workers.
type AllowedCollisionSet struct {
	pairs map[LinkPair]struct{}
}

// NewAllowedCollisionSet builds a set from the given pairs. Duplicates and reversed duplicates collapse.
func NewAllowedCollisionSet(pairs ...LinkPair) *AllowedCollisionSet {
	set := &AllowedCollisionSet{pairs: make(map[LinkPair]struct{}, len(pairs))}
	for _, p := range pairs {
		set.pairs[p.canonical()] = struct{}{}
	}
	return set
}

// Union returns a new set containing the pairs of both sets.
func (s *AllowedCollisionSet) Union(other *AllowedCollisionSet) *AllowedCollisionSet {
	union := NewAllowedCollisionSet(s.Pairs()...)
	if other != nil {
		for p := range other.pairs {
			union.pairs[p] = struct{}{}
		}
	}
	return union
}

// Allowed returns true if contact between the two named links is permitted. A nil set allows nothing.
func (s *AllowedCollisionSet) Allowed(a, b string) bool {
	if s == nil {
		return false
	}
	_, ok := s.pairs[LinkPair{A: a, B: b}.canonical()]
	return ok
}

// Len returns the number of distinct pairs.
func (s *AllowedCollisionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.pairs)
}

// Pairs returns the pairs of the set in canonical order, sorted.
func (s *AllowedCollisionSet) Pairs() []LinkPair {
	if s == nil {
		return nil
	}
	pairs := make([]LinkPair, 0, len(s.pairs))
	for p := range s.pairs {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}
