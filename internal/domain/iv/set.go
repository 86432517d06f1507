package iv

import "sort"

// Set is a candidate set keyed by value.
type Set map[HiddenStats]struct{}

// NewSet returns a set holding the given candidates.
func NewSet(items ...HiddenStats) Set {
	s := make(Set, len(items))
	for _, h := range items {
		s[h] = struct{}{}
	}
	return s
}

// Add inserts h.
func (s Set) Add(h HiddenStats) { s[h] = struct{}{} }

// Contains reports whether h is in the set.
func (s Set) Contains(h HiddenStats) bool {
	_, ok := s[h]
	return ok
}

// Len returns the number of candidates.
func (s Set) Len() int { return len(s) }

// Filter returns a new set with the members keep accepts.
func (s Set) Filter(keep func(HiddenStats) bool) Set {
	out := make(Set, len(s))
	for h := range s {
		if keep(h) {
			out[h] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members ordered by level, then attack, defense and
// stamina.
func (s Set) Sorted() []HiddenStats {
	out := make([]HiddenStats, 0, len(s))
	for h := range s {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		if a.Attack != b.Attack {
			return a.Attack < b.Attack
		}
		if a.Defense != b.Defense {
			return a.Defense < b.Defense
		}
		return a.Stamina < b.Stamina
	})
	return out
}
