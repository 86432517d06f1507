package iv

// PercentageRange returns the lowest and highest quality percentage in s.
func PercentageRange(s Set) (float64, float64, error) {
	if len(s) == 0 {
		return 0, 0, ErrEmptySet
	}
	lo, hi := 101.0, -1.0
	for h := range s {
		p := h.Percentage()
		lo = min(lo, p)
		hi = max(hi, p)
	}
	return lo, hi, nil
}

// Triples collapses level variants and returns the distinct stat triples
// in sorted order, each at the lowest level it was seen at.
func Triples(s Set) []HiddenStats {
	var out []HiddenStats
	picked := make(Set, len(s))
	for _, h := range s.Sorted() {
		flat := h
		flat.Level = 0
		if picked.Contains(flat) {
			continue
		}
		picked.Add(flat)
		out = append(out, h)
	}
	return out
}
