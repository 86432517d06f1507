package appraisal

import (
	"fmt"

	"github.com/okian/ivtrack/internal/domain/iv"
)

// Describe returns the statement the team leader would make about c
// under t. It fails with ErrInvalidBand when t leaves c's percentage or
// top stat uncovered; the published table has no band for stat sums 29
// and 30.
func Describe(t Table, c iv.HiddenStats) (Statement, error) {
	st := Statement{}
	for _, o := range []Overall{Wonder, Attention, Average, Likely} {
		if r, ok := t.Overall[o]; ok && r.Contains(c.Percentage()) {
			st.Overall = o
			break
		}
	}
	top := c.Top()
	for _, ts := range []TopStat{Exceed, Impressed, Trending, Norm} {
		if r, ok := t.TopStat[ts]; ok && r.Contains(top) {
			st.TopStat = ts
			break
		}
	}
	if st.Overall == 0 || st.TopStat == 0 {
		return Statement{}, fmt.Errorf("%w: no band covers %s", ErrInvalidBand, c)
	}
	st.Attack = c.Attack == top
	st.Defense = c.Defense == top
	st.Stamina = c.Stamina == top
	return st, nil
}
