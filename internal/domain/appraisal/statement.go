package appraisal

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/okian/ivtrack/internal/domain/iv"
)

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // validator caches struct metadata

// Statement is one recorded appraisal. Exactly the stats tied for the
// maximum must be flagged.
type Statement struct {
	Overall Overall `json:"overall" validate:"min=1,max=4"`
	TopStat TopStat `json:"top_stat" validate:"min=1,max=4"`
	Attack  bool    `json:"attack"`
	Defense bool    `json:"defense"`
	Stamina bool    `json:"stamina"`
}

// Validate checks the bands are known and at least one stat is flagged.
func (s Statement) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBand, err)
	}
	if !s.Attack && !s.Defense && !s.Stamina {
		return ErrNoDominantStat
	}
	return nil
}

// Accepts reports whether c is consistent with the statement under t.
// Every constraint must hold; a tie for the maximum is only accepted when
// all tied stats are flagged.
func (s Statement) Accepts(t Table, c iv.HiddenStats) bool {
	pr, ok := t.Overall[s.Overall]
	if !ok || !pr.Contains(c.Percentage()) {
		return false
	}
	top := c.Top()
	vr, ok := t.TopStat[s.TopStat]
	if !ok || !vr.Contains(top) {
		return false
	}
	return s.Attack == (c.Attack == top) &&
		s.Defense == (c.Defense == top) &&
		s.Stamina == (c.Stamina == top)
}

// Filter returns the members of set the statement accepts.
func (s Statement) Filter(t Table, set iv.Set) iv.Set {
	return set.Filter(func(c iv.HiddenStats) bool { return s.Accepts(t, c) })
}

// String renders the statement as "wonder/exceed [att def]".
func (s Statement) String() string {
	flags := ""
	for _, f := range []struct {
		on   bool
		name string
	}{{s.Attack, "att"}, {s.Defense, "def"}, {s.Stamina, "sta"}} {
		if !f.on {
			continue
		}
		if flags != "" {
			flags += " "
		}
		flags += f.name
	}
	return fmt.Sprintf("%s/%s [%s]", s.Overall, s.TopStat, flags)
}
