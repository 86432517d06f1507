// Package iv models hidden stat triples and the candidate sets the
// inference engine narrows.
package iv

import (
	"fmt"

	"github.com/okian/ivtrack/internal/domain/gamedata"
)

// MaxIV is the largest value any hidden stat can take.
const MaxIV = 15

// HiddenStats is one candidate: the three hidden stats plus the level
// index the candidate is assumed to be at.
type HiddenStats struct {
	Attack  int
	Defense int
	Stamina int
	Level   gamedata.LevelIndex
}

// Valid reports whether all three stats lie in [0, MaxIV].
func (h HiddenStats) Valid() bool {
	return inRange(h.Attack) && inRange(h.Defense) && inRange(h.Stamina)
}

func inRange(v int) bool { return v >= 0 && v <= MaxIV }

// Sum returns attack + defense + stamina.
func (h HiddenStats) Sum() int { return h.Attack + h.Defense + h.Stamina }

// Percentage returns the overall quality, sum / (3 * MaxIV) * 100.
func (h HiddenStats) Percentage() float64 {
	return float64(h.Sum()) / float64(3*MaxIV) * 100
}

// Top returns the largest of the three stats.
func (h HiddenStats) Top() int {
	return max(h.Attack, h.Defense, h.Stamina)
}

// SameStats reports whether h and o differ at most in level.
func (h HiddenStats) SameStats(o HiddenStats) bool {
	return h.Attack == o.Attack && h.Defense == o.Defense && h.Stamina == o.Stamina
}

// String renders the candidate as "att/def/sta @ level".
func (h HiddenStats) String() string {
	return fmt.Sprintf("%d/%d/%d @ %s", h.Attack, h.Defense, h.Stamina, h.Level)
}
