package iv

import (
	"fmt"

	"github.com/okian/ivtrack/internal/domain/gamedata"
)

// InitialCandidates enumerates every stat triple at every level a fresh
// capture for the given dust cost can have.
func InitialCandidates(levels *gamedata.LevelTable, dust int, halfLevels bool) (Set, error) {
	starts, err := levels.StartingLevels(dust, halfLevels)
	if err != nil {
		return nil, err
	}
	const span = MaxIV + 1
	out := make(Set, span*span*span*len(starts))
	for _, lvl := range starts {
		for a := 0; a <= MaxIV; a++ {
			for d := 0; d <= MaxIV; d++ {
				for s := 0; s <= MaxIV; s++ {
					out[HiddenStats{Attack: a, Defense: d, Stamina: s, Level: lvl}] = struct{}{}
				}
			}
		}
	}
	return out, nil
}

// Advance moves c up by steps half levels.
func Advance(c HiddenStats, steps int, maxLevel gamedata.LevelIndex) (HiddenStats, error) {
	next := c.Level + gamedata.LevelIndex(steps)
	if next < 0 || next > maxLevel {
		return c, fmt.Errorf("%w: %s + %d steps", ErrLevelOutOfRange, c, steps)
	}
	c.Level = next
	return c, nil
}

// AdvanceAll advances every member of s. Members that would leave the
// curve are dropped; the count of dropped members is returned.
func AdvanceAll(s Set, steps int, maxLevel gamedata.LevelIndex) (Set, int) {
	if steps == 0 {
		return s.Filter(func(HiddenStats) bool { return true }), 0
	}
	out := make(Set, len(s))
	dropped := 0
	for h := range s {
		next, err := Advance(h, steps, maxLevel)
		if err != nil {
			dropped++
			continue
		}
		out[next] = struct{}{}
	}
	return out, dropped
}
