// Package observation forward-simulates CP and HP from a candidate and
// keeps the candidates that reproduce an observed pair.
package observation

import (
	"math"

	"github.com/okian/ivtrack/internal/domain/gamedata"
	"github.com/okian/ivtrack/internal/domain/iv"
)

// MinStat is the floor the game applies to both CP and HP.
const MinStat = 10

// CalcCP returns the combat power of sp with hidden stats c at multiplier cpm.
func CalcCP(sp gamedata.Species, c iv.HiddenStats, cpm float64) int {
	att := float64(sp.Attack + c.Attack)
	def := math.Sqrt(float64(sp.Defense + c.Defense))
	sta := math.Sqrt(float64(sp.Stamina + c.Stamina))
	cp := int(math.Floor(att * def * sta * cpm / 10))
	return max(cp, MinStat)
}

// CalcHP returns the hit points of sp with hidden stats c at multiplier cpm.
func CalcHP(sp gamedata.Species, c iv.HiddenStats, cpm float64) int {
	hp := int(math.Floor(float64(sp.Stamina+c.Stamina) * math.Sqrt(cpm)))
	return max(hp, MinStat)
}

// Simulate returns CP and HP for c at its own level.
func Simulate(sp gamedata.Species, c iv.HiddenStats, levels *gamedata.LevelTable) (cp, hp int, err error) {
	cpm, err := levels.Multiplier(c.Level)
	if err != nil {
		return 0, 0, err
	}
	return CalcCP(sp, c, cpm), CalcHP(sp, c, cpm), nil
}

// Matches reports whether c reproduces the observed CP and HP exactly.
// A candidate whose level is off the curve never matches.
func Matches(c iv.HiddenStats, sp gamedata.Species, levels *gamedata.LevelTable, cp, hp int) bool {
	gotCP, gotHP, err := Simulate(sp, c, levels)
	if err != nil {
		return false
	}
	return gotCP == cp && gotHP == hp
}

// Filter returns the members of set that match the observation.
func Filter(set iv.Set, sp gamedata.Species, levels *gamedata.LevelTable, cp, hp int) iv.Set {
	return set.Filter(func(c iv.HiddenStats) bool {
		return Matches(c, sp, levels, cp, hp)
	})
}
