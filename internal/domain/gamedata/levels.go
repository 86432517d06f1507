package gamedata

import (
	"fmt"
	"math"
	"sort"
)

// LevelIndex addresses one entry of the CP multiplier curve. Index 0 is
// level 1 and each increment is half a level.
type LevelIndex int

// Level returns the in-game level the index stands for.
func (i LevelIndex) Level() float64 { return 1 + float64(i)/2 }

// IsHalf reports whether the index is a half level.
func (i LevelIndex) IsHalf() bool { return i%2 == 1 }

// String formats the index as its level, e.g. "20.5".
func (i LevelIndex) String() string {
	if i.IsHalf() {
		return fmt.Sprintf("%.1f", i.Level())
	}
	return fmt.Sprintf("%d", int(i.Level()))
}

// IndexForLevel converts a level such as 1, 1.5 or 40 into its index.
func IndexForLevel(level float64) (LevelIndex, error) {
	doubled := level * 2
	if level < 1 || doubled != math.Trunc(doubled) {
		return 0, fmt.Errorf("%w: %v", ErrUnknownLevel, level)
	}
	return LevelIndex(int(doubled) - 2), nil
}

// DustBand lists the levels a fresh capture can have for one dust cost.
// Whole holds the whole levels; Half holds the half levels, which are only
// reachable when half-level captures are enabled.
type DustBand struct {
	Cost  int
	Whole []LevelIndex
	Half  []LevelIndex
}

// LevelTable is the CP multiplier curve plus the dust bands.
type LevelTable struct {
	multipliers []float64
	bands       map[int]DustBand
}

// NewLevelTable validates and builds a level table. Every band level must
// be addressable by the multiplier curve and belong to exactly one band.
func NewLevelTable(multipliers []float64, bands []DustBand) (*LevelTable, error) {
	if len(multipliers) == 0 {
		return nil, fmt.Errorf("%w: empty multiplier curve", ErrInvalidTable)
	}
	for i, m := range multipliers {
		if m < 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return nil, fmt.Errorf("%w: multiplier %d is %v", ErrInvalidTable, i, m)
		}
	}
	t := &LevelTable{
		multipliers: append([]float64(nil), multipliers...),
		bands:       make(map[int]DustBand, len(bands)),
	}
	owner := make(map[LevelIndex]int)
	for _, b := range bands {
		if _, dup := t.bands[b.Cost]; dup {
			return nil, fmt.Errorf("%w: duplicate dust cost %d", ErrInvalidTable, b.Cost)
		}
		if len(b.Whole) == 0 && len(b.Half) == 0 {
			return nil, fmt.Errorf("%w: dust cost %d has no levels", ErrInvalidTable, b.Cost)
		}
		for _, idx := range append(append([]LevelIndex(nil), b.Whole...), b.Half...) {
			if idx < 0 || idx > t.MaxLevel() {
				return nil, fmt.Errorf("%w: dust cost %d level index %d", ErrInvalidTable, b.Cost, idx)
			}
			if cost, taken := owner[idx]; taken {
				return nil, fmt.Errorf("%w: level index %d in dust costs %d and %d", ErrInvalidTable, idx, cost, b.Cost)
			}
			owner[idx] = b.Cost
		}
		t.bands[b.Cost] = DustBand{
			Cost:  b.Cost,
			Whole: append([]LevelIndex(nil), b.Whole...),
			Half:  append([]LevelIndex(nil), b.Half...),
		}
	}
	return t, nil
}

// MaxLevel returns the highest modeled level index.
func (t *LevelTable) MaxLevel() LevelIndex { return LevelIndex(len(t.multipliers) - 1) }

// Multiplier returns the CP multiplier for a level index.
func (t *LevelTable) Multiplier(i LevelIndex) (float64, error) {
	if i < 0 || i > t.MaxLevel() {
		return 0, fmt.Errorf("%w: index %d", ErrUnknownLevel, i)
	}
	return t.multipliers[i], nil
}

// StartingLevels returns the level indices a capture at the given dust
// cost may have, in ascending order.
func (t *LevelTable) StartingLevels(dust int, halfLevels bool) ([]LevelIndex, error) {
	b, ok := t.bands[dust]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDust, dust)
	}
	out := append([]LevelIndex(nil), b.Whole...)
	if halfLevels {
		out = append(out, b.Half...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// DustFor returns the dust cost shown for a creature at level index i.
func (t *LevelTable) DustFor(i LevelIndex) (int, error) {
	for cost, b := range t.bands {
		for _, idx := range b.Whole {
			if idx == i {
				return cost, nil
			}
		}
		for _, idx := range b.Half {
			if idx == i {
				return cost, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownLevel, i)
}

// DustCosts returns the known dust costs in ascending order.
func (t *LevelTable) DustCosts() []int {
	out := make([]int, 0, len(t.bands))
	for cost := range t.bands {
		out = append(out, cost)
	}
	sort.Ints(out)
	return out
}

// BandsFromCosts lays dust costs onto the curve the way the game does:
// each cost covers two consecutive whole levels and the half level after
// each of them, starting at level 1. Levels past max are clipped.
func BandsFromCosts(costs []int, maxLevel LevelIndex) []DustBand {
	const levelsPerBand = 4
	bands := make([]DustBand, 0, len(costs))
	for k, cost := range costs {
		b := DustBand{Cost: cost}
		for off := 0; off < levelsPerBand; off++ {
			idx := LevelIndex(k*levelsPerBand + off)
			if idx > maxLevel {
				break
			}
			if idx.IsHalf() {
				b.Half = append(b.Half, idx)
			} else {
				b.Whole = append(b.Whole, idx)
			}
		}
		if len(b.Whole) > 0 || len(b.Half) > 0 {
			bands = append(bands, b)
		}
	}
	return bands
}
