// Package appraisal models the team leader's qualitative appraisal and
// checks candidates against it.
package appraisal

import (
	"fmt"
	"strings"
)

// Overall is the overall-quality band of an appraisal.
type Overall int

// Overall bands, best first.
const (
	Wonder Overall = iota + 1
	Attention
	Average
	Likely
)

// TopStat is the band the single largest hidden stat falls into.
type TopStat int

// Top-stat bands, best first.
const (
	Exceed TopStat = iota + 1
	Impressed
	Trending
	Norm
)

// overallPhrases maps the keyword of each in-game phrasing to its band.
var overallPhrases = map[string]Overall{ //nolint:gochecknoglobals // phrase catalog
	"wonder": Wonder, "amazes": Wonder, "best": Wonder,
	"attention": Attention, "strong": Attention,
	"average": Average, "decent": Average,
	"likely": Likely, "like": Likely, "room": Likely,
}

var topStatPhrases = map[string]TopStat{ //nolint:gochecknoglobals // phrase catalog
	"exceed": Exceed, "blown": Exceed, "best": Exceed,
	"impressed": Impressed, "excellent": Impressed, "strong": Impressed,
	"trending": Trending, "job": Trending, "good": Trending,
	"norm": Norm, "point": Norm, "basic": Norm,
}

// ParseOverall resolves a phrase keyword such as "amazes" to its band.
func ParseOverall(word string) (Overall, error) {
	o, ok := overallPhrases[strings.ToLower(strings.TrimSpace(word))]
	if !ok {
		return 0, fmt.Errorf("%w: overall %q", ErrUnknownPhrase, word)
	}
	return o, nil
}

// ParseTopStat resolves a phrase keyword such as "blown" to its band.
func ParseTopStat(word string) (TopStat, error) {
	t, ok := topStatPhrases[strings.ToLower(strings.TrimSpace(word))]
	if !ok {
		return 0, fmt.Errorf("%w: top stat %q", ErrUnknownPhrase, word)
	}
	return t, nil
}

func (o Overall) String() string {
	switch o {
	case Wonder:
		return "wonder"
	case Attention:
		return "attention"
	case Average:
		return "average"
	case Likely:
		return "likely"
	default:
		return fmt.Sprintf("overall(%d)", int(o))
	}
}

func (t TopStat) String() string {
	switch t {
	case Exceed:
		return "exceed"
	case Impressed:
		return "impressed"
	case Trending:
		return "trending"
	case Norm:
		return "norm"
	default:
		return fmt.Sprintf("topstat(%d)", int(t))
	}
}

// PercentRange is a closed percentage interval.
type PercentRange struct {
	Min, Max float64
}

// Contains reports whether p lies in the closed interval.
func (r PercentRange) Contains(p float64) bool { return p >= r.Min && p <= r.Max }

// ValueRange is a closed interval over a single hidden stat value.
type ValueRange struct {
	Min, Max int
}

// Contains reports whether v lies in the closed interval.
func (r ValueRange) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// Table holds the intervals each band stands for.
type Table struct {
	Overall map[Overall]PercentRange
	TopStat map[TopStat]ValueRange
}

// DefaultTable returns the published appraisal intervals.
func DefaultTable() Table {
	return Table{
		Overall: map[Overall]PercentRange{
			Wonder:    {Min: 82.2, Max: 100},
			Attention: {Min: 66.7, Max: 80},
			Average:   {Min: 51.1, Max: 64.4},
			Likely:    {Min: 0, Max: 48.9},
		},
		TopStat: map[TopStat]ValueRange{
			Exceed:    {Min: 15, Max: 15},
			Impressed: {Min: 13, Max: 14},
			Trending:  {Min: 8, Max: 12},
			Norm:      {Min: 0, Max: 7},
		},
	}
}
