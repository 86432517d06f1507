// Package codec is the JSON exchange format for timelines. Events are
// written with an explicit "kind" tag and decoded by switching on it.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/ivtrack/internal/domain/appraisal"
	"github.com/okian/ivtrack/internal/domain/timeline"
	"github.com/tidwall/gjson"
)

// FormatVersion is written into every collection document.
const FormatVersion = 1

// ErrMalformed marks input that is not a valid timeline document.
var ErrMalformed = errors.New("malformed timeline document")

type eventDoc struct {
	Kind       timeline.Kind `json:"kind"`
	Species    string        `json:"species,omitempty"`
	CP         int           `json:"cp"`
	HP         int           `json:"hp"`
	Dust       int           `json:"dust"`
	HalfLevels *bool         `json:"half_levels,omitempty"`
	Steps      *int          `json:"steps,omitempty"`
}

type appraisalDoc struct {
	Overall string `json:"overall"`
	TopStat string `json:"top_stat"`
	Attack  bool   `json:"attack"`
	Defense bool   `json:"defense"`
	Stamina bool   `json:"stamina"`
}

type timelineDoc struct {
	ID        string        `json:"id"`
	Nickname  string        `json:"nickname,omitempty"`
	Events    []eventDoc    `json:"events"`
	Appraisal *appraisalDoc `json:"appraisal"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type collectionDoc struct {
	Version   int           `json:"version"`
	Timelines []timelineDoc `json:"timelines"`
}

// Encode renders one timeline.
func Encode(t *timeline.Timeline) ([]byte, error) {
	doc, err := toDoc(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// EncodeCollection renders a list of timelines as one document.
func EncodeCollection(ts []*timeline.Timeline) ([]byte, error) {
	doc := collectionDoc{Version: FormatVersion, Timelines: make([]timelineDoc, 0, len(ts))}
	for _, t := range ts {
		d, err := toDoc(t)
		if err != nil {
			return nil, err
		}
		doc.Timelines = append(doc.Timelines, d)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func toDoc(t *timeline.Timeline) (timelineDoc, error) {
	doc := timelineDoc{
		ID:        t.ID,
		Nickname:  t.Nickname,
		Events:    make([]eventDoc, 0, len(t.Events)),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	for _, e := range t.Events {
		obs := e.Observed()
		d := eventDoc{Kind: e.Kind(), CP: obs.CP, HP: obs.HP, Dust: obs.Dust}
		switch e := e.(type) {
		case timeline.Origin:
			d.Species = e.Species
			d.HalfLevels = &e.HalfLevels
		case timeline.PowerUp:
			d.Steps = &e.Steps
		case timeline.Evolution:
			d.Species = e.Species
			d.Steps = &e.Steps
		default:
			return timelineDoc{}, fmt.Errorf("%w: unsupported event %T", ErrMalformed, e)
		}
		doc.Events = append(doc.Events, d)
	}
	if a := t.Appraisal; a != nil {
		doc.Appraisal = &appraisalDoc{
			Overall: a.Overall.String(),
			TopStat: a.TopStat.String(),
			Attack:  a.Attack,
			Defense: a.Defense,
			Stamina: a.Stamina,
		}
	}
	return doc, nil
}

// Decode parses one timeline and checks its invariants.
func Decode(data []byte) (*timeline.Timeline, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	return fromResult(gjson.ParseBytes(data))
}

// DecodeCollection parses a collection document. An empty input is an
// empty collection.
func DecodeCollection(data []byte) ([]*timeline.Timeline, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	if v := root.Get("version").Int(); v != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, v)
	}
	var (
		out []*timeline.Timeline
		err error
	)
	root.Get("timelines").ForEach(func(_, v gjson.Result) bool {
		var t *timeline.Timeline
		t, err = fromResult(v)
		if err != nil {
			return false
		}
		out = append(out, t)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func fromResult(r gjson.Result) (*timeline.Timeline, error) {
	if !r.IsObject() {
		return nil, fmt.Errorf("%w: timeline must be an object", ErrMalformed)
	}
	t := &timeline.Timeline{
		ID:       r.Get("id").String(),
		Nickname: r.Get("nickname").String(),
	}
	if t.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrMalformed)
	}
	var err error
	if t.CreatedAt, err = parseTime(r.Get("created_at")); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(r.Get("updated_at")); err != nil {
		return nil, err
	}

	r.Get("events").ForEach(func(_, v gjson.Result) bool {
		var e timeline.Event
		e, err = decodeEvent(v)
		if err != nil {
			return false
		}
		t.Events = append(t.Events, e)
		return true
	})
	if err != nil {
		return nil, err
	}

	if a := r.Get("appraisal"); a.Exists() && a.Type != gjson.Null {
		s, err := decodeAppraisal(a)
		if err != nil {
			return nil, err
		}
		t.Appraisal = &s
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: timeline %s: %v", ErrMalformed, t.ID, err)
	}
	return t, nil
}

func decodeEvent(v gjson.Result) (timeline.Event, error) {
	obs := timeline.Observation{
		CP:   int(v.Get("cp").Int()),
		HP:   int(v.Get("hp").Int()),
		Dust: int(v.Get("dust").Int()),
	}
	switch kind := timeline.Kind(v.Get("kind").String()); kind {
	case timeline.KindOrigin:
		return timeline.Origin{
			Observation: obs,
			Species:     v.Get("species").String(),
			HalfLevels:  v.Get("half_levels").Bool(),
		}, nil
	case timeline.KindPowerUp:
		return timeline.PowerUp{Observation: obs, Steps: steps(v, timeline.DefaultPowerUpSteps)}, nil
	case timeline.KindEvolution:
		return timeline.Evolution{
			Observation: obs,
			Species:     v.Get("species").String(),
			Steps:       steps(v, timeline.DefaultEvolutionSteps),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown event kind %q", ErrMalformed, kind)
	}
}

func steps(v gjson.Result, def int) int {
	s := v.Get("steps")
	if !s.Exists() {
		return def
	}
	return int(s.Int())
}

func decodeAppraisal(a gjson.Result) (appraisal.Statement, error) {
	overall, err := appraisal.ParseOverall(a.Get("overall").String())
	if err != nil {
		return appraisal.Statement{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	top, err := appraisal.ParseTopStat(a.Get("top_stat").String())
	if err != nil {
		return appraisal.Statement{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return appraisal.Statement{
		Overall: overall,
		TopStat: top,
		Attack:  a.Get("attack").Bool(),
		Defense: a.Get("defense").Bool(),
		Stamina: a.Get("stamina").Bool(),
	}, nil
}

func parseTime(v gjson.Result) (time.Time, error) {
	if !v.Exists() || v.String() == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, v.String())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad timestamp %q", ErrMalformed, v.String())
	}
	return ts, nil
}
