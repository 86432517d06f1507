package codec_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/ivtrack/internal/adapters/codec"
	"github.com/okian/ivtrack/internal/domain/appraisal"
	"github.com/okian/ivtrack/internal/domain/timeline"
	. "github.com/smartystreets/goconvey/convey"
)

func sample(t *testing.T) *timeline.Timeline {
	t.Helper()
	tl, err := timeline.New("Eevee", timeline.Observation{CP: 420, HP: 70, Dust: 2500}, true, "Sparky")
	if err != nil {
		t.Fatal(err)
	}
	if err := tl.PowerUp(timeline.Observation{CP: 440, HP: 72, Dust: 2500}, 2); err != nil {
		t.Fatal(err)
	}
	if err := tl.Evolve("Vaporeon", timeline.Observation{CP: 1100, HP: 170, Dust: 2500}, 0); err != nil {
		t.Fatal(err)
	}
	if err := tl.Appraise(appraisal.Statement{Overall: appraisal.Attention, TopStat: appraisal.Impressed, Stamina: true}); err != nil {
		t.Fatal(err)
	}
	return tl
}

func TestCodecTimeline(t *testing.T) {
	Convey("Given a timeline with every event kind and an appraisal", t, func() {
		tl := sample(t)

		Convey("When it is encoded and decoded", func() {
			data, err := codec.Encode(tl)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"kind":"power_up"`)
			So(string(data), ShouldContainSubstring, `"overall":"attention"`)

			got, err := codec.Decode(data)
			So(err, ShouldBeNil)

			Convey("Then the timeline survives unchanged", func() {
				So(cmp.Diff(tl, got), ShouldBeEmpty)
			})
		})
	})
}

func TestCodecDefaults(t *testing.T) {
	Convey("Given a document without step counts", t, func() {
		doc := `{"id":"a","events":[
			{"kind":"origin","species":"Pidgey","cp":10,"hp":10,"dust":200},
			{"kind":"power_up","cp":12,"hp":11,"dust":200},
			{"kind":"evolution","species":"Pidgeotto","cp":20,"hp":20,"dust":200}
		],"appraisal":null}`

		got, err := codec.Decode([]byte(doc))
		So(err, ShouldBeNil)

		Convey("Then the default steps apply", func() {
			So(got.Events[1].(timeline.PowerUp).Steps, ShouldEqual, timeline.DefaultPowerUpSteps)
			So(got.Events[2].(timeline.Evolution).Steps, ShouldEqual, timeline.DefaultEvolutionSteps)
			So(got.Events[0].(timeline.Origin).HalfLevels, ShouldBeFalse)
			So(got.Appraisal, ShouldBeNil)
		})
	})
}

func TestCodecRejects(t *testing.T) {
	Convey("Given malformed documents", t, func() {
		cases := map[string]string{
			"not json":      `{"id":`,
			"no id":         `{"events":[]}`,
			"unknown kind":  `{"id":"a","events":[{"kind":"trade","cp":10,"hp":10,"dust":200}]}`,
			"no origin":     `{"id":"a","events":[{"kind":"power_up","cp":10,"hp":10,"dust":200}]}`,
			"bad appraisal": `{"id":"a","events":[{"kind":"origin","species":"Pidgey","cp":10,"hp":10,"dust":200}],"appraisal":{"overall":"meh","top_stat":"norm","attack":true}}`,
			"bad time":      `{"id":"a","created_at":"yesterday","events":[{"kind":"origin","species":"Pidgey","cp":10,"hp":10,"dust":200}]}`,
			"low cp":        `{"id":"a","events":[{"kind":"origin","species":"Pidgey","cp":3,"hp":10,"dust":200}]}`,
			"not an object": `[1,2]`,
		}
		for name, doc := range cases {
			Convey("Then "+name+" is refused", func() {
				_, err := codec.Decode([]byte(doc))
				So(errors.Is(err, codec.ErrMalformed), ShouldBeTrue)
			})
		}
	})
}

func TestCodecCollection(t *testing.T) {
	Convey("Given two timelines", t, func() {
		a := sample(t)
		b, err := timeline.New("Pidgey", timeline.Observation{CP: 10, HP: 10, Dust: 200}, false, "")
		So(err, ShouldBeNil)

		Convey("When the collection is encoded and decoded", func() {
			data, err := codec.EncodeCollection([]*timeline.Timeline{a, b})
			So(err, ShouldBeNil)
			got, err := codec.DecodeCollection(data)
			So(err, ShouldBeNil)

			Convey("Then both come back in order", func() {
				So(cmp.Diff([]*timeline.Timeline{a, b}, got), ShouldBeEmpty)
			})
		})

		Convey("When the input is empty", func() {
			got, err := codec.DecodeCollection(nil)

			Convey("Then it is an empty collection", func() {
				So(err, ShouldBeNil)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When the version is unknown", func() {
			_, err := codec.DecodeCollection([]byte(`{"version":9,"timelines":[]}`))

			Convey("Then it is refused", func() {
				So(errors.Is(err, codec.ErrMalformed), ShouldBeTrue)
			})
		})
	})
}
