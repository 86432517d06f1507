package timeline_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/okian/ivtrack/internal/domain/appraisal"
	"github.com/okian/ivtrack/internal/domain/timeline"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTimelineLifecycle(t *testing.T) {
	Convey("Given a fresh capture", t, func() {
		tl, err := timeline.New("Eevee", timeline.Observation{CP: 420, HP: 70, Dust: 2500}, false, "")
		So(err, ShouldBeNil)

		Convey("Then it starts with an origin and a UUID", func() {
			So(len(tl.Events), ShouldEqual, 1)
			So(tl.Events[0].Kind(), ShouldEqual, timeline.KindOrigin)
			_, parseErr := uuid.Parse(tl.ID)
			So(parseErr, ShouldBeNil)
			So(tl.Name(), ShouldEqual, "Eevee")
			So(tl.CP(), ShouldEqual, 420)
			So(tl.Validate(), ShouldBeNil)
		})

		Convey("When it is powered up and evolved", func() {
			So(tl.PowerUp(timeline.Observation{CP: 440, HP: 72, Dust: 2500}, timeline.DefaultPowerUpSteps), ShouldBeNil)
			So(tl.Evolve("Vaporeon", timeline.Observation{CP: 1100, HP: 170, Dust: 2500}, timeline.DefaultEvolutionSteps), ShouldBeNil)
			So(tl.PowerUp(timeline.Observation{CP: 1130, HP: 172, Dust: 2500}, 2), ShouldBeNil)

			Convey("Then the species sticks to the last evolution", func() {
				So(tl.Species(), ShouldEqual, "Vaporeon")
				So(tl.HP(), ShouldEqual, 172)
				So(len(tl.Events), ShouldEqual, 4)
				So(tl.Events[3].(timeline.PowerUp).Steps, ShouldEqual, 2)
			})
		})

		Convey("When it is renamed", func() {
			tl.Rename("  Bubbles ")

			Convey("Then the nickname wins over the species", func() {
				So(tl.Name(), ShouldEqual, "Bubbles")
			})
		})

		Convey("When an appraisal is attached twice", func() {
			first := appraisal.Statement{Overall: appraisal.Wonder, TopStat: appraisal.Exceed, Attack: true}
			second := appraisal.Statement{Overall: appraisal.Likely, TopStat: appraisal.Norm, Stamina: true}
			So(tl.Appraise(first), ShouldBeNil)
			So(tl.Appraise(second), ShouldBeNil)

			Convey("Then the latest one replaces the first", func() {
				So(*tl.Appraisal, ShouldResemble, second)
			})

			Convey("Then it can be cleared", func() {
				tl.ClearAppraisal()
				So(tl.Appraisal, ShouldBeNil)
			})
		})

		Convey("When an invalid appraisal is attached", func() {
			err := tl.Appraise(appraisal.Statement{Overall: appraisal.Wonder, TopStat: appraisal.Exceed})

			Convey("Then it is refused and nothing is attached", func() {
				So(errors.Is(err, appraisal.ErrNoDominantStat), ShouldBeTrue)
				So(tl.Appraisal, ShouldBeNil)
			})
		})

		Convey("When an impossible observation is appended", func() {
			err := tl.PowerUp(timeline.Observation{CP: 5, HP: 70, Dust: 2500}, 1)

			Convey("Then it is refused", func() {
				So(errors.Is(err, timeline.ErrInvalidEvent), ShouldBeTrue)
				So(len(tl.Events), ShouldEqual, 1)
			})
		})

		Convey("When the timeline is cloned", func() {
			So(tl.Appraise(appraisal.Statement{Overall: appraisal.Wonder, TopStat: appraisal.Exceed, Attack: true}), ShouldBeNil)
			c := tl.Clone()
			c.Appraisal.Attack = false
			_ = c.PowerUp(timeline.Observation{CP: 440, HP: 72, Dust: 2500}, 1)

			Convey("Then the original is untouched", func() {
				So(tl.Appraisal.Attack, ShouldBeTrue)
				So(len(tl.Events), ShouldEqual, 1)
			})
		})
	})
}

func TestTimelineValidate(t *testing.T) {
	Convey("Given malformed timelines", t, func() {
		obs := timeline.Observation{CP: 100, HP: 30, Dust: 200}

		Convey("Then an empty history is rejected", func() {
			So(errors.Is((&timeline.Timeline{}).Validate(), timeline.ErrMissingOrigin), ShouldBeTrue)
		})

		Convey("Then a history not starting with a capture is rejected", func() {
			tl := &timeline.Timeline{Events: []timeline.Event{timeline.PowerUp{Observation: obs, Steps: 1}}}
			So(errors.Is(tl.Validate(), timeline.ErrMissingOrigin), ShouldBeTrue)
		})

		Convey("Then a second capture is rejected", func() {
			tl := &timeline.Timeline{Events: []timeline.Event{
				timeline.Origin{Observation: obs, Species: "Pidgey"},
				timeline.Origin{Observation: obs, Species: "Pidgey"},
			}}
			So(errors.Is(tl.Validate(), timeline.ErrMisplacedEvent), ShouldBeTrue)
		})

		Convey("Then a capture without a species is rejected", func() {
			_, err := timeline.New(" ", obs, false, "")
			So(errors.Is(err, timeline.ErrInvalidEvent), ShouldBeTrue)
		})

		Convey("Then negative steps are rejected", func() {
			tl, err := timeline.New("Pidgey", obs, false, "")
			So(err, ShouldBeNil)
			So(errors.Is(tl.PowerUp(obs, -1), timeline.ErrInvalidEvent), ShouldBeTrue)
		})

		Convey("Then appending to an empty record is rejected", func() {
			tl := &timeline.Timeline{}
			So(errors.Is(tl.PowerUp(obs, 1), timeline.ErrMissingOrigin), ShouldBeTrue)
		})
	})
}
