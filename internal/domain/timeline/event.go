// Package timeline holds a creature's observation history: the capture,
// every power-up and evolution after it, and an optional appraisal.
package timeline

// Kind names an event variant.
type Kind string

// Event kinds.
const (
	KindOrigin    Kind = "origin"
	KindPowerUp   Kind = "power_up"
	KindEvolution Kind = "evolution"
)

// Default step counts for events recorded without an explicit count.
const (
	DefaultPowerUpSteps   = 1
	DefaultEvolutionSteps = 0
)

// Observation is what the player reads off the screen at one point.
type Observation struct {
	CP   int `json:"cp" validate:"gte=10"`
	HP   int `json:"hp" validate:"gte=10"`
	Dust int `json:"dust" validate:"gt=0"`
}

// Event is one entry of a timeline. The set of variants is closed:
// Origin, PowerUp and Evolution.
type Event interface {
	Kind() Kind
	Observed() Observation
	event()
}

// Origin is the capture that starts every timeline.
type Origin struct {
	Observation
	Species    string `json:"species" validate:"required"`
	HalfLevels bool   `json:"half_levels"`
}

// PowerUp records stat growth without a species change.
type PowerUp struct {
	Observation
	Steps int `json:"steps" validate:"gte=0"`
}

// Evolution records a species change, optionally with growth.
type Evolution struct {
	Observation
	Species string `json:"species" validate:"required"`
	Steps   int    `json:"steps" validate:"gte=0"`
}

func (Origin) Kind() Kind    { return KindOrigin }
func (PowerUp) Kind() Kind   { return KindPowerUp }
func (Evolution) Kind() Kind { return KindEvolution }

func (e Origin) Observed() Observation    { return e.Observation }
func (e PowerUp) Observed() Observation   { return e.Observation }
func (e Evolution) Observed() Observation { return e.Observation }

func (Origin) event()    {}
func (PowerUp) event()   {}
func (Evolution) event() {}
