package forcing

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/synaptecltd/stratfilter/mathfuncs"
)

// Produces random pulses in the elevation increments: these occur at each time
// step inside an active window based on a probability.
type eventForcing struct {
	window

	Magnitude     float64 // magnitude of pulses, default 0
	VaryMagnitude bool    // whether to apply Gaussian variation to the pulse magnitude

	// Private fields have setters for invalid value checking

	sign        float64 // bias of the pulse sign in [-1, 1]; 0 equally likely, -1 always negative, +1 always positive
	probability float64 // probability of a pulse in each time step

	magFuncName  string
	probFuncName string

	// internal state
	magFunction  mathfuncs.Profile // nil for a constant magnitude
	probFunction mathfuncs.Profile // nil for a constant probability
}

// Parameters used to request an event forcing. These map onto the fields of eventForcing.
type EventParams struct {
	Type       string    `mapstructure:"type"`        // always "event", used when decoding mixed lists
	ID         uuid.UUID `mapstructure:"id"`          // identifier, generated if empty
	Name       string    `mapstructure:"name"`        // name of the forcing, used for identification
	Repeats    uint64    `mapstructure:"repeats"`     // the number of active windows, 0 for infinite
	Off        bool      `mapstructure:"off"`         // true: forcing deactivated
	StartDelay float64   `mapstructure:"start_delay"` // the delay before each active window
	Duration   float64   `mapstructure:"duration"`    // the length of each active window, 0 for continuous

	Magnitude     float64 `mapstructure:"magnitude"`      // magnitude of pulses
	MagFuncName   string  `mapstructure:"mag_func"`       // profile varying the magnitude over the window, empty for constant
	VaryMagnitude bool    `mapstructure:"vary_magnitude"` // whether to apply Gaussian variation to the magnitude
	Sign          float64 `mapstructure:"sign"`           // sign bias in [-1, 1]

	Probability  float64 `mapstructure:"probability"` // probability of a pulse per time step
	ProbFuncName string  `mapstructure:"prob_func"`   // profile varying the probability over the window, empty for constant
}

// Returns an eventForcing pointer with the requested parameters, checking for invalid values.
func NewEventForcing(params EventParams) (*eventForcing, error) {
	e := &eventForcing{
		Magnitude:     params.Magnitude,
		VaryMagnitude: params.VaryMagnitude,
	}
	e.setIdentity(params.ID, params.Name, "event")
	e.Repeats = params.Repeats
	e.Off = params.Off

	if err := e.setStartDelay(params.StartDelay); err != nil {
		return nil, err
	}
	if err := e.setDuration(params.Duration); err != nil {
		return nil, err
	}
	if err := e.SetProbability(params.Probability); err != nil {
		return nil, err
	}
	if err := e.SetSign(params.Sign); err != nil {
		return nil, err
	}
	if err := e.SetMagFunctionByName(params.MagFuncName); err != nil {
		return nil, err
	}
	if err := e.SetProbFunctionByName(params.ProbFuncName); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *eventForcing) delta(r *rand.Rand, now float64) float64 {
	elapsed, ok := e.elapsed(now)
	if !ok {
		return 0.0
	}

	// Don't trigger if the probability is not met
	if r.Float64() >= e.probabilityAt(elapsed) {
		return 0.0
	}

	value := e.Magnitude
	if e.magFunction != nil {
		value = e.magFunction(elapsed, e.Magnitude, e.duration)
	}
	value *= e.drawSign(r)
	if e.VaryMagnitude {
		value *= r.NormFloat64()
	}
	return value
}

// Returns the pulse probability at the given elapsed window time.
func (e *eventForcing) probabilityAt(elapsed float64) float64 {
	if e.probFunction == nil {
		return e.probability
	}
	return math.Abs(e.probFunction(elapsed, e.probability, e.duration))
}

// Returns -1.0 or +1.0 with a probability based on the sign bias.
func (e *eventForcing) drawSign(r *rand.Rand) float64 {
	if r.Float64()*2-1 >= e.sign {
		return -1.0
	}
	return 1.0
}

// Setters

// Sets the probability of a pulse in each time step if 0 <= probability <= 1.
func (e *eventForcing) SetProbability(probability float64) error {
	if !(probability >= 0 && probability <= 1) {
		return errors.New("probability must be between 0 and 1")
	}
	e.probability = probability
	return nil
}

// Sets the sign bias if -1 <= sign <= 1.
func (e *eventForcing) SetSign(sign float64) error {
	if !(sign >= -1.0 && sign <= 1.0) {
		return errors.New("sign must be between -1 and 1")
	}
	e.sign = sign
	return nil
}

// Sets the magnitude profile. Profiles are evaluated over the window duration
// so a continuous window cannot use one.
func (e *eventForcing) SetMagFunctionByName(name string) error {
	p, resolved, err := e.windowedProfile(name)
	if err != nil {
		return err
	}
	e.magFunction, e.magFuncName = p, resolved
	return nil
}

// Sets the probability profile, with the same restriction as the magnitude profile.
func (e *eventForcing) SetProbFunctionByName(name string) error {
	p, resolved, err := e.windowedProfile(name)
	if err != nil {
		return err
	}
	e.probFunction, e.probFuncName = p, resolved
	return nil
}

func (e *eventForcing) windowedProfile(name string) (mathfuncs.Profile, string, error) {
	if name != "" && e.duration == 0 {
		return nil, "", errors.New("duration must be greater than 0 when using a profile")
	}
	return lookupProfile(name, false)
}

// Getters

func (e *eventForcing) GetProbability() float64 {
	return e.probability
}

func (e *eventForcing) GetSign() float64 {
	return e.sign
}

func (e *eventForcing) GetMagFuncName() string {
	return e.magFuncName
}

func (e *eventForcing) GetProbFuncName() string {
	return e.probFuncName
}
