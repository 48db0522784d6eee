package forcing

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/synaptecltd/stratfilter/mathfuncs"
)

// Modulates elevation increments using continuous profiles.
type trendForcing struct {
	window

	Magnitude float64 // amplitude passed to the profile, default 0
	Invert    bool    // true multiplies the profile by -1.0
	Reverse   bool    // true uses Magnitude minus the profile (mirrors the profile in time for ramps)

	// internal state
	profileName string            // name of the profile, "linear" if empty
	profile     mathfuncs.Profile // set from profileName
	period      float64           // period passed to the profile; equals duration when not set
}

// Parameters used to request a trend forcing. These map onto the fields of trendForcing.
type TrendParams struct {
	Type       string    `mapstructure:"type"`        // always "trend", used when decoding mixed lists
	ID         uuid.UUID `mapstructure:"id"`          // identifier, generated if empty
	Name       string    `mapstructure:"name"`        // name of the forcing, used for identification
	Repeats    uint64    `mapstructure:"repeats"`     // the number of active windows, 0 for infinite
	Off        bool      `mapstructure:"off"`         // true: forcing deactivated
	StartDelay float64   `mapstructure:"start_delay"` // the delay before each active window
	Duration   float64   `mapstructure:"duration"`    // the length of each active window, 0 for continuous
	Period     float64   `mapstructure:"period"`      // period passed to the profile, 0 uses Duration

	Magnitude   float64 `mapstructure:"magnitude"` // amplitude passed to the profile
	ProfileName string  `mapstructure:"profile"`   // name of the profile, empty defaults to "linear"
	Invert      bool    `mapstructure:"invert"`    // true inverts the profile
	Reverse     bool    `mapstructure:"reverse"`   // true subtracts the profile from Magnitude
}

// Returns a trendForcing pointer with the requested parameters, checking for invalid values.
func NewTrendForcing(params TrendParams) (*trendForcing, error) {
	t := &trendForcing{
		Magnitude: params.Magnitude,
		Invert:    params.Invert,
		Reverse:   params.Reverse,
	}
	t.setIdentity(params.ID, params.Name, "trend")
	t.Repeats = params.Repeats
	t.Off = params.Off

	if err := t.setStartDelay(params.StartDelay); err != nil {
		return nil, err
	}
	if err := t.setDuration(params.Duration); err != nil {
		return nil, err
	}
	if err := t.SetPeriod(params.Period); err != nil {
		return nil, err
	}
	if err := t.SetProfileByName(params.ProfileName); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *trendForcing) delta(_ *rand.Rand, now float64) float64 {
	elapsed, ok := t.elapsed(now)
	if !ok {
		return 0.0
	}

	value := t.profile(elapsed, t.Magnitude, t.period)

	switch {
	case t.Reverse && t.Invert:
		return -(t.Magnitude - value)
	case t.Reverse:
		return t.Magnitude - value
	case t.Invert:
		return -value
	default:
		return value
	}
}

// Setters

// Sets the profile period if period >= 0. A zero period defers to the window
// duration, which must then be non-zero.
func (t *trendForcing) SetPeriod(period float64) error {
	if period < 0 || math.IsNaN(period) || math.IsInf(period, 0) {
		return errors.New("period must be a finite value greater than or equal to 0")
	}
	if period == 0 {
		if t.duration == 0 {
			return errors.New("period must be set for a continuous trend")
		}
		period = t.duration
	}
	t.period = period
	return nil
}

// Sets the profile by name, defaulting to "linear".
func (t *trendForcing) SetProfileByName(name string) error {
	p, resolved, err := lookupProfile(name, true)
	if err != nil {
		return err
	}
	t.profile = p
	t.profileName = resolved
	return nil
}

// Getters

func (t *trendForcing) GetPeriod() float64 {
	return t.period
}

func (t *trendForcing) GetProfileName() string {
	return t.profileName
}
