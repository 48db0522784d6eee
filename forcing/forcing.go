// Package forcing provides external perturbations that are superimposed on
// the increments of a simulated elevation record.
//   - trend forcings add a named profile (see mathfuncs) during repeating windows,
//     e.g. cyclic base-level change.
//   - event forcings add random pulses with a per-step probability, e.g. storm
//     erosion or flood deposits.
//
// Whether a forcing is active is a pure function of time, so a Container can be
// shared read-only between simulation runs and workers.
package forcing

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/synaptecltd/stratfilter/mathfuncs"
)

// Forcing is the interface for all forcing types (trend, event).
type Forcing interface {
	GetID() uuid.UUID                      // Returns the identifier of the forcing
	GetName() string                       // Returns the human readable name, may be empty
	TypeAsString() string                  // Returns the forcing type as a string
	GetStartDelay() float64                // Returns the delay before each active window
	GetDuration() float64                  // Returns the length of each active window, 0 for continuous
	IsActive(t float64) bool               // Returns whether time t lies inside an active window
	delta(r *rand.Rand, t float64) float64 // Returns the change in elevation increment at time t
}

// Container is an ordered collection of forcings. Order matters: event
// forcings draw from the random source in container order.
type Container []Forcing

// Delta returns the summed contribution of all forcings at time t.
func (c Container) Delta(r *rand.Rand, t float64) float64 {
	value := 0.0
	for _, f := range c {
		value += f.delta(r, t)
	}
	return value
}

// Add appends a forcing and returns its ID.
func (c *Container) Add(f Forcing) uuid.UUID {
	*c = append(*c, f)
	return f.GetID()
}

// Find returns the forcing with the given ID, or nil.
func (c Container) Find(id uuid.UUID) Forcing {
	for _, f := range c {
		if f.GetID() == id {
			return f
		}
	}
	return nil
}

// window holds the timing fields shared by all forcing types.
type window struct {
	id         uuid.UUID
	name       string
	typeName   string
	startDelay float64 // delay before each active window, also the gap between windows
	duration   float64 // length of each active window, 0 for a single continuous window
	Repeats    uint64  // number of windows, 0 for infinite
	Off        bool    // true: forcing deactivated
}

func (w *window) GetID() uuid.UUID {
	return w.id
}

func (w *window) GetName() string {
	return w.name
}

func (w *window) TypeAsString() string {
	return w.typeName
}

func (w *window) GetStartDelay() float64 {
	return w.startDelay
}

func (w *window) GetDuration() float64 {
	return w.duration
}

func (w *window) IsActive(t float64) bool {
	_, ok := w.elapsed(t)
	return ok
}

// Sets the identity fields. A nil id is replaced with a fresh random UUID.
func (w *window) setIdentity(id uuid.UUID, name, typeName string) {
	if id == uuid.Nil {
		id = uuid.New()
	}
	w.id = id
	w.name = name
	w.typeName = typeName
}

// Sets the delay before each active window if startDelay >= 0.
func (w *window) setStartDelay(startDelay float64) error {
	if startDelay < 0 || math.IsNaN(startDelay) || math.IsInf(startDelay, 0) {
		return errors.New("start delay must be a finite value greater than or equal to 0")
	}
	w.startDelay = startDelay
	return nil
}

// Sets the length of each active window if duration >= 0.
func (w *window) setDuration(duration float64) error {
	if duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return errors.New("duration must be a finite value greater than or equal to 0")
	}
	w.duration = duration
	return nil
}

// elapsed returns the time since the start of the active window containing t.
// Windows are laid out as [delay, active] cycles starting at t=0. A zero
// duration means one window that starts after the delay and never ends.
func (w *window) elapsed(t float64) (float64, bool) {
	if w.Off || t < w.startDelay {
		return 0, false
	}
	if w.duration == 0 {
		return t - w.startDelay, true
	}

	cycle := w.startDelay + w.duration
	k := math.Floor(t / cycle)
	if w.Repeats > 0 && k >= float64(w.Repeats) {
		return 0, false
	}

	phase := t - k*cycle
	if phase < w.startDelay {
		return 0, false
	}
	return phase - w.startDelay, true
}

// lookupProfile resolves an optional profile name. Empty names resolve to nil
// unless fallback is set.
func lookupProfile(name string, fallback bool) (mathfuncs.Profile, string, error) {
	if name == "" {
		if !fallback {
			return nil, "", nil
		}
		name = mathfuncs.DefaultProfile
	}
	p, err := mathfuncs.GetProfileByName(name)
	if err != nil {
		return nil, "", err
	}
	return p, name, nil
}
