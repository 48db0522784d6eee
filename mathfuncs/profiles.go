package mathfuncs

import (
	"fmt"
	"math"
	"sort"

	"github.com/teknico/sigourney/fast"
)

// A Profile is a shape function y=f(t,A,P). Takes amplitude, A, and period, P,
// as inputs and returns the value of the profile at elapsed time, t.
type Profile func(t, A, P float64) float64

// DefaultProfile is used by forcings that do not name a profile.
const DefaultProfile = "linear"

// A map between string name and profile pairs
var profiles = map[string]Profile{
	"linear":            linearRamp,
	"sine":              sine,
	"cosine":            cosine,
	"exponential":       exponentialRamp,
	"exponential_decay": exponentialDecay,
	"parabolic":         parabolicRamp,
	"step":              stepFunction,
	"square":            squareWave,
	"sawtooth":          sawtoothWave,
	"impulse":           impulseTrain,
	"flat":              flat,
}

// ProfileNames returns the registered profile names in lexical order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetProfileByName returns the named profile. An empty name selects DefaultProfile.
func GetProfileByName(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	return p, nil
}

// Returns a linear ramp y=(A/P)*t where A is the height reached after one
// period P.
func linearRamp(t, A, P float64) float64 {
	return A / P * t
}

// Returns a sine wave y=A*sin(2*pi*t/P).
func sine(t, A, P float64) float64 {
	return A * math.Sin(2*math.Pi*t/P)
}

// Returns a cosine wave y=A*cos(2*pi*t/P), as a sine shifted by a quarter period.
func cosine(t, A, P float64) float64 {
	return A * fast.Sin(2*math.Pi*t/P+math.Pi/2)
}

// Returns an exponential ramp y=A*exp(t/P) - A where P is the time constant.
func exponentialRamp(t, A, P float64) float64 {
	return A*math.Exp(t/P) - A
}

// Returns an exponential decay y=A*exp(-t/P) where P is the time constant.
func exponentialDecay(t, A, P float64) float64 {
	return A * math.Exp(-t/P)
}

// Returns a parabolic ramp reaching A at t=P.
func parabolicRamp(t, A, P float64) float64 {
	return A * (t / P) * (t / P)
}

// Returns 0 for the first half of every period and A for the second half.
func stepFunction(t, A, P float64) float64 {
	if math.Mod(t, P) < P/2 {
		return 0
	}
	return A
}

// Returns A if sin(2*pi*t/P) >= 0, else -A.
func squareWave(t, A, P float64) float64 {
	if fast.Sin(2*math.Pi*t/P) >= 0 {
		return A
	}
	return -A
}

// Returns a sawtooth wave y=(2*A/pi)*atan(tan(pi*t/P)).
func sawtoothWave(t, A, P float64) float64 {
	return (2 * A / math.Pi) * math.Atan(math.Tan(math.Pi*t/P))
}

// Returns A at the start of every period and 0 elsewhere. The pulse is one
// microsecond wide so it only fires on samples that land on a period boundary.
func impulseTrain(t, A, P float64) float64 {
	if math.Mod(t, P) < 1e-6 {
		return A
	}
	return 0
}

// flat returns the amplitude regardless of time or period.
func flat(_, A, _ float64) float64 {
	return A
}
