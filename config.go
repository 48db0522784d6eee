package stratfilter

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/synaptecltd/stratfilter/forcing"
	"gopkg.in/yaml.v2"
)

// DefaultRunCount is the number of runs in a Monte Carlo batch.
const DefaultRunCount = 100

// Params are the driving parameters of a simulation.
type Params struct {
	Mean   float64 `mapstructure:"mean" json:"mean"`     // drift of the elevation increments
	Spread float64 `mapstructure:"spread" json:"spread"` // standard deviation of the elevation increments
}

// Config configures a Simulator. Values are normally loaded from YAML with
// LoadConfig and overridden from the command line.
type Config struct {
	Horizon float64 `mapstructure:"horizon"` // length of the record
	Step    float64 `mapstructure:"step"`    // spacing of the time axis

	Mean   float64 `mapstructure:"mean"`   // default drift
	Spread float64 `mapstructure:"spread"` // default spread

	MeanMin   float64 `mapstructure:"mean_min"`
	MeanMax   float64 `mapstructure:"mean_max"`
	SpreadMin float64 `mapstructure:"spread_min"`
	SpreadMax float64 `mapstructure:"spread_max"`

	RunCount  int    `mapstructure:"run_count"` // runs per Monte Carlo batch
	Aggregate bool   `mapstructure:"aggregate"` // whether batches are run by default
	Seed      uint64 `mapstructure:"seed"`      // 0 draws a seed from the system's entropy source
	Workers   int    `mapstructure:"workers"`   // goroutines used for a batch

	Forcing forcing.Container `mapstructure:"forcing"`
}

var presets = map[string]func() Config{
	"short": func() Config {
		c := defaultConfig()
		c.Horizon = 20
		return c
	},
	"long": defaultConfig,
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Horizon:   50,
		Step:      DefaultStep,
		Mean:      0,
		Spread:    1,
		MeanMin:   -1,
		MeanMax:   1,
		SpreadMin: 0,
		SpreadMax: 5,
		RunCount:  DefaultRunCount,
		Workers:   1,
	}
}

// Preset returns a named configuration. "short" uses a horizon of 20 and
// "long" (the default) a horizon of 50.
func Preset(name string) (Config, error) {
	if name == "" {
		return DefaultConfig(), nil
	}
	preset, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown preset %q (available: %s)", ErrInvalidParameter, name, strings.Join(PresetNames(), ", "))
	}
	return preset(), nil
}

// PresetNames returns the available preset names in lexical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Params returns the default driving parameters of the configuration.
func (c Config) Params() Params {
	return Params{Mean: c.Mean, Spread: c.Spread}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if !isFinite(c.Horizon) || c.Horizon <= 0 {
		return fmt.Errorf("%w: horizon must be greater than 0, got %v", ErrInvalidParameter, c.Horizon)
	}
	if !isFinite(c.Step) || c.Step <= 0 {
		return fmt.Errorf("%w: step must be greater than 0, got %v", ErrInvalidParameter, c.Step)
	}
	if c.RunCount <= 0 {
		return fmt.Errorf("%w: run_count must be greater than 0, got %d", ErrInvalidParameter, c.RunCount)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidParameter, c.Workers)
	}
	if !isFinite(c.MeanMin) || !isFinite(c.MeanMax) || c.MeanMin > c.MeanMax {
		return fmt.Errorf("%w: mean bounds [%v, %v] are not a valid range", ErrInvalidParameter, c.MeanMin, c.MeanMax)
	}
	if !isFinite(c.SpreadMin) || !isFinite(c.SpreadMax) || c.SpreadMin < 0 || c.SpreadMin > c.SpreadMax {
		return fmt.Errorf("%w: spread bounds [%v, %v] are not a valid non-negative range", ErrInvalidParameter, c.SpreadMin, c.SpreadMax)
	}
	return c.CheckParams(c.Params())
}

// CheckParams checks that p lies within the configured bounds.
func (c Config) CheckParams(p Params) error {
	if err := validateWalk(p.Mean, p.Spread); err != nil {
		return err
	}
	if p.Mean < c.MeanMin || p.Mean > c.MeanMax {
		return fmt.Errorf("%w: mean %v outside [%v, %v]", ErrInvalidParameter, p.Mean, c.MeanMin, c.MeanMax)
	}
	if p.Spread < c.SpreadMin || p.Spread > c.SpreadMax {
		return fmt.Errorf("%w: spread %v outside [%v, %v]", ErrInvalidParameter, p.Spread, c.SpreadMin, c.SpreadMax)
	}
	return nil
}

// LoadConfig reads a YAML configuration file. See ParseConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML into a Config. An optional top level "preset" key
// selects the base configuration that the remaining keys override.
func ParseConfig(data []byte) (Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}

	normalised, err := normaliseYAML(raw)
	if err != nil {
		return Config{}, err
	}
	m, _ := normalised.(map[string]interface{})

	name, _ := m["preset"].(string)
	delete(m, "preset")
	cfg, err := Preset(name)
	if err != nil {
		return Config{}, err
	}

	if err := DecodeConfig(m, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DecodeConfig overlays the values of a generic map onto cfg. Keys not present
// in m are left unchanged. This supports configuration solutions that hand
// over plain maps, such as command line key=value overrides.
func DecodeConfig(m map[string]interface{}, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			forcing.DecodeHook(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return nil
}

// yaml.v2 decodes nested mappings as map[interface{}]interface{}; convert them
// to string keyed maps so mapstructure and the forcing hooks can use them.
func normaliseYAML(v interface{}) (interface{}, error) {
	switch v := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for key, value := range v {
			k, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("%w: non-string key %v", ErrInvalidParameter, key)
			}
			n, err := normaliseYAML(value)
			if err != nil {
				return nil, err
			}
			m[k] = n
		}
		return m, nil
	case map[string]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, value := range v {
			n, err := normaliseYAML(value)
			if err != nil {
				return nil, err
			}
			m[k] = n
		}
		return m, nil
	case []interface{}:
		s := make([]interface{}, len(v))
		for i, value := range v {
			n, err := normaliseYAML(value)
			if err != nil {
				return nil, err
			}
			s[i] = n
		}
		return s, nil
	default:
		return v, nil
	}
}
