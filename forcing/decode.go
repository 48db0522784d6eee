package forcing

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

var forcingType = reflect.TypeOf((*Forcing)(nil)).Elem()

// DecodeHook returns a mapstructure hook that builds the concrete forcing type
// for any field or element declared as Forcing. This lets a Container be
// decoded from generic maps such as parsed YAML.
func DecodeHook() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != forcingType {
			return data, nil
		}
		return NewFromMap(data)
	}
}

// NewFromMap creates a forcing from a generic map based on its "type" (or "Type") field.
func NewFromMap(data interface{}) (Forcing, error) {
	m, ok := data.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("forcing entry cannot be parsed to map[string]interface{}: %v", data)
	}

	// must check both spellings, some parsers keep the key case and some don't
	typeStr, ok := m["type"].(string)
	if !ok {
		typeStr, ok = m["Type"].(string)
		if !ok {
			return nil, errors.New("forcing type field is missing or not a string")
		}
	}

	switch typeStr {
	case "trend":
		var params TrendParams
		if err := decodeParams(m, &params); err != nil {
			return nil, fmt.Errorf("trend forcing: %w", err)
		}
		t, err := NewTrendForcing(params)
		if err != nil {
			return nil, fmt.Errorf("trend forcing: %w", err)
		}
		return t, nil
	case "event":
		var params EventParams
		if err := decodeParams(m, &params); err != nil {
			return nil, fmt.Errorf("event forcing: %w", err)
		}
		e, err := NewEventForcing(params)
		if err != nil {
			return nil, fmt.Errorf("event forcing: %w", err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown forcing type: %s", typeStr)
	}
}

// Use mapstructure to decode a generic map into a params struct.
func decodeParams(m map[string]interface{}, params interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(), // parses uuids
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           params,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(m)
}
