// Package inputs implements the global-inputs engine: a typed, observable
// key/value store whose entries bind onto theme slot rules and onto state
// machine inputs. Every mutation notifies observers, rewrites bound slots
// in place, pushes the updated slot document to the renderer, and mirrors
// the value into running state machines.
package inputs

import (
	"encoding/json"
	"fmt"

	"dotlottie-go/internal/binding"
	"dotlottie-go/internal/slots"
)

// Type enumerates global input value types.
type Type int

const (
	TypeColor Type = iota
	TypeVector
	TypeNumeric
	TypeBoolean
	TypeGradient
	TypeImage
	TypeString
)

// String returns the wire name of the type.
func (t Type) String() string {
	switch t {
	case TypeColor:
		return "Color"
	case TypeVector:
		return "Vector"
	case TypeNumeric:
		return "Numeric"
	case TypeBoolean:
		return "Boolean"
	case TypeGradient:
		return "Gradient"
	case TypeImage:
		return "Image"
	case TypeString:
		return "String"
	default:
		return "Unknown"
	}
}

func typeFromString(s string) (Type, error) {
	switch s {
	case "Color":
		return TypeColor, nil
	case "Vector":
		return TypeVector, nil
	case "Numeric":
		return TypeNumeric, nil
	case "Boolean":
		return TypeBoolean, nil
	case "Gradient":
		return TypeGradient, nil
	case "Image":
		return TypeImage, nil
	case "String":
		return TypeString, nil
	default:
		return 0, fmt.Errorf("unknown global input type %q", s)
	}
}

// ThemeBinding addresses one slot position inside one theme rule.
type ThemeBinding struct {
	ThemeID string
	RuleID  string
	Path    binding.Path
}

// MachineBinding names the state machine inputs mirroring this input.
type MachineBinding struct {
	StateMachineID string
	InputNames     []string
}

// Value is the typed payload of an input.
type Value struct {
	Type     Type
	Color    []float32
	Vector   [2]float32
	Numeric  float32
	Boolean  bool
	Gradient []slots.GradientStop
	Image    slots.ImageValue
	String   string
}

// Input is one named global input with its bindings.
type Input struct {
	Name            string
	Value           Value
	Expression      string
	ThemeBindings   []ThemeBinding
	MachineBindings []MachineBinding
}

// rawInput is the authoring-side JSON shape.
type rawInput struct {
	Type       string          `json:"type"`
	Value      json.RawMessage `json:"value"`
	Expression string          `json:"expression,omitempty"`
	Bindings   struct {
		Themes []struct {
			ThemeID string `json:"themeId"`
			RuleID  string `json:"ruleId"`
			Path    string `json:"path"`
		} `json:"themes,omitempty"`
		StateMachines []struct {
			StateMachineID string   `json:"stateMachineId"`
			InputName      []string `json:"inputName"`
		} `json:"stateMachines,omitempty"`
	} `json:"bindings"`
}

// Parse decodes a global-inputs document. Binding paths are parsed and
// cached eagerly; a duplicate (themeId, ruleId) pair inside one input
// fails the load.
func Parse(data string) (map[string]*Input, error) {
	var raw map[string]rawInput
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("global inputs parse: %w", err)
	}

	out := make(map[string]*Input, len(raw))
	for name, entry := range raw {
		input, err := buildInput(name, entry)
		if err != nil {
			return nil, fmt.Errorf("global input %q: %w", name, err)
		}
		out[name] = input
	}
	return out, nil
}

func buildInput(name string, raw rawInput) (*Input, error) {
	inputType, err := typeFromString(raw.Type)
	if err != nil {
		return nil, err
	}

	value, err := decodeValue(inputType, raw.Value)
	if err != nil {
		return nil, err
	}

	input := &Input{Name: name, Value: value, Expression: raw.Expression}

	seen := make(map[string]struct{})
	for _, tb := range raw.Bindings.Themes {
		key := tb.ThemeID + "\x00" + tb.RuleID
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate theme binding (%s, %s)", tb.ThemeID, tb.RuleID)
		}
		seen[key] = struct{}{}

		path, err := binding.Parse(tb.Path)
		if err != nil {
			return nil, fmt.Errorf("binding (%s, %s): %w", tb.ThemeID, tb.RuleID, err)
		}
		input.ThemeBindings = append(input.ThemeBindings, ThemeBinding{
			ThemeID: tb.ThemeID,
			RuleID:  tb.RuleID,
			Path:    path,
		})
	}

	for _, mb := range raw.Bindings.StateMachines {
		input.MachineBindings = append(input.MachineBindings, MachineBinding{
			StateMachineID: mb.StateMachineID,
			InputNames:     append([]string(nil), mb.InputName...),
		})
	}
	return input, nil
}

func decodeValue(t Type, raw json.RawMessage) (Value, error) {
	value := Value{Type: t}
	if raw == nil {
		return value, nil
	}

	switch t {
	case TypeColor:
		var components []float32
		if err := json.Unmarshal(raw, &components); err == nil {
			if err := slots.ValidateColor(components); err != nil {
				return value, err
			}
			value.Color = components
			return value, nil
		}
		var hex string
		if err := json.Unmarshal(raw, &hex); err != nil {
			return value, fmt.Errorf("color value is neither components nor hex")
		}
		components, err := slots.ColorFromHex(hex)
		if err != nil {
			return value, err
		}
		value.Color = components

	case TypeVector:
		var components []float32
		if err := json.Unmarshal(raw, &components); err != nil {
			return value, fmt.Errorf("vector value: %w", err)
		}
		v := slots.NormalizeVector(components)
		value.Vector = [2]float32{v[0], v[1]}

	case TypeNumeric:
		if err := json.Unmarshal(raw, &value.Numeric); err != nil {
			return value, fmt.Errorf("numeric value: %w", err)
		}

	case TypeBoolean:
		if err := json.Unmarshal(raw, &value.Boolean); err != nil {
			return value, fmt.Errorf("boolean value: %w", err)
		}

	case TypeGradient:
		if err := json.Unmarshal(raw, &value.Gradient); err != nil {
			return value, fmt.Errorf("gradient value: %w", err)
		}

	case TypeImage:
		if err := json.Unmarshal(raw, &value.Image); err != nil {
			return value, fmt.Errorf("image value: %w", err)
		}

	case TypeString:
		if err := json.Unmarshal(raw, &value.String); err != nil {
			return value, fmt.Errorf("string value: %w", err)
		}
	}
	return value, nil
}
