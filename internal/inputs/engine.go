package inputs

import (
	"fmt"

	"dotlottie-go/internal/binding"
	"dotlottie-go/internal/debug"
	"dotlottie-go/internal/slots"
)

// Host is the capability the engine uses to reach the player's theme
// slots, the renderer, and running state machines. It is a back reference,
// never ownership.
type Host interface {
	// ActiveThemeID reports the theme currently applied, "" for none.
	ActiveThemeID() string
	// ThemeSlots returns the in-memory slot document of the active theme.
	ThemeSlots() slots.Document
	// PushSlots serializes the slot document to the renderer.
	PushSlots() error
	// StateMachineSetNumeric and friends write into a running machine's
	// input by name; unknown machines are ignored.
	StateMachineSetNumeric(machineID, inputName string, value float32)
	StateMachineSetString(machineID, inputName, value string)
	StateMachineSetBoolean(machineID, inputName string, value bool)
}

// Observer receives typed change notifications.
type Observer interface {
	OnColorGlobalInputValueChange(name string, oldValue, newValue []float32)
	OnGradientGlobalInputValueChange(name string, oldValue, newValue []slots.GradientStop)
	OnNumericGlobalInputValueChange(name string, oldValue, newValue float32)
	OnBooleanGlobalInputValueChange(name string, oldValue, newValue bool)
	OnStringGlobalInputValueChange(name string, oldValue, newValue string)
	OnVectorGlobalInputValueChange(name string, oldValue, newValue [2]float32)
}

// BaseObserver is a no-op Observer for embedding.
type BaseObserver struct{}

func (BaseObserver) OnColorGlobalInputValueChange(string, []float32, []float32) {}
func (BaseObserver) OnGradientGlobalInputValueChange(string, []slots.GradientStop, []slots.GradientStop) {
}
func (BaseObserver) OnNumericGlobalInputValueChange(string, float32, float32) {}
func (BaseObserver) OnBooleanGlobalInputValueChange(string, bool, bool)       {}
func (BaseObserver) OnStringGlobalInputValueChange(string, string, string)    {}
func (BaseObserver) OnVectorGlobalInputValueChange(string, [2]float32, [2]float32) {
}

// Engine owns the parsed inputs and applies mutations through the host.
type Engine struct {
	host      Host
	log       *debug.Logger
	inputs    map[string]*Input
	observers []Observer
}

// NewEngine parses a global-inputs document.
func NewEngine(data string, host Host, logger *debug.Logger) (*Engine, error) {
	parsed, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = debug.NewLogger(1000)
	}
	return &Engine{host: host, log: logger, inputs: parsed}, nil
}

// Subscribe registers an observer; Unsubscribe removes it.
func (e *Engine) Subscribe(o Observer) {
	for _, existing := range e.observers {
		if existing == o {
			return
		}
	}
	e.observers = append(e.observers, o)
}

func (e *Engine) Unsubscribe(o Observer) {
	for i, existing := range e.observers {
		if existing == o {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// Input returns the named input.
func (e *Engine) Input(name string) (*Input, bool) {
	input, ok := e.inputs[name]
	return input, ok
}

// Names lists the declared input names.
func (e *Engine) Names() []string {
	out := make([]string, 0, len(e.inputs))
	for name := range e.inputs {
		out = append(out, name)
	}
	return out
}

// Typed getters.
func (e *Engine) GetNumeric(name string) (float32, bool) {
	if input, ok := e.inputs[name]; ok && input.Value.Type == TypeNumeric {
		return input.Value.Numeric, true
	}
	return 0, false
}

func (e *Engine) GetString(name string) (string, bool) {
	if input, ok := e.inputs[name]; ok && input.Value.Type == TypeString {
		return input.Value.String, true
	}
	return "", false
}

func (e *Engine) GetBoolean(name string) (bool, bool) {
	if input, ok := e.inputs[name]; ok && input.Value.Type == TypeBoolean {
		return input.Value.Boolean, true
	}
	return false, false
}

func (e *Engine) GetColor(name string) ([]float32, bool) {
	if input, ok := e.inputs[name]; ok && input.Value.Type == TypeColor {
		return input.Value.Color, true
	}
	return nil, false
}

func (e *Engine) GetVector(name string) ([2]float32, bool) {
	if input, ok := e.inputs[name]; ok && input.Value.Type == TypeVector {
		return input.Value.Vector, true
	}
	return [2]float32{}, false
}

func (e *Engine) GetGradient(name string) ([]slots.GradientStop, bool) {
	if input, ok := e.inputs[name]; ok && input.Value.Type == TypeGradient {
		return input.Value.Gradient, true
	}
	return nil, false
}

// SetNumeric mutates a numeric input and propagates the change.
func (e *Engine) SetNumeric(name string, value float32) error {
	input, err := e.typed(name, TypeNumeric)
	if err != nil {
		return err
	}
	old := input.Value.Numeric
	input.Value.Numeric = value
	for _, o := range e.observers {
		o.OnNumericGlobalInputValueChange(name, old, value)
	}
	return e.propagate(input, func(slot *slots.Slot, path binding.Path) error {
		return binding.ApplyNumeric(slot, path, value)
	}, func(machineID, inputName string) {
		e.host.StateMachineSetNumeric(machineID, inputName, value)
	})
}

// SetColor mutates a color input (3 or 4 components).
func (e *Engine) SetColor(name string, components []float32) error {
	input, err := e.typed(name, TypeColor)
	if err != nil {
		return err
	}
	if err := slots.ValidateColor(components); err != nil {
		return err
	}
	old := input.Value.Color
	input.Value.Color = append([]float32(nil), components...)
	for _, o := range e.observers {
		o.OnColorGlobalInputValueChange(name, old, input.Value.Color)
	}
	return e.propagate(input, func(slot *slots.Slot, path binding.Path) error {
		return binding.ApplyColor(slot, path, components)
	}, nil)
}

// SetVector mutates a 2D vector input.
func (e *Engine) SetVector(name string, x, y float32) error {
	input, err := e.typed(name, TypeVector)
	if err != nil {
		return err
	}
	old := input.Value.Vector
	input.Value.Vector = [2]float32{x, y}
	for _, o := range e.observers {
		o.OnVectorGlobalInputValueChange(name, old, input.Value.Vector)
	}
	return e.propagate(input, func(slot *slots.Slot, path binding.Path) error {
		return binding.ApplyVector(slot, path, []float32{x, y})
	}, nil)
}

// SetBoolean mutates a boolean input.
func (e *Engine) SetBoolean(name string, value bool) error {
	input, err := e.typed(name, TypeBoolean)
	if err != nil {
		return err
	}
	old := input.Value.Boolean
	input.Value.Boolean = value
	for _, o := range e.observers {
		o.OnBooleanGlobalInputValueChange(name, old, value)
	}
	return e.propagate(input, func(slot *slots.Slot, path binding.Path) error {
		return binding.ApplyBoolean(slot, path, value)
	}, func(machineID, inputName string) {
		e.host.StateMachineSetBoolean(machineID, inputName, value)
	})
}

// SetGradient mutates a gradient input.
func (e *Engine) SetGradient(name string, stops []slots.GradientStop) error {
	input, err := e.typed(name, TypeGradient)
	if err != nil {
		return err
	}
	old := input.Value.Gradient
	input.Value.Gradient = append([]slots.GradientStop(nil), stops...)
	for _, o := range e.observers {
		o.OnGradientGlobalInputValueChange(name, old, input.Value.Gradient)
	}
	return e.propagate(input, func(slot *slots.Slot, path binding.Path) error {
		return binding.ApplyGradient(slot, path, stops)
	}, nil)
}

// SetText mutates a string input.
func (e *Engine) SetText(name string, value string) error {
	input, err := e.typed(name, TypeString)
	if err != nil {
		return err
	}
	old := input.Value.String
	input.Value.String = value
	for _, o := range e.observers {
		o.OnStringGlobalInputValueChange(name, old, value)
	}
	return e.propagate(input, func(slot *slots.Slot, path binding.Path) error {
		return binding.ApplyString(slot, path, value)
	}, func(machineID, inputName string) {
		e.host.StateMachineSetString(machineID, inputName, value)
	})
}

func (e *Engine) typed(name string, t Type) (*Input, error) {
	input, ok := e.inputs[name]
	if !ok {
		return nil, fmt.Errorf("unknown global input %q", name)
	}
	if input.Value.Type != t {
		return nil, fmt.Errorf("global input %q is %s, not %s", name, input.Value.Type, t)
	}
	return input, nil
}

// propagate rewrites bound theme slots, pushes the slot document, and
// mirrors the value into bound state machine inputs.
func (e *Engine) propagate(input *Input, apply func(*slots.Slot, binding.Path) error, mirror func(machineID, inputName string)) error {
	activeTheme := e.host.ActiveThemeID()
	document := e.host.ThemeSlots()

	touched := false
	for _, tb := range input.ThemeBindings {
		if tb.ThemeID != activeTheme {
			continue
		}
		slot, ok := document[tb.RuleID]
		if !ok {
			e.log.LogInputsf(debug.LogLevelWarning, "input %q binds unknown slot %q in theme %q",
				input.Name, tb.RuleID, tb.ThemeID)
			continue
		}
		if err := apply(slot, tb.Path); err != nil {
			return fmt.Errorf("input %q slot %q: %w", input.Name, tb.RuleID, err)
		}
		if input.Expression != "" {
			slot.Expression = input.Expression
		}
		touched = true
	}

	if touched {
		if err := e.host.PushSlots(); err != nil {
			return fmt.Errorf("input %q: %w", input.Name, err)
		}
	}

	if mirror != nil {
		for _, mb := range input.MachineBindings {
			for _, inputName := range mb.InputNames {
				mirror(mb.StateMachineID, inputName)
			}
		}
	}
	return nil
}
