package dotlottie

import (
	"dotlottie-go/internal/debug"
	"dotlottie-go/internal/inputs"
)

// Global inputs surface. Loading replaces any previous inputs engine;
// bindings resolve against the active theme and the running state machine.

// GlobalInputsLoadData parses a global-inputs document.
func (p *DotLottiePlayer) GlobalInputsLoadData(data string) bool {
	engine, err := inputs.NewEngine(data, p, p.log)
	if err != nil {
		p.log.LogInputsf(debug.LogLevelError, "load: %v", err)
		return false
	}
	p.globalInputs = engine
	return true
}

// GlobalInputsLoad loads a global-inputs document from the open container
// by id.
func (p *DotLottiePlayer) GlobalInputsLoad(globalInputsID string) bool {
	if p.reader == nil {
		return false
	}
	data, err := p.reader.GlobalInputs(globalInputsID)
	if err != nil {
		p.log.LogContainerf(debug.LogLevelWarning, "global inputs %q: %v", globalInputsID, err)
		return false
	}
	return p.GlobalInputsLoadData(data)
}

// Typed setters. Each mutation notifies observers, rewrites bound theme
// slots, pushes the slot document, and mirrors into state machine inputs.

func (p *DotLottiePlayer) SetColorInput(name string, components []float32) bool {
	return p.globalInputsSet(func(e *inputs.Engine) error { return e.SetColor(name, components) })
}

func (p *DotLottiePlayer) SetGradientInput(name string, stops []GradientStop) bool {
	return p.globalInputsSet(func(e *inputs.Engine) error { return e.SetGradient(name, stops) })
}

func (p *DotLottiePlayer) SetScalarInput(name string, value float32) bool {
	return p.globalInputsSet(func(e *inputs.Engine) error { return e.SetNumeric(name, value) })
}

func (p *DotLottiePlayer) SetNumericInput(name string, value float32) bool {
	return p.SetScalarInput(name, value)
}

func (p *DotLottiePlayer) SetVectorInput(name string, x, y float32) bool {
	return p.globalInputsSet(func(e *inputs.Engine) error { return e.SetVector(name, x, y) })
}

func (p *DotLottiePlayer) SetBooleanInput(name string, value bool) bool {
	return p.globalInputsSet(func(e *inputs.Engine) error { return e.SetBoolean(name, value) })
}

func (p *DotLottiePlayer) SetTextInput(name string, value string) bool {
	return p.globalInputsSet(func(e *inputs.Engine) error { return e.SetText(name, value) })
}

func (p *DotLottiePlayer) globalInputsSet(set func(*inputs.Engine) error) bool {
	if p.globalInputs == nil {
		return false
	}
	if err := set(p.globalInputs); err != nil {
		p.log.LogInputsf(debug.LogLevelWarning, "%v", err)
		return false
	}
	return true
}

// Typed getters.

func (p *DotLottiePlayer) GetScalarInput(name string) (float32, bool) {
	if p.globalInputs == nil {
		return 0, false
	}
	return p.globalInputs.GetNumeric(name)
}

func (p *DotLottiePlayer) GetColorInput(name string) ([]float32, bool) {
	if p.globalInputs == nil {
		return nil, false
	}
	return p.globalInputs.GetColor(name)
}

func (p *DotLottiePlayer) GetVectorInput(name string) ([2]float32, bool) {
	if p.globalInputs == nil {
		return [2]float32{}, false
	}
	return p.globalInputs.GetVector(name)
}

func (p *DotLottiePlayer) GetBooleanInput(name string) (bool, bool) {
	if p.globalInputs == nil {
		return false, false
	}
	return p.globalInputs.GetBoolean(name)
}

func (p *DotLottiePlayer) GetTextInput(name string) (string, bool) {
	if p.globalInputs == nil {
		return "", false
	}
	return p.globalInputs.GetString(name)
}

func (p *DotLottiePlayer) GetGradientInput(name string) ([]GradientStop, bool) {
	if p.globalInputs == nil {
		return nil, false
	}
	return p.globalInputs.GetGradient(name)
}

// GlobalInputsSubscribe registers a change observer.
func (p *DotLottiePlayer) GlobalInputsSubscribe(o GlobalInputsObserver) {
	if p.globalInputs != nil {
		p.globalInputs.Subscribe(o)
	}
}

func (p *DotLottiePlayer) GlobalInputsUnsubscribe(o GlobalInputsObserver) {
	if p.globalInputs != nil {
		p.globalInputs.Unsubscribe(o)
	}
}

// The inputs.Host capability: the engine writes into state machine inputs
// by machine id.

func (p *DotLottiePlayer) StateMachineSetNumeric(machineID, inputName string, value float32) {
	if p.machine != nil && p.machine.ID() == machineID {
		p.machine.SetNumeric(inputName, value)
	}
}

func (p *DotLottiePlayer) StateMachineSetString(machineID, inputName, value string) {
	if p.machine != nil && p.machine.ID() == machineID {
		p.machine.SetString(inputName, value)
	}
}

func (p *DotLottiePlayer) StateMachineSetBoolean(machineID, inputName string, value bool) {
	if p.machine != nil && p.machine.ID() == machineID {
		p.machine.SetBoolean(inputName, value)
	}
}
