// Package statemachine implements the declarative interaction engine:
// parsed states and transitions with guards, pointer and completion
// listeners, typed inputs, and the per-stimulus evaluation cycle that
// switches animations, configs, and themes on the player.
package statemachine

import (
	"encoding/json"
	"fmt"
)

// Descriptor names the machine and its initial state.
type Descriptor struct {
	ID      string `json:"id"`
	Initial string `json:"initial"`
}

// StateKind discriminates state variants.
type StateKind int

const (
	StatePlayback StateKind = iota
	StateGlobal
)

// PlaybackConfig is the config override a playback state pushes onto the
// player when entered. Autoplay and Loop are always applied, so an absent
// one reads as false; for the other fields pointers and empty values mark
// absence, and absent fields keep the player's current setting.
type PlaybackConfig struct {
	Autoplay              bool      `json:"autoplay,omitempty"`
	Loop                  bool      `json:"loop,omitempty"`
	Mode                  string    `json:"mode,omitempty"`
	Speed                 *float32  `json:"speed,omitempty"`
	UseFrameInterpolation *bool     `json:"useFrameInterpolation,omitempty"`
	Segment               []float32 `json:"segment,omitempty"`
	Marker                string    `json:"marker,omitempty"`
	BackgroundColor       *uint32   `json:"backgroundColor,omitempty"`
}

// State is one node of the machine. Playback states drive the player;
// a Global state only contributes transitions shared by every state.
type State struct {
	Kind         StateKind
	Name         string
	AnimationID  string
	Config       *PlaybackConfig
	Transitions  []Transition
	EntryActions []Action
	ExitActions  []Action
}

// UnmarshalJSON decodes the type-tagged state variants.
func (s *State) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type         string       `json:"type"`
		Name         string       `json:"name"`
		AnimationID  string       `json:"animationId"`
		Transitions  []Transition `json:"transitions"`
		EntryActions []Action     `json:"entryActions"`
		ExitActions  []Action     `json:"exitActions"`
		Autoplay     bool         `json:"autoplay"`
		Loop         bool         `json:"loop"`
		Mode         string       `json:"mode"`
		Speed        *float32     `json:"speed"`
		Interpolate  *bool        `json:"useFrameInterpolation"`
		Segment      []float32    `json:"segment"`
		Marker       string       `json:"marker"`
		Background   *uint32      `json:"backgroundColor"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Name = raw.Name
	s.Transitions = raw.Transitions
	s.EntryActions = raw.EntryActions
	s.ExitActions = raw.ExitActions

	switch raw.Type {
	case "PlaybackState":
		s.Kind = StatePlayback
		s.AnimationID = raw.AnimationID
		s.Config = &PlaybackConfig{
			Autoplay:              raw.Autoplay,
			Loop:                  raw.Loop,
			Mode:                  raw.Mode,
			Speed:                 raw.Speed,
			UseFrameInterpolation: raw.Interpolate,
			Segment:               raw.Segment,
			Marker:                raw.Marker,
			BackgroundColor:       raw.Background,
		}
	case "GlobalState":
		s.Kind = StateGlobal
	default:
		return fmt.Errorf("unknown state type %q", raw.Type)
	}
	return nil
}

// Transition moves the machine to a target state when all guards hold.
type Transition struct {
	ToState string  `json:"toState"`
	Guards  []Guard `json:"guards,omitempty"`
}

// UnmarshalJSON tolerates the type-tagged transition form.
func (t *Transition) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type    string  `json:"type"`
		ToState string  `json:"toState"`
		Guards  []Guard `json:"guards"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Type != "" && raw.Type != "Transition" {
		return fmt.Errorf("unknown transition type %q", raw.Type)
	}
	t.ToState = raw.ToState
	t.Guards = raw.Guards
	return nil
}

// HasEventGuard reports whether any guard fires on a posted event.
func (t *Transition) HasEventGuard() bool {
	for _, g := range t.Guards {
		if g.Kind == GuardEvent {
			return true
		}
	}
	return false
}

// GuardKind discriminates guard variants by trigger type.
type GuardKind int

const (
	GuardNumeric GuardKind = iota
	GuardString
	GuardBoolean
	GuardEvent
)

// ConditionType is the comparison operator of a guard.
type ConditionType string

const (
	ConditionEqual              ConditionType = "Equal"
	ConditionNotEqual           ConditionType = "NotEqual"
	ConditionGreaterThan        ConditionType = "GreaterThan"
	ConditionGreaterThanOrEqual ConditionType = "GreaterThanOrEqual"
	ConditionLessThan           ConditionType = "LessThan"
	ConditionLessThanOrEqual    ConditionType = "LessThanOrEqual"
)

// Guard tests one declared input against a literal. Event guards instead
// fire when a matching event is posted in the current cycle.
type Guard struct {
	Kind          GuardKind
	TriggerName   string
	ConditionType ConditionType
	CompareTo     json.RawMessage
}

// UnmarshalJSON decodes the type-tagged guard variants.
func (g *Guard) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type          string          `json:"type"`
		TriggerName   string          `json:"triggerName"`
		ConditionType ConditionType   `json:"conditionType"`
		CompareTo     json.RawMessage `json:"compareTo"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case "Numeric":
		g.Kind = GuardNumeric
	case "String":
		g.Kind = GuardString
	case "Boolean":
		g.Kind = GuardBoolean
	case "Event":
		g.Kind = GuardEvent
	default:
		return fmt.Errorf("unknown guard type %q", raw.Type)
	}
	g.TriggerName = raw.TriggerName
	g.ConditionType = raw.ConditionType
	g.CompareTo = raw.CompareTo
	return nil
}

// ListenerKind discriminates listener variants.
type ListenerKind int

const (
	ListenerPointerUp ListenerKind = iota
	ListenerPointerDown
	ListenerPointerEnter
	ListenerPointerExit
	ListenerPointerMove
	ListenerClick
	ListenerOnComplete
	ListenerOnLoopComplete
)

// String returns the listener type name.
func (k ListenerKind) String() string {
	switch k {
	case ListenerPointerUp:
		return "PointerUp"
	case ListenerPointerDown:
		return "PointerDown"
	case ListenerPointerEnter:
		return "PointerEnter"
	case ListenerPointerExit:
		return "PointerExit"
	case ListenerPointerMove:
		return "PointerMove"
	case ListenerClick:
		return "Click"
	case ListenerOnComplete:
		return "OnComplete"
	case ListenerOnLoopComplete:
		return "OnLoopComplete"
	default:
		return "Unknown"
	}
}

// Listener runs actions when a matching event arrives. LayerName filters
// pointer events by hit test; StateName scopes completion listeners to one
// state.
type Listener struct {
	Kind      ListenerKind
	LayerName string
	StateName string
	Actions   []Action
}

// UnmarshalJSON decodes the type-tagged listener variants.
func (l *Listener) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type      string   `json:"type"`
		LayerName string   `json:"layerName"`
		StateName string   `json:"stateName"`
		Actions   []Action `json:"actions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case "PointerUp":
		l.Kind = ListenerPointerUp
	case "PointerDown":
		l.Kind = ListenerPointerDown
	case "PointerEnter":
		l.Kind = ListenerPointerEnter
	case "PointerExit":
		l.Kind = ListenerPointerExit
	case "PointerMove":
		l.Kind = ListenerPointerMove
	case "Click":
		l.Kind = ListenerClick
	case "OnComplete":
		l.Kind = ListenerOnComplete
	case "OnLoopComplete":
		l.Kind = ListenerOnLoopComplete
	default:
		return fmt.Errorf("unknown listener type %q", raw.Type)
	}
	l.LayerName = raw.LayerName
	l.StateName = raw.StateName
	l.Actions = raw.Actions
	return nil
}

// TriggerKind discriminates declared input variants.
type TriggerKind int

const (
	TriggerNumeric TriggerKind = iota
	TriggerString
	TriggerBoolean
	TriggerEvent
)

// Trigger declares an input with its initial value. Event triggers carry
// no value; they exist to be fired.
type Trigger struct {
	Kind         TriggerKind
	Name         string
	NumericValue float32
	StringValue  string
	BooleanValue bool
}

// UnmarshalJSON decodes the type-tagged trigger variants.
func (t *Trigger) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type  string          `json:"type"`
		Name  string          `json:"name"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Name = raw.Name
	switch raw.Type {
	case "Numeric":
		t.Kind = TriggerNumeric
		if raw.Value != nil {
			if err := json.Unmarshal(raw.Value, &t.NumericValue); err != nil {
				return fmt.Errorf("trigger %q: %w", raw.Name, err)
			}
		}
	case "String":
		t.Kind = TriggerString
		if raw.Value != nil {
			if err := json.Unmarshal(raw.Value, &t.StringValue); err != nil {
				return fmt.Errorf("trigger %q: %w", raw.Name, err)
			}
		}
	case "Boolean":
		t.Kind = TriggerBoolean
		if raw.Value != nil {
			if err := json.Unmarshal(raw.Value, &t.BooleanValue); err != nil {
				return fmt.Errorf("trigger %q: %w", raw.Name, err)
			}
		}
	case "Event":
		t.Kind = TriggerEvent
	default:
		return fmt.Errorf("unknown trigger type %q", raw.Type)
	}
	return nil
}

// ActionKind discriminates action variants.
type ActionKind int

const (
	ActionSetNumeric ActionKind = iota
	ActionSetString
	ActionSetBoolean
	ActionFire
	ActionReset
	ActionResetAll
	ActionSetTheme
	ActionSetFrame
	ActionLogMessage
	ActionOpenURL
	ActionPlaySound
)

// Action is one entry of a listener or entry/exit action list.
type Action struct {
	Kind         ActionKind
	TriggerName  string
	NumericValue float32
	StringValue  string
	BooleanValue bool
	ThemeID      string
	Frame        float32
	Message      string
	URL          string
	Target       string
	SoundID      string
}

// UnmarshalJSON decodes the type-tagged action variants.
func (a *Action) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type        string          `json:"type"`
		TriggerName string          `json:"triggerName"`
		Value       json.RawMessage `json:"value"`
		ThemeID     string          `json:"themeId"`
		Message     string          `json:"message"`
		URL         string          `json:"url"`
		Target      string          `json:"target"`
		SoundID     string          `json:"soundId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.TriggerName = raw.TriggerName
	a.ThemeID = raw.ThemeID
	a.Message = raw.Message
	a.URL = raw.URL
	a.Target = raw.Target
	a.SoundID = raw.SoundID

	switch raw.Type {
	case "SetNumeric":
		a.Kind = ActionSetNumeric
		if raw.Value != nil {
			if err := json.Unmarshal(raw.Value, &a.NumericValue); err != nil {
				return fmt.Errorf("SetNumeric value: %w", err)
			}
		}
	case "SetString":
		a.Kind = ActionSetString
		if raw.Value != nil {
			if err := json.Unmarshal(raw.Value, &a.StringValue); err != nil {
				return fmt.Errorf("SetString value: %w", err)
			}
		}
	case "SetBoolean":
		a.Kind = ActionSetBoolean
		if raw.Value != nil {
			if err := json.Unmarshal(raw.Value, &a.BooleanValue); err != nil {
				return fmt.Errorf("SetBoolean value: %w", err)
			}
		}
	case "Fire", "FireEvent":
		a.Kind = ActionFire
	case "Reset":
		a.Kind = ActionReset
	case "ResetAll":
		a.Kind = ActionResetAll
	case "SetTheme":
		a.Kind = ActionSetTheme
	case "SetFrame":
		a.Kind = ActionSetFrame
		if raw.Value != nil {
			if err := json.Unmarshal(raw.Value, &a.Frame); err != nil {
				return fmt.Errorf("SetFrame value: %w", err)
			}
		}
	case "LogMessage":
		a.Kind = ActionLogMessage
	case "OpenUrl":
		a.Kind = ActionOpenURL
	case "PlaySound":
		a.Kind = ActionPlaySound
	default:
		return fmt.Errorf("unknown action type %q", raw.Type)
	}
	return nil
}

// Machine is a parsed state machine document.
type Machine struct {
	Descriptor Descriptor `json:"descriptor"`
	States     []State    `json:"states"`
	Listeners  []Listener `json:"listeners,omitempty"`
	Triggers   []Trigger  `json:"triggers,omitempty"`
}

// ParseMachine decodes a state machine document without validating it;
// Check runs the structural rules.
func ParseMachine(data string) (*Machine, error) {
	var machine Machine
	if err := json.Unmarshal([]byte(data), &machine); err != nil {
		return nil, &Error{Kind: ErrParsing, Message: err.Error()}
	}
	return &machine, nil
}

// State finds a state by name.
func (m *Machine) State(name string) *State {
	for i := range m.States {
		if m.States[i].Name == name {
			return &m.States[i]
		}
	}
	return nil
}

// GlobalState returns the Global state if one exists.
func (m *Machine) GlobalState() *State {
	for i := range m.States {
		if m.States[i].Kind == StateGlobal {
			return &m.States[i]
		}
	}
	return nil
}

// Trigger finds a declared trigger by name.
func (m *Machine) Trigger(name string) *Trigger {
	for i := range m.Triggers {
		if m.Triggers[i].Name == name {
			return &m.Triggers[i]
		}
	}
	return nil
}
