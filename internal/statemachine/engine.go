package statemachine

import (
	"encoding/json"
	"fmt"

	"dotlottie-go/internal/debug"
	"dotlottie-go/internal/policy"
)

// PlayerHandle is the capability the engine uses to drive the player. It
// is a lookup relation back to the owner, never ownership.
type PlayerHandle interface {
	// ApplyStateConfig pushes a playback state's config override.
	ApplyStateConfig(config *PlaybackConfig)
	// LoadAnimationByID switches the active animation, preserving the
	// renderer target and the current theme.
	LoadAnimationByID(animationID string) bool
	// ActiveAnimationID reports the loaded animation id, "" for raw loads.
	ActiveAnimationID() string
	Play() bool
	Pause() bool
	SetFrame(frame float32) bool
	SetTheme(themeID string) bool
	// HitCheck forwards to the renderer's layer hit test.
	HitCheck(layerName string, x, y float32) bool
}

// EventKind discriminates external stimuli posted to the engine.
type EventKind int

const (
	EventPointerDown EventKind = iota
	EventPointerUp
	EventPointerMove
	EventPointerEnter
	EventPointerExit
	EventClick
	EventOnComplete
	EventOnLoopComplete
	EventFired
	EventInputChanged
)

// Event is one stimulus. Pointer kinds carry coordinates; Fired carries
// the event trigger name; InputChanged carries the input name.
type Event struct {
	Kind EventKind
	X    float32
	Y    float32
	Name string
}

// IsPointer reports whether the stimulus counts as user interaction for
// the open-url policy.
func (e Event) IsPointer() bool {
	switch e.Kind {
	case EventPointerDown, EventPointerUp, EventPointerMove,
		EventPointerEnter, EventPointerExit, EventClick:
		return true
	}
	return false
}

// Engine evaluates one machine against a player. All methods must run on
// the player's thread.
type Engine struct {
	machine *Machine
	player  PlayerHandle
	log     *debug.Logger
	urls    *policy.OpenURLPolicy

	inputs  *InputManager
	current *State
	running bool

	observers []Observer

	// Re-entrancy protection: stimuli raised while evaluating queue up
	// and drain FIFO after the current cycle.
	evaluating bool
	pending    []Event

	// Click synthesis bookkeeping.
	pointerDown       bool
	pointerDownLayers map[string]struct{}
}

// NewEngine parses and structurally checks a machine document. A failing
// load installs nothing.
func NewEngine(data string, player PlayerHandle, logger *debug.Logger) (*Engine, error) {
	machine, err := ParseMachine(data)
	if err != nil {
		return nil, err
	}
	if err := Check(machine); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = debug.NewLogger(1000)
	}
	return &Engine{
		machine: machine,
		player:  player,
		log:     logger,
		urls:    policy.DefaultOpenURLPolicy(),
		inputs:  NewInputManager(),
	}, nil
}

// SetOpenURLPolicy replaces the policy gating OpenUrl actions.
func (e *Engine) SetOpenURLPolicy(p *policy.OpenURLPolicy) {
	e.urls = p
}

// ID returns the machine id.
func (e *Engine) ID() string {
	return e.machine.Descriptor.ID
}

// Status reports "Running" or "Stopped".
func (e *Engine) Status() string {
	if e.running {
		return "Running"
	}
	return "Stopped"
}

// CurrentStateName returns the active state's name, "" when not running.
func (e *Engine) CurrentStateName() string {
	if e.current == nil {
		return ""
	}
	return e.current.Name
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

// Start installs the declared trigger initial values and enters the
// initial state.
func (e *Engine) Start() error {
	if e.running {
		return nil
	}

	for _, trigger := range e.machine.Triggers {
		switch trigger.Kind {
		case TriggerNumeric:
			e.inputs.SetInitial(trigger.Name, InputValue{Kind: TriggerNumeric, Numeric: trigger.NumericValue})
		case TriggerString:
			e.inputs.SetInitial(trigger.Name, InputValue{Kind: TriggerString, String: trigger.StringValue})
		case TriggerBoolean:
			e.inputs.SetInitial(trigger.Name, InputValue{Kind: TriggerBoolean, Boolean: trigger.BooleanValue})
		}
	}

	initial := e.machine.State(e.machine.Descriptor.Initial)
	if initial == nil {
		return errf(ErrUnknownStateRef, "initial state %q missing", e.machine.Descriptor.Initial)
	}

	e.running = true
	for _, o := range e.observers {
		o.OnStart()
	}
	e.enterState(initial, false)
	e.drain()
	return nil
}

// Stop exits the current state and halts evaluation.
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	if e.current != nil {
		e.runActions(e.current.ExitActions, Event{Kind: EventInputChanged})
		for _, o := range e.observers {
			o.OnStateExit(e.current.Name)
		}
	}
	e.current = nil
	e.running = false
	e.pending = nil
	for _, o := range e.observers {
		o.OnStop()
	}
}

// SetNumeric writes an input and runs an evaluation cycle.
func (e *Engine) SetNumeric(name string, value float32) {
	if !e.running {
		return
	}
	old, _ := e.inputs.SetNumeric(name, value)
	for _, o := range e.observers {
		o.OnNumericInputValueChange(name, old.Numeric, value)
	}
	e.post(Event{Kind: EventInputChanged, Name: name})
}

// SetString writes an input and runs an evaluation cycle.
func (e *Engine) SetString(name string, value string) {
	if !e.running {
		return
	}
	old, _ := e.inputs.SetString(name, value)
	for _, o := range e.observers {
		o.OnStringInputValueChange(name, old.String, value)
	}
	e.post(Event{Kind: EventInputChanged, Name: name})
}

// SetBoolean writes an input and runs an evaluation cycle.
func (e *Engine) SetBoolean(name string, value bool) {
	if !e.running {
		return
	}
	old, _ := e.inputs.SetBoolean(name, value)
	for _, o := range e.observers {
		o.OnBooleanInputValueChange(name, old.Boolean, value)
	}
	e.post(Event{Kind: EventInputChanged, Name: name})
}

// GetNumeric, GetString, GetBoolean read input values.
func (e *Engine) GetNumeric(name string) (float32, bool) { return e.inputs.GetNumeric(name) }
func (e *Engine) GetString(name string) (string, bool)   { return e.inputs.GetString(name) }
func (e *Engine) GetBoolean(name string) (bool, bool)    { return e.inputs.GetBoolean(name) }

// Fire posts an event trigger by name.
func (e *Engine) Fire(eventName string) {
	if !e.running {
		return
	}
	if trigger := e.machine.Trigger(eventName); trigger == nil || trigger.Kind != TriggerEvent {
		e.log.LogStateMachinef(debug.LogLevelWarning, "fired undeclared event %q", eventName)
		return
	}
	for _, o := range e.observers {
		o.OnInputFired(eventName)
	}
	e.post(Event{Kind: EventFired, Name: eventName})
}

// PostEvent feeds a pointer or completion stimulus into the engine.
func (e *Engine) PostEvent(evt Event) {
	if !e.running {
		return
	}
	e.post(evt)
}

// post runs the stimulus now, or enqueues it when a cycle is in flight.
func (e *Engine) post(evt Event) {
	e.pending = append(e.pending, evt)
	e.drain()
}

// drain evaluates queued stimuli FIFO. A stimulus raised mid-cycle waits
// for the running cycle to finish.
func (e *Engine) drain() {
	if e.evaluating {
		return
	}
	e.evaluating = true
	defer func() { e.evaluating = false }()

	for len(e.pending) > 0 {
		next := e.pending[0]
		e.pending = e.pending[1:]
		e.evaluate(next)
	}
}

// evaluate is one atomic cycle: synthesize clicks, fire listeners on the
// snapshot, then test transitions in declaration order.
func (e *Engine) evaluate(evt Event) {
	if !e.running {
		return
	}

	e.trackClick(&evt)
	snapshot := e.inputs.Snapshot()

	e.fireListeners(evt)

	state := e.current
	if state == nil {
		return
	}

	candidates := state.Transitions
	if global := e.machine.GlobalState(); global != nil && global != state {
		candidates = append(append([]Transition(nil), candidates...), global.Transitions...)
	}

	for _, transition := range candidates {
		if e.transitionSatisfied(&transition, snapshot, evt) {
			e.takeTransition(state, transition.ToState, evt)
			return
		}
	}
}

// trackClick maintains the down/up pairing that synthesizes Click events:
// a PointerDown and PointerUp on the same layer, with no intervening
// PointerMove that leaves its bounds.
func (e *Engine) trackClick(evt *Event) {
	switch evt.Kind {
	case EventPointerDown:
		e.pointerDown = true
		e.pointerDownLayers = make(map[string]struct{})
		for _, layer := range e.clickLayers() {
			if e.player.HitCheck(layer, evt.X, evt.Y) {
				e.pointerDownLayers[layer] = struct{}{}
			}
		}
	case EventPointerMove:
		if e.pointerDown {
			for layer := range e.pointerDownLayers {
				if !e.player.HitCheck(layer, evt.X, evt.Y) {
					delete(e.pointerDownLayers, layer)
				}
			}
		}
	case EventPointerUp:
		if e.pointerDown {
			e.pointerDown = false
			click := Event{Kind: EventClick, X: evt.X, Y: evt.Y}
			e.pending = append(e.pending, click)
		}
	}
}

// clickLayers collects the layer names Click listeners filter on.
func (e *Engine) clickLayers() []string {
	var layers []string
	for _, listener := range e.machine.Listeners {
		if listener.Kind == ListenerClick && listener.LayerName != "" {
			layers = append(layers, listener.LayerName)
		}
	}
	return layers
}

// fireListeners runs the action lists of every listener matching the
// stimulus.
func (e *Engine) fireListeners(evt Event) {
	for _, listener := range e.machine.Listeners {
		if !e.listenerMatches(&listener, evt) {
			continue
		}
		e.runActions(listener.Actions, evt)
	}
}

func (e *Engine) listenerMatches(listener *Listener, evt Event) bool {
	var kind ListenerKind
	switch evt.Kind {
	case EventPointerDown:
		kind = ListenerPointerDown
	case EventPointerUp:
		kind = ListenerPointerUp
	case EventPointerMove:
		kind = ListenerPointerMove
	case EventPointerEnter:
		kind = ListenerPointerEnter
	case EventPointerExit:
		kind = ListenerPointerExit
	case EventClick:
		kind = ListenerClick
	case EventOnComplete:
		kind = ListenerOnComplete
	case EventOnLoopComplete:
		kind = ListenerOnLoopComplete
	default:
		return false
	}
	if listener.Kind != kind {
		return false
	}

	// Completion listeners may scope to one state.
	if listener.StateName != "" && (e.current == nil || e.current.Name != listener.StateName) {
		return false
	}

	// Pointer listeners may filter by layer hit.
	if listener.LayerName != "" {
		switch kind {
		case ListenerClick:
			if _, armed := e.pointerDownLayers[listener.LayerName]; !armed {
				return false
			}
			if !e.player.HitCheck(listener.LayerName, evt.X, evt.Y) {
				return false
			}
		case ListenerPointerDown, ListenerPointerUp, ListenerPointerEnter,
			ListenerPointerExit, ListenerPointerMove:
			if !e.player.HitCheck(listener.LayerName, evt.X, evt.Y) {
				return false
			}
		}
	}
	return true
}

// transitionSatisfied tests every guard conjunctively against the
// snapshot.
func (e *Engine) transitionSatisfied(t *Transition, snapshot map[string]InputValue, evt Event) bool {
	for i := range t.Guards {
		if !e.guardSatisfied(&t.Guards[i], snapshot, evt) {
			return false
		}
	}
	return true
}

func (e *Engine) guardSatisfied(g *Guard, snapshot map[string]InputValue, evt Event) bool {
	if g.Kind == GuardEvent {
		switch evt.Kind {
		case EventFired:
			return evt.Name == g.TriggerName
		case EventOnComplete:
			return g.TriggerName == "OnComplete"
		case EventOnLoopComplete:
			return g.TriggerName == "OnLoopComplete"
		}
		return false
	}

	value, ok := snapshot[g.TriggerName]
	if !ok {
		return false
	}

	switch g.Kind {
	case GuardNumeric:
		if value.Kind != TriggerNumeric {
			return false
		}
		var compareTo float32
		if err := json.Unmarshal(g.CompareTo, &compareTo); err != nil {
			return false
		}
		return compareNumeric(g.ConditionType, value.Numeric, compareTo)
	case GuardString:
		if value.Kind != TriggerString {
			return false
		}
		var compareTo string
		if err := json.Unmarshal(g.CompareTo, &compareTo); err != nil {
			return false
		}
		return compareEquality(g.ConditionType, value.String == compareTo)
	case GuardBoolean:
		if value.Kind != TriggerBoolean {
			return false
		}
		var compareTo bool
		if err := json.Unmarshal(g.CompareTo, &compareTo); err != nil {
			return false
		}
		return compareEquality(g.ConditionType, value.Boolean == compareTo)
	}
	return false
}

func compareNumeric(op ConditionType, value, compareTo float32) bool {
	switch op {
	case ConditionEqual:
		return value == compareTo
	case ConditionNotEqual:
		return value != compareTo
	case ConditionGreaterThan:
		return value > compareTo
	case ConditionGreaterThanOrEqual:
		return value >= compareTo
	case ConditionLessThan:
		return value < compareTo
	case ConditionLessThanOrEqual:
		return value <= compareTo
	}
	return false
}

func compareEquality(op ConditionType, equal bool) bool {
	switch op {
	case ConditionEqual:
		return equal
	case ConditionNotEqual:
		return !equal
	}
	return false
}

// takeTransition runs exit actions, switches states, and runs the new
// state's entry sequence.
func (e *Engine) takeTransition(from *State, toName string, evt Event) {
	to := e.machine.State(toName)
	if to == nil {
		e.observeError(fmt.Sprintf("transition to unknown state %q", toName))
		return
	}

	e.runActions(from.ExitActions, evt)
	for _, o := range e.observers {
		o.OnStateExit(from.Name)
	}
	for _, o := range e.observers {
		o.OnTransition(from.Name, to.Name)
	}
	e.enterState(to, evt.IsPointer())
}

// enterState makes the state current, runs entry actions, and for
// playback states pushes the config override and drives the player.
func (e *Engine) enterState(state *State, userInteraction bool) {
	e.current = state
	for _, o := range e.observers {
		o.OnStateEntered(state.Name)
	}
	// The zero Event is a PointerDown; entry actions count as user
	// interaction only when a pointer stimulus triggered the transition.
	entry := Event{Kind: EventInputChanged}
	if userInteraction {
		entry.Kind = EventClick
	}
	e.runActions(state.EntryActions, entry)

	if state.Kind != StatePlayback {
		return
	}

	if state.AnimationID != "" && state.AnimationID != e.player.ActiveAnimationID() {
		if !e.player.LoadAnimationByID(state.AnimationID) {
			e.observeError(fmt.Sprintf("state %q: failed to load animation %q", state.Name, state.AnimationID))
			return
		}
	}

	e.player.ApplyStateConfig(state.Config)

	if state.Config != nil && state.Config.Autoplay {
		e.player.Play()
	} else {
		e.player.Pause()
	}
}

// runActions executes an action list in order. Input mutations raise
// follow-up stimuli; they never re-enter the running cycle.
func (e *Engine) runActions(actions []Action, evt Event) {
	for i := range actions {
		e.runAction(&actions[i], evt)
	}
}

func (e *Engine) runAction(action *Action, evt Event) {
	switch action.Kind {
	case ActionSetNumeric:
		old, _ := e.inputs.SetNumeric(action.TriggerName, action.NumericValue)
		for _, o := range e.observers {
			o.OnNumericInputValueChange(action.TriggerName, old.Numeric, action.NumericValue)
		}
		e.pending = append(e.pending, Event{Kind: EventInputChanged, Name: action.TriggerName})

	case ActionSetString:
		old, _ := e.inputs.SetString(action.TriggerName, action.StringValue)
		for _, o := range e.observers {
			o.OnStringInputValueChange(action.TriggerName, old.String, action.StringValue)
		}
		e.pending = append(e.pending, Event{Kind: EventInputChanged, Name: action.TriggerName})

	case ActionSetBoolean:
		old, _ := e.inputs.SetBoolean(action.TriggerName, action.BooleanValue)
		for _, o := range e.observers {
			o.OnBooleanInputValueChange(action.TriggerName, old.Boolean, action.BooleanValue)
		}
		e.pending = append(e.pending, Event{Kind: EventInputChanged, Name: action.TriggerName})

	case ActionFire:
		for _, o := range e.observers {
			o.OnInputFired(action.TriggerName)
		}
		e.pending = append(e.pending, Event{Kind: EventFired, Name: action.TriggerName})

	case ActionReset:
		if old, def, ok := e.inputs.Reset(action.TriggerName); ok {
			e.observeReset(action.TriggerName, old, def)
			e.pending = append(e.pending, Event{Kind: EventInputChanged, Name: action.TriggerName})
		}

	case ActionResetAll:
		e.inputs.ResetAll()
		e.pending = append(e.pending, Event{Kind: EventInputChanged})

	case ActionSetTheme:
		if !e.player.SetTheme(action.ThemeID) {
			e.observeError(fmt.Sprintf("SetTheme %q failed", action.ThemeID))
		}

	case ActionSetFrame:
		e.player.SetFrame(action.Frame)

	case ActionLogMessage:
		e.log.LogStateMachinef(debug.LogLevelInfo, "%s", action.Message)
		for _, o := range e.observers {
			o.OnCustomEvent(action.Message)
		}

	case ActionOpenURL:
		if err := e.urls.Check(action.URL, evt.IsPointer()); err != nil {
			e.log.LogPolicyf(debug.LogLevelWarning, "%v", err)
			for _, o := range e.observers {
				o.OnCustomEvent(err.Error())
			}
			return
		}
		message := "OpenUrl: " + action.URL
		if action.Target != "" {
			message += " | Target: " + action.Target
		}
		for _, o := range e.observers {
			o.OnCustomEvent(message)
		}

	case ActionPlaySound:
		for _, o := range e.observers {
			o.OnCustomEvent("PlaySound: " + action.SoundID)
		}
	}
}

func (e *Engine) observeReset(name string, old, def InputValue) {
	switch def.Kind {
	case TriggerNumeric:
		for _, o := range e.observers {
			o.OnNumericInputValueChange(name, old.Numeric, def.Numeric)
		}
	case TriggerString:
		for _, o := range e.observers {
			o.OnStringInputValueChange(name, old.String, def.String)
		}
	case TriggerBoolean:
		for _, o := range e.observers {
			o.OnBooleanInputValueChange(name, old.Boolean, def.Boolean)
		}
	}
}

func (e *Engine) observeError(message string) {
	e.log.LogStateMachinef(debug.LogLevelError, "%s", message)
	for _, o := range e.observers {
		o.OnError(message)
	}
}
