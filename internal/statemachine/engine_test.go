package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotlottie-go/internal/policy"
)

// fakePlayer records the calls the engine makes through its capability.
type fakePlayer struct {
	activeAnimation string
	loads           []string
	configs         []*PlaybackConfig
	plays, pauses   int
	frames          []float32
	themes          []string
	hitLayers       map[string]bool
	failLoad        bool
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{hitLayers: map[string]bool{}}
}

func (f *fakePlayer) ApplyStateConfig(config *PlaybackConfig) { f.configs = append(f.configs, config) }
func (f *fakePlayer) LoadAnimationByID(id string) bool {
	if f.failLoad {
		return false
	}
	f.loads = append(f.loads, id)
	f.activeAnimation = id
	return true
}
func (f *fakePlayer) ActiveAnimationID() string    { return f.activeAnimation }
func (f *fakePlayer) Play() bool                   { f.plays++; return true }
func (f *fakePlayer) Pause() bool                  { f.pauses++; return true }
func (f *fakePlayer) SetFrame(frame float32) bool  { f.frames = append(f.frames, frame); return true }
func (f *fakePlayer) SetTheme(themeID string) bool { f.themes = append(f.themes, themeID); return true }
func (f *fakePlayer) HitCheck(layer string, x, y float32) bool {
	return f.hitLayers[layer]
}

// smRecorder captures observer callbacks.
type smRecorder struct {
	BaseObserver
	transitions [][2]string
	entered     []string
	custom      []string
	errors      []string
	numeric     []float32
	fired       []string
}

func (r *smRecorder) OnTransition(prev, next string) {
	r.transitions = append(r.transitions, [2]string{prev, next})
}
func (r *smRecorder) OnStateEntered(state string) { r.entered = append(r.entered, state) }
func (r *smRecorder) OnCustomEvent(message string) {
	r.custom = append(r.custom, message)
}
func (r *smRecorder) OnError(message string) { r.errors = append(r.errors, message) }
func (r *smRecorder) OnNumericInputValueChange(name string, old, new float32) {
	r.numeric = append(r.numeric, new)
}
func (r *smRecorder) OnInputFired(name string) { r.fired = append(r.fired, name) }

const threeStateMachine = `{
  "descriptor": {"id": "cycle", "initial": "A"},
  "states": [
    {"type": "PlaybackState", "name": "A", "animationId": "animA", "autoplay": true,
     "transitions": [{"type": "Transition", "toState": "B",
       "guards": [{"type": "Event", "triggerName": "explosion"}]}]},
    {"type": "PlaybackState", "name": "B", "animationId": "animB", "autoplay": true,
     "transitions": [{"type": "Transition", "toState": "C",
       "guards": [{"type": "Event", "triggerName": "OnComplete"}]}]},
    {"type": "PlaybackState", "name": "C", "animationId": "animC", "autoplay": true,
     "transitions": [{"type": "Transition", "toState": "A",
       "guards": [{"type": "Event", "triggerName": "OnComplete"}]}]}
  ],
  "triggers": [{"type": "Event", "name": "explosion"}]
}`

func TestThreeStateCycle(t *testing.T) {
	fp := newFakePlayer()
	engine, err := NewEngine(threeStateMachine, fp, nil)
	require.NoError(t, err)

	rec := &smRecorder{}
	engine.Subscribe(rec)
	require.NoError(t, engine.Start())

	assert.Equal(t, "A", engine.CurrentStateName())
	assert.Equal(t, []string{"animA"}, fp.loads)

	engine.Fire("explosion")
	assert.Equal(t, "B", engine.CurrentStateName())

	engine.PostEvent(Event{Kind: EventOnComplete})
	assert.Equal(t, "C", engine.CurrentStateName())

	engine.PostEvent(Event{Kind: EventOnComplete})
	assert.Equal(t, "A", engine.CurrentStateName())

	require.Len(t, rec.transitions, 3)
	assert.Equal(t, [2]string{"A", "B"}, rec.transitions[0])
	assert.Equal(t, [2]string{"B", "C"}, rec.transitions[1])
	assert.Equal(t, [2]string{"C", "A"}, rec.transitions[2])

	assert.Equal(t, []string{"animA", "animB", "animC", "animA"}, fp.loads)
	assert.Equal(t, 4, fp.plays)
}

func TestFireUndeclaredEventIgnored(t *testing.T) {
	fp := newFakePlayer()
	engine, err := NewEngine(threeStateMachine, fp, nil)
	require.NoError(t, err)
	require.NoError(t, engine.Start())

	engine.Fire("implosion")
	assert.Equal(t, "A", engine.CurrentStateName())
}

func TestStructuralChecks(t *testing.T) {
	fp := newFakePlayer()

	duplicate := `{
	  "descriptor": {"id": "x", "initial": "A"},
	  "states": [
	    {"type": "PlaybackState", "name": "A", "transitions": []},
	    {"type": "PlaybackState", "name": "A", "transitions": []}
	  ]}`
	_, err := NewEngine(duplicate, fp, nil)
	var smErr *Error
	require.ErrorAs(t, err, &smErr)
	assert.Equal(t, ErrDuplicateStateName, smErr.Kind)

	missingInitial := `{
	  "descriptor": {"id": "x", "initial": "Z"},
	  "states": [{"type": "PlaybackState", "name": "A", "transitions": []}]}`
	_, err = NewEngine(missingInitial, fp, nil)
	require.ErrorAs(t, err, &smErr)
	assert.Equal(t, ErrUnknownStateRef, smErr.Kind)

	twoGuardless := `{
	  "descriptor": {"id": "x", "initial": "A"},
	  "states": [
	    {"type": "PlaybackState", "name": "A", "transitions": [
	      {"type": "Transition", "toState": "B"},
	      {"type": "Transition", "toState": "B"}
	    ]},
	    {"type": "PlaybackState", "name": "B", "transitions": []}
	  ]}`
	_, err = NewEngine(twoGuardless, fp, nil)
	require.ErrorAs(t, err, &smErr)
	assert.Equal(t, ErrMultipleGuardless, smErr.Kind)

	undeclaredTrigger := `{
	  "descriptor": {"id": "x", "initial": "A"},
	  "states": [
	    {"type": "PlaybackState", "name": "A", "transitions": [
	      {"type": "Transition", "toState": "A",
	       "guards": [{"type": "Numeric", "triggerName": "ghost",
	                   "conditionType": "Equal", "compareTo": 1}]}
	    ]}
	  ]}`
	_, err = NewEngine(undeclaredTrigger, fp, nil)
	require.ErrorAs(t, err, &smErr)
	assert.Equal(t, ErrUnknownTriggerRef, smErr.Kind)

	typeMismatch := `{
	  "descriptor": {"id": "x", "initial": "A"},
	  "states": [
	    {"type": "PlaybackState", "name": "A", "transitions": [
	      {"type": "Transition", "toState": "A",
	       "guards": [{"type": "String", "triggerName": "n",
	                   "conditionType": "Equal", "compareTo": "x"}]}
	    ]}
	  ],
	  "triggers": [{"type": "Numeric", "name": "n", "value": 0}]}`
	_, err = NewEngine(typeMismatch, fp, nil)
	require.ErrorAs(t, err, &smErr)
	assert.Equal(t, ErrTypeIncompatibleGuard, smErr.Kind)

	stringOrdering := `{
	  "descriptor": {"id": "x", "initial": "A"},
	  "states": [
	    {"type": "PlaybackState", "name": "A", "transitions": [
	      {"type": "Transition", "toState": "A",
	       "guards": [{"type": "String", "triggerName": "s",
	                   "conditionType": "GreaterThan", "compareTo": "x"}]}
	    ]}
	  ],
	  "triggers": [{"type": "String", "name": "s", "value": ""}]}`
	_, err = NewEngine(stringOrdering, fp, nil)
	require.ErrorAs(t, err, &smErr)
	assert.Equal(t, ErrTypeIncompatibleGuard, smErr.Kind)
}

const ratingMachine = `{
  "descriptor": {"id": "rating", "initial": "idle"},
  "states": [
    {"type": "PlaybackState", "name": "idle", "transitions": [
      {"type": "Transition", "toState": "high",
       "guards": [{"type": "Numeric", "triggerName": "rating",
                   "conditionType": "GreaterThanOrEqual", "compareTo": 4}]}
    ]},
    {"type": "PlaybackState", "name": "high", "autoplay": true, "transitions": [
      {"type": "Transition", "toState": "idle",
       "guards": [{"type": "Numeric", "triggerName": "rating",
                   "conditionType": "LessThan", "compareTo": 4}]}
    ]}
  ],
  "triggers": [{"type": "Numeric", "name": "rating", "value": 3}]
}`

func TestNumericGuardTransitions(t *testing.T) {
	fp := newFakePlayer()
	engine, err := NewEngine(ratingMachine, fp, nil)
	require.NoError(t, err)
	require.NoError(t, engine.Start())

	assert.Equal(t, "idle", engine.CurrentStateName())
	value, ok := engine.GetNumeric("rating")
	require.True(t, ok)
	assert.Equal(t, float32(3), value)

	engine.SetNumeric("rating", 4)
	assert.Equal(t, "high", engine.CurrentStateName())

	engine.SetNumeric("rating", 2)
	assert.Equal(t, "idle", engine.CurrentStateName())
}

func TestDeclarationOrderWins(t *testing.T) {
	machine := `{
	  "descriptor": {"id": "x", "initial": "A"},
	  "states": [
	    {"type": "PlaybackState", "name": "A", "transitions": [
	      {"type": "Transition", "toState": "B",
	       "guards": [{"type": "Numeric", "triggerName": "n",
	                   "conditionType": "GreaterThan", "compareTo": 0}]},
	      {"type": "Transition", "toState": "C",
	       "guards": [{"type": "Numeric", "triggerName": "n",
	                   "conditionType": "GreaterThan", "compareTo": 0}]}
	    ]},
	    {"type": "PlaybackState", "name": "B", "transitions": []},
	    {"type": "PlaybackState", "name": "C", "transitions": []}
	  ],
	  "triggers": [{"type": "Numeric", "name": "n", "value": 0}]}`

	fp := newFakePlayer()
	engine, err := NewEngine(machine, fp, nil)
	require.NoError(t, err)
	require.NoError(t, engine.Start())

	engine.SetNumeric("n", 1)
	assert.Equal(t, "B", engine.CurrentStateName(), "first declared satisfied transition wins")
}

func TestGlobalStateSharesTransitions(t *testing.T) {
	machine := `{
	  "descriptor": {"id": "x", "initial": "A"},
	  "states": [
	    {"type": "PlaybackState", "name": "A", "transitions": []},
	    {"type": "GlobalState", "name": "any", "transitions": [
	      {"type": "Transition", "toState": "panic",
	       "guards": [{"type": "Boolean", "triggerName": "alarm",
	                   "conditionType": "Equal", "compareTo": true}]}
	    ]},
	    {"type": "PlaybackState", "name": "panic", "transitions": []}
	  ],
	  "triggers": [{"type": "Boolean", "name": "alarm", "value": false}]}`

	fp := newFakePlayer()
	engine, err := NewEngine(machine, fp, nil)
	require.NoError(t, err)
	require.NoError(t, engine.Start())

	engine.SetBoolean("alarm", true)
	assert.Equal(t, "panic", engine.CurrentStateName())
}

func TestEntryActionsEnqueueFollowUpStimuli(t *testing.T) {
	machine := `{
	  "descriptor": {"id": "x", "initial": "A"},
	  "states": [
	    {"type": "PlaybackState", "name": "A",
	     "entryActions": [{"type": "SetNumeric", "triggerName": "n", "value": 5}],
	     "transitions": [
	      {"type": "Transition", "toState": "B",
	       "guards": [{"type": "Numeric", "triggerName": "n",
	                   "conditionType": "Equal", "compareTo": 5}]}
	    ]},
	    {"type": "PlaybackState", "name": "B", "transitions": []}
	  ],
	  "triggers": [{"type": "Numeric", "name": "n", "value": 0}]}`

	fp := newFakePlayer()
	engine, err := NewEngine(machine, fp, nil)
	require.NoError(t, err)
	require.NoError(t, engine.Start())

	// The entry action's mutation lands as a follow-up stimulus drained
	// FIFO after entering A, never re-entrantly inside A's entry cycle.
	assert.Equal(t, "B", engine.CurrentStateName())
	value, _ := engine.GetNumeric("n")
	assert.Equal(t, float32(5), value)
}

func TestClickSynthesis(t *testing.T) {
	machine := `{
	  "descriptor": {"id": "x", "initial": "A"},
	  "states": [{"type": "PlaybackState", "name": "A", "transitions": []}],
	  "listeners": [
	    {"type": "Click", "layerName": "button",
	     "actions": [{"type": "LogMessage", "message": "clicked"}]}
	  ]}`

	fp := newFakePlayer()
	fp.hitLayers["button"] = true
	engine, err := NewEngine(machine, fp, nil)
	require.NoError(t, err)

	rec := &smRecorder{}
	engine.Subscribe(rec)
	require.NoError(t, engine.Start())

	engine.PostEvent(Event{Kind: EventPointerDown, X: 10, Y: 10})
	engine.PostEvent(Event{Kind: EventPointerUp, X: 10, Y: 10})
	assert.Equal(t, []string{"clicked"}, rec.custom)

	// A move that exits the layer bounds disarms the click.
	rec.custom = nil
	engine.PostEvent(Event{Kind: EventPointerDown, X: 10, Y: 10})
	fp.hitLayers["button"] = false
	engine.PostEvent(Event{Kind: EventPointerMove, X: 500, Y: 500})
	fp.hitLayers["button"] = true
	engine.PostEvent(Event{Kind: EventPointerUp, X: 10, Y: 10})
	assert.Empty(t, rec.custom)
}

func TestOpenURLPolicyGating(t *testing.T) {
	machine := `{
	  "descriptor": {"id": "x", "initial": "A"},
	  "states": [{"type": "PlaybackState", "name": "A", "transitions": []}],
	  "listeners": [
	    {"type": "PointerDown",
	     "actions": [{"type": "OpenUrl", "url": "https://www.google.com/x"}]},
	    {"type": "OnComplete",
	     "actions": [{"type": "OpenUrl", "url": "https://www.google.com/x"}]}
	  ]}`

	fp := newFakePlayer()
	engine, err := NewEngine(machine, fp, nil)
	require.NoError(t, err)

	urlPolicy, err := policy.NewOpenURLPolicy([]string{"www.google.com/*"}, true)
	require.NoError(t, err)
	engine.SetOpenURLPolicy(urlPolicy)

	rec := &smRecorder{}
	engine.Subscribe(rec)
	require.NoError(t, engine.Start())

	// Inside a pointer handler: allowed.
	engine.PostEvent(Event{Kind: EventPointerDown, X: 1, Y: 1})
	require.Len(t, rec.custom, 1)
	assert.Equal(t, "OpenUrl: https://www.google.com/x", rec.custom[0])

	// During OnComplete: denied, surfaced as a custom event.
	rec.custom = nil
	engine.PostEvent(Event{Kind: EventOnComplete})
	require.Len(t, rec.custom, 1)
	assert.Contains(t, rec.custom[0], "denied")
}

func TestResetActionsRestoreDefaults(t *testing.T) {
	machine := `{
	  "descriptor": {"id": "x", "initial": "A"},
	  "states": [{"type": "PlaybackState", "name": "A", "transitions": []}],
	  "listeners": [
	    {"type": "PointerDown",
	     "actions": [{"type": "SetNumeric", "triggerName": "n", "value": 9}]},
	    {"type": "PointerUp",
	     "actions": [{"type": "Reset", "triggerName": "n"}]}
	  ],
	  "triggers": [{"type": "Numeric", "name": "n", "value": 2}]}`

	fp := newFakePlayer()
	engine, err := NewEngine(machine, fp, nil)
	require.NoError(t, err)
	require.NoError(t, engine.Start())

	engine.PostEvent(Event{Kind: EventPointerDown})
	value, _ := engine.GetNumeric("n")
	assert.Equal(t, float32(9), value)

	engine.PostEvent(Event{Kind: EventPointerUp})
	value, _ = engine.GetNumeric("n")
	assert.Equal(t, float32(2), value)
}

func TestSetThemeAndSetFrameActions(t *testing.T) {
	machine := `{
	  "descriptor": {"id": "x", "initial": "A"},
	  "states": [{"type": "PlaybackState", "name": "A", "transitions": []}],
	  "listeners": [
	    {"type": "PointerDown", "actions": [
	      {"type": "SetTheme", "themeId": "dark"},
	      {"type": "SetFrame", "value": 12}
	    ]}
	  ]}`

	fp := newFakePlayer()
	engine, err := NewEngine(machine, fp, nil)
	require.NoError(t, err)
	require.NoError(t, engine.Start())

	engine.PostEvent(Event{Kind: EventPointerDown})
	assert.Equal(t, []string{"dark"}, fp.themes)
	assert.Equal(t, []float32{12}, fp.frames)
}

func TestStopHaltsEvaluation(t *testing.T) {
	fp := newFakePlayer()
	engine, err := NewEngine(threeStateMachine, fp, nil)
	require.NoError(t, err)
	require.NoError(t, engine.Start())

	engine.Stop()
	assert.Equal(t, "Stopped", engine.Status())
	assert.Equal(t, "", engine.CurrentStateName())

	engine.Fire("explosion")
	assert.Equal(t, "", engine.CurrentStateName())
}

func TestEnterStateWithoutAutoplayPauses(t *testing.T) {
	machine := `{
	  "descriptor": {"id": "x", "initial": "A"},
	  "states": [{"type": "PlaybackState", "name": "A", "animationId": "anim",
	              "autoplay": false, "transitions": []}]}`

	fp := newFakePlayer()
	engine, err := NewEngine(machine, fp, nil)
	require.NoError(t, err)
	require.NoError(t, engine.Start())

	assert.Equal(t, 1, fp.pauses)
	assert.Equal(t, 0, fp.plays)
}

func TestAnimationReloadSkippedWhenActive(t *testing.T) {
	machine := `{
	  "descriptor": {"id": "x", "initial": "A"},
	  "states": [
	    {"type": "PlaybackState", "name": "A", "animationId": "anim", "autoplay": true,
	     "transitions": [{"type": "Transition", "toState": "B",
	       "guards": [{"type": "Event", "triggerName": "go"}]}]},
	    {"type": "PlaybackState", "name": "B", "animationId": "anim", "autoplay": true,
	     "transitions": []}
	  ],
	  "triggers": [{"type": "Event", "name": "go"}]}`

	fp := newFakePlayer()
	engine, err := NewEngine(machine, fp, nil)
	require.NoError(t, err)
	require.NoError(t, engine.Start())
	require.Equal(t, []string{"anim"}, fp.loads)

	engine.Fire("go")
	assert.Equal(t, "B", engine.CurrentStateName())
	// Same animation id: no reload.
	assert.Equal(t, []string{"anim"}, fp.loads)
}
