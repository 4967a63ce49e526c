package dotlottie

import (
	"dotlottie-go/internal/debug"
	"dotlottie-go/internal/player"
	"dotlottie-go/internal/policy"
	"dotlottie-go/internal/statemachine"
)

// State machine surface. One machine runs at a time; loading a container
// or a new machine replaces it.

// StateMachineLoad loads a machine from the open container by id.
func (p *DotLottiePlayer) StateMachineLoad(stateMachineID string) bool {
	if p.reader == nil {
		return false
	}
	data, err := p.reader.StateMachine(stateMachineID)
	if err != nil {
		p.log.LogContainerf(debug.LogLevelWarning, "state machine %q: %v", stateMachineID, err)
		return false
	}
	return p.StateMachineLoadData(data)
}

// StateMachineLoadData parses and structurally checks a machine document.
// A failing load leaves any running machine untouched.
func (p *DotLottiePlayer) StateMachineLoadData(data string) bool {
	engine, err := statemachine.NewEngine(data, p, p.log)
	if err != nil {
		p.log.LogStateMachinef(debug.LogLevelError, "load: %v", err)
		return false
	}
	p.StateMachineStop()
	p.machine = engine
	return true
}

// StateMachineStart enters the machine's initial state.
func (p *DotLottiePlayer) StateMachineStart() bool {
	if p.machine == nil {
		return false
	}
	if err := p.machine.Start(); err != nil {
		p.log.LogStateMachinef(debug.LogLevelError, "start: %v", err)
		return false
	}
	return true
}

// StateMachineStop halts and discards nothing; the machine may be started
// again.
func (p *DotLottiePlayer) StateMachineStop() {
	if p.machine != nil {
		p.machine.Stop()
	}
}

// StateMachineStatus reports "Running" or "Stopped"; "" when no machine is
// loaded.
func (p *DotLottiePlayer) StateMachineStatus() string {
	if p.machine == nil {
		return ""
	}
	return p.machine.Status()
}

// StateMachineCurrentState reports the active state name.
func (p *DotLottiePlayer) StateMachineCurrentState() string {
	if p.machine == nil {
		return ""
	}
	return p.machine.CurrentStateName()
}

// StateMachinePostEvent feeds a stimulus into the machine.
func (p *DotLottiePlayer) StateMachinePostEvent(evt StateMachineEvent) {
	if p.machine != nil {
		p.machine.PostEvent(evt)
	}
}

// Pointer convenience posters.
func (p *DotLottiePlayer) PostPointerDown(x, y float32) {
	p.StateMachinePostEvent(StateMachineEvent{Kind: statemachine.EventPointerDown, X: x, Y: y})
}

func (p *DotLottiePlayer) PostPointerUp(x, y float32) {
	p.StateMachinePostEvent(StateMachineEvent{Kind: statemachine.EventPointerUp, X: x, Y: y})
}

func (p *DotLottiePlayer) PostPointerMove(x, y float32) {
	p.StateMachinePostEvent(StateMachineEvent{Kind: statemachine.EventPointerMove, X: x, Y: y})
}

func (p *DotLottiePlayer) PostPointerEnter(x, y float32) {
	p.StateMachinePostEvent(StateMachineEvent{Kind: statemachine.EventPointerEnter, X: x, Y: y})
}

func (p *DotLottiePlayer) PostPointerExit(x, y float32) {
	p.StateMachinePostEvent(StateMachineEvent{Kind: statemachine.EventPointerExit, X: x, Y: y})
}

// StateMachineFireEvent posts a declared event trigger by name.
func (p *DotLottiePlayer) StateMachineFireEvent(name string) {
	if p.machine != nil {
		p.machine.Fire(name)
	}
}

// Typed trigger setters and getters.
func (p *DotLottiePlayer) StateMachineSetNumericTrigger(name string, value float32) {
	if p.machine != nil {
		p.machine.SetNumeric(name, value)
	}
}

func (p *DotLottiePlayer) StateMachineSetStringTrigger(name, value string) {
	if p.machine != nil {
		p.machine.SetString(name, value)
	}
}

func (p *DotLottiePlayer) StateMachineSetBooleanTrigger(name string, value bool) {
	if p.machine != nil {
		p.machine.SetBoolean(name, value)
	}
}

func (p *DotLottiePlayer) StateMachineGetNumericTrigger(name string) (float32, bool) {
	if p.machine == nil {
		return 0, false
	}
	return p.machine.GetNumeric(name)
}

func (p *DotLottiePlayer) StateMachineGetStringTrigger(name string) (string, bool) {
	if p.machine == nil {
		return "", false
	}
	return p.machine.GetString(name)
}

func (p *DotLottiePlayer) StateMachineGetBooleanTrigger(name string) (bool, bool) {
	if p.machine == nil {
		return false, false
	}
	return p.machine.GetBoolean(name)
}

// StateMachineSubscribe registers a machine observer.
func (p *DotLottiePlayer) StateMachineSubscribe(o StateMachineObserver) {
	if p.machine != nil {
		p.machine.Subscribe(o)
	}
}

func (p *DotLottiePlayer) StateMachineUnsubscribe(o StateMachineObserver) {
	if p.machine != nil {
		p.machine.Unsubscribe(o)
	}
}

// SetOpenURLPolicy configures the whitelist and interaction requirement
// gating OpenUrl actions.
func (p *DotLottiePlayer) SetOpenURLPolicy(whitelist []string, requireUserInteraction bool) bool {
	urlPolicy, err := policy.NewOpenURLPolicy(whitelist, requireUserInteraction)
	if err != nil {
		p.log.LogPolicyf(debug.LogLevelError, "policy: %v", err)
		return false
	}
	if p.machine != nil {
		p.machine.SetOpenURLPolicy(urlPolicy)
	}
	return true
}

// The statemachine.PlayerHandle capability: the engine drives the player
// through these without owning it.

// ApplyStateConfig merges a playback state's config override onto the
// player's configuration. Autoplay and Loop are always overwritten; the
// other fields keep the current setting when absent.
func (p *DotLottiePlayer) ApplyStateConfig(override *statemachine.PlaybackConfig) {
	if override == nil {
		return
	}
	config := p.player.Config()
	config.Autoplay = override.Autoplay
	config.LoopAnimation = override.Loop
	if override.Mode != "" {
		config.Mode = modeFromString(override.Mode)
	}
	if override.Speed != nil {
		config.Speed = *override.Speed
	}
	if override.UseFrameInterpolation != nil {
		config.UseFrameInterpolation = *override.UseFrameInterpolation
	}
	if len(override.Segment) == 2 {
		config.Segment = override.Segment
	}
	if override.Marker != "" {
		config.Marker = override.Marker
	}
	if override.BackgroundColor != nil {
		config.BackgroundColor = *override.BackgroundColor
	}
	p.player.SetConfig(config)
}

func modeFromString(mode string) player.Mode {
	switch mode {
	case "Reverse":
		return ModeReverse
	case "Bounce":
		return ModeBounce
	case "ReverseBounce":
		return ModeReverseBounce
	default:
		return ModeForward
	}
}

// LoadAnimationByID switches animations for a playback state while
// preserving the renderer target and the current theme.
func (p *DotLottiePlayer) LoadAnimationByID(animationID string) bool {
	themeID := p.activeThemeID
	if !p.LoadAnimation(animationID) {
		return false
	}
	if themeID != "" && p.activeThemeID != themeID {
		p.SetTheme(themeID)
	}
	return true
}
