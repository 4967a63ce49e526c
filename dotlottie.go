// Package dotlottie is a playback runtime for Lottie vector animations
// packaged as raw JSON or as zipped .lottie containers. It couples a
// frame-accurate playback core, a declarative state machine engine, and a
// theming/slot/global-inputs engine over an external vector rasterizer.
//
// The player is single-threaded cooperative: the host calls Tick,
// RequestFrame, Render, and the event/input entry points from one thread.
// Exposing a player to multiple threads requires an external mutex.
package dotlottie

import (
	"fmt"
	"os"

	"dotlottie-go/internal/clock"
	"dotlottie-go/internal/container"
	"dotlottie-go/internal/debug"
	"dotlottie-go/internal/event"
	"dotlottie-go/internal/inputs"
	"dotlottie-go/internal/player"
	"dotlottie-go/internal/renderer"
	"dotlottie-go/internal/slots"
	"dotlottie-go/internal/statemachine"
)

// Re-exported configuration types so hosts configure the player without
// reaching into internal packages.
type (
	Config        = player.Config
	Mode          = player.Mode
	Marker        = player.Marker
	Observer      = player.Observer
	BaseObserver  = player.BaseObserver
	PlaybackState = player.PlaybackState
	Layout        = renderer.Layout
	Fit           = renderer.Fit
	GradientStop  = slots.GradientStop
	TextDocument  = slots.TextDocument
	PlayerEvent   = event.PlayerEvent

	StateMachineObserver     = statemachine.Observer
	StateMachineBaseObserver = statemachine.BaseObserver
	StateMachineEvent        = statemachine.Event

	GlobalInputsObserver     = inputs.Observer
	GlobalInputsBaseObserver = inputs.BaseObserver
)

// Re-exported constants.
const (
	ModeForward       = player.ModeForward
	ModeReverse       = player.ModeReverse
	ModeBounce        = player.ModeBounce
	ModeReverseBounce = player.ModeReverseBounce

	StateStopped   = player.StateStopped
	StatePlaying   = player.StatePlaying
	StatePaused    = player.StatePaused
	StateCompleted = player.StateCompleted
)

// DefaultConfig returns the player's initial configuration.
func DefaultConfig() Config {
	return player.DefaultConfig()
}

// Clock is the monotonic millisecond source driving playback. ManualClock
// is the hand-advanced variant for deterministic tests and hosts that own
// time.
type (
	Clock       = clock.Clock
	ManualClock = clock.Manual
)

// NewManualClock creates a hand-advanced clock starting at zero.
func NewManualClock() *ManualClock {
	return clock.NewManual()
}

// DotLottiePlayer is the public runtime handle. It owns the renderer, the
// playback core, and the theme slots; the state machine and global-inputs
// engines hold back references through capability interfaces.
type DotLottiePlayer struct {
	log      *debug.Logger
	renderer *renderer.Renderer
	player   *player.Player

	reader            *container.Reader
	activeAnimationID string
	activeThemeID     string
	themeSlots        slots.Document

	machine      *statemachine.Engine
	globalInputs *inputs.Engine

	width  uint32
	height uint32

	// Bridges player completion events into the running state machine.
	machineBridge *completionBridge
}

// NewDotLottiePlayer creates a player with the software backend and the
// system clock.
func NewDotLottiePlayer(config Config) (*DotLottiePlayer, error) {
	return newPlayer(config, clock.NewSystem())
}

// NewDotLottiePlayerWithClock creates a player with an explicit clock, for
// hosts that drive time themselves.
func NewDotLottiePlayerWithClock(config Config, c clock.Clock) (*DotLottiePlayer, error) {
	return newPlayer(config, c)
}

func newPlayer(config Config, c clock.Clock) (*DotLottiePlayer, error) {
	logger := debug.NewLogger(10000)
	r, err := renderer.New(renderer.BackendSoftware)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	core := player.NewWithClock(r, logger, c)
	core.SetConfig(config)

	p := &DotLottiePlayer{
		log:        logger,
		renderer:   r,
		player:     core,
		themeSlots: make(slots.Document),
	}
	p.machineBridge = &completionBridge{player: p}
	core.Subscribe(p.machineBridge)
	return p, nil
}

// Destroy tears the player down and releases the renderer backend.
func (p *DotLottiePlayer) Destroy() {
	p.StateMachineStop()
	p.renderer.Destroy()
}

// Logger exposes the component logger for diagnostics tooling.
func (p *DotLottiePlayer) Logger() *debug.Logger {
	return p.log
}

// LoadAnimationData loads a raw Lottie document. Any open container stays
// available for later by-id loads.
func (p *DotLottiePlayer) LoadAnimationData(data string, width, height uint32) bool {
	p.width = width
	p.height = height
	p.activeAnimationID = ""
	p.clearTheme()
	return p.player.LoadAnimationData(data, width, height)
}

// LoadAnimationPath loads a raw Lottie document from disk.
func (p *DotLottiePlayer) LoadAnimationPath(path string, width, height uint32) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		p.log.LogPlayerf(debug.LogLevelError, "read %s: %v", path, err)
		return false
	}
	return p.LoadAnimationData(string(data), width, height)
}

// LoadDotLottieData opens a .lottie container and loads its initial
// animation. A previous container is replaced; its state machine is
// stopped.
func (p *DotLottiePlayer) LoadDotLottieData(data []byte, width, height uint32) bool {
	reader, err := container.Open(data)
	if err != nil {
		p.log.LogContainerf(debug.LogLevelError, "open container: %v", err)
		return false
	}

	p.StateMachineStop()
	p.globalInputs = nil
	p.reader = reader
	p.width = width
	p.height = height
	return p.loadContainerAnimation(reader.ActiveAnimationID())
}

// LoadDotLottiePath opens a .lottie container from disk.
func (p *DotLottiePlayer) LoadDotLottiePath(path string, width, height uint32) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		p.log.LogContainerf(debug.LogLevelError, "read %s: %v", path, err)
		return false
	}
	return p.LoadDotLottieData(data, width, height)
}

// LoadAnimation switches to another animation of the open container.
func (p *DotLottiePlayer) LoadAnimation(animationID string) bool {
	if p.reader == nil {
		return false
	}
	return p.loadContainerAnimation(animationID)
}

func (p *DotLottiePlayer) loadContainerAnimation(animationID string) bool {
	data, err := p.reader.Animation(animationID)
	if err != nil {
		p.log.LogContainerf(debug.LogLevelError, "animation %q: %v", animationID, err)
		return false
	}
	p.clearTheme()
	if !p.player.LoadAnimationData(data, p.width, p.height) {
		return false
	}
	p.activeAnimationID = animationID

	// The manifest may pin an initial theme for this animation.
	if entry := p.reader.Manifest().Animation(animationID); entry != nil && entry.InitialTheme != "" {
		p.SetTheme(entry.InitialTheme)
	}
	return true
}

// Manifest returns the open container's manifest, nil for raw loads.
func (p *DotLottiePlayer) Manifest() *container.Manifest {
	if p.reader == nil {
		return nil
	}
	return p.reader.Manifest()
}

// ActiveAnimationID reports the loaded container animation id, "" for raw
// document loads.
func (p *DotLottiePlayer) ActiveAnimationID() string {
	return p.activeAnimationID
}

// ActiveThemeID reports the applied theme id, "" for none.
func (p *DotLottiePlayer) ActiveThemeID() string {
	return p.activeThemeID
}

// Playback surface, delegated to the core.

func (p *DotLottiePlayer) IsLoaded() bool          { return p.player.IsLoaded() }
func (p *DotLottiePlayer) Play() bool              { return p.player.Play() }
func (p *DotLottiePlayer) Pause() bool             { return p.player.Pause() }
func (p *DotLottiePlayer) Stop() bool              { return p.player.Stop() }
func (p *DotLottiePlayer) State() PlaybackState    { return p.player.State() }
func (p *DotLottiePlayer) IsPlaying() bool         { return p.player.IsPlaying() }
func (p *DotLottiePlayer) IsPaused() bool          { return p.player.IsPaused() }
func (p *DotLottiePlayer) IsStopped() bool         { return p.player.IsStopped() }
func (p *DotLottiePlayer) IsComplete() bool        { return p.player.IsComplete() }
func (p *DotLottiePlayer) RequestFrame() float32   { return p.player.RequestFrame() }
func (p *DotLottiePlayer) SetFrame(f float32) bool { return p.player.SetFrame(f) }
func (p *DotLottiePlayer) Render() bool            { return p.player.Render() }
func (p *DotLottiePlayer) Tick() float32           { return p.player.Tick() }
func (p *DotLottiePlayer) CurrentFrame() float32   { return p.player.CurrentFrame() }
func (p *DotLottiePlayer) TotalFrames() float32    { return p.player.TotalFrames() }
func (p *DotLottiePlayer) Duration() float32       { return p.player.Duration() }
func (p *DotLottiePlayer) LoopCount() uint32       { return p.player.LoopCount() }
func (p *DotLottiePlayer) Markers() []Marker       { return p.player.Markers().List() }
func (p *DotLottiePlayer) Subscribe(o Observer)    { p.player.Subscribe(o) }
func (p *DotLottiePlayer) Unsubscribe(o Observer)  { p.player.Unsubscribe(o) }

// PollEvent drains one queued player event.
func (p *DotLottiePlayer) PollEvent() (PlayerEvent, bool) {
	return p.player.PollEvent()
}

// Buffer exposes the pixel buffer; read-only between renders.
func (p *DotLottiePlayer) Buffer() []uint32 { return p.renderer.Buffer() }

// BufferLen reports the buffer length in pixels (width * height).
func (p *DotLottiePlayer) BufferLen() int { return len(p.renderer.Buffer()) }

// Width and Height report the canvas size.
func (p *DotLottiePlayer) Width() uint32  { return p.renderer.Width() }
func (p *DotLottiePlayer) Height() uint32 { return p.renderer.Height() }

// Resize reallocates the render target.
func (p *DotLottiePlayer) Resize(width, height uint32) bool {
	if err := p.renderer.Resize(width, height); err != nil {
		p.log.LogRendererf(debug.LogLevelWarning, "resize: %v", err)
		return false
	}
	p.width = width
	p.height = height
	return true
}

// SetViewport restricts rendering to a sub-rectangle.
func (p *DotLottiePlayer) SetViewport(x, y, w, h int32) bool {
	return p.renderer.SetViewport(x, y, w, h) == nil
}

// RegisterFont hands font bytes to the rasterizer under a family name.
func (p *DotLottiePlayer) RegisterFont(name string, data []byte) bool {
	if err := p.renderer.RegisterFont(name, data); err != nil {
		p.log.LogRendererf(debug.LogLevelWarning, "register font %q: %v", name, err)
		return false
	}
	return true
}

// Config returns the active configuration.
func (p *DotLottiePlayer) Config() Config {
	config := p.player.Config()
	config.AnimationID = p.activeAnimationID
	config.ThemeID = p.activeThemeID
	return config
}

// SetConfig applies a configuration. The animation and theme ids switch
// the active animation and theme when they differ from the current ones.
func (p *DotLottiePlayer) SetConfig(config Config) {
	if config.AnimationID != "" && config.AnimationID != p.activeAnimationID {
		p.LoadAnimation(config.AnimationID)
	}
	if config.ThemeID != p.activeThemeID {
		if config.ThemeID == "" {
			p.ResetTheme()
		} else {
			p.SetTheme(config.ThemeID)
		}
	}
	config.AnimationID = p.activeAnimationID
	config.ThemeID = p.activeThemeID
	p.player.SetConfig(config)
}

// Tween surface.

func (p *DotLottiePlayer) TweenTo(frame, durationS float32, easing *[4]float32) bool {
	return p.player.TweenTo(frame, durationS, easing)
}

func (p *DotLottiePlayer) TweenToMarker(name string, durationS float32, easing *[4]float32) bool {
	return p.player.TweenToMarker(name, durationS, easing)
}

func (p *DotLottiePlayer) TweenStop()       { p.player.TweenStop() }
func (p *DotLottiePlayer) IsTweening() bool { return p.player.IsTweening() }

// TweenUpdate applies an explicit tween progress step.
func (p *DotLottiePlayer) TweenUpdate(progress float32) bool {
	active, err := p.renderer.TweenUpdate(&progress, 0)
	if err != nil {
		p.log.LogRendererf(debug.LogLevelWarning, "tween update: %v", err)
		return false
	}
	return active
}

// HitCheck reports whether the point hits the named layer.
func (p *DotLottiePlayer) HitCheck(layerName string, x, y float32) bool {
	return p.renderer.HitCheck(layerName, x, y)
}

// LayerBounds reports [x, y, w, h] of the named layer.
func (p *DotLottiePlayer) LayerBounds(layerName string) ([4]float32, bool) {
	bounds, err := p.renderer.LayerBounds(layerName)
	return bounds, err == nil
}

// completionBridge forwards completion events into the running state
// machine on the same thread.
type completionBridge struct {
	player.BaseObserver
	player *DotLottiePlayer
}

func (b *completionBridge) OnComplete() {
	if machine := b.player.machine; machine != nil {
		machine.PostEvent(statemachine.Event{Kind: statemachine.EventOnComplete})
	}
}

func (b *completionBridge) OnLoop(uint32) {
	if machine := b.player.machine; machine != nil {
		machine.PostEvent(statemachine.Event{Kind: statemachine.EventOnLoopComplete})
	}
}
