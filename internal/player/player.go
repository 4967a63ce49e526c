// Package player owns the playback clock and per-frame scheduling: modes,
// speed, segments, markers, loop counting, tween blending, and observer
// fan-out. It drives the renderer facade with at most one call per
// visible frame.
package player

import (
	"math"

	"dotlottie-go/internal/clock"
	"dotlottie-go/internal/debug"
	"dotlottie-go/internal/event"
	"dotlottie-go/internal/renderer"
)

// PlaybackState is the player lifecycle state. Completed is terminal for
// non-looping animations until the next play or rewind.
type PlaybackState int

const (
	StateStopped PlaybackState = iota
	StatePlaying
	StatePaused
	StateCompleted
)

// String returns the state name.
func (s PlaybackState) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Player is the playback core. It exclusively owns the renderer facade and
// the clock; all access is single-threaded.
type Player struct {
	renderer *renderer.Renderer
	clock    clock.Clock
	log      *debug.Logger

	config Config
	state  PlaybackState
	loaded bool

	// Clock bookkeeping: startTime anchors the running stretch, elapsedMs
	// accumulates across pauses.
	startTime float64
	elapsedMs float64

	loopCount uint32
	markers   Markers

	// Pending notifications computed by RequestFrame, emitted by Render.
	pendingLoops    uint32
	pendingComplete bool

	lastFrame float32

	observers []Observer
	events    *event.Queue[event.PlayerEvent]
}

// New creates a player over a renderer with the system clock.
func New(r *renderer.Renderer, logger *debug.Logger) *Player {
	return NewWithClock(r, logger, clock.NewSystem())
}

// NewWithClock creates a player with an explicit clock source.
func NewWithClock(r *renderer.Renderer, logger *debug.Logger, c clock.Clock) *Player {
	if logger == nil {
		logger = debug.NewLogger(1000)
	}
	logger.SetFrameSource(r.CurrentFrame)
	return &Player{
		renderer: r,
		clock:    c,
		log:      logger,
		config:   DefaultConfig(),
		state:    StateStopped,
		events:   event.NewQueue[event.PlayerEvent](),
	}
}

// Renderer exposes the owned facade to sibling engines. They must only
// use it on the player's thread.
func (p *Player) Renderer() *renderer.Renderer {
	return p.renderer
}

// LoadAnimationData loads an animation document, repopulates markers, and
// starts playback when autoplay is set. The theme id and any in-flight
// tween are cleared.
func (p *Player) LoadAnimationData(data string, width, height uint32) bool {
	if err := p.renderer.LoadData(data, width, height, true); err != nil {
		p.log.LogPlayerf(debug.LogLevelError, "load failed: %v", err)
		p.emit(event.PlayerEvent{Kind: event.PlayerLoadError})
		return false
	}

	p.markers = ExtractMarkers(data)
	p.config.ThemeID = ""
	p.renderer.TweenStop()
	p.renderer.SetBackground(p.config.BackgroundColor)
	p.loaded = true
	p.loopCount = 0
	p.pendingLoops = 0
	p.pendingComplete = false
	p.elapsedMs = 0
	p.lastFrame = -1

	p.emit(event.PlayerEvent{Kind: event.PlayerLoad})

	if p.config.Autoplay {
		p.state = StateStopped
		p.Play()
	} else {
		p.state = StateStopped
		p.SetFrame(p.startFrame())
	}
	return true
}

// IsLoaded reports whether an animation is loaded.
func (p *Player) IsLoaded() bool {
	return p.loaded
}

// State returns the playback state.
func (p *Player) State() PlaybackState {
	return p.state
}

func (p *Player) IsPlaying() bool  { return p.state == StatePlaying }
func (p *Player) IsPaused() bool   { return p.state == StatePaused }
func (p *Player) IsStopped() bool  { return p.state == StateStopped }
func (p *Player) IsComplete() bool { return p.state == StateCompleted }

// Play starts or resumes playback. Starting from Stopped or Completed
// rewinds the clock.
func (p *Player) Play() bool {
	if !p.loaded || p.state == StatePlaying {
		return false
	}
	if p.state != StatePaused {
		p.elapsedMs = 0
		p.loopCount = 0
	}
	p.startTime = p.clock.NowMillis()
	p.state = StatePlaying
	p.emit(event.PlayerEvent{Kind: event.PlayerPlay})
	return true
}

// Pause suspends the clock at the current elapsed position.
func (p *Player) Pause() bool {
	if !p.loaded || p.state != StatePlaying {
		return false
	}
	p.elapsedMs += p.clock.NowMillis() - p.startTime
	p.state = StatePaused
	p.emit(event.PlayerEvent{Kind: event.PlayerPause})
	return true
}

// Stop halts playback and rewinds to the mode's start frame.
func (p *Player) Stop() bool {
	if !p.loaded {
		return false
	}
	p.state = StateStopped
	p.elapsedMs = 0
	p.loopCount = 0
	p.pendingLoops = 0
	p.pendingComplete = false
	p.SetFrame(p.startFrame())
	p.emit(event.PlayerEvent{Kind: event.PlayerStop})
	return true
}

// Config returns the active configuration.
func (p *Player) Config() Config {
	return p.config
}

// SetConfig validates and applies a configuration. Speed is coerced
// positive; an invalid segment is dropped and the previous one retained.
// The current frame position is preserved across the change.
func (p *Player) SetConfig(config Config) {
	config.Speed = sanitizeSpeed(config.Speed)

	if !validSegment(config.Segment, p.renderer.TotalFrames()) {
		p.log.LogPlayerf(debug.LogLevelWarning, "invalid segment %v retained previous", config.Segment)
		config.Segment = p.config.Segment
	}

	// Re-anchor the clock so the visible frame survives mode and speed
	// changes.
	currentFrame := p.renderer.CurrentFrame()

	p.config = config
	p.renderer.SetBackground(config.BackgroundColor)
	if err := p.renderer.SetLayout(config.Layout); err != nil && p.loaded {
		p.log.LogPlayerf(debug.LogLevelWarning, "layout apply failed: %v", err)
	}

	if p.loaded {
		p.seekClockTo(currentFrame)
	}
}

// Markers returns the markers of the loaded animation.
func (p *Player) Markers() Markers {
	return p.markers
}

// TotalFrames, Duration, CurrentFrame, LoopCount report playback facts.
func (p *Player) TotalFrames() float32  { return p.renderer.TotalFrames() }
func (p *Player) Duration() float32     { return p.renderer.Duration() }
func (p *Player) CurrentFrame() float32 { return p.renderer.CurrentFrame() }
func (p *Player) LoopCount() uint32     { return p.loopCount }

// segmentRange computes the effective [start, end] range: the intersection
// of a valid config segment and a resolved marker, falling back to the
// whole animation.
func (p *Player) segmentRange() (float32, float32) {
	total := p.renderer.TotalFrames()
	if total <= 0 {
		return 0, 0
	}
	start, end := float32(0), total-1

	if marker, ok := p.markers[p.config.Marker]; ok {
		ms := marker.Time
		me := marker.Time + marker.Duration
		if me > end {
			me = end
		}
		if ms >= 0 && me > ms {
			start, end = ms, me
		}
	}

	if len(p.config.Segment) == 2 {
		a, b := p.config.Segment[0], p.config.Segment[1]
		if a > start {
			start = a
		}
		if b < end {
			end = b
		}
	}

	if end <= start {
		return 0, total - 1
	}
	return start, end
}

// startFrame is where Stop rewinds to: the range start for forward-going
// modes, the range end for reverse-going ones.
func (p *Player) startFrame() float32 {
	start, end := p.segmentRange()
	switch p.config.Mode {
	case ModeReverse, ModeReverseBounce:
		return end
	default:
		return start
	}
}

// fps derives the frame rate from the loaded animation.
func (p *Player) fps() float64 {
	duration := float64(p.renderer.Duration())
	if duration <= 0 {
		return 0
	}
	return float64(p.renderer.TotalFrames()) / duration
}

// elapsed returns accumulated play time in milliseconds.
func (p *Player) elapsed() float64 {
	if p.state == StatePlaying {
		return p.elapsedMs + p.clock.NowMillis() - p.startTime
	}
	return p.elapsedMs
}

// seekClockTo re-anchors the clock so RequestFrame reports the given
// frame. The frame maps onto the ascending leg of bounce modes.
func (p *Player) seekClockTo(frame float32) {
	start, end := p.segmentRange()
	if end <= start {
		return
	}
	if frame < start {
		frame = start
	}
	if frame > end {
		frame = end
	}

	var pos float64
	switch p.config.Mode {
	case ModeReverse, ModeReverseBounce:
		pos = float64(end - frame)
	default:
		pos = float64(frame - start)
	}

	fps := p.fps()
	if fps <= 0 {
		return
	}
	p.elapsedMs = pos * 1000 / (float64(p.config.Speed) * fps)
	p.startTime = p.clock.NowMillis()
}

// RequestFrame computes the frame for the current clock reading. It does
// not touch the renderer; its only side effects are loop/completion
// bookkeeping consumed by the next Render.
func (p *Player) RequestFrame() float32 {
	if !p.loaded {
		return 0
	}
	if p.renderer.IsTweening() {
		return p.renderer.CurrentFrame()
	}

	start, end := p.segmentRange()
	span := float64(end - start)
	if span <= 0 {
		return start
	}

	fps := p.fps()
	if fps <= 0 {
		return start
	}

	t := p.elapsed() * float64(p.config.Speed) * fps / 1000

	period := span
	if p.config.Mode == ModeBounce || p.config.Mode == ModeReverseBounce {
		period = 2 * span
	}

	if t >= period {
		if !p.config.LoopAnimation {
			if p.state == StatePlaying {
				p.pendingComplete = true
			}
			return p.terminalFrame(start, end)
		}
		if p.state == StatePlaying {
			// One wrap per detection: rebase the clock keeping the
			// remainder so a stalled host reports a single loop.
			p.pendingLoops++
			remainder := math.Mod(t, period)
			p.elapsedMs = remainder * 1000 / (float64(p.config.Speed) * fps)
			p.startTime = p.clock.NowMillis()
			t = remainder
		}
	}

	pos := math.Mod(t, period)
	var frame float64
	switch p.config.Mode {
	case ModeForward:
		frame = float64(start) + pos
	case ModeReverse:
		frame = float64(end) - pos
	case ModeBounce:
		if pos <= span {
			frame = float64(start) + pos
		} else {
			frame = float64(start) + 2*span - pos
		}
	case ModeReverseBounce:
		if pos <= span {
			frame = float64(end) - pos
		} else {
			frame = float64(end) - (2*span - pos)
		}
	}

	if !p.config.UseFrameInterpolation {
		frame = math.Round(frame)
	}

	if frame < float64(start) {
		frame = float64(start)
	}
	if frame > float64(end) {
		frame = float64(end)
	}
	return float32(frame)
}

func (p *Player) terminalFrame(start, end float32) float32 {
	switch p.config.Mode {
	case ModeForward:
		return end
	case ModeReverse:
		return start
	case ModeBounce:
		return start
	default:
		return end
	}
}

// SetFrame positions the renderer and notifies observers when the visible
// frame changed.
func (p *Player) SetFrame(frame float32) bool {
	if !p.loaded {
		return false
	}
	if err := p.renderer.SetFrame(frame); err != nil {
		p.log.LogPlayerf(debug.LogLevelWarning, "set frame %v: %v", frame, err)
		return false
	}
	if frame != p.lastFrame {
		p.lastFrame = frame
		p.emit(event.PlayerEvent{Kind: event.PlayerFrame, Frame: frame})
	}
	// Rewinding to the range start revives a completed animation.
	if p.state == StateCompleted && frame == p.startFrame() {
		p.state = StateStopped
	}
	return true
}

// Render draws the current frame. An active tween is stepped first; loop
// and completion events detected by the preceding RequestFrame are
// emitted after the render notification, at most one per call.
func (p *Player) Render() bool {
	if !p.loaded {
		return false
	}

	if p.renderer.IsTweening() {
		dt := p.renderDelta()
		stillActive, err := p.renderer.TweenUpdate(nil, dt)
		if err != nil {
			p.log.LogPlayerf(debug.LogLevelWarning, "tween update: %v", err)
		}
		if !stillActive {
			// Normal scheduling resumes from the tween target.
			target := p.renderer.CurrentFrame()
			if !p.config.UseFrameInterpolation {
				target = float32(math.Round(float64(target)))
			}
			p.seekClockTo(target)
		}
	}

	if err := p.renderer.Render(); err != nil {
		p.log.LogPlayerf(debug.LogLevelWarning, "render: %v", err)
		return false
	}

	frame := p.renderer.CurrentFrame()
	p.emit(event.PlayerEvent{Kind: event.PlayerRender, Frame: frame})

	if p.pendingComplete {
		p.pendingComplete = false
		p.state = StateCompleted
		p.emit(event.PlayerEvent{Kind: event.PlayerComplete})
	} else if p.pendingLoops > 0 {
		p.loopCount += p.pendingLoops
		p.pendingLoops = 0
		p.emit(event.PlayerEvent{Kind: event.PlayerLoop, LoopCount: p.loopCount})
	}
	return true
}

// renderDelta is the tween step applied per render: a fixed 1/60 s,
// independent of the clock.
var tweenTick = float64(1.0 / 60.0)

func (p *Player) renderDelta() float32 {
	return float32(tweenTick)
}

// Tick advances one host frame: request, set, render.
func (p *Player) Tick() float32 {
	frame := p.RequestFrame()
	p.SetFrame(frame)
	p.Render()
	return frame
}

// TweenTo starts a blend from the current frame to a target frame.
func (p *Player) TweenTo(toFrame, durationS float32, easing *[4]float32) bool {
	if !p.loaded {
		return false
	}
	if err := p.renderer.TweenTo(toFrame, durationS, easing); err != nil {
		p.log.LogPlayerf(debug.LogLevelWarning, "tween to %v: %v", toFrame, err)
		return false
	}
	return true
}

// TweenToMarker tweens to a marker's start frame.
func (p *Player) TweenToMarker(name string, durationS float32, easing *[4]float32) bool {
	marker, ok := p.markers[name]
	if !ok {
		return false
	}
	return p.TweenTo(marker.Time, durationS, easing)
}

// TweenStop cancels the active tween; normal scheduling resumes from the
// current frame.
func (p *Player) TweenStop() {
	if !p.renderer.IsTweening() {
		return
	}
	p.renderer.TweenStop()
	p.seekClockTo(p.renderer.CurrentFrame())
}

// IsTweening reports whether a tween is active.
func (p *Player) IsTweening() bool {
	return p.renderer.IsTweening()
}

// Subscribe registers an observer; Unsubscribe removes it.
func (p *Player) Subscribe(o Observer) {
	for _, existing := range p.observers {
		if existing == o {
			return
		}
	}
	p.observers = append(p.observers, o)
}

func (p *Player) Unsubscribe(o Observer) {
	for i, existing := range p.observers {
		if existing == o {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			return
		}
	}
}

// PollEvent drains one event from the bounded queue, for hosts that poll
// instead of subscribing.
func (p *Player) PollEvent() (event.PlayerEvent, bool) {
	return p.events.Poll()
}

// emit queues the event and fans it out to observers synchronously.
func (p *Player) emit(e event.PlayerEvent) {
	p.events.Push(e)
	for _, o := range p.observers {
		switch e.Kind {
		case event.PlayerLoad:
			o.OnLoad()
		case event.PlayerLoadError:
			o.OnLoadError()
		case event.PlayerPlay:
			o.OnPlay()
		case event.PlayerPause:
			o.OnPause()
		case event.PlayerStop:
			o.OnStop()
		case event.PlayerFrame:
			o.OnFrame(e.Frame)
		case event.PlayerRender:
			o.OnRender(e.Frame)
		case event.PlayerLoop:
			o.OnLoop(e.LoopCount)
		case event.PlayerComplete:
			o.OnComplete()
		}
	}
}
