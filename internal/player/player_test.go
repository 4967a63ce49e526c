package player

import (
	"testing"

	"dotlottie-go/internal/clock"
	"dotlottie-go/internal/event"
	"dotlottie-go/internal/renderer"
)

// Fixture: 60 total frames, 1s duration, 60fps, 100x100.
const testAnimation = `{"v":"5.5.2","fr":60,"ip":0,"op":60,"w":100,"h":100,
	"markers":[{"cm":"intro","tm":0,"dr":20},{"cm":"outro","tm":40,"dr":19},
	           {"cm":"  ","tm":5,"dr":5}],
	"layers":[{"nm":"button"}]}`

func newTestPlayer(t *testing.T, config Config) (*Player, *clock.Manual) {
	t.Helper()
	r, err := renderer.New(renderer.BackendSoftware)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	t.Cleanup(r.Destroy)

	manual := clock.NewManual()
	p := NewWithClock(r, nil, manual)
	p.SetConfig(config)
	if !p.LoadAnimationData(testAnimation, 100, 100) {
		t.Fatalf("load failed")
	}
	return p, manual
}

// recorder captures observer notifications in order.
type recorder struct {
	BaseObserver
	loads, completes int
	loops            []uint32
	frames           []float32
	renders          []float32
	order            []string
}

func (r *recorder) OnLoad()     { r.loads++; r.order = append(r.order, "load") }
func (r *recorder) OnComplete() { r.completes++; r.order = append(r.order, "complete") }
func (r *recorder) OnLoop(n uint32) {
	r.loops = append(r.loops, n)
	r.order = append(r.order, "loop")
}
func (r *recorder) OnFrame(f float32) {
	r.frames = append(r.frames, f)
	r.order = append(r.order, "frame")
}
func (r *recorder) OnRender(f float32) {
	r.renders = append(r.renders, f)
	r.order = append(r.order, "render")
}

func TestAutoplayInterpolatedFrameAfter500ms(t *testing.T) {
	config := DefaultConfig()
	config.Autoplay = true
	p, c := newTestPlayer(t, config)

	if !p.IsPlaying() {
		t.Fatalf("autoplay should start playback, state=%v", p.State())
	}

	c.Advance(500)
	frame := p.RequestFrame()
	if frame < 29 || frame > 31 {
		t.Errorf("frame after 500ms = %v, want [29, 31]", frame)
	}
}

func TestAutoplayRoundedFrameAfter500ms(t *testing.T) {
	config := DefaultConfig()
	config.Autoplay = true
	config.UseFrameInterpolation = false
	p, c := newTestPlayer(t, config)

	c.Advance(500)
	if frame := p.RequestFrame(); frame != 30 {
		t.Errorf("frame after 500ms = %v, want exactly 30", frame)
	}
}

func TestSegmentCompletesNonLooping(t *testing.T) {
	config := DefaultConfig()
	config.Autoplay = true
	config.Segment = []float32{10, 30}
	p, c := newTestPlayer(t, config)

	rec := &recorder{}
	p.Subscribe(rec)

	c.Advance(1000)
	frame := p.RequestFrame()
	if frame != 30 {
		t.Errorf("frame = %v, want clamp to 30", frame)
	}
	p.SetFrame(frame)
	p.Render()

	if rec.completes != 1 {
		t.Errorf("completes = %d, want 1", rec.completes)
	}
	if !p.IsComplete() {
		t.Errorf("state = %v, want Completed", p.State())
	}

	// Completed is terminal: another render emits nothing new.
	p.Render()
	if rec.completes != 1 {
		t.Errorf("completes after second render = %d, want 1", rec.completes)
	}
}

func TestSegmentLoopEmittedOnce(t *testing.T) {
	config := DefaultConfig()
	config.Autoplay = true
	config.LoopAnimation = true
	config.Segment = []float32{10, 30}
	p, c := newTestPlayer(t, config)

	rec := &recorder{}
	p.Subscribe(rec)

	c.Advance(1000)
	p.SetFrame(p.RequestFrame())
	p.Render()

	if len(rec.loops) != 1 || rec.loops[0] != 1 {
		t.Errorf("loops = %v, want exactly [1]", rec.loops)
	}
	if p.LoopCount() != 1 {
		t.Errorf("loop count = %d, want 1", p.LoopCount())
	}
}

func TestFramesStayInsideSegment(t *testing.T) {
	config := DefaultConfig()
	config.Autoplay = true
	config.LoopAnimation = true
	config.Segment = []float32{10, 30}
	p, c := newTestPlayer(t, config)

	for i := 0; i < 120; i++ {
		c.Advance(16)
		frame := p.RequestFrame()
		if frame < 10 || frame > 30 {
			t.Fatalf("frame %v outside segment [10, 30] at step %d", frame, i)
		}
		p.SetFrame(frame)
		p.Render()
	}
}

func TestBounceSequence(t *testing.T) {
	config := DefaultConfig()
	config.Autoplay = true
	config.LoopAnimation = true
	config.Mode = ModeBounce
	config.Speed = 2.0
	config.UseFrameInterpolation = false
	config.Segment = []float32{0, 20}
	p, c := newTestPlayer(t, config)

	var frames []float32
	for i := 0; i < 250; i++ {
		c.Advance(8)
		frame := p.RequestFrame()
		if frame < 0 || frame > 20 {
			t.Fatalf("frame %v outside [0, 20]", frame)
		}
		frames = append(frames, frame)
		p.SetFrame(frame)
		p.Render()
	}

	// The sequence must rise to 20, fall back to 0, and rise again.
	phase := 0 // 0 rising, 1 falling, 2 rising again
	sawTop, sawBottom := false, false
	for i := 1; i < len(frames); i++ {
		delta := frames[i] - frames[i-1]
		switch phase {
		case 0:
			if frames[i] == 20 {
				sawTop = true
				phase = 1
			} else if delta < 0 {
				t.Fatalf("descending at %d before reaching 20: %v -> %v", i, frames[i-1], frames[i])
			}
		case 1:
			if frames[i] == 0 {
				sawBottom = true
				phase = 2
			} else if delta > 0 && frames[i-1] != 20 {
				t.Fatalf("ascending at %d during fall: %v -> %v", i, frames[i-1], frames[i])
			}
		}
	}
	if !sawTop || !sawBottom || phase != 2 {
		t.Errorf("bounce did not complete a full cycle: top=%v bottom=%v phase=%d", sawTop, sawBottom, phase)
	}
}

func TestReverseMode(t *testing.T) {
	config := DefaultConfig()
	config.Autoplay = true
	config.Mode = ModeReverse
	p, c := newTestPlayer(t, config)

	c.Advance(250)
	frame := p.RequestFrame()
	if frame < 43 || frame > 45 {
		t.Errorf("reverse frame after 250ms = %v, want ~44", frame)
	}
}

func TestInvalidSegmentRetainsPrevious(t *testing.T) {
	config := DefaultConfig()
	config.Segment = []float32{10, 30}
	p, _ := newTestPlayer(t, config)

	bad := p.Config()
	bad.Segment = []float32{30, 10}
	p.SetConfig(bad)
	if got := p.Config().Segment; len(got) != 2 || got[0] != 10 || got[1] != 30 {
		t.Errorf("segment = %v, want previous [10 30] retained", got)
	}

	tooLong := p.Config()
	tooLong.Segment = []float32{0, 600}
	p.SetConfig(tooLong)
	if got := p.Config().Segment; len(got) != 2 || got[1] != 30 {
		t.Errorf("segment = %v, want previous retained", got)
	}
}

func TestSpeedCoercion(t *testing.T) {
	config := DefaultConfig()
	p, _ := newTestPlayer(t, config)

	config.Speed = -2
	p.SetConfig(config)
	if p.Config().Speed != 1.0 {
		t.Errorf("speed = %v, want coerced to 1.0", p.Config().Speed)
	}
}

func TestMarkerDrivesSegment(t *testing.T) {
	config := DefaultConfig()
	config.Autoplay = true
	config.LoopAnimation = true
	config.Marker = "outro"
	p, c := newTestPlayer(t, config)

	for i := 0; i < 90; i++ {
		c.Advance(16)
		frame := p.RequestFrame()
		if frame < 40 || frame > 59 {
			t.Fatalf("frame %v outside marker range [40, 59]", frame)
		}
	}

	// Unknown marker falls back to the whole animation.
	cfg := p.Config()
	cfg.Marker = "missing"
	p.SetConfig(cfg)
	p.Stop()
	p.Play()
	c.Advance(900)
	if frame := p.RequestFrame(); frame < 40 {
		// 900ms into the full 59-frame range lands at 54.
		t.Errorf("frame = %v, want position in full range", frame)
	}
}

func TestMarkerIntersectsSegment(t *testing.T) {
	config := DefaultConfig()
	config.Autoplay = true
	config.LoopAnimation = true
	config.Marker = "intro" // [0, 20]
	config.Segment = []float32{10, 50}
	p, c := newTestPlayer(t, config)

	for i := 0; i < 90; i++ {
		c.Advance(16)
		frame := p.RequestFrame()
		if frame < 10 || frame > 20 {
			t.Fatalf("frame %v outside intersection [10, 20]", frame)
		}
	}
}

func TestWhitespaceMarkerNameSkipped(t *testing.T) {
	p, _ := newTestPlayer(t, DefaultConfig())
	if _, ok := p.Markers()["  "]; ok {
		t.Error("whitespace marker name should be skipped")
	}
	if len(p.Markers()) != 2 {
		t.Errorf("markers = %d, want 2", len(p.Markers()))
	}
}

func TestPauseResumePreservesPosition(t *testing.T) {
	config := DefaultConfig()
	config.Autoplay = true
	p, c := newTestPlayer(t, config)

	c.Advance(250)
	p.SetFrame(p.RequestFrame())
	p.Pause()
	pausedFrame := p.RequestFrame()

	c.Advance(5000)
	if frame := p.RequestFrame(); frame != pausedFrame {
		t.Errorf("frame drifted to %v while paused, want %v", frame, pausedFrame)
	}

	p.Play()
	c.Advance(250)
	frame := p.RequestFrame()
	if frame < 29 || frame > 31 {
		t.Errorf("frame after resume = %v, want ~30", frame)
	}
}

func TestStopRewindsToModeStart(t *testing.T) {
	config := DefaultConfig()
	config.Autoplay = true
	p, c := newTestPlayer(t, config)

	c.Advance(400)
	p.SetFrame(p.RequestFrame())
	p.Stop()
	if frame := p.CurrentFrame(); frame != 0 {
		t.Errorf("frame after stop = %v, want 0", frame)
	}

	cfg := p.Config()
	cfg.Mode = ModeReverse
	p.SetConfig(cfg)
	p.Stop()
	if frame := p.CurrentFrame(); frame != 59 {
		t.Errorf("frame after reverse stop = %v, want 59", frame)
	}
}

func TestObserverOrderingWithinRender(t *testing.T) {
	config := DefaultConfig()
	config.Autoplay = true
	config.Segment = []float32{10, 30}
	p, c := newTestPlayer(t, config)

	rec := &recorder{}
	p.Subscribe(rec)

	c.Advance(1000)
	p.SetFrame(p.RequestFrame())
	p.Render()

	// Frame (changed) -> Render -> Complete.
	want := []string{"frame", "render", "complete"}
	if len(rec.order) != 3 {
		t.Fatalf("order = %v, want %v", rec.order, want)
	}
	for i, name := range want {
		if rec.order[i] != name {
			t.Fatalf("order = %v, want %v", rec.order, want)
		}
	}
}

func TestEventQueueCoalescesFrames(t *testing.T) {
	config := DefaultConfig()
	config.Autoplay = true
	p, c := newTestPlayer(t, config)

	// Drain load/play events.
	for {
		if _, ok := p.PollEvent(); !ok {
			break
		}
	}

	for i := 0; i < 5; i++ {
		c.Advance(16)
		p.SetFrame(p.RequestFrame())
	}

	var frames int
	for {
		e, ok := p.PollEvent()
		if !ok {
			break
		}
		if e.Kind == event.PlayerFrame {
			frames++
		}
	}
	if frames != 1 {
		t.Errorf("frame events in queue = %d, want coalesced to 1", frames)
	}
}

func TestTweenSuspendsScheduling(t *testing.T) {
	config := DefaultConfig()
	config.Autoplay = true
	p, c := newTestPlayer(t, config)

	p.SetFrame(0)
	if !p.TweenTo(30, 0.5, nil) {
		t.Fatal("tween start failed")
	}
	if !p.IsTweening() {
		t.Fatal("tween should be active")
	}

	// While tweening, RequestFrame reports the tween's frame, not the
	// clock's.
	c.Advance(900)
	p.Render()
	frame := p.RequestFrame()
	if frame <= 0 || frame > 30 {
		t.Errorf("tween frame = %v, want inside (0, 30]", frame)
	}

	// Finish the tween: ~0.5s of renders.
	for i := 0; i < 40 && p.IsTweening(); i++ {
		p.Render()
	}
	if p.IsTweening() {
		t.Fatal("tween should have completed")
	}
	if got := p.CurrentFrame(); got != 30 {
		t.Errorf("frame after tween = %v, want 30", got)
	}
}

func TestTweenToMarkerAndStop(t *testing.T) {
	p, _ := newTestPlayer(t, DefaultConfig())

	if p.TweenToMarker("missing", 1, nil) {
		t.Error("tween to unknown marker should fail")
	}
	if !p.TweenToMarker("outro", 1, nil) {
		t.Error("tween to known marker should start")
	}
	p.TweenStop()
	if p.IsTweening() {
		t.Error("tween stop should clear the blend")
	}
}

func TestFrameNeverOutOfBounds(t *testing.T) {
	config := DefaultConfig()
	config.Autoplay = true
	config.LoopAnimation = true
	config.Speed = 3.5
	p, c := newTestPlayer(t, config)

	total := p.TotalFrames()
	for i := 0; i < 500; i++ {
		c.Advance(7)
		frame := p.RequestFrame()
		if frame != frame || frame < 0 || frame >= total {
			t.Fatalf("frame %v outside [0, %v)", frame, total)
		}
	}
}

func TestLoadClearsThemeAndResetsState(t *testing.T) {
	config := DefaultConfig()
	p, _ := newTestPlayer(t, config)

	cfg := p.Config()
	cfg.ThemeID = "dark"
	p.SetConfig(cfg)

	if !p.LoadAnimationData(testAnimation, 100, 100) {
		t.Fatal("reload failed")
	}
	if p.Config().ThemeID != "" {
		t.Errorf("theme id = %q, want cleared on load", p.Config().ThemeID)
	}
	if p.LoopCount() != 0 {
		t.Errorf("loop count = %d, want 0", p.LoopCount())
	}
}
