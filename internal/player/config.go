package player

import "dotlottie-go/internal/renderer"

// Mode selects the playback direction pattern.
type Mode int

const (
	ModeForward Mode = iota
	ModeReverse
	ModeBounce
	ModeReverseBounce
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeForward:
		return "Forward"
	case ModeReverse:
		return "Reverse"
	case ModeBounce:
		return "Bounce"
	case ModeReverseBounce:
		return "ReverseBounce"
	default:
		return "Unknown"
	}
}

// Config is the validated playback configuration. Segment is either empty
// (whole animation) or exactly two frames [a, b] with a < b; invalid
// segments are rejected at apply time and the previous value retained.
type Config struct {
	Mode                  Mode
	Speed                 float32
	LoopAnimation         bool
	UseFrameInterpolation bool
	Autoplay              bool
	BackgroundColor       uint32
	Segment               []float32
	Marker                string
	AnimationID           string
	ThemeID               string
	Layout                renderer.Layout
}

// DefaultConfig mirrors the player's initial state: forward, unit speed,
// interpolated, non-looping, transparent background.
func DefaultConfig() Config {
	return Config{
		Mode:                  ModeForward,
		Speed:                 1.0,
		UseFrameInterpolation: true,
		Layout:                renderer.DefaultLayout(),
	}
}

// sanitizeSpeed coerces non-positive speeds to 1.0.
func sanitizeSpeed(speed float32) float32 {
	if speed <= 0 {
		return 1.0
	}
	return speed
}

// validSegment checks a segment against the loaded animation's frame
// count. totalFrames <= 0 means nothing is loaded yet, in which case only
// the shape is checked.
func validSegment(segment []float32, totalFrames float32) bool {
	if len(segment) == 0 {
		return true
	}
	if len(segment) != 2 {
		return false
	}
	a, b := segment[0], segment[1]
	if a != a || b != b { // NaN
		return false
	}
	if a < 0 || a >= b {
		return false
	}
	if totalFrames > 0 && b > totalFrames-1 {
		return false
	}
	return true
}
