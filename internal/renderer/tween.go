package renderer

import "math"

// Tween is a timed blend between two frames under a cubic-bezier easing.
// While active, the facade drives frames from the tween instead of the
// playback clock.
type Tween struct {
	FromFrame float32
	ToFrame   float32
	DurationS float32
	Easing    [4]float32
	Progress  float32
	Active    bool
}

// DefaultEasing is the ease-in-out curve used when none is given.
var DefaultEasing = [4]float32{0.42, 0, 0.58, 1}

// NewTween starts a blend. A non-positive duration completes the tween on
// its first Advance.
func NewTween(from, to, durationS float32, easing [4]float32) Tween {
	return Tween{
		FromFrame: from,
		ToFrame:   to,
		DurationS: durationS,
		Easing:    easing,
		Active:    true,
	}
}

// Advance moves progress by dt seconds and returns the interpolated frame.
// Progress saturates at 1, at which point the tween deactivates.
func (t *Tween) Advance(dtSeconds float32) float32 {
	if !t.Active {
		return t.ToFrame
	}
	if t.DurationS <= 0 {
		t.Progress = 1
	} else {
		t.Progress += dtSeconds / t.DurationS
	}
	return t.At(t.Progress)
}

// At returns the interpolated frame at the given progress, clamped to
// [0, 1]. Progress >= 1 completes the tween.
func (t *Tween) At(progress float32) float32 {
	if progress >= 1 {
		t.Progress = 1
		t.Active = false
		return t.ToFrame
	}
	if progress < 0 {
		progress = 0
	}
	t.Progress = progress

	eased := cubicBezierAt(t.Easing, progress)
	return t.FromFrame + (t.ToFrame-t.FromFrame)*eased
}

// cubicBezierAt evaluates a CSS-style easing curve: control points
// (p[0], p[1]) and (p[2], p[3]) with fixed endpoints (0,0) and (1,1).
// Solved for the parameter via Newton iteration with a bisection fallback.
func cubicBezierAt(p [4]float32, x float32) float32 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	x1, y1 := float64(p[0]), float64(p[1])
	x2, y2 := float64(p[2]), float64(p[3])

	sampleX := func(t float64) float64 {
		return bezierComponent(t, x1, x2)
	}
	sampleY := func(t float64) float64 {
		return bezierComponent(t, y1, y2)
	}
	derivX := func(t float64) float64 {
		// d/dt of the cubic with c = 3*x1, b = 3*(x2-x1)-c, a = 1-c-b
		c := 3 * x1
		b := 3*(x2-x1) - c
		a := 1 - c - b
		return (3*a*t+2*b)*t + c
	}

	target := float64(x)
	t := target

	for i := 0; i < 8; i++ {
		err := sampleX(t) - target
		if math.Abs(err) < 1e-6 {
			return float32(sampleY(t))
		}
		d := derivX(t)
		if math.Abs(d) < 1e-6 {
			break
		}
		t -= err / d
	}

	lo, hi := 0.0, 1.0
	t = target
	for i := 0; i < 32 && hi-lo > 1e-6; i++ {
		if sampleX(t) < target {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return float32(sampleY(t))
}

func bezierComponent(t, c1, c2 float64) float64 {
	c := 3 * c1
	b := 3*(c2-c1) - c
	a := 1 - c - b
	return ((a*t+b)*t + c) * t
}
