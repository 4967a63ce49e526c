package slots

import "github.com/lucasb-eyer/go-colorful"

// GradientStop is one color stop. Color holds 3 (RGB) or 4 (RGBA)
// components in [0,1].
type GradientStop struct {
	Offset float32   `json:"offset"`
	Color  []float32 `json:"color"`
}

// GradientProperty is the payload of a gradient slot. The static form holds
// a flattened stop array ([offset r g b]* followed by an optional
// [offset a]* transparency track); the animated form holds keyframes whose
// Value fields use the same flattened layout. NumStops is the stop count
// the rasterizer was told to expect.
type GradientProperty struct {
	Animated  bool
	Value     []float32
	Keyframes []Keyframe
	NumStops  int
}

// NewGradient creates a static gradient slot from stops.
func NewGradient(stops []GradientStop) *Slot {
	return &Slot{
		Kind: KindGradient,
		Gradient: &GradientProperty{
			Value:    FlattenStops(stops),
			NumStops: len(stops),
		},
	}
}

// NewAnimatedGradient creates an animated gradient slot. Keyframe values
// are stored as given (callers flatten them with FlattenStops); numStops
// becomes NumStops.
func NewAnimatedGradient(keyframes []Keyframe, numStops int) *Slot {
	return &Slot{
		Kind: KindGradient,
		Gradient: &GradientProperty{
			Animated:  true,
			Keyframes: keyframes,
			NumStops:  numStops,
		},
	}
}

// FlattenStops converts stops to the rasterizer's wire layout: the color
// track first, then (only when any stop carries alpha) the transparency
// track appended.
func FlattenStops(stops []GradientStop) []float32 {
	var colorData []float32
	var alphaData []float32

	alphaPresent := false
	for _, stop := range stops {
		if len(stop.Color) == 4 {
			alphaPresent = true
			break
		}
	}

	for _, stop := range stops {
		colorData = append(colorData, stop.Offset)
		for i := 0; i < 3 && i < len(stop.Color); i++ {
			colorData = append(colorData, stop.Color[i])
		}
		for i := len(stop.Color); i < 3; i++ {
			colorData = append(colorData, 0)
		}

		if alphaPresent {
			alpha := float32(1.0)
			if len(stop.Color) == 4 {
				alpha = stop.Color[3]
			}
			alphaData = append(alphaData, stop.Offset, alpha)
		}
	}

	return append(colorData, alphaData...)
}

// BlendStops linearly interpolates two equal-length stop lists in RGB space,
// t in [0,1]. Lists of different lengths return from unchanged.
func BlendStops(from, to []GradientStop, t float64) []GradientStop {
	if len(from) != len(to) {
		return from
	}
	out := make([]GradientStop, len(from))
	for i := range from {
		a := stopColor(from[i])
		b := stopColor(to[i])
		c := a.BlendRgb(b, t)
		offset := from[i].Offset + float32(t)*(to[i].Offset-from[i].Offset)
		out[i] = GradientStop{
			Offset: offset,
			Color:  []float32{float32(c.R), float32(c.G), float32(c.B)},
		}
	}
	return out
}

func stopColor(s GradientStop) colorful.Color {
	c := colorful.Color{}
	if len(s.Color) > 0 {
		c.R = float64(s.Color[0])
	}
	if len(s.Color) > 1 {
		c.G = float64(s.Color[1])
	}
	if len(s.Color) > 2 {
		c.B = float64(s.Color[2])
	}
	return c
}
