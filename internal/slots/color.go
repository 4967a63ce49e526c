package slots

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// NewColor creates a static color slot from 3 or 4 components in [0,1].
func NewColor(components []float32) (*Slot, error) {
	if err := ValidateColor(components); err != nil {
		return nil, err
	}
	return NewStatic(KindColor, components), nil
}

// ValidateColor enforces the 3-or-4 component rule for color values.
func ValidateColor(components []float32) error {
	if len(components) != 3 && len(components) != 4 {
		return fmt.Errorf("color needs 3 or 4 components, got %d", len(components))
	}
	return nil
}

// ColorFromHex parses "#rgb" / "#rrggbb" hex notation into RGB components
// in [0,1]. Theme documents and global inputs accept either form.
func ColorFromHex(hex string) ([]float32, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return []float32{float32(c.R), float32(c.G), float32(c.B)}, nil
}

// ColorToHex renders RGB components in [0,1] as "#rrggbb".
func ColorToHex(components []float32) string {
	c := colorful.Color{}
	if len(components) > 0 {
		c.R = float64(components[0])
	}
	if len(components) > 1 {
		c.G = float64(components[1])
	}
	if len(components) > 2 {
		c.B = float64(components[2])
	}
	return c.Clamped().Hex()
}

// NormalizeVector pads or truncates a component list to exactly [x, y].
func NormalizeVector(components []float32) []float32 {
	out := []float32{0, 0}
	for i := 0; i < 2 && i < len(components); i++ {
		out[i] = components[i]
	}
	return out
}
