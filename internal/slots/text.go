package slots

import "fmt"

// TextJustify enumerates paragraph justification values.
type TextJustify int

const (
	JustifyLeft TextJustify = iota
	JustifyRight
	JustifyCenter
	JustifyLastLeft
	JustifyLastRight
	JustifyLastCenter
	JustifyLastFull
)

// JustifyFromString maps a theme/global-input literal to its wire number.
func JustifyFromString(s string) (TextJustify, error) {
	switch s {
	case "Left":
		return JustifyLeft, nil
	case "Right":
		return JustifyRight, nil
	case "Center":
		return JustifyCenter, nil
	case "JustifyLastLeft":
		return JustifyLastLeft, nil
	case "JustifyLastRight":
		return JustifyLastRight, nil
	case "JustifyLastCenter":
		return JustifyLastCenter, nil
	case "JustifyLastFull":
		return JustifyLastFull, nil
	default:
		return 0, fmt.Errorf("unknown justify value %q", s)
	}
}

// TextCaps enumerates capitalization values.
type TextCaps int

const (
	CapsRegular TextCaps = iota
	CapsAllCaps
	CapsSmallCaps
)

// CapsFromString maps a theme/global-input literal to its wire number.
func CapsFromString(s string) (TextCaps, error) {
	switch s {
	case "Regular":
		return CapsRegular, nil
	case "AllCaps":
		return CapsAllCaps, nil
	case "SmallCaps":
		return CapsSmallCaps, nil
	default:
		return 0, fmt.Errorf("unknown textCaps value %q", s)
	}
}

// TextDocument mirrors the rasterizer's text document shape. Optional
// fields are pointers so absent values stay absent on the wire.
type TextDocument struct {
	Text           string      `json:"t"`
	FontName       *string     `json:"f,omitempty"`
	FontSize       *float32    `json:"s,omitempty"`
	FillColor      []float32   `json:"fc,omitempty"`
	StrokeColor    []float32   `json:"sc,omitempty"`
	StrokeWidth    *float32    `json:"sw,omitempty"`
	StrokeOverFill *bool       `json:"of,omitempty"`
	LineHeight     *float32    `json:"lh,omitempty"`
	Tracking       *float32    `json:"tr,omitempty"`
	Justify        *int        `json:"j,omitempty"`
	TextCaps       *int        `json:"ca,omitempty"`
	BaselineShift  *float32    `json:"ls,omitempty"`
	WrapSize       *[2]float32 `json:"sz,omitempty"`
	WrapPosition   *[2]float32 `json:"ps,omitempty"`
}

// TextKeyframe is one entry of a text track. A static text slot is a
// single keyframe at frame zero.
type TextKeyframe struct {
	Frame    float32      `json:"t"`
	Document TextDocument `json:"s"`
}

// TextProperty is the payload of a text slot.
type TextProperty struct {
	Keyframes []TextKeyframe
}

// NewText creates a text slot with a single document at frame zero.
func NewText(doc TextDocument) *Slot {
	return &Slot{
		Kind: KindText,
		Text: &TextProperty{Keyframes: []TextKeyframe{{Frame: 0, Document: doc}}},
	}
}

// NewAnimatedText creates a text slot from an explicit keyframe track.
func NewAnimatedText(keyframes []TextKeyframe) *Slot {
	return &Slot{Kind: KindText, Text: &TextProperty{Keyframes: keyframes}}
}
