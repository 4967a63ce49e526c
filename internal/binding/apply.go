package binding

import (
	"dotlottie-go/internal/slots"
)

// ApplyColor writes a 3- or 4-component color into the addressed position.
func ApplyColor(slot *slots.Slot, path Path, components []float32) error {
	if slot.Kind != slots.KindColor {
		return errf(ErrWrongType, "color path applied to %s slot", slot.Kind)
	}
	if err := slots.ValidateColor(components); err != nil {
		return errf(ErrPathShape, "%v", err)
	}
	return writeNumeric(slot, path, append([]float32(nil), components...))
}

// ApplyVector writes a 2D vector, normalizing arity (pad with zero, take
// the first two components).
func ApplyVector(slot *slots.Slot, path Path, components []float32) error {
	if slot.Kind != slots.KindVector && slot.Kind != slots.KindPosition {
		return errf(ErrWrongType, "vector path applied to %s slot", slot.Kind)
	}
	return writeNumeric(slot, path, slots.NormalizeVector(components))
}

// ApplyNumeric writes a scalar.
func ApplyNumeric(slot *slots.Slot, path Path, value float32) error {
	if slot.Kind != slots.KindScalar {
		return errf(ErrWrongType, "numeric path applied to %s slot", slot.Kind)
	}
	return writeNumeric(slot, path, []float32{value})
}

// ApplyGradient writes gradient stops, flattened and padded or truncated to
// the slot's declared stop count.
func ApplyGradient(slot *slots.Slot, path Path, stops []slots.GradientStop) error {
	if slot.Kind != slots.KindGradient || slot.Gradient == nil {
		return errf(ErrWrongType, "gradient path applied to %s slot", slot.Kind)
	}
	if len(stops) == 0 {
		return errf(ErrPathShape, "gradient value has no stops")
	}

	fitted := make([]slots.GradientStop, slot.Gradient.NumStops)
	for i := range fitted {
		if i < len(stops) {
			fitted[i] = stops[i]
		} else {
			fitted[i] = stops[len(stops)-1]
		}
	}
	data := slots.FlattenStops(fitted)

	if path.Animated {
		if !slot.Gradient.Animated {
			return errf(ErrPathShape, "keyframe path applied to static gradient")
		}
		if path.KeyframeIndex >= len(slot.Gradient.Keyframes) {
			return errf(ErrPathShape, "keyframe index %d out of range (%d keyframes)",
				path.KeyframeIndex, len(slot.Gradient.Keyframes))
		}
		slot.Gradient.Keyframes[path.KeyframeIndex].Value = data
		return nil
	}
	if slot.Gradient.Animated {
		return errf(ErrPathShape, "static path applied to animated gradient")
	}
	slot.Gradient.Value = data
	return nil
}

// ApplyString writes a string into a text-document property. Justify and
// textCaps literals map to their wire numbers; any other literal fails.
func ApplyString(slot *slots.Slot, path Path, value string) error {
	doc, err := textDocumentAt(slot, path)
	if err != nil {
		return err
	}

	switch path.TextProp {
	case TextPropText, "":
		doc.Text = value
	case TextPropFontName:
		doc.FontName = &value
	case TextPropJustify:
		j, err := slots.JustifyFromString(value)
		if err != nil {
			return errf(ErrPathShape, "%v", err)
		}
		n := int(j)
		doc.Justify = &n
	case TextPropTextCaps:
		c, err := slots.CapsFromString(value)
		if err != nil {
			return errf(ErrPathShape, "%v", err)
		}
		n := int(c)
		doc.TextCaps = &n
	default:
		return errf(ErrPathShape, "string value cannot target %q", path.TextProp)
	}
	return nil
}

// ApplyBoolean writes a boolean text-document property.
func ApplyBoolean(slot *slots.Slot, path Path, value bool) error {
	doc, err := textDocumentAt(slot, path)
	if err != nil {
		return err
	}
	if path.TextProp != TextPropStrokeOverFill {
		return errf(ErrPathShape, "boolean value cannot target %q", path.TextProp)
	}
	doc.StrokeOverFill = &value
	return nil
}

// ApplyTextVector writes a 2D text-document property (wrapSize or
// wrapPosition).
func ApplyTextVector(slot *slots.Slot, path Path, components []float32) error {
	doc, err := textDocumentAt(slot, path)
	if err != nil {
		return err
	}
	v := slots.NormalizeVector(components)
	pair := [2]float32{v[0], v[1]}
	switch path.TextProp {
	case TextPropWrapSize:
		doc.WrapSize = &pair
	case TextPropWrapPosition:
		doc.WrapPosition = &pair
	default:
		return errf(ErrPathShape, "vector value cannot target text property %q", path.TextProp)
	}
	return nil
}

func writeNumeric(slot *slots.Slot, path Path, value []float32) error {
	if path.TextProp != "" {
		return errf(ErrPathShape, "text property path applied to %s slot", slot.Kind)
	}
	prop := slot.Numeric
	if prop == nil {
		return errf(ErrUnknownSlot, "%s slot has no numeric payload", slot.Kind)
	}

	if path.Animated {
		if !prop.Animated {
			return errf(ErrPathShape, "keyframe path applied to static slot")
		}
		if path.KeyframeIndex >= len(prop.Keyframes) {
			return errf(ErrPathShape, "keyframe index %d out of range (%d keyframes)",
				path.KeyframeIndex, len(prop.Keyframes))
		}
		prop.Keyframes[path.KeyframeIndex].Value = value
		return nil
	}
	if prop.Animated {
		return errf(ErrPathShape, "static path applied to animated slot")
	}
	prop.Value = value
	return nil
}

func textDocumentAt(slot *slots.Slot, path Path) (*slots.TextDocument, error) {
	if slot.Kind != slots.KindText || slot.Text == nil {
		return nil, errf(ErrWrongType, "text path applied to %s slot", slot.Kind)
	}
	index := 0
	if path.Animated {
		index = path.KeyframeIndex
	}
	if index >= len(slot.Text.Keyframes) {
		return nil, errf(ErrPathShape, "keyframe index %d out of range (%d keyframes)",
			index, len(slot.Text.Keyframes))
	}
	return &slot.Text.Keyframes[index].Document, nil
}
