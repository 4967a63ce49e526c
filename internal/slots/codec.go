package slots

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Document is the ordered set of slot overrides keyed by slot id.
type Document map[string]*Slot

// MarshalDocument serializes a slot document to the rasterizer's overlay
// form: {"<slot_id>": {"p": <payload>}}. Ids are emitted in sorted order so
// identical documents serialize identically.
func MarshalDocument(doc Document) (string, error) {
	ids := make([]string, 0, len(doc))
	for id := range doc {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make(map[string]json.RawMessage, len(doc))
	for _, id := range ids {
		payload, err := marshalPayload(doc[id])
		if err != nil {
			return "", fmt.Errorf("slot %q: %w", id, err)
		}
		wrapped, err := json.Marshal(map[string]json.RawMessage{"p": payload})
		if err != nil {
			return "", fmt.Errorf("slot %q: %w", id, err)
		}
		out[id] = wrapped
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func marshalPayload(s *Slot) (json.RawMessage, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	switch s.Kind {
	case KindImage:
		return json.Marshal(s.Image)

	case KindText:
		payload := map[string]interface{}{"k": s.Text.Keyframes}
		if s.Expression != "" {
			payload["x"] = s.Expression
		}
		return json.Marshal(payload)

	case KindGradient:
		var k interface{}
		var animated int
		if s.Gradient.Animated {
			animated = 1
			frames := make([]interface{}, len(s.Gradient.Keyframes))
			for i, kf := range s.Gradient.Keyframes {
				frames[i] = marshalKeyframe(kf, false)
			}
			k = frames
		} else {
			k = s.Gradient.Value
		}
		payload := map[string]interface{}{
			"k": map[string]interface{}{"a": animated, "k": k},
			"p": s.Gradient.NumStops,
		}
		if s.Expression != "" {
			payload["x"] = s.Expression
		}
		return json.Marshal(payload)

	default:
		scalar := s.Kind == KindScalar
		payload := map[string]interface{}{}
		if s.Numeric.Animated {
			payload["a"] = 1
			frames := make([]interface{}, len(s.Numeric.Keyframes))
			for i, kf := range s.Numeric.Keyframes {
				frames[i] = marshalKeyframe(kf, scalar)
			}
			payload["k"] = frames
		} else {
			payload["a"] = 0
			if scalar && len(s.Numeric.Value) == 1 {
				payload["k"] = s.Numeric.Value[0]
			} else {
				payload["k"] = s.Numeric.Value
			}
		}
		if s.Expression != "" {
			payload["x"] = s.Expression
		}
		return json.Marshal(payload)
	}
}

// marshalKeyframe emits the rasterizer keyframe shape (t, s, i, o, ti, to,
// h). Scalar keyframes collapse the single-component value to a number.
func marshalKeyframe(kf Keyframe, scalar bool) map[string]interface{} {
	frame := map[string]interface{}{"t": kf.Frame}
	if scalar && len(kf.Value) == 1 {
		frame["s"] = kf.Value[0]
	} else {
		frame["s"] = kf.Value
	}
	if kf.InTangent != nil {
		frame["i"] = kf.InTangent
	}
	if kf.OutTangent != nil {
		frame["o"] = kf.OutTangent
	}
	if len(kf.ValueInTangent) > 0 {
		frame["ti"] = kf.ValueInTangent
	}
	if len(kf.ValueOutTangent) > 0 {
		frame["to"] = kf.ValueOutTangent
	}
	if kf.Hold {
		frame["h"] = 1
	}
	return frame
}
