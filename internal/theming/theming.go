// Package theming transforms a human-authored theme document into the slot
// overlay consumed by the renderer. A theme is a list of rules keyed by
// slot id, each optionally scoped to specific animations.
package theming

import (
	"encoding/json"
	"fmt"

	"dotlottie-go/internal/slots"
)

// Rule is one slot override in a theme document, carrying Value or
// Keyframes; when both are set, Keyframes is used. Animations scopes the
// rule: empty means every animation, otherwise the rule only applies when
// the active animation id is listed.
type Rule struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Animations []string          `json:"animations,omitempty"`
	Value      json.RawMessage   `json:"value,omitempty"`
	Keyframes  []json.RawMessage `json:"keyframes,omitempty"`
	Expression string            `json:"expression,omitempty"`
}

// Theme is a parsed theme document.
type Theme struct {
	Rules []Rule `json:"rules"`
}

// Parse decodes a theme document.
func Parse(data string) (*Theme, error) {
	var theme Theme
	if err := json.Unmarshal([]byte(data), &theme); err != nil {
		return nil, fmt.Errorf("theme parse: %w", err)
	}
	return &theme, nil
}

// AppliesTo reports whether the rule is in scope for the animation.
func (r *Rule) AppliesTo(animationID string) bool {
	if len(r.Animations) == 0 {
		return true
	}
	for _, id := range r.Animations {
		if id == animationID {
			return true
		}
	}
	return false
}

// Transform builds the slot document for the active animation. Rules out
// of scope are skipped; a malformed rule fails the whole transform so a
// bad theme never half-applies.
func Transform(theme *Theme, activeAnimationID string) (slots.Document, error) {
	doc := make(slots.Document)

	for _, rule := range theme.Rules {
		if !rule.AppliesTo(activeAnimationID) {
			continue
		}
		slot, err := transformRule(&rule)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.ID, err)
		}
		if slot == nil {
			// No-op rule (a gradient track too short to animate).
			continue
		}
		if rule.Expression != "" {
			slot.Expression = rule.Expression
		}
		doc[rule.ID] = slot
	}

	return doc, nil
}

// TransformDocument parses and transforms in one step.
func TransformDocument(themeJSON, activeAnimationID string) (slots.Document, error) {
	theme, err := Parse(themeJSON)
	if err != nil {
		return nil, err
	}
	return Transform(theme, activeAnimationID)
}

func transformRule(rule *Rule) (*slots.Slot, error) {
	kind, err := slots.KindFromString(rule.Type)
	if err != nil {
		return nil, err
	}

	switch kind {
	case slots.KindImage:
		return transformImageRule(rule)
	case slots.KindGradient:
		return transformGradientRule(rule)
	case slots.KindText:
		return transformTextRule(rule)
	default:
		return transformNumericRule(rule, kind)
	}
}

// rawKeyframe is the authoring-side keyframe shape.
type rawKeyframe struct {
	Frame           float32         `json:"frame"`
	Value           json.RawMessage `json:"value"`
	InTangent       *slots.Bezier   `json:"inTangent,omitempty"`
	OutTangent      *slots.Bezier   `json:"outTangent,omitempty"`
	ValueInTangent  []float32       `json:"valueInTangent,omitempty"`
	ValueOutTangent []float32       `json:"valueOutTangent,omitempty"`
	Hold            bool            `json:"hold,omitempty"`
}

func decodeKeyframes(raw []json.RawMessage) ([]rawKeyframe, error) {
	out := make([]rawKeyframe, len(raw))
	for i, r := range raw {
		if err := json.Unmarshal(r, &out[i]); err != nil {
			return nil, fmt.Errorf("keyframe %d: %w", i, err)
		}
	}
	return out, nil
}

// decodeComponents accepts a float array or a "#rrggbb" hex literal.
func decodeComponents(raw json.RawMessage) ([]float32, error) {
	var components []float32
	if err := json.Unmarshal(raw, &components); err == nil {
		return components, nil
	}
	var hex string
	if err := json.Unmarshal(raw, &hex); err == nil {
		return slots.ColorFromHex(hex)
	}
	return nil, fmt.Errorf("value is neither a component array nor a hex color")
}

func transformNumericRule(rule *Rule, kind slots.Kind) (*slots.Slot, error) {
	if len(rule.Keyframes) > 0 {
		raw, err := decodeKeyframes(rule.Keyframes)
		if err != nil {
			return nil, err
		}
		keyframes := make([]slots.Keyframe, len(raw))
		for i, kf := range raw {
			value, err := decodeComponents(kf.Value)
			if err != nil {
				return nil, fmt.Errorf("keyframe %d: %w", i, err)
			}
			keyframes[i] = slots.Keyframe{
				Frame:           kf.Frame,
				Value:           value,
				InTangent:       kf.InTangent,
				OutTangent:      kf.OutTangent,
				ValueInTangent:  kf.ValueInTangent,
				ValueOutTangent: kf.ValueOutTangent,
				Hold:            kf.Hold,
			}
		}
		// A single keyframe is a static value in disguise.
		if len(keyframes) == 1 {
			return slots.NewStatic(kind, keyframes[0].Value), nil
		}
		return slots.NewAnimated(kind, keyframes), nil
	}

	if rule.Value == nil {
		return nil, fmt.Errorf("%s rule has neither value nor keyframes", rule.Type)
	}
	value, err := decodeComponents(rule.Value)
	if err != nil {
		return nil, err
	}
	return slots.NewStatic(kind, value), nil
}

func transformGradientRule(rule *Rule) (*slots.Slot, error) {
	if rule.Keyframes != nil {
		if len(rule.Keyframes) <= 1 {
			// A keyframed gradient needs at least two keyframes to form
			// a track; anything shorter is a no-op override. The rule's
			// value is not consulted, unlike the other keyframed kinds
			// where a single keyframe collapses to a static value.
			return nil, nil
		}
		raw, err := decodeKeyframes(rule.Keyframes)
		if err != nil {
			return nil, err
		}
		numStops := 0
		keyframes := make([]slots.Keyframe, len(raw))
		for i, kf := range raw {
			var stops []slots.GradientStop
			if err := json.Unmarshal(kf.Value, &stops); err != nil {
				return nil, fmt.Errorf("keyframe %d: %w", i, err)
			}
			if i == 0 {
				numStops = len(stops)
			}
			keyframes[i] = slots.Keyframe{
				Frame:      kf.Frame,
				Value:      slots.FlattenStops(stops),
				InTangent:  kf.InTangent,
				OutTangent: kf.OutTangent,
				Hold:       kf.Hold,
			}
		}
		return slots.NewAnimatedGradient(keyframes, numStops), nil
	}

	if rule.Value == nil {
		return nil, fmt.Errorf("gradient rule has neither value nor keyframes")
	}
	var stops []slots.GradientStop
	if err := json.Unmarshal(rule.Value, &stops); err != nil {
		return nil, fmt.Errorf("gradient stops: %w", err)
	}
	return slots.NewGradient(stops), nil
}

// imageRuleValue is the authoring-side image shape; dataUrl wins over path.
type imageRuleValue struct {
	Width   uint32 `json:"width"`
	Height  uint32 `json:"height"`
	Path    string `json:"path"`
	DataURL string `json:"dataUrl"`
}

func transformImageRule(rule *Rule) (*slots.Slot, error) {
	if rule.Value == nil {
		return nil, fmt.Errorf("image rule has no value")
	}
	var value imageRuleValue
	if err := json.Unmarshal(rule.Value, &value); err != nil {
		return nil, fmt.Errorf("image value: %w", err)
	}

	var slot *slots.Slot
	if value.DataURL != "" {
		slot = slots.NewImageFromDataURL(value.DataURL)
	} else if value.Path != "" {
		slot = slots.NewImageFromPath(value.Path)
	} else {
		return nil, fmt.Errorf("image rule needs path or dataUrl")
	}
	if value.Width > 0 || value.Height > 0 {
		slot.WithDimensions(value.Width, value.Height)
	}
	return slot, nil
}

// textRuleValue is the authoring-side text document; justify and textCaps
// are string literals mapped to wire numbers.
type textRuleValue struct {
	Text           string      `json:"text"`
	FontName       *string     `json:"fontName,omitempty"`
	FontSize       *float32    `json:"fontSize,omitempty"`
	FillColor      []float32   `json:"fillColor,omitempty"`
	StrokeColor    []float32   `json:"strokeColor,omitempty"`
	StrokeWidth    *float32    `json:"strokeWidth,omitempty"`
	StrokeOverFill *bool       `json:"strokeOverFill,omitempty"`
	LineHeight     *float32    `json:"lineHeight,omitempty"`
	Tracking       *float32    `json:"tracking,omitempty"`
	Justify        *string     `json:"justify,omitempty"`
	TextCaps       *string     `json:"textCaps,omitempty"`
	BaselineShift  *float32    `json:"baselineShift,omitempty"`
	WrapSize       *[2]float32 `json:"wrapSize,omitempty"`
	WrapPosition   *[2]float32 `json:"wrapPosition,omitempty"`
}

func (v *textRuleValue) document() (slots.TextDocument, error) {
	doc := slots.TextDocument{
		Text:           v.Text,
		FontName:       v.FontName,
		FontSize:       v.FontSize,
		FillColor:      v.FillColor,
		StrokeColor:    v.StrokeColor,
		StrokeWidth:    v.StrokeWidth,
		StrokeOverFill: v.StrokeOverFill,
		LineHeight:     v.LineHeight,
		Tracking:       v.Tracking,
		BaselineShift:  v.BaselineShift,
		WrapSize:       v.WrapSize,
		WrapPosition:   v.WrapPosition,
	}
	if v.Justify != nil {
		j, err := slots.JustifyFromString(*v.Justify)
		if err != nil {
			return doc, err
		}
		n := int(j)
		doc.Justify = &n
	}
	if v.TextCaps != nil {
		c, err := slots.CapsFromString(*v.TextCaps)
		if err != nil {
			return doc, err
		}
		n := int(c)
		doc.TextCaps = &n
	}
	return doc, nil
}

func transformTextRule(rule *Rule) (*slots.Slot, error) {
	if len(rule.Keyframes) > 0 {
		raw, err := decodeKeyframes(rule.Keyframes)
		if err != nil {
			return nil, err
		}
		keyframes := make([]slots.TextKeyframe, len(raw))
		for i, kf := range raw {
			var value textRuleValue
			if err := json.Unmarshal(kf.Value, &value); err != nil {
				return nil, fmt.Errorf("keyframe %d: %w", i, err)
			}
			doc, err := value.document()
			if err != nil {
				return nil, fmt.Errorf("keyframe %d: %w", i, err)
			}
			keyframes[i] = slots.TextKeyframe{Frame: kf.Frame, Document: doc}
		}
		return slots.NewAnimatedText(keyframes), nil
	}

	if rule.Value == nil {
		return nil, fmt.Errorf("text rule has neither value nor keyframes")
	}
	var value textRuleValue
	if err := json.Unmarshal(rule.Value, &value); err != nil {
		return nil, fmt.Errorf("text value: %w", err)
	}
	doc, err := value.document()
	if err != nil {
		return nil, err
	}
	return slots.NewText(doc), nil
}
