package theming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotlottie-go/internal/slots"
)

const starTheme = `{
  "rules": [
    {"id": "star1", "type": "Color", "value": [1.0, 0.8, 0.0]},
    {"id": "star2", "type": "Color", "value": "#cc0000", "animations": ["rating"]},
    {"id": "size", "type": "Scalar", "keyframes": [
      {"frame": 0, "value": [1.0]},
      {"frame": 30, "value": [2.0], "hold": true}
    ]},
    {"id": "shade", "type": "Gradient", "value": [
      {"offset": 0, "color": [1, 1, 1]},
      {"offset": 1, "color": [0, 0, 0]}
    ]},
    {"id": "badge", "type": "Image", "value": {"width": 32, "height": 32, "path": "images/badge.png"}},
    {"id": "label", "type": "Text", "value": {"text": "Hello", "justify": "Center", "fontName": "Inter"}}
  ]
}`

func TestTransformBuildsAllRuleKinds(t *testing.T) {
	doc, err := TransformDocument(starTheme, "rating")
	require.NoError(t, err)
	require.Len(t, doc, 6)

	assert.Equal(t, slots.KindColor, doc["star1"].Kind)
	assert.Equal(t, []float32{1, 0.8, 0}, doc["star1"].Numeric.Value)

	// Hex literal decoded to components.
	require.Equal(t, slots.KindColor, doc["star2"].Kind)
	assert.InDelta(t, 0.8, doc["star2"].Numeric.Value[0], 0.01)

	require.True(t, doc["size"].IsAnimated())
	require.Len(t, doc["size"].Numeric.Keyframes, 2)
	assert.True(t, doc["size"].Numeric.Keyframes[1].Hold)

	assert.Equal(t, 2, doc["shade"].Gradient.NumStops)

	assert.Equal(t, "images/", doc["badge"].Image.Directory)
	assert.Equal(t, "badge.png", doc["badge"].Image.Path)

	label := doc["label"]
	require.Equal(t, slots.KindText, label.Kind)
	require.NotNil(t, label.Text.Keyframes[0].Document.Justify)
	assert.Equal(t, 2, *label.Text.Keyframes[0].Document.Justify)
}

func TestAnimationScoping(t *testing.T) {
	doc, err := TransformDocument(starTheme, "other-animation")
	require.NoError(t, err)

	_, scoped := doc["star2"]
	assert.False(t, scoped, "rule scoped to another animation must be skipped")
	_, unscoped := doc["star1"]
	assert.True(t, unscoped, "unscoped rule applies everywhere")
}

func TestSingleKeyframeBecomesStatic(t *testing.T) {
	doc, err := TransformDocument(`{"rules": [
		{"id": "s", "type": "Scalar", "keyframes": [{"frame": 0, "value": [5.0]}]}
	]}`, "a")
	require.NoError(t, err)
	require.Contains(t, doc, "s")
	assert.False(t, doc["s"].IsAnimated())
	assert.Equal(t, []float32{5}, doc["s"].Numeric.Value)
}

func TestShortGradientTrackIsNoOp(t *testing.T) {
	// A keyframed gradient with fewer than two keyframes produces no
	// override — and never falls back to the rule's value, even when one
	// is present. The rest of the theme still applies.
	doc, err := TransformDocument(`{"rules": [
		{"id": "short", "type": "Gradient",
		 "keyframes": [{"frame": 0, "value": [{"offset": 0, "color": [1, 0, 0]}]}],
		 "value": [{"offset": 0, "color": [0, 1, 0]}, {"offset": 1, "color": [0, 0, 1]}]},
		{"id": "empty", "type": "Gradient", "keyframes": []},
		{"id": "kept", "type": "Scalar", "value": [7.0]}
	]}`, "a")
	require.NoError(t, err)

	_, present := doc["short"]
	assert.False(t, present, "single-keyframe gradient must not emit an override")
	_, present = doc["empty"]
	assert.False(t, present, "empty gradient track must not emit an override")
	require.Contains(t, doc, "kept")
	assert.Equal(t, []float32{7}, doc["kept"].Numeric.Value)
}

func TestAnimatedGradientTrack(t *testing.T) {
	doc, err := TransformDocument(`{"rules": [
		{"id": "shade", "type": "Gradient", "keyframes": [
			{"frame": 0, "value": [{"offset": 0, "color": [1, 0, 0]}, {"offset": 1, "color": [0, 0, 0]}]},
			{"frame": 30, "value": [{"offset": 0, "color": [0, 0, 1]}, {"offset": 1, "color": [1, 1, 1]}], "hold": true}
		]}
	]}`, "a")
	require.NoError(t, err)

	require.Contains(t, doc, "shade")
	shade := doc["shade"]
	require.True(t, shade.IsAnimated())
	assert.Equal(t, 2, shade.Gradient.NumStops)
	require.Len(t, shade.Gradient.Keyframes, 2)
	assert.True(t, shade.Gradient.Keyframes[1].Hold)
}

func TestTransformIdempotent(t *testing.T) {
	first, err := TransformDocument(starTheme, "rating")
	require.NoError(t, err)
	second, err := TransformDocument(starTheme, "rating")
	require.NoError(t, err)

	a, err := slots.MarshalDocument(first)
	require.NoError(t, err)
	b, err := slots.MarshalDocument(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDataURLWinsOverPath(t *testing.T) {
	doc, err := TransformDocument(`{"rules": [
		{"id": "i", "type": "Image", "value": {"path": "images/x.png", "dataUrl": "data:image/png;base64,AA"}}
	]}`, "a")
	require.NoError(t, err)
	assert.Equal(t, uint8(1), doc["i"].Image.Embedded)
	assert.Equal(t, "data:image/png;base64,AA", doc["i"].Image.Path)
}

func TestMalformedRuleFailsWholeTransform(t *testing.T) {
	_, err := TransformDocument(`{"rules": [
		{"id": "ok", "type": "Scalar", "value": [1.0]},
		{"id": "bad", "type": "Squircle", "value": [1.0]}
	]}`, "a")
	assert.Error(t, err)

	_, err = TransformDocument(`{"rules": [
		{"id": "bad", "type": "Text", "value": {"text": "x", "justify": "Diagonal"}}
	]}`, "a")
	assert.Error(t, err)
}

func TestExpressionAttachedToSlot(t *testing.T) {
	doc, err := TransformDocument(`{"rules": [
		{"id": "wave", "type": "Scalar", "value": [1.0], "expression": "value + Math.sin(time)"}
	]}`, "a")
	require.NoError(t, err)
	assert.Equal(t, "value + Math.sin(time)", doc["wave"].Expression)
}
