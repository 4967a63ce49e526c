package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotlottie-go/internal/slots"
)

func TestParsePaths(t *testing.T) {
	p, err := Parse("value")
	require.NoError(t, err)
	assert.False(t, p.Animated)
	assert.Empty(t, p.TextProp)

	p, err = Parse("keyframes/3/value")
	require.NoError(t, err)
	assert.True(t, p.Animated)
	assert.Equal(t, 3, p.KeyframeIndex)

	p, err = Parse("value/fontName")
	require.NoError(t, err)
	assert.Equal(t, TextPropFontName, p.TextProp)

	p, err = Parse("keyframes/1/value/justify")
	require.NoError(t, err)
	assert.True(t, p.Animated)
	assert.Equal(t, 1, p.KeyframeIndex)
	assert.Equal(t, TextPropJustify, p.TextProp)
}

func TestParseRejectsMalformedPaths(t *testing.T) {
	for _, raw := range []string{
		"", "values", "value/color", "keyframes", "keyframes/x/value",
		"keyframes/-1/value", "keyframes/0", "keyframes/0/value/size",
		"value/text/more",
	} {
		_, err := Parse(raw)
		require.Error(t, err, "path %q", raw)
		var bindErr *Error
		require.ErrorAs(t, err, &bindErr)
		assert.Equal(t, ErrPathParse, bindErr.Kind, "path %q", raw)
	}
}

func TestPathStringRoundTrip(t *testing.T) {
	for _, raw := range []string{"value", "keyframes/2/value", "value/wrapSize", "keyframes/0/value/text"} {
		p, err := Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, p.String())
	}
}

func mustParse(t *testing.T, raw string) Path {
	t.Helper()
	p, err := Parse(raw)
	require.NoError(t, err)
	return p
}

func TestApplyColorStatic(t *testing.T) {
	slot := slots.NewStatic(slots.KindColor, []float32{0, 0, 0})

	require.NoError(t, ApplyColor(slot, mustParse(t, "value"), []float32{1, 0.5, 0}))
	assert.Equal(t, []float32{1, 0.5, 0}, slot.Numeric.Value)

	err := ApplyColor(slot, mustParse(t, "value"), []float32{1, 0})
	var bindErr *Error
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, ErrPathShape, bindErr.Kind)
}

func TestApplyColorTypeMismatch(t *testing.T) {
	slot := slots.NewStatic(slots.KindScalar, []float32{1})

	err := ApplyColor(slot, mustParse(t, "value"), []float32{1, 0, 0})
	var bindErr *Error
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, ErrWrongType, bindErr.Kind)
}

func TestApplyKeyframePath(t *testing.T) {
	slot := slots.NewAnimated(slots.KindColor, []slots.Keyframe{
		{Frame: 0, Value: []float32{0, 0, 0}},
		{Frame: 10, Value: []float32{1, 1, 1}},
	})

	require.NoError(t, ApplyColor(slot, mustParse(t, "keyframes/1/value"), []float32{0, 1, 0}))
	assert.Equal(t, []float32{0, 1, 0}, slot.Numeric.Keyframes[1].Value)

	err := ApplyColor(slot, mustParse(t, "keyframes/5/value"), []float32{0, 1, 0})
	var bindErr *Error
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, ErrPathShape, bindErr.Kind)
}

func TestStaticAnimatedMismatch(t *testing.T) {
	animated := slots.NewAnimated(slots.KindScalar, []slots.Keyframe{{Frame: 0, Value: []float32{0}}})
	err := ApplyNumeric(animated, mustParse(t, "value"), 1)
	var bindErr *Error
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, ErrPathShape, bindErr.Kind)

	static := slots.NewStatic(slots.KindScalar, []float32{0})
	err = ApplyNumeric(static, mustParse(t, "keyframes/0/value"), 1)
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, ErrPathShape, bindErr.Kind)
}

func TestApplyVectorNormalizesArity(t *testing.T) {
	slot := slots.NewStatic(slots.KindVector, []float32{0, 0})

	require.NoError(t, ApplyVector(slot, mustParse(t, "value"), []float32{3}))
	assert.Equal(t, []float32{3, 0}, slot.Numeric.Value)

	require.NoError(t, ApplyVector(slot, mustParse(t, "value"), []float32{1, 2, 3, 4}))
	assert.Equal(t, []float32{1, 2}, slot.Numeric.Value)
}

func TestApplyGradientPadsAndTruncates(t *testing.T) {
	slot := slots.NewGradient([]slots.GradientStop{
		{Offset: 0, Color: []float32{0, 0, 0}},
		{Offset: 0.5, Color: []float32{0.5, 0.5, 0.5}},
		{Offset: 1, Color: []float32{1, 1, 1}},
	})

	// One stop fewer than declared: the last stop is repeated.
	require.NoError(t, ApplyGradient(slot, mustParse(t, "value"), []slots.GradientStop{
		{Offset: 0, Color: []float32{1, 0, 0}},
		{Offset: 1, Color: []float32{0, 0, 1}},
	}))
	require.Len(t, slot.Gradient.Value, 12)
	assert.Equal(t, float32(1), slot.Gradient.Value[4])

	// One stop more than declared: truncated.
	require.NoError(t, ApplyGradient(slot, mustParse(t, "value"), []slots.GradientStop{
		{Offset: 0, Color: []float32{1, 0, 0}},
		{Offset: 0.3, Color: []float32{0, 1, 0}},
		{Offset: 0.6, Color: []float32{0, 0, 1}},
		{Offset: 1, Color: []float32{1, 1, 1}},
	}))
	assert.Len(t, slot.Gradient.Value, 12)
}

func TestApplyStringTextProps(t *testing.T) {
	slot := slots.NewText(slots.TextDocument{Text: "hello"})

	require.NoError(t, ApplyString(slot, mustParse(t, "value/text"), "world"))
	assert.Equal(t, "world", slot.Text.Keyframes[0].Document.Text)

	require.NoError(t, ApplyString(slot, mustParse(t, "value/justify"), "Center"))
	require.NotNil(t, slot.Text.Keyframes[0].Document.Justify)
	assert.Equal(t, 2, *slot.Text.Keyframes[0].Document.Justify)

	err := ApplyString(slot, mustParse(t, "value/justify"), "Sideways")
	var bindErr *Error
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, ErrPathShape, bindErr.Kind)
}

func TestApplyBooleanAndWrap(t *testing.T) {
	slot := slots.NewText(slots.TextDocument{Text: "x"})

	require.NoError(t, ApplyBoolean(slot, mustParse(t, "value/strokeOverFill"), true))
	require.NotNil(t, slot.Text.Keyframes[0].Document.StrokeOverFill)
	assert.True(t, *slot.Text.Keyframes[0].Document.StrokeOverFill)

	require.NoError(t, ApplyTextVector(slot, mustParse(t, "value/wrapSize"), []float32{200, 100}))
	assert.Equal(t, [2]float32{200, 100}, *slot.Text.Keyframes[0].Document.WrapSize)

	err := ApplyBoolean(slot, mustParse(t, "value/text"), true)
	var bindErr *Error
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, ErrPathShape, bindErr.Kind)
}
