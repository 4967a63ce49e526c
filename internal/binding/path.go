package binding

import (
	"strconv"
	"strings"
)

// Path is a parsed binding path. The grammar is '/'-separated:
//
//	value
//	value/{textProp}
//	keyframes/{i}/value
//	keyframes/{i}/value/{textProp}
//
// Animated paths address a keyframe's start value; TextProp selects a field
// of a text document and is empty for whole-value writes.
type Path struct {
	Animated      bool
	KeyframeIndex int
	TextProp      string
}

// Text properties addressable by a path.
const (
	TextPropText           = "text"
	TextPropFontName       = "fontName"
	TextPropJustify        = "justify"
	TextPropTextCaps       = "textCaps"
	TextPropStrokeOverFill = "strokeOverFill"
	TextPropWrapSize       = "wrapSize"
	TextPropWrapPosition   = "wrapPosition"
)

func validTextProp(prop string) bool {
	switch prop {
	case TextPropText, TextPropFontName, TextPropJustify, TextPropTextCaps,
		TextPropStrokeOverFill, TextPropWrapSize, TextPropWrapPosition:
		return true
	}
	return false
}

// Parse parses a binding path string.
func Parse(raw string) (Path, error) {
	parts := strings.Split(raw, "/")

	switch parts[0] {
	case "value":
		switch len(parts) {
		case 1:
			return Path{}, nil
		case 2:
			if !validTextProp(parts[1]) {
				return Path{}, errf(ErrPathParse, "unknown text property %q in path %q", parts[1], raw)
			}
			return Path{TextProp: parts[1]}, nil
		default:
			return Path{}, errf(ErrPathParse, "malformed path %q", raw)
		}

	case "keyframes":
		if len(parts) < 3 || parts[2] != "value" {
			return Path{}, errf(ErrPathParse, "malformed keyframe path %q", raw)
		}
		index, err := strconv.Atoi(parts[1])
		if err != nil || index < 0 {
			return Path{}, errf(ErrPathParse, "bad keyframe index %q in path %q", parts[1], raw)
		}
		switch len(parts) {
		case 3:
			return Path{Animated: true, KeyframeIndex: index}, nil
		case 4:
			if !validTextProp(parts[3]) {
				return Path{}, errf(ErrPathParse, "unknown text property %q in path %q", parts[3], raw)
			}
			return Path{Animated: true, KeyframeIndex: index, TextProp: parts[3]}, nil
		default:
			return Path{}, errf(ErrPathParse, "malformed path %q", raw)
		}

	default:
		return Path{}, errf(ErrPathParse, "path %q must start with value or keyframes", raw)
	}
}

// String renders the path back to its wire form.
func (p Path) String() string {
	var b strings.Builder
	if p.Animated {
		b.WriteString("keyframes/")
		b.WriteString(strconv.Itoa(p.KeyframeIndex))
		b.WriteString("/value")
	} else {
		b.WriteString("value")
	}
	if p.TextProp != "" {
		b.WriteString("/")
		b.WriteString(p.TextProp)
	}
	return b.String()
}
