package filter

import (
	"strconv"
	"strings"
)

// Op identifies one filter primitive. the set is closed; renderers switch on
// it exhaustively.
type Op string

const (
	OpBrightness Op = "brightness"
	OpContrast   Op = "contrast"
	OpSaturate   Op = "saturate"
	OpSepia      Op = "sepia"
	OpGrayscale  Op = "grayscale"
	OpHueRotate  Op = "hue-rotate"
)

// Term is one primitive application. Value is a unit multiplier for every op
// except OpHueRotate, where it is degrees.
type Term struct {
	Op    Op
	Value float64
}

func (t Term) String() string {
	v := strconv.FormatFloat(t.Value, 'f', -1, 64)
	if t.Op == OpHueRotate {
		return string(t.Op) + "(" + v + "deg)"
	}
	return string(t.Op) + "(" + v + ")"
}

// Filter is an ordered composite of terms. order matters: terms apply
// left-to-right, exactly like a CSS filter list.
type Filter []Term

// String renders the composite as a CSS-style filter expression. the output
// is stable for identical inputs, so clients can use it directly as a live
// preview style and tests can compare it byte-for-byte.
func (f Filter) String() string {
	if len(f) == 0 {
		return "none"
	}
	parts := make([]string, len(f))
	for i, t := range f {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// warmthHueDegrees scales a cooling warmth step (one slider unit below
// neutral) to a negative hue rotation. 50 slider units below neutral reaches
// -45 degrees, a visibly cold cast without wrapping into green.
const warmthHueDegrees = 0.9

// Compose builds the single composite filter for a preset plus a slider
// record. pure and deterministic: identical inputs always produce an
// identical Filter, and the photo item is never touched.
//
// term order is fixed: preset effect first, then brightness and exposure
// multiplied into one brightness term, contrast, saturation, and last the
// warmth branch — above neutral a sepia term scaled by distance from neutral,
// below neutral a cooling hue rotation scaled the same way, at neutral
// nothing.
func Compose(preset Preset, adj Adjustments) Filter {
	adj = adj.Clamped()

	terms, ok := presetTerms[preset]
	if !ok {
		terms = nil
	}
	f := make(Filter, 0, len(terms)+4)
	f = append(f, terms...)

	brightness := float64(adj.Brightness) * float64(adj.Exposure) / 10000
	f = append(f, Term{Op: OpBrightness, Value: round4(brightness)})
	f = append(f, Term{Op: OpContrast, Value: round4(float64(adj.Contrast) / 100)})
	f = append(f, Term{Op: OpSaturate, Value: round4(float64(adj.Saturation) / 100)})

	switch {
	case adj.Warmth > sliderNeutral:
		f = append(f, Term{Op: OpSepia, Value: round4(float64(adj.Warmth-sliderNeutral) / 100)})
	case adj.Warmth < sliderNeutral:
		f = append(f, Term{Op: OpHueRotate, Value: round4(-float64(sliderNeutral-adj.Warmth) * warmthHueDegrees)})
	}
	return f
}

// round4 keeps term values at a fixed precision so formatting is stable
func round4(v float64) float64 {
	if v < 0 {
		return float64(int64(v*10000-0.5)) / 10000
	}
	return float64(int64(v*10000+0.5)) / 10000
}
