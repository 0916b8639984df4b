package filter

import "fmt"

// Preset names a fixed stylistic effect. presets are selected exclusively
// (one active preset per photo) and compose with the tonal sliders, not with
// each other.
type Preset string

const (
	PresetNone      Preset = "none"
	PresetGrayscale Preset = "grayscale"
	PresetSepia     Preset = "sepia"
	PresetVintage   Preset = "vintage"
	PresetNoir      Preset = "noir"
	PresetChrome    Preset = "chrome"
	PresetFade      Preset = "fade"
	PresetFrost     Preset = "frost"
)

// presetTerms is the closed lookup from preset name to its fixed filter
// expression. order inside each expression is significant and never changes.
var presetTerms = map[Preset][]Term{
	PresetNone:      {},
	PresetGrayscale: {{Op: OpGrayscale, Value: 1}},
	PresetSepia:     {{Op: OpSepia, Value: 0.8}},
	PresetVintage: {
		{Op: OpSepia, Value: 0.35},
		{Op: OpContrast, Value: 1.1},
		{Op: OpBrightness, Value: 1.05},
	},
	PresetNoir: {
		{Op: OpGrayscale, Value: 1},
		{Op: OpContrast, Value: 1.2},
		{Op: OpBrightness, Value: 0.95},
	},
	PresetChrome: {
		{Op: OpSaturate, Value: 1.3},
		{Op: OpContrast, Value: 1.05},
	},
	PresetFade: {
		{Op: OpBrightness, Value: 1.1},
		{Op: OpSaturate, Value: 0.8},
		{Op: OpSepia, Value: 0.15},
	},
	PresetFrost: {
		{Op: OpBrightness, Value: 1.02},
		{Op: OpSaturate, Value: 0.85},
		{Op: OpHueRotate, Value: -10},
	},
}

// Presets lists every preset name in display order
func Presets() []Preset {
	return []Preset{
		PresetNone, PresetGrayscale, PresetSepia, PresetVintage,
		PresetNoir, PresetChrome, PresetFade, PresetFrost,
	}
}

// ParsePreset validates a stored or submitted preset name. unknown names are
// an error so a typo can never silently fall back to a different look
func ParsePreset(name string) (Preset, error) {
	if name == "" {
		return PresetNone, nil
	}
	p := Preset(name)
	if _, ok := presetTerms[p]; !ok {
		return PresetNone, fmt.Errorf("unknown preset '%s'", name)
	}
	return p, nil
}
