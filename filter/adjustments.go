package filter

// Adjustments is the per-photo record of tonal sliders. every slider is an
// integer percentage centered at 100 (neutral); Saturation alone ranges down
// to 0 so a photo can be fully desaturated by slider.
type Adjustments struct {
	Brightness int `json:"brightness"` // [50,150]
	Exposure   int `json:"exposure"`   // [50,150]
	Contrast   int `json:"contrast"`   // [50,150]
	Saturation int `json:"saturation"` // [0,200]
	Warmth     int `json:"warmth"`     // [50,150]
}

const (
	sliderNeutral = 100

	brightnessMin = 50
	brightnessMax = 150
	exposureMin   = 50
	exposureMax   = 150
	contrastMin   = 50
	contrastMax   = 150
	saturationMin = 0
	saturationMax = 200
	warmthMin     = 50
	warmthMax     = 150
)

// DefaultAdjustments returns the neutral slider record; composing it with
// PresetNone yields a no-op filter
func DefaultAdjustments() Adjustments {
	return Adjustments{
		Brightness: sliderNeutral,
		Exposure:   sliderNeutral,
		Contrast:   sliderNeutral,
		Saturation: sliderNeutral,
		Warmth:     sliderNeutral,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamped returns a copy with every slider forced into its legal range
func (a Adjustments) Clamped() Adjustments {
	return Adjustments{
		Brightness: clampInt(a.Brightness, brightnessMin, brightnessMax),
		Exposure:   clampInt(a.Exposure, exposureMin, exposureMax),
		Contrast:   clampInt(a.Contrast, contrastMin, contrastMax),
		Saturation: clampInt(a.Saturation, saturationMin, saturationMax),
		Warmth:     clampInt(a.Warmth, warmthMin, warmthMax),
	}
}

// IsNeutral reports whether every slider sits at its no-op value
func (a Adjustments) IsNeutral() bool {
	return a == DefaultAdjustments()
}
