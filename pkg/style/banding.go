package style

// Shared banding constants. The prompt compiler, the orchestration
// loop, and validation all read these rather than repeating the
// numbers as prose.
const (
	// SliderMin and SliderMax bound every document adjustment slider.
	SliderMin = -2.0
	SliderMax = 2.0

	// BandThreshold is the breakpoint at which a slider leaves the
	// neutral band, on either side of zero.
	BandThreshold = 0.5

	// FormalityCasualMax and FormalityFormalMin are the effective
	// formality levels at which the casual and formal bands begin.
	FormalityCasualMax = 2.0
	FormalityFormalMin = 4.0

	// FormalityMin and FormalityMax bound the formality scale.
	FormalityMin = 1.0
	FormalityMax = 5.0

	// TerseReductionMinPct and TerseReductionMaxPct are the word-cut
	// targets quoted in the terse verbosity directive.
	TerseReductionMinPct = 30
	TerseReductionMaxPct = 50
)

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ClampSlider limits a slider value to [SliderMin, SliderMax].
func ClampSlider(x float64) float64 {
	return Clamp(x, SliderMin, SliderMax)
}

// verbosityOffset maps the profile's base verbosity to a slider
// offset so document adjustments shift from the user's baseline.
func verbosityOffset(v Verbosity) float64 {
	switch v {
	case VerbosityTerse:
		return -1
	case VerbosityDetailed:
		return 1
	default:
		return 0
	}
}

func hedgingOffset(h HedgingStyle) float64 {
	switch h {
	case HedgingConfident:
		return -1
	case HedgingCautious:
		return 1
	default:
		return 0
	}
}

// VerbosityBand maps an adjusted slider value to its discrete band.
// Piecewise constant with breakpoints exactly at ±BandThreshold.
func VerbosityBand(adjust float64) Verbosity {
	switch {
	case adjust <= -BandThreshold:
		return VerbosityTerse
	case adjust >= BandThreshold:
		return VerbosityDetailed
	default:
		return VerbosityModerate
	}
}

// HedgingBand maps an adjusted slider value to its discrete band.
func HedgingBand(adjust float64) HedgingStyle {
	switch {
	case adjust <= -BandThreshold:
		return HedgingConfident
	case adjust >= BandThreshold:
		return HedgingCautious
	default:
		return HedgingBalanced
	}
}

// FormalityBand names the discrete formality band for an effective level.
type FormalityBand string

const (
	FormalityCasual  FormalityBand = "casual"
	FormalityNeutral FormalityBand = "neutral"
	FormalityFormal  FormalityBand = "formal"
)

// FormalityBandOf maps an effective formality level to its band, with
// breakpoints at levels FormalityCasualMax and FormalityFormalMin.
func FormalityBandOf(level float64) FormalityBand {
	switch {
	case level <= FormalityCasualMax:
		return FormalityCasual
	case level >= FormalityFormalMin:
		return FormalityFormal
	default:
		return FormalityNeutral
	}
}
