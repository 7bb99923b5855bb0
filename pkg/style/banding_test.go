package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"below", -7.5, -2},
		{"lower bound", -2, -2},
		{"inside", 0.3, 0.3},
		{"upper bound", 2, 2},
		{"above", 11, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.x, SliderMin, SliderMax)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, SliderMin)
			assert.LessOrEqual(t, got, SliderMax)
			// Idempotent
			assert.Equal(t, got, Clamp(got, SliderMin, SliderMax))
		})
	}
}

func TestVerbosityBandBreakpoints(t *testing.T) {
	tests := []struct {
		adjust float64
		want   Verbosity
	}{
		{-2, VerbosityTerse},
		{-1.2, VerbosityTerse},
		{-0.5, VerbosityTerse},
		{-0.49, VerbosityModerate},
		{0, VerbosityModerate},
		{0.49, VerbosityModerate},
		{0.5, VerbosityDetailed},
		{2, VerbosityDetailed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityBand(tt.adjust), "adjust=%v", tt.adjust)
	}
}

// Banding must be monotonic: sweeping the slider never moves the band
// backwards.
func TestVerbosityBandMonotonic(t *testing.T) {
	order := map[Verbosity]int{VerbosityTerse: 0, VerbosityModerate: 1, VerbosityDetailed: 2}
	prev := -1
	for x := -2.0; x <= 2.0; x += 0.01 {
		cur := order[VerbosityBand(x)]
		assert.GreaterOrEqual(t, cur, prev, "band regressed at %v", x)
		prev = cur
	}
}

func TestHedgingBandBreakpoints(t *testing.T) {
	assert.Equal(t, HedgingConfident, HedgingBand(-0.5))
	assert.Equal(t, HedgingBalanced, HedgingBand(-0.49))
	assert.Equal(t, HedgingBalanced, HedgingBand(0.49))
	assert.Equal(t, HedgingCautious, HedgingBand(0.5))
}

func TestFormalityBandBreakpoints(t *testing.T) {
	assert.Equal(t, FormalityCasual, FormalityBandOf(1))
	assert.Equal(t, FormalityCasual, FormalityBandOf(2))
	assert.Equal(t, FormalityNeutral, FormalityBandOf(2.1))
	assert.Equal(t, FormalityNeutral, FormalityBandOf(3.9))
	assert.Equal(t, FormalityFormal, FormalityBandOf(4))
	assert.Equal(t, FormalityFormal, FormalityBandOf(5))
}
