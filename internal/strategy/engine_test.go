package strategy

import (
	"testing"
	"time"

	"TrendSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_AllBranches(t *testing.T) {
	tests := []struct {
		name       string
		price, ma  float64
		osc        float64
		want       model.Trend
	}{
		{"bullish", 110, 105, 60, model.TrendBullish},
		{"above ma but weak oscillator", 110, 105, 55, model.TrendSideways},
		{"bearish", 95, 100, 40, model.TrendBearish},
		{"below ma but oscillator at 45", 95, 100, 45, model.TrendSideways},
		{"price equals ma", 100, 100, 80, model.TrendSideways},
		{"strong oscillator below ma", 95, 100, 70, model.TrendSideways},
		{"weak oscillator above ma", 105, 100, 30, model.TrendSideways},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.price, tt.ma, tt.osc))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, model.TrendBullish, Classify(110, 104.2, 60))
	}
}

func TestMarker(t *testing.T) {
	assert.Equal(t, "⬆️", Marker(model.TrendBullish))
	assert.Equal(t, "⬇️", Marker(model.TrendBearish))
	assert.Equal(t, "⏸", Marker(model.TrendSideways))
}

func TestAnalyze_RisingWindowIsBullish(t *testing.T) {
	window := []float64{
		100, 102, 99, 105, 103, 104, 101, 103, 105, 104,
		106, 103, 105, 107, 106, 104, 107, 108, 106, 105,
		107, 109, 108, 106, 108, 110, 109, 107, 109, 110,
	}
	require.Len(t, window, 30)

	sample := model.Sample{Symbol: "X", Timestamp: time.Now(), Price: 110, Volume: 1000}
	a := Analyze(sample, window, DefaultParams)

	assert.Less(t, a.MovingAverage, 110.0)
	assert.Greater(t, a.Oscillator, BullishAbove)
	assert.Equal(t, model.TrendBullish, a.Trend)
	assert.Equal(t, sample, a.Sample)
}

func TestAnalyze_ColdStart(t *testing.T) {
	sample := model.Sample{Symbol: "X", Price: 100}
	a := Analyze(sample, []float64{100}, DefaultParams)

	assert.Equal(t, 100.0, a.MovingAverage)
	assert.Equal(t, 50.0, a.Oscillator)
	assert.Equal(t, model.TrendSideways, a.Trend)
}
