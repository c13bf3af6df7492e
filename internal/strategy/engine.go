package strategy

import (
	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/model"
)

// Classification thresholds on the oscillator.
const (
	BullishAbove = 55.0
	BearishBelow = 45.0
)

// Params configures indicator periods for Analyze.
type Params struct {
	MAPeriod         int
	OscillatorPeriod int
}

// DefaultParams matches EMA20 / RSI14.
var DefaultParams = Params{MAPeriod: 20, OscillatorPeriod: 14}

// Classify maps the instantaneous (price, moving average, oscillator) triple to a trend.
// Rules are checked in order; there is no hysteresis.
func Classify(price, movingAverage, oscillator float64) model.Trend {
	switch {
	case price > movingAverage && oscillator > BullishAbove:
		return model.TrendBullish
	case price < movingAverage && oscillator < BearishBelow:
		return model.TrendBearish
	default:
		return model.TrendSideways
	}
}

// Marker returns the directional marker shown next to a trend in reports.
func Marker(t model.Trend) string {
	switch t {
	case model.TrendBullish:
		return "⬆️"
	case model.TrendBearish:
		return "⬇️"
	default:
		return "⏸"
	}
}

// Analyze computes indicators over window (oldest first, ending with the sample's price)
// and classifies the sample.
func Analyze(sample model.Sample, window []float64, p Params) *model.Analysis {
	ma := calculator.MovingAverage(window, p.MAPeriod)
	osc := calculator.Oscillator(window, p.OscillatorPeriod)
	return &model.Analysis{
		Sample:        sample,
		MovingAverage: ma,
		Oscillator:    osc,
		Trend:         Classify(sample.Price, ma, osc),
	}
}
