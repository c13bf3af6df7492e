package model

// TriggerType indicates what started a collection cycle.
type TriggerType string

const (
	TriggerStartup   TriggerType = "STARTUP"
	TriggerScheduled TriggerType = "SCHEDULED"
	TriggerCommand   TriggerType = "COMMAND"
)

// Trend is the classification of a symbol's directional momentum.
type Trend string

const (
	TrendBullish  Trend = "Bullish"
	TrendBearish  Trend = "Bearish"
	TrendSideways Trend = "Sideways"
)

// ParseTrend maps a stored label back to a Trend. Unknown labels become Sideways.
func ParseTrend(s string) Trend {
	switch Trend(s) {
	case TrendBullish:
		return TrendBullish
	case TrendBearish:
		return TrendBearish
	default:
		return TrendSideways
	}
}
