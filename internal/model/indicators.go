package model

// Analysis holds the computed indicators and trend for one symbol in one cycle.
type Analysis struct {
	Sample        Sample
	MovingAverage float64
	Oscillator    float64
	Trend         Trend
}

// Record converts the analysis into a history record for the given cycle.
func (a *Analysis) Record(cycleID string) *HistoryRecord {
	return &HistoryRecord{
		CycleID:       cycleID,
		Symbol:        a.Sample.Symbol,
		Timestamp:     a.Sample.Timestamp,
		Price:         a.Sample.Price,
		Volume:        a.Sample.Volume,
		MovingAverage: a.MovingAverage,
		Oscillator:    a.Oscillator,
		Trend:         a.Trend,
	}
}
