package model

import "time"

// Sample is a single price/volume observation for a symbol.
type Sample struct {
	Symbol    string
	Timestamp time.Time
	Price     float64
	Volume    float64 // 24h volume
}

// HistoryRecord is the persisted form of one symbol's analysis in one cycle.
type HistoryRecord struct {
	CycleID       string
	Symbol        string
	Timestamp     time.Time
	Price         float64
	Volume        float64
	MovingAverage float64
	Oscillator    float64
	Trend         Trend
}

// InboundMessage is a message received from the notification channel.
type InboundMessage struct {
	ID     int64
	ChatID int64
	Text   string
}
