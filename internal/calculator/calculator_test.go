package calculator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovingAverage_ColdStartReturnsLastPrice(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		period int
		want   float64
	}{
		{"single price", []float64{101.5}, 20, 101.5},
		{"one short of period", []float64{1, 2, 3, 4}, 5, 4},
		{"zero period", []float64{7, 8, 9}, 0, 9},
		{"empty", nil, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MovingAverage(tt.prices, tt.period))
		})
	}
}

func TestMovingAverage_SeedsWithFirstPrice(t *testing.T) {
	// k = 2/3: ema = 10, then 20*2/3 + 10/3
	assert.InDelta(t, 50.0/3.0, MovingAverage([]float64{10, 20}, 2), 1e-9)

	// Three prices, period 3, k = 0.5: 10 -> 15 -> 22.5
	assert.InDelta(t, 22.5, MovingAverage([]float64{10, 20, 30}, 3), 1e-9)

	// A simple-average seed would give a different answer here.
	sma := (10.0 + 20.0 + 30.0) / 3.0
	assert.NotEqual(t, sma, MovingAverage([]float64{10, 20, 30}, 3))
}

func TestMovingAverage_ConstantSeries(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 42
	}
	assert.InDelta(t, 42.0, MovingAverage(prices, 20), 1e-9)
}

func TestOscillator_NeutralWhenShort(t *testing.T) {
	assert.Equal(t, NeutralOscillator, Oscillator(nil, 14))
	assert.Equal(t, NeutralOscillator, Oscillator([]float64{1, 2, 3}, 3))
	assert.Equal(t, 50.0, Oscillator(make([]float64, 14), 14))
	assert.Equal(t, NeutralOscillator, Oscillator([]float64{1, 2, 3}, 0))
}

func TestOscillator_Values(t *testing.T) {
	rising := make([]float64, 16)
	falling := make([]float64, 16)
	for i := range rising {
		rising[i] = float64(i + 1)
		falling[i] = float64(100 - i)
	}

	tests := []struct {
		name   string
		prices []float64
		period int
		want   float64
	}{
		// +2 -1 +2 over the last three changes: avgGain 4/3, avgLoss 1/3, rs 4
		{"mixed", []float64{100, 102, 101, 103, 102, 104}, 3, 80},
		// avgGain 1, avgLoss floored to 0.01, rs 100
		{"all gains", rising, 14, 100 - 100.0/101.0},
		// avgGain floored to 0.01, avgLoss 1, rs 0.01
		{"all losses", falling, 14, 100 - 100.0/1.01},
		{"flat", []float64{5, 5, 5, 5, 5}, 4, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Oscillator(tt.prices, tt.period), 1e-9)
		})
	}
}

func TestOscillator_OnlyLastPeriodChangesCount(t *testing.T) {
	// A large early drop must not affect the result.
	prices := []float64{500, 100, 102, 101, 103, 102, 104}
	assert.InDelta(t, 80.0, Oscillator(prices, 3), 1e-9)
}

func TestOscillator_Bounded(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 500; n++ {
		prices := make([]float64, 5+rng.Intn(40))
		p := 100.0
		for i := range prices {
			p += (rng.Float64() - 0.5) * 10
			prices[i] = p
		}
		v := Oscillator(prices, 14)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}
