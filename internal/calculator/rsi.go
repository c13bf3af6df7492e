package calculator

const (
	// NeutralOscillator is returned when there is not enough history.
	NeutralOscillator = 50.0

	// averageFloor replaces a zero gain or loss average so rs stays finite.
	// It keeps results away from exactly 0 and 100.
	averageFloor = 0.01
)

// Oscillator computes a relative-strength value in [0, 100] from the last period price
// changes. Requires at least period+1 prices; returns NeutralOscillator otherwise.
//
// Averages are plain sums over period (no Wilder smoothing). Unchanged prices count as
// neither gain nor loss, so a flat window yields 50.
func Oscillator(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return NeutralOscillator
	}

	var gainSum, lossSum float64
	n := len(prices)
	for i := 1; i <= period; i++ {
		delta := prices[n-i] - prices[n-i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}

	avgGain := gainSum / float64(period)
	if avgGain == 0 {
		avgGain = averageFloor
	}
	avgLoss := lossSum / float64(period)
	if avgLoss == 0 {
		avgLoss = averageFloor
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
