package calculator

// MovingAverage computes an exponential moving average over prices (oldest first).
//
// With fewer than period prices no smoothing is applied and the most recent price is
// returned unchanged. Otherwise the average is seeded with the first price of the window
// rather than with a simple average of the first period prices, and folded left to right
// with k = 2/(period+1).
func MovingAverage(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}
	if period <= 0 || len(prices) < period {
		return prices[len(prices)-1]
	}
	k := 2.0 / float64(period+1)
	ema := prices[0]
	for _, p := range prices[1:] {
		ema = p*k + ema*(1-k)
	}
	return ema
}
