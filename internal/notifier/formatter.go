package notifier

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"TrendSentinel/internal/model"
	"TrendSentinel/internal/strategy"
)

const reportTimeLayout = "2006-01-02 15:04:05"

// ReportBuilder assembles one cycle's multi-symbol report. Create a new builder (or
// Reset) for every cycle.
type ReportBuilder struct {
	maPeriod int
	body     strings.Builder
}

// NewReportBuilder creates a builder; maPeriod labels the moving average column.
func NewReportBuilder(maPeriod int) *ReportBuilder {
	return &ReportBuilder{maPeriod: maPeriod}
}

// Append adds the line group for a successful analysis.
func (r *ReportBuilder) Append(a *model.Analysis) {
	r.body.WriteString(fmt.Sprintf("%s - %s %s\n", a.Sample.Symbol, strategy.Marker(a.Trend), a.Trend))
	r.body.WriteString(fmt.Sprintf("Price: %s | EMA%d: %.2f | RSI: %.1f | Vol: %.0f\n\n",
		formatPrice(a.Sample.Price), r.maPeriod, a.MovingAverage, a.Oscillator, a.Sample.Volume))
}

// AppendFailure adds an error line for a symbol that could not be analyzed.
func (r *ReportBuilder) AppendFailure(symbol string, err error) {
	r.body.WriteString(fmt.Sprintf("%s - Error: %v\n\n", symbol, err))
}

// AppendWarning notes that a symbol was analyzed but its history was not saved.
func (r *ReportBuilder) AppendWarning(symbol string, err error) {
	r.body.WriteString(fmt.Sprintf("⚠️ %s history not saved: %v\n\n", symbol, err))
}

// Finalize prepends the header and returns the complete report.
func (r *ReportBuilder) Finalize(ts time.Time) string {
	return fmt.Sprintf("📊 Trend Dashboard (%s)\n\n%s", ts.Format(reportTimeLayout), r.body.String())
}

// Reset clears the report body.
func (r *ReportBuilder) Reset() {
	r.body.Reset()
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
