package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

// PacingStatus classifies how spend tracks against the linear expectation
type PacingStatus string

const (
	PacingOnTrack    PacingStatus = "on_track"
	PacingOverspend  PacingStatus = "overspend"
	PacingUnderspend PacingStatus = "underspend"
)

// Pacing thresholds as a fraction of expected spend to date
var (
	overspendThreshold  = decimal.NewFromFloat(1.10)
	underspendThreshold = decimal.NewFromFloat(0.80)
)

// Pacing is the computed budget-versus-spend picture at a point in time
type Pacing struct {
	Amount        decimal.Decimal
	Spent         decimal.Decimal
	DaysInPeriod  int
	DaysElapsed   int
	Expected      decimal.Decimal
	Variance      decimal.Decimal
	VariancePct   decimal.Decimal
	ForecastTotal decimal.Decimal
	Status        PacingStatus
}

// ComputePacing derives the pacing picture for a budget given spend to date.
// Expected spend is linear: amount scaled by elapsed days over period days.
// Variance percentage is zero when expected spend is zero. The forecast
// projects the current daily run rate over the full period.
func ComputePacing(b *Budget, spent decimal.Decimal, now time.Time) Pacing {
	period := b.DaysInPeriod()
	elapsed := b.DaysElapsed(now)

	expected := decimal.Zero
	if period > 0 {
		expected = b.Amount.Mul(decimal.NewFromInt(int64(elapsed))).Div(decimal.NewFromInt(int64(period)))
	}

	variance := spent.Sub(expected)
	variancePct := decimal.Zero
	if !expected.IsZero() {
		variancePct = variance.Div(expected).Mul(decimal.NewFromInt(100))
	}

	forecast := decimal.Zero
	if elapsed > 0 {
		forecast = spent.Div(decimal.NewFromInt(int64(elapsed))).Mul(decimal.NewFromInt(int64(period)))
	}

	status := PacingOnTrack
	if !expected.IsZero() {
		ratio := spent.Div(expected)
		switch {
		case ratio.GreaterThanOrEqual(overspendThreshold):
			status = PacingOverspend
		case ratio.LessThan(underspendThreshold):
			status = PacingUnderspend
		}
	} else if spent.GreaterThan(decimal.Zero) {
		status = PacingOverspend
	}

	return Pacing{
		Amount:        b.Amount,
		Spent:         spent,
		DaysInPeriod:  period,
		DaysElapsed:   elapsed,
		Expected:      expected,
		Variance:      variance,
		VariancePct:   variancePct,
		ForecastTotal: forecast,
		Status:        status,
	}
}

// WillExceed reports whether the run-rate forecast overshoots the amount
func (p Pacing) WillExceed() bool {
	return p.ForecastTotal.GreaterThan(p.Amount)
}

// Utilization returns spent/amount as a percentage, 0 for a zero amount
func (p Pacing) Utilization() decimal.Decimal {
	if p.Amount.IsZero() {
		return decimal.Zero
	}
	return p.Spent.Div(p.Amount).Mul(decimal.NewFromInt(100))
}
