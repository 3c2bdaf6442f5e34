package budget

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthlyBudget(t *testing.T, amount string) *Budget {
	t.Helper()
	b, err := NewBudget(uuid.New(), "August", ScopeClient, PeriodMonthly, dec(amount), day(2026, 8, 1), day(2026, 8, 31))
	require.NoError(t, err)
	return b
}

func TestNewBudget(t *testing.T) {
	t.Run("valid budget", func(t *testing.T) {
		b := monthlyBudget(t, "3100")
		assert.True(t, b.IsActive)
		assert.Equal(t, 31, b.DaysInPeriod())
		assert.Len(t, b.GetDomainEvents(), 1)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewBudget(uuid.New(), "x", ScopeTenant, PeriodMonthly, decimal.Zero, day(2026, 8, 1), day(2026, 8, 31))
		require.Error(t, err)
	})

	t.Run("rejects inverted interval", func(t *testing.T) {
		_, err := NewBudget(uuid.New(), "x", ScopeTenant, PeriodMonthly, dec("100"), day(2026, 8, 31), day(2026, 8, 1))
		require.Error(t, err)
	})

	t.Run("single day period", func(t *testing.T) {
		b, err := NewBudget(uuid.New(), "x", ScopeTenant, PeriodCustom, dec("100"), day(2026, 8, 1), day(2026, 8, 1))
		require.NoError(t, err)
		assert.Equal(t, 1, b.DaysInPeriod())
	})
}

func TestBudget_Scoping(t *testing.T) {
	b := monthlyBudget(t, "100")

	require.NoError(t, b.ForClient(uuid.New()))
	assert.NotNil(t, b.ClientID)

	assert.Error(t, b.ForGroup(uuid.New()), "client-scoped budget cannot bind a group")
}

func TestBudget_DaysElapsed(t *testing.T) {
	b := monthlyBudget(t, "3100")

	assert.Equal(t, 0, b.DaysElapsed(day(2026, 7, 15)), "before start")
	assert.Equal(t, 1, b.DaysElapsed(day(2026, 8, 1)), "start day counts")
	assert.Equal(t, 10, b.DaysElapsed(time.Date(2026, 8, 10, 18, 0, 0, 0, time.UTC)))
	assert.Equal(t, 31, b.DaysElapsed(day(2026, 9, 20)), "clamped to period length")
}

func TestBudget_Covers(t *testing.T) {
	b := monthlyBudget(t, "100")
	assert.True(t, b.Covers(day(2026, 8, 1)))
	assert.True(t, b.Covers(day(2026, 8, 31)))
	assert.False(t, b.Covers(day(2026, 9, 1)))
}

func TestComputePacing(t *testing.T) {
	b := monthlyBudget(t, "3100") // 100/day linear expectation

	t.Run("on track", func(t *testing.T) {
		p := ComputePacing(b, dec("1000"), day(2026, 8, 10))
		assert.Equal(t, 10, p.DaysElapsed)
		assert.True(t, dec("1000").Equal(p.Expected))
		assert.True(t, p.Variance.IsZero())
		assert.True(t, p.VariancePct.IsZero())
		assert.True(t, dec("3100").Equal(p.ForecastTotal))
		assert.Equal(t, PacingOnTrack, p.Status)
		assert.False(t, p.WillExceed())
	})

	t.Run("overspend", func(t *testing.T) {
		p := ComputePacing(b, dec("1500"), day(2026, 8, 10))
		assert.True(t, dec("500").Equal(p.Variance))
		assert.True(t, dec("50").Equal(p.VariancePct))
		assert.Equal(t, PacingOverspend, p.Status)
		assert.True(t, p.WillExceed())
	})

	t.Run("underspend", func(t *testing.T) {
		p := ComputePacing(b, dec("500"), day(2026, 8, 10))
		assert.Equal(t, PacingUnderspend, p.Status)
	})

	t.Run("before start expected is zero", func(t *testing.T) {
		p := ComputePacing(b, decimal.Zero, day(2026, 7, 1))
		assert.True(t, p.Expected.IsZero())
		assert.True(t, p.VariancePct.IsZero(), "zero expected yields zero variance pct")
		assert.Equal(t, PacingOnTrack, p.Status)
	})

	t.Run("spend before start is overspend", func(t *testing.T) {
		p := ComputePacing(b, dec("10"), day(2026, 7, 1))
		assert.Equal(t, PacingOverspend, p.Status)
	})

	t.Run("utilization", func(t *testing.T) {
		p := ComputePacing(b, dec("1550"), day(2026, 8, 15))
		assert.True(t, dec("50").Equal(p.Utilization()))
	})
}

func TestEvaluateAlerts(t *testing.T) {
	b := monthlyBudget(t, "3100")

	t.Run("overspend alert only", func(t *testing.T) {
		p := ComputePacing(b, dec("2000"), day(2026, 8, 10))
		assert.Equal(t, []AlertType{AlertOverspend}, EvaluateAlerts(p))
	})

	t.Run("underspend alert", func(t *testing.T) {
		p := ComputePacing(b, dec("100"), day(2026, 8, 10))
		assert.Equal(t, []AlertType{AlertUnderspend}, EvaluateAlerts(p))
	})

	t.Run("forecast alert while still inside overspend threshold", func(t *testing.T) {
		// 105% of expected: on track status but run rate overshoots
		p := ComputePacing(b, dec("1050"), day(2026, 8, 10))
		require.Equal(t, PacingOnTrack, p.Status)
		assert.Equal(t, []AlertType{AlertForecast}, EvaluateAlerts(p))
	})

	t.Run("on track yields no alerts", func(t *testing.T) {
		p := ComputePacing(b, dec("1000"), day(2026, 8, 10))
		assert.Empty(t, EvaluateAlerts(p))
	})
}

func TestBudgetAlert(t *testing.T) {
	b := monthlyBudget(t, "3100")
	p := ComputePacing(b, dec("2000"), day(2026, 8, 10))

	alert := NewBudgetAlert(b.TenantID, b.ID, AlertOverspend, "spend is 100% over plan", p)
	require.True(t, alert.IsOpen())

	alert.Acknowledge()
	assert.False(t, alert.IsOpen())

	stamp := *alert.AcknowledgedAt
	alert.Acknowledge()
	assert.Equal(t, stamp, *alert.AcknowledgedAt, "second acknowledge is a no-op")
}

func TestSpendSnapshot(t *testing.T) {
	b := monthlyBudget(t, "3100")
	p := ComputePacing(b, dec("1000"), day(2026, 8, 10))

	s := NewSpendSnapshot(b.TenantID, b.ID, time.Date(2026, 8, 10, 14, 30, 0, 0, time.UTC), p)
	assert.Equal(t, day(2026, 8, 10), s.Date)
	assert.Equal(t, PacingOnTrack, s.Status)

	p2 := ComputePacing(b, dec("1600"), day(2026, 8, 10))
	s.Refresh(p2)
	assert.True(t, dec("1600").Equal(s.Spent))
	assert.Equal(t, PacingOverspend, s.Status)
}
