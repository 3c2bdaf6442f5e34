package ads

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestDerivedMetrics(t *testing.T) {
	t.Run("ctr", func(t *testing.T) {
		assert.True(t, dec("5").Equal(CTR(50, 1000)))
		assert.True(t, decimal.Zero.Equal(CTR(50, 0)), "no impressions yields zero")
	})

	t.Run("avg cpc", func(t *testing.T) {
		assert.True(t, dec("2.5").Equal(AvgCPC(dec("125"), 50)))
		assert.True(t, decimal.Zero.Equal(AvgCPC(dec("125"), 0)))
	})

	t.Run("conversion rate", func(t *testing.T) {
		assert.True(t, dec("10").Equal(ConversionRate(dec("5"), 50)))
		assert.True(t, decimal.Zero.Equal(ConversionRate(dec("5"), 0)))
	})

	t.Run("avg daily spend", func(t *testing.T) {
		assert.True(t, dec("10").Equal(AvgDailySpend(dec("300"), 30)))
		assert.True(t, decimal.Zero.Equal(AvgDailySpend(dec("300"), 0)))
	})

	t.Run("change pct", func(t *testing.T) {
		assert.True(t, dec("25").Equal(ChangePct(dec("125"), dec("100"))))
		assert.True(t, dec("-50").Equal(ChangePct(dec("50"), dec("100"))))
		assert.True(t, decimal.Zero.Equal(ChangePct(dec("50"), decimal.Zero)), "zero baseline yields zero, not infinity")
	})
}

func TestMetricSnapshot(t *testing.T) {
	tenantID := uuid.New()
	campaignID := uuid.New()

	t.Run("computes derived rates on creation", func(t *testing.T) {
		s, err := NewMetricSnapshot(tenantID, campaignID, connection.RangeLast30Days, 1000, 50, dec("125"), dec("5"))
		require.NoError(t, err)

		assert.True(t, dec("5").Equal(s.CTR))
		assert.True(t, dec("2.5").Equal(s.AvgCPC))
		assert.True(t, dec("10").Equal(s.ConversionRate))
		assert.True(t, dec("125").Div(dec("30")).Equal(s.AvgDailySpend))
	})

	t.Run("rejects unknown range", func(t *testing.T) {
		_, err := NewMetricSnapshot(tenantID, campaignID, connection.DateRange("LAST_YEAR"), 0, 0, decimal.Zero, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("apply recomputes", func(t *testing.T) {
		s, err := NewMetricSnapshot(tenantID, campaignID, connection.RangeLast7Days, 0, 0, decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		require.True(t, s.CTR.IsZero())

		syncedAt := time.Now()
		s.Apply(200, 20, dec("40"), dec("2"), syncedAt)

		assert.True(t, dec("10").Equal(s.CTR))
		assert.True(t, dec("2").Equal(s.AvgCPC))
		assert.Equal(t, syncedAt, s.SyncedAt)
	})
}

func TestDailyMetric(t *testing.T) {
	m := NewDailyMetric(uuid.New(), uuid.New(), time.Date(2026, 8, 15, 13, 45, 0, 0, time.UTC), 100, 10, dec("20"), dec("1"))

	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), m.Date, "date is truncated to UTC midnight")
	assert.True(t, dec("10").Equal(m.CTR))
	assert.True(t, dec("2").Equal(m.AvgCPC))
}

func TestDataFreshness(t *testing.T) {
	f := NewDataFreshness(uuid.New(), uuid.New(), connection.RangeLast30Days)
	window := 24 * time.Hour

	assert.True(t, f.IsFresh(time.Now(), window))
	assert.False(t, f.IsFresh(time.Now().Add(25*time.Hour), window))

	t.Run("failure keeps the last sync time", func(t *testing.T) {
		before := f.LastSyncedAt
		f.RecordFailure("quota exceeded")
		assert.Equal(t, before, f.LastSyncedAt)
		assert.Equal(t, "quota exceeded", f.LastError)
	})

	t.Run("success clears the error", func(t *testing.T) {
		at := time.Now()
		f.RecordSuccess(at)
		assert.Equal(t, at, f.LastSyncedAt)
		assert.Empty(t, f.LastError)
	})
}
