package budget

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBudgetAllocation(t *testing.T) {
	t.Run("valid allocation", func(t *testing.T) {
		a, err := NewBudgetAllocation(uuid.New(), uuid.New(), TargetPlatform, dec("500"))
		require.NoError(t, err)
		require.NoError(t, a.ForPlatform("google_ads"))
		assert.Equal(t, "google_ads", a.Platform)
	})

	t.Run("rejects unknown target", func(t *testing.T) {
		_, err := NewBudgetAllocation(uuid.New(), uuid.New(), AllocationTarget("channel"), dec("500"))
		require.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewBudgetAllocation(uuid.New(), uuid.New(), TargetCampaign, decimal.Zero)
		require.Error(t, err)
	})
}

func TestBudgetAllocation_Binding(t *testing.T) {
	t.Run("target and binding must match", func(t *testing.T) {
		a, err := NewBudgetAllocation(uuid.New(), uuid.New(), TargetAccount, dec("100"))
		require.NoError(t, err)

		assert.Error(t, a.ForPlatform("google_ads"))
		assert.Error(t, a.ForCampaign(uuid.New()))

		accountID := uuid.New()
		require.NoError(t, a.ForAccount(accountID))
		require.NotNil(t, a.ClientAccountID)
		assert.Equal(t, accountID, *a.ClientAccountID)
	})

	t.Run("platform code is required", func(t *testing.T) {
		a, err := NewBudgetAllocation(uuid.New(), uuid.New(), TargetPlatform, dec("100"))
		require.NoError(t, err)
		assert.Error(t, a.ForPlatform(""))
	})
}

func TestBudgetAllocation_SetPercent(t *testing.T) {
	a, err := NewBudgetAllocation(uuid.New(), uuid.New(), TargetCampaign, dec("100"))
	require.NoError(t, err)

	require.NoError(t, a.SetPercent(dec("45.5")))
	require.NotNil(t, a.Percent)
	assert.True(t, a.Percent.Equal(dec("45.5")))

	assert.Error(t, a.SetPercent(decimal.Zero))
	assert.Error(t, a.SetPercent(dec("100.01")))
}
