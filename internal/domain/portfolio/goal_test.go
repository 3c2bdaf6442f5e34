package portfolio

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestResolveGoal(t *testing.T) {
	tenantID := uuid.New()
	clientID := uuid.New()

	defaults := &TenantGoalDefaults{TenantID: tenantID, CTRTarget: decPtr("2.0")}

	t.Run("client target wins over tenant default", func(t *testing.T) {
		goal := NewPerformanceGoal(tenantID, clientID)
		require.NoError(t, goal.SetTarget(GoalMetricCTR, decPtr("3.5")))

		resolved := ResolveGoal(GoalMetricCTR, goal, defaults)
		assert.Equal(t, GoalSourceClient, resolved.Source)
		assert.True(t, resolved.Value.Equal(dec("3.5")))
	})

	t.Run("falls back to tenant default", func(t *testing.T) {
		goal := NewPerformanceGoal(tenantID, clientID)

		resolved := ResolveGoal(GoalMetricCTR, goal, defaults)
		assert.Equal(t, GoalSourceTenant, resolved.Source)
		assert.True(t, resolved.Value.Equal(dec("2.0")))
	})

	t.Run("opting out of fallbacks yields no goal", func(t *testing.T) {
		goal := NewPerformanceGoal(tenantID, clientID)
		goal.UseTenantFallbacks = false

		resolved := ResolveGoal(GoalMetricCTR, goal, defaults)
		assert.Equal(t, GoalSourceNone, resolved.Source)
	})

	t.Run("nil goal and nil defaults yield no goal", func(t *testing.T) {
		resolved := ResolveGoal(GoalMetricCPA, nil, nil)
		assert.Equal(t, GoalSourceNone, resolved.Source)
	})
}

func TestClassifyGoal(t *testing.T) {
	goal := ResolvedGoal{Metric: GoalMetricCTR, Value: dec("2.0"), Source: GoalSourceClient}

	t.Run("higher-is-better thresholds", func(t *testing.T) {
		assert.Equal(t, GoalStatusExcellent, ClassifyGoal(GoalMetricCTR, dec("2.4"), goal))
		assert.Equal(t, GoalStatusGood, ClassifyGoal(GoalMetricCTR, dec("2.0"), goal))
		assert.Equal(t, GoalStatusWarning, ClassifyGoal(GoalMetricCTR, dec("1.7"), goal))
		assert.Equal(t, GoalStatusPoor, ClassifyGoal(GoalMetricCTR, dec("1.0"), goal))
	})

	t.Run("cost metrics invert the ratio", func(t *testing.T) {
		cpcGoal := ResolvedGoal{Metric: GoalMetricCPC, Value: dec("1.00"), Source: GoalSourceClient}

		// Spending less than the target is better.
		assert.Equal(t, GoalStatusExcellent, ClassifyGoal(GoalMetricCPC, dec("0.80"), cpcGoal))
		assert.Equal(t, GoalStatusGood, ClassifyGoal(GoalMetricCPC, dec("1.00"), cpcGoal))
		assert.Equal(t, GoalStatusWarning, ClassifyGoal(GoalMetricCPC, dec("1.20"), cpcGoal))
		assert.Equal(t, GoalStatusPoor, ClassifyGoal(GoalMetricCPC, dec("2.00"), cpcGoal))
	})

	t.Run("zero cost beats any cost goal", func(t *testing.T) {
		cpaGoal := ResolvedGoal{Metric: GoalMetricCPA, Value: dec("10"), Source: GoalSourceTenant}
		assert.Equal(t, GoalStatusExcellent, ClassifyGoal(GoalMetricCPA, decimal.Zero, cpaGoal))
	})

	t.Run("no goal yields no_goal", func(t *testing.T) {
		assert.Equal(t, GoalStatusNoGoal, ClassifyGoal(GoalMetricCTR, dec("5"), ResolvedGoal{Source: GoalSourceNone}))
	})
}

func TestPerformanceGoal_SetTarget(t *testing.T) {
	goal := NewPerformanceGoal(uuid.New(), uuid.New())

	require.Error(t, goal.SetTarget(GoalMetric("roas"), decPtr("4")))

	neg := dec("-1")
	require.Error(t, goal.SetTarget(GoalMetricCPC, &neg))

	require.NoError(t, goal.SetTarget(GoalMetricCPC, decPtr("0.75")))
	require.NotNil(t, goal.Target(GoalMetricCPC))

	require.NoError(t, goal.SetTarget(GoalMetricCPC, nil))
	assert.Nil(t, goal.Target(GoalMetricCPC))
}
