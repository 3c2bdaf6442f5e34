package portfolio

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// GoalMetric identifies which performance metric a target applies to
type GoalMetric string

const (
	GoalMetricCTR            GoalMetric = "ctr"
	GoalMetricConversionRate GoalMetric = "conversion_rate"
	GoalMetricCPC            GoalMetric = "cpc"
	GoalMetricCPA            GoalMetric = "cpa"
)

// IsValid checks if the metric is a known value
func (m GoalMetric) IsValid() bool {
	switch m {
	case GoalMetricCTR, GoalMetricConversionRate, GoalMetricCPC, GoalMetricCPA:
		return true
	}
	return false
}

// LowerIsBetter reports whether smaller actual values beat the goal.
// Cost metrics (CPC, CPA) invert the usual comparison.
func (m GoalMetric) LowerIsBetter() bool {
	return m == GoalMetricCPC || m == GoalMetricCPA
}

// GoalStatus classifies actual performance against a goal
type GoalStatus string

const (
	GoalStatusExcellent GoalStatus = "excellent" // >= 120% of goal
	GoalStatusGood      GoalStatus = "good"      // >= 100%
	GoalStatusWarning   GoalStatus = "warning"   // >= 80%
	GoalStatusPoor      GoalStatus = "poor"      // < 80%
	GoalStatusNoGoal    GoalStatus = "no_goal"   // nothing to compare against
)

// GoalSource says where a resolved goal value came from
type GoalSource string

const (
	GoalSourceClient GoalSource = "client"
	GoalSourceTenant GoalSource = "tenant"
	GoalSourceNone   GoalSource = "none"
)

// PerformanceGoal holds per-client metric targets. A nil target means the
// tenant default applies for that metric.
type PerformanceGoal struct {
	shared.TenantAggregateRoot
	ClientID           uuid.UUID
	CTRTarget          *decimal.Decimal // percent
	ConversionTarget   *decimal.Decimal // percent
	CPCTarget          *decimal.Decimal // currency
	CPATarget          *decimal.Decimal // currency
	UseTenantFallbacks bool
}

// TenantGoalDefaults holds the tenant-wide default targets applied to clients
// without their own goals.
type TenantGoalDefaults struct {
	shared.BaseAggregateRoot
	TenantID         uuid.UUID
	CTRTarget        *decimal.Decimal
	ConversionTarget *decimal.Decimal
	CPCTarget        *decimal.Decimal
	CPATarget        *decimal.Decimal
}

// NewPerformanceGoal creates an empty goal record for a client
func NewPerformanceGoal(tenantID, clientID uuid.UUID) *PerformanceGoal {
	return &PerformanceGoal{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		UseTenantFallbacks:  true,
	}
}

// SetTarget sets one metric target. A nil value clears the target.
func (g *PerformanceGoal) SetTarget(metric GoalMetric, value *decimal.Decimal) error {
	if !metric.IsValid() {
		return shared.NewDomainError("INVALID_METRIC", "Unknown goal metric")
	}
	if value != nil && value.IsNegative() {
		return shared.NewDomainError("INVALID_GOAL", "Goal target cannot be negative")
	}
	switch metric {
	case GoalMetricCTR:
		g.CTRTarget = value
	case GoalMetricConversionRate:
		g.ConversionTarget = value
	case GoalMetricCPC:
		g.CPCTarget = value
	case GoalMetricCPA:
		g.CPATarget = value
	}
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
	return nil
}

// Target returns the client-level target for a metric, nil if unset
func (g *PerformanceGoal) Target(metric GoalMetric) *decimal.Decimal {
	switch metric {
	case GoalMetricCTR:
		return g.CTRTarget
	case GoalMetricConversionRate:
		return g.ConversionTarget
	case GoalMetricCPC:
		return g.CPCTarget
	case GoalMetricCPA:
		return g.CPATarget
	}
	return nil
}

// Target returns the tenant default target for a metric, nil if unset
func (d *TenantGoalDefaults) Target(metric GoalMetric) *decimal.Decimal {
	switch metric {
	case GoalMetricCTR:
		return d.CTRTarget
	case GoalMetricConversionRate:
		return d.ConversionTarget
	case GoalMetricCPC:
		return d.CPCTarget
	case GoalMetricCPA:
		return d.CPATarget
	}
	return nil
}

// ResolvedGoal is a goal value after client/tenant fallback resolution
type ResolvedGoal struct {
	Metric GoalMetric
	Value  decimal.Decimal
	Source GoalSource
}

// ResolveGoal picks the effective target for a metric: the client's own target
// wins; tenant defaults apply only when the client opts into fallbacks.
// Either argument may be nil.
func ResolveGoal(metric GoalMetric, clientGoal *PerformanceGoal, tenantDefaults *TenantGoalDefaults) ResolvedGoal {
	if clientGoal != nil {
		if v := clientGoal.Target(metric); v != nil {
			return ResolvedGoal{Metric: metric, Value: *v, Source: GoalSourceClient}
		}
		if !clientGoal.UseTenantFallbacks {
			return ResolvedGoal{Metric: metric, Source: GoalSourceNone}
		}
	}
	if tenantDefaults != nil {
		if v := tenantDefaults.Target(metric); v != nil {
			return ResolvedGoal{Metric: metric, Value: *v, Source: GoalSourceTenant}
		}
	}
	return ResolvedGoal{Metric: metric, Source: GoalSourceNone}
}

// Goal status thresholds expressed as actual/goal ratios
var (
	ratioExcellent = decimal.NewFromFloat(1.2)
	ratioGood      = decimal.NewFromFloat(1.0)
	ratioWarning   = decimal.NewFromFloat(0.8)
)

// ClassifyGoal compares an actual metric value against a resolved goal.
// For cost metrics the ratio is inverted so that lower spend classifies higher.
func ClassifyGoal(metric GoalMetric, actual decimal.Decimal, goal ResolvedGoal) GoalStatus {
	if goal.Source == GoalSourceNone || goal.Value.IsZero() {
		return GoalStatusNoGoal
	}

	var ratio decimal.Decimal
	if metric.LowerIsBetter() {
		if actual.IsZero() {
			// Zero cost with a cost goal set counts as beating it.
			return GoalStatusExcellent
		}
		ratio = goal.Value.Div(actual)
	} else {
		ratio = actual.Div(goal.Value)
	}

	switch {
	case ratio.GreaterThanOrEqual(ratioExcellent):
		return GoalStatusExcellent
	case ratio.GreaterThanOrEqual(ratioGood):
		return GoalStatusGood
	case ratio.GreaterThanOrEqual(ratioWarning):
		return GoalStatusWarning
	default:
		return GoalStatusPoor
	}
}
