package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SpendSnapshot is a daily record of a budget's pacing, written by the
// scheduler so dashboards can chart spend history without recomputing it.
// (budget, date) is unique.
type SpendSnapshot struct {
	shared.TenantAggregateRoot
	BudgetID    uuid.UUID
	Date        time.Time // date only, UTC midnight
	Spent       decimal.Decimal
	Expected    decimal.Decimal
	Variance    decimal.Decimal
	VariancePct decimal.Decimal
	Status      PacingStatus
}

// NewSpendSnapshot records one day's pacing picture
func NewSpendSnapshot(tenantID, budgetID uuid.UUID, date time.Time, pacing Pacing) *SpendSnapshot {
	return &SpendSnapshot{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BudgetID:            budgetID,
		Date:                truncateDay(date),
		Spent:               pacing.Spent,
		Expected:            pacing.Expected,
		Variance:            pacing.Variance,
		VariancePct:         pacing.VariancePct,
		Status:              pacing.Status,
	}
}

// Refresh overwrites the snapshot with a newer pacing picture for the same day
func (s *SpendSnapshot) Refresh(pacing Pacing) {
	s.Spent = pacing.Spent
	s.Expected = pacing.Expected
	s.Variance = pacing.Variance
	s.VariancePct = pacing.VariancePct
	s.Status = pacing.Status
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
