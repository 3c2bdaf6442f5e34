package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AlertType classifies a budget alert
type AlertType string

const (
	AlertOverspend  AlertType = "overspend"
	AlertUnderspend AlertType = "underspend"
	AlertForecast   AlertType = "forecast" // run rate projects over the full amount
)

// BudgetAlert is raised when pacing crosses a threshold. Alerts are
// deduplicated per (budget, type) until acknowledged.
type BudgetAlert struct {
	shared.TenantAggregateRoot
	BudgetID       uuid.UUID
	Type           AlertType
	Message        string
	Spent          decimal.Decimal
	Expected       decimal.Decimal
	VariancePct    decimal.Decimal
	AcknowledgedAt *time.Time
}

// NewBudgetAlert creates an unacknowledged alert from a pacing picture
func NewBudgetAlert(tenantID, budgetID uuid.UUID, alertType AlertType, message string, pacing Pacing) *BudgetAlert {
	return &BudgetAlert{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BudgetID:            budgetID,
		Type:                alertType,
		Message:             message,
		Spent:               pacing.Spent,
		Expected:            pacing.Expected,
		VariancePct:         pacing.VariancePct,
	}
}

// Acknowledge marks the alert as seen
func (a *BudgetAlert) Acknowledge() {
	if a.AcknowledgedAt != nil {
		return
	}
	now := time.Now()
	a.AcknowledgedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()
}

// IsOpen reports whether the alert is still unacknowledged
func (a *BudgetAlert) IsOpen() bool {
	return a.AcknowledgedAt == nil
}

// EvaluateAlerts derives the alerts a pacing picture warrants. Overspend and
// underspend come from the pacing status; a forecast alert fires when the run
// rate projects past the amount even while spend to date is still on track.
func EvaluateAlerts(pacing Pacing) []AlertType {
	var types []AlertType
	switch pacing.Status {
	case PacingOverspend:
		types = append(types, AlertOverspend)
	case PacingUnderspend:
		types = append(types, AlertUnderspend)
	}
	if pacing.Status != PacingOverspend && pacing.WillExceed() {
		types = append(types, AlertForecast)
	}
	return types
}
