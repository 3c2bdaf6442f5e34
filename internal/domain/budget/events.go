package budget

import (
	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BudgetCreatedEvent is published when a budget is created
type BudgetCreatedEvent struct {
	shared.BaseDomainEvent
	Scope  string          `json:"scope"`
	Amount decimal.Decimal `json:"amount"`
}

// NewBudgetCreatedEvent creates a budget created event
func NewBudgetCreatedEvent(budgetID, tenantID uuid.UUID, scope string, amount decimal.Decimal) *BudgetCreatedEvent {
	return &BudgetCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("budget.created", "budget", budgetID, tenantID),
		Scope:           scope,
		Amount:          amount,
	}
}

// BudgetAlertRaisedEvent is published when pacing crosses a threshold
type BudgetAlertRaisedEvent struct {
	shared.BaseDomainEvent
	BudgetID    string          `json:"budget_id"`
	AlertType   string          `json:"alert_type"`
	VariancePct decimal.Decimal `json:"variance_pct"`
}

// NewBudgetAlertRaisedEvent creates a budget alert raised event
func NewBudgetAlertRaisedEvent(alertID, budgetID, tenantID uuid.UUID, alertType string, variancePct decimal.Decimal) *BudgetAlertRaisedEvent {
	return &BudgetAlertRaisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("budget.alert_raised", "budget_alert", alertID, tenantID),
		BudgetID:        budgetID.String(),
		AlertType:       alertType,
		VariancePct:     variancePct,
	}
}
