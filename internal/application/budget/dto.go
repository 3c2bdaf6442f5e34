package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/budget"
	"github.com/shopspring/decimal"
)

// BudgetDTO represents a budget in responses
type BudgetDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Scope     string          `json:"scope"`
	ClientID  *uuid.UUID      `json:"client_id,omitempty"`
	GroupID   *uuid.UUID      `json:"group_id,omitempty"`
	Period    string          `json:"period"`
	Amount    decimal.Decimal `json:"amount"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateBudgetInput contains input for creating a budget
type CreateBudgetInput struct {
	TenantID  uuid.UUID
	Name      string
	Scope     string
	ClientID  *uuid.UUID
	GroupID   *uuid.UUID
	Period    string
	Amount    decimal.Decimal
	StartDate time.Time
	EndDate   time.Time
}

// UpdateBudgetInput contains input for updating a budget
type UpdateBudgetInput struct {
	TenantID  uuid.UUID
	ID        uuid.UUID
	Name      string
	Amount    decimal.Decimal
	StartDate time.Time
	EndDate   time.Time
}

// AllocationDTO represents a budget allocation in responses
type AllocationDTO struct {
	ID              uuid.UUID        `json:"id"`
	BudgetID        uuid.UUID        `json:"budget_id"`
	Target          string           `json:"target"`
	Platform        string           `json:"platform,omitempty"`
	ClientAccountID *uuid.UUID       `json:"client_account_id,omitempty"`
	CampaignID      *uuid.UUID       `json:"campaign_id,omitempty"`
	Amount          decimal.Decimal  `json:"amount"`
	Percent         *decimal.Decimal `json:"percent,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// CreateAllocationInput contains input for adding an allocation to a budget
type CreateAllocationInput struct {
	TenantID        uuid.UUID
	BudgetID        uuid.UUID
	Target          string
	Platform        string
	ClientAccountID *uuid.UUID
	CampaignID      *uuid.UUID
	Amount          decimal.Decimal
	Percent         *decimal.Decimal
}

// PacingDTO represents the live pacing picture of one budget
type PacingDTO struct {
	BudgetID      uuid.UUID       `json:"budget_id"`
	Amount        decimal.Decimal `json:"amount"`
	Spent         decimal.Decimal `json:"spent"`
	DaysInPeriod  int             `json:"days_in_period"`
	DaysElapsed   int             `json:"days_elapsed"`
	Expected      decimal.Decimal `json:"expected"`
	Variance      decimal.Decimal `json:"variance"`
	VariancePct   decimal.Decimal `json:"variance_pct"`
	ForecastTotal decimal.Decimal `json:"forecast_total"`
	Utilization   decimal.Decimal `json:"utilization_pct"`
	Status        string          `json:"status"`
}

// AlertDTO represents a budget alert in responses
type AlertDTO struct {
	ID             uuid.UUID       `json:"id"`
	BudgetID       uuid.UUID       `json:"budget_id"`
	Type           string          `json:"type"`
	Message        string          `json:"message"`
	Spent          decimal.Decimal `json:"spent"`
	Expected       decimal.Decimal `json:"expected"`
	VariancePct    decimal.Decimal `json:"variance_pct"`
	AcknowledgedAt *time.Time      `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SpendSnapshotDTO represents one day of recorded pacing history
type SpendSnapshotDTO struct {
	Date        string          `json:"date"`
	Spent       decimal.Decimal `json:"spent"`
	Expected    decimal.Decimal `json:"expected"`
	Variance    decimal.Decimal `json:"variance"`
	VariancePct decimal.Decimal `json:"variance_pct"`
	Status      string          `json:"status"`
}

func toBudgetDTO(b *budget.Budget) BudgetDTO {
	return BudgetDTO{
		ID:        b.ID,
		Name:      b.Name,
		Scope:     string(b.Scope),
		ClientID:  b.ClientID,
		GroupID:   b.GroupID,
		Period:    string(b.Period),
		Amount:    b.Amount,
		StartDate: b.StartDate.Format("2006-01-02"),
		EndDate:   b.EndDate.Format("2006-01-02"),
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
	}
}

func toAllocationDTO(a *budget.BudgetAllocation) AllocationDTO {
	return AllocationDTO{
		ID:              a.ID,
		BudgetID:        a.BudgetID,
		Target:          string(a.Target),
		Platform:        a.Platform,
		ClientAccountID: a.ClientAccountID,
		CampaignID:      a.CampaignID,
		Amount:          a.Amount,
		Percent:         a.Percent,
		CreatedAt:       a.CreatedAt,
	}
}

func toAlertDTO(a *budget.BudgetAlert) AlertDTO {
	return AlertDTO{
		ID:             a.ID,
		BudgetID:       a.BudgetID,
		Type:           string(a.Type),
		Message:        a.Message,
		Spent:          a.Spent,
		Expected:       a.Expected,
		VariancePct:    a.VariancePct,
		AcknowledgedAt: a.AcknowledgedAt,
		CreatedAt:      a.CreatedAt,
	}
}

func toPacingDTO(budgetID uuid.UUID, p budget.Pacing) PacingDTO {
	return PacingDTO{
		BudgetID:      budgetID,
		Amount:        p.Amount,
		Spent:         p.Spent,
		DaysInPeriod:  p.DaysInPeriod,
		DaysElapsed:   p.DaysElapsed,
		Expected:      p.Expected,
		Variance:      p.Variance,
		VariancePct:   p.VariancePct,
		ForecastTotal: p.ForecastTotal,
		Utilization:   p.Utilization(),
		Status:        string(p.Status),
	}
}
