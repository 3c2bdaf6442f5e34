package budget

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BudgetScope says what a budget covers
type BudgetScope string

const (
	ScopeClient BudgetScope = "client"
	ScopeGroup  BudgetScope = "group"
	ScopeTenant BudgetScope = "tenant"
)

// IsValid checks if the scope is a known value
func (s BudgetScope) IsValid() bool {
	switch s {
	case ScopeClient, ScopeGroup, ScopeTenant:
		return true
	}
	return false
}

// BudgetPeriod is the recurrence of a budget
type BudgetPeriod string

const (
	PeriodMonthly   BudgetPeriod = "monthly"
	PeriodQuarterly BudgetPeriod = "quarterly"
	PeriodCustom    BudgetPeriod = "custom"
)

// IsValid checks if the period is a known value
func (p BudgetPeriod) IsValid() bool {
	switch p {
	case PeriodMonthly, PeriodQuarterly, PeriodCustom:
		return true
	}
	return false
}

// Budget is a spend target for a client, a client group, or the whole tenant
// over a date interval. Dates are inclusive on both ends.
type Budget struct {
	shared.TenantAggregateRoot
	Name      string
	Scope     BudgetScope
	ClientID  *uuid.UUID // set when Scope == client
	GroupID   *uuid.UUID // set when Scope == group
	Period    BudgetPeriod
	Amount    decimal.Decimal
	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
}

// NewBudget creates a budget for the given scope and interval
func NewBudget(tenantID uuid.UUID, name string, scope BudgetScope, period BudgetPeriod, amount decimal.Decimal, start, end time.Time) (*Budget, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Budget name is required")
	}
	if !scope.IsValid() {
		return nil, shared.NewDomainError("INVALID_SCOPE", "Unknown budget scope")
	}
	if !period.IsValid() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Unknown budget period")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Budget amount must be positive")
	}
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return nil, shared.NewDomainError("INVALID_INTERVAL", "Budget end date cannot precede start date")
	}
	b := &Budget{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Scope:               scope,
		Period:              period,
		Amount:              amount,
		StartDate:           start,
		EndDate:             end,
		IsActive:            true,
	}
	b.AddDomainEvent(NewBudgetCreatedEvent(b.ID, tenantID, string(scope), amount))
	return b, nil
}

// ForClient binds a client-scoped budget to a client
func (b *Budget) ForClient(clientID uuid.UUID) error {
	if b.Scope != ScopeClient {
		return shared.NewDomainError("INVALID_SCOPE", "Budget is not client-scoped")
	}
	b.ClientID = &clientID
	return nil
}

// ForGroup binds a group-scoped budget to a client group
func (b *Budget) ForGroup(groupID uuid.UUID) error {
	if b.Scope != ScopeGroup {
		return shared.NewDomainError("INVALID_SCOPE", "Budget is not group-scoped")
	}
	b.GroupID = &groupID
	return nil
}

// Update changes the amount and interval
func (b *Budget) Update(name string, amount decimal.Decimal, start, end time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Budget name is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Budget amount must be positive")
	}
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return shared.NewDomainError("INVALID_INTERVAL", "Budget end date cannot precede start date")
	}
	b.Name = name
	b.Amount = amount
	b.StartDate = start
	b.EndDate = end
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Deactivate stops pacing and alerting for the budget
func (b *Budget) Deactivate() {
	if !b.IsActive {
		return
	}
	b.IsActive = false
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// Activate resumes pacing and alerting
func (b *Budget) Activate() {
	if b.IsActive {
		return
	}
	b.IsActive = true
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// DaysInPeriod is the inclusive length of the budget interval
func (b *Budget) DaysInPeriod() int {
	return int(b.EndDate.Sub(b.StartDate).Hours()/24) + 1
}

// DaysElapsed counts complete-or-started days from the start through now,
// clamped to [0, DaysInPeriod].
func (b *Budget) DaysElapsed(now time.Time) int {
	day := truncateDay(now)
	if day.Before(b.StartDate) {
		return 0
	}
	elapsed := int(day.Sub(b.StartDate).Hours()/24) + 1
	if period := b.DaysInPeriod(); elapsed > period {
		return period
	}
	return elapsed
}

// Covers reports whether the given day falls inside the budget interval
func (b *Budget) Covers(day time.Time) bool {
	day = truncateDay(day)
	return !day.Before(b.StartDate) && !day.After(b.EndDate)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
