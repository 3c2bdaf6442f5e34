package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/budget"
	"github.com/shopspring/decimal"
)

// BudgetModel is the persistence model for the Budget domain entity.
type BudgetModel struct {
	TenantAggregateModel
	Name      string          `gorm:"type:varchar(200);not null"`
	Scope     string          `gorm:"type:varchar(20);not null;index"`
	ClientID  *uuid.UUID      `gorm:"type:uuid;index"`
	GroupID   *uuid.UUID      `gorm:"type:uuid;index"`
	Period    string          `gorm:"type:varchar(20);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	StartDate time.Time       `gorm:"type:date;not null"`
	EndDate   time.Time       `gorm:"type:date;not null"`
	IsActive  bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToDomain converts the persistence model to a domain Budget entity.
func (m *BudgetModel) ToDomain() *budget.Budget {
	b := &budget.Budget{
		Name:      m.Name,
		Scope:     budget.BudgetScope(m.Scope),
		ClientID:  m.ClientID,
		GroupID:   m.GroupID,
		Period:    budget.BudgetPeriod(m.Period),
		Amount:    m.Amount,
		StartDate: m.StartDate.UTC(),
		EndDate:   m.EndDate.UTC(),
		IsActive:  m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&b.TenantAggregateRoot)
	return b
}

// FromDomain populates the persistence model from a domain Budget entity.
func (m *BudgetModel) FromDomain(b *budget.Budget) {
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	m.Name = b.Name
	m.Scope = string(b.Scope)
	m.ClientID = b.ClientID
	m.GroupID = b.GroupID
	m.Period = string(b.Period)
	m.Amount = b.Amount
	m.StartDate = b.StartDate
	m.EndDate = b.EndDate
	m.IsActive = b.IsActive
}

// BudgetModelFromDomain creates a new persistence model from a domain Budget.
func BudgetModelFromDomain(b *budget.Budget) *BudgetModel {
	m := &BudgetModel{}
	m.FromDomain(b)
	return m
}

// BudgetAllocationModel is the persistence model for budget allocations.
type BudgetAllocationModel struct {
	TenantAggregateModel
	BudgetID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	Target          string           `gorm:"type:varchar(20);not null"`
	Platform        string           `gorm:"type:varchar(50)"`
	ClientAccountID *uuid.UUID       `gorm:"type:uuid;index"`
	CampaignID      *uuid.UUID       `gorm:"type:uuid;index"`
	Amount          decimal.Decimal  `gorm:"type:decimal(18,6);not null"`
	Percent         *decimal.Decimal `gorm:"type:decimal(7,4)"`
}

// TableName returns the table name for GORM
func (BudgetAllocationModel) TableName() string {
	return "budget_allocations"
}

// ToDomain converts the persistence model to a domain BudgetAllocation entity.
func (m *BudgetAllocationModel) ToDomain() *budget.BudgetAllocation {
	a := &budget.BudgetAllocation{
		BudgetID:        m.BudgetID,
		Target:          budget.AllocationTarget(m.Target),
		Platform:        m.Platform,
		ClientAccountID: m.ClientAccountID,
		CampaignID:      m.CampaignID,
		Amount:          m.Amount,
		Percent:         m.Percent,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain BudgetAllocation entity.
func (m *BudgetAllocationModel) FromDomain(a *budget.BudgetAllocation) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.BudgetID = a.BudgetID
	m.Target = string(a.Target)
	m.Platform = a.Platform
	m.ClientAccountID = a.ClientAccountID
	m.CampaignID = a.CampaignID
	m.Amount = a.Amount
	m.Percent = a.Percent
}

// BudgetAlertModel is the persistence model for budget alerts.
type BudgetAlertModel struct {
	TenantAggregateModel
	BudgetID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type           string          `gorm:"type:varchar(20);not null;index"`
	Message        string          `gorm:"type:text"`
	Spent          decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	Expected       decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	VariancePct    decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	AcknowledgedAt *time.Time      `gorm:"index"`
}

// TableName returns the table name for GORM
func (BudgetAlertModel) TableName() string {
	return "budget_alerts"
}

// ToDomain converts the persistence model to a domain BudgetAlert entity.
func (m *BudgetAlertModel) ToDomain() *budget.BudgetAlert {
	alert := &budget.BudgetAlert{
		BudgetID:       m.BudgetID,
		Type:           budget.AlertType(m.Type),
		Message:        m.Message,
		Spent:          m.Spent,
		Expected:       m.Expected,
		VariancePct:    m.VariancePct,
		AcknowledgedAt: m.AcknowledgedAt,
	}
	m.PopulateTenantAggregateRoot(&alert.TenantAggregateRoot)
	return alert
}

// FromDomain populates the persistence model from a domain BudgetAlert entity.
func (m *BudgetAlertModel) FromDomain(a *budget.BudgetAlert) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.BudgetID = a.BudgetID
	m.Type = string(a.Type)
	m.Message = a.Message
	m.Spent = a.Spent
	m.Expected = a.Expected
	m.VariancePct = a.VariancePct
	m.AcknowledgedAt = a.AcknowledgedAt
}

// SpendSnapshotModel is the persistence model for daily pacing snapshots.
type SpendSnapshotModel struct {
	TenantAggregateModel
	BudgetID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_spend_snapshots_budget_date,priority:1"`
	Date        time.Time       `gorm:"type:date;not null;uniqueIndex:idx_spend_snapshots_budget_date,priority:2"`
	Spent       decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	Expected    decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	Variance    decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	VariancePct decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	Status      string          `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (SpendSnapshotModel) TableName() string {
	return "budget_spend_snapshots"
}

// ToDomain converts the persistence model to a domain SpendSnapshot entity.
func (m *SpendSnapshotModel) ToDomain() *budget.SpendSnapshot {
	snapshot := &budget.SpendSnapshot{
		BudgetID:    m.BudgetID,
		Date:        m.Date.UTC(),
		Spent:       m.Spent,
		Expected:    m.Expected,
		Variance:    m.Variance,
		VariancePct: m.VariancePct,
		Status:      budget.PacingStatus(m.Status),
	}
	m.PopulateTenantAggregateRoot(&snapshot.TenantAggregateRoot)
	return snapshot
}

// FromDomain populates the persistence model from a domain SpendSnapshot entity.
func (m *SpendSnapshotModel) FromDomain(s *budget.SpendSnapshot) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.BudgetID = s.BudgetID
	m.Date = s.Date
	m.Spent = s.Spent
	m.Expected = s.Expected
	m.Variance = s.Variance
	m.VariancePct = s.VariancePct
	m.Status = string(s.Status)
}
