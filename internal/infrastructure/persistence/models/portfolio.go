package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	TenantAggregateModel
	Name              string     `gorm:"type:varchar(200);not null;index"`
	Description       string     `gorm:"type:text"`
	Website           string     `gorm:"type:varchar(500)"`
	LogoURL           string     `gorm:"type:varchar(500)"`
	Industry          string     `gorm:"type:varchar(50);index"`
	CompanySize       string     `gorm:"type:varchar(20)"`
	RevenueRange      string     `gorm:"type:varchar(20)"`
	GeographicFocus   string     `gorm:"type:varchar(200)"`
	MarketingMaturity string     `gorm:"type:varchar(20)"`
	BusinessModels    string     `gorm:"type:varchar(200)"` // comma-separated
	IsActive          bool       `gorm:"not null;default:true;index"`
	ArchivedAt        *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *portfolio.Client {
	client := &portfolio.Client{
		Name:              m.Name,
		Description:       m.Description,
		Website:           m.Website,
		LogoURL:           m.LogoURL,
		Industry:          portfolio.Industry(m.Industry),
		CompanySize:       portfolio.CompanySize(m.CompanySize),
		RevenueRange:      portfolio.RevenueRange(m.RevenueRange),
		GeographicFocus:   m.GeographicFocus,
		MarketingMaturity: portfolio.MarketingMaturity(m.MarketingMaturity),
		BusinessModels:    splitBusinessModels(m.BusinessModels),
		IsActive:          m.IsActive,
		ArchivedAt:        m.ArchivedAt,
	}
	m.PopulateTenantAggregateRoot(&client.TenantAggregateRoot)
	return client
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *portfolio.Client) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Description = c.Description
	m.Website = c.Website
	m.LogoURL = c.LogoURL
	m.Industry = string(c.Industry)
	m.CompanySize = string(c.CompanySize)
	m.RevenueRange = string(c.RevenueRange)
	m.GeographicFocus = c.GeographicFocus
	m.MarketingMaturity = string(c.MarketingMaturity)
	m.BusinessModels = joinBusinessModels(c.BusinessModels)
	m.IsActive = c.IsActive
	m.ArchivedAt = c.ArchivedAt
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *portfolio.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

func joinBusinessModels(models []portfolio.BusinessModel) string {
	parts := make([]string, len(models))
	for i, bm := range models {
		parts[i] = string(bm)
	}
	return strings.Join(parts, ",")
}

func splitBusinessModels(raw string) []portfolio.BusinessModel {
	if raw == "" {
		return make([]portfolio.BusinessModel, 0)
	}
	parts := strings.Split(raw, ",")
	models := make([]portfolio.BusinessModel, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			models = append(models, portfolio.BusinessModel(p))
		}
	}
	return models
}

// GroupModel is the persistence model for the ClientGroup domain entity.
// Members live in GroupMemberModel rows.
type GroupModel struct {
	TenantAggregateModel
	Name            string `gorm:"type:varchar(200);not null"`
	Description     string `gorm:"type:text"`
	IsAutoGenerated bool   `gorm:"not null;default:false;index"`
	CategoryType    string `gorm:"type:varchar(50);index"`
	CategoryValue   string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (GroupModel) TableName() string {
	return "client_groups"
}

// ToDomain converts the persistence model to a domain ClientGroup entity.
// ClientIDs are loaded separately by the repository.
func (m *GroupModel) ToDomain() *portfolio.ClientGroup {
	group := &portfolio.ClientGroup{
		Name:            m.Name,
		Description:     m.Description,
		IsAutoGenerated: m.IsAutoGenerated,
		CategoryType:    portfolio.GroupCategory(m.CategoryType),
		CategoryValue:   m.CategoryValue,
		ClientIDs:       make([]uuid.UUID, 0),
	}
	m.PopulateTenantAggregateRoot(&group.TenantAggregateRoot)
	return group
}

// FromDomain populates the persistence model from a domain ClientGroup entity.
func (m *GroupModel) FromDomain(g *portfolio.ClientGroup) {
	m.FromDomainTenantAggregateRoot(g.TenantAggregateRoot)
	m.Name = g.Name
	m.Description = g.Description
	m.IsAutoGenerated = g.IsAutoGenerated
	m.CategoryType = string(g.CategoryType)
	m.CategoryValue = g.CategoryValue
}

// GroupModelFromDomain creates a new persistence model from a domain ClientGroup entity.
func GroupModelFromDomain(g *portfolio.ClientGroup) *GroupModel {
	m := &GroupModel{}
	m.FromDomain(g)
	return m
}

// GroupMemberModel links a client into a group.
type GroupMemberModel struct {
	GroupID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (GroupMemberModel) TableName() string {
	return "client_group_members"
}

// CompetitorModel is the persistence model for the Competitor domain entity.
type CompetitorModel struct {
	TenantAggregateModel
	ClientID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(200);not null"`
	Website    string    `gorm:"type:varchar(500)"`
	Strength   string    `gorm:"type:varchar(20)"`
	Advantages string    `gorm:"type:text"`
	Notes      string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CompetitorModel) TableName() string {
	return "competitors"
}

// ToDomain converts the persistence model to a domain Competitor entity.
func (m *CompetitorModel) ToDomain() *portfolio.Competitor {
	competitor := &portfolio.Competitor{
		ClientID:   m.ClientID,
		Name:       m.Name,
		Website:    m.Website,
		Strength:   portfolio.CompetitorStrength(m.Strength),
		Advantages: m.Advantages,
		Notes:      m.Notes,
	}
	m.PopulateTenantAggregateRoot(&competitor.TenantAggregateRoot)
	return competitor
}

// FromDomain populates the persistence model from a domain Competitor entity.
func (m *CompetitorModel) FromDomain(c *portfolio.Competitor) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.ClientID = c.ClientID
	m.Name = c.Name
	m.Website = c.Website
	m.Strength = string(c.Strength)
	m.Advantages = c.Advantages
	m.Notes = c.Notes
}

// CompetitorModelFromDomain creates a new persistence model from a domain Competitor entity.
func CompetitorModelFromDomain(c *portfolio.Competitor) *CompetitorModel {
	m := &CompetitorModel{}
	m.FromDomain(c)
	return m
}

// GoalModel is the persistence model for per-client performance goals.
type GoalModel struct {
	TenantAggregateModel
	ClientID           uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	CTRTarget          *decimal.Decimal `gorm:"type:decimal(12,4)"`
	ConversionTarget   *decimal.Decimal `gorm:"type:decimal(12,4)"`
	CPCTarget          *decimal.Decimal `gorm:"type:decimal(18,6)"`
	CPATarget          *decimal.Decimal `gorm:"type:decimal(18,6)"`
	UseTenantFallbacks bool             `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (GoalModel) TableName() string {
	return "performance_goals"
}

// ToDomain converts the persistence model to a domain PerformanceGoal entity.
func (m *GoalModel) ToDomain() *portfolio.PerformanceGoal {
	goal := &portfolio.PerformanceGoal{
		ClientID:           m.ClientID,
		CTRTarget:          m.CTRTarget,
		ConversionTarget:   m.ConversionTarget,
		CPCTarget:          m.CPCTarget,
		CPATarget:          m.CPATarget,
		UseTenantFallbacks: m.UseTenantFallbacks,
	}
	m.PopulateTenantAggregateRoot(&goal.TenantAggregateRoot)
	return goal
}

// FromDomain populates the persistence model from a domain PerformanceGoal entity.
func (m *GoalModel) FromDomain(g *portfolio.PerformanceGoal) {
	m.FromDomainTenantAggregateRoot(g.TenantAggregateRoot)
	m.ClientID = g.ClientID
	m.CTRTarget = g.CTRTarget
	m.ConversionTarget = g.ConversionTarget
	m.CPCTarget = g.CPCTarget
	m.CPATarget = g.CPATarget
	m.UseTenantFallbacks = g.UseTenantFallbacks
}

// TenantGoalDefaultsModel is the persistence model for tenant-wide goal defaults.
type TenantGoalDefaultsModel struct {
	AggregateModel
	TenantID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	CTRTarget        *decimal.Decimal `gorm:"type:decimal(12,4)"`
	ConversionTarget *decimal.Decimal `gorm:"type:decimal(12,4)"`
	CPCTarget        *decimal.Decimal `gorm:"type:decimal(18,6)"`
	CPATarget        *decimal.Decimal `gorm:"type:decimal(18,6)"`
}

// TableName returns the table name for GORM
func (TenantGoalDefaultsModel) TableName() string {
	return "tenant_goal_defaults"
}

// ToDomain converts the persistence model to domain TenantGoalDefaults.
func (m *TenantGoalDefaultsModel) ToDomain() *portfolio.TenantGoalDefaults {
	return &portfolio.TenantGoalDefaults{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
			Version:    m.Version,
		},
		TenantID:         m.TenantID,
		CTRTarget:        m.CTRTarget,
		ConversionTarget: m.ConversionTarget,
		CPCTarget:        m.CPCTarget,
		CPATarget:        m.CPATarget,
	}
}

// FromDomain populates the persistence model from domain TenantGoalDefaults.
func (m *TenantGoalDefaultsModel) FromDomain(d *portfolio.TenantGoalDefaults) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.TenantID = d.TenantID
	m.CTRTarget = d.CTRTarget
	m.ConversionTarget = d.ConversionTarget
	m.CPCTarget = d.CPCTarget
	m.CPATarget = d.CPATarget
}
