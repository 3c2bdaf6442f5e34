package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/shared"
)

// PlatformTypeModel is the persistence model for the platform catalog.
type PlatformTypeModel struct {
	AggregateModel
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	OAuthScopes string `gorm:"type:text"` // space-separated
	IsAvailable bool   `gorm:"not null;default:false"`
	Position    int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PlatformTypeModel) TableName() string {
	return "platform_types"
}

// ToDomain converts the persistence model to a domain PlatformType entity.
func (m *PlatformTypeModel) ToDomain() *connection.PlatformType {
	return &connection.PlatformType{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
			Version:    m.Version,
		},
		Code:        connection.PlatformCode(m.Code),
		Name:        m.Name,
		Description: m.Description,
		OAuthScopes: splitScopes(m.OAuthScopes),
		IsAvailable: m.IsAvailable,
		Position:    m.Position,
	}
}

// FromDomain populates the persistence model from a domain PlatformType entity.
func (m *PlatformTypeModel) FromDomain(p *connection.PlatformType) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Code = string(p.Code)
	m.Name = p.Name
	m.Description = p.Description
	m.OAuthScopes = strings.Join(p.OAuthScopes, " ")
	m.IsAvailable = p.IsAvailable
	m.Position = p.Position
}

func splitScopes(raw string) []string {
	if raw == "" {
		return make([]string, 0)
	}
	return strings.Fields(raw)
}

// ConnectionModel is the persistence model for platform connections.
// Token columns hold secrets; they never leave the repository layer in DTOs.
type ConnectionModel struct {
	TenantAggregateModel
	PlatformCode  string     `gorm:"type:varchar(50);not null;index"`
	AccountEmail  string     `gorm:"type:varchar(254);not null;index"`
	AccessToken   string     `gorm:"type:text"`
	RefreshToken  string     `gorm:"type:text"`
	TokenExpiry   *time.Time
	Scopes        string     `gorm:"type:text"` // space-separated
	Status        string     `gorm:"type:varchar(20);not null;default:'active';index"`
	StatusMessage string     `gorm:"type:text"`
	LastSyncedAt  *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (ConnectionModel) TableName() string {
	return "platform_connections"
}

// ToDomain converts the persistence model to a domain PlatformConnection entity.
func (m *ConnectionModel) ToDomain() *connection.PlatformConnection {
	conn := &connection.PlatformConnection{
		PlatformCode:  connection.PlatformCode(m.PlatformCode),
		AccountEmail:  m.AccountEmail,
		AccessToken:   m.AccessToken,
		RefreshToken:  m.RefreshToken,
		TokenExpiry:   m.TokenExpiry,
		Scopes:        splitScopes(m.Scopes),
		Status:        connection.ConnectionStatus(m.Status),
		StatusMessage: m.StatusMessage,
		LastSyncedAt:  m.LastSyncedAt,
	}
	m.PopulateTenantAggregateRoot(&conn.TenantAggregateRoot)
	return conn
}

// FromDomain populates the persistence model from a domain PlatformConnection entity.
func (m *ConnectionModel) FromDomain(c *connection.PlatformConnection) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.PlatformCode = string(c.PlatformCode)
	m.AccountEmail = c.AccountEmail
	m.AccessToken = c.AccessToken
	m.RefreshToken = c.RefreshToken
	m.TokenExpiry = c.TokenExpiry
	m.Scopes = strings.Join(c.Scopes, " ")
	m.Status = string(c.Status)
	m.StatusMessage = c.StatusMessage
	m.LastSyncedAt = c.LastSyncedAt
}

// ConnectionModelFromDomain creates a new persistence model from a domain PlatformConnection.
func ConnectionModelFromDomain(c *connection.PlatformConnection) *ConnectionModel {
	m := &ConnectionModel{}
	m.FromDomain(c)
	return m
}

// AdsAccountModel is the persistence model for the discovered account cache.
type AdsAccountModel struct {
	TenantAggregateModel
	ConnectionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ads_accounts_conn_customer,priority:1"`
	CustomerID   string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_ads_accounts_conn_customer,priority:2"`
	Name         string    `gorm:"type:varchar(200)"`
	IsManager    bool      `gorm:"not null;default:false"`
	CurrencyCode string    `gorm:"type:varchar(10)"`
	Timezone     string    `gorm:"type:varchar(50)"`
	ParentID     string    `gorm:"type:varchar(20);index"`
	Level        int       `gorm:"not null;default:0"`
	Status       string    `gorm:"type:varchar(20);not null;default:'active';index"`
	LastSeenAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AdsAccountModel) TableName() string {
	return "ads_accounts"
}

// ToDomain converts the persistence model to a domain AdsAccount entity.
func (m *AdsAccountModel) ToDomain() *connection.AdsAccount {
	account := &connection.AdsAccount{
		ConnectionID: m.ConnectionID,
		CustomerID:   m.CustomerID,
		Name:         m.Name,
		IsManager:    m.IsManager,
		CurrencyCode: m.CurrencyCode,
		Timezone:     m.Timezone,
		ParentID:     m.ParentID,
		Level:        m.Level,
		Status:       connection.AccountStatus(m.Status),
		LastSeenAt:   m.LastSeenAt,
	}
	m.PopulateTenantAggregateRoot(&account.TenantAggregateRoot)
	return account
}

// FromDomain populates the persistence model from a domain AdsAccount entity.
func (m *AdsAccountModel) FromDomain(a *connection.AdsAccount) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.ConnectionID = a.ConnectionID
	m.CustomerID = a.CustomerID
	m.Name = a.Name
	m.IsManager = a.IsManager
	m.CurrencyCode = a.CurrencyCode
	m.Timezone = a.Timezone
	m.ParentID = a.ParentID
	m.Level = a.Level
	m.Status = string(a.Status)
	m.LastSeenAt = a.LastSeenAt
}

// AdsAccountModelFromDomain creates a new persistence model from a domain AdsAccount.
func AdsAccountModelFromDomain(a *connection.AdsAccount) *AdsAccountModel {
	m := &AdsAccountModel{}
	m.FromDomain(a)
	return m
}

// AccountSyncModel is the persistence model for discovery audit rows.
type AccountSyncModel struct {
	TenantAggregateModel
	ConnectionID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Status              string    `gorm:"type:varchar(20);not null;index"`
	AccountsFound       int       `gorm:"not null;default:0"`
	AccountsAdded       int       `gorm:"not null;default:0"`
	AccountsUpdated     int       `gorm:"not null;default:0"`
	AccountsDeactivated int       `gorm:"not null;default:0"`
	ErrorMessage        string    `gorm:"type:text"`
	StartedAt           time.Time `gorm:"not null;index"`
	CompletedAt         *time.Time
}

// TableName returns the table name for GORM
func (AccountSyncModel) TableName() string {
	return "account_syncs"
}

// ToDomain converts the persistence model to a domain AccountSync entity.
func (m *AccountSyncModel) ToDomain() *connection.AccountSync {
	sync := &connection.AccountSync{
		ConnectionID:        m.ConnectionID,
		Status:              connection.SyncStatus(m.Status),
		AccountsFound:       m.AccountsFound,
		AccountsAdded:       m.AccountsAdded,
		AccountsUpdated:     m.AccountsUpdated,
		AccountsDeactivated: m.AccountsDeactivated,
		ErrorMessage:        m.ErrorMessage,
		StartedAt:           m.StartedAt,
		CompletedAt:         m.CompletedAt,
	}
	m.PopulateTenantAggregateRoot(&sync.TenantAggregateRoot)
	return sync
}

// FromDomain populates the persistence model from a domain AccountSync entity.
func (m *AccountSyncModel) FromDomain(s *connection.AccountSync) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.ConnectionID = s.ConnectionID
	m.Status = string(s.Status)
	m.AccountsFound = s.AccountsFound
	m.AccountsAdded = s.AccountsAdded
	m.AccountsUpdated = s.AccountsUpdated
	m.AccountsDeactivated = s.AccountsDeactivated
	m.ErrorMessage = s.ErrorMessage
	m.StartedAt = s.StartedAt
	m.CompletedAt = s.CompletedAt
}

// ClientAccountModel is the persistence model for client-to-account links.
type ClientAccountModel struct {
	TenantAggregateModel
	ClientID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_client_accounts_link,priority:1"`
	ConnectionID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_client_accounts_link,priority:2"`
	CustomerID    string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_client_accounts_link,priority:3"`
	AccountName   string    `gorm:"type:varchar(200)"`
	IsActive      bool      `gorm:"not null;default:true;index"`
	DeactivatedAt *time.Time
}

// TableName returns the table name for GORM
func (ClientAccountModel) TableName() string {
	return "client_accounts"
}

// ToDomain converts the persistence model to a domain ClientAccount entity.
func (m *ClientAccountModel) ToDomain() *connection.ClientAccount {
	account := &connection.ClientAccount{
		ClientID:      m.ClientID,
		ConnectionID:  m.ConnectionID,
		CustomerID:    m.CustomerID,
		AccountName:   m.AccountName,
		IsActive:      m.IsActive,
		DeactivatedAt: m.DeactivatedAt,
	}
	m.PopulateTenantAggregateRoot(&account.TenantAggregateRoot)
	return account
}

// FromDomain populates the persistence model from a domain ClientAccount entity.
func (m *ClientAccountModel) FromDomain(a *connection.ClientAccount) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.ClientID = a.ClientID
	m.ConnectionID = a.ConnectionID
	m.CustomerID = a.CustomerID
	m.AccountName = a.AccountName
	m.IsActive = a.IsActive
	m.DeactivatedAt = a.DeactivatedAt
}
