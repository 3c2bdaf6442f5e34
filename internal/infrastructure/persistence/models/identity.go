package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/identity"
	"github.com/pulse/backend/internal/domain/shared"
)

// UserModel is the persistence model for the User domain entity.
// Users are global; tenant access lives in memberships.
type UserModel struct {
	AggregateModel
	Email        string     `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	DisplayName  string     `gorm:"type:varchar(200)"`
	IsActive     bool       `gorm:"not null;default:true"`
	LastLoginAt  *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
			Version:    m.Version,
		},
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		DisplayName:  m.DisplayName,
		IsActive:     m.IsActive,
		LastLoginAt:  m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.IsActive = u.IsActive
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// TenantModel is the persistence model for the Tenant domain entity.
type TenantModel struct {
	AggregateModel
	Name       string     `gorm:"type:varchar(200);not null"`
	Slug       string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	LogoURL    string     `gorm:"type:varchar(500)"`
	IsActive   bool       `gorm:"not null;default:true"`
	ArchivedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant entity.
func (m *TenantModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
			Version:    m.Version,
		},
		Name:       m.Name,
		Slug:       m.Slug,
		LogoURL:    m.LogoURL,
		IsActive:   m.IsActive,
		ArchivedAt: m.ArchivedAt,
	}
}

// FromDomain populates the persistence model from a domain Tenant entity.
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Name = t.Name
	m.Slug = t.Slug
	m.LogoURL = t.LogoURL
	m.IsActive = t.IsActive
	m.ArchivedAt = t.ArchivedAt
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant entity.
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}

// MembershipModel is the persistence model for tenant memberships.
type MembershipModel struct {
	UserID    uuid.UUID           `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID           `gorm:"type:uuid;primaryKey;index"`
	Role      identity.MemberRole `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MembershipModel) TableName() string {
	return "tenant_memberships"
}

// ToDomain converts the persistence model to a domain TenantMembership.
func (m *MembershipModel) ToDomain() identity.TenantMembership {
	return identity.TenantMembership{
		UserID:    m.UserID,
		TenantID:  m.TenantID,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain TenantMembership.
func (m *MembershipModel) FromDomain(ms identity.TenantMembership) {
	m.UserID = ms.UserID
	m.TenantID = ms.TenantID
	m.Role = ms.Role
	m.CreatedAt = ms.CreatedAt
}
