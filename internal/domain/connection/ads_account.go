package connection

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
)

// AccountStatus is the cached state of a discovered ad account
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive" // no longer visible in discovery
)

// AdsAccount is a cached row of the Google Ads account hierarchy discovered
// through a platform connection. The cache avoids walking the hierarchy on
// every page load; a discovery run refreshes it.
type AdsAccount struct {
	shared.TenantAggregateRoot
	ConnectionID uuid.UUID
	CustomerID   string // normalized, no hyphens
	Name         string
	IsManager    bool
	CurrencyCode string
	Timezone     string
	ParentID     string // normalized id of the managing account, empty for roots
	Level        int
	Status       AccountStatus
	LastSeenAt   time.Time
}

// NewAdsAccount caches a discovered account
func NewAdsAccount(tenantID, connectionID uuid.UUID, info AccountInfo) (*AdsAccount, error) {
	customerID := NormalizeCustomerID(info.CustomerID)
	if customerID == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_ID", "Customer id is required")
	}
	return &AdsAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ConnectionID:        connectionID,
		CustomerID:          customerID,
		Name:                info.Name,
		IsManager:           info.IsManager,
		CurrencyCode:        info.CurrencyCode,
		Timezone:            info.Timezone,
		ParentID:            NormalizeCustomerID(info.ParentID),
		Level:               info.Level,
		Status:              AccountStatusActive,
		LastSeenAt:          time.Now(),
	}, nil
}

// Refresh updates the cached metadata from a new discovery pass
func (a *AdsAccount) Refresh(info AccountInfo, seenAt time.Time) {
	a.Name = info.Name
	a.IsManager = info.IsManager
	a.CurrencyCode = info.CurrencyCode
	a.Timezone = info.Timezone
	a.ParentID = NormalizeCustomerID(info.ParentID)
	a.Level = info.Level
	a.Status = AccountStatusActive
	a.LastSeenAt = seenAt
	a.UpdatedAt = seenAt
	a.IncrementVersion()
}

// MarkInactive flags an account that stopped appearing in discovery
func (a *AdsAccount) MarkInactive() {
	a.Status = AccountStatusInactive
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// FormattedCustomerID returns the customer id with display hyphens
func (a *AdsAccount) FormattedCustomerID() string {
	return FormatCustomerID(a.CustomerID)
}

// CanServeMetrics reports whether metrics can be queried for this account.
// Manager accounts aggregate children and cannot be queried directly.
func (a *AdsAccount) CanServeMetrics() bool {
	return !a.IsManager && a.Status == AccountStatusActive
}

// SyncStatus is the state of one account discovery run
type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusPartial   SyncStatus = "partial"
	SyncStatusFailed    SyncStatus = "failed"
)

// AccountSync is the audit record of one hierarchy discovery run
type AccountSync struct {
	shared.TenantAggregateRoot
	ConnectionID        uuid.UUID
	Status              SyncStatus
	AccountsFound       int
	AccountsAdded       int
	AccountsUpdated     int
	AccountsDeactivated int
	ErrorMessage        string
	StartedAt           time.Time
	CompletedAt         *time.Time
}

// NewAccountSync starts a discovery audit record
func NewAccountSync(tenantID, connectionID uuid.UUID) *AccountSync {
	return &AccountSync{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ConnectionID:        connectionID,
		Status:              SyncStatusRunning,
		StartedAt:           time.Now(),
	}
}

// Complete finishes the run with counters
func (s *AccountSync) Complete(found, added, updated, deactivated int, partial bool) {
	now := time.Now()
	s.AccountsFound = found
	s.AccountsAdded = added
	s.AccountsUpdated = updated
	s.AccountsDeactivated = deactivated
	s.Status = SyncStatusCompleted
	if partial {
		s.Status = SyncStatusPartial
	}
	s.CompletedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()
}

// Fail finishes the run with an error
func (s *AccountSync) Fail(message string) {
	now := time.Now()
	s.Status = SyncStatusFailed
	s.ErrorMessage = message
	s.CompletedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()
}

// Duration returns how long the run took, zero while still running
func (s *AccountSync) Duration() time.Duration {
	if s.CompletedAt == nil {
		return 0
	}
	return s.CompletedAt.Sub(s.StartedAt)
}
