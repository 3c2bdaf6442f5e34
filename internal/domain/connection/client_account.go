package connection

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
)

// ClientAccount links a client (brand) to one ad account reachable through a
// tenant-level platform connection. Unique per (client, connection, customer).
type ClientAccount struct {
	shared.TenantAggregateRoot
	ClientID      uuid.UUID
	ConnectionID  uuid.UUID
	CustomerID    string // normalized platform customer id
	AccountName   string
	IsActive      bool
	DeactivatedAt *time.Time
}

// NewClientAccount associates an ad account with a client
func NewClientAccount(tenantID, clientID, connectionID uuid.UUID, customerID, accountName string) (*ClientAccount, error) {
	customerID = NormalizeCustomerID(customerID)
	if customerID == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_ID", "Customer id is required")
	}
	return &ClientAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		ConnectionID:        connectionID,
		CustomerID:          customerID,
		AccountName:         strings.TrimSpace(accountName),
		IsActive:            true,
	}, nil
}

// Deactivate detaches the account from reporting without losing history
func (a *ClientAccount) Deactivate() error {
	if !a.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Account link is already inactive")
	}
	now := time.Now()
	a.IsActive = false
	a.DeactivatedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()
	return nil
}

// Reactivate re-enables a previously removed account link
func (a *ClientAccount) Reactivate() error {
	if a.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Account link is already active")
	}
	a.IsActive = true
	a.DeactivatedAt = nil
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// FormattedCustomerID returns the customer id with display hyphens
func (a *ClientAccount) FormattedCustomerID() string {
	return FormatCustomerID(a.CustomerID)
}
