package connection

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StateStore persists OAuth CSRF state between the authorize redirect and the
// callback. Implementations live in infrastructure (Redis).
type StateStore interface {
	// Put stores state payload under the state token with a TTL
	Put(ctx context.Context, state string, payload StatePayload, ttl time.Duration) error
	// Take retrieves and deletes the payload; a state can be consumed once
	Take(ctx context.Context, state string) (*StatePayload, error)
}

// StatePayload binds an OAuth state token to the tenant and user that started
// the flow
type StatePayload struct {
	TenantID uuid.UUID `json:"tenant_id"`
	UserID   uuid.UUID `json:"user_id"`
	Platform string    `json:"platform"`
}

// ConnectionDTO represents a platform connection in responses. Tokens are
// never exposed.
type ConnectionDTO struct {
	ID            uuid.UUID  `json:"id"`
	Platform      string     `json:"platform"`
	AccountEmail  string     `json:"account_email"`
	Status        string     `json:"status"`
	StatusMessage string     `json:"status_message,omitempty"`
	TokenExpiry   *time.Time `json:"token_expiry,omitempty"`
	LastSyncedAt  *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// AuthorizeResult carries the consent URL the frontend redirects to
type AuthorizeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
}

// CallbackInput contains the OAuth callback parameters
type CallbackInput struct {
	State string
	Code  string
}

// PlatformTypeDTO represents a supported platform in responses
type PlatformTypeDTO struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	IsAvailable bool   `json:"is_available"`
}

// AdsAccountDTO represents a discovered ad account in responses
type AdsAccountDTO struct {
	ID           uuid.UUID `json:"id"`
	CustomerID   string    `json:"customer_id"`
	Name         string    `json:"name"`
	IsManager    bool      `json:"is_manager"`
	CurrencyCode string    `json:"currency_code,omitempty"`
	Timezone     string    `json:"timezone,omitempty"`
	ParentID     string    `json:"parent_id,omitempty"`
	Level        int       `json:"level"`
	Status       string    `json:"status"`
	LastSeenAt   time.Time `json:"last_seen_at"`
}

// AccountSyncDTO represents one discovery run in responses
type AccountSyncDTO struct {
	ID                  uuid.UUID  `json:"id"`
	ConnectionID        uuid.UUID  `json:"connection_id"`
	Status              string     `json:"status"`
	AccountsFound       int        `json:"accounts_found"`
	AccountsAdded       int        `json:"accounts_added"`
	AccountsUpdated     int        `json:"accounts_updated"`
	AccountsDeactivated int        `json:"accounts_deactivated"`
	ErrorMessage        string     `json:"error_message,omitempty"`
	StartedAt           time.Time  `json:"started_at"`
	FinishedAt          *time.Time `json:"finished_at,omitempty"`
}

// ClientAccountDTO represents a client-to-account link in responses
type ClientAccountDTO struct {
	ID                  uuid.UUID  `json:"id"`
	ClientID            uuid.UUID  `json:"client_id"`
	ConnectionID        uuid.UUID  `json:"connection_id"`
	CustomerID          string     `json:"customer_id"`
	FormattedCustomerID string     `json:"formatted_customer_id"`
	AccountName         string     `json:"account_name"`
	IsActive            bool       `json:"is_active"`
	DeactivatedAt       *time.Time `json:"deactivated_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// LinkAccountInput contains input for linking a client to an ad account
type LinkAccountInput struct {
	TenantID     uuid.UUID
	ClientID     uuid.UUID
	ConnectionID uuid.UUID
	CustomerID   string
	AccountName  string
}
