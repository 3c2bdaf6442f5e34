package connection

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
)

// ConnectionStatus is the lifecycle state of a platform connection
type ConnectionStatus string

const (
	StatusActive       ConnectionStatus = "active"
	StatusExpired      ConnectionStatus = "expired"
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusError        ConnectionStatus = "error"
)

// IsValid checks if the status is a known value
func (s ConnectionStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusDisconnected, StatusError:
		return true
	}
	return false
}

// tokenRefreshSkew refreshes tokens slightly before their hard expiry so that
// in-flight API calls do not race the cutoff.
const tokenRefreshSkew = 2 * time.Minute

// PlatformConnection is a tenant-level OAuth link to an ad platform account.
// One tenant may hold one connection per platform account email.
type PlatformConnection struct {
	shared.TenantAggregateRoot
	PlatformCode  PlatformCode
	AccountEmail  string
	AccessToken   string
	RefreshToken  string
	TokenExpiry   *time.Time
	Scopes        []string
	Status        ConnectionStatus
	StatusMessage string
	LastSyncedAt  *time.Time
}

// NewPlatformConnection creates an active connection from a completed OAuth
// exchange.
func NewPlatformConnection(tenantID uuid.UUID, code PlatformCode, accountEmail string, token OAuthToken) (*PlatformConnection, error) {
	if !code.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLATFORM", "Unknown platform code")
	}
	accountEmail = strings.ToLower(strings.TrimSpace(accountEmail))
	if accountEmail == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Account email is required")
	}
	if token.AccessToken == "" {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Access token is required")
	}

	conn := &PlatformConnection{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PlatformCode:        code,
		AccountEmail:        accountEmail,
		Status:              StatusActive,
	}
	conn.applyToken(token)
	conn.AddDomainEvent(NewConnectionEstablishedEvent(conn))
	return conn, nil
}

// ApplyToken stores a fresh token set and reactivates the connection
func (c *PlatformConnection) ApplyToken(token OAuthToken) error {
	if token.AccessToken == "" {
		return shared.NewDomainError("INVALID_TOKEN", "Access token is required")
	}
	c.applyToken(token)
	c.Status = StatusActive
	c.StatusMessage = ""
	c.touch()
	return nil
}

func (c *PlatformConnection) applyToken(token OAuthToken) {
	c.AccessToken = token.AccessToken
	// Google only returns a refresh token on the first consent; keep the
	// stored one when the response omits it.
	if token.RefreshToken != "" {
		c.RefreshToken = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		c.TokenExpiry = &expiry
	}
	if len(token.Scopes) > 0 {
		c.Scopes = token.Scopes
	}
}

// NeedsRefresh reports whether the access token is expired or about to expire
func (c *PlatformConnection) NeedsRefresh(now time.Time) bool {
	if c.TokenExpiry == nil {
		return false
	}
	return !now.Add(tokenRefreshSkew).Before(*c.TokenExpiry)
}

// CanSync reports whether the connection is usable for API pulls
func (c *PlatformConnection) CanSync() bool {
	return c.Status == StatusActive && c.RefreshToken != ""
}

// MarkExpired flags the connection as having an expired token
func (c *PlatformConnection) MarkExpired() {
	c.Status = StatusExpired
	c.StatusMessage = "Access token expired and could not be refreshed"
	c.touch()
}

// MarkError records a failure state with a message
func (c *PlatformConnection) MarkError(message string) {
	c.Status = StatusError
	c.StatusMessage = message
	c.touch()
	c.AddDomainEvent(NewConnectionFailedEvent(c, message))
}

// Disconnect drops the tokens and marks the connection disconnected. The row
// is kept so the tenant's account history survives a reconnect.
func (c *PlatformConnection) Disconnect() {
	c.AccessToken = ""
	c.RefreshToken = ""
	c.TokenExpiry = nil
	c.Status = StatusDisconnected
	c.StatusMessage = ""
	c.touch()
	c.AddDomainEvent(NewConnectionDisconnectedEvent(c))
}

// RecordSync stamps a successful data pull
func (c *PlatformConnection) RecordSync(at time.Time) {
	c.LastSyncedAt = &at
	c.touch()
}

func (c *PlatformConnection) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
