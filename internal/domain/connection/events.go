package connection

import (
	"github.com/pulse/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeConnection = "PlatformConnection"

// Event type constants
const (
	EventTypeConnectionEstablished  = "ConnectionEstablished"
	EventTypeConnectionDisconnected = "ConnectionDisconnected"
	EventTypeConnectionFailed       = "ConnectionFailed"
)

// ConnectionEstablishedEvent is published when an OAuth link is completed
type ConnectionEstablishedEvent struct {
	shared.BaseDomainEvent
	Platform     PlatformCode `json:"platform"`
	AccountEmail string       `json:"account_email"`
}

// NewConnectionEstablishedEvent creates a new ConnectionEstablishedEvent
func NewConnectionEstablishedEvent(c *PlatformConnection) *ConnectionEstablishedEvent {
	return &ConnectionEstablishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConnectionEstablished, AggregateTypeConnection, c.ID, c.TenantID),
		Platform:        c.PlatformCode,
		AccountEmail:    c.AccountEmail,
	}
}

// ConnectionDisconnectedEvent is published when a connection is dropped
type ConnectionDisconnectedEvent struct {
	shared.BaseDomainEvent
	Platform PlatformCode `json:"platform"`
}

// NewConnectionDisconnectedEvent creates a new ConnectionDisconnectedEvent
func NewConnectionDisconnectedEvent(c *PlatformConnection) *ConnectionDisconnectedEvent {
	return &ConnectionDisconnectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConnectionDisconnected, AggregateTypeConnection, c.ID, c.TenantID),
		Platform:        c.PlatformCode,
	}
}

// ConnectionFailedEvent is published when a connection enters the error state
type ConnectionFailedEvent struct {
	shared.BaseDomainEvent
	Platform PlatformCode `json:"platform"`
	Reason   string       `json:"reason"`
}

// NewConnectionFailedEvent creates a new ConnectionFailedEvent
func NewConnectionFailedEvent(c *PlatformConnection, reason string) *ConnectionFailedEvent {
	return &ConnectionFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConnectionFailed, AggregateTypeConnection, c.ID, c.TenantID),
		Platform:        c.PlatformCode,
		Reason:          reason,
	}
}
