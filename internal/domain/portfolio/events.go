package portfolio

import (
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeClient      = "Client"
	AggregateTypeClientGroup = "ClientGroup"
)

// Event type constants
const (
	EventTypeClientCreated      = "ClientCreated"
	EventTypeClientArchived     = "ClientArchived"
	EventTypeClientRestored     = "ClientRestored"
	EventTypeGroupMemberAdded   = "ClientGroupMemberAdded"
	EventTypeGroupMemberRemoved = "ClientGroupMemberRemoved"
)

// ClientCreatedEvent is published when a new client is created
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(c *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientCreated, AggregateTypeClient, c.ID, c.TenantID),
		Name:            c.Name,
	}
}

// ClientArchivedEvent is published when a client is archived
type ClientArchivedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewClientArchivedEvent creates a new ClientArchivedEvent
func NewClientArchivedEvent(c *Client) *ClientArchivedEvent {
	return &ClientArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientArchived, AggregateTypeClient, c.ID, c.TenantID),
		Name:            c.Name,
	}
}

// ClientRestoredEvent is published when an archived client is restored
type ClientRestoredEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewClientRestoredEvent creates a new ClientRestoredEvent
func NewClientRestoredEvent(c *Client) *ClientRestoredEvent {
	return &ClientRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientRestored, AggregateTypeClient, c.ID, c.TenantID),
		Name:            c.Name,
	}
}

// GroupMemberAddedEvent is published when a client joins a group
type GroupMemberAddedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
}

// NewGroupMemberAddedEvent creates a new GroupMemberAddedEvent
func NewGroupMemberAddedEvent(g *ClientGroup, clientID uuid.UUID) *GroupMemberAddedEvent {
	return &GroupMemberAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGroupMemberAdded, AggregateTypeClientGroup, g.ID, g.TenantID),
		ClientID:        clientID,
	}
}
