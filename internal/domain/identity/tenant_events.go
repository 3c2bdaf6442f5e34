package identity

import (
	"github.com/pulse/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTenant = "Tenant"

// Event type constants
const (
	EventTypeTenantCreated  = "TenantCreated"
	EventTypeTenantUpdated  = "TenantUpdated"
	EventTypeTenantArchived = "TenantArchived"
	EventTypeTenantRestored = "TenantRestored"
)

// TenantCreatedEvent is published when a new tenant is created
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(tenant *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, AggregateTypeTenant, tenant.ID, tenant.ID),
		Name:            tenant.Name,
		Slug:            tenant.Slug,
	}
}

// TenantUpdatedEvent is published when a tenant is updated
type TenantUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewTenantUpdatedEvent creates a new TenantUpdatedEvent
func NewTenantUpdatedEvent(tenant *Tenant) *TenantUpdatedEvent {
	return &TenantUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantUpdated, AggregateTypeTenant, tenant.ID, tenant.ID),
		Name:            tenant.Name,
	}
}

// TenantArchivedEvent is published when a tenant is archived
type TenantArchivedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewTenantArchivedEvent creates a new TenantArchivedEvent
func NewTenantArchivedEvent(tenant *Tenant) *TenantArchivedEvent {
	return &TenantArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantArchived, AggregateTypeTenant, tenant.ID, tenant.ID),
		Name:            tenant.Name,
	}
}

// TenantRestoredEvent is published when an archived tenant is restored
type TenantRestoredEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewTenantRestoredEvent creates a new TenantRestoredEvent
func NewTenantRestoredEvent(tenant *Tenant) *TenantRestoredEvent {
	return &TenantRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantRestored, AggregateTypeTenant, tenant.ID, tenant.ID),
		Name:            tenant.Name,
	}
}
