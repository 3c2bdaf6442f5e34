package identity

import (
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeUser = "User"

// Event type constants
const (
	EventTypeUserRegistered = "UserRegistered"
	EventTypeMemberAdded    = "TenantMemberAdded"
	EventTypeMemberRemoved  = "TenantMemberRemoved"
)

// UserRegisteredEvent is published when a new user registers
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID, uuid.Nil),
		Email:           user.Email,
	}
}

// MemberAddedEvent is published when a user is added to a tenant
type MemberAddedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID  `json:"user_id"`
	Role   MemberRole `json:"role"`
}

// NewMemberAddedEvent creates a new MemberAddedEvent
func NewMemberAddedEvent(m *TenantMembership) *MemberAddedEvent {
	return &MemberAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMemberAdded, AggregateTypeTenant, m.TenantID, m.TenantID),
		UserID:          m.UserID,
		Role:            m.Role,
	}
}
