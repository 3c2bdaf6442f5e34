package portfolio

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
)

// CompetitorStrength is a coarse classification of how serious a competitor is
type CompetitorStrength string

const (
	StrengthWeak     CompetitorStrength = "weak"
	StrengthModerate CompetitorStrength = "moderate"
	StrengthStrong   CompetitorStrength = "strong"
)

// IsValid checks if the strength is a known value
func (s CompetitorStrength) IsValid() bool {
	switch s {
	case StrengthWeak, StrengthModerate, StrengthStrong:
		return true
	}
	return false
}

// Competitor is a competitor tracked against a specific client.
// Names are unique per client.
type Competitor struct {
	shared.TenantAggregateRoot
	ClientID   uuid.UUID
	Name       string
	Website    string
	Strength   CompetitorStrength
	Advantages string
	Notes      string
}

// NewCompetitor creates a competitor record for a client
func NewCompetitor(tenantID, clientID uuid.UUID, name string) (*Competitor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Competitor name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Competitor name cannot exceed 200 characters")
	}
	return &Competitor{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		Name:                name,
	}, nil
}

// Update replaces the editable fields
func (c *Competitor) Update(website string, strength CompetitorStrength, advantages, notes string) error {
	if strength != "" && !strength.IsValid() {
		return shared.NewDomainError("INVALID_STRENGTH", "Unknown competitor strength")
	}
	if len(website) > 500 {
		return shared.NewDomainError("INVALID_WEBSITE", "Website cannot exceed 500 characters")
	}
	c.Website = strings.TrimSpace(website)
	c.Strength = strength
	c.Advantages = strings.TrimSpace(advantages)
	c.Notes = strings.TrimSpace(notes)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}
