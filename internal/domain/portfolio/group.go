package portfolio

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
)

// GroupCategory is the dimension an auto-generated group was built from
type GroupCategory string

const (
	GroupCategoryIndustry     GroupCategory = "industry"
	GroupCategoryCompanySize  GroupCategory = "company_size"
	GroupCategoryRevenueRange GroupCategory = "revenue_range"
	GroupCategoryMaturity     GroupCategory = "marketing_maturity"
)

// IsValid checks if the category is a known value
func (g GroupCategory) IsValid() bool {
	switch g {
	case GroupCategoryIndustry, GroupCategoryCompanySize, GroupCategoryRevenueRange, GroupCategoryMaturity:
		return true
	}
	return false
}

// ClientGroup is a named collection of clients within a tenant. Manual groups
// are curated by users; auto-generated groups mirror a categorization value
// (for example all "ecommerce" clients) and are maintained by the system.
type ClientGroup struct {
	shared.TenantAggregateRoot
	Name            string
	Description     string
	IsAutoGenerated bool
	CategoryType    GroupCategory
	CategoryValue   string
	ClientIDs       []uuid.UUID // loaded by the repository
}

// NewClientGroup creates a manually curated group
func NewClientGroup(tenantID uuid.UUID, name, description string) (*ClientGroup, error) {
	if err := validateGroupName(name); err != nil {
		return nil, err
	}
	return &ClientGroup{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Description:         strings.TrimSpace(description),
		ClientIDs:           make([]uuid.UUID, 0),
	}, nil
}

// NewCategoryGroup creates an auto-generated group for a category value
func NewCategoryGroup(tenantID uuid.UUID, category GroupCategory, value, displayName string) (*ClientGroup, error) {
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown group category")
	}
	if strings.TrimSpace(value) == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category value is required")
	}
	if err := validateGroupName(displayName); err != nil {
		return nil, err
	}
	return &ClientGroup{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(displayName),
		IsAutoGenerated:     true,
		CategoryType:        category,
		CategoryValue:       strings.TrimSpace(value),
		ClientIDs:           make([]uuid.UUID, 0),
	}, nil
}

// Rename changes the group name. Auto-generated groups cannot be renamed,
// their name tracks the category value.
func (g *ClientGroup) Rename(name string) error {
	if g.IsAutoGenerated {
		return shared.NewDomainError("AUTO_GROUP_IMMUTABLE", "Auto-generated groups cannot be renamed")
	}
	if err := validateGroupName(name); err != nil {
		return err
	}
	g.Name = strings.TrimSpace(name)
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
	return nil
}

// AddClient adds a client to the group
func (g *ClientGroup) AddClient(clientID uuid.UUID) error {
	for _, id := range g.ClientIDs {
		if id == clientID {
			return shared.NewDomainError("ALREADY_MEMBER", "Client is already in this group")
		}
	}
	g.ClientIDs = append(g.ClientIDs, clientID)
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
	g.AddDomainEvent(NewGroupMemberAddedEvent(g, clientID))
	return nil
}

// RemoveClient removes a client from the group
func (g *ClientGroup) RemoveClient(clientID uuid.UUID) error {
	for i, id := range g.ClientIDs {
		if id == clientID {
			g.ClientIDs = append(g.ClientIDs[:i], g.ClientIDs[i+1:]...)
			g.UpdatedAt = time.Now()
			g.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_MEMBER", "Client is not in this group")
}

// HasClient reports whether a client is a member
func (g *ClientGroup) HasClient(clientID uuid.UUID) bool {
	for _, id := range g.ClientIDs {
		if id == clientID {
			return true
		}
	}
	return false
}

// ClientCount returns the number of member clients
func (g *ClientGroup) ClientCount() int {
	return len(g.ClientIDs)
}

func validateGroupName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Group name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Group name cannot exceed 200 characters")
	}
	return nil
}
