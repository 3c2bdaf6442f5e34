package ads

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CampaignTag is a tenant-scoped label attachable to campaigns.
// Names are unique per tenant.
type CampaignTag struct {
	shared.TenantAggregateRoot
	Name  string
	Color string // hex, e.g. #1a73e8
}

// TagAssignment links a tag to a campaign
type TagAssignment struct {
	TagID      uuid.UUID
	CampaignID uuid.UUID
	TenantID   uuid.UUID
	CreatedAt  time.Time
}

// NewCampaignTag creates a tag
func NewCampaignTag(tenantID uuid.UUID, name, color string) (*CampaignTag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tag name is required")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Tag name cannot exceed 100 characters")
	}
	if color != "" && !colorPattern.MatchString(color) {
		return nil, shared.NewDomainError("INVALID_COLOR", "Tag color must be a #rrggbb hex value")
	}
	return &CampaignTag{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Color:               strings.ToLower(color),
	}, nil
}

// Rename changes the tag name
func (t *CampaignTag) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Tag name must be 1-100 characters")
	}
	t.Name = name
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Recolor changes the tag color
func (t *CampaignTag) Recolor(color string) error {
	if color != "" && !colorPattern.MatchString(color) {
		return shared.NewDomainError("INVALID_COLOR", "Tag color must be a #rrggbb hex value")
	}
	t.Color = strings.ToLower(color)
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// NewTagAssignment attaches a tag to a campaign
func NewTagAssignment(tenantID, tagID, campaignID uuid.UUID) *TagAssignment {
	return &TagAssignment{
		TagID:      tagID,
		CampaignID: campaignID,
		TenantID:   tenantID,
		CreatedAt:  time.Now(),
	}
}
