package ads

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CampaignStatus mirrors the platform campaign status
type CampaignStatus string

const (
	CampaignStatusEnabled CampaignStatus = "ENABLED"
	CampaignStatusPaused  CampaignStatus = "PAUSED"
	CampaignStatusRemoved CampaignStatus = "REMOVED"
	CampaignStatusUnknown CampaignStatus = "UNKNOWN"
)

// ParseCampaignStatus maps a raw platform status onto the known set
func ParseCampaignStatus(raw string) CampaignStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ENABLED":
		return CampaignStatusEnabled
	case "PAUSED":
		return CampaignStatusPaused
	case "REMOVED":
		return CampaignStatusRemoved
	default:
		return CampaignStatusUnknown
	}
}

// Campaign is an advertising campaign pulled from a linked ad account.
// Rows are upserted by sync; (client account, platform campaign id) is unique.
type Campaign struct {
	shared.TenantAggregateRoot
	ClientAccountID    uuid.UUID
	PlatformCampaignID string
	Name               string
	Status             CampaignStatus
	Type               string
	DailyBudget        decimal.Decimal
	LastSyncedAt       time.Time
}

// NewCampaign creates a campaign row from platform data
func NewCampaign(tenantID, clientAccountID uuid.UUID, platformCampaignID, name string) (*Campaign, error) {
	platformCampaignID = strings.TrimSpace(platformCampaignID)
	if platformCampaignID == "" {
		return nil, shared.NewDomainError("INVALID_CAMPAIGN_ID", "Platform campaign id is required")
	}
	return &Campaign{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientAccountID:     clientAccountID,
		PlatformCampaignID:  platformCampaignID,
		Name:                strings.TrimSpace(name),
		Status:              CampaignStatusUnknown,
		LastSyncedAt:        time.Now(),
	}, nil
}

// ApplySync updates the mutable fields from a fresh platform pull
func (c *Campaign) ApplySync(name, status, campaignType string, dailyBudget decimal.Decimal, syncedAt time.Time) {
	c.Name = strings.TrimSpace(name)
	c.Status = ParseCampaignStatus(status)
	c.Type = strings.TrimSpace(campaignType)
	c.DailyBudget = dailyBudget
	c.LastSyncedAt = syncedAt
	c.UpdatedAt = syncedAt
	c.IncrementVersion()
}

// IsServing reports whether the campaign is currently delivering ads
func (c *Campaign) IsServing() bool {
	return c.Status == CampaignStatusEnabled
}

// AdGroup is an ad group within a campaign
type AdGroup struct {
	shared.TenantAggregateRoot
	CampaignID        uuid.UUID
	PlatformAdGroupID string
	Name              string
	Status            CampaignStatus
}

// NewAdGroup creates an ad group row from platform data
func NewAdGroup(tenantID, campaignID uuid.UUID, platformAdGroupID, name, status string) (*AdGroup, error) {
	platformAdGroupID = strings.TrimSpace(platformAdGroupID)
	if platformAdGroupID == "" {
		return nil, shared.NewDomainError("INVALID_AD_GROUP_ID", "Platform ad group id is required")
	}
	return &AdGroup{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CampaignID:          campaignID,
		PlatformAdGroupID:   platformAdGroupID,
		Name:                strings.TrimSpace(name),
		Status:              ParseCampaignStatus(status),
	}, nil
}
