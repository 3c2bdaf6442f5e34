package portfolio

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
)

// Industry categorizes the client's vertical
type Industry string

const (
	IndustryRetail        Industry = "retail"
	IndustryEcommerce     Industry = "ecommerce"
	IndustryFinance       Industry = "finance"
	IndustryHealthcare    Industry = "healthcare"
	IndustryTechnology    Industry = "technology"
	IndustryEducation     Industry = "education"
	IndustryTravel        Industry = "travel"
	IndustryRealEstate    Industry = "real_estate"
	IndustryAutomotive    Industry = "automotive"
	IndustryEntertainment Industry = "entertainment"
	IndustryFoodBeverage  Industry = "food_beverage"
	IndustryProfServices  Industry = "professional_services"
	IndustryOther         Industry = "other"
)

// IsValid checks if the industry is a known value
func (i Industry) IsValid() bool {
	switch i {
	case IndustryRetail, IndustryEcommerce, IndustryFinance, IndustryHealthcare,
		IndustryTechnology, IndustryEducation, IndustryTravel, IndustryRealEstate,
		IndustryAutomotive, IndustryEntertainment, IndustryFoodBeverage,
		IndustryProfServices, IndustryOther:
		return true
	}
	return false
}

// CompanySize buckets the client by headcount
type CompanySize string

const (
	CompanySizeMicro      CompanySize = "1-10"
	CompanySizeSmall      CompanySize = "11-50"
	CompanySizeMedium     CompanySize = "51-200"
	CompanySizeLarge      CompanySize = "201-1000"
	CompanySizeEnterprise CompanySize = "1000+"
)

// IsValid checks if the company size is a known value
func (s CompanySize) IsValid() bool {
	switch s {
	case CompanySizeMicro, CompanySizeSmall, CompanySizeMedium, CompanySizeLarge, CompanySizeEnterprise:
		return true
	}
	return false
}

// RevenueRange buckets the client by annual revenue
type RevenueRange string

const (
	RevenueUnder1M  RevenueRange = "under_1m"
	Revenue1MTo10M  RevenueRange = "1m_10m"
	Revenue10MTo50M RevenueRange = "10m_50m"
	RevenueOver50M  RevenueRange = "over_50m"
)

// IsValid checks if the revenue range is a known value
func (r RevenueRange) IsValid() bool {
	switch r {
	case RevenueUnder1M, Revenue1MTo10M, Revenue10MTo50M, RevenueOver50M:
		return true
	}
	return false
}

// MarketingMaturity describes how developed the client's marketing operation is
type MarketingMaturity string

const (
	MaturityBeginner     MarketingMaturity = "beginner"
	MaturityIntermediate MarketingMaturity = "intermediate"
	MaturityAdvanced     MarketingMaturity = "advanced"
)

// IsValid checks if the maturity is a known value
func (m MarketingMaturity) IsValid() bool {
	switch m {
	case MaturityBeginner, MaturityIntermediate, MaturityAdvanced:
		return true
	}
	return false
}

// BusinessModel is one of the models a client operates under. A client may
// combine several, e.g. b2b plus marketplace.
type BusinessModel string

const (
	BusinessModelB2B          BusinessModel = "b2b"
	BusinessModelB2C          BusinessModel = "b2c"
	BusinessModelD2C          BusinessModel = "d2c"
	BusinessModelMarketplace  BusinessModel = "marketplace"
	BusinessModelSubscription BusinessModel = "subscription"
)

// IsValid checks if the business model is a known value
func (b BusinessModel) IsValid() bool {
	switch b {
	case BusinessModelB2B, BusinessModelB2C, BusinessModelD2C, BusinessModelMarketplace, BusinessModelSubscription:
		return true
	}
	return false
}

// Client is a brand managed by an agency tenant
type Client struct {
	shared.TenantAggregateRoot
	Name              string
	Description       string
	Website           string
	LogoURL           string
	Industry          Industry
	CompanySize       CompanySize
	RevenueRange      RevenueRange
	GeographicFocus   string
	MarketingMaturity MarketingMaturity
	BusinessModels    []BusinessModel
	IsActive          bool
	ArchivedAt        *time.Time
}

// NewClient creates a new active client for a tenant
func NewClient(tenantID uuid.UUID, name string) (*Client, error) {
	if err := validateClientName(name); err != nil {
		return nil, err
	}

	client := &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		IsActive:            true,
		BusinessModels:      make([]BusinessModel, 0),
	}

	client.AddDomainEvent(NewClientCreatedEvent(client))

	return client, nil
}

// Rename changes the client display name
func (c *Client) Rename(name string) error {
	if err := validateClientName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.touch()
	return nil
}

// SetProfile updates the descriptive categorization fields. Empty enum values
// clear the field; non-empty values must be known.
func (c *Client) SetProfile(industry Industry, size CompanySize, revenue RevenueRange, maturity MarketingMaturity, geographicFocus string) error {
	if industry != "" && !industry.IsValid() {
		return shared.NewDomainError("INVALID_INDUSTRY", "Unknown industry")
	}
	if size != "" && !size.IsValid() {
		return shared.NewDomainError("INVALID_COMPANY_SIZE", "Unknown company size")
	}
	if revenue != "" && !revenue.IsValid() {
		return shared.NewDomainError("INVALID_REVENUE_RANGE", "Unknown revenue range")
	}
	if maturity != "" && !maturity.IsValid() {
		return shared.NewDomainError("INVALID_MATURITY", "Unknown marketing maturity")
	}
	if len(geographicFocus) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Geographic focus cannot exceed 200 characters")
	}

	c.Industry = industry
	c.CompanySize = size
	c.RevenueRange = revenue
	c.MarketingMaturity = maturity
	c.GeographicFocus = strings.TrimSpace(geographicFocus)
	c.touch()
	return nil
}

// SetBusinessModels replaces the business model set
func (c *Client) SetBusinessModels(models []BusinessModel) error {
	seen := make(map[BusinessModel]bool, len(models))
	out := make([]BusinessModel, 0, len(models))
	for _, m := range models {
		if !m.IsValid() {
			return shared.NewDomainError("INVALID_BUSINESS_MODEL", "Unknown business model")
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	c.BusinessModels = out
	c.touch()
	return nil
}

// SetWebsite updates the client website
func (c *Client) SetWebsite(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_WEBSITE", "Website cannot exceed 500 characters")
	}
	c.Website = strings.TrimSpace(url)
	c.touch()
	return nil
}

// SetDescription updates the free-text description
func (c *Client) SetDescription(desc string) {
	c.Description = strings.TrimSpace(desc)
	c.touch()
}

// SetLogoURL updates the client logo
func (c *Client) SetLogoURL(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_LOGO_URL", "Logo URL cannot exceed 500 characters")
	}
	c.LogoURL = strings.TrimSpace(url)
	c.touch()
	return nil
}

// Archive soft-deletes the client. Metrics history is retained.
func (c *Client) Archive() error {
	if c.IsArchived() {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Client is already archived")
	}
	now := time.Now()
	c.ArchivedAt = &now
	c.IsActive = false
	c.UpdatedAt = now
	c.IncrementVersion()
	c.AddDomainEvent(NewClientArchivedEvent(c))
	return nil
}

// Unarchive restores an archived client
func (c *Client) Unarchive() error {
	if !c.IsArchived() {
		return shared.NewDomainError("NOT_ARCHIVED", "Client is not archived")
	}
	c.ArchivedAt = nil
	c.IsActive = true
	c.touch()
	c.AddDomainEvent(NewClientRestoredEvent(c))
	return nil
}

// IsArchived reports whether the client has been archived
func (c *Client) IsArchived() bool {
	return c.ArchivedAt != nil
}

func (c *Client) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func validateClientName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	return nil
}
