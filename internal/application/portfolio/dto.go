package portfolio

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ClientDTO represents client data in responses
type ClientDTO struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	Website           string     `json:"website,omitempty"`
	LogoURL           string     `json:"logo_url,omitempty"`
	Industry          string     `json:"industry,omitempty"`
	CompanySize       string     `json:"company_size,omitempty"`
	RevenueRange      string     `json:"revenue_range,omitempty"`
	GeographicFocus   string     `json:"geographic_focus,omitempty"`
	MarketingMaturity string     `json:"marketing_maturity,omitempty"`
	BusinessModels    []string   `json:"business_models,omitempty"`
	IsActive          bool       `json:"is_active"`
	ArchivedAt        *time.Time `json:"archived_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CreateClientInput contains input for creating a client
type CreateClientInput struct {
	TenantID          uuid.UUID
	Name              string
	Description       string
	Website           string
	Industry          string
	CompanySize       string
	RevenueRange      string
	GeographicFocus   string
	MarketingMaturity string
	BusinessModels    []string
}

// UpdateClientInput contains input for updating a client
type UpdateClientInput struct {
	TenantID          uuid.UUID
	ClientID          uuid.UUID
	Name              *string
	Description       *string
	Website           *string
	LogoURL           *string
	Industry          *string
	CompanySize       *string
	RevenueRange      *string
	GeographicFocus   *string
	MarketingMaturity *string
	BusinessModels    []string
}

// ClientFilter represents filter options for listing clients
type ClientFilter struct {
	Page            int
	PageSize        int
	SortBy          string
	SortDir         string
	Keyword         string
	Industry        string
	IncludeArchived bool
}

// ToSharedFilter converts ClientFilter to shared.Filter
func (f ClientFilter) ToSharedFilter() shared.Filter {
	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	filter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  f.SortBy,
		OrderDir: f.SortDir,
		Search:   f.Keyword,
		Filters:  map[string]interface{}{},
	}
	if f.Industry != "" {
		filter.Filters["industry"] = f.Industry
	}
	if f.IncludeArchived {
		filter.Filters["include_archived"] = true
	}
	return filter
}

// ClientListResult represents a paginated client list
type ClientListResult struct {
	Clients    []ClientDTO `json:"clients"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// GroupDTO represents a client group in responses
type GroupDTO struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description,omitempty"`
	IsAutoGenerated bool        `json:"is_auto_generated"`
	CategoryType    string      `json:"category_type,omitempty"`
	CategoryValue   string      `json:"category_value,omitempty"`
	ClientIDs       []uuid.UUID `json:"client_ids"`
	ClientCount     int         `json:"client_count"`
	CreatedAt       time.Time   `json:"created_at"`
}

// CompetitorDTO represents a competitor in responses
type CompetitorDTO struct {
	ID         uuid.UUID `json:"id"`
	ClientID   uuid.UUID `json:"client_id"`
	Name       string    `json:"name"`
	Website    string    `json:"website,omitempty"`
	Strength   string    `json:"strength,omitempty"`
	Advantages string    `json:"advantages,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// UpsertCompetitorInput contains input for creating or updating a competitor
type UpsertCompetitorInput struct {
	TenantID   uuid.UUID
	ClientID   uuid.UUID
	Name       string
	Website    string
	Strength   string
	Advantages string
	Notes      string
}

// GoalTargetsInput contains per-metric goal targets; nil clears a target
type GoalTargetsInput struct {
	CTRTarget          *decimal.Decimal
	ConversionTarget   *decimal.Decimal
	CPCTarget          *decimal.Decimal
	CPATarget          *decimal.Decimal
	UseTenantFallbacks *bool
}

// GoalDTO represents a client's performance goals with resolution sources
type GoalDTO struct {
	ClientID           uuid.UUID         `json:"client_id"`
	UseTenantFallbacks bool              `json:"use_tenant_fallbacks"`
	Targets            []ResolvedGoalDTO `json:"targets"`
}

// ResolvedGoalDTO is one metric's effective goal after fallback resolution
type ResolvedGoalDTO struct {
	Metric string           `json:"metric"`
	Value  *decimal.Decimal `json:"value,omitempty"`
	Source string           `json:"source"`
}

// TenantGoalDefaultsDTO represents tenant-wide default goal targets
type TenantGoalDefaultsDTO struct {
	CTRTarget        *decimal.Decimal `json:"ctr_target,omitempty"`
	ConversionTarget *decimal.Decimal `json:"conversion_rate_target,omitempty"`
	CPCTarget        *decimal.Decimal `json:"cpc_target,omitempty"`
	CPATarget        *decimal.Decimal `json:"cpa_target,omitempty"`
}
