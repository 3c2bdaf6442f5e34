package connection

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Platform adapter errors
var (
	ErrPlatformNotRegistered = errors.New("connection: platform not registered")
	ErrTokenExchangeFailed   = errors.New("connection: authorization code exchange failed")
	ErrTokenRefreshFailed    = errors.New("connection: token refresh failed")
	ErrManagerAccountMetrics = errors.New("connection: metrics cannot be requested for a manager account")
	ErrAccessDenied          = errors.New("connection: platform denied access to the customer")
)

// OAuthToken is the platform-agnostic view of an OAuth2 token set
type OAuthToken struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	Scopes       []string
}

// AccountInfo describes an ad account as reported by the platform
type AccountInfo struct {
	CustomerID   string // normalized, no hyphens
	Name         string
	IsManager    bool
	CurrencyCode string
	Timezone     string
	ParentID     string // normalized id of the managing account, empty for roots
	Level        int    // depth in the account hierarchy, 0 for roots
}

// DateRange is a named reporting window
type DateRange string

const (
	RangeLast7Days  DateRange = "LAST_7_DAYS"
	RangeLast30Days DateRange = "LAST_30_DAYS"
	RangeLast90Days DateRange = "LAST_90_DAYS"
)

// IsValid checks if the range is a known value
func (r DateRange) IsValid() bool {
	switch r {
	case RangeLast7Days, RangeLast30Days, RangeLast90Days:
		return true
	}
	return false
}

// Days returns the number of days the range covers
func (r DateRange) Days() int {
	switch r {
	case RangeLast7Days:
		return 7
	case RangeLast90Days:
		return 90
	default:
		return 30
	}
}

// AllDateRanges lists the supported reporting windows
func AllDateRanges() []DateRange {
	return []DateRange{RangeLast7Days, RangeLast30Days, RangeLast90Days}
}

// CampaignSnapshot is one campaign's aggregate numbers for a reporting window
// as returned by the platform.
type CampaignSnapshot struct {
	CampaignID   string
	Name         string
	Status       string
	Type         string
	BudgetAmount decimal.Decimal // currency units per day
	Impressions  int64
	Clicks       int64
	Cost         decimal.Decimal // currency units
	Conversions  decimal.Decimal
}

// AdGroupInfo is one ad group as returned by the platform
type AdGroupInfo struct {
	CampaignID string
	AdGroupID  string
	Name       string
	Status     string
}

// DailyMetrics is one campaign's numbers for a single day
type DailyMetrics struct {
	CampaignID  string
	Date        time.Time
	Impressions int64
	Clicks      int64
	Cost        decimal.Decimal
	Conversions decimal.Decimal
}

// AdsPlatform is the port every advertising platform adapter implements.
// Adapters live in infrastructure and talk to the real platform APIs; the
// application layer only sees this interface.
type AdsPlatform interface {
	// Code returns the platform this adapter serves
	Code() PlatformCode

	// AuthCodeURL builds the user consent URL carrying the CSRF state
	AuthCodeURL(state string) string

	// ExchangeCode trades an authorization code for tokens
	ExchangeCode(ctx context.Context, code string) (*OAuthToken, error)

	// Refresh obtains a new access token from a refresh token
	Refresh(ctx context.Context, refreshToken string) (*OAuthToken, error)

	// Revoke invalidates a token at the platform, best effort
	Revoke(ctx context.Context, token string) error

	// AccountEmail resolves the e-mail of the authorized account
	AccountEmail(ctx context.Context, token *OAuthToken) (string, error)

	// ListAccessibleCustomers returns the customer ids directly accessible
	// to the authorized user
	ListAccessibleCustomers(ctx context.Context, accessToken string) ([]string, error)

	// GetAccountInfo fetches account metadata for one customer
	GetAccountInfo(ctx context.Context, accessToken, customerID string) (*AccountInfo, error)

	// ListChildAccounts returns the accounts directly under a manager
	ListChildAccounts(ctx context.Context, accessToken, managerID string) ([]AccountInfo, error)

	// FetchCampaigns pulls campaign aggregates for a reporting window.
	// Returns ErrManagerAccountMetrics for manager accounts.
	FetchCampaigns(ctx context.Context, accessToken, customerID string, rng DateRange) ([]CampaignSnapshot, error)

	// FetchAdGroups pulls the ad groups of every non-removed campaign
	FetchAdGroups(ctx context.Context, accessToken, customerID string) ([]AdGroupInfo, error)

	// FetchDailyMetrics pulls per-day campaign rows for a date interval
	FetchDailyMetrics(ctx context.Context, accessToken, customerID string, from, to time.Time) ([]DailyMetrics, error)
}

// PlatformRegistry resolves adapters by platform code
type PlatformRegistry struct {
	adapters map[PlatformCode]AdsPlatform
}

// NewPlatformRegistry creates an empty registry
func NewPlatformRegistry() *PlatformRegistry {
	return &PlatformRegistry{adapters: make(map[PlatformCode]AdsPlatform)}
}

// Register adds an adapter; the last registration for a code wins
func (r *PlatformRegistry) Register(p AdsPlatform) {
	r.adapters[p.Code()] = p
}

// Get returns the adapter for a code
func (r *PlatformRegistry) Get(code PlatformCode) (AdsPlatform, error) {
	p, ok := r.adapters[code]
	if !ok {
		return nil, ErrPlatformNotRegistered
	}
	return p, nil
}

// Codes lists the registered platform codes
func (r *PlatformRegistry) Codes() []PlatformCode {
	codes := make([]PlatformCode, 0, len(r.adapters))
	for code := range r.adapters {
		codes = append(codes, code)
	}
	return codes
}
