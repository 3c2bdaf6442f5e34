package connection

import (
	"strings"

	"github.com/pulse/backend/internal/domain/shared"
)

// PlatformCode identifies an advertising platform
type PlatformCode string

const (
	PlatformGoogleAds   PlatformCode = "google_ads"
	PlatformFacebookAds PlatformCode = "facebook_ads" // catalog slot only, no adapter yet
)

// IsValid checks if the platform code is a known value
func (c PlatformCode) IsValid() bool {
	switch c {
	case PlatformGoogleAds, PlatformFacebookAds:
		return true
	}
	return false
}

// DisplayName returns a human-friendly platform name
func (c PlatformCode) DisplayName() string {
	switch c {
	case PlatformGoogleAds:
		return "Google Ads"
	case PlatformFacebookAds:
		return "Facebook Ads"
	default:
		return string(c)
	}
}

// PlatformType is a catalog entry describing an ad platform that tenants can
// connect to. Rows are seeded by migration; IsAvailable gates platforms that
// are listed but not yet integrated.
type PlatformType struct {
	shared.BaseAggregateRoot
	Code        PlatformCode
	Name        string
	Description string
	OAuthScopes []string
	IsAvailable bool
	Position    int
}

// NewPlatformType creates a platform catalog entry
func NewPlatformType(code PlatformCode, name string, scopes []string, available bool, position int) (*PlatformType, error) {
	if !code.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLATFORM", "Unknown platform code")
	}
	if strings.TrimSpace(name) == "" {
		name = code.DisplayName()
	}
	return &PlatformType{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              strings.TrimSpace(name),
		OAuthScopes:       scopes,
		IsAvailable:       available,
		Position:          position,
	}, nil
}

// NormalizeCustomerID strips hyphens and whitespace from a platform customer
// id, e.g. "123-456-7890" becomes "1234567890".
func NormalizeCustomerID(id string) string {
	id = strings.TrimSpace(id)
	return strings.ReplaceAll(id, "-", "")
}

// FormatCustomerID renders a normalized Google Ads customer id with hyphens
// ("1234567890" becomes "123-456-7890"). IDs that are not ten digits are
// returned unchanged.
func FormatCustomerID(id string) string {
	id = NormalizeCustomerID(id)
	if len(id) != 10 {
		return id
	}
	return id[0:3] + "-" + id[3:6] + "-" + id[6:10]
}
