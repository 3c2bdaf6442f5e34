package googleads

import (
	"errors"
)

// Default API settings
const (
	defaultAPIBaseURL     = "https://googleads.googleapis.com"
	defaultAPIVersion     = "v19"
	defaultTimeoutSeconds = 30
)

// Config holds the Google Ads API credentials and settings
type Config struct {
	ClientID        string
	ClientSecret    string
	RedirectURL     string
	DeveloperToken  string
	LoginCustomerID string // manager account used for child listings, optional
	APIBaseURL      string // optional endpoint override
	APIVersion      string
	TimeoutSeconds  int
	Scopes          []string
}

// Validate checks that required fields are set and applies defaults
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return errors.New("googleads: client id is required")
	}
	if c.ClientSecret == "" {
		return errors.New("googleads: client secret is required")
	}
	if c.RedirectURL == "" {
		return errors.New("googleads: redirect url is required")
	}
	if c.DeveloperToken == "" {
		return errors.New("googleads: developer token is required")
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	if c.APIVersion == "" {
		c.APIVersion = defaultAPIVersion
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	if len(c.Scopes) == 0 {
		c.Scopes = []string{
			"https://www.googleapis.com/auth/adwords",
			"https://www.googleapis.com/auth/userinfo.email",
		}
	}
	return nil
}
