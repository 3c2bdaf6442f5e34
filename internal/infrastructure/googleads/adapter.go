package googleads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/pulse/backend/internal/domain/connection"
)

const (
	revokeURL   = "https://oauth2.googleapis.com/revoke"
	userInfoURL = "https://www.googleapis.com/oauth2/v1/userinfo"

	// maxResponseSize limits the response body size to prevent memory exhaustion
	maxResponseSize = 10 * 1024 * 1024 // 10MB

	managerMetricsMarker = "Metrics cannot be requested for a manager account"
)

// Adapter implements connection.AdsPlatform against the Google Ads REST API.
// GAQL queries go through the googleAds:search endpoint; monetary values come
// back in micros and are converted to currency units here.
type Adapter struct {
	config     *Config
	oauth      *oauth2.Config
	httpClient *http.Client
}

// NewAdapter creates a new Google Ads adapter with the given configuration
func NewAdapter(config *Config) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Adapter{
		config: config,
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       config.Scopes,
			Endpoint:     google.Endpoint,
		},
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Code returns the platform this adapter serves
func (a *Adapter) Code() connection.PlatformCode {
	return connection.PlatformGoogleAds
}

// AuthCodeURL builds the user consent URL carrying the CSRF state.
// Offline access with forced consent so Google re-issues the refresh token.
func (a *Adapter) AuthCodeURL(state string) string {
	return a.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeCode trades an authorization code for tokens
func (a *Adapter) ExchangeCode(ctx context.Context, code string) (*connection.OAuthToken, error) {
	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", connection.ErrTokenExchangeFailed, err)
	}
	return a.toOAuthToken(token), nil
}

// Refresh obtains a new access token from a refresh token
func (a *Adapter) Refresh(ctx context.Context, refreshToken string) (*connection.OAuthToken, error) {
	source := a.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", connection.ErrTokenRefreshFailed, err)
	}
	return a.toOAuthToken(token), nil
}

// toOAuthToken converts an oauth2 token into the domain token shape
func (a *Adapter) toOAuthToken(token *oauth2.Token) *connection.OAuthToken {
	return &connection.OAuthToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		Scopes:       a.config.Scopes,
	}
}

// Revoke invalidates a token at the platform, best effort
func (a *Adapter) Revoke(ctx context.Context, token string) error {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("googleads: revoke returned status %d", resp.StatusCode)
	}
	return nil
}

// AccountEmail resolves the e-mail of the authorized account
func (a *Adapter) AccountEmail(ctx context.Context, token *connection.OAuthToken) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("googleads: userinfo returned status %d", resp.StatusCode)
	}

	var info userInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("googleads: decode userinfo: %w", err)
	}
	if info.Email == "" {
		return "", fmt.Errorf("googleads: userinfo response has no email")
	}
	return strings.ToLower(info.Email), nil
}

// ListAccessibleCustomers returns the customer ids directly accessible
// to the authorized user
func (a *Adapter) ListAccessibleCustomers(ctx context.Context, accessToken string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/%s/customers:listAccessibleCustomers", a.config.APIBaseURL, a.config.APIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	a.setHeaders(req, accessToken, "")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}
	if err := a.checkStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	var list listCustomersResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("googleads: decode customer list: %w", err)
	}

	ids := make([]string, 0, len(list.ResourceNames))
	for _, name := range list.ResourceNames {
		ids = append(ids, strings.TrimPrefix(name, "customers/"))
	}
	return ids, nil
}

// GetAccountInfo fetches account metadata for one customer
func (a *Adapter) GetAccountInfo(ctx context.Context, accessToken, customerID string) (*connection.AccountInfo, error) {
	customerID = connection.NormalizeCustomerID(customerID)
	query := `
		SELECT
			customer.id,
			customer.descriptive_name,
			customer.manager,
			customer.currency_code,
			customer.time_zone
		FROM customer`

	results, err := a.search(ctx, accessToken, customerID, "", query)
	if err != nil {
		// Manager accounts reject some selections; the flag is the answer.
		if errors.Is(err, connection.ErrManagerAccountMetrics) {
			return &connection.AccountInfo{CustomerID: customerID, IsManager: true}, nil
		}
		return nil, err
	}

	for _, result := range results {
		if result.Customer == nil {
			continue
		}
		return &connection.AccountInfo{
			CustomerID:   connection.NormalizeCustomerID(result.Customer.ID),
			Name:         result.Customer.DescriptiveName,
			IsManager:    result.Customer.Manager,
			CurrencyCode: result.Customer.CurrencyCode,
			Timezone:     result.Customer.TimeZone,
		}, nil
	}
	return &connection.AccountInfo{CustomerID: customerID}, nil
}

// ListChildAccounts returns the accounts directly under a manager
func (a *Adapter) ListChildAccounts(ctx context.Context, accessToken, managerID string) ([]connection.AccountInfo, error) {
	managerID = connection.NormalizeCustomerID(managerID)
	query := `
		SELECT
			customer_client.id,
			customer_client.client_customer,
			customer_client.descriptive_name,
			customer_client.manager,
			customer_client.level,
			customer_client.status,
			customer_client.currency_code,
			customer_client.time_zone
		FROM customer_client
		ORDER BY customer_client.level ASC, customer_client.descriptive_name ASC`

	results, err := a.search(ctx, accessToken, managerID, managerID, query)
	if err != nil {
		return nil, err
	}

	accounts := make([]connection.AccountInfo, 0, len(results))
	for _, result := range results {
		client := result.CustomerClient
		if client == nil {
			continue
		}
		id := connection.NormalizeCustomerID(client.ID)
		if id == "" {
			id = connection.NormalizeCustomerID(strings.TrimPrefix(client.ClientCustomer, "customers/"))
		}
		if id == "" || id == managerID {
			continue
		}
		level, _ := strconv.Atoi(client.Level)
		accounts = append(accounts, connection.AccountInfo{
			CustomerID:   id,
			Name:         client.DescriptiveName,
			IsManager:    client.Manager,
			CurrencyCode: client.CurrencyCode,
			Timezone:     client.TimeZone,
			ParentID:     managerID,
			Level:        level,
		})
	}
	return accounts, nil
}

// FetchCampaigns pulls campaign aggregates for a reporting window
func (a *Adapter) FetchCampaigns(ctx context.Context, accessToken, customerID string, rng connection.DateRange) ([]connection.CampaignSnapshot, error) {
	customerID = connection.NormalizeCustomerID(customerID)
	query := fmt.Sprintf(`
		SELECT
			campaign.id,
			campaign.name,
			campaign.status,
			campaign.advertising_channel_type,
			campaign_budget.amount_micros,
			metrics.impressions,
			metrics.clicks,
			metrics.cost_micros,
			metrics.conversions
		FROM campaign
		WHERE campaign.status != 'REMOVED'
			AND segments.date DURING %s
		ORDER BY campaign.name`, string(rng))

	results, err := a.search(ctx, accessToken, customerID, "", query)
	if err != nil {
		return nil, err
	}

	snapshots := make([]connection.CampaignSnapshot, 0, len(results))
	for _, result := range results {
		if result.Campaign == nil {
			continue
		}
		snapshot := connection.CampaignSnapshot{
			CampaignID: result.Campaign.ID,
			Name:       result.Campaign.Name,
			Status:     result.Campaign.Status,
			Type:       result.Campaign.AdvertisingChannelType,
		}
		if result.CampaignBudget != nil {
			snapshot.BudgetAmount = microsToDecimal(result.CampaignBudget.AmountMicros)
		}
		if result.Metrics != nil {
			snapshot.Impressions = parseInt64(result.Metrics.Impressions)
			snapshot.Clicks = parseInt64(result.Metrics.Clicks)
			snapshot.Cost = microsToDecimal(result.Metrics.CostMicros)
			snapshot.Conversions = decimal.NewFromFloat(result.Metrics.Conversions)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// FetchAdGroups pulls the ad groups of every non-removed campaign
func (a *Adapter) FetchAdGroups(ctx context.Context, accessToken, customerID string) ([]connection.AdGroupInfo, error) {
	customerID = connection.NormalizeCustomerID(customerID)
	query := `
		SELECT
			campaign.id,
			ad_group.id,
			ad_group.name,
			ad_group.status
		FROM ad_group
		WHERE ad_group.status != 'REMOVED'
			AND campaign.status != 'REMOVED'
		ORDER BY ad_group.name`

	results, err := a.search(ctx, accessToken, customerID, "", query)
	if err != nil {
		return nil, err
	}

	groups := make([]connection.AdGroupInfo, 0, len(results))
	for _, result := range results {
		if result.Campaign == nil || result.AdGroup == nil {
			continue
		}
		groups = append(groups, connection.AdGroupInfo{
			CampaignID: result.Campaign.ID,
			AdGroupID:  result.AdGroup.ID,
			Name:       result.AdGroup.Name,
			Status:     result.AdGroup.Status,
		})
	}
	return groups, nil
}

// FetchDailyMetrics pulls per-day campaign rows for a date interval
func (a *Adapter) FetchDailyMetrics(ctx context.Context, accessToken, customerID string, from, to time.Time) ([]connection.DailyMetrics, error) {
	customerID = connection.NormalizeCustomerID(customerID)
	query := fmt.Sprintf(`
		SELECT
			campaign.id,
			segments.date,
			metrics.impressions,
			metrics.clicks,
			metrics.cost_micros,
			metrics.conversions
		FROM campaign
		WHERE campaign.status != 'REMOVED'
			AND segments.date BETWEEN '%s' AND '%s'
		ORDER BY segments.date ASC`,
		from.Format("2006-01-02"), to.Format("2006-01-02"))

	results, err := a.search(ctx, accessToken, customerID, "", query)
	if err != nil {
		return nil, err
	}

	rows := make([]connection.DailyMetrics, 0, len(results))
	for _, result := range results {
		if result.Campaign == nil || result.Segments == nil {
			continue
		}
		date, err := time.ParseInLocation("2006-01-02", result.Segments.Date, time.UTC)
		if err != nil {
			continue
		}
		row := connection.DailyMetrics{
			CampaignID: result.Campaign.ID,
			Date:       date,
		}
		if result.Metrics != nil {
			row.Impressions = parseInt64(result.Metrics.Impressions)
			row.Clicks = parseInt64(result.Metrics.Clicks)
			row.Cost = microsToDecimal(result.Metrics.CostMicros)
			row.Conversions = decimal.NewFromFloat(result.Metrics.Conversions)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// search runs one GAQL query, following pagination until exhausted
func (a *Adapter) search(ctx context.Context, accessToken, customerID, loginCustomerID, query string) ([]searchResult, error) {
	endpoint := fmt.Sprintf("%s/%s/customers/%s/googleAds:search", a.config.APIBaseURL, a.config.APIVersion, customerID)

	var all []searchResult
	pageToken := ""
	for {
		payload, err := json.Marshal(searchRequest{Query: query, PageToken: pageToken})
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		a.setHeaders(req, accessToken, loginCustomerID)
		req.Header.Set("Content-Type", "application/json")

		resp, err := a.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if err := a.checkStatus(resp.StatusCode, body); err != nil {
			return nil, err
		}

		var page searchResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("googleads: decode search response: %w", err)
		}
		all = append(all, page.Results...)

		if page.NextPageToken == "" {
			return all, nil
		}
		pageToken = page.NextPageToken
	}
}

func (a *Adapter) setHeaders(req *http.Request, accessToken, loginCustomerID string) {
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("developer-token", a.config.DeveloperToken)
	if loginCustomerID == "" {
		loginCustomerID = a.config.LoginCustomerID
	}
	if loginCustomerID != "" {
		req.Header.Set("login-customer-id", connection.NormalizeCustomerID(loginCustomerID))
	}
}

func (a *Adapter) checkStatus(status int, body []byte) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: status 401", connection.ErrTokenRefreshFailed)
	case status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", connection.ErrAccessDenied, truncate(body, 200))
	case status == http.StatusBadRequest && bytes.Contains(body, []byte(managerMetricsMarker)):
		return connection.ErrManagerAccountMetrics
	default:
		return fmt.Errorf("googleads: request failed with status %d: %s", status, truncate(body, 200))
	}
}

func microsToDecimal(micros string) decimal.Decimal {
	if micros == "" {
		return decimal.Zero
	}
	value, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return decimal.Zero
	}
	return decimal.New(value, -6)
}

func parseInt64(raw string) int64 {
	value, _ := strconv.ParseInt(raw, 10, 64)
	return value
}

func truncate(body []byte, limit int) string {
	s := string(body)
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

// Ensure Adapter implements the platform port
var _ connection.AdsPlatform = (*Adapter)(nil)
