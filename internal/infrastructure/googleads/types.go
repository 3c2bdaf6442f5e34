package googleads

// searchRequest is the body of a googleAds:search call
type searchRequest struct {
	Query     string `json:"query"`
	PageToken string `json:"pageToken,omitempty"`
}

// searchResponse is the envelope returned by googleAds:search.
// Int64 fields arrive as JSON strings per the REST protocol.
type searchResponse struct {
	Results       []searchResult `json:"results"`
	NextPageToken string         `json:"nextPageToken"`
}

type searchResult struct {
	Customer       *customerPayload       `json:"customer"`
	CustomerClient *customerClientPayload `json:"customerClient"`
	Campaign       *campaignPayload       `json:"campaign"`
	CampaignBudget *campaignBudgetPayload `json:"campaignBudget"`
	AdGroup        *adGroupPayload        `json:"adGroup"`
	Metrics        *metricsPayload        `json:"metrics"`
	Segments       *segmentsPayload       `json:"segments"`
}

type customerPayload struct {
	ID              string `json:"id"`
	DescriptiveName string `json:"descriptiveName"`
	Manager         bool   `json:"manager"`
	CurrencyCode    string `json:"currencyCode"`
	TimeZone        string `json:"timeZone"`
}

type customerClientPayload struct {
	ID              string `json:"id"`
	ClientCustomer  string `json:"clientCustomer"` // resource name customers/<id>
	DescriptiveName string `json:"descriptiveName"`
	Manager         bool   `json:"manager"`
	Level           string `json:"level"`
	Status          string `json:"status"`
	CurrencyCode    string `json:"currencyCode"`
	TimeZone        string `json:"timeZone"`
}

type campaignPayload struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	Status                 string `json:"status"`
	AdvertisingChannelType string `json:"advertisingChannelType"`
}

type campaignBudgetPayload struct {
	AmountMicros string `json:"amountMicros"`
}

type adGroupPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type metricsPayload struct {
	Impressions string  `json:"impressions"`
	Clicks      string  `json:"clicks"`
	CostMicros  string  `json:"costMicros"`
	Conversions float64 `json:"conversions"`
}

type segmentsPayload struct {
	Date string `json:"date"`
}

// listCustomersResponse is returned by customers:listAccessibleCustomers
type listCustomersResponse struct {
	ResourceNames []string `json:"resourceNames"`
}

// userInfoResponse is returned by the Google userinfo endpoint
type userInfoResponse struct {
	Email string `json:"email"`
}
