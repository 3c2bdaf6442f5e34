package connection

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validToken(expiry time.Time) OAuthToken {
	return OAuthToken{
		AccessToken:  "ya29.access",
		RefreshToken: "1//refresh",
		Expiry:       expiry,
		Scopes:       []string{"https://www.googleapis.com/auth/adwords"},
	}
}

func TestNewPlatformConnection(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates active connection", func(t *testing.T) {
		conn, err := NewPlatformConnection(tenantID, PlatformGoogleAds, "Ads@Agency.com", validToken(time.Now().Add(time.Hour)))
		require.NoError(t, err)

		assert.Equal(t, StatusActive, conn.Status)
		assert.Equal(t, "ads@agency.com", conn.AccountEmail)
		assert.True(t, conn.CanSync())
		assert.Len(t, conn.GetDomainEvents(), 1)
	})

	t.Run("rejects unknown platform", func(t *testing.T) {
		_, err := NewPlatformConnection(tenantID, PlatformCode("bing_ads"), "a@b.com", validToken(time.Now()))
		require.Error(t, err)
	})

	t.Run("rejects missing access token", func(t *testing.T) {
		_, err := NewPlatformConnection(tenantID, PlatformGoogleAds, "a@b.com", OAuthToken{})
		require.Error(t, err)
	})
}

func TestPlatformConnection_NeedsRefresh(t *testing.T) {
	conn, err := NewPlatformConnection(uuid.New(), PlatformGoogleAds, "a@b.com", validToken(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	now := time.Now()
	assert.False(t, conn.NeedsRefresh(now))
	assert.True(t, conn.NeedsRefresh(now.Add(59*time.Minute)), "refresh inside the skew window")
	assert.True(t, conn.NeedsRefresh(now.Add(2*time.Hour)))

	conn.TokenExpiry = nil
	assert.False(t, conn.NeedsRefresh(now), "no expiry means no proactive refresh")
}

func TestPlatformConnection_ApplyToken(t *testing.T) {
	conn, err := NewPlatformConnection(uuid.New(), PlatformGoogleAds, "a@b.com", validToken(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	conn.MarkExpired()
	require.Equal(t, StatusExpired, conn.Status)

	t.Run("reactivates and keeps old refresh token when omitted", func(t *testing.T) {
		err := conn.ApplyToken(OAuthToken{AccessToken: "ya29.new", Expiry: time.Now().Add(time.Hour)})
		require.NoError(t, err)
		assert.Equal(t, StatusActive, conn.Status)
		assert.Equal(t, "ya29.new", conn.AccessToken)
		assert.Equal(t, "1//refresh", conn.RefreshToken)
	})

	t.Run("rejects empty access token", func(t *testing.T) {
		require.Error(t, conn.ApplyToken(OAuthToken{}))
	})
}

func TestPlatformConnection_Disconnect(t *testing.T) {
	conn, err := NewPlatformConnection(uuid.New(), PlatformGoogleAds, "a@b.com", validToken(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	conn.Disconnect()

	assert.Equal(t, StatusDisconnected, conn.Status)
	assert.Empty(t, conn.AccessToken)
	assert.Empty(t, conn.RefreshToken)
	assert.Nil(t, conn.TokenExpiry)
	assert.False(t, conn.CanSync())
}

func TestCustomerIDHelpers(t *testing.T) {
	assert.Equal(t, "1234567890", NormalizeCustomerID(" 123-456-7890 "))
	assert.Equal(t, "123-456-7890", FormatCustomerID("1234567890"))
	assert.Equal(t, "123-456-7890", FormatCustomerID("123-456-7890"))
	assert.Equal(t, "12345", FormatCustomerID("12345"), "non-standard lengths pass through")
}

func TestAdsAccount(t *testing.T) {
	tenantID := uuid.New()
	connID := uuid.New()

	info := AccountInfo{
		CustomerID:   "123-456-7890",
		Name:         "Brand Account",
		CurrencyCode: "EUR",
		Timezone:     "Europe/Berlin",
		ParentID:     "999-888-7777",
		Level:        1,
	}

	account, err := NewAdsAccount(tenantID, connID, info)
	require.NoError(t, err)
	assert.Equal(t, "1234567890", account.CustomerID)
	assert.Equal(t, "9998887777", account.ParentID)
	assert.True(t, account.CanServeMetrics())

	t.Run("manager accounts cannot serve metrics", func(t *testing.T) {
		mgr, err := NewAdsAccount(tenantID, connID, AccountInfo{CustomerID: "111", IsManager: true})
		require.NoError(t, err)
		assert.False(t, mgr.CanServeMetrics())
	})

	t.Run("inactive accounts cannot serve metrics", func(t *testing.T) {
		account.MarkInactive()
		assert.False(t, account.CanServeMetrics())
	})
}

func TestAccountSync(t *testing.T) {
	sync := NewAccountSync(uuid.New(), uuid.New())
	require.Equal(t, SyncStatusRunning, sync.Status)
	assert.Zero(t, sync.Duration())

	t.Run("complete with counters", func(t *testing.T) {
		sync.Complete(10, 3, 6, 1, false)
		assert.Equal(t, SyncStatusCompleted, sync.Status)
		assert.Equal(t, 10, sync.AccountsFound)
		assert.NotZero(t, sync.Duration())
	})

	t.Run("partial flag", func(t *testing.T) {
		s := NewAccountSync(uuid.New(), uuid.New())
		s.Complete(5, 5, 0, 0, true)
		assert.Equal(t, SyncStatusPartial, s.Status)
	})

	t.Run("fail records message", func(t *testing.T) {
		s := NewAccountSync(uuid.New(), uuid.New())
		s.Fail("token refresh failed")
		assert.Equal(t, SyncStatusFailed, s.Status)
		assert.Equal(t, "token refresh failed", s.ErrorMessage)
	})
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, 7, RangeLast7Days.Days())
	assert.Equal(t, 30, RangeLast30Days.Days())
	assert.Equal(t, 90, RangeLast90Days.Days())
	assert.True(t, RangeLast30Days.IsValid())
	assert.False(t, DateRange("LAST_YEAR").IsValid())
}

func TestPlatformRegistry(t *testing.T) {
	registry := NewPlatformRegistry()

	_, err := registry.Get(PlatformGoogleAds)
	assert.ErrorIs(t, err, ErrPlatformNotRegistered)
}
