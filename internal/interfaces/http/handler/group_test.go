package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appportfolio "github.com/pulse/backend/internal/application/portfolio"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/tests/testutil"
)

func newGroupHandlerForTest() (*GroupHandler, *groupRepoFake, *clientRepoFake) {
	groupRepo := newGroupRepoFake()
	clientRepo := newClientRepoFake()
	service := appportfolio.NewGroupService(groupRepo, clientRepo, zap.NewNop())
	return NewGroupHandler(service), groupRepo, clientRepo
}

func TestGroupHandlerCreate(t *testing.T) {
	tenantID := testutil.TestTenantID()
	userID := testutil.TestUserID()
	h, _, _ := newGroupHandlerForTest()

	testutil.RunHTTPTestCases(t, h.Create, []testutil.HTTPTestCase{
		{
			Name:           "creates a manual group",
			Method:         http.MethodPost,
			Path:           "/groups",
			Body:           gin.H{"name": "Key Accounts", "description": "High touch clients"},
			ExpectedStatus: http.StatusCreated,
			Setup: func(t *testing.T, tc *testutil.TestContext) {
				tc.Authenticate(tenantID, userID)
			},
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertSuccessResponse(t, tc)
			},
		},
		{
			Name:           "rejects a missing name",
			Method:         http.MethodPost,
			Path:           "/groups",
			Body:           gin.H{"description": "no name"},
			ExpectedStatus: http.StatusBadRequest,
			Setup: func(t *testing.T, tc *testutil.TestContext) {
				tc.Authenticate(tenantID, userID)
			},
		},
		{
			Name:           "requires authentication",
			Method:         http.MethodPost,
			Path:           "/groups",
			Body:           gin.H{"name": "Orphan Group"},
			ExpectedStatus: http.StatusUnauthorized,
		},
	})
}

func TestGroupHandlerDelete(t *testing.T) {
	tenantID := testutil.TestTenantID()
	userID := testutil.TestUserID()

	t.Run("deletes a manual group", func(t *testing.T) {
		h, groupRepo, _ := newGroupHandlerForTest()

		group, err := portfolio.NewClientGroup(tenantID, "Disposable", "")
		require.NoError(t, err)
		require.NoError(t, groupRepo.Save(context.Background(), group))

		tc := testutil.NewTestContext(t)
		tc.Authenticate(tenantID, userID)
		tc.Context.Params = gin.Params{{Key: "id", Value: group.ID.String()}}

		h.Delete(tc.Context)

		assert.Equal(t, http.StatusNoContent, tc.ResponseCode())

		_, err = groupRepo.FindByID(context.Background(), tenantID, group.ID)
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("refuses an auto-generated group", func(t *testing.T) {
		h, groupRepo, _ := newGroupHandlerForTest()

		group, err := portfolio.NewCategoryGroup(tenantID, portfolio.GroupCategoryRevenueRange, "10k-50k", "Revenue 10k-50k")
		require.NoError(t, err)
		require.NoError(t, groupRepo.Save(context.Background(), group))

		tc := testutil.NewTestContext(t)
		tc.Authenticate(tenantID, userID)
		tc.Context.Params = gin.Params{{Key: "id", Value: group.ID.String()}}

		h.Delete(tc.Context)

		testutil.AssertErrorResponse(t, tc, "GROUP_AUTO_GENERATED")

		_, err = groupRepo.FindByID(context.Background(), tenantID, group.ID)
		assert.NoError(t, err, "the group must survive the refused delete")
	})

	t.Run("404 for an unknown group", func(t *testing.T) {
		h, _, _ := newGroupHandlerForTest()

		tc := testutil.NewTestContext(t)
		tc.Authenticate(tenantID, userID)
		tc.Context.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

		h.Delete(tc.Context)

		assert.Equal(t, http.StatusNotFound, tc.ResponseCode())
		testutil.AssertErrorResponse(t, tc, "GROUP_NOT_FOUND")
	})

	t.Run("400 for a malformed id", func(t *testing.T) {
		h, _, _ := newGroupHandlerForTest()

		tc := testutil.NewTestContext(t)
		tc.Authenticate(tenantID, userID)
		tc.Context.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		h.Delete(tc.Context)

		assert.Equal(t, http.StatusBadRequest, tc.ResponseCode())
	})

	t.Run("requires authentication", func(t *testing.T) {
		h, _, _ := newGroupHandlerForTest()

		tc := testutil.NewTestContext(t)
		tc.Context.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

		h.Delete(tc.Context)

		assert.Equal(t, http.StatusUnauthorized, tc.ResponseCode())
	})
}

func TestGroupHandlerMembers(t *testing.T) {
	tenantID := testutil.TestTenantID()
	userID := testutil.TestUserID()
	h, groupRepo, clientRepo := newGroupHandlerForTest()

	group, err := portfolio.NewClientGroup(tenantID, "Retail Accounts", "")
	require.NoError(t, err)
	require.NoError(t, groupRepo.Save(context.Background(), group))

	client, err := portfolio.NewClient(tenantID, "Acme Retail")
	require.NoError(t, err)
	require.NoError(t, clientRepo.Save(context.Background(), client))

	t.Run("adds a member", func(t *testing.T) {
		tc := testutil.NewTestContextWithRequest(t, http.MethodPost, "/groups/"+group.ID.String()+"/clients",
			newJSONRequest(t, http.MethodPost, "/groups/"+group.ID.String()+"/clients", gin.H{"client_id": client.ID}))
		tc.Authenticate(tenantID, userID)
		tc.Context.Params = gin.Params{{Key: "id", Value: group.ID.String()}}

		h.AddClient(tc.Context)

		assert.Equal(t, http.StatusOK, tc.ResponseCode())
		testutil.AssertSuccessResponse(t, tc)

		stored, err := groupRepo.FindByID(context.Background(), tenantID, group.ID)
		require.NoError(t, err)
		assert.Contains(t, stored.ClientIDs, client.ID)
	})

	t.Run("removes a member", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		tc.Authenticate(tenantID, userID)
		tc.Context.Params = gin.Params{
			{Key: "id", Value: group.ID.String()},
			{Key: "clientId", Value: client.ID.String()},
		}

		h.RemoveClient(tc.Context)

		assert.Equal(t, http.StatusOK, tc.ResponseCode())

		stored, err := groupRepo.FindByID(context.Background(), tenantID, group.ID)
		require.NoError(t, err)
		assert.NotContains(t, stored.ClientIDs, client.ID)
	})
}

func newJSONRequest(t *testing.T, method, path string, body gin.H) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}
