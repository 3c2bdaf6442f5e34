package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse/backend/internal/interfaces/http/dto"
)

type syncQueueFake struct {
	scheduled []uuid.UUID
	forced    []bool
	err       error
}

func (q *syncQueueFake) ScheduleMetricsSync(tenantID uuid.UUID, force bool) error {
	if q.err != nil {
		return q.err
	}
	q.scheduled = append(q.scheduled, tenantID)
	q.forced = append(q.forced, force)
	return nil
}

func newSyncTestRouter(tenantID uuid.UUID, queue SyncQueue) *gin.Engine {
	h := NewSyncHandler(nil, queue)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		setJWTContext(c, tenantID, uuid.New())
	})
	router.POST("/sync", h.TriggerTenantSync)
	return router
}

func TestSyncHandlerTriggerTenantSync(t *testing.T) {
	t.Run("queues a sync", func(t *testing.T) {
		tenantID := uuid.New()
		queue := &syncQueueFake{}
		router := newSyncTestRouter(tenantID, queue)

		w := doJSON(t, router, http.MethodPost, "/sync", gin.H{"force": true})

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, queue.scheduled, 1)
		assert.Equal(t, tenantID, queue.scheduled[0])
		assert.True(t, queue.forced[0])
	})

	t.Run("defaults force to false with empty body", func(t *testing.T) {
		tenantID := uuid.New()
		queue := &syncQueueFake{}
		router := newSyncTestRouter(tenantID, queue)

		w := doJSON(t, router, http.MethodPost, "/sync", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, queue.forced, 1)
		assert.False(t, queue.forced[0])
	})

	t.Run("503 when background sync is disabled", func(t *testing.T) {
		router := newSyncTestRouter(uuid.New(), nil)

		w := doJSON(t, router, http.MethodPost, "/sync", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "SYNC_UNAVAILABLE", resp.Error.Code)
	})

	t.Run("queue errors surface as internal errors", func(t *testing.T) {
		queue := &syncQueueFake{err: errors.New("queue full")}
		router := newSyncTestRouter(uuid.New(), queue)

		w := doJSON(t, router, http.MethodPost, "/sync", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("401 without tenant context", func(t *testing.T) {
		h := NewSyncHandler(nil, &syncQueueFake{})
		router := gin.New()
		router.POST("/sync", h.TriggerTenantSync)

		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
