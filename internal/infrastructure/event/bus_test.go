package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pulse/backend/internal/domain/budget"
	"github.com/pulse/backend/internal/domain/shared"
)

// recordingHandler collects the events it receives
type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newBudgetCreated(tenantID uuid.UUID) *budget.BudgetCreatedEvent {
	return budget.NewBudgetCreatedEvent(uuid.New(), tenantID, string(budget.ScopeClient), decimal.NewFromInt(3100))
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("delivers to a typed subscriber", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"budget.created"}}
		bus.Subscribe(handler)

		evt := newBudgetCreated(tenantID)
		require.NoError(t, bus.Publish(ctx, evt))

		require.Len(t, handler.received, 1)
		assert.Equal(t, "budget.created", handler.received[0].EventType())
		assert.Equal(t, evt.EventID(), handler.received[0].EventID())
	})

	t.Run("skips subscribers of other event types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		alerts := &recordingHandler{types: []string{"budget.alert_raised"}}
		bus.Subscribe(alerts)

		require.NoError(t, bus.Publish(ctx, newBudgetCreated(tenantID)))
		assert.Empty(t, alerts.received)
	})

	t.Run("wildcard subscribers receive everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		audit := &recordingHandler{}
		bus.Subscribe(audit)

		require.NoError(t, bus.Publish(ctx, newBudgetCreated(tenantID)))
		require.NoError(t, bus.Publish(ctx,
			budget.NewBudgetAlertRaisedEvent(uuid.New(), uuid.New(), tenantID, string(budget.AlertOverspend), decimal.NewFromInt(15))))

		assert.Len(t, audit.received, 2)
	})

	t.Run("a failing handler does not block the others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"budget.created"}, err: errors.New("projection write failed")}
		healthy := &recordingHandler{types: []string{"budget.created"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newBudgetCreated(tenantID)))
		assert.Len(t, healthy.received, 1)
	})

	t.Run("a panicking handler is recovered", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{types: []string{"budget.created"}, panics: true}
		healthy := &recordingHandler{types: []string{"budget.created"}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NotPanics(t, func() {
			require.NoError(t, bus.Publish(ctx, newBudgetCreated(tenantID)))
		})
		assert.Len(t, healthy.received, 1)
	})

	t.Run("unsubscribed handlers stop receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"budget.created"}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		require.NoError(t, bus.Publish(ctx, newBudgetCreated(tenantID)))
		assert.Empty(t, handler.received)
	})
}

func TestHandlerRegistry(t *testing.T) {
	t.Run("typed handlers come before wildcard handlers", func(t *testing.T) {
		registry := NewHandlerRegistry()
		typed := &recordingHandler{}
		wildcard := &recordingHandler{}
		registry.Register(typed, "budget.created")
		registry.Register(wildcard)

		handlers := registry.GetHandlers("budget.created")
		require.Len(t, handlers, 2)
		assert.Same(t, typed, handlers[0].(*recordingHandler))
		assert.Same(t, wildcard, handlers[1].(*recordingHandler))
	})

	t.Run("a handler registered for several types is listed once", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := &recordingHandler{}
		registry.Register(handler, "budget.created", "budget.alert_raised")

		assert.Len(t, registry.GetAllHandlers(), 1)
	})

	t.Run("unregister clears every type", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := &recordingHandler{}
		registry.Register(handler, "budget.created", "budget.alert_raised")
		registry.Unregister(handler)

		assert.Empty(t, registry.GetHandlers("budget.created"))
		assert.Empty(t, registry.GetHandlers("budget.alert_raised"))
	})
}
