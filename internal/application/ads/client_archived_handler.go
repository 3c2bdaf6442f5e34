package ads

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
)

// ClientArchivedHandler deactivates a client's account links when the client
// is archived, so the nightly sync stops pulling metrics for it.
type ClientArchivedHandler struct {
	clientAccountRepo connection.ClientAccountRepository
	logger            *zap.Logger
}

// NewClientArchivedHandler creates a new handler for client archived events
func NewClientArchivedHandler(
	clientAccountRepo connection.ClientAccountRepository,
	logger *zap.Logger,
) *ClientArchivedHandler {
	return &ClientArchivedHandler{
		clientAccountRepo: clientAccountRepo,
		logger:            logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ClientArchivedHandler) EventTypes() []string {
	return []string{portfolio.EventTypeClientArchived}
}

// Handle processes a ClientArchivedEvent
func (h *ClientArchivedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if _, ok := event.(*portfolio.ClientArchivedEvent); !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", portfolio.EventTypeClientArchived),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			portfolio.EventTypeClientArchived, event.EventType())
	}

	tenantID := event.TenantID()
	clientID := event.AggregateID()

	accounts, err := h.clientAccountRepo.FindByClient(ctx, tenantID, clientID, false)
	if err != nil {
		h.logger.Error("failed to load account links for archived client",
			zap.String("tenant_id", tenantID.String()),
			zap.String("client_id", clientID.String()),
			zap.Error(err),
		)
		return err
	}

	deactivated := 0
	for i := range accounts {
		account := &accounts[i]
		if err := account.Deactivate(); err != nil {
			continue
		}
		if err := h.clientAccountRepo.Save(ctx, account); err != nil {
			h.logger.Error("failed to deactivate account link",
				zap.String("account_link_id", account.ID.String()),
				zap.Error(err),
			)
			continue
		}
		deactivated++
	}

	if deactivated > 0 {
		h.logger.Info("deactivated account links for archived client",
			zap.String("tenant_id", tenantID.String()),
			zap.String("client_id", clientID.String()),
			zap.Int("count", deactivated),
		)
	}

	return nil
}

// Ensure ClientArchivedHandler implements shared.EventHandler
var _ shared.EventHandler = (*ClientArchivedHandler)(nil)
