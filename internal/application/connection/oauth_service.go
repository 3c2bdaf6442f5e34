package connection

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// stateTTL bounds how long an OAuth consent redirect may take
const stateTTL = 10 * time.Minute

// OAuthService drives the OAuth connect/disconnect lifecycle for ad platforms
type OAuthService struct {
	registry       *connection.PlatformRegistry
	connectionRepo connection.ConnectionRepository
	platformRepo   connection.PlatformTypeRepository
	states         StateStore
	logger         *zap.Logger
}

// NewOAuthService creates a new OAuth service
func NewOAuthService(
	registry *connection.PlatformRegistry,
	connectionRepo connection.ConnectionRepository,
	platformRepo connection.PlatformTypeRepository,
	states StateStore,
	logger *zap.Logger,
) *OAuthService {
	return &OAuthService{
		registry:       registry,
		connectionRepo: connectionRepo,
		platformRepo:   platformRepo,
		states:         states,
		logger:         logger,
	}
}

// ListPlatforms returns the supported platform catalog
func (s *OAuthService) ListPlatforms(ctx context.Context) ([]PlatformTypeDTO, error) {
	platforms, err := s.platformRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list platforms", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list platforms")
	}

	registered := make(map[connection.PlatformCode]bool)
	for _, code := range s.registry.Codes() {
		registered[code] = true
	}

	dtos := make([]PlatformTypeDTO, len(platforms))
	for i, p := range platforms {
		dtos[i] = PlatformTypeDTO{
			Code:        string(p.Code),
			Name:        p.Name,
			IsAvailable: p.IsAvailable && registered[p.Code],
		}
	}
	return dtos, nil
}

// Authorize starts the OAuth flow and returns the consent URL
func (s *OAuthService) Authorize(ctx context.Context, tenantID, userID uuid.UUID, platformCode string) (*AuthorizeResult, error) {
	code := connection.PlatformCode(platformCode)
	adapter, err := s.registry.Get(code)
	if err != nil {
		return nil, shared.NewDomainError("PLATFORM_UNAVAILABLE", "Platform is not supported")
	}

	state, err := newStateToken()
	if err != nil {
		s.logger.Error("Failed to generate state token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to start authorization")
	}

	payload := StatePayload{TenantID: tenantID, UserID: userID, Platform: platformCode}
	if err := s.states.Put(ctx, state, payload, stateTTL); err != nil {
		s.logger.Error("Failed to store OAuth state", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to start authorization")
	}

	s.logger.Info("OAuth flow started",
		zap.String("tenant_id", tenantID.String()),
		zap.String("platform", platformCode))

	return &AuthorizeResult{
		AuthorizationURL: adapter.AuthCodeURL(state),
		State:            state,
	}, nil
}

// HandleCallback consumes the OAuth callback, exchanges the code and stores
// the connection. An existing connection for the same account is re-activated
// with the new tokens.
func (s *OAuthService) HandleCallback(ctx context.Context, input CallbackInput) (*ConnectionDTO, error) {
	payload, err := s.states.Take(ctx, input.State)
	if err != nil {
		s.logger.Warn("OAuth callback with unknown state")
		return nil, shared.NewDomainError("INVALID_STATE", "Authorization state is invalid or expired")
	}

	code := connection.PlatformCode(payload.Platform)
	adapter, err := s.registry.Get(code)
	if err != nil {
		return nil, shared.NewDomainError("PLATFORM_UNAVAILABLE", "Platform is not supported")
	}

	token, err := adapter.ExchangeCode(ctx, input.Code)
	if err != nil {
		s.logger.Error("Authorization code exchange failed", zap.Error(err))
		return nil, shared.NewDomainError("EXCHANGE_FAILED", "Failed to exchange authorization code")
	}

	email, err := adapter.AccountEmail(ctx, token)
	if err != nil {
		s.logger.Error("Failed to resolve account email", zap.Error(err))
		return nil, shared.NewDomainError("EXCHANGE_FAILED", "Failed to identify the authorized account")
	}

	existing, err := s.connectionRepo.FindByAccount(ctx, payload.TenantID, code, email)
	if err == nil {
		if err := existing.ApplyToken(*token); err != nil {
			return nil, err
		}
		if err := s.connectionRepo.Save(ctx, existing); err != nil {
			s.logger.Error("Failed to update connection", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save connection")
		}
		s.logger.Info("Connection re-authorized",
			zap.String("connection_id", existing.ID.String()),
			zap.String("account_email", email))
		return toConnectionDTO(existing), nil
	}
	if err != shared.ErrNotFound {
		s.logger.Error("Failed to look up connection", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save connection")
	}

	conn, err := connection.NewPlatformConnection(payload.TenantID, code, email, *token)
	if err != nil {
		return nil, err
	}
	conn.SetCreatedBy(payload.UserID)

	if err := s.connectionRepo.Save(ctx, conn); err != nil {
		s.logger.Error("Failed to save connection", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save connection")
	}

	s.logger.Info("Connection established",
		zap.String("connection_id", conn.ID.String()),
		zap.String("tenant_id", payload.TenantID.String()),
		zap.String("account_email", email))

	return toConnectionDTO(conn), nil
}

// List returns a tenant's platform connections
func (s *OAuthService) List(ctx context.Context, tenantID uuid.UUID) ([]ConnectionDTO, error) {
	conns, err := s.connectionRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to list connections", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list connections")
	}

	dtos := make([]ConnectionDTO, len(conns))
	for i, c := range conns {
		dtos[i] = *toConnectionDTO(&c)
	}
	return dtos, nil
}

// Get returns one connection
func (s *OAuthService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ConnectionDTO, error) {
	conn, err := s.connectionRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CONNECTION_NOT_FOUND", "Connection not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find connection")
	}
	return toConnectionDTO(conn), nil
}

// Disconnect revokes the tokens at the platform and marks the connection
// disconnected. Historical data tied to the connection is kept.
func (s *OAuthService) Disconnect(ctx context.Context, tenantID, id uuid.UUID) (*ConnectionDTO, error) {
	conn, err := s.connectionRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CONNECTION_NOT_FOUND", "Connection not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find connection")
	}

	if adapter, err := s.registry.Get(conn.PlatformCode); err == nil && conn.RefreshToken != "" {
		// Best effort: the platform may already consider the grant gone
		if err := adapter.Revoke(ctx, conn.RefreshToken); err != nil {
			s.logger.Warn("Token revocation failed",
				zap.String("connection_id", id.String()),
				zap.Error(err))
		}
	}

	conn.Disconnect()

	if err := s.connectionRepo.Save(ctx, conn); err != nil {
		s.logger.Error("Failed to save disconnected connection", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to disconnect")
	}

	s.logger.Info("Connection disconnected", zap.String("connection_id", id.String()))
	return toConnectionDTO(conn), nil
}

// EnsureFreshToken refreshes the access token if it is near expiry and returns
// a usable access token. Used by the sync services before every platform call.
func (s *OAuthService) EnsureFreshToken(ctx context.Context, conn *connection.PlatformConnection) (string, error) {
	if !conn.CanSync() {
		return "", shared.ErrNotConnected
	}
	if !conn.NeedsRefresh(time.Now()) {
		return conn.AccessToken, nil
	}

	adapter, err := s.registry.Get(conn.PlatformCode)
	if err != nil {
		return "", err
	}

	token, err := adapter.Refresh(ctx, conn.RefreshToken)
	if err != nil {
		conn.MarkError("Token refresh failed: " + err.Error())
		if saveErr := s.connectionRepo.Save(ctx, conn); saveErr != nil {
			s.logger.Error("Failed to persist connection status", zap.Error(saveErr))
		}
		s.logger.Warn("Token refresh failed",
			zap.String("connection_id", conn.ID.String()),
			zap.Error(err))
		return "", shared.ErrTokenExpired
	}

	if err := conn.ApplyToken(*token); err != nil {
		return "", err
	}
	if err := s.connectionRepo.Save(ctx, conn); err != nil {
		s.logger.Error("Failed to persist refreshed token", zap.Error(err))
		return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to store refreshed token")
	}

	s.logger.Debug("Access token refreshed", zap.String("connection_id", conn.ID.String()))
	return conn.AccessToken, nil
}

// newStateToken generates an unguessable OAuth state token
func newStateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// toConnectionDTO converts a domain connection to its DTO, dropping tokens
func toConnectionDTO(c *connection.PlatformConnection) *ConnectionDTO {
	return &ConnectionDTO{
		ID:            c.ID,
		Platform:      string(c.PlatformCode),
		AccountEmail:  c.AccountEmail,
		Status:        string(c.Status),
		StatusMessage: c.StatusMessage,
		TokenExpiry:   c.TokenExpiry,
		LastSyncedAt:  c.LastSyncedAt,
		CreatedAt:     c.CreatedAt,
	}
}
