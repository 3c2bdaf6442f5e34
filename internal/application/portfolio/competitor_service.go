package portfolio

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CompetitorService handles competitor tracking for clients
type CompetitorService struct {
	competitorRepo portfolio.CompetitorRepository
	clientRepo     portfolio.ClientRepository
	logger         *zap.Logger
}

// NewCompetitorService creates a new competitor service
func NewCompetitorService(
	competitorRepo portfolio.CompetitorRepository,
	clientRepo portfolio.ClientRepository,
	logger *zap.Logger,
) *CompetitorService {
	return &CompetitorService{
		competitorRepo: competitorRepo,
		clientRepo:     clientRepo,
		logger:         logger,
	}
}

// Create adds a competitor to a client
func (s *CompetitorService) Create(ctx context.Context, input UpsertCompetitorInput) (*CompetitorDTO, error) {
	if _, err := s.clientRepo.FindByID(ctx, input.TenantID, input.ClientID); err != nil {
		return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
	}

	exists, err := s.competitorRepo.ExistsByName(ctx, input.TenantID, input.ClientID, input.Name)
	if err != nil {
		s.logger.Error("Failed to check competitor name", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check competitor name")
	}
	if exists {
		return nil, shared.NewDomainError("NAME_EXISTS", "This competitor is already tracked for the client")
	}

	competitor, err := portfolio.NewCompetitor(input.TenantID, input.ClientID, input.Name)
	if err != nil {
		return nil, err
	}

	if input.Website != "" || input.Strength != "" || input.Advantages != "" || input.Notes != "" {
		strength := portfolio.CompetitorStrength(input.Strength)
		if err := competitor.Update(input.Website, strength, input.Advantages, input.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.competitorRepo.Save(ctx, competitor); err != nil {
		s.logger.Error("Failed to create competitor", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create competitor")
	}

	s.logger.Info("Competitor created",
		zap.String("competitor_id", competitor.ID.String()),
		zap.String("client_id", input.ClientID.String()))

	return toCompetitorDTO(competitor), nil
}

// ListByClient returns the competitors tracked for a client
func (s *CompetitorService) ListByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]CompetitorDTO, error) {
	competitors, err := s.competitorRepo.FindByClient(ctx, tenantID, clientID)
	if err != nil {
		s.logger.Error("Failed to list competitors", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list competitors")
	}

	dtos := make([]CompetitorDTO, len(competitors))
	for i, c := range competitors {
		dtos[i] = *toCompetitorDTO(&c)
	}
	return dtos, nil
}

// Update updates a competitor's details
func (s *CompetitorService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpsertCompetitorInput) (*CompetitorDTO, error) {
	competitor, err := s.competitorRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("COMPETITOR_NOT_FOUND", "Competitor not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find competitor")
	}

	strength := portfolio.CompetitorStrength(input.Strength)
	if err := competitor.Update(input.Website, strength, input.Advantages, input.Notes); err != nil {
		return nil, err
	}

	if err := s.competitorRepo.Save(ctx, competitor); err != nil {
		s.logger.Error("Failed to update competitor", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update competitor")
	}
	return toCompetitorDTO(competitor), nil
}

// Delete removes a competitor
func (s *CompetitorService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.competitorRepo.FindByID(ctx, tenantID, id); err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("COMPETITOR_NOT_FOUND", "Competitor not found")
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find competitor")
	}

	if err := s.competitorRepo.Delete(ctx, tenantID, id); err != nil {
		s.logger.Error("Failed to delete competitor", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete competitor")
	}

	s.logger.Info("Competitor deleted", zap.String("competitor_id", id.String()))
	return nil
}

// toCompetitorDTO converts domain Competitor to CompetitorDTO
func toCompetitorDTO(c *portfolio.Competitor) *CompetitorDTO {
	return &CompetitorDTO{
		ID:         c.ID,
		ClientID:   c.ClientID,
		Name:       c.Name,
		Website:    c.Website,
		Strength:   string(c.Strength),
		Advantages: c.Advantages,
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt,
	}
}
