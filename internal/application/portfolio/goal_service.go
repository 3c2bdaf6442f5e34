package portfolio

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// GoalService manages performance goals and tenant defaults
type GoalService struct {
	goalRepo   portfolio.GoalRepository
	clientRepo portfolio.ClientRepository
	logger     *zap.Logger
}

// NewGoalService creates a new goal service
func NewGoalService(
	goalRepo portfolio.GoalRepository,
	clientRepo portfolio.ClientRepository,
	logger *zap.Logger,
) *GoalService {
	return &GoalService{
		goalRepo:   goalRepo,
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// allGoalMetrics lists every metric goals can target
var allGoalMetrics = []portfolio.GoalMetric{
	portfolio.GoalMetricCTR,
	portfolio.GoalMetricConversionRate,
	portfolio.GoalMetricCPC,
	portfolio.GoalMetricCPA,
}

// SetClientGoals sets or updates a client's goal targets
func (s *GoalService) SetClientGoals(ctx context.Context, tenantID, clientID uuid.UUID, input GoalTargetsInput) (*GoalDTO, error) {
	if _, err := s.clientRepo.FindByID(ctx, tenantID, clientID); err != nil {
		return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
	}

	goal, err := s.goalRepo.FindByClient(ctx, tenantID, clientID)
	if err != nil {
		if err != shared.ErrNotFound {
			s.logger.Error("Failed to load goals", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load goals")
		}
		goal = portfolio.NewPerformanceGoal(tenantID, clientID)
	}

	if err := goal.SetTarget(portfolio.GoalMetricCTR, input.CTRTarget); err != nil {
		return nil, err
	}
	if err := goal.SetTarget(portfolio.GoalMetricConversionRate, input.ConversionTarget); err != nil {
		return nil, err
	}
	if err := goal.SetTarget(portfolio.GoalMetricCPC, input.CPCTarget); err != nil {
		return nil, err
	}
	if err := goal.SetTarget(portfolio.GoalMetricCPA, input.CPATarget); err != nil {
		return nil, err
	}
	if input.UseTenantFallbacks != nil {
		goal.UseTenantFallbacks = *input.UseTenantFallbacks
	}

	if err := s.goalRepo.SaveGoal(ctx, goal); err != nil {
		s.logger.Error("Failed to save goals", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save goals")
	}

	s.logger.Info("Client goals updated", zap.String("client_id", clientID.String()))
	return s.resolveClientGoals(ctx, tenantID, clientID, goal)
}

// GetClientGoals returns a client's effective goals after fallback resolution
func (s *GoalService) GetClientGoals(ctx context.Context, tenantID, clientID uuid.UUID) (*GoalDTO, error) {
	if _, err := s.clientRepo.FindByID(ctx, tenantID, clientID); err != nil {
		return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
	}

	goal, err := s.goalRepo.FindByClient(ctx, tenantID, clientID)
	if err != nil && err != shared.ErrNotFound {
		s.logger.Error("Failed to load goals", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load goals")
	}

	return s.resolveClientGoals(ctx, tenantID, clientID, goal)
}

// SetTenantDefaults sets the tenant-wide default goal targets
func (s *GoalService) SetTenantDefaults(ctx context.Context, tenantID uuid.UUID, input GoalTargetsInput) (*TenantGoalDefaultsDTO, error) {
	defaults, err := s.goalRepo.FindTenantDefaults(ctx, tenantID)
	if err != nil {
		if err != shared.ErrNotFound {
			s.logger.Error("Failed to load tenant defaults", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load defaults")
		}
		defaults = &portfolio.TenantGoalDefaults{
			BaseAggregateRoot: shared.NewBaseAggregateRoot(),
			TenantID:          tenantID,
		}
	}

	defaults.CTRTarget = input.CTRTarget
	defaults.ConversionTarget = input.ConversionTarget
	defaults.CPCTarget = input.CPCTarget
	defaults.CPATarget = input.CPATarget

	if err := s.goalRepo.SaveTenantDefaults(ctx, defaults); err != nil {
		s.logger.Error("Failed to save tenant defaults", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save defaults")
	}

	s.logger.Info("Tenant goal defaults updated", zap.String("tenant_id", tenantID.String()))
	return toTenantDefaultsDTO(defaults), nil
}

// GetTenantDefaults returns the tenant-wide default goal targets
func (s *GoalService) GetTenantDefaults(ctx context.Context, tenantID uuid.UUID) (*TenantGoalDefaultsDTO, error) {
	defaults, err := s.goalRepo.FindTenantDefaults(ctx, tenantID)
	if err != nil {
		if err == shared.ErrNotFound {
			return &TenantGoalDefaultsDTO{}, nil
		}
		s.logger.Error("Failed to load tenant defaults", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load defaults")
	}
	return toTenantDefaultsDTO(defaults), nil
}

func (s *GoalService) resolveClientGoals(ctx context.Context, tenantID, clientID uuid.UUID, goal *portfolio.PerformanceGoal) (*GoalDTO, error) {
	defaults, err := s.goalRepo.FindTenantDefaults(ctx, tenantID)
	if err != nil && err != shared.ErrNotFound {
		s.logger.Error("Failed to load tenant defaults", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load defaults")
	}

	dto := &GoalDTO{
		ClientID:           clientID,
		UseTenantFallbacks: goal == nil || goal.UseTenantFallbacks,
		Targets:            make([]ResolvedGoalDTO, 0, len(allGoalMetrics)),
	}
	for _, metric := range allGoalMetrics {
		resolved := portfolio.ResolveGoal(metric, goal, defaults)
		item := ResolvedGoalDTO{Metric: string(metric), Source: string(resolved.Source)}
		if resolved.Source != portfolio.GoalSourceNone {
			v := resolved.Value
			item.Value = &v
		}
		dto.Targets = append(dto.Targets, item)
	}
	return dto, nil
}

// toTenantDefaultsDTO converts TenantGoalDefaults to its DTO
func toTenantDefaultsDTO(d *portfolio.TenantGoalDefaults) *TenantGoalDefaultsDTO {
	return &TenantGoalDefaultsDTO{
		CTRTarget:        d.CTRTarget,
		ConversionTarget: d.ConversionTarget,
		CPCTarget:        d.CPCTarget,
		CPATarget:        d.CPATarget,
	}
}
