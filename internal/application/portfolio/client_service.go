package portfolio

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ClientService handles client management operations
type ClientService struct {
	clientRepo portfolio.ClientRepository
	groupRepo  portfolio.GroupRepository
	eventBus   shared.EventPublisher
	logger     *zap.Logger
}

// NewClientService creates a new client service
func NewClientService(
	clientRepo portfolio.ClientRepository,
	groupRepo portfolio.GroupRepository,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		groupRepo:  groupRepo,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ClientService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventBus = publisher
}

// publishEvents publishes the aggregate's pending domain events
func (s *ClientService) publishEvents(ctx context.Context, client *portfolio.Client) {
	if s.eventBus == nil {
		return
	}
	for _, event := range client.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	client.ClearDomainEvents()
}

// Create creates a new client and maintains the auto category groups
func (s *ClientService) Create(ctx context.Context, input CreateClientInput) (*ClientDTO, error) {
	s.logger.Info("Creating client",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("name", input.Name))

	exists, err := s.clientRepo.ExistsByName(ctx, input.TenantID, input.Name)
	if err != nil {
		s.logger.Error("Failed to check client name", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check name availability")
	}
	if exists {
		return nil, shared.NewDomainError("NAME_EXISTS", "A client with this name already exists")
	}

	client, err := portfolio.NewClient(input.TenantID, input.Name)
	if err != nil {
		return nil, err
	}

	if err := s.applyProfile(client, applyProfileInput{
		Description:       strPtr(input.Description),
		Website:           strPtr(input.Website),
		Industry:          strPtr(input.Industry),
		CompanySize:       strPtr(input.CompanySize),
		RevenueRange:      strPtr(input.RevenueRange),
		GeographicFocus:   strPtr(input.GeographicFocus),
		MarketingMaturity: strPtr(input.MarketingMaturity),
		BusinessModels:    input.BusinessModels,
	}); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		s.logger.Error("Failed to create client", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create client")
	}

	s.syncCategoryGroups(ctx, client)
	s.publishEvents(ctx, client)

	s.logger.Info("Client created",
		zap.String("client_id", client.ID.String()),
		zap.String("tenant_id", input.TenantID.String()))

	return toClientDTO(client), nil
}

// Get retrieves a client by ID
func (s *ClientService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ClientDTO, error) {
	client, err := s.clientRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		s.logger.Error("Failed to find client", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find client")
	}
	return toClientDTO(client), nil
}

// List retrieves a paginated list of clients
func (s *ClientService) List(ctx context.Context, tenantID uuid.UUID, filter ClientFilter) (*ClientListResult, error) {
	sharedFilter := filter.ToSharedFilter()

	clients, err := s.clientRepo.FindAll(ctx, tenantID, sharedFilter)
	if err != nil {
		s.logger.Error("Failed to list clients", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list clients")
	}

	total, err := s.clientRepo.Count(ctx, tenantID, sharedFilter)
	if err != nil {
		s.logger.Error("Failed to count clients", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count clients")
	}

	pageSize := sharedFilter.PageSize
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = *toClientDTO(&c)
	}

	return &ClientListResult{
		Clients:    dtos,
		Total:      total,
		Page:       sharedFilter.Page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Update updates a client's profile and maintains the auto category groups
func (s *ClientService) Update(ctx context.Context, input UpdateClientInput) (*ClientDTO, error) {
	client, err := s.clientRepo.FindByID(ctx, input.TenantID, input.ClientID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find client")
	}

	if input.Name != nil && *input.Name != client.Name {
		exists, err := s.clientRepo.ExistsByName(ctx, input.TenantID, *input.Name)
		if err != nil {
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check name availability")
		}
		if exists {
			return nil, shared.NewDomainError("NAME_EXISTS", "A client with this name already exists")
		}
		if err := client.Rename(*input.Name); err != nil {
			return nil, err
		}
	}

	if err := s.applyProfile(client, applyProfileInput{
		Description:       input.Description,
		Website:           input.Website,
		LogoURL:           input.LogoURL,
		Industry:          input.Industry,
		CompanySize:       input.CompanySize,
		RevenueRange:      input.RevenueRange,
		GeographicFocus:   input.GeographicFocus,
		MarketingMaturity: input.MarketingMaturity,
		BusinessModels:    input.BusinessModels,
	}); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		s.logger.Error("Failed to update client", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update client")
	}

	s.syncCategoryGroups(ctx, client)
	s.publishEvents(ctx, client)

	s.logger.Info("Client updated", zap.String("client_id", input.ClientID.String()))
	return toClientDTO(client), nil
}

// Archive archives a client. Archived clients keep their data but drop out of
// listings and analytics.
func (s *ClientService) Archive(ctx context.Context, tenantID, id uuid.UUID) (*ClientDTO, error) {
	client, err := s.clientRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find client")
	}

	if err := client.Archive(); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		s.logger.Error("Failed to archive client", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to archive client")
	}

	s.publishEvents(ctx, client)

	s.logger.Info("Client archived", zap.String("client_id", id.String()))
	return toClientDTO(client), nil
}

// Unarchive restores an archived client
func (s *ClientService) Unarchive(ctx context.Context, tenantID, id uuid.UUID) (*ClientDTO, error) {
	client, err := s.clientRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find client")
	}

	if err := client.Unarchive(); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		s.logger.Error("Failed to unarchive client", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to unarchive client")
	}

	s.publishEvents(ctx, client)

	s.logger.Info("Client unarchived", zap.String("client_id", id.String()))
	return toClientDTO(client), nil
}

type applyProfileInput struct {
	Description       *string
	Website           *string
	LogoURL           *string
	Industry          *string
	CompanySize       *string
	RevenueRange      *string
	GeographicFocus   *string
	MarketingMaturity *string
	BusinessModels    []string
}

func (s *ClientService) applyProfile(client *portfolio.Client, input applyProfileInput) error {
	if input.Description != nil {
		client.SetDescription(*input.Description)
	}
	if input.Website != nil {
		if err := client.SetWebsite(*input.Website); err != nil {
			return err
		}
	}
	if input.LogoURL != nil {
		if err := client.SetLogoURL(*input.LogoURL); err != nil {
			return err
		}
	}

	if input.Industry != nil || input.CompanySize != nil || input.RevenueRange != nil ||
		input.MarketingMaturity != nil || input.GeographicFocus != nil {
		industry := client.Industry
		size := client.CompanySize
		revenue := client.RevenueRange
		maturity := client.MarketingMaturity
		geo := client.GeographicFocus
		if input.Industry != nil {
			industry = portfolio.Industry(*input.Industry)
		}
		if input.CompanySize != nil {
			size = portfolio.CompanySize(*input.CompanySize)
		}
		if input.RevenueRange != nil {
			revenue = portfolio.RevenueRange(*input.RevenueRange)
		}
		if input.MarketingMaturity != nil {
			maturity = portfolio.MarketingMaturity(*input.MarketingMaturity)
		}
		if input.GeographicFocus != nil {
			geo = *input.GeographicFocus
		}
		if err := client.SetProfile(industry, size, revenue, maturity, geo); err != nil {
			return err
		}
	}

	if input.BusinessModels != nil {
		models := make([]portfolio.BusinessModel, len(input.BusinessModels))
		for i, m := range input.BusinessModels {
			models[i] = portfolio.BusinessModel(m)
		}
		if err := client.SetBusinessModels(models); err != nil {
			return err
		}
	}
	return nil
}

// syncCategoryGroups keeps the auto-generated category groups in line with the
// client's profile. Failures are logged, not surfaced: grouping is derived
// data and the client write already succeeded.
func (s *ClientService) syncCategoryGroups(ctx context.Context, client *portfolio.Client) {
	type categorization struct {
		category portfolio.GroupCategory
		value    string
		label    string
	}
	categories := []categorization{}
	if client.Industry != "" {
		categories = append(categories, categorization{portfolio.GroupCategoryIndustry, string(client.Industry), string(client.Industry)})
	}
	if client.CompanySize != "" {
		categories = append(categories, categorization{portfolio.GroupCategoryCompanySize, string(client.CompanySize), string(client.CompanySize)})
	}
	if client.RevenueRange != "" {
		categories = append(categories, categorization{portfolio.GroupCategoryRevenueRange, string(client.RevenueRange), string(client.RevenueRange)})
	}
	if client.MarketingMaturity != "" {
		categories = append(categories, categorization{portfolio.GroupCategoryMaturity, string(client.MarketingMaturity), string(client.MarketingMaturity)})
	}

	for _, c := range categories {
		group, err := s.groupRepo.FindByCategory(ctx, client.TenantID, c.category, c.value)
		if err != nil {
			if err != shared.ErrNotFound {
				s.logger.Warn("Failed to load category group", zap.Error(err))
				continue
			}
			group, err = portfolio.NewCategoryGroup(client.TenantID, c.category, c.value, c.label)
			if err != nil {
				s.logger.Warn("Failed to build category group", zap.Error(err))
				continue
			}
		}
		if group.HasClient(client.ID) {
			continue
		}
		if err := group.AddClient(client.ID); err != nil {
			continue
		}
		if err := s.groupRepo.Save(ctx, group); err != nil {
			s.logger.Warn("Failed to save category group",
				zap.String("category", string(c.category)),
				zap.Error(err))
		}
	}
}

// toClientDTO converts domain Client to ClientDTO
func toClientDTO(client *portfolio.Client) *ClientDTO {
	models := make([]string, len(client.BusinessModels))
	for i, m := range client.BusinessModels {
		models[i] = string(m)
	}
	return &ClientDTO{
		ID:                client.ID,
		Name:              client.Name,
		Description:       client.Description,
		Website:           client.Website,
		LogoURL:           client.LogoURL,
		Industry:          string(client.Industry),
		CompanySize:       string(client.CompanySize),
		RevenueRange:      string(client.RevenueRange),
		GeographicFocus:   client.GeographicFocus,
		MarketingMaturity: string(client.MarketingMaturity),
		BusinessModels:    models,
		IsActive:          client.IsActive,
		ArchivedAt:        client.ArchivedAt,
		CreatedAt:         client.CreatedAt,
		UpdatedAt:         client.UpdatedAt,
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
