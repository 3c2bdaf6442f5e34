package connection

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// maxHierarchyDepth caps the manager-account walk; real hierarchies are
// shallow and a cap protects against cyclic parent references.
const maxHierarchyDepth = 10

// AccountService discovers the ad account hierarchy behind a connection and
// manages client-to-account links.
type AccountService struct {
	oauth           *OAuthService
	registry        *connection.PlatformRegistry
	connectionRepo  connection.ConnectionRepository
	adsAccountRepo  connection.AdsAccountRepository
	accountSyncRepo connection.AccountSyncRepository
	clientAcctRepo  connection.ClientAccountRepository
	logger          *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	oauth *OAuthService,
	registry *connection.PlatformRegistry,
	connectionRepo connection.ConnectionRepository,
	adsAccountRepo connection.AdsAccountRepository,
	accountSyncRepo connection.AccountSyncRepository,
	clientAcctRepo connection.ClientAccountRepository,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		oauth:           oauth,
		registry:        registry,
		connectionRepo:  connectionRepo,
		adsAccountRepo:  adsAccountRepo,
		accountSyncRepo: accountSyncRepo,
		clientAcctRepo:  clientAcctRepo,
		logger:          logger,
	}
}

// DiscoverAccounts walks the account hierarchy reachable from a connection and
// refreshes the cached AdsAccount rows. Accounts that disappeared are marked
// inactive, never deleted.
func (s *AccountService) DiscoverAccounts(ctx context.Context, tenantID, connectionID uuid.UUID) (*AccountSyncDTO, error) {
	conn, err := s.connectionRepo.FindByID(ctx, tenantID, connectionID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CONNECTION_NOT_FOUND", "Connection not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find connection")
	}

	if latest, err := s.accountSyncRepo.FindLatest(ctx, tenantID, connectionID); err == nil {
		if latest.Status == connection.SyncStatusRunning {
			return nil, shared.ErrSyncInProgress
		}
	}

	adapter, err := s.registry.Get(conn.PlatformCode)
	if err != nil {
		return nil, shared.NewDomainError("PLATFORM_UNAVAILABLE", "Platform is not supported")
	}

	sync := connection.NewAccountSync(tenantID, connectionID)
	if err := s.accountSyncRepo.Save(ctx, sync); err != nil {
		s.logger.Error("Failed to record discovery start", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to start discovery")
	}

	accessToken, err := s.oauth.EnsureFreshToken(ctx, conn)
	if err != nil {
		sync.Fail(err.Error())
		s.saveSync(ctx, sync)
		return nil, err
	}

	s.logger.Info("Account discovery started",
		zap.String("connection_id", connectionID.String()))

	discovered, partial := s.walkHierarchy(ctx, adapter, accessToken)

	existing, err := s.adsAccountRepo.FindByConnection(ctx, tenantID, connectionID)
	if err != nil {
		sync.Fail("failed to load cached accounts")
		s.saveSync(ctx, sync)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cached accounts")
	}
	existingByID := make(map[string]*connection.AdsAccount, len(existing))
	for i := range existing {
		existingByID[existing[i].CustomerID] = &existing[i]
	}

	var added, updated, deactivated int
	toSave := make([]*connection.AdsAccount, 0, len(discovered))
	seen := make(map[string]bool, len(discovered))
	for _, info := range discovered {
		customerID := connection.NormalizeCustomerID(info.CustomerID)
		seen[customerID] = true
		if account, ok := existingByID[customerID]; ok {
			account.Refresh(info, sync.StartedAt)
			toSave = append(toSave, account)
			updated++
			continue
		}
		account, err := connection.NewAdsAccount(tenantID, connectionID, info)
		if err != nil {
			s.logger.Warn("Skipping invalid account", zap.String("customer_id", info.CustomerID))
			continue
		}
		toSave = append(toSave, account)
		added++
	}

	// A partial walk cannot tell a removed account from an unreachable one;
	// the cached rows stay untouched until a clean run.
	if !partial {
		for id, account := range existingByID {
			if !seen[id] && account.Status == connection.AccountStatusActive {
				account.MarkInactive()
				toSave = append(toSave, account)
				deactivated++
			}
		}
	}

	if err := s.adsAccountRepo.SaveAll(ctx, toSave); err != nil {
		sync.Fail("failed to persist accounts")
		s.saveSync(ctx, sync)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to persist accounts")
	}

	sync.Complete(len(discovered), added, updated, deactivated, partial)
	s.saveSync(ctx, sync)

	s.logger.Info("Account discovery finished",
		zap.String("connection_id", connectionID.String()),
		zap.Int("found", len(discovered)),
		zap.Int("added", added),
		zap.Int("updated", updated),
		zap.Int("deactivated", deactivated),
		zap.Bool("partial", partial))

	return toAccountSyncDTO(sync), nil
}

// walkHierarchy fetches every account reachable from the authorized user,
// breadth-first through manager accounts. Visited ids are tracked so cyclic
// parent data cannot loop. Returns partial=true when some subtree failed.
func (s *AccountService) walkHierarchy(ctx context.Context, adapter connection.AdsPlatform, accessToken string) ([]connection.AccountInfo, bool) {
	roots, err := adapter.ListAccessibleCustomers(ctx, accessToken)
	if err != nil {
		s.logger.Warn("Failed to list accessible customers", zap.Error(err))
		return nil, true
	}

	var (
		result  []connection.AccountInfo
		partial bool
	)
	seen := make(map[string]bool)
	enumerated := make(map[string]bool)

	type managerRef struct {
		customerID string
		level      int
	}
	var managers []managerRef

	for _, id := range roots {
		customerID := connection.NormalizeCustomerID(id)
		if seen[customerID] {
			continue
		}
		info, err := adapter.GetAccountInfo(ctx, accessToken, customerID)
		if err != nil {
			s.logger.Warn("Failed to fetch account info",
				zap.String("customer_id", customerID),
				zap.Error(err))
			partial = true
			continue
		}
		info.Level = 0
		seen[customerID] = true
		result = append(result, *info)
		if info.IsManager {
			managers = append(managers, managerRef{customerID, 0})
		}
	}

	for len(managers) > 0 {
		m := managers[0]
		managers = managers[1:]

		if enumerated[m.customerID] || m.level >= maxHierarchyDepth {
			continue
		}
		enumerated[m.customerID] = true

		children, err := adapter.ListChildAccounts(ctx, accessToken, m.customerID)
		if err != nil {
			s.logger.Warn("Failed to list child accounts",
				zap.String("manager_id", m.customerID),
				zap.Error(err))
			partial = true
			continue
		}
		for _, child := range children {
			childID := connection.NormalizeCustomerID(child.CustomerID)
			if seen[childID] {
				continue
			}
			child.CustomerID = childID
			child.ParentID = m.customerID
			child.Level = m.level + 1
			seen[childID] = true
			result = append(result, child)
			if child.IsManager {
				managers = append(managers, managerRef{childID, m.level + 1})
			}
		}
	}

	return result, partial
}

// ListAccounts returns the cached account hierarchy for a connection
func (s *AccountService) ListAccounts(ctx context.Context, tenantID, connectionID uuid.UUID) ([]AdsAccountDTO, error) {
	accounts, err := s.adsAccountRepo.FindByConnection(ctx, tenantID, connectionID)
	if err != nil {
		s.logger.Error("Failed to list accounts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list accounts")
	}

	dtos := make([]AdsAccountDTO, len(accounts))
	for i, a := range accounts {
		dtos[i] = toAdsAccountDTO(&a)
	}
	return dtos, nil
}

// GetLatestSync returns the most recent discovery run for a connection
func (s *AccountService) GetLatestSync(ctx context.Context, tenantID, connectionID uuid.UUID) (*AccountSyncDTO, error) {
	sync, err := s.accountSyncRepo.FindLatest(ctx, tenantID, connectionID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("SYNC_NOT_FOUND", "No discovery has run for this connection")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load discovery status")
	}
	return toAccountSyncDTO(sync), nil
}

// LinkClientAccount links a client to a discovered ad account. Manager
// accounts cannot be linked because the platform refuses metrics for them.
func (s *AccountService) LinkClientAccount(ctx context.Context, input LinkAccountInput) (*ClientAccountDTO, error) {
	customerID := connection.NormalizeCustomerID(input.CustomerID)

	cached, err := s.adsAccountRepo.FindByCustomerID(ctx, input.TenantID, input.ConnectionID, customerID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Ad account not found; run discovery first")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to look up account")
	}
	if cached.IsManager {
		return nil, shared.NewDomainError("MANAGER_ACCOUNT", "Manager accounts cannot be linked to a client")
	}

	if existing, err := s.clientAcctRepo.Find(ctx, input.TenantID, input.ClientID, input.ConnectionID, customerID); err == nil {
		if existing.IsActive {
			return nil, shared.NewDomainError("ALREADY_LINKED", "This account is already linked to the client")
		}
		if err := existing.Reactivate(); err != nil {
			return nil, err
		}
		if err := s.clientAcctRepo.Save(ctx, existing); err != nil {
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to reactivate link")
		}
		return toClientAccountDTO(existing), nil
	}

	name := input.AccountName
	if name == "" {
		name = cached.Name
	}
	link, err := connection.NewClientAccount(input.TenantID, input.ClientID, input.ConnectionID, customerID, name)
	if err != nil {
		return nil, err
	}

	if err := s.clientAcctRepo.Save(ctx, link); err != nil {
		s.logger.Error("Failed to link account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to link account")
	}

	s.logger.Info("Client account linked",
		zap.String("client_id", input.ClientID.String()),
		zap.String("customer_id", customerID))

	return toClientAccountDTO(link), nil
}

// UnlinkClientAccount deactivates a client-to-account link, keeping history
func (s *AccountService) UnlinkClientAccount(ctx context.Context, tenantID, linkID uuid.UUID) (*ClientAccountDTO, error) {
	link, err := s.clientAcctRepo.FindByID(ctx, tenantID, linkID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("LINK_NOT_FOUND", "Account link not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find link")
	}

	if err := link.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.clientAcctRepo.Save(ctx, link); err != nil {
		s.logger.Error("Failed to unlink account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to unlink account")
	}

	s.logger.Info("Client account unlinked", zap.String("link_id", linkID.String()))
	return toClientAccountDTO(link), nil
}

// ListClientAccounts returns the account links for a client
func (s *AccountService) ListClientAccounts(ctx context.Context, tenantID, clientID uuid.UUID, includeInactive bool) ([]ClientAccountDTO, error) {
	links, err := s.clientAcctRepo.FindByClient(ctx, tenantID, clientID, includeInactive)
	if err != nil {
		s.logger.Error("Failed to list client accounts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list client accounts")
	}

	dtos := make([]ClientAccountDTO, len(links))
	for i, l := range links {
		dtos[i] = *toClientAccountDTO(&l)
	}
	return dtos, nil
}

func (s *AccountService) saveSync(ctx context.Context, sync *connection.AccountSync) {
	if err := s.accountSyncRepo.Save(ctx, sync); err != nil {
		s.logger.Error("Failed to save discovery audit", zap.Error(err))
	}
}

func toAdsAccountDTO(a *connection.AdsAccount) AdsAccountDTO {
	return AdsAccountDTO{
		ID:           a.ID,
		CustomerID:   a.FormattedCustomerID(),
		Name:         a.Name,
		IsManager:    a.IsManager,
		CurrencyCode: a.CurrencyCode,
		Timezone:     a.Timezone,
		ParentID:     a.ParentID,
		Level:        a.Level,
		Status:       string(a.Status),
		LastSeenAt:   a.LastSeenAt,
	}
}

func toAccountSyncDTO(s *connection.AccountSync) *AccountSyncDTO {
	return &AccountSyncDTO{
		ID:                  s.ID,
		ConnectionID:        s.ConnectionID,
		Status:              string(s.Status),
		AccountsFound:       s.AccountsFound,
		AccountsAdded:       s.AccountsAdded,
		AccountsUpdated:     s.AccountsUpdated,
		AccountsDeactivated: s.AccountsDeactivated,
		ErrorMessage:        s.ErrorMessage,
		StartedAt:           s.StartedAt,
		FinishedAt:          s.CompletedAt,
	}
}

func toClientAccountDTO(l *connection.ClientAccount) *ClientAccountDTO {
	return &ClientAccountDTO{
		ID:                  l.ID,
		ClientID:            l.ClientID,
		ConnectionID:        l.ConnectionID,
		CustomerID:          l.CustomerID,
		FormattedCustomerID: l.FormattedCustomerID(),
		AccountName:         l.AccountName,
		IsActive:            l.IsActive,
		DeactivatedAt:       l.DeactivatedAt,
		CreatedAt:           l.CreatedAt,
	}
}
