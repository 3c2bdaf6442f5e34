package ads

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
)

type fakeClientAccountRepo struct {
	accounts map[uuid.UUID]*connection.ClientAccount
}

func newFakeClientAccountRepo() *fakeClientAccountRepo {
	return &fakeClientAccountRepo{accounts: make(map[uuid.UUID]*connection.ClientAccount)}
}

func (r *fakeClientAccountRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*connection.ClientAccount, error) {
	if a, ok := r.accounts[id]; ok && a.TenantID == tenantID {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeClientAccountRepo) FindByClient(_ context.Context, tenantID, clientID uuid.UUID, includeInactive bool) ([]connection.ClientAccount, error) {
	var out []connection.ClientAccount
	for _, a := range r.accounts {
		if a.TenantID != tenantID || a.ClientID != clientID {
			continue
		}
		if !includeInactive && !a.IsActive {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeClientAccountRepo) FindByConnection(_ context.Context, tenantID, connectionID uuid.UUID) ([]connection.ClientAccount, error) {
	var out []connection.ClientAccount
	for _, a := range r.accounts {
		if a.TenantID == tenantID && a.ConnectionID == connectionID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeClientAccountRepo) FindActiveForTenant(_ context.Context, tenantID uuid.UUID) ([]connection.ClientAccount, error) {
	var out []connection.ClientAccount
	for _, a := range r.accounts {
		if a.TenantID == tenantID && a.IsActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeClientAccountRepo) Find(_ context.Context, tenantID, clientID, connectionID uuid.UUID, customerID string) (*connection.ClientAccount, error) {
	for _, a := range r.accounts {
		if a.TenantID == tenantID && a.ClientID == clientID && a.ConnectionID == connectionID && a.CustomerID == customerID {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeClientAccountRepo) Save(_ context.Context, account *connection.ClientAccount) error {
	copied := *account
	r.accounts[account.ID] = &copied
	return nil
}

func (r *fakeClientAccountRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	delete(r.accounts, id)
	return nil
}

func TestClientArchivedHandler_DeactivatesLinks(t *testing.T) {
	repo := newFakeClientAccountRepo()
	handler := NewClientArchivedHandler(repo, zap.NewNop())

	tenantID := uuid.New()
	client, err := portfolio.NewClient(tenantID, "Globex")
	require.NoError(t, err)

	connectionID := uuid.New()
	link1, err := connection.NewClientAccount(tenantID, client.ID, connectionID, "1234567890", "Globex Search")
	require.NoError(t, err)
	link2, err := connection.NewClientAccount(tenantID, client.ID, connectionID, "2345678901", "Globex Display")
	require.NoError(t, err)
	otherLink, err := connection.NewClientAccount(tenantID, uuid.New(), connectionID, "3456789012", "Other Client")
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), link1))
	require.NoError(t, repo.Save(context.Background(), link2))
	require.NoError(t, repo.Save(context.Background(), otherLink))

	event := portfolio.NewClientArchivedEvent(client)
	require.NoError(t, handler.Handle(context.Background(), event))

	assert.False(t, repo.accounts[link1.ID].IsActive)
	assert.False(t, repo.accounts[link2.ID].IsActive)
	assert.True(t, repo.accounts[otherLink.ID].IsActive, "other clients' links stay active")
}

func TestClientArchivedHandler_EventTypes(t *testing.T) {
	handler := NewClientArchivedHandler(newFakeClientAccountRepo(), zap.NewNop())
	assert.Equal(t, []string{portfolio.EventTypeClientArchived}, handler.EventTypes())
}

func TestClientArchivedHandler_RejectsWrongEventType(t *testing.T) {
	repo := newFakeClientAccountRepo()
	handler := NewClientArchivedHandler(repo, zap.NewNop())

	tenantID := uuid.New()
	client, err := portfolio.NewClient(tenantID, "Globex")
	require.NoError(t, err)

	err = handler.Handle(context.Background(), portfolio.NewClientCreatedEvent(client))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected event type")
}

func TestClientArchivedHandler_NoLinks(t *testing.T) {
	repo := newFakeClientAccountRepo()
	handler := NewClientArchivedHandler(repo, zap.NewNop())

	tenantID := uuid.New()
	client, err := portfolio.NewClient(tenantID, "Globex")
	require.NoError(t, err)

	require.NoError(t, handler.Handle(context.Background(), portfolio.NewClientArchivedEvent(client)))
}
