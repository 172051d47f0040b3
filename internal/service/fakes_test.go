// File: internal/service/fakes_test.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	domainErrors "github.com/identity-platform/sso-service/internal/domain/errors"
	"github.com/identity-platform/sso-service/internal/domain/models"
)

// fakeSessionStore is an in-memory SessionStore honoring the atomic
// contracts of the Redis implementation: Rotate is delete+write under one
// lock, Delete is idempotent.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	expiry   map[string]time.Time
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]*models.Session),
		expiry:   make(map[string]time.Time),
	}
}

func (f *fakeSessionStore) Save(_ context.Context, key string, session *models.Session, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *session
	f.sessions[key] = &copied
	f.expiry[key] = time.Now().Add(ttl)
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, key string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[key]
	if !ok || time.Now().After(f.expiry[key]) {
		return nil, domainErrors.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionStore) Rotate(_ context.Context, oldKey, newKey string, session *models.Session, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[oldKey]; !ok {
		return false, nil
	}
	delete(f.sessions, oldKey)
	delete(f.expiry, oldKey)
	copied := *session
	f.sessions[newKey] = &copied
	f.expiry[newKey] = time.Now().Add(ttl)
	return true, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, key)
	delete(f.expiry, key)
	return nil
}

func (f *fakeSessionStore) HasActive(_ context.Context, accountID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for key, session := range f.sessions {
		if session.AccountID == accountID && now.Before(f.expiry[key]) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSessionStore) DeleteAllForAccount(_ context.Context, accountID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	deleted := 0
	for key, session := range f.sessions {
		if session.AccountID == accountID {
			delete(f.sessions, key)
			delete(f.expiry, key)
			deleted++
		}
	}
	return deleted, nil
}

// fakeTicketStore is an in-memory TicketStore whose TakeOnce is atomic:
// exactly one concurrent caller can consume a stored ticket.
type fakeTicketStore struct {
	mu      sync.Mutex
	tickets map[string]*models.SsoTicket
}

func newFakeTicketStore() *fakeTicketStore {
	return &fakeTicketStore{tickets: make(map[string]*models.SsoTicket)}
}

func (f *fakeTicketStore) Save(_ context.Context, ticket *models.SsoTicket, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *ticket
	f.tickets[ticket.Value] = &copied
	return nil
}

func (f *fakeTicketStore) TakeOnce(_ context.Context, value string) (*models.SsoTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[value]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	delete(f.tickets, value)
	return ticket, nil
}

// fakeViewCache is an in-memory ViewCache with TTL bookkeeping.
type fakeViewCache struct {
	mu     sync.Mutex
	views  map[uuid.UUID]*models.AuthorizationView
	expiry map[uuid.UUID]time.Time
}

func newFakeViewCache() *fakeViewCache {
	return &fakeViewCache{
		views:  make(map[uuid.UUID]*models.AuthorizationView),
		expiry: make(map[uuid.UUID]time.Time),
	}
}

func (f *fakeViewCache) GetView(_ context.Context, accountID uuid.UUID) (*models.AuthorizationView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	view, ok := f.views[accountID]
	if !ok || time.Now().After(f.expiry[accountID]) {
		return nil, domainErrors.ErrNotFound
	}
	copied := *view
	return &copied, nil
}

func (f *fakeViewCache) SetView(_ context.Context, view *models.AuthorizationView, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *view
	f.views[view.AccountID] = &copied
	f.expiry[view.AccountID] = time.Now().Add(ttl)
	return nil
}

func (f *fakeViewCache) Invalidate(_ context.Context, accountID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.views, accountID)
	delete(f.expiry, accountID)
	return nil
}

// MockAccountRepository is the testify mock over the account record store.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByPhone(ctx context.Context, phone string) (*models.Account, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) IncrementFailedAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepository) ResetFailedAttempts(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountRepository) Lock(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockAccountRepository) Unlock(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time, ip string) error {
	args := m.Called(ctx, id, at, ip)
	return args.Error(0)
}

// MockRoleAssignmentRepository is the testify mock over role assignments.
type MockRoleAssignmentRepository struct {
	mock.Mock
}

func (m *MockRoleAssignmentRepository) RoleCodesForAccount(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRoleAssignmentRepository) Assign(ctx context.Context, accountID uuid.UUID, roleCode string) error {
	args := m.Called(ctx, accountID, roleCode)
	return args.Error(0)
}

func (m *MockRoleAssignmentRepository) Remove(ctx context.Context, accountID uuid.UUID, roleCode string) error {
	args := m.Called(ctx, accountID, roleCode)
	return args.Error(0)
}
