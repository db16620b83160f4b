package storage

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/domain/repository"
)

// AdminSessionTTL idle time after which an operator has to log in again
const AdminSessionTTL = 24 * time.Hour

type memoryAdminRepository struct {
	mu       sync.RWMutex
	clock    clock.Clock
	sessions map[int64]entity.AdminSession
	actions  []entity.AdminAction
}

// NewMemoryAdminRepository in-memory operator sessions. A nil clock means wall time.
func NewMemoryAdminRepository(clk clock.Clock) repository.AdminRepository {
	if clk == nil {
		clk = clock.New()
	}
	return &memoryAdminRepository{
		clock:    clk,
		sessions: make(map[int64]entity.AdminSession),
	}
}

func (m *memoryAdminRepository) CreateSession(ctx context.Context, session entity.AdminSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session.LastActivity = m.clock.Now()
	m.sessions[session.UserID] = session
	return nil
}

func (m *memoryAdminRepository) GetSession(ctx context.Context, userID int64) (*entity.AdminSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[userID]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return &session, nil
}

func (m *memoryAdminRepository) DeleteSession(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}

// IsAdmin a live check also refreshes LastActivity
func (m *memoryAdminRepository) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[userID]
	if !exists {
		return false, nil
	}

	now := m.clock.Now()
	if now.Sub(session.LastActivity) > AdminSessionTTL {
		delete(m.sessions, userID)
		return false, nil
	}

	session.LastActivity = now
	m.sessions[userID] = session
	return session.IsAdmin, nil
}

func (m *memoryAdminRepository) LogAction(ctx context.Context, action entity.AdminAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.actions = append(m.actions, action)
	return nil
}

func (m *memoryAdminRepository) Actions(ctx context.Context) ([]entity.AdminAction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]entity.AdminAction(nil), m.actions...), nil
}
