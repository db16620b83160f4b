package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/domain/repository"
)

type memoryAdviceRepository struct {
	mu      sync.RWMutex
	records map[int64][]entity.AdviceRecord
	maxSize int
}

// NewMemoryAdviceRepository in-memory advice log, used when no database path is configured
func NewMemoryAdviceRepository(maxPerUser int) repository.AdviceLogRepository {
	return &memoryAdviceRepository{
		records: make(map[int64][]entity.AdviceRecord),
		maxSize: maxPerUser,
	}
}

func (m *memoryAdviceRepository) Save(ctx context.Context, record entity.AdviceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := append(m.records[record.UserID], record)
	if m.maxSize > 0 && len(records) > m.maxSize {
		records = records[len(records)-m.maxSize:]
	}
	m.records[record.UserID] = records
	return nil
}

func (m *memoryAdviceRepository) GetHistory(ctx context.Context, userID int64, limit int) ([]entity.AdviceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.records[userID]
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return append([]entity.AdviceRecord(nil), records...), nil
}

func (m *memoryAdviceRepository) GetAll(ctx context.Context, limit int) ([]entity.AdviceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []entity.AdviceRecord
	for _, records := range m.records {
		all = append(all, records...)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memoryAdviceRepository) ClearHistory(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, userID)
	return nil
}

func (m *memoryAdviceRepository) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make(map[int64][]entity.AdviceRecord)
	return nil
}
