package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/domain/repository"
)

func adviceRepos(t *testing.T) map[string]repository.AdviceLogRepository {
	t.Helper()

	sqliteRepo, err := NewSQLiteAdviceRepository(filepath.Join(t.TempDir(), "data", "advice.db"), 3)
	require.NoError(t, err)
	t.Cleanup(func() { sqliteRepo.Close() })

	return map[string]repository.AdviceLogRepository{
		"memory": NewMemoryAdviceRepository(3),
		"sqlite": sqliteRepo,
	}
}

func record(userID int64, n int, base time.Time) entity.AdviceRecord {
	return entity.AdviceRecord{
		ID:        fmt.Sprintf("u%d-%d", userID, n),
		UserID:    userID,
		Username:  "buyer",
		Prompt:    fmt.Sprintf("question %d", n),
		Response:  fmt.Sprintf("answer %d", n),
		Outcome:   entity.AdviceAnswered,
		Timestamp: base.Add(time.Duration(n) * time.Minute),
	}
}

func TestAdviceLog(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for name, repo := range adviceRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for n := 1; n <= 5; n++ {
				require.NoError(t, repo.Save(ctx, record(1, n, base)))
			}
			require.NoError(t, repo.Save(ctx, record(2, 10, base)))

			history, err := repo.GetHistory(ctx, 1, 0)
			require.NoError(t, err)
			require.Len(t, history, 3, "per-user cap")
			assert.Equal(t, "question 3", history[0].Prompt)
			assert.Equal(t, "question 5", history[2].Prompt)
			assert.Equal(t, entity.AdviceAnswered, history[2].Outcome)
			assert.True(t, history[2].Timestamp.Equal(base.Add(5*time.Minute)))

			last, err := repo.GetHistory(ctx, 1, 2)
			require.NoError(t, err)
			require.Len(t, last, 2)
			assert.Equal(t, "question 4", last[0].Prompt)

			all, err := repo.GetAll(ctx, 2)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "question 10", all[0].Prompt, "newest first")

			require.NoError(t, repo.ClearHistory(ctx, 1))
			history, err = repo.GetHistory(ctx, 1, 0)
			require.NoError(t, err)
			assert.Empty(t, history)

			require.NoError(t, repo.ClearAll(ctx))
			all, err = repo.GetAll(ctx, 0)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestNewSQLiteAdviceRepository_EmptyPath(t *testing.T) {
	_, err := NewSQLiteAdviceRepository("", 10)
	assert.Error(t, err)
}
