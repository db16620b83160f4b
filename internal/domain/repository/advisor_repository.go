package repository

import (
	"context"

	"github.com/zmcomputers/storefront/internal/domain/entity"
)

// Advisor shopping assistant boundary. Implementations never fail: every
// call resolves to displayable text.
type Advisor interface {
	// GetAdvice answer text for prompt
	GetAdvice(ctx context.Context, prompt string) string

	// Advise same as GetAdvice, with the outcome attached
	Advise(ctx context.Context, prompt string) entity.Advice
}

// AdviceLogRepository operator-facing history of assistant exchanges
type AdviceLogRepository interface {
	Save(ctx context.Context, record entity.AdviceRecord) error

	// GetHistory last limit records of a user, oldest first. limit <= 0 means all.
	GetHistory(ctx context.Context, userID int64, limit int) ([]entity.AdviceRecord, error)

	// GetAll newest first across users
	GetAll(ctx context.Context, limit int) ([]entity.AdviceRecord, error)

	ClearHistory(ctx context.Context, userID int64) error
	ClearAll(ctx context.Context) error
}
