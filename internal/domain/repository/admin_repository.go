package repository

import (
	"context"

	"github.com/zmcomputers/storefront/internal/domain/entity"
)

// AdminRepository catalog operator sessions
type AdminRepository interface {
	CreateSession(ctx context.Context, session entity.AdminSession) error

	// GetSession returns ErrNotFound when the user has no session
	GetSession(ctx context.Context, userID int64) (*entity.AdminSession, error)

	// DeleteSession logout
	DeleteSession(ctx context.Context, userID int64) error

	// IsAdmin true for a live, unexpired session
	IsAdmin(ctx context.Context, userID int64) (bool, error)

	// LogAction appends to the audit trail
	LogAction(ctx context.Context, action entity.AdminAction) error

	// Actions audit trail, oldest first
	Actions(ctx context.Context) ([]entity.AdminAction, error)
}
