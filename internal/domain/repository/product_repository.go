package repository

import (
	"context"

	"github.com/zmcomputers/storefront/internal/domain/entity"
)

// ProductRepository read access to the catalog plus whole-catalog replacement.
// Listing methods return products in catalog order.
type ProductRepository interface {
	// GetByID returns ErrNotFound for unknown ids
	GetByID(ctx context.Context, id string) (*entity.Product, error)

	// Search free-text search over name, category and specs
	Search(ctx context.Context, query string) ([]entity.Product, error)

	// GetByCategory case-insensitive category match
	GetByCategory(ctx context.Context, category string) ([]entity.Product, error)

	// Categories distinct categories in first-seen order
	Categories(ctx context.Context) ([]string, error)

	GetAll(ctx context.Context) ([]entity.Product, error)

	// UpdateCatalog replaces the whole catalog
	UpdateCatalog(ctx context.Context, catalog entity.ProductCatalog) error

	// GetCatalog returns ErrNotFound before the first import
	GetCatalog(ctx context.Context) (*entity.ProductCatalog, error)

	Clear(ctx context.Context) error
}
