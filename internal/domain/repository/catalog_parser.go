package repository

import (
	"context"

	"github.com/zmcomputers/storefront/internal/domain/entity"
)

// CatalogParser reads catalog spreadsheets
type CatalogParser interface {
	// ParseProducts reads the workbook at filePath
	ParseProducts(ctx context.Context, filePath string) ([]entity.Product, error)

	// ParseProductsFromBytes reads an uploaded workbook
	ParseProductsFromBytes(ctx context.Context, data []byte, filename string) ([]entity.Product, error)
}
