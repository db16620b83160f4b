package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/domain/repository"
)

func testCatalog() entity.ProductCatalog {
	return entity.ProductCatalog{
		Source: "test.xlsx",
		Products: []entity.Product{
			{ID: "p1", Name: "ZBook Studio G10", Category: "Laptops", Specs: []string{"Core i9", "32GB DDR5"}},
			{ID: "p2", Name: "UltraSharp U2723QE", Category: "Monitors", Specs: []string{"27 inch", "4K IPS"}},
			{ID: "p3", Name: "ThinkPad P16 Gen 2", Category: "Laptops", Specs: []string{"RTX 4000 Ada"}},
			{ID: "p4", Name: "Samsung 990 Pro 2TB", Category: "Storage", Specs: []string{"NVMe"}},
			{ID: "p5", Name: "Legion Pro 7i", Category: "Laptops", Specs: []string{"RTX 4090", "32GB DDR5"}},
		},
	}
}

func newLoadedRepo(t *testing.T) repository.ProductRepository {
	t.Helper()
	repo := NewMemoryProductRepository()
	require.NoError(t, repo.UpdateCatalog(context.Background(), testCatalog()))
	return repo
}

func ids(products []entity.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestMemoryProductRepository_CatalogOrder(t *testing.T) {
	ctx := context.Background()
	repo := newLoadedRepo(t)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, ids(all))

	laptops, err := repo.GetByCategory(ctx, " laptops ")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3", "p5"}, ids(laptops))

	cats, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptops", "Monitors", "Storage"}, cats)
}

func TestMemoryProductRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := newLoadedRepo(t)

	p, err := repo.GetByID(ctx, "p4")
	require.NoError(t, err)
	assert.Equal(t, "Samsung 990 Pro 2TB", p.Name)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemoryProductRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := newLoadedRepo(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"", nil},
		{"laptops", []string{"p1", "p3", "p5"}},
		{"rtx 4090", []string{"p5"}},
		{"32gb laptop", []string{"p1", "p5"}},
		{"do you have nvme", []string{"p4"}},
		{"thinkpad-p16", []string{"p3"}},
		{"990pro", []string{"p4"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := repo.Search(ctx, tt.query)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestMemoryProductRepository_SearchFuzzyFallback(t *testing.T) {
	repo := newLoadedRepo(t)

	got, err := repo.Search(context.Background(), "ultrasharp u2724")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids(got))

	got, err = repo.Search(context.Background(), "toaster")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryProductRepository_UpdateAndClear(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()

	_, err := repo.GetCatalog(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.UpdateCatalog(ctx, entity.ProductCatalog{Products: []entity.Product{
		{ID: "a", Name: "first"},
		{ID: "b", Name: "second"},
		{ID: "a", Name: "first again"},
	}}))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "first again", all[0].Name)

	require.NoError(t, repo.Clear(ctx))
	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	_, err = repo.GetCatalog(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLongestCommonSubstringLength(t *testing.T) {
	assert.Equal(t, 0, longestCommonSubstringLength("", "abc"))
	assert.Equal(t, 5, longestCommonSubstringLength("rtx4090", "geforcertx4080"))
	assert.Equal(t, 3, longestCommonSubstringLength("abcxyz", "xyzabd"))
}
