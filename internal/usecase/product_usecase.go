package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/domain/repository"
)

// ProductDetailView everything the detail screen derives from the catalog
type ProductDetailView struct {
	Product    entity.Product
	Wishlisted bool
	Related    []ProductTile
}

// ProductUseCase catalog browsing
type ProductUseCase interface {
	// Search free-text search
	Search(ctx context.Context, query string) ([]entity.Product, error)

	GetByCategory(ctx context.Context, category string) ([]entity.Product, error)

	GetAll(ctx context.Context) ([]entity.Product, error)

	// OnSale products currently discounted, catalog order
	OnSale(ctx context.Context) ([]entity.Product, error)

	Categories(ctx context.Context) ([]string, error)

	GetByID(ctx context.Context, id string) (*entity.Product, error)

	// Detail product with related items and per-item wishlist flags for userID
	Detail(ctx context.Context, userID int64, id string) (*ProductDetailView, error)

	// GetProductsAsText catalog digest for the advisor prompt
	GetProductsAsText(ctx context.Context) (string, error)

	HasProducts(ctx context.Context) (bool, error)
}

type productUseCase struct {
	productRepo repository.ProductRepository
	shopperRepo repository.ShopperRepository
}

// NewProductUseCase product use case over the catalog and shopper state
func NewProductUseCase(productRepo repository.ProductRepository, shopperRepo repository.ShopperRepository) ProductUseCase {
	return &productUseCase{
		productRepo: productRepo,
		shopperRepo: shopperRepo,
	}
}

func (u *productUseCase) Search(ctx context.Context, query string) ([]entity.Product, error) {
	return u.productRepo.Search(ctx, query)
}

func (u *productUseCase) GetByCategory(ctx context.Context, category string) ([]entity.Product, error) {
	return u.productRepo.GetByCategory(ctx, category)
}

func (u *productUseCase) GetAll(ctx context.Context) ([]entity.Product, error) {
	return u.productRepo.GetAll(ctx)
}

func (u *productUseCase) OnSale(ctx context.Context) ([]entity.Product, error) {
	products, err := u.productRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var sale []entity.Product
	for _, p := range products {
		if p.IsSale && p.HasDiscount() {
			sale = append(sale, p)
		}
	}
	return sale, nil
}

func (u *productUseCase) Categories(ctx context.Context) ([]string, error) {
	return u.productRepo.Categories(ctx)
}

func (u *productUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return u.productRepo.GetByID(ctx, id)
}

func (u *productUseCase) Detail(ctx context.Context, userID int64, id string) (*ProductDetailView, error) {
	product, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	catalog, err := u.productRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	wishlist, err := u.shopperRepo.Wishlist(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	wished := make(map[string]struct{}, len(wishlist))
	for _, id := range wishlist {
		wished[id] = struct{}{}
	}
	isWishlisted := func(id string) bool {
		_, ok := wished[id]
		return ok
	}

	return &ProductDetailView{
		Product:    *product,
		Wishlisted: isWishlisted(product.ID),
		Related:    AnnotateWishlist(RelatedProducts(catalog, *product), isWishlisted),
	}, nil
}

func (u *productUseCase) GetProductsAsText(ctx context.Context) (string, error) {
	products, err := u.productRepo.GetAll(ctx)
	if err != nil {
		return "", err
	}

	if len(products) == 0 {
		return "", fmt.Errorf("no products available")
	}

	var sb strings.Builder
	for _, group := range groupByCategory(products) {
		sb.WriteString(fmt.Sprintf("%s:\n", group.category))
		for i, p := range group.products {
			sb.WriteString(fmt.Sprintf("  %d. %s - %s", i+1, p.Name, p.Price))
			if p.IsSale && p.DiscountPrice != "" {
				sb.WriteString(fmt.Sprintf(" (sale: %s)", p.DiscountPrice))
			}
			if len(p.Specs) > 0 {
				sb.WriteString(fmt.Sprintf("\n     %s", strings.Join(p.Specs, ", ")))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}

func (u *productUseCase) HasProducts(ctx context.Context) (bool, error) {
	products, err := u.productRepo.GetAll(ctx)
	if err != nil {
		return false, err
	}
	return len(products) > 0, nil
}

type categoryGroup struct {
	category string
	products []entity.Product
}

// groupByCategory keeps the first-seen order of categories
func groupByCategory(products []entity.Product) []categoryGroup {
	index := make(map[string]int)
	var groups []categoryGroup
	for _, p := range products {
		cat := p.Category
		if cat == "" {
			cat = "Other"
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, categoryGroup{category: cat})
		}
		groups[i].products = append(groups[i].products, p)
	}
	return groups
}
