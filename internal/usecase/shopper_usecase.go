package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/domain/repository"
)

// CartLine product in the user's order
type CartLine struct {
	Product  entity.Product
	Quantity int
	Subtotal float64
}

// ShopperUseCase cart and wishlist mutations behind the surface callbacks
type ShopperUseCase interface {
	AddToOrder(ctx context.Context, userID int64, productID string, quantity int) error
	ToggleWishlist(ctx context.Context, userID int64, productID string) (bool, error)
	IsWishlisted(ctx context.Context, userID int64, productID string) (bool, error)

	// Counts cart units and wishlist size for the navigation badges
	Counts(ctx context.Context, userID int64) (cart, wishlist int, err error)

	WishlistProducts(ctx context.Context, userID int64) ([]entity.Product, error)

	// Cart lines sorted by product name, and the order total
	Cart(ctx context.Context, userID int64) ([]CartLine, float64, error)
}

type shopperUseCase struct {
	productRepo repository.ProductRepository
	shopperRepo repository.ShopperRepository
}

// NewShopperUseCase shopper use case
func NewShopperUseCase(productRepo repository.ProductRepository, shopperRepo repository.ShopperRepository) ShopperUseCase {
	return &shopperUseCase{
		productRepo: productRepo,
		shopperRepo: shopperRepo,
	}
}

func (u *shopperUseCase) AddToOrder(ctx context.Context, userID int64, productID string, quantity int) error {
	product, err := u.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if err := u.shopperRepo.AddToCart(ctx, userID, *product, ClampQuantity(quantity, 0)); err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}
	return nil
}

func (u *shopperUseCase) ToggleWishlist(ctx context.Context, userID int64, productID string) (bool, error) {
	if _, err := u.productRepo.GetByID(ctx, productID); err != nil {
		return false, err
	}
	return u.shopperRepo.ToggleWishlist(ctx, userID, productID)
}

func (u *shopperUseCase) IsWishlisted(ctx context.Context, userID int64, productID string) (bool, error) {
	return u.shopperRepo.IsWishlisted(ctx, userID, productID)
}

func (u *shopperUseCase) Counts(ctx context.Context, userID int64) (int, int, error) {
	cart, err := u.shopperRepo.CartCount(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	wishlist, err := u.shopperRepo.WishlistCount(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return cart, wishlist, nil
}

func (u *shopperUseCase) WishlistProducts(ctx context.Context, userID int64) ([]entity.Product, error) {
	ids, err := u.shopperRepo.Wishlist(ctx, userID)
	if err != nil {
		return nil, err
	}

	products := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		p, err := u.productRepo.GetByID(ctx, id)
		if err != nil {
			// dropped from the catalog since it was wishlisted
			continue
		}
		products = append(products, *p)
	}
	return products, nil
}

func (u *shopperUseCase) Cart(ctx context.Context, userID int64) ([]CartLine, float64, error) {
	lines, err := u.shopperRepo.CartLines(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	var (
		out   []CartLine
		total float64
	)
	for id, qty := range lines {
		p, err := u.productRepo.GetByID(ctx, id)
		if err != nil {
			continue
		}
		line := CartLine{Product: *p, Quantity: qty, Subtotal: TotalPrice(*p, qty)}
		total += line.Subtotal
		out = append(out, line)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Product.Name < out[j].Product.Name
	})
	return out, total, nil
}
