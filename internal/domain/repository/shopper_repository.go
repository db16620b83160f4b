package repository

import (
	"context"

	"github.com/zmcomputers/storefront/internal/domain/entity"
)

// ShopperRepository cart and wishlist state owned outside the storefront
// surface. The surface only reads counts and membership.
type ShopperRepository interface {
	// AddToCart adds quantity units of product to the user's order
	AddToCart(ctx context.Context, userID int64, product entity.Product, quantity int) error

	// CartCount total units in the user's order
	CartCount(ctx context.Context, userID int64) (int, error)

	// CartLines product id -> quantity
	CartLines(ctx context.Context, userID int64) (map[string]int, error)

	// ToggleWishlist adds or removes the product, returns the new membership
	ToggleWishlist(ctx context.Context, userID int64, productID string) (bool, error)

	IsWishlisted(ctx context.Context, userID int64, productID string) (bool, error)

	WishlistCount(ctx context.Context, userID int64) (int, error)

	// Wishlist product ids in insertion order
	Wishlist(ctx context.Context, userID int64) ([]string, error)
}
