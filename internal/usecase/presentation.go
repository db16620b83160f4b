package usecase

import "github.com/zmcomputers/storefront/internal/domain/entity"

// RelatedLimit maximum number of cross-sell suggestions on a detail page
const RelatedLimit = 4

// ActivePrice unit price actually charged: the discount amount while the
// product is on sale and a discount is set, the list amount otherwise.
// The sale flag gates the discount and a discount of 0 is a real price.
func ActivePrice(p entity.Product) float64 {
	if p.IsSale && p.HasDiscount() {
		return *p.NumericDiscountPrice
	}
	return p.NumericPrice
}

// TotalPrice active price times quantity; quantities below 1 count as 1
func TotalPrice(p entity.Product, quantity int) float64 {
	return ActivePrice(p) * float64(ClampQuantity(quantity, 0))
}

// ClampQuantity applies delta with a floor of 1
func ClampQuantity(quantity, delta int) int {
	return max(1, quantity+delta)
}

// RelatedProducts products sharing ref's category, without ref itself, in
// catalog order, at most RelatedLimit of them.
func RelatedProducts(catalog []entity.Product, ref entity.Product) []entity.Product {
	related := make([]entity.Product, 0, RelatedLimit)
	for _, p := range catalog {
		if len(related) == RelatedLimit {
			break
		}
		if p.Category == ref.Category && p.ID != ref.ID {
			related = append(related, p)
		}
	}
	return related
}

// ProductTile product with its own wishlist membership
type ProductTile struct {
	Product    entity.Product
	Wishlisted bool
}

// AnnotateWishlist looks membership up per product
func AnnotateWishlist(products []entity.Product, isWishlisted func(id string) bool) []ProductTile {
	tiles := make([]ProductTile, len(products))
	for i, p := range products {
		tiles[i] = ProductTile{Product: p, Wishlisted: isWishlisted != nil && isWishlisted(p.ID)}
	}
	return tiles
}
