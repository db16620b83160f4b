package entity

// ViewType top-level screen identifier, owned by the parent application
type ViewType string

const (
	ViewHome          ViewType = "home"
	ViewCategories    ViewType = "categories"
	ViewWishlist      ViewType = "wishlist"
	ViewProductDetail ViewType = "product-detail"
	ViewCart          ViewType = "cart"
)

// ParseViewType returns the view for s and whether it is known.
func ParseViewType(s string) (ViewType, bool) {
	switch v := ViewType(s); v {
	case ViewHome, ViewCategories, ViewWishlist, ViewProductDetail, ViewCart:
		return v, true
	}
	return "", false
}

// NavItem static navigation entry
type NavItem struct {
	Label string
	View  ViewType // empty: no target view
	IsRed bool     // emphasised entry
}

// DefaultNavItems navigation bar configuration
var DefaultNavItems = []NavItem{
	{Label: "Home", View: ViewHome},
	{Label: "Categories", View: ViewCategories},
	{Label: "Wishlist", View: ViewWishlist},
	{Label: "Wholesale Deals", IsRed: true},
}
