package entity

import "time"

// Product catalog entity. Values are immutable once loaded.
type Product struct {
	ID                   string
	Name                 string
	Category             string
	Image                string
	Specs                []string // display order
	Price                string   // pre-formatted list price
	DiscountPrice        string   // pre-formatted sale price, empty when unset
	NumericPrice         float64
	NumericDiscountPrice *float64 // nil when no discount is set
	IsNew                bool
	IsSale               bool
}

// HasDiscount reports whether a discount amount is set
func (p Product) HasDiscount() bool {
	return p.NumericDiscountPrice != nil
}

// ProductCatalog products in catalog order
type ProductCatalog struct {
	Products  []Product
	UpdatedAt time.Time
	Source    string // file the catalog was imported from
}
