package surface

import (
	"fmt"
	"sync"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/usecase"
)

// TiltDivisor pointer distance (px) per degree of tilt
const TiltDivisor = 15.0

// Tilt rotation in degrees around the X and Y axes
type Tilt struct {
	X, Y float64
}

// Rect card bounding box in client coordinates
type Rect struct {
	Left, Top, Width, Height float64
}

// CardCallbacks parent-owned cart, wishlist and navigation
type CardCallbacks struct {
	OnAddToCart      func(product entity.Product, quantity int)
	OnViewDetail     func(id string)
	OnQuickView      func(product entity.Product)
	OnToggleWishlist func(product entity.Product)
}

// ProductCard one tile of a product grid
type ProductCard struct {
	mu         sync.Mutex
	product    entity.Product
	wishlisted bool
	cb         CardCallbacks
	tilt       Tilt
}

func NewProductCard(product entity.Product, wishlisted bool, cb CardCallbacks) *ProductCard {
	return &ProductCard{product: product, wishlisted: wishlisted, cb: cb}
}

func (c *ProductCard) Product() entity.Product {
	return c.product
}

func (c *ProductCard) Wishlisted() bool {
	return c.wishlisted
}

func (c *ProductCard) ActivePrice() float64 {
	return usecase.ActivePrice(c.product)
}

// PointerMove tilts the card towards the pointer, relative to the box centre
func (c *ProductCard) PointerMove(bounds Rect, clientX, clientY float64) {
	x := clientX - bounds.Left
	y := clientY - bounds.Top

	c.mu.Lock()
	c.tilt = Tilt{
		X: (y - bounds.Height/2) / TiltDivisor,
		Y: (bounds.Width/2 - x) / TiltDivisor,
	}
	c.mu.Unlock()
}

// PointerLeave back to neutral
func (c *ProductCard) PointerLeave() {
	c.mu.Lock()
	c.tilt = Tilt{}
	c.mu.Unlock()
}

func (c *ProductCard) Tilt() Tilt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tilt
}

// Transform CSS transform for the current tilt
func (c *ProductCard) Transform() string {
	t := c.Tilt()
	return fmt.Sprintf("perspective(1000px) rotateX(%gdeg) rotateY(%gdeg)", t.X, t.Y)
}

// AddToCart cards always add a single unit
func (c *ProductCard) AddToCart() {
	if c.cb.OnAddToCart != nil {
		c.cb.OnAddToCart(c.product, 1)
	}
}

func (c *ProductCard) ViewDetail() {
	if c.cb.OnViewDetail != nil {
		c.cb.OnViewDetail(c.product.ID)
	}
}

func (c *ProductCard) QuickView() {
	if c.cb.OnQuickView != nil {
		c.cb.OnQuickView(c.product)
	}
}

func (c *ProductCard) ToggleWishlist() {
	if c.cb.OnToggleWishlist != nil {
		c.cb.OnToggleWishlist(c.product)
	}
}
