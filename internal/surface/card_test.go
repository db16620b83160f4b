package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zmcomputers/storefront/internal/domain/entity"
)

func TestProductCard_Tilt(t *testing.T) {
	c := NewProductCard(testCatalog()[0], false, CardCallbacks{})
	bounds := Rect{Left: 100, Top: 200, Width: 300, Height: 150}

	c.PointerMove(bounds, 100, 200)
	assert.Equal(t, Tilt{X: -5, Y: 10}, c.Tilt())
	assert.Equal(t, "perspective(1000px) rotateX(-5deg) rotateY(10deg)", c.Transform())

	c.PointerMove(bounds, 250, 275)
	assert.Equal(t, Tilt{}, c.Tilt())

	c.PointerMove(bounds, 400, 350)
	assert.Equal(t, Tilt{X: 5, Y: -10}, c.Tilt())

	c.PointerLeave()
	assert.Equal(t, Tilt{}, c.Tilt())
	assert.Equal(t, "perspective(1000px) rotateX(0deg) rotateY(0deg)", c.Transform())
}

func TestProductCard_Callbacks(t *testing.T) {
	r := &recorder{}
	var quick []string
	p := testCatalog()[2]
	c := NewProductCard(p, true, CardCallbacks{
		OnAddToCart:      r.addToCart,
		OnViewDetail:     func(id string) { r.views = append(r.views, id) },
		OnQuickView:      func(p entity.Product) { quick = append(quick, p.ID) },
		OnToggleWishlist: func(p entity.Product) { r.wished = append(r.wished, p.ID) },
	})

	c.AddToCart()
	c.ViewDetail()
	c.QuickView()
	c.ToggleWishlist()

	assert.Equal(t, []int{1}, r.adds)
	assert.Equal(t, []string{"mon-1"}, r.views)
	assert.Equal(t, []string{"mon-1"}, quick)
	assert.Equal(t, []string{"mon-1"}, r.wished)
	assert.True(t, c.Wishlisted())
	assert.Equal(t, 380.0, c.ActivePrice())
}
