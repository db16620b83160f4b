package surface

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/usecase"
)

const (
	// ConfirmDelay pending period between the add click and the toast
	ConfirmDelay = 800 * time.Millisecond
	// ToastDuration how long the confirmation toast stays visible
	ToastDuration = 3000 * time.Millisecond

	PendingLabel = "Authenticating..."
	ToastText    = "Infrastructure Committed to Batch"
)

// AddPhase step of the add-to-order sequence
type AddPhase int

const (
	AddIdle AddPhase = iota
	AddPending
	ToastVisible
)

func (p AddPhase) String() string {
	switch p {
	case AddPending:
		return "pending"
	case ToastVisible:
		return "visible"
	default:
		return "idle"
	}
}

// DetailCallbacks parent-owned state reachable from the detail page
type DetailCallbacks struct {
	OnAddToCart      func(product entity.Product, quantity int)
	OnViewDetail     func(id string)
	OnQuickView      func(product entity.Product)
	OnToggleWishlist func(product entity.Product)
	OnBack           func()
	OnPhaseChange    func(phase AddPhase)
}

// ProductDetail full product page with quantity selection and the timed
// add-to-order confirmation.
type ProductDetail struct {
	mu       sync.Mutex
	clock    clock.Clock
	product  entity.Product
	related  []entity.Product
	cb       DetailCallbacks
	quantity int
	phase    AddPhase
	timer    *clock.Timer
	gen      uint64 // bumped whenever the pending timer is replaced
	closed   bool
}

// NewProductDetail related products are derived once from allProducts
func NewProductDetail(product entity.Product, allProducts []entity.Product, clk clock.Clock, cb DetailCallbacks) *ProductDetail {
	return NewProductDetailWithRelated(product, usecase.RelatedProducts(allProducts, product), clk, cb)
}

// NewProductDetailWithRelated page over a related list the caller already derived
func NewProductDetailWithRelated(product entity.Product, related []entity.Product, clk clock.Clock, cb DetailCallbacks) *ProductDetail {
	if clk == nil {
		clk = clock.New()
	}
	return &ProductDetail{
		clock:    clk,
		product:  product,
		related:  append([]entity.Product(nil), related...),
		cb:       cb,
		quantity: 1,
	}
}

func (d *ProductDetail) Product() entity.Product {
	return d.product
}

// Related cross-sell suggestions, catalog order
func (d *ProductDetail) Related() []entity.Product {
	out := make([]entity.Product, len(d.related))
	copy(out, d.related)
	return out
}

// RelatedCards cards for the related products, forwarding to the page callbacks
func (d *ProductDetail) RelatedCards(isWishlisted func(id string) bool) []*ProductCard {
	cb := CardCallbacks{
		OnAddToCart:      d.cb.OnAddToCart,
		OnViewDetail:     d.cb.OnViewDetail,
		OnQuickView:      d.cb.OnQuickView,
		OnToggleWishlist: d.cb.OnToggleWishlist,
	}
	tiles := usecase.AnnotateWishlist(d.related, isWishlisted)
	cards := make([]*ProductCard, len(tiles))
	for i, t := range tiles {
		cards[i] = NewProductCard(t.Product, t.Wishlisted, cb)
	}
	return cards
}

func (d *ProductDetail) Quantity() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.quantity
}

func (d *ProductDetail) Increment() int {
	return d.adjust(1)
}

// Decrement never goes below 1
func (d *ProductDetail) Decrement() int {
	return d.adjust(-1)
}

func (d *ProductDetail) adjust(delta int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.quantity = usecase.ClampQuantity(d.quantity, delta)
	return d.quantity
}

func (d *ProductDetail) ActivePrice() float64 {
	return usecase.ActivePrice(d.product)
}

func (d *ProductDetail) TotalPrice() float64 {
	return usecase.TotalPrice(d.product, d.Quantity())
}

func (d *ProductDetail) Phase() AddPhase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

// IsAdding add button is disabled and shows PendingLabel
func (d *ProductDetail) IsAdding() bool {
	return d.Phase() == AddPending
}

func (d *ProductDetail) ShowToast() bool {
	return d.Phase() == ToastVisible
}

// AddToOrder forwards the selected quantity to the cart and starts the
// confirmation sequence. It returns false when the click is ignored: while a
// confirmation is already pending or after Close. Clicking while the toast is
// visible restarts the sequence.
func (d *ProductDetail) AddToOrder() bool {
	d.mu.Lock()
	if d.closed || d.phase == AddPending {
		d.mu.Unlock()
		return false
	}
	d.phase = AddPending
	qty := d.quantity
	d.scheduleLocked(ConfirmDelay, d.confirm)
	d.mu.Unlock()

	if d.cb.OnAddToCart != nil {
		d.cb.OnAddToCart(d.product, qty)
	}
	d.notify(AddPending)
	return true
}

func (d *ProductDetail) ToggleWishlist() {
	if d.cb.OnToggleWishlist != nil {
		d.cb.OnToggleWishlist(d.product)
	}
}

func (d *ProductDetail) Back() {
	if d.cb.OnBack != nil {
		d.cb.OnBack()
	}
}

// Close stops outstanding timers. A page torn down mid-sequence reports
// AddIdle so whatever shows the toast can remove it. Safe to call more than once.
func (d *ProductDetail) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.stopLocked()
	prev := d.phase
	d.phase = AddIdle
	d.mu.Unlock()

	if prev != AddIdle {
		d.notify(AddIdle)
	}
}

func (d *ProductDetail) confirm(gen uint64) {
	d.mu.Lock()
	if d.closed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.phase = ToastVisible
	d.scheduleLocked(ToastDuration, d.hide)
	d.mu.Unlock()

	d.notify(ToastVisible)
}

func (d *ProductDetail) hide(gen uint64) {
	d.mu.Lock()
	if d.closed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.phase = AddIdle
	d.timer = nil
	d.mu.Unlock()

	d.notify(AddIdle)
}

func (d *ProductDetail) scheduleLocked(delay time.Duration, fn func(gen uint64)) {
	d.stopLocked()
	gen := d.gen
	d.timer = d.clock.AfterFunc(delay, func() { fn(gen) })
}

// stopLocked a timer that already fired sees a newer generation and does nothing
func (d *ProductDetail) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

func (d *ProductDetail) notify(phase AddPhase) {
	if d.cb.OnPhaseChange != nil {
		d.cb.OnPhaseChange(phase)
	}
}
