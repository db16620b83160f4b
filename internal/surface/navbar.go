package surface

import (
	"strconv"
	"sync"

	"github.com/zmcomputers/storefront/internal/domain/entity"
)

// ScrollThreshold vertical offset above which the bar switches to its compact style
const ScrollThreshold = 50.0

// NavbarCallbacks parent-owned navigation, search and cart state
type NavbarCallbacks struct {
	OnNavigate func(view entity.ViewType)
	OnSearch   func(query string)
	ToggleCart func()
}

// Navbar navigation bar state
type Navbar struct {
	mu             sync.Mutex
	items          []entity.NavItem
	cb             NavbarCallbacks
	scrolled       bool
	mobileMenuOpen bool
	searchQuery    string
}

// NewNavbar bar over the given items; nil callbacks are skipped
func NewNavbar(items []entity.NavItem, cb NavbarCallbacks) *Navbar {
	return &Navbar{items: items, cb: cb}
}

func (n *Navbar) Items() []entity.NavItem {
	return n.items
}

// OnScroll records the page offset
func (n *Navbar) OnScroll(offset float64) {
	n.mu.Lock()
	n.scrolled = offset > ScrollThreshold
	n.mu.Unlock()
}

func (n *Navbar) Scrolled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.scrolled
}

func (n *Navbar) ToggleMobileMenu() {
	n.mu.Lock()
	n.mobileMenuOpen = !n.mobileMenuOpen
	n.mu.Unlock()
}

func (n *Navbar) MobileMenuOpen() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mobileMenuOpen
}

// Search forwards a live query edit
func (n *Navbar) Search(query string) {
	n.mu.Lock()
	n.searchQuery = query
	n.mu.Unlock()

	if n.cb.OnSearch != nil {
		n.cb.OnSearch(query)
	}
}

func (n *Navbar) ClearSearch() {
	n.Search("")
}

func (n *Navbar) SearchQuery() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.searchQuery
}

// GoHome logo click: clears the search and shows the home view
func (n *Navbar) GoHome() {
	n.ClearSearch()
	n.navigate(entity.ViewHome)
}

// SelectNavItem clears the search, navigates when the item has a target
// view and closes the mobile menu.
func (n *Navbar) SelectNavItem(item entity.NavItem) {
	n.mu.Lock()
	n.mobileMenuOpen = false
	n.mu.Unlock()

	n.ClearSearch()
	if item.View != "" {
		n.navigate(item.View)
	}
}

// OpenWishlist wishlist icon
func (n *Navbar) OpenWishlist() {
	n.navigate(entity.ViewWishlist)
}

// OpenCategories compact search icon shown when the search field is hidden
func (n *Navbar) OpenCategories() {
	n.navigate(entity.ViewCategories)
}

func (n *Navbar) ToggleCart() {
	if n.cb.ToggleCart != nil {
		n.cb.ToggleCart()
	}
}

func (n *Navbar) navigate(view entity.ViewType) {
	if n.cb.OnNavigate != nil {
		n.cb.OnNavigate(view)
	}
}

// IsActive item is highlighted when it targets the current view
func IsActive(item entity.NavItem, current entity.ViewType) bool {
	return item.View != "" && item.View == current
}

// Badge counter text; empty hides the badge
func Badge(count int) string {
	if count <= 0 {
		return ""
	}
	return strconv.Itoa(count)
}
