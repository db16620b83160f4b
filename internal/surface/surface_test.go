package surface

import (
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/zmcomputers/storefront/internal/domain/entity"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func price(v float64) *float64 { return &v }

func testCatalog() []entity.Product {
	return []entity.Product{
		{ID: "ws-1", Name: "Titan W5", Category: "Workstations", NumericPrice: 4200, NumericDiscountPrice: price(3900), IsSale: true},
		{ID: "ws-2", Name: "Titan W7", Category: "Workstations", NumericPrice: 5600},
		{ID: "mon-1", Name: "Vista 27", Category: "Monitors", NumericPrice: 380},
		{ID: "ws-3", Name: "Titan W9", Category: "Workstations", NumericPrice: 7100},
		{ID: "ws-4", Name: "Atlas A1", Category: "Workstations", NumericPrice: 2900},
		{ID: "ws-5", Name: "Atlas A2", Category: "Workstations", NumericPrice: 3100},
		{ID: "ws-6", Name: "Atlas A3", Category: "Workstations", NumericPrice: 3300},
	}
}

// recorder collects callback invocations from timer goroutines
type recorder struct {
	mu     sync.Mutex
	adds   []int
	phases []AddPhase
	views  []string
	wished []string
	navs   []entity.ViewType
	search []string
	carts  int
	backs  int
}

func (r *recorder) addToCart(_ entity.Product, qty int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adds = append(r.adds, qty)
}

func (r *recorder) phase(p AddPhase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases = append(r.phases, p)
}

func (r *recorder) snapshotPhases() []AddPhase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]AddPhase(nil), r.phases...)
}
