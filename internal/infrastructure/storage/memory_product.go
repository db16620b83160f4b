package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/domain/repository"
)

const (
	// fuzzy fallback thresholds
	minFuzzyScore  = 8
	maxFuzzyResult = 6
)

type memoryProductRepository struct {
	mu       sync.RWMutex
	order    []string                  // catalog order of ids
	products map[string]entity.Product // key: product ID
	catalog  *entity.ProductCatalog
}

// NewMemoryProductRepository in-memory catalog that preserves catalog order
func NewMemoryProductRepository() repository.ProductRepository {
	return &memoryProductRepository{
		products: make(map[string]entity.Product),
	}
}

func (m *memoryProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return &product, nil
}

// Search every query token has to appear in the name, category or specs.
// When nothing matches directly, the closest names by similarity are returned.
func (m *memoryProductRepository) Search(ctx context.Context, query string) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}
	tokens := filterTokens(queryTokens(query))
	compactQuery := normalizeAlphaNum(query)

	var (
		results []entity.Product
		scored  []scoredProduct
	)
	for _, id := range m.order {
		product := m.products[id]
		haystack := searchText(product)
		nameCompact := normalizeAlphaNum(product.Name)

		if strings.Contains(haystack, query) ||
			(compactQuery != "" && strings.Contains(nameCompact, compactQuery)) ||
			matchAllTokens(tokens, haystack, normalizeAlphaNum(haystack)) {
			results = append(results, product)
			continue
		}

		if score := similarityScore(tokens, compactQuery, nameCompact, normalizeAlphaNum(product.Category)); score >= minFuzzyScore {
			scored = append(scored, scoredProduct{Product: product, Score: score})
		}
	}

	if len(results) == 0 && len(scored) > 0 {
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Score > scored[j].Score
		})
		for _, sp := range scored {
			if len(results) == maxFuzzyResult {
				break
			}
			results = append(results, sp.Product)
		}
	}

	return results, nil
}

func (m *memoryProductRepository) GetByCategory(ctx context.Context, category string) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	category = strings.ToLower(strings.TrimSpace(category))
	var results []entity.Product
	for _, id := range m.order {
		product := m.products[id]
		if strings.ToLower(product.Category) == category {
			results = append(results, product)
		}
	}
	return results, nil
}

func (m *memoryProductRepository) Categories(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	var categories []string
	for _, id := range m.order {
		cat := m.products[id].Category
		if _, ok := seen[cat]; ok || cat == "" {
			continue
		}
		seen[cat] = struct{}{}
		categories = append(categories, cat)
	}
	return categories, nil
}

func (m *memoryProductRepository) GetAll(ctx context.Context) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]entity.Product, 0, len(m.order))
	for _, id := range m.order {
		products = append(products, m.products[id])
	}
	return products, nil
}

// UpdateCatalog a repeated id keeps its first position and the last row's data
func (m *memoryProductRepository) UpdateCatalog(ctx context.Context, catalog entity.ProductCatalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products = make(map[string]entity.Product, len(catalog.Products))
	m.order = make([]string, 0, len(catalog.Products))
	for _, product := range catalog.Products {
		if _, dup := m.products[product.ID]; !dup {
			m.order = append(m.order, product.ID)
		}
		m.products[product.ID] = product
	}

	m.catalog = &catalog
	return nil
}

func (m *memoryProductRepository) GetCatalog(ctx context.Context) (*entity.ProductCatalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.catalog == nil {
		return nil, repository.ErrNotFound
	}
	return m.catalog, nil
}

func (m *memoryProductRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products = make(map[string]entity.Product)
	m.order = nil
	m.catalog = nil
	return nil
}

// search helpers
func searchText(p entity.Product) string {
	parts := append([]string{p.Name, p.Category}, p.Specs...)
	return strings.ToLower(strings.Join(parts, " "))
}

func queryTokens(q string) []string {
	q = strings.ToLower(q)
	separators := []string{",", ".", "?", "!", ";", ":", "/", "\\", "-", "_"}
	for _, sep := range separators {
		q = strings.ReplaceAll(q, sep, " ")
	}

	var tokens []string
	for _, f := range strings.Fields(q) {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func filterTokens(tokens []string) []string {
	stop := map[string]struct{}{
		"do": {}, "you": {}, "have": {}, "any": {}, "the": {}, "for": {},
		"need": {}, "want": {}, "with": {}, "show": {}, "me": {}, "in": {}, "stock": {},
	}
	var out []string
	for _, t := range tokens {
		if _, skip := stop[t]; skip {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchAllTokens(tokens []string, haystack, compact string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		if strings.Contains(haystack, t) {
			continue
		}
		if n := normalizeAlphaNum(t); n != "" && strings.Contains(compact, n) {
			continue
		}
		return false
	}
	return true
}

func normalizeAlphaNum(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type scoredProduct struct {
	Product entity.Product
	Score   int
}

func similarityScore(tokens []string, compactQuery, nameCompact, catCompact string) int {
	score := 0
	for _, t := range tokens {
		n := normalizeAlphaNum(t)
		switch {
		case n == "":
		case strings.Contains(nameCompact, n):
			score += 4
		case strings.Contains(catCompact, n):
			score += 2
		}
	}

	if compactQuery != "" {
		if lcs := longestCommonSubstringLength(compactQuery, nameCompact); lcs >= 3 {
			score += lcs
		}
	}
	return score
}

func longestCommonSubstringLength(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	maxLen := 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > maxLen {
					maxLen = cur[j]
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return maxLen
}
