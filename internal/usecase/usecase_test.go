package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/benbjohnson/clock"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/domain/repository"
	"github.com/zmcomputers/storefront/internal/infrastructure/storage"
)

func seededCatalog() []entity.Product {
	return []entity.Product{
		{ID: "ws-1", Name: "Titan W5", Category: "Workstations", Price: "PKR 4,200", DiscountPrice: "PKR 3,900",
			NumericPrice: 4200, NumericDiscountPrice: ptr(3900), IsSale: true, Specs: []string{"Xeon W5"}},
		{ID: "ws-2", Name: "Atlas A1", Category: "Workstations", Price: "PKR 2,900", NumericPrice: 2900},
		{ID: "mon-1", Name: "Vista 27", Category: "Monitors", Price: "PKR 380", NumericPrice: 380},
	}
}

type repos struct {
	products repository.ProductRepository
	shopper  repository.ShopperRepository
	advice   repository.AdviceLogRepository
	admin    repository.AdminRepository
}

func newRepos(t *testing.T) repos {
	t.Helper()
	r := repos{
		products: storage.NewMemoryProductRepository(),
		shopper:  storage.NewMemoryShopperRepository(),
		advice:   storage.NewMemoryAdviceRepository(10),
		admin:    storage.NewMemoryAdminRepository(clock.NewMock()),
	}
	require.NoError(t, r.products.UpdateCatalog(context.Background(), entity.ProductCatalog{Products: seededCatalog(), Source: "seed.xlsx"}))
	return r
}

type fakeAdvisor struct {
	mu      sync.Mutex
	prompts []string
	advice  entity.Advice
}

func (f *fakeAdvisor) GetAdvice(ctx context.Context, prompt string) string {
	return f.Advise(ctx, prompt).Text
}

func (f *fakeAdvisor) Advise(_ context.Context, prompt string) entity.Advice {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.advice
}

type fakeParser struct {
	products []entity.Product
	err      error
}

func (f *fakeParser) ParseProducts(context.Context, string) ([]entity.Product, error) {
	return f.products, f.err
}

func (f *fakeParser) ParseProductsFromBytes(context.Context, []byte, string) ([]entity.Product, error) {
	return f.products, f.err
}

func TestProductUseCase_Detail(t *testing.T) {
	r := newRepos(t)
	uc := NewProductUseCase(r.products, r.shopper)
	ctx := context.Background()

	_, err := r.shopper.ToggleWishlist(ctx, 1, "ws-2")
	require.NoError(t, err)

	view, err := uc.Detail(ctx, 1, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, "Titan W5", view.Product.Name)
	assert.False(t, view.Wishlisted)
	require.Len(t, view.Related, 1)
	assert.Equal(t, "ws-2", view.Related[0].Product.ID)
	assert.True(t, view.Related[0].Wishlisted)

	_, err = uc.Detail(ctx, 1, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductUseCase_OnSaleAndText(t *testing.T) {
	r := newRepos(t)
	uc := NewProductUseCase(r.products, r.shopper)
	ctx := context.Background()

	sale, err := uc.OnSale(ctx)
	require.NoError(t, err)
	require.Len(t, sale, 1)
	assert.Equal(t, "ws-1", sale[0].ID)

	text, err := uc.GetProductsAsText(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Workstations:\n"))
	assert.Contains(t, text, "1. Titan W5 - PKR 4,200 (sale: PKR 3,900)")
	assert.Contains(t, text, "Monitors:\n  1. Vista 27 - PKR 380")

	ok, err := uc.HasProducts(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestShopperUseCase_CartAndWishlist(t *testing.T) {
	r := newRepos(t)
	uc := NewShopperUseCase(r.products, r.shopper)
	ctx := context.Background()

	require.NoError(t, uc.AddToOrder(ctx, 1, "ws-1", 2))
	require.NoError(t, uc.AddToOrder(ctx, 1, "mon-1", 0))
	assert.ErrorIs(t, uc.AddToOrder(ctx, 1, "missing", 1), repository.ErrNotFound)

	added, err := uc.ToggleWishlist(ctx, 1, "mon-1")
	require.NoError(t, err)
	assert.True(t, added)

	cart, wishlist, err := uc.Counts(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, cart)
	assert.Equal(t, 1, wishlist)

	lines, total, err := uc.Cart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Titan W5", lines[0].Product.Name)
	assert.Equal(t, 7800.0, lines[0].Subtotal)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, 8180.0, total)

	products, err := uc.WishlistProducts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "mon-1", products[0].ID)

	added, err = uc.ToggleWishlist(ctx, 1, "mon-1")
	require.NoError(t, err)
	assert.False(t, added)

	other, err := uc.IsWishlisted(ctx, 2, "mon-1")
	require.NoError(t, err)
	assert.False(t, other)
}

func TestAdvisorUseCase_Ask(t *testing.T) {
	r := newRepos(t)
	log, _ := logtest.NewNullLogger()
	advisor := &fakeAdvisor{advice: entity.Advice{Text: "Take the Titan W5.", Outcome: entity.AdviceAnswered}}
	uc := NewAdvisorUseCase(advisor, r.advice, NewProductUseCase(r.products, r.shopper), log)
	ctx := context.Background()

	answer := uc.Ask(ctx, 1, "buyer", "CAD workstation?")
	assert.Equal(t, "Take the Titan W5.", answer)

	require.Len(t, advisor.prompts, 1)
	assert.Contains(t, advisor.prompts[0], "Customer question: CAD workstation?")
	assert.Contains(t, advisor.prompts[0], "Titan W5 - PKR 4,200")

	history, err := uc.GetHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "CAD workstation?", history[0].Prompt)
	assert.Equal(t, entity.AdviceAnswered, history[0].Outcome)
	assert.NotEmpty(t, history[0].ID)

	all, err := uc.GetAllRecords(ctx, 5)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "buyer", all[0].Username)

	require.NoError(t, uc.ClearHistory(ctx, 1))
	history, err = uc.GetHistory(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAdvisorUseCase_AskWithoutCatalog(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	advisor := &fakeAdvisor{advice: entity.Advice{Text: "maintenance", Outcome: entity.AdviceUnconfigured}}
	uc := NewAdvisorUseCase(advisor, storage.NewMemoryAdviceRepository(5), nil, log)

	assert.Equal(t, "maintenance", uc.Ask(context.Background(), 1, "buyer", "hello"))
	assert.Equal(t, []string{"hello"}, advisor.prompts)
}

func TestAdminUseCase_LoginAndUpload(t *testing.T) {
	r := newRepos(t)
	log, _ := logtest.NewNullLogger()
	parser := &fakeParser{products: []entity.Product{{ID: "nas-1", Name: "Vault NAS", Category: "Storage", NumericPrice: 900}}}
	uc := NewAdminUseCase("s3cret", r.admin, r.products, parser, r.advice, log)
	ctx := context.Background()

	_, err := uc.UploadCatalog(ctx, 1, nil, "catalog.xlsx")
	assert.ErrorIs(t, err, ErrNotAdmin)

	ok, err := uc.Login(ctx, 1, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = uc.Login(ctx, 1, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := uc.UploadCatalog(ctx, 1, []byte("xlsx"), "catalog.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	info, err := uc.GetCatalogInfo(ctx)
	require.NoError(t, err)
	assert.Contains(t, info, "Catalog: catalog.xlsx")
	assert.Contains(t, info, "Products: 1 (0 on sale)")
	assert.Contains(t, info, "Storage: 1")

	actions, err := r.admin.Actions(ctx)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "upload_catalog", actions[1].Action)

	require.NoError(t, uc.Logout(ctx, 1))
	isAdmin, err := uc.IsAdmin(ctx, 1)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestAdminUseCase_EmptyPasswordDisablesLogin(t *testing.T) {
	r := newRepos(t)
	log, _ := logtest.NewNullLogger()
	uc := NewAdminUseCase("", r.admin, r.products, &fakeParser{}, r.advice, log)

	ok, err := uc.Login(context.Background(), 1, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdminUseCase_ImportCatalogFile(t *testing.T) {
	r := newRepos(t)
	log, _ := logtest.NewNullLogger()
	ctx := context.Background()

	empty := NewAdminUseCase("pw", r.admin, r.products, &fakeParser{}, r.advice, log)
	_, err := empty.ImportCatalogFile(ctx, "/srv/empty.xlsx")
	assert.ErrorContains(t, err, "no products found")

	broken := NewAdminUseCase("pw", r.admin, r.products, &fakeParser{err: errors.New("zip: not a valid zip file")}, r.advice, log)
	_, err = broken.ImportCatalogFile(ctx, "/srv/broken.xlsx")
	assert.ErrorContains(t, err, "failed to parse catalog")

	all, err := r.products.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3, "failed imports keep the previous catalog")
}

func TestAdminUseCase_CleanAll(t *testing.T) {
	r := newRepos(t)
	log, _ := logtest.NewNullLogger()
	uc := NewAdminUseCase("pw", r.admin, r.products, &fakeParser{}, r.advice, log)
	ctx := context.Background()

	require.NoError(t, r.advice.Save(ctx, entity.AdviceRecord{ID: "a", UserID: 2, Prompt: "q", Response: "a"}))
	assert.ErrorIs(t, uc.CleanAll(ctx, 1), ErrNotAdmin)

	ok, err := uc.Login(ctx, 1, "pw")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, uc.CleanAll(ctx, 1))

	all, err := r.products.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	records, err := r.advice.GetAll(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}
