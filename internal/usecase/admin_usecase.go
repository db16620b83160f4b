package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/domain/repository"
)

// ErrNotAdmin the caller has no live operator session
var ErrNotAdmin = errors.New("user is not admin")

// AdminUseCase catalog operator actions
type AdminUseCase interface {
	// Login false for a wrong password
	Login(ctx context.Context, userID int64, password string) (bool, error)

	Logout(ctx context.Context, userID int64) error

	IsAdmin(ctx context.Context, userID int64) (bool, error)

	// UploadCatalog replaces the catalog from an uploaded workbook
	UploadCatalog(ctx context.Context, userID int64, fileData []byte, filename string) (int, error)

	// ImportCatalogFile replaces the catalog from a workbook on disk
	ImportCatalogFile(ctx context.Context, path string) (int, error)

	// GetCatalogInfo human-readable catalog summary
	GetCatalogInfo(ctx context.Context) (string, error)

	// CleanAll drops the catalog and the advice history
	CleanAll(ctx context.Context, userID int64) error
}

type adminUseCase struct {
	password    string
	adminRepo   repository.AdminRepository
	productRepo repository.ProductRepository
	parser      repository.CatalogParser
	adviceLog   repository.AdviceLogRepository
	log         logrus.FieldLogger
}

// NewAdminUseCase admin use case. An empty password disables login.
func NewAdminUseCase(
	password string,
	adminRepo repository.AdminRepository,
	productRepo repository.ProductRepository,
	parser repository.CatalogParser,
	adviceLog repository.AdviceLogRepository,
	log logrus.FieldLogger,
) AdminUseCase {
	return &adminUseCase{
		password:    password,
		adminRepo:   adminRepo,
		productRepo: productRepo,
		parser:      parser,
		adviceLog:   adviceLog,
		log:         log,
	}
}

func (u *adminUseCase) Login(ctx context.Context, userID int64, password string) (bool, error) {
	if u.password == "" || subtle.ConstantTimeCompare([]byte(password), []byte(u.password)) != 1 {
		u.log.WithField("user_id", userID).Warn("admin login rejected")
		return false, nil
	}

	now := time.Now()
	session := entity.AdminSession{
		UserID:       userID,
		IsAdmin:      true,
		LoginTime:    now,
		LastActivity: now,
	}
	if err := u.adminRepo.CreateSession(ctx, session); err != nil {
		return false, fmt.Errorf("failed to create session: %w", err)
	}

	u.audit(ctx, userID, "login", "Admin successfully logged in")
	return true, nil
}

func (u *adminUseCase) Logout(ctx context.Context, userID int64) error {
	return u.adminRepo.DeleteSession(ctx, userID)
}

func (u *adminUseCase) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return u.adminRepo.IsAdmin(ctx, userID)
}

func (u *adminUseCase) UploadCatalog(ctx context.Context, userID int64, fileData []byte, filename string) (int, error) {
	if err := u.requireAdmin(ctx, userID); err != nil {
		return 0, err
	}

	products, err := u.parser.ParseProductsFromBytes(ctx, fileData, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := u.replaceCatalog(ctx, products, filename); err != nil {
		return 0, err
	}

	u.audit(ctx, userID, "upload_catalog", fmt.Sprintf("Uploaded %d products from %s", len(products), filename))
	return len(products), nil
}

func (u *adminUseCase) ImportCatalogFile(ctx context.Context, path string) (int, error) {
	products, err := u.parser.ParseProducts(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := u.replaceCatalog(ctx, products, path); err != nil {
		return 0, err
	}
	u.log.WithFields(logrus.Fields{"source": path, "products": len(products)}).Info("catalog imported")
	return len(products), nil
}

func (u *adminUseCase) replaceCatalog(ctx context.Context, products []entity.Product, source string) error {
	if len(products) == 0 {
		return fmt.Errorf("no products found in %s", source)
	}

	catalog := entity.ProductCatalog{
		Products:  products,
		UpdatedAt: time.Now(),
		Source:    source,
	}
	if err := u.productRepo.UpdateCatalog(ctx, catalog); err != nil {
		return fmt.Errorf("failed to update catalog: %w", err)
	}
	return nil
}

func (u *adminUseCase) GetCatalogInfo(ctx context.Context) (string, error) {
	catalog, err := u.productRepo.GetCatalog(ctx)
	if err != nil {
		return "", err
	}

	counts := make(map[string]int)
	onSale := 0
	for _, p := range catalog.Products {
		counts[p.Category]++
		if p.IsSale {
			onSale++
		}
	}
	categories := make([]string, 0, len(counts))
	for cat := range counts {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📦 Catalog: %s\n", catalog.Source))
	sb.WriteString(fmt.Sprintf("📅 Updated: %s\n", catalog.UpdatedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("📊 Products: %d (%d on sale)\n\n", len(catalog.Products), onSale))
	sb.WriteString("📂 Categories:\n")
	for _, cat := range categories {
		sb.WriteString(fmt.Sprintf("  • %s: %d\n", cat, counts[cat]))
	}
	return sb.String(), nil
}

func (u *adminUseCase) CleanAll(ctx context.Context, userID int64) error {
	if err := u.requireAdmin(ctx, userID); err != nil {
		return err
	}

	if err := u.productRepo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	if err := u.adviceLog.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear advice history: %w", err)
	}

	u.audit(ctx, userID, "clean_all", "Cleared catalog and advice history")
	return nil
}

func (u *adminUseCase) requireAdmin(ctx context.Context, userID int64) error {
	isAdmin, err := u.adminRepo.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrNotAdmin
	}
	return nil
}

func (u *adminUseCase) audit(ctx context.Context, userID int64, action, details string) {
	err := u.adminRepo.LogAction(ctx, entity.AdminAction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now(),
	})
	if err != nil {
		u.log.WithError(err).WithField("action", action).Warn("failed to record admin action")
	}
}
