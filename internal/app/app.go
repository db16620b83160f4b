package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/zmcomputers/storefront/config"
	"github.com/zmcomputers/storefront/internal/delivery/telegram"
	"github.com/zmcomputers/storefront/internal/domain/repository"
	"github.com/zmcomputers/storefront/internal/infrastructure/gemini"
	"github.com/zmcomputers/storefront/internal/infrastructure/parser"
	"github.com/zmcomputers/storefront/internal/infrastructure/storage"
	"github.com/zmcomputers/storefront/internal/infrastructure/watcher"
	"github.com/zmcomputers/storefront/internal/usecase"
)

// App wired storefront: bot, catalog watcher and the resources they hold
type App struct {
	*core
	handler *telegram.BotHandler
}

// core everything except the Telegram connection
type core struct {
	log      logrus.FieldLogger
	clock    clock.Clock
	products usecase.ProductUseCase
	shopper  usecase.ShopperUseCase
	advisor  usecase.AdvisorUseCase
	admin    usecase.AdminUseCase
	watcher  *watcher.CatalogWatcher
	gateway  *gemini.Gateway
	closers  []func() error
}

// New builds the application; the bot token is verified against Telegram
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	c, err := newCore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	handler, err := telegram.NewBotHandler(cfg.Telegram.Token, telegram.Deps{
		Advisor:  c.advisor,
		Admin:    c.admin,
		Products: c.products,
		Shopper:  c.shopper,
		Currency: cfg.Catalog.Currency,
		Clock:    c.clock,
		Log:      log,
	})
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	log.WithField("bot", handler.GetBotUsername()).Info("Telegram bot connected")

	return &App{core: c, handler: handler}, nil
}

func newCore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*core, error) {
	c := &core{log: log, clock: clock.New()}

	adviceLog, err := c.openAdviceLog(cfg.Storage)
	if err != nil {
		return nil, err
	}

	gateway, err := gemini.New(ctx, gemini.Options{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		Temperature: cfg.Gemini.Temperature,
		Timeout:     cfg.Gemini.Timeout,
	}, log)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to create advisor: %w", err)
	}
	c.gateway = gateway
	c.closers = append(c.closers, gateway.Close)

	productRepo := storage.NewMemoryProductRepository()
	shopperRepo := storage.NewMemoryShopperRepository()
	adminRepo := storage.NewMemoryAdminRepository(c.clock)
	catalogParser := parser.NewExcelParser(cfg.Catalog.Currency, log)

	c.products = usecase.NewProductUseCase(productRepo, shopperRepo)
	c.shopper = usecase.NewShopperUseCase(productRepo, shopperRepo)
	c.advisor = usecase.NewAdvisorUseCase(gateway, adviceLog, c.products, log)
	c.admin = usecase.NewAdminUseCase(cfg.Telegram.AdminPassword, adminRepo, productRepo, catalogParser, adviceLog, log)

	if cfg.Catalog.Path != "" {
		// a broken file at startup leaves an empty catalog that admins can fill
		if n, err := c.admin.ImportCatalogFile(ctx, cfg.Catalog.Path); err != nil {
			log.WithError(err).WithField("path", cfg.Catalog.Path).Warn("Initial catalog import failed")
		} else {
			log.WithFields(logrus.Fields{"path": cfg.Catalog.Path, "products": n}).Info("Catalog loaded")
		}
	}

	if cfg.Catalog.Watch {
		c.watcher = watcher.NewCatalogWatcher(cfg.Catalog.Path, watcher.DefaultDebounce,
			func(ctx context.Context, path string) error {
				_, err := c.admin.ImportCatalogFile(ctx, path)
				return err
			}, log)
	}

	return c, nil
}

// openAdviceLog SQLite when a path is configured, memory otherwise
func (c *core) openAdviceLog(cfg config.StorageConfig) (repository.AdviceLogRepository, error) {
	if cfg.AdviceDBPath == "" {
		return storage.NewMemoryAdviceRepository(cfg.AdviceHistorySize), nil
	}

	if dir := filepath.Dir(cfg.AdviceDBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	db, err := storage.NewSQLiteAdviceRepository(cfg.AdviceDBPath, cfg.AdviceHistorySize)
	if err != nil {
		return nil, fmt.Errorf("failed to open advice log: %w", err)
	}
	c.closers = append(c.closers, db.Close)
	c.log.WithField("path", cfg.AdviceDBPath).Info("Advice log opened")
	return db, nil
}

// Run serves the bot and, when enabled, the catalog watcher until ctx is done
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := a.handler.Start(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if a.watcher != nil {
		g.Go(func() error {
			return a.watcher.Run(ctx)
		})
	}

	return g.Wait()
}

// Close releases the advisor connection and the advice database
func (c *core) Close() error {
	c.log.Info("Shutting down...")

	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
