package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"draftdesk/internal/bootstrap/config"
	"draftdesk/internal/bootstrap/database"
	"draftdesk/internal/bootstrap/logging"
	"draftdesk/internal/errs"
	cacheinfra "draftdesk/internal/infrastructure/cache"
	sqliterepo "draftdesk/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "draftdesk/internal/infrastructure/persistence/sqlite/uow"
	"draftdesk/internal/infrastructure/portal"
	"draftdesk/internal/ports"
	"draftdesk/internal/scrape"
	"draftdesk/internal/usecase/ingest"
	"draftdesk/internal/usecase/orders"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewOrderRepository,
			fx.As(new(ports.OrderRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(providePortalConfig),
	fx.Provide(
		fx.Annotate(
			portal.NewClient,
			fx.As(new(ports.PortalFetcher)),
		),
	),
	fx.Provide(provideNormalizer),
	fx.Provide(orders.NewService),
	fx.Provide(ingest.NewService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func providePortalConfig(cfg config.Config) config.PortalConfig {
	return cfg.Portal
}

func provideNormalizer(cfg config.Config) (*scrape.Normalizer, error) {
	source, err := time.LoadLocation(cfg.Portal.SourceTimezone)
	if err != nil {
		return nil, errs.Wrap(err, "load portal source timezone")
	}
	local, err := time.LoadLocation(cfg.Portal.LocalTimezone)
	if err != nil {
		return nil, errs.Wrap(err, "load portal local timezone")
	}
	skew := time.Duration(cfg.Portal.ClockSkewHours) * time.Hour
	return scrape.NewNormalizer(source, local, skew), nil
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}
