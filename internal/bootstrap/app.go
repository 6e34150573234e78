package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"contract-scanner/internal/shared/auth"
	"contract-scanner/internal/shared/config"
	"contract-scanner/internal/shared/server"
	"contract-scanner/internal/shared/storage/db"
	"contract-scanner/internal/shared/storage/object"
	localstore "contract-scanner/internal/shared/storage/object/local"
	s3store "contract-scanner/internal/shared/storage/object/s3"
	"contract-scanner/internal/shared/telemetry"
	"contract-scanner/internal/templates"
	"contract-scanner/internal/users"
)

const defaultRegion = "us-east-1"

// App holds the backend's wired dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Revoker          auth.TokenRevoker
	TemplateStore    object.ObjectStore
	Catalog          *templates.Catalog
	UsersRepo        users.Repo
	UsersService     *users.Service
	TemplatesHandler *templates.Handler

	closers []func() error
}

// Build connects storage and wires services and routes. In dev-like
// environments missing infrastructure falls back to in-memory stand-ins.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if sqlDB != nil {
		app.DB = sqlDB
		app.closers = append(app.closers, sqlDB.Close)
	}

	revoker, err := buildRevoker(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Revoker = revoker
	if redisRevoker, ok := revoker.(*auth.RedisTokenRevoker); ok {
		app.closers = append(app.closers, redisRevoker.Close)
	}

	store, err := TemplateStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.TemplateStore = store

	catalog, err := templates.LoadCatalogFile(cfg.TemplatesCatalog)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("load template catalog: %w", err)
	}
	app.Catalog = catalog
	if cfg.TemplatesStore == "local" && config.IsDevLike(cfg.Env) {
		res, err := templates.Seed(ctx, catalog, store, false)
		if err != nil {
			telemetry.Warn("bootstrap.template_seed_failed", map[string]any{"error": err.Error()})
		} else if res.Written > 0 {
			telemetry.Info("bootstrap.templates_seeded", map[string]any{"written": res.Written, "skipped": res.Skipped})
		}
	}

	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
	}
	app.UsersService = users.NewService(app.UsersRepo, app.Revoker, cfg.JWTTTL)
	app.TemplatesHandler = templates.NewHandler(catalog, store)

	deps := server.RouterDeps{
		Users:          app.UsersService,
		Templates:      app.TemplatesHandler,
		DB:             app.DB,
		AllowedOrigins: cfg.CORSAllowOrigin,
	}
	if pinger, ok := revoker.(server.Pinger); ok {
		deps.Cache = pinger
	}
	app.Router = server.NewRouter(deps)

	return app, nil
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_users", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_users", map[string]any{"reason": "database unavailable", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildRevoker(ctx context.Context, cfg config.Config) (auth.TokenRevoker, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return auth.NewMemoryTokenRevoker(), nil
	}
	revoker, err := auth.NewRedisTokenRevoker(cfg.RedisURL)
	if err == nil {
		err = revoker.Ping(ctx)
		if err != nil {
			_ = revoker.Close()
		}
	}
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_revoker", map[string]any{"error": err.Error()})
			return auth.NewMemoryTokenRevoker(), nil
		}
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return revoker, nil
}

// TemplateStore opens the object store configured by TEMPLATES_STORE.
func TemplateStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.TemplatesStore {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("TEMPLATES_STORE=s3 requires S3_BUCKET")
		}
		region := cfg.AWSRegion
		if strings.TrimSpace(region) == "" {
			region = defaultRegion
		}
		return s3store.New(ctx, region, cfg.S3Bucket, cfg.S3Prefix, "")
	default:
		return localstore.New(cfg.TemplatesDir), nil
	}
}
