package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-improver/internal/analyses"
	"resume-improver/internal/counter"
	"resume-improver/internal/documents"
	"resume-improver/internal/extract"
	"resume-improver/internal/llm"
	"resume-improver/internal/llm/openai"
	"resume-improver/internal/llm/vertex"
	"resume-improver/internal/ratelimit"
	"resume-improver/internal/services/health"
	"resume-improver/internal/shared/config"
	"resume-improver/internal/shared/server"
	"resume-improver/internal/shared/server/middleware"
	"resume-improver/internal/shared/storage/db"
	"resume-improver/internal/shared/storage/kv"
	"resume-improver/internal/shared/telemetry"
	"resume-improver/internal/uploads"
)

// App holds shared dependencies and the router built from them.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	KV              kv.Store
	LLM             llm.Client
	Limiter         *ratelimit.Limiter
	Counter         counter.Store
	AnalysesService *analyses.Service

	AnalysisHandler  *analyses.Handler
	LimitHandler     *ratelimit.Handler
	CounterHandler   *counter.Handler
	DocumentsHandler *documents.Handler
	HealthService    *health.Service

	components map[string]string
	closers    []func() error
}

// Build prepares shared dependencies and wires routes. Missing stores or AI
// credentials degrade the matching component instead of failing.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	app := &App{
		Config:     cfg,
		components: map[string]string{},
	}

	app.KV = kv.Shared(cfg.RedisURL, cfg.RedisToken)
	if app.KV != nil {
		app.components["store"] = "redis"
	} else {
		app.components["store"] = "memory"
	}

	app.DB = buildDB(ctx, cfg)
	if app.DB != nil {
		app.closers = append(app.closers, app.DB.Close)
	}

	app.LLM = buildLLM(ctx, app)

	app.Limiter = ratelimit.New(app.KV, ratelimit.Options{
		Cooldown: cfg.RateLimitCooldown,
		Disabled: cfg.RateLimitDisabled,
	})
	app.Counter = buildCounter(app)

	app.AnalysesService = &analyses.Service{
		Uploads:   uploads.Validator{MaxBytes: cfg.MaxUploadBytes},
		Extractor: extract.New(),
		LLM:       app.LLM,
		Limiter:   app.Limiter,
		Timeout:   cfg.RequestTimeout,
	}
	app.AnalysisHandler = analyses.NewHandler(app.AnalysesService)
	app.LimitHandler = ratelimit.NewHandler(app.Limiter)
	app.CounterHandler = counter.NewHandler(app.Counter)
	app.DocumentsHandler = documents.NewHandler()
	app.HealthService = health.NewService(app.KV, app.DB, app.components)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		AnalysisHandler:  app.AnalysisHandler,
		LimitHandler:     app.LimitHandler,
		CounterHandler:   app.CounterHandler,
		DocumentsHandler: app.DocumentsHandler,
		Throttler:        middleware.NewThrottler(nil),
		Health:           app.HealthService.Status,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":        cfg.Env,
		"components": app.components,
	})
	return app, nil
}

// Close releases connections opened by Build.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) *sql.DB {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil
	}
	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		telemetry.Warn("bootstrap.db.unavailable", map[string]any{"err": err})
		return nil
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Warn("bootstrap.db.migrations_failed", map[string]any{"err": err})
		if db.CurrentRuntime() != db.RuntimeLambda {
			_ = sqlDB.Close()
		}
		return nil
	}
	return sqlDB
}

func buildCounter(app *App) counter.Store {
	switch {
	case app.DB != nil:
		app.components["counter"] = "postgres"
		return counter.NewPGStore(app.DB)
	case app.KV != nil:
		app.components["counter"] = "redis"
		return counter.NewKVStore(app.KV)
	default:
		app.components["counter"] = "none"
		return nil
	}
}

func buildLLM(ctx context.Context, app *App) llm.Client {
	cfg := app.Config
	switch cfg.LLMProvider {
	case "vertex":
		client, err := vertex.NewClient(ctx, cfg.GoogleCloudProject, cfg.GoogleCloudLocation, cfg.LLMModel)
		if err == nil {
			app.components["ai"] = "vertex"
			app.closers = append(app.closers, client.Close)
			return client
		}
		telemetry.Warn("bootstrap.llm.unavailable", map[string]any{"provider": "vertex", "err": err})
	case "openai":
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.OpenAIBaseURL)
		if err == nil {
			app.components["ai"] = "openai:" + client.Model()
			return client
		}
		telemetry.Warn("bootstrap.llm.unavailable", map[string]any{"provider": "openai", "err": err})
	}
	app.components["ai"] = "placeholder"
	return llm.Placeholder{}
}
