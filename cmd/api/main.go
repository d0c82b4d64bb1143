package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"loanops/docs"
	"loanops/internal/audit"
	"loanops/internal/cache"
	"loanops/internal/config"
	"loanops/internal/database"
	"loanops/internal/database/migration"
	"loanops/internal/extraction"
	handlers "loanops/internal/http/handler"
	"loanops/internal/http/middleware"
	"loanops/internal/logger"
	tracing "loanops/internal/otel"
	"loanops/internal/repository"
	"loanops/internal/repository/memory"
	"loanops/internal/repository/postgres"
	"loanops/internal/scheduler"
	"loanops/internal/service"
	"loanops/internal/storage"
)

const (
	uploadBodyLimit = 25 << 20
	shutdownTimeout = 10 * time.Second
)

// store is a repository backend: pool-bound repositories plus transactions.
type store interface {
	repository.UnitOfWork
	Repos() repository.Repos
}

// @title LoanOps Copilot API
// @version 1.0
// @description Loan facility tracking: covenants, obligations, documents, risk and health.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracing")
	}

	db, st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	if db != nil {
		defer db.Close()
	}

	objStore, err := openObjectStorage(cfg.MinIO, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize object storage")
	}

	dashCache, err := openDashboardCache(cfg.Redis, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	repos := st.Repos()
	rec := audit.NewRecorder(repos.Audit, log)
	coord := service.NewCoordinator(st, rec, dashCache, service.NewMetrics(reg), log)
	extractor := extraction.NewExtractor(newCompleter(cfg.Extraction, log), log.WithField("component", "extraction"),
		time.Duration(cfg.Extraction.TimeoutSec)*time.Second)

	loanSvc := service.NewLoanService(repos, st, objStore, rec, dashCache, log)
	riskSvc := service.NewRiskService(repos, coord, log)
	svcs := handlers.Services{
		Loans:       loanSvc,
		Covenants:   service.NewCovenantService(repos, coord),
		Obligations: service.NewObligationService(repos, coord),
		Documents:   service.NewDocumentService(repos, st, objStore, extractor, coord, rec, dashCache, log),
		Risks:       riskSvc,
		Comparisons: service.NewComparisonService(repos, objStore, rec, log),
		Audit:       service.NewAuditService(rec),
		Dashboard:   service.NewDashboardService(repos, dashCache, log),
		Demo:        service.NewDemoService(st, objStore, coord, log),
	}

	var sched *scheduler.Scheduler
	if cfg.RiskRefreshSchedule != "" {
		sched, err = scheduler.New(cfg.RiskRefreshSchedule, riskSvc, log)
		if err != nil {
			log.WithError(err).Fatal("invalid RISK_REFRESH_SCHEDULE")
		}
		sched.Start()
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.WithError(err).Fatal("failed to register http metrics")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    uploadBodyLimit,
	})

	// RequestID first so every later middleware and the error envelope can see it
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())
	app.Use(cors.New())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, db, svcs)

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "store": cfg.StoreDriver}).Info("server starting")
		if err := app.Listen(addr); err != nil {
			log.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown failed")
	}
	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.WithError(err).Error("tracing shutdown failed")
	}
}

// openStore returns the repository backend selected by STORE_DRIVER. The
// returned *sql.DB is nil for the in-memory store.
func openStore(ctx context.Context, cfg *config.AppConfig, log logrus.FieldLogger) (*sql.DB, store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		log.WithField("component", "store").Warn("using in-memory store, data is lost on restart")
		return nil, memory.NewStore(), nil
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, postgres.NewStore(db), nil
	default:
		return nil, nil, errors.New("unknown STORE_DRIVER " + cfg.StoreDriver)
	}
}

// openObjectStorage returns nil when no endpoint is configured; documents then
// keep only their content preview.
func openObjectStorage(cfg config.MinIOConfig, log logrus.FieldLogger) (storage.Storage, error) {
	if cfg.Endpoint == "" {
		log.WithField("component", "storage").Warn("object storage disabled")
		return nil, nil
	}
	return storage.NewMinIO(cfg)
}

func openDashboardCache(cfg config.RedisConfig, log logrus.FieldLogger) (*cache.DashboardCache, error) {
	if cfg.Addr == "" {
		log.WithField("component", "dashboard_cache").Info("dashboard cache disabled")
		return nil, nil
	}
	rdb, err := cache.OpenRedis(cfg.Addr, cfg.DB)
	if err != nil {
		return nil, err
	}
	return cache.NewDashboardCache(rdb, time.Duration(cfg.CacheTTLSec)*time.Second), nil
}

// newCompleter returns nil without a credential; extraction then falls back
// to its neutral result.
func newCompleter(cfg config.ExtractionConfig, log logrus.FieldLogger) extraction.Completer {
	c, err := extraction.NewOpenAICompleter(cfg)
	if err != nil {
		log.WithField("component", "extraction").WithError(err).Warn("document extraction runs without a model")
		return nil
	}
	return c
}
