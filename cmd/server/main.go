package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/bottle/internal/application"
	"github.com/SARVESHVARADKAR123/bottle/internal/cache"
	"github.com/SARVESHVARADKAR123/bottle/internal/config"
	"github.com/SARVESHVARADKAR123/bottle/internal/geo"
	"github.com/SARVESHVARADKAR123/bottle/internal/handler"
	"github.com/SARVESHVARADKAR123/bottle/internal/kafka"
	"github.com/SARVESHVARADKAR123/bottle/internal/moderator"
	"github.com/SARVESHVARADKAR123/bottle/internal/observability"
	"github.com/SARVESHVARADKAR123/bottle/internal/outbox"
	"github.com/SARVESHVARADKAR123/bottle/internal/repository"
	"github.com/SARVESHVARADKAR123/bottle/internal/repository/memory"
	"github.com/SARVESHVARADKAR123/bottle/internal/repository/postgres"
	"github.com/SARVESHVARADKAR123/bottle/internal/seed"
	"github.com/SARVESHVARADKAR123/bottle/internal/transport/grpc"
	"github.com/SARVESHVARADKAR123/bottle/internal/tx"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type store interface {
	repository.Repository
	tx.Transactor
	observability.Pinger
}

type pgStore struct {
	*postgres.Repository
	*tx.Manager
}

func (s pgStore) PingContext(ctx context.Context) error { return s.DB.PingContext(ctx) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		observability.InitLogger("bottle", "info")
		observability.Log.Fatal("invalid configuration", zap.Error(err))
	}

	// Observability
	observability.InitLogger(cfg.ServiceName, cfg.LogLevel)
	log := observability.Log
	defer func() { _ = log.Sync() }()

	if cfg.TracingEnabled {
		tp, err := observability.InitTracer(cfg.ServiceName, cfg.JaegerURL)
		if err != nil {
			log.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error("failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	ctx := context.Background()

	// Store
	var (
		st store
		db *sql.DB
	)
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("db open failed", zap.Error(err))
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			log.Fatal("db ping failed", zap.Error(err))
		}

		repo := postgres.NewRepository(db, cfg.StoreTimeout)
		if err := repo.Migrate(ctx); err != nil {
			log.Fatal("db migrate failed", zap.Error(err))
		}
		st = pgStore{Repository: repo, Manager: &tx.Manager{DB: db}}
	default:
		log.Warn("using in-memory store, data is lost on restart")
		st = memory.NewStore()
	}

	// Caches
	opts := application.Options{
		Limits:          cfg.Limits(),
		OwnMessageEvery: cfg.OwnMessageEvery,
		GeoTimeout:      cfg.GeoTimeout,
	}
	opts.CountCache = cache.NewLocal()

	// The own-message cadence runs only against Redis.

	if cfg.RedisAddr != "" {
		rc := cache.New(cfg.RedisAddr)
		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis unavailable, fetch cadence disabled and message count cached in process", zap.Error(err))
			_ = rc.Close()
		} else {
			defer rc.Close()
			opts.FetchCounter, opts.CountCache = rc, rc
		}
	}

	if cfg.GeoLookupURL != "" {
		opts.Locator = geo.NewHTTPLocator(cfg.GeoLookupURL, cfg.GeoTimeout)
	}

	// Wire dependencies
	msgSvc := application.New(st, st, log, opts)
	modSvc := moderator.NewService(st, st, moderator.Config{
		SetupKey:    cfg.AdminSetupKey,
		JWTSecret:   cfg.JWTSecret,
		JWTIssuer:   cfg.JWTIssuer,
		JWTAudience: cfg.JWTAudience,
		TokenTTL:    cfg.TokenTTL,
	})

	if cfg.SeedOnStart {
		if _, err := seed.Run(ctx, st, log, time.Now()); err != nil {
			log.Error("seed failed", zap.Error(err))
		}
	}

	// Context for background workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if db != nil && len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()

		outboxWorker := outbox.NewWorker(db, producer, cfg.OutboxBatchSize, cfg.OutboxPollDelay, log)
		go outboxWorker.Start(workerCtx)
	}

	// HTTP server with chi router
	mux := handler.NewRouter(msgSvc, modSvc, st, handler.RouterConfig{
		ServiceName:      cfg.ServiceName,
		BasePath:         cfg.BasePath,
		JWTSecret:        cfg.JWTSecret,
		JWTIssuer:        cfg.JWTIssuer,
		JWTAudience:      cfg.JWTAudience,
		RequestTimeout:   cfg.RequestTimeout,
		SubmitRateLimit:  cfg.SubmitRateLimit,
		SubmitRateWindow: cfg.SubmitRateWindow,
		TrustProxy:       cfg.TrustProxy,
	})
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("HTTP started", zap.String("addr", cfg.HTTPAddr), zap.String("base_path", cfg.BasePath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// gRPC health server
	grpcSrv := grpc.NewServer(st, 5*time.Second, log)
	go grpcSrv.Watch(workerCtx)
	go func() {
		if err := grpcSrv.Start(cfg.GRPCAddr); err != nil {
			log.Fatal("gRPC server failed", zap.Error(err))
		}
	}()

	// HTTP Observability server
	obsMux := chi.NewRouter()
	obsMux.Use(observability.MetricsMiddleware("obs"))
	obsMux.Handle("/metrics", promhttp.Handler())
	obsMux.Get("/health/live", observability.HealthLiveHandler)
	obsMux.Get("/health/ready", observability.HealthReadyHandler(st))
	obsMux.Get("/health", handler.Health(msgSvc, st))

	obsSrv := &http.Server{Addr: cfg.ObsHTTPAddr, Handler: obsMux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("Observability HTTP started", zap.String("addr", cfg.ObsHTTPAddr))
		if err := obsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Observability server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down...")

	workerCancel()

	ctxShut, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctxShut); err != nil {
		log.Error("HTTP shutdown failed", zap.Error(err))
	}
	_ = obsSrv.Shutdown(ctxShut)
	grpcSrv.Stop()
	log.Info("stopped", zap.String("service", cfg.ServiceName))
}
