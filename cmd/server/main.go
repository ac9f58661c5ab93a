// Command server runs the citizen services API: authentication plus the ten
// entity modules behind one JSON surface.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"pragati/internal/appointments"
	"pragati/internal/auth"
	"pragati/internal/cases"
	"pragati/internal/csr"
	"pragati/internal/disputes"
	"pragati/internal/docstore"
	"pragati/internal/education"
	"pragati/internal/emergencies"
	"pragati/internal/health"
	"pragati/internal/platform/config"
	"pragati/internal/platform/httpserver"
	"pragati/internal/platform/logger"
	"pragati/internal/platform/metrics"
	"pragati/internal/platform/middleware"
	"pragati/internal/platform/postgres"
	appredis "pragati/internal/platform/redis"
	"pragati/internal/programs"
	"pragati/internal/relief"
	"pragati/internal/temples"
	"pragati/internal/users"
	"pragati/internal/workflow/sequence"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if cfg.Production() && cfg.JWTSigningKey == "dev-secret-key-change-in-production" {
		return errors.New("JWT_SIGNING_KEY must be set in production")
	}

	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.Migrate(cfg.DatabaseURL, cfg.MigrationsDir, log); err != nil {
			return err
		}
		log.Info("postgres connected")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	var rc *appredis.Client
	if cfg.RedisURL != "" {
		var err error
		rc, err = appredis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close()
		log.Info("redis connected")
	}

	// Reference numbers come from redis when available, the database
	// otherwise, and a process-local counter as the last resort.
	var seq sequence.Generator
	switch {
	case rc != nil:
		seq = sequence.NewRedis(rc.Raw())
	case pool != nil:
		seq = sequence.NewPostgres(pool)
	default:
		seq = sequence.NewMemory()
	}

	m := metrics.New()
	issuer := auth.NewTokenIssuer(cfg.JWTSigningKey, cfg.TokenTTL)

	userSvc := users.NewService(store[users.User](pool, "users"), issuer, log)
	userHandler := users.NewHandler(userSvc, issuer)

	reliefHandler := relief.New(store[relief.Request](pool, "cmrelief"), seq, log, m)
	educationHandler := education.New(store[education.Request](pool, "education"), seq, log, m)
	disputeHandler := disputes.New(store[disputes.Dispute](pool, "disputes"), seq, log, m)
	templeHandler := temples.New(store[temples.Request](pool, "temples"), seq, log, m)
	appointmentHandler := appointments.New(store[appointments.Appointment](pool, "appointments"), seq, log, m)
	csrHandler := csr.New(store[csr.Project](pool, "csr_projects"), seq, log, m)
	programHandler := programs.New(store[programs.Program](pool, "programs"), seq, log, m)
	emergencyHandler := emergencies.New(store[emergencies.Emergency](pool, "emergencies"), seq, log, m)
	caseHandler := cases.New(store[cases.Case](pool, "cases"), seq, log, m)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(m.Middleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	r.Mount("/api/health", health.New(cfg.Env, pool, rc).Routes())
	r.Mount("/api/auth", userHandler.Routes())
	r.Mount("/api/users", userHandler.Routes())

	protected := auth.RequireAuth(issuer)
	r.Route("/api/cmrelief", func(r chi.Router) {
		r.Use(protected)
		r.Mount("/", reliefHandler.Routes())
	})
	r.Route("/api/disputes", func(r chi.Router) {
		r.Use(protected)
		r.Mount("/", disputeHandler.Routes())
	})
	r.Route("/api/temples", func(r chi.Router) {
		r.Use(protected)
		r.Mount("/", templeHandler.Routes())
	})

	r.Mount("/api/education", educationHandler.Routes())
	r.Mount("/api/appointments", appointmentHandler.Routes())
	r.Mount("/api/csrindustrial", csrHandler.Routes())
	r.Mount("/api/programs", programHandler.Routes())
	r.Mount("/api/emergencies", emergencyHandler.Routes())
	r.Mount("/api/cases", caseHandler.Routes())

	srv := httpserver.New(cfg.Addr, r)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// store picks the backing collection for one module: postgres-backed when a
// pool is configured, in-memory otherwise.
func store[T any, PT docstore.Ptr[T]](pool *pgxpool.Pool, table string) docstore.Collection[PT] {
	if pool != nil {
		return docstore.NewPostgres[T, PT](pool, table)
	}
	return docstore.NewMemory[T, PT]()
}
