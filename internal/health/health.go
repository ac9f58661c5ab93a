// Package health exposes liveness and dependency probes.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pragati/internal/platform/redis"
	"pragati/pkg/platform/httputil"
)

// Handler answers health probes for the process and its backing stores.
type Handler struct {
	env     string
	started time.Time
	pool    *pgxpool.Pool
	redis   *redis.Client
}

// New builds the health handler. Nil pool or redis means the dependency is
// not configured and is reported as such rather than failing the probe.
func New(env string, pool *pgxpool.Pool, rc *redis.Client) *Handler {
	return &Handler{env: env, started: time.Now(), pool: pool, redis: rc}
}

// Routes returns the probe router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.live)
	r.Get("/db", h.dependencies)
	return r
}

func (h *Handler) live(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"environment": h.env,
		"uptime":      time.Since(h.started).Round(time.Second).String(),
	})
}

func (h *Handler) dependencies(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{
		"postgres": h.checkPostgres(ctx),
		"redis":    h.checkRedis(ctx),
	}
	for _, v := range checks {
		if v != "ok" && v != "not configured" {
			status = http.StatusServiceUnavailable
		}
	}
	httputil.WriteJSON(w, status, checks)
}

func (h *Handler) checkPostgres(ctx context.Context) string {
	if h.pool == nil {
		return "not configured"
	}
	if err := h.pool.Ping(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}

func (h *Handler) checkRedis(ctx context.Context) string {
	if h.redis == nil {
		return "not configured"
	}
	if err := h.redis.Health(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}
