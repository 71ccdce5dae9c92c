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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trs/internal/history/handler"
	"trs/internal/history/legacy"
	historymetrics "trs/internal/history/metrics"
	"trs/internal/history/service"
	"trs/internal/history/timeline"
	jwttoken "trs/internal/jwt_token"
	"trs/internal/platform/config"
	"trs/internal/platform/httpserver"
	"trs/internal/platform/logger"
	"trs/internal/platform/metrics"
	ratelimitmetrics "trs/internal/ratelimit/metrics"
	ratelimitmw "trs/internal/ratelimit/middleware"
	ratelimitmodels "trs/internal/ratelimit/models"
	"trs/pkg/platform/audit/publisher"
	"trs/pkg/platform/clock"
	"trs/pkg/platform/httputil"
	"trs/pkg/platform/middleware/admin"
	authmw "trs/pkg/platform/middleware/auth"
	"trs/pkg/platform/middleware/metadata"
	"trs/pkg/platform/middleware/request"
	"trs/pkg/platform/middleware/requesttime"
)

const (
	tokenAudience    = "trs-api"
	accessBufferSize = 1024
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	ref, err := legacy.Load(cfg.ReferenceDataPath)
	if err != nil {
		return err
	}
	loc, err := timeline.LoadLocation(cfg.DisplayTimeZone)
	if err != nil {
		return err
	}

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	historyMetrics := historymetrics.New()
	builder := timeline.NewBuilder(ref,
		timeline.WithLogger(log),
		timeline.WithMetrics(historyMetrics),
		timeline.WithLocation(loc),
	)
	historyService := service.New(b.events, b.people, builder, ref,
		service.WithLogger(log),
		service.WithMetrics(historyMetrics),
	)

	access := publisher.NewPublisher(b.access, publisher.WithAsyncBuffer(accessBufferSize), publisher.WithLogger(log))
	defer access.Close()

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, tokenAudience)
	limiter := ratelimitmw.New(b.buckets,
		ratelimitmodels.Policy{Limit: cfg.RateLimit.Requests, Window: cfg.RateLimit.Window},
		log, ratelimitmw.WithMetrics(ratelimitmetrics.New()))
	router := newRouter(cfg, log, metrics.New(), jwttoken.NewJWTServiceAdapter(jwtService), routes{
		history:   handler.New(historyService, log, handler.WithAuditor(access)),
		accessLog: handler.NewAccessLog(access),
		limit:     limiter.PerUser,
	})

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting trs", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
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

// routes are the handlers mounted behind the shared middleware stack.
type routes struct {
	history   *handler.Handler
	accessLog *handler.AccessLog
	limit     func(http.Handler) http.Handler
}

func newRouter(cfg config.Server, log *slog.Logger, m *metrics.Metrics, validator authmw.JWTValidator, rt routes) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Recovery(log))
	r.Use(request.Logger(log))
	r.Use(request.Metrics(m))
	r.Use(requesttime.Middleware(clock.System{}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.With(admin.RequireAdminToken(cfg.AdminToken, log)).Handle("/metrics", promhttp.Handler())

	// The access log is only exposed when an admin token is configured.
	if cfg.AdminToken != "" {
		r.Route("/admin", func(r chi.Router) {
			r.Use(admin.RequireAdminToken(cfg.AdminToken, log))
			rt.accessLog.Register(r)
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(validator, log))
		if rt.limit != nil {
			r.Use(rt.limit)
		}
		rt.history.Register(r)
	})
	return r
}
