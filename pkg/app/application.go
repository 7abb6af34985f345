package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"roombook/pkg/config"
	"roombook/pkg/contracts"
	"roombook/pkg/middleware"
	"syscall"

	"github.com/julienschmidt/httprouter"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ShutdownHook runs after the HTTP server stopped, in registration order.
type ShutdownHook func(ctx context.Context) error

type Application struct {
	cfg            *config.Config
	server         *http.Server
	stoppers       []contracts.Stopper
	hooks          []namedHook
	healthHandler  http.Handler
	appHttpHandler http.Handler
}

type namedHook struct {
	name string
	fn   ShutdownHook
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// OnShutdown registers fn to run during graceful shutdown.
func (a *Application) OnShutdown(name string, fn ShutdownHook) {
	a.hooks = append(a.hooks, namedHook{name: name, fn: fn})
}

func (a *Application) SetApp(healthHandler, appHandler contracts.Handler) {
	a.setHealthHandler(healthHandler)
	a.setAppHandler(appHandler)
	a.setAppServer()
}

// Handler exposes the assembled mux. Used by tests and by embedders that
// run their own server.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

func (a *Application) setHealthHandler(healthHandler contracts.Handler) {
	healthRouter := httprouter.New()
	healthHandler.RegisterRoutes(healthRouter)

	var h http.Handler = healthRouter
	h = middleware.RequestLogging(a.cfg.Log)(h)
	h = middleware.Recovery(a.cfg.Log)(h)
	a.healthHandler = h
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler(appHandler contracts.Handler) {
	appRouter := httprouter.New()
	appHandler.RegisterRoutes(appRouter)

	var idempotencyStore middleware.IdempotencyStore
	var limiter middleware.Limiter
	if rdb := a.cfg.Client.Redis; rdb != nil {
		idempotencyStore = middleware.NewRedisIdempotencyStore(rdb, a.cfg.IdempotencyTTL, a.cfg.RedisKeyPrefix, a.cfg.Log)
		limiter = middleware.NewRedisRateLimiter(rdb, a.cfg.RateLimitRequests, a.cfg.RateLimitWindow, a.cfg.RedisKeyPrefix+":rl")
		a.cfg.Log.Info("Rate limiting and idempotency backed by Redis")
	} else {
		memStore := middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
		memLimiter := middleware.NewInMemoryRateLimiter(a.cfg.RateLimitRequests, a.cfg.RateLimitWindow)
		a.stoppers = append(a.stoppers, memStore, memLimiter)
		idempotencyStore, limiter = memStore, memLimiter
		a.cfg.Log.Info("Rate limiting and idempotency kept in memory")
	}

	var h http.Handler = appRouter
	h = middleware.Idempotency(idempotencyStore, middleware.DefaultIdempotencyHeader)(h)
	h = middleware.RequestTimeout(a.cfg.RequestTimeout)(h)
	h = middleware.RateLimit(limiter, middleware.RequesterOrIPKey, a.cfg.Log)(h)
	h = middleware.ContentTypeValidation(a.cfg.Log)(h)
	h = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(h)
	h = middleware.RequestLogging(a.cfg.Log)(h)
	h = middleware.Recovery(a.cfg.Log)(h)
	h = otelhttp.NewHandler(h, "bookings",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	a.appHttpHandler = h
	a.cfg.Log.Info("Application endpoints configured with full middleware stack")
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/", a.appHttpHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Log.Info("Stopping background workers...")
	for _, s := range a.stoppers {
		s.Stop()
	}
	for _, hook := range a.hooks {
		if err := hook.fn(ctx); err != nil {
			a.cfg.Log.Error("Shutdown hook failed", "hook", hook.name, "error", err)
		}
	}
	a.cfg.Log.Info("Background workers stopped")

	a.cfg.GracefulShutdown()
	a.cfg.Log.Info("Server stopped gracefully")
}
