package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/budgetwise/budgetwise/internal/config"
	"github.com/budgetwise/budgetwise/internal/utils"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const evictionInterval = time.Minute

// Application wires configuration, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication(cfg config.Application) *Application {
	r := mux.NewRouter()

	// Build dependencies (services, handlers...)
	deps := BuildDependencies(cfg, utils.SystemClock{})

	// Middleware chain
	SetupMiddleware(r, deps)

	// Routes
	RegisterRoutes(r, deps)

	readTimeout, writeTimeout, idleTimeout := cfg.Server.Timeouts()
	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Server.Address,
		WriteTimeout: writeTimeout,
		ReadTimeout:  readTimeout,
		IdleTimeout:  idleTimeout,
	}

	return &Application{cfg: cfg, deps: deps, router: r, srv: srv}
}

// Handler exposes the router, mainly for tests.
func (a *Application) Handler() http.Handler {
	return a.router
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.deps.SessionStore.RunEviction(ctx, evictionInterval)

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := a.srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
