// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/tiwaz/internal/api"
	"github.com/starford/tiwaz/internal/formatter"
	"github.com/starford/tiwaz/internal/mcpserver"
	"github.com/starford/tiwaz/internal/sse"
	"github.com/starford/tiwaz/internal/store"
	"github.com/starford/tiwaz/internal/tree"
	"github.com/starford/tiwaz/internal/web"
)

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := app.newLogger()
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_dir", cfg.Data.Dir),
		slog.String("data_file", cfg.Data.File),
		slog.Bool("sqlite_enabled", cfg.SQLite.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	rt, err := app.bootstrap(logger, true)
	if err != nil {
		return err
	}
	defer rt.close()

	broker := sse.NewBroker(cfg.Events.Throttle)

	dashboard, err := web.NewHandler(rt.svc)
	if err != nil {
		return err
	}
	apiRouter := api.NewRouter(rt.svc, broker)
	avatars := api.NewAvatarHandler(rt.loader.Provider)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.With(api.ETag(rt.svc.Checksum)).Get("/", dashboard.Dashboard)
	r.Get("/avatars/{filename}", avatars.ServeFile)
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if rt.watchable() {
		g.Go(func() error {
			notify := rt.onReload(func(ev store.ReloadEvent) {
				broker.PublishDatasetEvent(ev.Kind, ev.Checksum, ev.Err)
			})
			if err := store.Watch(gCtx, rt.store, rt.loader, cfg.Data.Debounce, notify); err != nil {
				logger.Error("watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	} else {
		logger.Info("dataset watch disabled")
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Closing the broker ends open event streams so Shutdown can drain.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group context so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// TreeOptions selects what PrintTree shows.
type TreeOptions struct {
	Open  string
	All   bool
	Plain bool
}

// PrintTree writes the top-level view to w.
func PrintTree(ctx context.Context, w io.Writer, to TreeOptions, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	rt, err := app.bootstrap(app.newLogger(), false)
	if err != nil {
		return err
	}
	defer rt.close()

	expanded, err := tree.ParseExpanded(to.Open)
	if err != nil {
		return err
	}
	if to.All {
		expanded = rt.svc.ExpandAll(ctx)
	}
	p := formatter.Printer{Plain: to.Plain}
	_, err = io.WriteString(w, p.RenderTree(rt.svc.Tree(ctx, expanded)))
	return err
}

// Check validates the dataset and writes a report to w. It returns an error
// when the dataset would be rejected.
func Check(_ context.Context, w io.Writer, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	loader, err := newLoader(app.config, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return err
	}
	snap, warnings, err := loader.Load()
	if err != nil {
		fmt.Fprintf(w, "invalid: %v\n", err)
		return err
	}
	for _, warn := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	fmt.Fprintf(w, "ok: %d objectives, %d members, %d kpis, %d warnings\n",
		len(snap.Objectives()), len(snap.Members()), len(snap.KPIs()), len(warnings))
	return nil
}

// ServeMCP serves the MCP tools over stdio until stdin closes or ctx ends.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.newLogger()
	rt, err := app.bootstrap(logger, true)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if rt.watchable() {
		go func() {
			if err := store.Watch(ctx, rt.store, rt.loader, app.config.Data.Debounce, rt.onReload(nil)); err != nil {
				logger.Error("watcher failed", slog.String("error", err.Error()))
			}
		}()
	}

	return mcpserver.New(rt.svc, app.version).ServeStdio()
}
