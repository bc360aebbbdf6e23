package internal

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/tiwaz/internal/index"
	"github.com/starford/tiwaz/internal/objectiveservice"
	"github.com/starford/tiwaz/internal/storage"
	"github.com/starford/tiwaz/internal/store"
)

// runtime is the wired object graph shared by every command.
type runtime struct {
	cfg    *Config
	logger *slog.Logger
	loader *store.Loader
	store  *store.Store
	db     *index.DB
	svc    *objectiveservice.Service
}

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev", logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func (app *application) newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
}

// newLoader picks the storage provider: the data directory when one is
// configured, else the embedded sample.
func newLoader(cfg *Config, logger *slog.Logger) (*store.Loader, error) {
	l := &store.Loader{Strict: cfg.Data.Strict, Logger: logger}
	if cfg.Data.Embedded() {
		l.Provider = storage.Sample()
		l.File = storage.SampleFile
		return l, nil
	}
	fs, err := storage.NewFS(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	l.Provider = fs
	l.File = cfg.Data.File
	return l, nil
}

// bootstrap loads the dataset and, when withIndex is set and the index is
// enabled, opens and syncs the SQLite mirror.
func (app *application) bootstrap(logger *slog.Logger, withIndex bool) (*runtime, error) {
	cfg := app.config

	loader, err := newLoader(cfg, logger)
	if err != nil {
		return nil, err
	}
	snap, _, err := loader.Load()
	if err != nil {
		return nil, err
	}
	rt := &runtime{
		cfg:    cfg,
		logger: logger,
		loader: loader,
		store:  store.New(snap),
	}

	if withIndex && cfg.SQLite.Enabled {
		db, err := index.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("init index: %w", err)
		}
		if err := index.Sync(db, snap, logger); err != nil {
			logger.Warn("initial sync failed", slog.String("error", err.Error()))
		}
		rt.db = db
	}

	if rt.db != nil {
		rt.svc = objectiveservice.NewService(rt.store, rt.db)
	} else {
		rt.svc = objectiveservice.NewService(rt.store, nil)
	}
	return rt, nil
}

// onReload mirrors a swapped snapshot into the index and forwards the
// outcome to notify.
func (rt *runtime) onReload(notify func(store.ReloadEvent)) func(store.ReloadEvent) {
	return func(ev store.ReloadEvent) {
		if ev.Kind == store.KindReloaded && rt.db != nil {
			if err := index.Sync(rt.db, rt.store.Snapshot(), rt.logger); err != nil {
				rt.logger.Error("index sync failed", slog.String("error", err.Error()))
			}
		}
		if notify != nil {
			notify(ev)
		}
	}
}

// watchable reports whether the dataset can be watched for changes.
func (rt *runtime) watchable() bool {
	return rt.cfg.Data.Watch && rt.loader.Provider.Root() != ""
}

func (rt *runtime) close() {
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			rt.logger.Warn("close index", slog.String("error", err.Error()))
		}
	}
}
