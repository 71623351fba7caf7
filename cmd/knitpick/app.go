package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ganot/knitpick/internal/config"
	"github.com/ganot/knitpick/internal/domain/project"
	"github.com/ganot/knitpick/internal/metrics"
	"github.com/ganot/knitpick/internal/repository"
	"github.com/ganot/knitpick/internal/slot"
	"github.com/ganot/knitpick/internal/sqlite"
	"github.com/ganot/knitpick/internal/store"
)

const closeTimeout = 5 * time.Second

// projects is an opened project store and the service on top of it.
type projects struct {
	svc       *project.Service
	store     *store.Store[[]project.Project]
	closeRepo func() error
}

func openProjects(ctx context.Context, cfg config.Config, logger *slog.Logger, rec metrics.Recorder) (*projects, error) {
	repo, closeRepo, err := openRepository(cfg.Storage)
	if err != nil {
		return nil, err
	}
	repo = slot.Limit(repo, cfg.Storage.MaxBytes)

	st, err := store.Open(ctx, repo, cfg.Storage.Key, []project.Project{},
		store.WithLogger(logger.With("component", "store")),
		store.WithRecorder(rec),
	)
	if err != nil {
		_ = closeRepo()
		return nil, fmt.Errorf("open project store: %w", err)
	}

	opts := []project.Option{
		project.WithRecorder(rec),
		project.WithPalette(paletteFromConfig(cfg)),
	}

	return &projects{
		svc:       project.NewService(st, logger.With("component", "projects"), opts...),
		store:     st,
		closeRepo: closeRepo,
	}, nil
}

// Close flushes pending writes and releases the repository.
func (p *projects) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	storeErr := p.store.Close(ctx)
	repoErr := p.closeRepo()
	if storeErr != nil {
		return fmt.Errorf("flush project store: %w", storeErr)
	}
	return repoErr
}

// paletteFromConfig returns the configured palette, or the default one when
// none is configured.
func paletteFromConfig(cfg config.Config) []project.Color {
	if len(cfg.Palette) == 0 {
		return project.DefaultPalette
	}
	palette := make([]project.Color, 0, len(cfg.Palette))
	for _, p := range cfg.Palette {
		palette = append(palette, project.Color{Name: p.Name, Value: p.Value})
	}
	return palette
}

func openRepository(cfg config.StorageConfig) (repository.SlotRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		return slot.NewMemory(), noop, nil
	case config.BackendFile:
		repo, err := slot.NewFile(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return repo, noop, nil
	case config.BackendSQLite:
		if err := ensureDBDir(cfg.Path); err != nil {
			return nil, nil, fmt.Errorf("prepare database path: %w", err)
		}
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqlite.NewSlotRepository(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
