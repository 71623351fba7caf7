package project

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ganot/knitpick/internal/metrics"
	"github.com/google/uuid"
)

// Service implements the project operations front ends call. Every mutation
// goes through the store's functional update, so the registry functions see
// the latest snapshot.
type Service struct {
	store    Store
	logger   *slog.Logger
	recorder metrics.Recorder
	palette  []Color
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

// WithPalette replaces the default color palette. An empty palette is ignored.
func WithPalette(palette []Color) Option {
	return func(s *Service) {
		if len(palette) > 0 {
			s.palette = slices.Clone(palette)
		}
	}
}

// WithIDGenerator sets the function used for IDs the caller leaves empty.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.recorder = rec
		}
	}
}

// NewService creates a new project service.
func NewService(store Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		store:    store,
		logger:   logger,
		recorder: metrics.NoopRecorder{},
		palette:  DefaultPalette,
		newID:    newProjectID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recorder.SetProjectCount(len(store.Get()))
	return s
}

// newProjectID returns a UUIDv7: a millisecond wall-clock timestamp followed
// by a sequence that keeps IDs increasing within the same millisecond.
func newProjectID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	ID          string
	Name        string
	Color       string
	FirstLabel  string
	SecondLabel string
}

// Create appends a new project with both counters at zero.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = s.newID()
	}

	color := req.Color
	if strings.TrimSpace(color) == "" {
		color = s.palette[0].Value
	}

	proj := Project{
		ID:    id,
		Name:  name,
		Color: color,
		Counters: [CounterCount]Counter{
			{Label: labelOr(req.FirstLabel, fallbackFirstLabel)},
			{Label: labelOr(req.SecondLabel, fallbackSecondLabel)},
		},
	}

	next, added := s.store.Mutate(func(list []Project) ([]Project, bool) {
		if _, exists := Find(list, id); exists {
			return list, false
		}
		return Add(list, proj), true
	})
	if !added {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	s.recorder.IncMutation("add")
	s.recorder.SetProjectCount(len(next))
	s.logger.InfoContext(ctx, "project created", "project_id", id, "name", name)
	return &proj, nil
}

// List returns the projects in insertion order.
func (s *Service) List(_ context.Context) []Project {
	list := slices.Clone(s.store.Get())
	if list == nil {
		list = []Project{}
	}
	return list
}

// Get fetches a project by ID.
func (s *Service) Get(_ context.Context, id string) (*Project, error) {
	proj, ok := Find(s.store.Get(), id)
	if !ok {
		return nil, ErrProjectNotFound
	}
	return &proj, nil
}

// Delete removes a project. An unknown ID leaves the snapshot untouched and
// returns ErrProjectNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	next, deleted := s.store.Mutate(func(list []Project) ([]Project, bool) {
		if _, ok := Find(list, id); !ok {
			return list, false
		}
		return Delete(list, id), true
	})
	if !deleted {
		return ErrProjectNotFound
	}

	s.recorder.IncMutation("delete")
	s.recorder.SetProjectCount(len(next))
	s.logger.InfoContext(ctx, "project deleted", "project_id", id)
	return nil
}

// UpdateCounter sets a counter to value. Negative values are stored as 0.
func (s *Service) UpdateCounter(ctx context.Context, id string, idx, value int) (*Project, error) {
	return s.mutateCounter(ctx, "update_counter", id, idx, func(list []Project) []Project {
		return UpdateCounter(list, id, idx, value)
	})
}

// Increment adds one to a counter.
func (s *Service) Increment(ctx context.Context, id string, idx int) (*Project, error) {
	return s.mutateCounter(ctx, "increment", id, idx, func(list []Project) []Project {
		return Increment(list, id, idx)
	})
}

// Decrement subtracts one from a counter, stopping at zero.
func (s *Service) Decrement(ctx context.Context, id string, idx int) (*Project, error) {
	return s.mutateCounter(ctx, "decrement", id, idx, func(list []Project) []Project {
		return Decrement(list, id, idx)
	})
}

// Reset sets a counter to zero.
func (s *Service) Reset(ctx context.Context, id string, idx int) (*Project, error) {
	return s.mutateCounter(ctx, "reset", id, idx, func(list []Project) []Project {
		return Reset(list, id, idx)
	})
}

// Palette returns the colors offered at creation.
func (s *Service) Palette() []Color {
	return slices.Clone(s.palette)
}

func (s *Service) mutateCounter(ctx context.Context, op, id string, idx int, fn func([]Project) []Project) (*Project, error) {
	if !validIndex(idx) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCounter, idx)
	}

	var (
		found   bool
		updated Project
	)
	_, changed := s.store.Mutate(func(list []Project) ([]Project, bool) {
		before, ok := Find(list, id)
		if !ok {
			return list, false
		}
		found = true
		next := fn(list)
		updated, _ = Find(next, id)
		// decrementing at zero or resetting a zero counter changes nothing
		if updated == before {
			return list, false
		}
		return next, true
	})
	if !found {
		return nil, ErrProjectNotFound
	}

	if changed {
		s.recorder.IncMutation(op)
		s.logger.DebugContext(ctx, "counter updated", "op", op, "project_id", id, "counter", idx, "value", updated.Counters[idx].Value)
	}
	return &updated, nil
}

func labelOr(label, fallback string) string {
	if strings.TrimSpace(label) == "" {
		return fallback
	}
	return label
}
