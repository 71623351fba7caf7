// Package store provides a state cell that mirrors its value to a durable
// slot.
//
// A Store behaves like a variable with a getter and a notifying setter. The
// value is loaded once from the slot when the store is opened, falling back to
// a default when the slot is absent or unreadable. Every change updates memory
// synchronously, notifies the single observer, and schedules a write of the
// full value to the slot. Writes run on a background goroutine and are never
// awaited by mutations; a failed write is logged and the in-memory value stays
// authoritative for the rest of the process.
//
// A slot that could not be read is never overwritten by the fallback value;
// only a later change writes to it.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ganot/knitpick/internal/metrics"
	"github.com/ganot/knitpick/internal/repository"
)

// ErrInvalidConfig is returned by Open for a nil repository or an empty key.
var ErrInvalidConfig = errors.New("invalid store configuration")

const defaultWriteTimeout = 5 * time.Second

// Option configures a Store.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	recorder     metrics.Recorder
	writeTimeout time.Duration
}

// WithLogger sets the logger used for recovered load and write failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(o *options) {
		if rec != nil {
			o.recorder = rec
		}
	}
}

// WithWriteTimeout bounds each durable write.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.writeTimeout = d
		}
	}
}

// Store is a state cell of type T bound to one durable slot.
//
// Values handed to and returned from a Store are snapshots: callers must not
// modify them in place, only replace them.
type Store[T any] struct {
	key  string
	repo repository.SlotRepository
	opts options

	mu        sync.Mutex
	value     T
	version   uint64
	observer  func(T)
	obsSeq    uint64
	pending   []byte
	hasWrite  bool
	notifyMu  sync.Mutex
	delivered uint64

	kick      chan struct{}
	flushReq  chan chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Open loads the value stored under key, or defaultValue when the slot is
// absent, unreadable or malformed, and starts the background writer. Load
// failures are logged, not returned. The loaded value is written back so the
// slot exists from the first load on, unless reading the slot failed: then
// the stored data is left alone until the first change.
func Open[T any](ctx context.Context, repo repository.SlotRepository, key string, defaultValue T, opts ...Option) (*Store[T], error) {
	if repo == nil {
		return nil, fmt.Errorf("%w: nil slot repository", ErrInvalidConfig)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidConfig)
	}

	o := options{
		logger:       slog.New(slog.DiscardHandler),
		recorder:     metrics.NoopRecorder{},
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store[T]{
		key:      key,
		repo:     repo,
		opts:     o,
		kick:     make(chan struct{}, 1),
		flushReq: make(chan chan struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	var outcome metrics.LoadOutcome
	s.value, outcome = s.load(ctx, defaultValue)

	if outcome != metrics.LoadFailed {
		s.mu.Lock()
		s.scheduleLocked(s.value)
		s.mu.Unlock()
	}

	go s.writeLoop()
	s.signal()

	return s, nil
}

// Key returns the durable slot key. It never changes.
func (s *Store[T]) Key() string {
	return s.key
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the current value.
func (s *Store[T]) Set(v T) {
	s.Mutate(func(T) (T, bool) { return v, true })
}

// Update replaces the current value with fn(current) and returns the result.
// fn runs under the store lock, so concurrent updates compose.
func (s *Store[T]) Update(fn func(T) T) T {
	v, _ := s.Mutate(func(prev T) (T, bool) { return fn(prev), true })
	return v
}

// Mutate is Update for changes that may turn out to be no-ops. When fn
// reports false nothing is stored, notified or written, and the current
// value is returned.
func (s *Store[T]) Mutate(fn func(T) (T, bool)) (T, bool) {
	s.mu.Lock()
	next, changed := fn(s.value)
	if !changed {
		cur := s.value
		s.mu.Unlock()
		return cur, false
	}
	s.value = next
	s.version++
	version := s.version
	s.scheduleLocked(next)
	s.mu.Unlock()

	s.signal()
	s.notify(next, version)
	return next, true
}

// notify hands v to the observer unless a newer value has already been
// delivered. Observer calls never overlap, so the last value an observer
// sees is the latest one even when mutations race.
func (s *Store[T]) notify(v T, version uint64) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if version <= s.delivered {
		return
	}
	s.delivered = version

	s.mu.Lock()
	observer := s.observer
	s.mu.Unlock()
	if observer != nil {
		observer(v)
	}
}

// Subscribe installs fn as the observer, replacing any previous one. fn is
// called synchronously after every change, outside the store lock, and may
// call Get but must not change the store. When mutations race, a value that
// was superseded before its turn to be delivered is skipped. The returned
// func removes fn if it is still the observer.
func (s *Store[T]) Subscribe(fn func(T)) (cancel func()) {
	s.mu.Lock()
	s.obsSeq++
	seq := s.obsSeq
	s.observer = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.obsSeq == seq {
			s.observer = nil
		}
	}
}

// Flush waits until every write scheduled before the call has been attempted.
// It does not report whether the writes succeeded.
func (s *Store[T]) Flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case s.flushReq <- ack:
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending writes and stops the writer. Changes made after Close
// stay in memory only.
func (s *Store[T]) Close(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.stop) })
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store[T]) load(ctx context.Context, defaultValue T) (T, metrics.LoadOutcome) {
	v, outcome, err := s.read(ctx, defaultValue)
	switch outcome {
	case metrics.LoadMissing:
		s.opts.logger.Debug("durable slot empty, using default", "key", s.key)
	case metrics.LoadFailed:
		s.opts.logger.Warn("failed to read durable slot, using default and leaving the slot untouched", "key", s.key, "error", err)
	case metrics.LoadCorrupt:
		s.opts.logger.Warn("failed to decode durable slot, using default", "key", s.key, "error", err)
	}
	s.opts.recorder.IncSlotLoad(s.key, outcome)
	return v, outcome
}

func (s *Store[T]) read(ctx context.Context, defaultValue T) (T, metrics.LoadOutcome, error) {
	data, err := s.repo.Get(ctx, s.key)
	if errors.Is(err, repository.ErrNotFound) {
		return defaultValue, metrics.LoadMissing, nil
	}
	if err != nil {
		return defaultValue, metrics.LoadFailed, err
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return defaultValue, metrics.LoadCorrupt, err
	}
	return v, metrics.LoadStored, nil
}

// scheduleLocked encodes v as the next value to write. The caller holds s.mu.
func (s *Store[T]) scheduleLocked(v T) {
	data, err := json.Marshal(v)
	if err != nil {
		s.opts.logger.Error("failed to encode value for durable slot", "key", s.key, "error", err)
		s.opts.recorder.ObserveSlotWrite(s.key, 0, false)
		return
	}
	s.pending = data
	s.hasWrite = true
}

func (s *Store[T]) signal() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *Store[T]) writeLoop() {
	defer close(s.done)
	for {
		select {
		case <-s.kick:
			s.drain()
		case ack := <-s.flushReq:
			s.drain()
			close(ack)
		case <-s.stop:
			s.drain()
			return
		}
	}
}

// drain writes the latest pending value, if any. Intermediate values that were
// replaced before the writer got to them are never written.
func (s *Store[T]) drain() {
	s.mu.Lock()
	data, ok := s.pending, s.hasWrite
	s.pending, s.hasWrite = nil, false
	s.mu.Unlock()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.writeTimeout)
	defer cancel()

	start := time.Now()
	err := s.repo.Put(ctx, s.key, data)
	s.opts.recorder.ObserveSlotWrite(s.key, time.Since(start), err == nil)
	if err != nil {
		s.opts.logger.Error("failed to write durable slot", "key", s.key, "bytes", len(data), "error", err)
		return
	}
	s.opts.logger.Debug("durable slot written", "key", s.key, "bytes", len(data))
}
