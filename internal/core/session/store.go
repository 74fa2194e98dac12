package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/staybook/portal/internal/core/ports"
	"github.com/staybook/portal/internal/pkg/metrics"
)

var errCorrupt = errors.New("corrupt persisted record")

// record is the JSON codec of one persisted key.
type record[T any] struct {
	store     ports.SessionStore
	key       string
	normalize func(*T)
}

// load returns nil when the key is absent. Unparseable values wrap errCorrupt.
func (r record[T]) load(ctx context.Context) (*T, error) {
	raw, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.key, err)
	}
	if !ok {
		return nil, nil
	}

	var v *T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errCorrupt, r.key, err)
	}
	if v != nil && r.normalize != nil {
		r.normalize(v)
	}
	return v, nil
}

// save writes v, or removes the key when v is nil.
func (r record[T]) save(ctx context.Context, v *T) error {
	if v == nil {
		return r.store.Remove(ctx, r.key)
	}
	if r.normalize != nil {
		r.normalize(v)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.key, err)
	}
	return r.store.Set(ctx, r.key, string(data))
}

// reactive is an in-memory value mirrored to one persisted key. All writes
// are serialized by writeMu and applied in call order; the persisted copy is
// written before the in-memory copy so a failed write changes neither.
type reactive[T any] struct {
	rec   record[T]
	clone func(*T) *T
	log   zerolog.Logger

	writeMu sync.Mutex

	mu        sync.RWMutex
	value     *T
	ready     bool
	closed    bool
	detached  func(context.Context)
	nextID    int
	listeners map[int]func(*T)
}

func newReactive[T any](rec record[T], clone func(*T) *T, log zerolog.Logger) *reactive[T] {
	return &reactive[T]{
		rec:       rec,
		clone:     clone,
		log:       log.With().Str("record", rec.key).Logger(),
		listeners: make(map[int]func(*T)),
	}
}

// hydrate loads the persisted value. A corrupt value is purged; any failure
// leaves the value absent. It always terminates with ready set.
func (s *reactive[T]) hydrate(ctx context.Context) {
	s.load(ctx, true)
}

// reload is hydrate without passing through the not-ready state.
func (s *reactive[T]) reload(ctx context.Context) {
	s.load(ctx, false)
}

func (s *reactive[T]) load(ctx context.Context, resetReady bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if resetReady {
		s.ready = false
	}
	s.mu.Unlock()

	v, err := s.rec.load(ctx)
	result := "ok"
	switch {
	case errors.Is(err, errCorrupt):
		result = "corrupt"
		s.log.Warn().Err(err).Msg("purging unparseable persisted record")
		if rmErr := s.rec.store.Remove(ctx, s.rec.key); rmErr != nil {
			s.log.Error().Err(rmErr).Msg("failed to purge persisted record")
		}
		v = nil
	case err != nil:
		result = "error"
		s.log.Warn().Err(err).Msg("persisted record unreadable, treating as absent")
		v = nil
	case v == nil:
		result = "absent"
	}
	metrics.SessionHydrationsTotal.WithLabelValues(s.rec.key, result).Inc()

	s.mu.Lock()
	s.value = v
	s.ready = true
	s.mu.Unlock()

	s.notify(v)
}

func (s *reactive[T]) get() *T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clone(s.value)
}

func (s *reactive[T]) isReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// update resolves the next value from a copy of the current one, persists it,
// then publishes it. After close the value is still persisted but nothing is
// published; the detached hook runs instead.
func (s *reactive[T]) update(ctx context.Context, fn func(prev *T) *T) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	closed, detached := s.closed, s.detached
	prev := s.clone(s.value)
	s.mu.RUnlock()

	next := fn(prev)
	if err := s.rec.save(ctx, next); err != nil {
		return fmt.Errorf("persist %s: %w", s.rec.key, err)
	}

	if closed {
		s.log.Debug().Msg("update persisted on closed session")
		if detached != nil {
			detached(ctx)
		}
		return nil
	}

	s.mu.Lock()
	s.value = s.clone(next)
	s.mu.Unlock()

	s.notify(next)
	return nil
}

// subscribe registers fn to be called synchronously after every change.
// Listeners must not write to the same store.
func (s *reactive[T]) subscribe(fn func(*T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *reactive[T]) notify(v *T) {
	s.mu.RLock()
	fns := make([]func(*T), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(s.clone(v))
	}
}

// close stops publishing. Later updates still persist and then call detached.
func (s *reactive[T]) close(detached func(context.Context)) {
	s.mu.Lock()
	s.closed = true
	s.detached = detached
	s.listeners = make(map[int]func(*T))
	s.mu.Unlock()
}
