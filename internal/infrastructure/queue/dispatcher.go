package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/staybook/portal/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrStopped is returned by Enqueue once the dispatcher has been stopped.
var ErrStopped = errors.New("dispatcher stopped")

// Dispatcher routes items to a fixed set of workers using consistent hashing
// on the item key, guaranteeing per-key ordering.
type Dispatcher[T any] struct {
	workers []chan T
	key     func(T) string
	handle  func(context.Context, T) error
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher[T any](numWorkers int, key func(T) string, handle func(context.Context, T) error, log zerolog.Logger) *Dispatcher[T] {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher[T]{
		workers: make([]chan T, numWorkers),
		key:     key,
		handle:  handle,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan T, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. ctx is handed to every handle call;
// workers exit once Stop has closed their channels and they are drained.
func (d *Dispatcher[T]) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends item to the worker responsible for its key. It blocks while
// that worker's buffer is full, until ctx is done.
func (d *Dispatcher[T]) Enqueue(ctx context.Context, item T) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}

	select {
	case d.workers[d.shardIndex(d.key(item))] <- item:
		metrics.VisitQueueDepth.Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop rejects new items and waits for the queued ones to be handled.
func (d *Dispatcher[T]) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher[T]) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher[T]) runWorker(ctx context.Context, id int, ch <-chan T) {
	defer d.wg.Done()
	for item := range ch {
		metrics.VisitQueueDepth.Dec()
		if err := d.handle(ctx, item); err != nil {
			metrics.VisitWriteErrorsTotal.Inc()
			d.log.Error().Err(err).
				Str("key", d.key(item)).
				Int("worker_id", id).
				Msg("queued write failed")
		}
	}
}
