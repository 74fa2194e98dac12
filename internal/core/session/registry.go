package session

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/staybook/portal/internal/core/ports"
	"github.com/staybook/portal/internal/pkg/metrics"
)

const (
	defaultRegistrySize = 10_000
	defaultIdleTTL      = 30 * time.Minute
	hydrateTimeout      = 5 * time.Second
)

// Registry holds the client sessions materialised in this process. Sessions
// idle for longer than the TTL, or pushed out by size, are closed; the next
// request from that client hydrates a fresh session from persistence.
type Registry struct {
	stores ports.StoreProvider
	cache  *expirable.LRU[string, *Session]
	group  singleflight.Group
	log    zerolog.Logger
}

// NewRegistry creates a Registry. Non-positive size or ttl fall back to defaults.
func NewRegistry(stores ports.StoreProvider, size int, ttl time.Duration, log zerolog.Logger) *Registry {
	if size <= 0 {
		size = defaultRegistrySize
	}
	if ttl <= 0 {
		ttl = defaultIdleTTL
	}
	r := &Registry{stores: stores, log: log}
	r.cache = expirable.NewLRU[string, *Session](size, func(_ string, s *Session) {
		if s.shutdown() {
			metrics.ActiveSessions.Dec()
		}
	}, ttl)
	return r
}

// Acquire returns the client's session, hydrating it on first use. Hydration
// is detached from ctx cancellation so an aborted request cannot leave a
// half-loaded session behind.
func (r *Registry) Acquire(ctx context.Context, clientID string) *Session {
	if s, ok := r.cache.Get(clientID); ok && !s.isClosed() {
		// Add renews the idle deadline. If the sweeper closed s in between,
		// the entry just put back is dead and gets replaced below.
		r.cache.Add(clientID, s)
		if !s.isClosed() {
			return s
		}
	}

	v, _, _ := r.group.Do(clientID, func() (any, error) {
		if s, ok := r.cache.Get(clientID); ok && !s.isClosed() {
			return s, nil
		}
		// Add would overwrite an expired or dead entry without evicting it.
		r.cache.Remove(clientID)

		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), hydrateTimeout)
		defer cancel()

		s := New(hctx, clientID, r.stores.ForClient(clientID), r.log)
		s.relay = r.refresh
		r.cache.Add(clientID, s)
		metrics.ActiveSessions.Inc()
		return s, nil
	})
	return v.(*Session)
}

// refresh reloads the client's live session after a write landed on stale,
// one of its closed predecessors.
func (r *Registry) refresh(ctx context.Context, stale *Session) {
	live := r.Acquire(ctx, stale.ClientID)
	if live == stale {
		return
	}
	ctx = context.WithoutCancel(ctx)
	live.Identity.reload(ctx)
	live.Business.reload(ctx)
}

// Len returns the number of sessions currently held.
func (r *Registry) Len() int {
	return r.cache.Len()
}

// Purge closes every held session.
func (r *Registry) Purge() {
	r.cache.Purge()
}
