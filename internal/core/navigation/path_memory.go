package navigation

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/staybook/portal/internal/core/domain"
	"github.com/staybook/portal/internal/core/ports"
	"github.com/staybook/portal/internal/core/routes"
	"github.com/staybook/portal/internal/pkg/metrics"
)

// PathMemory remembers the last visited page of a client and restores it once
// when the client's application mounts on the root route.
type PathMemory struct {
	store ports.SessionStore
	log   zerolog.Logger

	mu      sync.Mutex
	mounted bool
}

func NewPathMemory(store ports.SessionStore, log zerolog.Logger) *PathMemory {
	return &PathMemory{store: store, log: log}
}

// Record stores path as the last visited page.
func (m *PathMemory) Record(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	if err := m.store.Set(ctx, domain.KeyLastPath, path); err != nil {
		return fmt.Errorf("record last path: %w", err)
	}
	return nil
}

// Last returns the remembered path, if any.
func (m *PathMemory) Last(ctx context.Context) (string, bool, error) {
	return m.store.Get(ctx, domain.KeyLastPath)
}

// Mount runs the mount-time restore check. Only the first call does anything:
// it reports a redirect iff current is the root route and a non-empty
// remembered path differs from it. Later calls never redirect.
func (m *PathMemory) Mount(ctx context.Context, current string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mounted {
		return "", false
	}
	m.mounted = true

	if current != routes.RootPath {
		return "", false
	}

	last, ok, err := m.Last(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("last path unreadable, skipping restore")
		return "", false
	}
	if !ok || last == "" || last == current {
		return "", false
	}

	metrics.PathRestoresTotal.Inc()
	m.log.Debug().Str("path", last).Msg("restoring last visited path")
	return last, true
}

// Visit is one rendered page waiting to become the client's lastPath.
type Visit struct {
	ClientID string
	Path     string
	Memory   *PathMemory
}

// Key orders visits per client.
func (v Visit) Key() string {
	return v.ClientID
}

// Persist records the visit on its client's path memory.
func (v Visit) Persist(ctx context.Context) error {
	return v.Memory.Record(ctx, v.Path)
}
