package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/staybook/portal/internal/core/domain"
	"github.com/staybook/portal/internal/infrastructure/storage/memory"
	"github.com/staybook/portal/internal/pkg/metrics"
)

func TestRegistry_AcquireReusesSession(t *testing.T) {
	r := NewRegistry(memory.NewProvider(), 10, time.Minute, zerolog.Nop())
	ctx := context.Background()

	a := r.Acquire(ctx, "c1")
	b := r.Acquire(ctx, "c1")
	if a != b {
		t.Fatalf("expected the same session for the same client")
	}
	if r.Acquire(ctx, "c2") == a {
		t.Fatalf("expected distinct sessions for distinct clients")
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", r.Len())
	}
}

func TestRegistry_ConcurrentAcquireHydratesOnce(t *testing.T) {
	r := NewRegistry(memory.NewProvider(), 10, time.Minute, zerolog.Nop())
	ctx := context.Background()

	const n = 16
	got := make([]*Session, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = r.Acquire(ctx, "c1")
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if got[i] != got[0] {
			t.Fatalf("concurrent acquire returned different sessions")
		}
	}
}

func TestRegistry_HydratesFromPersistence(t *testing.T) {
	provider := memory.NewProvider()
	ctx := context.Background()
	_ = provider.ForClient("c1").Set(ctx, domain.KeyUser, `{"id":1,"email":"alice@example.com","role":"USER"}`)

	r := NewRegistry(provider, 10, time.Minute, zerolog.Nop())
	s := r.Acquire(ctx, "c1")
	if !s.Ready() || s.Current() == nil {
		t.Fatalf("expected hydrated identity")
	}
}

func TestRegistry_PurgeClosesSessions(t *testing.T) {
	provider := memory.NewProvider()
	r := NewRegistry(provider, 10, time.Minute, zerolog.Nop())
	ctx := context.Background()

	s := r.Acquire(ctx, "c1")
	r.Purge()

	if !s.isClosed() {
		t.Fatalf("expected purge to close the session")
	}
	if r.Acquire(ctx, "c1") == s {
		t.Fatalf("expected a fresh session after purge")
	}
}

func TestRegistry_IdleSessionExpires(t *testing.T) {
	provider := memory.NewProvider()
	r := NewRegistry(provider, 10, 200*time.Millisecond, zerolog.Nop())
	ctx := context.Background()
	before := testutil.ToFloat64(metrics.ActiveSessions)

	old := r.Acquire(ctx, "c1")
	time.Sleep(250 * time.Millisecond)
	fresh := r.Acquire(ctx, "c1")

	if fresh == old {
		t.Fatalf("expected a fresh session after the idle ttl")
	}
	if !old.isClosed() {
		t.Fatalf("expected the expired session to be closed")
	}
	if got := testutil.ToFloat64(metrics.ActiveSessions) - before; got != 1 {
		t.Fatalf("expected one active session, gauge moved by %v", got)
	}

	// a request still holding the expired session finishes its login
	if err := old.SaveToken(ctx, "tok"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	if err := old.SaveIdentity(ctx, alice()); err != nil {
		t.Fatalf("save identity: %v", err)
	}
	if fresh.Current() == nil {
		t.Fatalf("expected the live session to pick up the late login")
	}
	if _, ok, _ := provider.ForClient("c1").Get(ctx, domain.KeyToken); !ok {
		t.Fatalf("expected the late token to be persisted")
	}
}

func TestRegistry_EvictedSessionWritesReachLiveSession(t *testing.T) {
	provider := memory.NewProvider()
	r := NewRegistry(provider, 1, time.Minute, zerolog.Nop())
	ctx := context.Background()

	a := r.Acquire(ctx, "a")
	if err := a.SaveIdentity(ctx, alice()); err != nil {
		t.Fatalf("save identity: %v", err)
	}
	r.Acquire(ctx, "b") // evicts a
	if !a.isClosed() {
		t.Fatalf("expected size pressure to close a")
	}
	live := r.Acquire(ctx, "a")
	if live.Current() == nil {
		t.Fatalf("expected a to rehydrate signed in")
	}

	// logout still in flight on the evicted session
	if err := a.ClearToken(ctx); err != nil {
		t.Fatalf("clear token: %v", err)
	}
	if err := a.SaveIdentity(ctx, nil); err != nil {
		t.Fatalf("clear identity: %v", err)
	}
	if live.Current() != nil {
		t.Fatalf("expected the live session to see the logout")
	}
	if r.Acquire(ctx, "a").Current() != nil {
		t.Fatalf("expected the client to stay signed out")
	}
}

func TestRegistry_ReplacesClosedEntry(t *testing.T) {
	r := NewRegistry(memory.NewProvider(), 10, time.Minute, zerolog.Nop())
	ctx := context.Background()

	dead := r.Acquire(ctx, "c1")
	dead.Close() // closed while still cached, as after a sweep racing a renew

	s := r.Acquire(ctx, "c1")
	if s == dead || s.isClosed() {
		t.Fatalf("expected a live replacement for the closed entry")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", r.Len())
	}
}
