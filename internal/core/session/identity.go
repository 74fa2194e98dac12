package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/staybook/portal/internal/core/domain"
	"github.com/staybook/portal/internal/core/ports"
)

// IdentityStore owns a client's in-memory identity and is the only writer of
// the persisted user record.
type IdentityStore struct {
	r *reactive[domain.Identity]
}

// NewIdentityStore builds the store and hydrates it from the persisted record.
func NewIdentityStore(ctx context.Context, store ports.SessionStore, log zerolog.Logger) *IdentityStore {
	rec := record[domain.Identity]{
		store:     store,
		key:       domain.KeyUser,
		normalize: (*domain.Identity).NormalizeRole,
	}
	s := &IdentityStore{r: newReactive(rec, (*domain.Identity).Clone, log)}
	s.Hydrate(ctx)
	return s
}

// Hydrate reloads the identity from persistence. Unparseable records are
// purged and read as absent; Hydrate never fails.
func (s *IdentityStore) Hydrate(ctx context.Context) {
	s.r.hydrate(ctx)
}

// Ready is false while hydration is in progress.
func (s *IdentityStore) Ready() bool {
	return s.r.isReady()
}

// Current returns a copy of the identity, or nil when signed out.
func (s *IdentityStore) Current() *domain.Identity {
	return s.r.get()
}

func (s *IdentityStore) IsAuthenticated() bool {
	return s.Current() != nil
}

// Set replaces the identity; nil signs the client out of the identity record.
func (s *IdentityStore) Set(ctx context.Context, identity *domain.Identity) error {
	return s.r.update(ctx, func(*domain.Identity) *domain.Identity {
		return identity.Clone()
	})
}

// Update applies fn to a copy of the current identity and stores the result.
func (s *IdentityStore) Update(ctx context.Context, fn func(prev *domain.Identity) *domain.Identity) error {
	return s.r.update(ctx, fn)
}

// Subscribe calls fn after every identity change until the returned func is called.
func (s *IdentityStore) Subscribe(fn func(*domain.Identity)) (unsubscribe func()) {
	return s.r.subscribe(fn)
}

func (s *IdentityStore) reload(ctx context.Context) {
	s.r.reload(ctx)
}

func (s *IdentityStore) close(detached func(context.Context)) {
	s.r.close(detached)
}
