package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/staybook/portal/internal/core/domain"
	"github.com/staybook/portal/internal/core/ports"
)

// BusinessStore holds the client's active business, mirrored to the persisted
// business record.
type BusinessStore struct {
	r *reactive[domain.Business]
}

func NewBusinessStore(ctx context.Context, store ports.SessionStore, log zerolog.Logger) *BusinessStore {
	rec := record[domain.Business]{store: store, key: domain.KeyBusiness}
	s := &BusinessStore{r: newReactive(rec, (*domain.Business).Clone, log)}
	s.Hydrate(ctx)
	return s
}

func (s *BusinessStore) Hydrate(ctx context.Context) {
	s.r.hydrate(ctx)
}

func (s *BusinessStore) Current() *domain.Business {
	return s.r.get()
}

// Set selects business as active; nil clears it.
func (s *BusinessStore) Set(ctx context.Context, business *domain.Business) error {
	return s.r.update(ctx, func(*domain.Business) *domain.Business {
		return business.Clone()
	})
}

func (s *BusinessStore) Clear(ctx context.Context) error {
	return s.Set(ctx, nil)
}

func (s *BusinessStore) reload(ctx context.Context) {
	s.r.reload(ctx)
}

func (s *BusinessStore) close(detached func(context.Context)) {
	s.r.close(detached)
}
