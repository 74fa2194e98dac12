package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/staybook/portal/internal/core/domain"
	"github.com/staybook/portal/internal/core/navigation"
	"github.com/staybook/portal/internal/core/ports"
	"github.com/staybook/portal/internal/pkg/metrics"
)

// Session is everything the portal keeps for one browser client: its persisted
// store namespace and the contexts hydrated from it.
type Session struct {
	ClientID string
	Identity *IdentityStore
	Business *BusinessStore
	Paths    *navigation.PathMemory

	store     ports.SessionStore
	log       zerolog.Logger
	now       func() time.Time
	recovered atomic.Bool
	exhausted atomic.Bool
	closed    atomic.Bool

	// relay runs after a write lands on the session once it is closed.
	relay func(ctx context.Context, stale *Session)
}

// New materialises a client session, hydrating identity and business
// synchronously before returning.
func New(ctx context.Context, clientID string, store ports.SessionStore, log zerolog.Logger) *Session {
	log = log.With().Str("client_id", clientID).Logger()
	return &Session{
		ClientID: clientID,
		Identity: NewIdentityStore(ctx, store, log),
		Business: NewBusinessStore(ctx, store, log),
		Paths:    navigation.NewPathMemory(store, log),
		store:    store,
		log:      log,
		now:      time.Now,
	}
}

// Token returns the stored bearer credential.
func (s *Session) Token(ctx context.Context) (string, bool, error) {
	return s.store.Get(ctx, domain.KeyToken)
}

// SaveToken stores the bearer credential. Closed sessions still write through.
func (s *Session) SaveToken(ctx context.Context, token string) error {
	if err := s.store.Set(ctx, domain.KeyToken, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// ClearToken removes the bearer credential. It is idempotent.
func (s *Session) ClearToken(ctx context.Context) error {
	if err := s.store.Remove(ctx, domain.KeyToken); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

func (s *Session) SaveIdentity(ctx context.Context, identity *domain.Identity) error {
	return s.Identity.Set(ctx, identity)
}

// Logout purges the token through the gateway first, then drops the identity
// and the active business.
func (s *Session) Logout(ctx context.Context, gw ports.AuthGateway) error {
	if err := gw.Logout(ctx, s); err != nil {
		return err
	}
	return errors.Join(
		s.Identity.Set(ctx, nil),
		s.Business.Clear(ctx),
	)
}

// Ready reports whether identity hydration has completed.
func (s *Session) Ready() bool {
	return s.Identity.Ready()
}

func (s *Session) Current() *domain.Identity {
	return s.Identity.Current()
}

// Consistent reports whether a present identity is backed by a credential.
// A missing token, or a JWT whose exp claim has passed, is inconsistent. The
// token signature is not checked; opaque tokens only need to be present.
func (s *Session) Consistent(ctx context.Context) bool {
	if s.Identity.Current() == nil {
		return true
	}

	token, ok, err := s.Token(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("token unreadable, skipping consistency check")
		return true
	}
	if !ok || token == "" {
		return false
	}
	return !s.tokenExpired(token)
}

func (s *Session) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(s.now())
}

// TryRecover re-hydrates the session from persistence, at most once per
// session. It reports whether an attempt was made.
func (s *Session) TryRecover(ctx context.Context) bool {
	if !s.recovered.CompareAndSwap(false, true) {
		metrics.SessionRecoveriesTotal.WithLabelValues("exhausted").Inc()
		if !s.exhausted.Swap(true) {
			s.log.Warn().Msg("session still inconsistent after recovery, deciding on cached identity")
		}
		return false
	}
	metrics.SessionRecoveriesTotal.WithLabelValues("attempted").Inc()
	s.log.Info().Msg("inconsistent session state, re-hydrating once")
	s.Identity.Hydrate(ctx)
	s.Business.Hydrate(ctx)
	return true
}

// Close detaches the session. Writes arriving afterwards still reach the
// store, but are no longer published to this session's listeners.
func (s *Session) Close() {
	s.shutdown()
}

// shutdown reports whether this call closed the session.
func (s *Session) shutdown() bool {
	if s.closed.Swap(true) {
		return false
	}
	s.Identity.close(s.detachedWrite)
	s.Business.close(s.detachedWrite)
	return true
}

func (s *Session) detachedWrite(ctx context.Context) {
	if s.relay != nil {
		s.relay(ctx, s)
	}
}

func (s *Session) isClosed() bool {
	return s.closed.Load()
}
