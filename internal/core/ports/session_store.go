package ports

import (
	"context"

	"github.com/staybook/portal/internal/core/domain"
)

// SessionStore is one client's persisted key-value namespace. Values are
// stored verbatim: no expiry, no encryption.
type SessionStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// StoreProvider hands out the SessionStore namespace of a client.
type StoreProvider interface {
	ForClient(clientID string) SessionStore
	Ping(ctx context.Context) error
}

// SessionWriter is the write side of a client session used by the auth gateway.
type SessionWriter interface {
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
	SaveIdentity(ctx context.Context, identity *domain.Identity) error
}
