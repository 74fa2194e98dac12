// Package memory is the in-process storage driver. Values live only as long
// as the process; it suits development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/staybook/portal/internal/core/ports"
)

// Provider keeps one key-value namespace per client.
type Provider struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewProvider() *Provider {
	return &Provider{data: make(map[string]map[string]string)}
}

func (p *Provider) ForClient(clientID string) ports.SessionStore {
	return &Store{p: p, clientID: clientID}
}

func (p *Provider) Ping(context.Context) error {
	return nil
}

// Store is a single client's namespace.
type Store struct {
	p        *Provider
	clientID string
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.p.mu.RLock()
	defer s.p.mu.RUnlock()
	v, ok := s.p.data[s.clientID][key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	ns, ok := s.p.data[s.clientID]
	if !ok {
		ns = make(map[string]string)
		s.p.data[s.clientID] = ns
	}
	ns[key] = value
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	ns, ok := s.p.data[s.clientID]
	if !ok {
		return nil
	}
	delete(ns, key)
	if len(ns) == 0 {
		delete(s.p.data, s.clientID)
	}
	return nil
}
