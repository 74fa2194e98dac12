package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/staybook/portal/internal/core/ports"
)

const storageCollection = "client_storage"

// StoreProvider keeps client session namespaces in one collection, one
// document per (client_id, key).
type StoreProvider struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewStoreProvider(db *mongo.Database) *StoreProvider {
	return &StoreProvider{db: db, coll: db.Collection(storageCollection)}
}

// EnsureIndexes creates the unique (client_id, key) index.
func (p *StoreProvider) EnsureIndexes(ctx context.Context) error {
	_, err := p.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "client_id", Value: 1}, {Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("client_key_unique"),
	})
	if err != nil {
		return fmt.Errorf("create storage index: %w", err)
	}
	return nil
}

func (p *StoreProvider) ForClient(clientID string) ports.SessionStore {
	return &SessionStore{coll: p.coll, clientID: clientID}
}

func (p *StoreProvider) Ping(ctx context.Context) error {
	if err := p.db.Client().Ping(ctx, nil); err != nil {
		return err
	}
	return p.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

type storageEntry struct {
	ClientID  string `bson:"client_id"`
	Key       string `bson:"key"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

// SessionStore is one client's slice of the collection.
type SessionStore struct {
	coll     *mongo.Collection
	clientID string
}

func (s *SessionStore) filter(key string) bson.M {
	return bson.M{"client_id": s.clientID, "key": key}
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	var e storageEntry
	if err := s.coll.FindOne(ctx, s.filter(key)).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("find %s: %w", key, err)
	}
	return e.Value, true, nil
}

func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	doc := storageEntry{
		ClientID:  s.clientID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC().Unix(),
	}
	_, err := s.coll.ReplaceOne(ctx, s.filter(key), doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *SessionStore) Remove(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, s.filter(key)); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
