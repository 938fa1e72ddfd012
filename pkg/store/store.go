package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/technetbooks/technet/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names in the catalog database.
const (
	CollectionBooks       = "book"
	CollectionMemberships = "myList"
	CollectionUsers       = "user"
)

// Store owns the long-lived Mongo client. It is acquired once at process
// start, shared by every request, and released at shutdown.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to the document store and verifies the connection before
// returning. Connection attempts are retried a few times so the service can
// come up alongside the database.
func New(cfg *config.Config) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Retry up to a few times to ensure that the store is reachable.
	for i := 0; i < cfg.MongoConnectRetryCount; i++ {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout)
		err = client.Ping(pingCtx, readpref.Primary())
		pingCancel()
		if err != nil {
			time.Sleep(cfg.MongoConnectRetryDelay)
			continue
		}
		// We've successfully connected.
		break
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Store{
		client: client,
		db:     client.Database(cfg.MongoDatabase),
	}, nil
}

// Collection returns a handle for the named collection.
func (s *Store) Collection(name string) Collection {
	return &mongoCollection{s.db.Collection(name)}
}

// Close releases the client and its connection pool.
func (s *Store) Close(ctx context.Context) error {
	return errors.WithStack(s.client.Disconnect(ctx))
}
