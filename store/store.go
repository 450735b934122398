package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DatabaseName is fixed: records written by one session must be found by the
// next.
const DatabaseName = "vogueai"

// StorageError wraps a failed store operation. Failures are always surfaced
// to the caller; the store never drops data silently.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ValidationError is a user-correctable failure (duplicate email, bad
// credentials). It never changes stored state.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// DB holds the MongoDB connection shared by the record stores.
type DB struct {
	client *mongo.Client
	name   string
}

// Connect initializes the MongoDB connection and pings it.
func Connect(ctx context.Context, uri string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Println("Connected to MongoDB!")
	return &DB{client: client, name: DatabaseName}, nil
}

// Collection returns a handle to a collection in the app database.
func (d *DB) Collection(name string) *mongo.Collection {
	return d.client.Database(d.name).Collection(name)
}

// Close disconnects the underlying client.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
