package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raushankrgupta/vogue-styler/models"
)

// LooksCollection is fixed across sessions for data continuity.
const LooksCollection = "saved_looks"

// Looks is the durable per-user SavedLook record store. It replaced a
// string-blob store that hit its size quota after a handful of saves; Mongo
// documents hold the large image payloads without that ceiling.
//
// Initialization is lazy and idempotent: the collection index is created on
// first use and repeated calls reuse the same handle. Looks keeps no
// in-memory cache; callers re-read after mutating.
type Looks struct {
	coll *mongo.Collection

	initOnce sync.Once
	initErr  error
}

// NewLooks returns a record store backed by the app database.
func NewLooks(db *DB) *Looks {
	return &Looks{coll: db.Collection(LooksCollection)}
}

func (l *Looks) ensure(ctx context.Context) error {
	l.initOnce.Do(func() {
		_, err := l.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
		})
		if err != nil {
			l.initErr = &StorageError{Op: "init", Err: err}
		}
	})
	return l.initErr
}

// Put upserts a record keyed by its id. Calling it twice with the same id is
// last-write-wins.
func (l *Looks) Put(ctx context.Context, look models.SavedLook) error {
	if err := l.ensure(ctx); err != nil {
		return err
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := l.coll.ReplaceOne(ctx, bson.M{"_id": look.ID}, look, opts); err != nil {
		return &StorageError{Op: "put", Err: err}
	}
	return nil
}

// Delete removes a record by id. A missing id is a no-op.
func (l *Looks) Delete(ctx context.Context, id string) error {
	if err := l.ensure(ctx); err != nil {
		return err
	}
	if _, err := l.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return &StorageError{Op: "delete", Err: err}
	}
	return nil
}

// Get fetches a single record, returning nil when absent.
func (l *Looks) Get(ctx context.Context, id string) (*models.SavedLook, error) {
	if err := l.ensure(ctx); err != nil {
		return nil, err
	}
	var look models.SavedLook
	err := l.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&look)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "get", Err: err}
	}
	return &look, nil
}

// ListByUser returns the user's records sorted by timestamp descending. The
// slice is empty, never nil, when the user has no records.
func (l *Looks) ListByUser(ctx context.Context, userID string) ([]models.SavedLook, error) {
	if err := l.ensure(ctx); err != nil {
		return nil, err
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := l.coll.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	defer cursor.Close(ctx)

	looks := []models.SavedLook{}
	if err := cursor.All(ctx, &looks); err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return looks, nil
}
