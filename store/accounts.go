package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/raushankrgupta/vogue-styler/models"
)

// UsersCollection is fixed across sessions.
const UsersCollection = "users"

// Accounts stores registered user accounts. Emails are unique across
// accounts.
type Accounts struct {
	coll *mongo.Collection

	initOnce sync.Once
	initErr  error
}

// NewAccounts returns an account store backed by the app database.
func NewAccounts(db *DB) *Accounts {
	return &Accounts{coll: db.Collection(UsersCollection)}
}

func (a *Accounts) ensure(ctx context.Context) error {
	a.initOnce.Do(func() {
		_, err := a.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			a.initErr = &StorageError{Op: "init", Err: err}
		}
	})
	return a.initErr
}

// Register creates a new account. A duplicate email is a ValidationError and
// leaves the store unchanged.
func (a *Accounts) Register(ctx context.Context, email, password, name string, gender models.Gender) (*models.UserAccount, error) {
	if err := a.ensure(ctx); err != nil {
		return nil, err
	}

	var existing models.UserAccount
	err := a.coll.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		return nil, &ValidationError{Reason: "email already registered"}
	}
	if err != mongo.ErrNoDocuments {
		return nil, &StorageError{Op: "register", Err: err}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &StorageError{Op: "register", Err: err}
	}

	user := models.UserAccount{
		ID:        uuid.New().String(),
		Email:     email,
		Password:  string(hashed),
		Name:      name,
		Gender:    gender,
		CreatedAt: time.Now(),
	}

	if _, err := a.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &ValidationError{Reason: "email already registered"}
		}
		return nil, &StorageError{Op: "register", Err: err}
	}
	return &user, nil
}

// Authenticate checks credentials, returning a ValidationError on an unknown
// email or a password mismatch.
func (a *Accounts) Authenticate(ctx context.Context, email, password string) (*models.UserAccount, error) {
	if err := a.ensure(ctx); err != nil {
		return nil, err
	}

	var user models.UserAccount
	err := a.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, &ValidationError{Reason: "invalid email or password"}
	}
	if err != nil {
		return nil, &StorageError{Op: "authenticate", Err: err}
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, &ValidationError{Reason: "invalid email or password"}
	}
	return &user, nil
}

// FindByID resolves an account by id, returning nil when unknown.
func (a *Accounts) FindByID(ctx context.Context, id string) (*models.UserAccount, error) {
	if err := a.ensure(ctx); err != nil {
		return nil, err
	}
	var user models.UserAccount
	err := a.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "find", Err: err}
	}
	return &user, nil
}
