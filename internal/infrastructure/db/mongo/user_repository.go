package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/menuhub/menu-api/internal/core/domain"
)

const usersCollection = "auth_users"

// UserRepository is a CredentialStore backed by the auth_users collection.
// Accounts are provisioned out of band; Seed exists for bootstrapping.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Username       string             `bson:"username"`
	Email          string             `bson:"email,omitempty"`
	FullName       string             `bson:"full_name,omitempty"`
	Disabled       bool               `bson:"disabled"`
	PasswordDigest string             `bson:"hashed_password"`
}

func (r *UserRepository) Lookup(ctx context.Context, username string) (*domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &domain.UserRecord{
		Username:       mu.Username,
		Email:          mu.Email,
		FullName:       mu.FullName,
		Disabled:       mu.Disabled,
		PasswordDigest: mu.PasswordDigest,
	}, nil
}

func (r *UserRepository) UpdateDigest(ctx context.Context, username, digest string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"hashed_password": digest}},
	)
	if err != nil {
		return fmt.Errorf("update digest: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Seed inserts records whose username is not present yet. Existing accounts
// are left untouched.
func (r *UserRepository) Seed(ctx context.Context, records []domain.UserRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, rec := range records {
		doc := mongoUser{
			Username:       rec.Username,
			Email:          rec.Email,
			FullName:       rec.FullName,
			Disabled:       rec.Disabled,
			PasswordDigest: rec.PasswordDigest,
		}
		_, err := r.coll.UpdateOne(ctx,
			bson.M{"username": rec.Username},
			bson.M{"$setOnInsert": doc},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", rec.Username, err)
		}
	}
	return nil
}

// EnsureIndexes creates the unique username index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
