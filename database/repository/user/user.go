package userRepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tourify/database"
	"tourify/database/repository"
	"tourify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository is the user persistence interface: generic CRUD plus the
// credential and reset-token lookups the auth flows need.
type UserRepository interface {
	repository.Repository[models.User]
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByResetToken(ctx context.Context, tokenHash string) (*models.User, error)
	FindByIDAny(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, user *models.User) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	*repository.Mongo[models.User]
}

// activeFilter excludes soft-deleted users from every default read.
var activeFilter = bson.M{"active": bson.M{"$ne": false}}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo() UserRepository {
	coll := database.Collection("users")
	repo := &MongoUserRepo{
		Mongo: repository.NewMongo(coll,
			repository.WithDefaultFilter[models.User](activeFilter),
			repository.WithValidator(models.ValidateUser),
		),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create user indexes: %v\n", err)
	}
	return repo
}

func (r *MongoUserRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	if _, err := r.Collection().Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// FindByEmail retrieves an active user by lowercase email, including the
// password hash for credential checks.
func (r *MongoUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindOne(ctx, bson.M{"email": strings.ToLower(email)})
}

// FindByResetToken resolves a hashed password-reset token that has not
// expired yet.
func (r *MongoUserRepo) FindByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	return r.FindOne(ctx, bson.M{
		"passwordResetToken":   tokenHash,
		"passwordResetExpires": bson.M{"$gt": time.Now()},
	})
}

// FindByIDAny resolves a user regardless of the active flag. Administrative
// lookups use this to reach soft-deleted accounts.
func (r *MongoUserRepo) FindByIDAny(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.FindOneAny(ctx, bson.M{"_id": id})
}

// UpdatePassword persists a new password hash together with the backdated
// change timestamp and clears any outstanding reset token.
func (r *MongoUserRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, user *models.User) error {
	update := bson.M{
		"$set": bson.M{
			"password":          user.Password,
			"passwordChangedAt": user.PasswordChangedAt,
		},
		"$unset": bson.M{
			"passwordResetToken":   "",
			"passwordResetExpires": "",
		},
	}
	res, err := r.Collection().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Deactivate soft-deletes a user; default reads no longer see the account.
func (r *MongoUserRepo) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetResetToken stores the hashed reset token and its expiry on the user.
func (r *MongoUserRepo) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	update := bson.M{"$set": bson.M{
		"passwordResetToken":   tokenHash,
		"passwordResetExpires": expires,
	}}
	if tokenHash == "" {
		update = bson.M{"$unset": bson.M{
			"passwordResetToken":   "",
			"passwordResetExpires": "",
		}}
	}
	_, err := r.Collection().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}
