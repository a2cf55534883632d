package tourRepo

import (
	"context"
	"fmt"
	"time"

	"tourify/database"
	"tourify/database/repository"
	"tourify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TourRepository is the tour persistence interface: generic CRUD plus the
// aggregation queries behind the read-only stats endpoints.
type TourRepository interface {
	repository.Repository[models.Tour]
	Stats(ctx context.Context) ([]models.TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlanEntry, error)
	Within(ctx context.Context, lat, lng, radius float64) ([]models.Tour, error)
	DistancesFrom(ctx context.Context, lat, lng, multiplier float64) ([]models.TourDistance, error)
	UpdateRatings(ctx context.Context, id primitive.ObjectID, avg float64, quantity int) error
}

// MongoTourRepo implements TourRepository using MongoDB.
type MongoTourRepo struct {
	*repository.Mongo[models.Tour]
}

// defaultFilter excludes secret tours from every default read.
var defaultFilter = bson.M{"secretTour": bson.M{"$ne": true}}

// NewMongoTourRepo creates a new instance of TourRepository using MongoDB.
func NewMongoTourRepo() TourRepository {
	coll := database.Collection("tours")
	repo := &MongoTourRepo{
		Mongo: repository.NewMongo(coll,
			repository.WithDefaultFilter[models.Tour](defaultFilter),
			repository.WithValidator(models.ValidateTour),
		),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create tour indexes: %v\n", err)
	}
	return repo
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoTourRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "price", Value: 1}, {Key: "ratingsAverage", Value: -1}}},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
		{Keys: bson.D{{Key: "startLocation", Value: "2dsphere"}}},
	}

	if _, err := r.Collection().Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// UpdateRatings persists a recomputed rating aggregate for a tour. This is a
// derived write and deliberately bypasses the secret-tour read predicate.
func (r *MongoTourRepo) UpdateRatings(ctx context.Context, id primitive.ObjectID, avg float64, quantity int) error {
	update := bson.M{"$set": bson.M{
		"ratingsAverage":  models.RoundRating(avg),
		"ratingsQuantity": quantity,
	}}
	res, err := r.Collection().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update tour ratings: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
