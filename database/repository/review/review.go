package reviewRepo

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

// ReviewRepository is the review persistence interface: generic CRUD plus the
// rating aggregation the tour rating recomputation relies on.
type ReviewRepository interface {
	repository.Repository[models.Review]
	RatingStats(ctx context.Context, tourID primitive.ObjectID) (avg float64, count int, err error)
}

// MongoReviewRepo implements ReviewRepository using MongoDB.
type MongoReviewRepo struct {
	*repository.Mongo[models.Review]
}

// NewMongoReviewRepo creates a new instance of ReviewRepository using MongoDB.
func NewMongoReviewRepo() ReviewRepository {
	coll := database.Collection("reviews")
	repo := &MongoReviewRepo{
		Mongo: repository.NewMongo(coll,
			repository.WithValidator(models.ValidateReview),
		),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create review indexes: %v\n", err)
	}
	return repo
}

func (r *MongoReviewRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// One review per (user, tour) pair.
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "tour", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "tour", Value: 1}}},
	}

	if _, err := r.Collection().Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// RatingStats aggregates the rating average and count for a tour's reviews.
// count is zero when the tour has no reviews left.
func (r *MongoReviewRepo) RatingStats(ctx context.Context, tourID primitive.ObjectID) (float64, int, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"tour": tourID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":       "$tour",
			"nRatings":  bson.M{"$sum": 1},
			"avgRating": bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := r.Collection().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("rating aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var stats []struct {
		NRatings  int     `bson:"nRatings"`
		AvgRating float64 `bson:"avgRating"`
	}
	if err := cursor.All(ctx, &stats); err != nil {
		return 0, 0, fmt.Errorf("failed to decode rating stats: %w", err)
	}
	if len(stats) == 0 {
		return 0, 0, nil
	}
	return stats[0].AvgRating, stats[0].NRatings, nil
}
