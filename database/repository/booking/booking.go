package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"tourify/database"
	"tourify/database/repository"
	"tourify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository is the booking persistence interface.
type BookingRepository interface {
	repository.Repository[models.Booking]
}

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	*repository.Mongo[models.Booking]
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	coll := database.Collection("bookings")
	repo := &MongoBookingRepo{
		Mongo: repository.NewMongo(coll,
			repository.WithValidator(models.ValidateBooking),
		),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create booking indexes: %v\n", err)
	}
	return repo
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tour", Value: 1}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
	}

	if _, err := r.Collection().Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
