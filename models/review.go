package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a user's review of a tour. The (user, tour) pair is unique,
// enforced by a compound index.
type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Review    string             `json:"review" bson:"review" validate:"required"`
	Rating    float64            `json:"rating" bson:"rating" validate:"required,gte=1,lte=5"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	Tour      primitive.ObjectID `json:"tour" bson:"tour"`
	User      primitive.ObjectID `json:"user" bson:"user"`
}

// ValidateReview runs field validation for a review about to be written. The
// tour and user references are checked here because nested routes default
// them after binding.
func ValidateReview(r *Review) error {
	if err := validate.Struct(r); err != nil {
		return validationError("review", err)
	}
	if r.Tour.IsZero() {
		return validationError("review", errMissingRef("tour"))
	}
	if r.User.IsZero() {
		return validationError("review", errMissingRef("user"))
	}
	return nil
}

// ApplyReviewDefaults fills defaults before a review is first persisted.
func ApplyReviewDefaults(r *Review) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
}
