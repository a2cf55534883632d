// Package review keeps the denormalized tour rating fields in sync with the
// review collection.
package review

import (
	"context"

	reviewRepo "tourify/database/repository/review"
	tourRepo "tourify/database/repository/tour"
	"tourify/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Rating fallbacks applied when a tour has no reviews left.
const (
	defaultRatingsAverage  = 4.5
	defaultRatingsQuantity = 0
)

// ReviewService recomputes tour rating aggregates after review writes.
type ReviewService interface {
	Recalculate(ctx context.Context, tourID primitive.ObjectID)
}

// DefaultReviewService implements ReviewService over the review and tour
// repositories.
type DefaultReviewService struct {
	Reviews reviewRepo.ReviewRepository
	Tours   tourRepo.TourRepository
}

// Recalculate aggregates the tour's reviews and writes the result back onto
// the tour. The write already succeeded, so failures here are logged rather
// than surfaced to the client.
func (s *DefaultReviewService) Recalculate(ctx context.Context, tourID primitive.ObjectID) {
	avg, count, err := s.Reviews.RatingStats(ctx, tourID)
	if err != nil {
		utils.GetLogger().Error("Rating aggregation failed",
			zap.String("tour", tourID.Hex()), zap.Error(err))
		return
	}

	if count == 0 {
		avg = defaultRatingsAverage
		count = defaultRatingsQuantity
	}
	if err := s.Tours.UpdateRatings(ctx, tourID, avg, count); err != nil {
		utils.GetLogger().Error("Failed to update tour ratings",
			zap.String("tour", tourID.Hex()), zap.Error(err))
	}
}
