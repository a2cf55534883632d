package handlers

import (
	"context"

	reviewRepo "tourify/database/repository/review"
	"tourify/middleware"
	"tourify/models"
	reviewService "tourify/services/review"
	"tourify/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewHandler serves the review CRUD, both standalone and nested under a
// tour. Every write triggers a rating recomputation on the reviewed tour.
type ReviewHandler struct {
	Repo    reviewRepo.ReviewRepository
	Service reviewService.ReviewService
}

func NewReviewHandler(repo reviewRepo.ReviewRepository, svc reviewService.ReviewService) *ReviewHandler {
	return &ReviewHandler{Repo: repo, Service: svc}
}

// nestedTourFilter restricts nested-route listings to the parent tour. The
// nested routes reuse the tour router's :id parameter.
func nestedTourFilter(c *gin.Context) bson.M {
	if raw := c.Param("id"); raw != "" {
		if id, err := primitive.ObjectIDFromHex(raw); err == nil {
			return bson.M{"tour": id}
		}
	}
	return bson.M{}
}

func (h *ReviewHandler) hooks() *WriteHooks[models.Review] {
	return &WriteHooks[models.Review]{
		BeforeCreate: func(c *gin.Context, rev *models.Review) error {
			// Nested creates take the tour from the route and the author
			// from the session.
			if rev.Tour.IsZero() {
				if raw := c.Param("id"); raw != "" {
					id, err := primitive.ObjectIDFromHex(raw)
					if err != nil {
						return utils.BadRequest("Invalid identifier")
					}
					rev.Tour = id
				}
			}
			if rev.User.IsZero() {
				if usr, ok := middleware.CurrentUser(c); ok {
					rev.User = usr.ID
				}
			}
			models.ApplyReviewDefaults(rev)
			return nil
		},
		AfterWrite: func(ctx context.Context, rev *models.Review) {
			h.Service.Recalculate(ctx, rev.Tour)
		},
		AfterDelete: func(ctx context.Context, rev *models.Review) {
			h.Service.Recalculate(ctx, rev.Tour)
		},
		// Reviews never move between tours or authors.
		Strip: []string{"tour", "user"},
	}
}

func (h *ReviewHandler) ListReviews() gin.HandlerFunc {
	return List[models.Review](h.Repo, nestedTourFilter)
}

func (h *ReviewHandler) GetReview() gin.HandlerFunc {
	return GetOne[models.Review](h.Repo)
}

func (h *ReviewHandler) CreateReview() gin.HandlerFunc {
	return CreateOne[models.Review](h.Repo, h.hooks())
}

func (h *ReviewHandler) UpdateReview() gin.HandlerFunc {
	return UpdateOne[models.Review](h.Repo, h.hooks())
}

func (h *ReviewHandler) DeleteReview() gin.HandlerFunc {
	return DeleteOne[models.Review](h.Repo, h.hooks())
}
