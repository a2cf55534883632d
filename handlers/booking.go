package handlers

import (
	"io"
	"net/http"

	bookingRepo "tourify/database/repository/booking"
	"tourify/middleware"
	"tourify/models"
	bookingService "tourify/services/booking"
	"tourify/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingHandler serves the checkout flow and the booking CRUD.
type BookingHandler struct {
	Repo    bookingRepo.BookingRepository
	Service bookingService.BookingService
	BaseURL string
}

func NewBookingHandler(repo bookingRepo.BookingRepository, svc bookingService.BookingService, baseURL string) *BookingHandler {
	return &BookingHandler{Repo: repo, Service: svc, BaseURL: baseURL}
}

// CheckoutSession creates a Stripe checkout session for the tour in
// :tourId and hands the session back to the client.
func (h *BookingHandler) CheckoutSession(c *gin.Context) {
	tourID, err := primitive.ObjectIDFromHex(c.Param("tourId"))
	if err != nil {
		_ = c.Error(utils.BadRequest("Invalid identifier"))
		return
	}
	usr, _ := middleware.CurrentUser(c)

	sess, err := h.Service.CheckoutSession(c.Request.Context(), tourID, usr, h.BaseURL)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"session": sess,
	})
}

// Webhook receives Stripe events. The raw body is required for signature
// verification, so this route must not go through any body-rewriting
// middleware.
func (h *BookingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		_ = c.Error(utils.WrapError(http.StatusBadRequest, "Failed to read webhook payload", err))
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if err := h.Service.HandleWebhook(c.Request.Context(), payload, sig); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *BookingHandler) ListBookings() gin.HandlerFunc {
	return List[models.Booking](h.Repo, nil)
}

func (h *BookingHandler) GetBooking() gin.HandlerFunc {
	return GetOne[models.Booking](h.Repo)
}

func (h *BookingHandler) CreateBooking() gin.HandlerFunc {
	return CreateOne[models.Booking](h.Repo, &WriteHooks[models.Booking]{
		BeforeCreate: func(c *gin.Context, b *models.Booking) error {
			models.ApplyBookingDefaults(b)
			return nil
		},
	})
}

func (h *BookingHandler) UpdateBooking() gin.HandlerFunc {
	return UpdateOne[models.Booking](h.Repo, nil)
}

func (h *BookingHandler) DeleteBooking() gin.HandlerFunc {
	return DeleteOne[models.Booking](h.Repo, nil)
}
