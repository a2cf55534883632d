// Package booking drives the Stripe checkout flow and turns completed
// checkout sessions into booking documents.
package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	bookingRepo "tourify/database/repository/booking"
	tourRepo "tourify/database/repository/tour"
	"tourify/models"
	"tourify/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BookingService creates checkout sessions and consumes checkout webhooks.
type BookingService interface {
	CheckoutSession(ctx context.Context, tourID primitive.ObjectID, user *models.User, baseURL string) (*stripe.CheckoutSession, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// DefaultBookingService implements BookingService against Stripe and the
// booking and tour repositories.
type DefaultBookingService struct {
	Bookings      bookingRepo.BookingRepository
	Tours         tourRepo.TourRepository
	WebhookSecret string
}

// CheckoutSession creates a Stripe checkout session for a tour. The tour and
// user are carried on the session so the webhook can build the booking.
func (s *DefaultBookingService) CheckoutSession(ctx context.Context, tourID primitive.ObjectID, user *models.User, baseURL string) (*stripe.CheckoutSession, error) {
	tour, err := s.Tours.FindByID(ctx, tourID)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(baseURL + "/my-tours?alert=booking"),
		CancelURL:          stripe.String(fmt.Sprintf("%s/tour/%s", baseURL, tour.Slug)),
		CustomerEmail:      stripe.String(user.Email),
		ClientReferenceID:  stripe.String(tour.ID.Hex()),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(int64(tour.Price * 100)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("%s Tour", tour.Name)),
						Description: stripe.String(tour.Summary),
						Images:      stripe.StringSlice([]string{fmt.Sprintf("%s/img/tours/%s", baseURL, tour.ImageCover)}),
					},
				},
			},
		},
	}
	params.Context = ctx
	// The webhook reads the buyer back off the session metadata.
	params.AddMetadata("userId", user.ID.Hex())

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return sess, nil
}

// HandleWebhook verifies a Stripe event signature and, on a completed
// checkout, records the paid booking.
func (s *DefaultBookingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.WebhookSecret)
	if err != nil {
		return utils.WrapError(http.StatusBadRequest, "Webhook signature verification failed", err)
	}

	if event.Type != "checkout.session.completed" {
		utils.GetLogger().Debug("Ignoring stripe event", zap.String("type", string(event.Type)))
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return utils.WrapError(http.StatusBadRequest, "Malformed checkout session payload", err)
	}
	return s.createBookingFromSession(ctx, &sess)
}

func (s *DefaultBookingService) createBookingFromSession(ctx context.Context, sess *stripe.CheckoutSession) error {
	tourID, err := primitive.ObjectIDFromHex(sess.ClientReferenceID)
	if err != nil {
		return utils.WrapError(http.StatusBadRequest, "Checkout session carries no tour reference", err)
	}
	userID, err := primitive.ObjectIDFromHex(sess.Metadata["userId"])
	if err != nil {
		return utils.WrapError(http.StatusBadRequest, "Checkout session carries no user reference", err)
	}

	booking := &models.Booking{
		Tour:      tourID,
		User:      userID,
		Price:     float64(sess.AmountTotal) / 100,
		CreatedAt: time.Now(),
		Paid:      true,
	}
	if _, err := s.Bookings.Create(ctx, booking); err != nil {
		return err
	}
	utils.GetLogger().Info("Booking recorded from checkout",
		zap.String("tour", tourID.Hex()), zap.String("user", userID.Hex()))
	return nil
}
