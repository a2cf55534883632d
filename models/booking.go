package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking records a purchased tour.
type Booking struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Tour      primitive.ObjectID `json:"tour" bson:"tour"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Price     float64            `json:"price" bson:"price" validate:"required,gt=0"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	Paid      bool               `json:"paid" bson:"paid"`
}

// ValidateBooking runs field validation for a booking about to be written.
func ValidateBooking(b *Booking) error {
	if err := validate.Struct(b); err != nil {
		return validationError("booking", err)
	}
	if b.Tour.IsZero() {
		return validationError("booking", errMissingRef("tour"))
	}
	if b.User.IsZero() {
		return validationError("booking", errMissingRef("user"))
	}
	return nil
}

// ApplyBookingDefaults fills defaults before a booking is first persisted.
// Bookings created through the API are paid; the checkout webhook sets the
// flag explicitly.
func ApplyBookingDefaults(b *Booking) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	b.Paid = true
}

func errMissingRef(field string) error {
	return fmt.Errorf("missing required reference %q", field)
}
