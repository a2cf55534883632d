package models

import (
	"encoding/json"
	"math"
	"time"

	"tourify/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is a GeoJSON point with display metadata.
type Location struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
	Address     string    `json:"address,omitempty" bson:"address,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Day         int       `json:"day,omitempty" bson:"day,omitempty"`
}

// Tour is a bookable tour document. Reviews is a virtual relation filled by a
// lookup on get-one reads, never stored on the tour itself.
type Tour struct {
	ID              primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name            string               `json:"name" bson:"name" validate:"required,min=8,max=40,alphaspace"`
	Slug            string               `json:"slug,omitempty" bson:"slug,omitempty"`
	Duration        int                  `json:"duration" bson:"duration" validate:"required,gt=0"`
	MaxGroupSize    int                  `json:"maxGroupSize" bson:"maxGroupSize" validate:"required,gt=0"`
	Difficulty      string               `json:"difficulty" bson:"difficulty" validate:"required,oneof=easy medium difficult"`
	RatingsAverage  float64              `json:"ratingsAverage" bson:"ratingsAverage" validate:"omitempty,gte=1,lte=5"`
	RatingsQuantity int                  `json:"ratingsQuantity" bson:"ratingsQuantity"`
	Price           float64              `json:"price" bson:"price" validate:"required,gt=0"`
	PriceDiscount   float64              `json:"priceDiscount,omitempty" bson:"priceDiscount,omitempty"`
	Summary         string               `json:"summary" bson:"summary" validate:"required"`
	Description     string               `json:"description,omitempty" bson:"description,omitempty"`
	ImageCover      string               `json:"imageCover" bson:"imageCover" validate:"required"`
	Images          []string             `json:"images,omitempty" bson:"images,omitempty"`
	CreatedAt       time.Time            `json:"createdAt" bson:"createdAt"`
	StartDates      []time.Time          `json:"startDates,omitempty" bson:"startDates,omitempty"`
	SecretTour      bool                 `json:"secretTour,omitempty" bson:"secretTour"`
	StartLocation   *Location            `json:"startLocation,omitempty" bson:"startLocation,omitempty"`
	Locations       []Location           `json:"locations,omitempty" bson:"locations,omitempty"`
	Guides          []primitive.ObjectID `json:"guides,omitempty" bson:"guides,omitempty"`
	Reviews         []Review             `json:"reviews,omitempty" bson:"reviews,omitempty"`
}

// DurationWeeks is the tour duration expressed in weeks.
func (t *Tour) DurationWeeks() float64 {
	return float64(t.Duration) / 7
}

// MarshalJSON includes the computed durationWeeks field in API responses.
func (t Tour) MarshalJSON() ([]byte, error) {
	type alias Tour
	return json.Marshal(struct {
		alias
		DurationWeeks float64 `json:"durationWeeks,omitempty"`
	}{alias(t), t.DurationWeeks()})
}

// ApplyTourDefaults fills derived and defaulted fields before a tour is
// first persisted: slug, created timestamp, and the initial rating average.
func ApplyTourDefaults(t *Tour) {
	t.Slug = Slugify(t.Name)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if t.RatingsAverage == 0 {
		t.RatingsAverage = 4.5
	}
}

// RoundRating rounds a rating average to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// ValidateTour runs field validation for a tour about to be written. The slug
// is re-derived here so renames keep it consistent.
func ValidateTour(t *Tour) error {
	t.RatingsAverage = RoundRating(t.RatingsAverage)
	if t.Name != "" {
		t.Slug = Slugify(t.Name)
	}
	if err := validate.Struct(t); err != nil {
		return validationError("tour", err)
	}
	if t.PriceDiscount != 0 && t.PriceDiscount >= t.Price {
		return utils.BadRequest("Discount price should be below regular price")
	}
	return nil
}
