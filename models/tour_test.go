package models

import (
	"encoding/json"
	"testing"

	"tourify/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTour() *Tour {
	return &Tour{
		Name:         "The Forest Hiker",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   "easy",
		Price:        397,
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
		ImageCover:   "tour-1-cover.jpg",
	}
}

func TestValidateTourAcceptsValidTour(t *testing.T) {
	tour := validTour()
	ApplyTourDefaults(tour)

	require.NoError(t, ValidateTour(tour))
	assert.Equal(t, "the-forest-hiker", tour.Slug)
	assert.Equal(t, 4.5, tour.RatingsAverage)
}

func TestValidateTourRejectsShortName(t *testing.T) {
	tour := validTour()
	tour.Name = "Short"
	ApplyTourDefaults(tour)

	err := ValidateTour(tour)
	require.Error(t, err)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
	assert.Contains(t, appErr.Message, "Name")
}

func TestValidateTourRejectsNonAlphaName(t *testing.T) {
	tour := validTour()
	tour.Name = "The F0rest Hiker 2"
	ApplyTourDefaults(tour)

	assert.Error(t, ValidateTour(tour))
}

func TestValidateTourRejectsUnknownDifficulty(t *testing.T) {
	tour := validTour()
	tour.Difficulty = "impossible"
	ApplyTourDefaults(tour)

	assert.Error(t, ValidateTour(tour))
}

func TestValidateTourRejectsDiscountAbovePrice(t *testing.T) {
	tour := validTour()
	tour.PriceDiscount = 500
	ApplyTourDefaults(tour)

	err := ValidateTour(tour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Discount price should be below regular price")
}

func TestValidateTourRoundsRatingAverage(t *testing.T) {
	tour := validTour()
	tour.RatingsAverage = 4.666666
	ApplyTourDefaults(tour)

	require.NoError(t, ValidateTour(tour))
	assert.Equal(t, 4.7, tour.RatingsAverage)
}

func TestValidateTourRederivesSlugOnRename(t *testing.T) {
	tour := validTour()
	ApplyTourDefaults(tour)
	require.NoError(t, ValidateTour(tour))

	tour.Name = "The Mountain Biker"
	require.NoError(t, ValidateTour(tour))
	assert.Equal(t, "the-mountain-biker", tour.Slug)
}

func TestTourJSONIncludesDurationWeeks(t *testing.T) {
	tour := validTour()
	tour.Duration = 14

	raw, err := json.Marshal(tour)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 2.0, decoded["durationWeeks"])
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "the-sea-explorer", Slugify("  The  Sea   Explorer "))
	assert.Equal(t, "tour-2026", Slugify("Tour 2026!"))
}
