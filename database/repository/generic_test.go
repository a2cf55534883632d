package repository

import (
	"testing"

	"tourify/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func storedTour() *models.Tour {
	return &models.Tour{
		ID:             primitive.NewObjectID(),
		Name:           "The Forest Hiker",
		Slug:           "the-forest-hiker",
		Duration:       5,
		MaxGroupSize:   25,
		Difficulty:     "easy",
		RatingsAverage: 4.5,
		Price:          397,
		Summary:        "Breathtaking hike through the Canadian Banff National Park",
		ImageCover:     "tour-1-cover.jpg",
	}
}

func TestMergePatchOverlaysFields(t *testing.T) {
	current := storedTour()

	merged, err := mergePatch(current, bson.M{"price": 497.0, "difficulty": "medium"})
	require.NoError(t, err)

	assert.Equal(t, 497.0, merged.Price)
	assert.Equal(t, "medium", merged.Difficulty)
	assert.Equal(t, current.Name, merged.Name)
}

func TestChangedFieldsPersistsValidatorNormalization(t *testing.T) {
	current := storedTour()
	patch := bson.M{"ratingsAverage": 4.666}

	merged, err := mergePatch(current, patch)
	require.NoError(t, err)
	require.NoError(t, models.ValidateTour(merged))

	set, err := changedFields(current, merged, patch)
	require.NoError(t, err)

	// The rounded value is written, not the raw client value.
	assert.Equal(t, 4.7, set["ratingsAverage"])
}

func TestChangedFieldsIncludesDerivedSlugOnRename(t *testing.T) {
	current := storedTour()
	patch := bson.M{"name": "The Mountain Biker"}

	merged, err := mergePatch(current, patch)
	require.NoError(t, err)
	require.NoError(t, models.ValidateTour(merged))

	set, err := changedFields(current, merged, patch)
	require.NoError(t, err)

	assert.Equal(t, "The Mountain Biker", set["name"])
	// The slug was never patched but the validator re-derived it.
	assert.Equal(t, "the-mountain-biker", set["slug"])
}

func TestChangedFieldsSkipsUntouchedFields(t *testing.T) {
	current := storedTour()
	patch := bson.M{"price": 450.0}

	merged, err := mergePatch(current, patch)
	require.NoError(t, err)
	require.NoError(t, models.ValidateTour(merged))

	set, err := changedFields(current, merged, patch)
	require.NoError(t, err)

	assert.Equal(t, 450.0, set["price"])
	assert.NotContains(t, set, "summary")
	assert.NotContains(t, set, "duration")
	assert.NotContains(t, set, "_id")
}

func TestChangedFieldsKeepsExplicitZeroForOmittedField(t *testing.T) {
	current := storedTour()
	current.PriceDiscount = 100
	patch := bson.M{"priceDiscount": 0.0}

	merged, err := mergePatch(current, patch)
	require.NoError(t, err)
	require.NoError(t, models.ValidateTour(merged))

	set, err := changedFields(current, merged, patch)
	require.NoError(t, err)

	// priceDiscount is dropped from the stored form when zero, but the
	// client's explicit reset still reaches the database.
	assert.Equal(t, 0.0, set["priceDiscount"])
}
