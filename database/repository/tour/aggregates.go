package tourRepo

import (
	"context"
	"fmt"
	"time"

	"tourify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stats groups tours by difficulty with rating and price aggregates.
func (r *MongoTourRepo) Stats(ctx context.Context) ([]models.TourStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: defaultFilter}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":        bson.M{"$toUpper": "$difficulty"},
			"numTours":   bson.M{"$sum": 1},
			"numRatings": bson.M{"$sum": "$ratingsQuantity"},
			"avgRating":  bson.M{"$avg": "$ratingsAverage"},
			"avgPrice":   bson.M{"$avg": "$price"},
			"minPrice":   bson.M{"$min": "$price"},
			"maxPrice":   bson.M{"$max": "$price"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"avgPrice": 1}}},
	}

	cursor, err := r.Collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("tour stats aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var stats []models.TourStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode tour stats: %w", err)
	}
	return stats, nil
}

// MonthlyPlan counts tour starts per month of the given year.
func (r *MongoTourRepo) MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlanEntry, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: defaultFilter}},
		bson.D{{Key: "$unwind", Value: "$startDates"}},
		bson.D{{Key: "$match", Value: bson.M{
			"startDates": bson.M{"$gte": from, "$lte": to},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$month": "$startDates"},
			"numTourStarts": bson.M{"$sum": 1},
			"tours":         bson.M{"$push": "$name"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		bson.D{{Key: "$project", Value: bson.M{"_id": 0}}},
		bson.D{{Key: "$sort", Value: bson.M{"numTourStarts": -1}}},
	}

	cursor, err := r.Collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("monthly plan aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var plan []models.MonthlyPlanEntry
	if err := cursor.All(ctx, &plan); err != nil {
		return nil, fmt.Errorf("failed to decode monthly plan: %w", err)
	}
	return plan, nil
}

// Within finds tours whose start location lies inside the sphere centered at
// (lat, lng) with the given radius in radians.
func (r *MongoTourRepo) Within(ctx context.Context, lat, lng, radius float64) ([]models.Tour, error) {
	filter := bson.M{
		"secretTour": bson.M{"$ne": true},
		"startLocation": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lng, lat}, radius},
			},
		},
	}

	cursor, err := r.Collection().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("geo query failed: %w", err)
	}
	defer cursor.Close(ctx)

	tours := []models.Tour{}
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, fmt.Errorf("failed to decode tours: %w", err)
	}
	return tours, nil
}

// DistancesFrom computes the distance from (lat, lng) to every tour's start
// location. The multiplier converts meters to the requested unit.
func (r *MongoTourRepo) DistancesFrom(ctx context.Context, lat, lng, multiplier float64) ([]models.TourDistance, error) {
	pipeline := mongo.Pipeline{
		// $geoNear must be the first stage in the pipeline.
		bson.D{{Key: "$geoNear", Value: bson.M{
			"near": bson.M{
				"type":        "Point",
				"coordinates": bson.A{lng, lat},
			},
			"distanceField":      "distance",
			"distanceMultiplier": multiplier,
			"query":              defaultFilter,
		}}},
		bson.D{{Key: "$project", Value: bson.M{"name": 1, "distance": 1}}},
	}

	cursor, err := r.Collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("distance aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var distances []models.TourDistance
	if err := cursor.All(ctx, &distances); err != nil {
		return nil, fmt.Errorf("failed to decode distances: %w", err)
	}
	return distances, nil
}
