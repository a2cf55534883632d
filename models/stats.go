package models

// TourStats is one row of the per-difficulty aggregate.
type TourStats struct {
	Difficulty string  `json:"difficulty" bson:"_id"`
	NumTours   int     `json:"numTours" bson:"numTours"`
	NumRatings int     `json:"numRatings" bson:"numRatings"`
	AvgRating  float64 `json:"avgRating" bson:"avgRating"`
	AvgPrice   float64 `json:"avgPrice" bson:"avgPrice"`
	MinPrice   float64 `json:"minPrice" bson:"minPrice"`
	MaxPrice   float64 `json:"maxPrice" bson:"maxPrice"`
}

// MonthlyPlanEntry is one month of the yearly tour-start plan.
type MonthlyPlanEntry struct {
	Month         int      `json:"month" bson:"month"`
	NumTourStarts int      `json:"numTourStarts" bson:"numTourStarts"`
	Tours         []string `json:"tours" bson:"tours"`
}

// TourDistance pairs a tour with its distance from a reference point.
type TourDistance struct {
	Name     string  `json:"name" bson:"name"`
	Distance float64 `json:"distance" bson:"distance"`
}
