// Package tour implements the read-side tour analytics: difficulty stats,
// monthly plans and the geospatial queries.
package tour

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	tourRepo "tourify/database/repository/tour"
	"tourify/models"
	"tourify/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	statsCacheKey     = "tours:stats"
	planCacheKeyFmt   = "tours:monthly-plan:%d"
	aggregateCacheTTL = 10 * time.Minute
)

// Earth radii used to convert a distance into radians for $centerSphere.
const (
	earthRadiusMiles = 3963.2
	earthRadiusKm    = 6378.1
)

// Distance multipliers from meters into the requested unit.
const (
	metersToMiles = 0.000621371
	metersToKm    = 0.001
)

// TourService exposes the aggregate and geospatial tour queries.
type TourService interface {
	Stats(ctx context.Context) ([]models.TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlanEntry, error)
	Within(ctx context.Context, lat, lng, distance float64, unit string) ([]models.Tour, error)
	Distances(ctx context.Context, lat, lng float64, unit string) ([]models.TourDistance, error)
}

// DefaultTourService backs TourService with the tour repository and a Redis
// cache for the aggregation results.
type DefaultTourService struct {
	Repo  tourRepo.TourRepository
	Cache *redis.Client
}

// Stats returns per-difficulty aggregates, served from cache when fresh.
func (s *DefaultTourService) Stats(ctx context.Context) ([]models.TourStats, error) {
	var stats []models.TourStats
	if s.cacheGet(ctx, statsCacheKey, &stats) {
		return stats, nil
	}

	stats, err := s.Repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, statsCacheKey, stats)
	return stats, nil
}

// MonthlyPlan returns the per-month tour start schedule for a year.
func (s *DefaultTourService) MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlanEntry, error) {
	key := fmt.Sprintf(planCacheKeyFmt, year)

	var plan []models.MonthlyPlanEntry
	if s.cacheGet(ctx, key, &plan) {
		return plan, nil
	}

	plan, err := s.Repo.MonthlyPlan(ctx, year)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, plan)
	return plan, nil
}

// Within finds tours whose start location falls inside a sphere of the given
// distance around the center point. unit is "mi" or "km".
func (s *DefaultTourService) Within(ctx context.Context, lat, lng, distance float64, unit string) ([]models.Tour, error) {
	radius := distance / earthRadiusMiles
	if unit == "km" {
		radius = distance / earthRadiusKm
	}
	return s.Repo.Within(ctx, lat, lng, radius)
}

// Distances computes the distance from the given point to every tour's start
// location, in the requested unit.
func (s *DefaultTourService) Distances(ctx context.Context, lat, lng float64, unit string) ([]models.TourDistance, error) {
	multiplier := metersToMiles
	if unit == "km" {
		multiplier = metersToKm
	}
	return s.Repo.DistancesFrom(ctx, lat, lng, multiplier)
}

// cacheGet loads a cached aggregate. A miss or an unreachable cache simply
// falls through to the database.
func (s *DefaultTourService) cacheGet(ctx context.Context, key string, out any) bool {
	if s.Cache == nil {
		return false
	}
	raw, err := s.Cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			utils.GetLogger().Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		utils.GetLogger().Warn("Cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *DefaultTourService) cacheSet(ctx context.Context, key string, v any) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, raw, aggregateCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
