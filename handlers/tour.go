package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"tourify/database/repository"
	tourRepo "tourify/database/repository/tour"
	"tourify/models"
	tourService "tourify/services/tour"
	"tourify/utils"

	"github.com/gin-gonic/gin"
)

// TourHandler serves the tour CRUD, the alias route, and the aggregate and
// geospatial endpoints.
type TourHandler struct {
	Repo    tourRepo.TourRepository
	Service tourService.TourService
}

func NewTourHandler(repo tourRepo.TourRepository, svc tourService.TourService) *TourHandler {
	return &TourHandler{Repo: repo, Service: svc}
}

// reviewsLookup eager-loads a tour's reviews on get-one reads.
var reviewsLookup = repository.Lookup{
	From:         "reviews",
	LocalField:   "_id",
	ForeignField: "tour",
	As:           "reviews",
}

// AliasTopTours presets the query for the top-5-cheap listing before the
// generic list handler runs.
func AliasTopTours(c *gin.Context) {
	q := c.Request.URL.Query()
	q.Set("limit", "5")
	q.Set("sort", "-ratingsAverage,price")
	q.Set("fields", "name,price,ratingsAverage,summary,difficulty")
	c.Request.URL.RawQuery = q.Encode()
	c.Next()
}

func (h *TourHandler) ListTours() gin.HandlerFunc {
	return List[models.Tour](h.Repo, nil)
}

func (h *TourHandler) GetTour() gin.HandlerFunc {
	return GetOne[models.Tour](h.Repo, reviewsLookup)
}

func (h *TourHandler) CreateTour() gin.HandlerFunc {
	return CreateOne[models.Tour](h.Repo, &WriteHooks[models.Tour]{
		BeforeCreate: func(c *gin.Context, t *models.Tour) error {
			models.ApplyTourDefaults(t)
			return nil
		},
	})
}

func (h *TourHandler) UpdateTour() gin.HandlerFunc {
	return UpdateOne[models.Tour](h.Repo, nil)
}

func (h *TourHandler) DeleteTour() gin.HandlerFunc {
	return DeleteOne[models.Tour](h.Repo, nil)
}

// TourStats returns per-difficulty rating and price aggregates.
func (h *TourHandler) TourStats(c *gin.Context) {
	stats, err := h.Service.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Success(c, http.StatusOK, stats)
}

// MonthlyPlan returns the busiest-month breakdown for a year.
func (h *TourHandler) MonthlyPlan(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		_ = c.Error(utils.BadRequest("Please provide a valid year"))
		return
	}
	plan, err := h.Service.MonthlyPlan(c.Request.Context(), year)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Success(c, http.StatusOK, plan)
}

// parseLatLng splits a "lat,lng" route parameter.
func parseLatLng(raw string) (lat, lng float64, ok bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLng != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// ToursWithin lists tours starting within :distance of :latlng, route shape
// /tours-within/:distance/center/:latlng/unit/:unit.
func (h *TourHandler) ToursWithin(c *gin.Context) {
	lat, lng, ok := parseLatLng(c.Param("latlng"))
	if !ok {
		_ = c.Error(utils.BadRequest("Please provide latitude and longitude in the format lat,lng."))
		return
	}
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil {
		_ = c.Error(utils.BadRequest("Please provide a valid distance"))
		return
	}

	tours, err := h.Service.Within(c.Request.Context(), lat, lng, distance, c.Param("unit"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.SuccessList(c, len(tours), tours)
}

// TourDistances lists every tour's distance from :latlng.
func (h *TourHandler) TourDistances(c *gin.Context) {
	lat, lng, ok := parseLatLng(c.Param("latlng"))
	if !ok {
		_ = c.Error(utils.BadRequest("Please provide latitude and longitude in the format lat,lng."))
		return
	}

	distances, err := h.Service.Distances(c.Request.Context(), lat, lng, c.Param("unit"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Success(c, http.StatusOK, distances)
}
