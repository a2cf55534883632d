// Package routes wires the HTTP surface: route groups, auth requirements and
// the global middleware each group carries.
package routes

import (
	"net/http"

	"tourify/handlers"
	"tourify/middleware"
	"tourify/models"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Users    *handlers.UserHandler
	Tours    *handlers.TourHandler
	Reviews  *handlers.ReviewHandler
	Bookings *handlers.BookingHandler

	// Principals resolves auth tokens to users for the Protect middleware.
	Principals middleware.PrincipalSource
}

// RegisterRoutes mounts every route group on the engine. The Stripe webhook
// lives outside the /api group so it skips the rate limiter and carries its
// raw body untouched.
func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.POST("/webhook-checkout", h.Bookings.Webhook)

	api := r.Group("/api", middleware.RateLimitMiddleware())
	v1 := api.Group("/v1")

	registerHealthRoute(v1)
	registerTourRoutes(v1, h)
	registerUserRoutes(v1, h)
	registerReviewRoutes(v1, h)
	registerBookingRoutes(v1, h)
}

func registerHealthRoute(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "ok"})
	})
}

func registerTourRoutes(rg *gin.RouterGroup, h Handlers) {
	tours := rg.Group("/tours")

	protect := middleware.Protect(h.Principals)
	// Public reads still pick up the visitor when a valid token rides along.
	visitor := middleware.MaybeAuthenticate(h.Principals)
	staffOnly := middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide)

	tours.GET("", visitor, h.Tours.ListTours())
	tours.POST("", protect, staffOnly, h.Tours.CreateTour())

	tours.GET("/top-5-cheap", handlers.AliasTopTours, h.Tours.ListTours())
	tours.GET("/tours-stats", h.Tours.TourStats)
	tours.GET("/monthly-plan/:year", protect,
		middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide, models.RoleGuide),
		h.Tours.MonthlyPlan)

	tours.GET("/tours-within/:distance/center/:latlng/unit/:unit", h.Tours.ToursWithin)
	tours.GET("/distances/:latlng/unit/:unit", h.Tours.TourDistances)

	tours.GET("/:id", visitor, h.Tours.GetTour())
	tours.PATCH("/:id", protect, staffOnly, h.Tours.UpdateTour())
	tours.DELETE("/:id", protect, staffOnly, h.Tours.DeleteTour())

	// Nested review routes; the :id parameter is the parent tour.
	tours.GET("/:id/reviews", protect, h.Reviews.ListReviews())
	tours.POST("/:id/reviews", protect, middleware.RestrictTo(models.RoleUser), h.Reviews.CreateReview())
}

func registerUserRoutes(rg *gin.RouterGroup, h Handlers) {
	users := rg.Group("/users")

	users.POST("/signup", h.Users.Signup)
	users.POST("/login", h.Users.Login)
	users.GET("/logout", h.Users.Logout)
	users.POST("/forgotPassword", h.Users.ForgotPassword)
	users.PATCH("/resetPassword/:token", h.Users.ResetPassword)

	// Everything below requires a session.
	users.Use(middleware.Protect(h.Principals))

	users.PATCH("/updateMyPassword", h.Users.UpdateMyPassword)
	users.GET("/me", h.Users.Me)
	users.PATCH("/updateMe", h.Users.UpdateMe)
	users.DELETE("/deleteMe", h.Users.DeleteMe)

	// Administrative user management.
	users.Use(middleware.RestrictTo(models.RoleAdmin))

	users.GET("", h.Users.ListUsers())
	users.POST("", h.Users.CreateUser)
	users.GET("/:id", h.Users.GetUser)
	users.PATCH("/:id", h.Users.UpdateUser())
	users.DELETE("/:id", h.Users.DeleteUser())
}

func registerReviewRoutes(rg *gin.RouterGroup, h Handlers) {
	reviews := rg.Group("/reviews", middleware.Protect(h.Principals))

	reviews.GET("", h.Reviews.ListReviews())
	reviews.POST("", middleware.RestrictTo(models.RoleUser), h.Reviews.CreateReview())

	moderate := middleware.RestrictTo(models.RoleUser, models.RoleAdmin)
	reviews.GET("/:id", h.Reviews.GetReview())
	reviews.PATCH("/:id", moderate, h.Reviews.UpdateReview())
	reviews.DELETE("/:id", moderate, h.Reviews.DeleteReview())
}

func registerBookingRoutes(rg *gin.RouterGroup, h Handlers) {
	bookings := rg.Group("/bookings", middleware.Protect(h.Principals))

	bookings.GET("/checkout-session/:tourId", h.Bookings.CheckoutSession)

	staffOnly := middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide)
	bookings.Use(staffOnly)

	bookings.GET("", h.Bookings.ListBookings())
	bookings.POST("", h.Bookings.CreateBooking())
	bookings.GET("/:id", h.Bookings.GetBooking())
	bookings.PATCH("/:id", h.Bookings.UpdateBooking())
	bookings.DELETE("/:id", h.Bookings.DeleteBooking())
}
