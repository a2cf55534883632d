// File: tourify/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourify/config"
	"tourify/database"
	bookingRepoPkg "tourify/database/repository/booking"
	reviewRepoPkg "tourify/database/repository/review"
	tourRepoPkg "tourify/database/repository/tour"
	userRepoPkg "tourify/database/repository/user"
	"tourify/handlers"
	"tourify/middleware"
	"tourify/routes"
	bookingSvc "tourify/services/booking"
	reviewSvc "tourify/services/review"
	tourSvc "tourify/services/tour"
	userSvc "tourify/services/user"
	"tourify/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.BodyLimit())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.PublicURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// repositories.
	tourRepo := tourRepoPkg.NewMongoTourRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()

	// services.
	userService := &userSvc.DefaultUserService{
		Repo: userRepo,
		Mail: &userSvc.LogMailer{Logger: logger},
	}
	tourService := &tourSvc.DefaultTourService{
		Repo:  tourRepo,
		Cache: utils.GetCacheClient(),
	}
	reviewService := &reviewSvc.DefaultReviewService{
		Reviews: reviewRepo,
		Tours:   tourRepo,
	}
	bookingService := &bookingSvc.DefaultBookingService{
		Bookings:      bookingRepo,
		Tours:         tourRepo,
		WebhookSecret: config.AppConfig.StripeWebhookSecret,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, routes.Handlers{
		Users:      handlers.NewUserHandler(userService, userRepo),
		Tours:      handlers.NewTourHandler(tourRepo, tourService),
		Reviews:    handlers.NewReviewHandler(reviewRepo, reviewService),
		Bookings:   handlers.NewBookingHandler(bookingRepo, bookingService, config.AppConfig.PublicURL),
		Principals: userRepo,
	})

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
