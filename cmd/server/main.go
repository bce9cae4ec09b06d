package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pearsgeorgeson22/bus-booking/internal/config"
	"github.com/pearsgeorgeson22/bus-booking/internal/database"
	"github.com/pearsgeorgeson22/bus-booking/internal/handlers"
	"github.com/pearsgeorgeson22/bus-booking/internal/middleware"
	"github.com/pearsgeorgeson22/bus-booking/internal/services"
	"github.com/pearsgeorgeson22/bus-booking/pkg/token"
	"github.com/pearsgeorgeson22/bus-booking/pkg/validator"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting bus booking backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Repositories
	busRepo := database.NewBusRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	userRepo := database.NewUserRepository(db)

	// Services
	tokenService := token.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	paymentValidator := validator.NewPaymentValidator()
	searchService := services.NewSearchService(busRepo, cfg.Booking.BookingHorizonDays, logger)
	bookingService := services.NewBookingService(
		bookingRepo, busRepo, paymentValidator,
		cfg.Booking.BookingHorizonDays, cfg.Booking.RefundRate, logger,
	)
	ticketService := services.NewTicketService(bookingRepo, busRepo, userRepo, logger)

	// Handlers
	searchHandler := handlers.NewSearchHandler(searchService)
	bookingHandler := handlers.NewBookingHandler(bookingService, cfg.Booking.SeatsPerBus)
	ticketHandler := handlers.NewTicketHandler(ticketService)

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": version})
	})

	v1 := router.Group("/api/v1")
	{
		// Public catalog surface
		v1.GET("/trips/search", searchHandler.SearchTrips)
		v1.GET("/trips/suggestions", searchHandler.RouteSuggestions)
		v1.GET("/trips/:id", searchHandler.GetTrip)
		v1.POST("/trips/:id/seats/initialize", bookingHandler.InitializeSeats)

		// Booking surface, bearer token required
		authed := v1.Group("", middleware.AuthMiddleware(tokenService, false))
		{
			authed.POST("/bookings", bookingHandler.CreateBooking)
			authed.GET("/bookings", bookingHandler.ListMyBookings)
			authed.POST("/bookings/:ticketId/cancel", bookingHandler.CancelBooking)
		}

		// Ticket rendering also accepts a query-carried token so the
		// printable link works in a plain browser tab.
		tickets := v1.Group("/tickets", middleware.AuthMiddleware(tokenService, true))
		{
			tickets.GET("/:ticketId", ticketHandler.RenderTicket)
			tickets.GET("/:ticketId/pdf", ticketHandler.RenderTicketPDF)
		}
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Infof("Server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server exited")
}
