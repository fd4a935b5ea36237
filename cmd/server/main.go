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
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/albanianalps/agency-backend/internal/config"
	"github.com/albanianalps/agency-backend/internal/database"
	"github.com/albanianalps/agency-backend/internal/handlers"
	"github.com/albanianalps/agency-backend/internal/middleware"
	"github.com/albanianalps/agency-backend/internal/services"
	"github.com/albanianalps/agency-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Albanian Alps Agency Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	tourRepository := database.NewTourRepository(db)
	bookingRepository := database.NewBookingRepository(db)
	auditRepository := database.NewPaymentAuditRepository(db, logger)
	userRepository := database.NewUserRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	paypalService := services.NewPayPalService(cfg.PayPal, logger)
	stripeService := services.NewStripeService(cfg.Stripe, cfg.Server.IsProduction(), logger)
	twoc2pService := services.NewTwoC2PService(cfg.TwoC2P, cfg.Server.IsProduction(), logger)
	cardService := services.NewCardService(logger)

	paymentRouter := services.NewPaymentRouter(logger,
		paypalService, stripeService, twoc2pService, cardService)

	auditService := services.NewAuditService(auditRepository, cfg.Booking.Currency, logger)
	emailService := services.NewEmailService(cfg.Email, logger)

	bookingService := services.NewBookingService(
		tourRepository,
		bookingRepository,
		services.NewBookingValidator(),
		paymentRouter,
		auditService,
		emailService,
		logger,
	)
	logger.Info("Services initialized")

	// Initialize handlers
	tourHandler := handlers.NewTourHandler(tourRepository, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, bookingRepository, auditRepository, logger)
	paymentHandler := handlers.NewPaymentHandler(paypalService, stripeService, twoc2pService, cfg.Booking, logger)
	authHandler := handlers.NewAuthHandler(userRepository, jwtService, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API routes
	api := router.Group("/api")
	{
		// Public tour catalog
		api.GET("/tours", tourHandler.List)
		api.GET("/tours/:id", tourHandler.GetByID)

		// Public booking endpoint
		api.POST("/bookings", bookingHandler.Create)

		// Provider client-side flows (public)
		api.POST("/paypal/orders", paymentHandler.CreatePayPalOrder)
		api.POST("/paypal/orders/:id/capture", paymentHandler.CapturePayPalOrder)
		api.POST("/stripe/payment-intents", paymentHandler.CreateStripePaymentIntent)
		api.POST("/twoc2p/payment-url", paymentHandler.CreateTwoC2PPaymentURL)

		// Staff authentication (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Staff-only booking views (protected)
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtService))
		{
			admin.GET("/bookings", bookingHandler.List)
			admin.GET("/bookings/:id", bookingHandler.GetByID)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
