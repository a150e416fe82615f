// Package server contains the HTTP handlers and routing for the Nativore API.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "nativore/docs" // swagger docs
	"nativore/internal/bootstrap"
	"nativore/internal/config"
	"nativore/internal/database"
	"nativore/internal/featureflags"
	"nativore/internal/middleware"
	"nativore/internal/models"
	"nativore/internal/policy"
	"nativore/internal/repository"
	"nativore/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Version is reported by the root and readiness endpoints.
const Version = "1.0.0"

// Server holds all dependencies and provides handlers
type Server struct {
	config                *config.Config
	db                    *gorm.DB
	redis                 *redis.Client
	app                   *fiber.App
	promMiddleware        *fiberprometheus.FiberPrometheus
	tokens                *middleware.Tokens
	rateLimiter           *middleware.RateLimiter
	featureFlags          *featureflags.Manager
	userRepo              repository.UserRepository
	listingRepo           repository.ListingRepository
	reviewRepo            repository.ReviewRepository
	listingService        *service.ListingService
	reviewService         *service.ReviewService
	userService           *service.UserService
	analyticsService      *service.AnalyticsService
	recommendationService *service.RecommendationService
}

// NewServer creates a new server instance with all dependencies. A nil Redis
// client is tolerated; caching and revocation degrade.
func NewServer(cfg *config.Config) (*Server, error) {
	db, rdb, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedDemoData: cfg.SeedDemoData})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	ttl := time.Duration(cfg.JWTTTLHours) * time.Hour
	cacheTTL := time.Duration(cfg.AnalyticsCacheTTLSeconds) * time.Second

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("nativore-api"),
		tokens:         middleware.NewTokens(cfg.JWTSecret, ttl),
		rateLimiter:    middleware.NewRateLimiter(redisClient, cfg.Env),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		userRepo:       repository.NewUserRepository(db),
		listingRepo:    repository.NewListingRepository(db),
		reviewRepo:     repository.NewReviewRepository(db),
	}

	server.listingService = service.NewListingService(server.listingRepo)
	server.reviewService = service.NewReviewService(server.reviewRepo, server.listingRepo, server.featureFlags)
	server.userService = service.NewUserService(server.userRepo, server.tokens)
	server.analyticsService = service.NewAnalyticsService(server.listingRepo, server.reviewRepo, server.featureFlags, cacheTTL)
	server.recommendationService = service.NewRecommendationService(server.listingRepo, server.featureFlags, cacheTTL)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Server span; a no-op tracer when tracing is disabled
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID, Trace ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so 429 responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
				"code":  "RATE_LIMITED",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Root)

	// Health checks
	app.Get("/health", s.LivenessCheck)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api/v1")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Nativore API Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", s.rateLimiter.Handler(
		3, 10*time.Minute, middleware.FailOpen, "signup"), s.Signup)
	auth.Post("/login", s.rateLimiter.Handler(
		10, 5*time.Minute, middleware.FailOpen, "login"), s.Login)
	auth.Get("/me", s.Require(policy.Authenticated), s.GetMe)
	auth.Delete("/me", s.Require(policy.Authenticated), s.DeleteMe)
	auth.Post("/refresh", s.Require(policy.Authenticated), s.Refresh)
	auth.Post("/logout", s.Require(policy.Authenticated), s.Logout)

	// Listing routes. Fixed paths are registered before /:id.
	listings := api.Group("/listings")
	listings.Get("/", s.GetListings)
	listings.Get("/search/by-name", s.rateLimiter.Handler(
		30, time.Minute, middleware.FailOpen, "search"), s.SearchListings)
	listings.Get("/cities/list", s.GetCities)
	listings.Get("/cuisines/list", s.GetCuisines)
	listings.Post("/", s.Require(policy.Admin), s.CreateListing)
	listings.Post("/recompute-ratings", s.Require(policy.Admin), s.RecomputeAllRatings)
	listings.Get("/:id/reviews", s.GetListingReviews)
	listings.Post("/:id/reviews", s.Require(policy.Authenticated), s.rateLimiter.Handler(
		10, time.Minute, middleware.FailOpen, "submit_review"), s.SubmitReview)
	listings.Post("/:id/recompute-rating", s.Require(policy.Admin), s.RecomputeListingRating)
	listings.Get("/:id", s.GetListing)
	listings.Put("/:id", s.Require(policy.Admin), s.UpdateListing)
	listings.Delete("/:id", s.Require(policy.Admin), s.DeleteListing)

	// Analytics routes
	analytics := api.Group("/analytics")
	analytics.Get("/trends", s.GetTrends)
	analytics.Get("/spending", s.GetSpending)
	analytics.Get("/top-cuisines", s.GetTopCuisines)
	analytics.Get("/city-comparison/export", s.Require(policy.Authenticated), s.ExportCityComparison)
	analytics.Get("/city-comparison", s.GetCityComparison)
	analytics.Get("/top-rated", s.GetTopRated)
	analytics.Get("/area-insights", s.GetAreaInsights)
	analytics.Get("/dashboard-stats", s.Require(policy.Authenticated), s.GetDashboardStats)

	// Recommendation routes
	recommendations := api.Group("/recommendations")
	recommendations.Get("/best-locations", s.GetBestLocations)
	recommendations.Get("/market-gaps", s.GetMarketGaps)
	recommendations.Get("/similar-restaurants", s.GetSimilarRestaurants)
	recommendations.Get("/investment-insights", s.Require(policy.Authenticated), s.GetInvestmentInsights)

	// Admin routes
	admin := api.Group("/admin", s.Require(policy.Admin))
	admin.Get("/feature-flags", s.GetFeatureFlags)

	app.Use(s.NotFound)
}

// Root describes the service and its entry points.
// @Summary Service metadata
// @Tags meta
// @Produce json
// @Success 200 {object} object{message=string,description=string,version=string,endpoints=map[string]string,cities=[]string}
// @Router / [get]
func (s *Server) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":     "Welcome to Nativore API",
		"description": "Tamil Nadu Food Market Analytics Platform",
		"version":     Version,
		"endpoints": fiber.Map{
			"docs":            "/api/v1/swagger/index.html",
			"authentication":  "/api/v1/auth",
			"listings":        "/api/v1/listings",
			"analytics":       "/api/v1/analytics",
			"recommendations": "/api/v1/recommendations",
			"health":          "/health",
			"metrics":         "/metrics",
		},
		"cities": models.Cities,
	})
}

// NotFound answers every unmatched route.
func (s *Server) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "The requested resource was not found",
		"code":  models.CodeNotFound,
		"path":  c.OriginalURL(),
	})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "healthy",
		"service": "Nativore API",
		"version": Version,
		"time":    time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional: without it the API runs uncached.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"service": "Nativore API",
		"version": Version,
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// NewApp builds a Fiber app with the middleware chain and every route.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Nativore API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Routing errors raised by Fiber keep their status.
			if fe, ok := err.(*fiber.Error); ok && fe.Code != fiber.StatusInternalServerError {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.NewApp()

	log.Printf("Server starting on port %s...", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	database.Close(s.db)

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
