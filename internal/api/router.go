package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/artisan-avenue/auth-service/internal/api/handler"
	"github.com/artisan-avenue/auth-service/internal/api/middleware"
	"github.com/artisan-avenue/auth-service/internal/core/ports"
	"github.com/artisan-avenue/auth-service/internal/core/service"
	"github.com/artisan-avenue/auth-service/internal/infrastructure/config"
	mongodb "github.com/artisan-avenue/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/artisan-avenue/auth-service/internal/infrastructure/db/redis"
	"github.com/artisan-avenue/auth-service/internal/infrastructure/http/handlers"
	"github.com/artisan-avenue/auth-service/internal/pkg/token"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The notifier and welcome dispatcher are constructed by the caller since
// they own lifecycle beyond the router's.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, notifier ports.Notifier, welcome ports.WelcomeEnqueuer, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("artisan_auth"))

	// --- Dependencies ---
	accountRepo := mongodb.NewAccountRepository(db)
	tokens := token.NewIssuer(cfg.JWTSecret, cfg.ResetJWTSecret, cfg.IsProduction())
	authService := service.NewAuthService(accountRepo, notifier, tokens, welcome, log)
	authHandler := handler.NewAuthHandler(authService, tokens)

	limiter := redisdb.NewFixedWindowLimiter(rdb, cfg.AuthRateLimit, time.Minute)
	sessionRequired := middleware.Session(tokens)
	rateLimited := middleware.RateLimit(limiter, log)

	// --- Auth routes ---
	auth := e.Group("/auth", rateLimited)
	auth.POST("/register", authHandler.Register)
	auth.POST("/verify-email", authHandler.VerifyEmail)
	auth.POST("/verify-email/resend", authHandler.ResendVerification)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, sessionRequired)
	auth.POST("/forgot/start", authHandler.ForgotStart)
	auth.POST("/forgot/verify", authHandler.ForgotVerify)
	auth.POST("/forgot/reset", authHandler.ForgotReset)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
