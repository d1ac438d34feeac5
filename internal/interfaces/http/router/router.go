package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers collects everything the router mounts
type Handlers struct {
	System *handler.SystemHandler
	Import *handler.ImportHandler
	Store  *handler.StoreHandler
}

// Setup builds the gin engine with the middleware chain and all routes.
// The import pipeline is admin-only; favorites require any
// authenticated user; reviews and health are public.
func Setup(cfg *config.Config, jwtService *auth.JWTService, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	h.System.RegisterRoutes(engine)

	api := engine.Group("/api/v1")

	admin := api.Group("/admin")
	admin.Use(middleware.JWTAuth(jwtService, log), middleware.AdminOnly())
	h.Import.RegisterRoutes(admin)

	authed := api.Group("")
	authed.Use(middleware.JWTAuth(jwtService, log))
	h.Store.RegisterRoutes(api, authed)

	return engine
}
