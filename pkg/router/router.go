package router

import (
	"strings"

	"bilingual-chat-demo/backend/internal/api"
	"bilingual-chat-demo/backend/internal/ws"
	"bilingual-chat-demo/backend/pkg/config"
	"bilingual-chat-demo/backend/pkg/di"
	"bilingual-chat-demo/backend/pkg/errors"
	"bilingual-chat-demo/backend/pkg/logger"
	"bilingual-chat-demo/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Hub       *ws.Hub
	Config    *config.Config
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	logger.SetGlobal(container.Logger)
	cfg := container.Config

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Request id first so every later middleware can log it
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())

	rateOpts := middleware.DefaultRateLimiterOptions()
	rateOpts.Limit = rate.Limit(cfg.Security.RateLimit)
	rateOpts.Burst = cfg.Security.RateLimitBurst
	rateLimiter := middleware.NewRateLimiter(container.Logger, rateOpts)
	engine.Use(rateLimiter.Middleware())

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Hub:       container.Hub,
		Config:    cfg,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	r.Engine.Use(corsMiddleware(r.Config.Security.AllowedOrigins))

	jwtAuth := middleware.JWTAuthMiddleware(r.Container.JWTService, r.Logger)

	authHandler := api.NewAuthHandler(r.Container.UserService, r.Container.JWTService, r.Logger)
	userController := api.NewUserController(r.Container.UserService, r.Container.JWTService, r.Logger)
	roomController := api.NewRoomController(
		r.Container.RoomService,
		r.Container.MessageService,
		r.Container.JWTService,
		r.Logger,
	)
	translationHandler := api.NewTranslationHandler(r.Container.TranslationService, r.Logger)
	healthHandler := api.NewHealthHandler(r.Container.DB, r.Container.Bus)

	apiGroup := r.Engine.Group("/api")
	{
		healthHandler.RegisterHealthRoutes(apiGroup)
		authHandler.RegisterRoutes(apiGroup, jwtAuth)
		userController.RegisterRoutes(apiGroup, jwtAuth)
		roomController.RegisterRoutes(apiGroup, jwtAuth)

		// Translation endpoints are open: the pipeline already degrades
		// gracefully and the demo frontend calls them before login
		translationHandler.RegisterRoutes(apiGroup)
	}

	// WebSocket route
	r.Engine.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(r.Hub, c)
	})
}

// corsMiddleware allows the configured origins, including the headers a
// websocket upgrade needs
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[strings.TrimSuffix(origin, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		switch {
		case allowAll:
			if origin == "" {
				origin = "*"
			}
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		case allowed[origin]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, X-CSRF-Token, Authorization, Origin, Upgrade, Connection, Cache-Control")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Upgrade, Connection")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
