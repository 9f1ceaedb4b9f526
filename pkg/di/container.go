package di

import (
	"context"
	"time"

	"bilingual-chat-demo/backend/internal/service"
	"bilingual-chat-demo/backend/internal/ws"
	"bilingual-chat-demo/backend/pkg/cache"
	"bilingual-chat-demo/backend/pkg/config"
	"bilingual-chat-demo/backend/pkg/jwt"
	"bilingual-chat-demo/backend/pkg/logger"
	"bilingual-chat-demo/backend/pkg/resilience"
	"bilingual-chat-demo/backend/pkg/secrets"
	"bilingual-chat-demo/backend/shared/redis"
	"bilingual-chat-demo/backend/translation"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB     *gorm.DB
	Config *config.Config
	Logger *logger.Logger

	JWTService         *jwt.Service
	UserService        *service.UserService
	RoomService        *service.RoomService
	MessageService     *service.MessageService
	TranslationService *translation.Service

	Bus *redis.Bus
	Hub *ws.Hub
}

// New creates a new dependency injection container. useBus controls whether
// live messages are fanned out over redis or delivered in-process only.
func New(db *gorm.DB, cfg *config.Config, log *logger.Logger, useBus bool) (*Container, error) {
	if log == nil {
		log = logger.GetGlobal()
	}

	// Secrets come from vault when enabled, with environment fallback
	if err := secrets.Init(log); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	jwtSecret := secrets.GetSecretWithDefault(ctx, "JWT_SECRET", cfg.JWT.Secret)
	translatorKey := secrets.GetSecretWithDefault(ctx, "TRANSLATOR_API_KEY", cfg.Translator.APIKey)

	jwtService := jwt.NewService(jwtSecret, cfg.JWT.Expiry)

	// Translation pipeline: remote client behind a circuit breaker, the
	// heuristic classifier as its local fallback
	breaker := resilience.NewCircuitBreaker(
		resilience.DefaultCircuitBreakerConfig("translator"),
		log,
	)
	translatorClient := translation.NewClient(translation.ClientConfig{
		Endpoint:            cfg.Translator.Endpoint,
		APIKey:              translatorKey,
		ConfidenceThreshold: cfg.Translator.ConfidenceThreshold,
		Timeout:             cfg.Translator.Timeout,
		Breaker:             breaker,
		Debug:               cfg.Translator.DebugLogging,
	}, log)

	var languageCache *cache.Cache
	if cfg.Cache.Enabled {
		languageCache = cache.NewCache()
	}
	translationService := translation.NewService(translatorClient, languageCache, log)

	var bus *redis.Bus
	if useBus {
		bus = redis.NewBus(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Channel, log)
	}

	// The hub and the message service reference each other: the hub loads
	// history through the service, the service publishes through the hub
	hub := ws.NewHub(nil, bus, log)
	hub.SetReadLimit(cfg.Chat.MaxMessageSize)
	messageService := service.NewMessageService(db, hub, cfg.Chat.HistoryLimit, log)
	hub.SetHistory(messageService)

	return &Container{
		DB:                 db,
		Config:             cfg,
		Logger:             log,
		JWTService:         jwtService,
		UserService:        service.NewUserService(db, jwtService),
		RoomService:        service.NewRoomService(db),
		MessageService:     messageService,
		TranslationService: translationService,
		Bus:                bus,
		Hub:                hub,
	}, nil
}

// Close releases held connections
func (c *Container) Close() error {
	if c.Bus != nil {
		return c.Bus.Close()
	}
	return nil
}
