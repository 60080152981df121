package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/controller"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/service"
	"ai-chat-be/internal/websocket"
	"ai-chat-be/pkg/cache"
	"ai-chat-be/pkg/llm/factory"
	"ai-chat-be/pkg/metrics"
	pkgNats "ai-chat-be/pkg/nats"
	"ai-chat-be/pkg/retrieval"
)

// Container holds every wired controller and the long-running services the
// entrypoint needs a handle on.
type Container struct {
	AuthController       controller.IAuthController
	ChatController       controller.IChatController
	DocumentController   controller.IDocumentController
	PreferenceController controller.IPreferenceController
	AdminController      controller.IAdminController
	HealthController     controller.IHealthController
	WsController         controller.IWsController

	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub
	Logger          logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	lru := cache.NewLRUCache(cfg.Cache.MaxSize)
	tracker := metrics.NewTracker()
	searcher := retrieval.NewSearcher()

	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.OllamaModel, cfg.Ai.OllamaBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider: %v", err)
	}

	// NATS mirroring is best effort. A missing broker only disables the mirror.
	var natsPublisher *pkgNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPublisher, err = pkgNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("bootstrap", "NATS unavailable, event mirroring disabled", map[string]interface{}{"error": err.Error()})
			natsPublisher = nil
		}
	}

	var rdb *redis.Client
	if opts, err := redis.ParseURL(cfg.App.RedisURL); err != nil {
		sysLogger.Warn("bootstrap", "Invalid Redis URL, websocket cluster fan-out disabled", map[string]interface{}{"error": err.Error()})
	} else {
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			sysLogger.Warn("bootstrap", "Redis unreachable, websocket cluster fan-out disabled", map[string]interface{}{"error": err.Error()})
			rdb = nil
		}
	}

	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	sessionTTL := time.Duration(cfg.Cache.SessionTTLSeconds) * time.Second
	messageTTL := time.Duration(cfg.Cache.MessageTTLSeconds) * time.Second
	documentTTL := time.Duration(cfg.Cache.DocumentTTLSecond) * time.Second

	authService := service.NewAuthService(uowFactory, cfg.Auth)
	chatService := service.NewChatService(uowFactory, lru, pubSub, tracker, sessionTTL, messageTTL)
	documentService := service.NewDocumentService(uowFactory, searcher, lru, pubSub, tracker, documentTTL)
	preferenceService := service.NewPreferenceService(uowFactory)
	streamService := service.NewStreamService(
		uowFactory,
		chatService,
		documentService,
		preferenceService,
		llmProvider,
		pubSub,
		tracker,
		sysLogger,
		cfg.Ai.SystemPrompt,
		cfg.Ai.OllamaModel,
	)
	adminService := service.NewAdminService(tracker, lru, sysLogger, llmProvider, db)
	consumerService := service.NewConsumerService(pubSub, wsHub, natsPublisher)

	return &Container{
		AuthController:       controller.NewAuthController(authService),
		ChatController:       controller.NewChatController(chatService, streamService, sysLogger),
		DocumentController:   controller.NewDocumentController(documentService),
		PreferenceController: controller.NewPreferenceController(preferenceService),
		AdminController:      controller.NewAdminController(adminService, preferenceService),
		HealthController:     controller.NewHealthController(adminService),
		WsController:         controller.NewWsController(wsHub, wsLogger),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
		Logger:          sysLogger,
	}
}
