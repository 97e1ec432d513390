package bootstrap

import (
	"context"
	"log"

	"hr-assistant-be/internal/config"
	"hr-assistant-be/internal/constant"
	"hr-assistant-be/internal/controller"
	"hr-assistant-be/internal/dto"
	"hr-assistant-be/internal/pkg/logger"
	"hr-assistant-be/internal/repository/contract"
	"hr-assistant-be/internal/repository/implementation"
	"hr-assistant-be/internal/repository/memory"
	"hr-assistant-be/internal/repository/redisstore"
	"hr-assistant-be/internal/service"
	"hr-assistant-be/pkg/ai/intent"
	"hr-assistant-be/pkg/ai/router"
	"hr-assistant-be/pkg/answer"
	"hr-assistant-be/pkg/embedding"
	"hr-assistant-be/pkg/llm/factory"
	pkgnats "hr-assistant-be/pkg/nats"
	"hr-assistant-be/pkg/rag"
	"hr-assistant-be/pkg/sqlgen"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	AssistantController controller.IAssistantController
	AdminController     controller.IAdminController

	// Background services, run by main.go
	AuditConsumer service.IAuditConsumerService

	SysLogger logger.ILogger
}

// NewContainer wires the whole assistant. db carries writes (activity logs,
// corpus); readOnlyDB executes generated SQL.
func NewContainer(db *gorm.DB, readOnlyDB *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	pipelineLogger := service.InitAssistantLogger()

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	embeddingProvider := embedding.NewOllamaProvider(
		cfg.Ai.EmbeddingBaseURL,
		cfg.Ai.EmbeddingModel,
	)
	log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Session storage
	var sessionRepo contract.SessionRepository
	if cfg.App.SessionBackend == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessionRepo = redisstore.NewSessionRepository(rdb)
		log.Println("[INFO] Using Session Backend: REDIS")
	} else {
		sessionRepo = memory.NewSessionRepository()
		log.Println("[INFO] Using Session Backend: MEMORY")
	}

	// 5. NATS (optional)
	var natsPub *pkgnats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pkgnats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// 6. SQL pipeline
	allowedTables := cfg.Database.AllowedTables
	if len(allowedTables) == 0 {
		allowedTables = constant.AllowedTables
	}
	gate := sqlgen.NewGate(allowedTables)
	generator := sqlgen.NewGenerator(llmProvider, pipelineLogger)
	executor := sqlgen.NewExecutor(readOnlyDB, pipelineLogger)
	enricher := answer.NewEnricher(readOnlyDB, pipelineLogger)
	formatter := answer.NewFormatter(llmProvider, cfg.Ai.AnswerTemperature, cfg.Ai.MaxContextChars, pipelineLogger)

	// 7. Document pipeline
	retriever := rag.NewPgvectorRetriever(db, embeddingProvider)
	ragPipeline := rag.NewPipeline(retriever, llmProvider, cfg.Ai.RetrievalTopK, cfg.Ai.MaxContextChars, cfg.Ai.AnswerTemperature, pipelineLogger)

	// 8. Router and services
	classifier := intent.NewClassifier(llmProvider, pipelineLogger)
	auditPublisher := service.NewAuditPublisher(pubSub)
	askRouter := router.NewRouter(
		sessionRepo,
		classifier,
		generator,
		gate,
		executor,
		enricher,
		formatter,
		ragPipeline,
		auditPublisher,
		pipelineLogger,
	)

	assistantService := service.NewAssistantService(askRouter, sysLogger)

	activityLogRepo := implementation.NewActivityLogRepository(db)
	auditConsumer := service.NewAuditConsumerService(pubSub, activityLogRepo, natsPub, sysLogger)

	health := dto.HealthResponse{
		Status:         "up",
		LlmProvider:    cfg.Ai.LLMProvider,
		LlmModel:       cfg.Ai.LLMModel,
		SessionBackend: cfg.App.SessionBackend,
	}

	return &Container{
		AssistantController: controller.NewAssistantController(assistantService, health),
		AdminController:     controller.NewAdminController(sysLogger, activityLogRepo),
		AuditConsumer:       auditConsumer,
		SysLogger:           sysLogger,
	}
}
