package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legalaid-backend/config"
	"legalaid-backend/database"
	"legalaid-backend/gemini"
	"legalaid-backend/handlers"
	"legalaid-backend/legal"
	"legalaid-backend/logger"
	"legalaid-backend/metrics"
	"legalaid-backend/middleware"
	"legalaid-backend/repository"
	"legalaid-backend/service"
	"legalaid-backend/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	// Initialize database
	db, err := database.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate database", "error", err)
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize storage", "error", err)
	}
	log.Info("Storage initialized", "type", cfg.Storage.Type)

	m := metrics.New()

	// Text-generation collaborator; left nil without a key so every step degrades
	var generator legal.TextGenerator
	geminiClient := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiAPIURL,
		gemini.ClientWithTimeout(cfg.GenerationTimeout),
		gemini.ClientWithRecorder(m),
		gemini.ClientWithLogger(log),
	)
	if geminiClient.Configured() {
		generator = geminiClient
	} else {
		log.Warn("GEMINI_API_KEY not set; analysis and generated next steps will be unavailable")
	}

	tables, err := legal.LoadTables()
	if err != nil {
		log.Fatal("Failed to load legal tables", "error", err)
	}
	pipeline := legal.NewPipeline(tables, legal.PipelineConfig{
		Generator:     generator,
		StepsMode:     legal.StepsMode(cfg.NextStepsMode),
		Timeout:       cfg.GenerationTimeout,
		DraftAnalysis: cfg.DraftAnalysisEnabled,
		Recorder:      m,
		Logger:        log,
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	caseRepo := repository.NewCaseRepository(db.DB)
	feedbackRepo := repository.NewFeedbackRepository(db.DB)
	attachmentRepo := repository.NewAttachmentRepository(db.DB)
	history, closeHistory := initChatHistory(ctx, cfg, log)
	defer closeHistory()

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWTSecretKey, cfg.AccessTokenTTL, service.AuthWithLogger(log))
	caseService := service.NewCaseService(
		service.CaseWithRepository(caseRepo),
		service.CaseWithFeedbackRepository(feedbackRepo),
		service.CaseWithPipeline(pipeline),
		service.CaseWithStorage(fileStorage),
		service.CaseWithRecorder(m),
		service.CaseWithLogger(log),
	)
	attachmentService := service.NewAttachmentService(attachmentRepo, caseRepo, fileStorage, log)

	chatOpts := []service.ChatServiceOption{
		service.ChatWithTimeout(cfg.GenerationTimeout),
		service.ChatWithLogger(log),
	}
	if generator != nil {
		chatOpts = append(chatOpts, service.ChatWithGenerator(generator))
	}
	if cfg.ChatAgentEnabled && geminiClient.Configured() {
		agent, err := gemini.NewAgent(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, pipeline, log)
		if err != nil {
			log.Warn("Chat agent unavailable, falling back to plain generation", "error", err)
		} else {
			defer agent.Close()
			chatOpts = append(chatOpts, service.ChatWithAgent(agent))
			log.Info("Chat agent enabled", "model", cfg.GeminiModel)
		}
	}
	chatService := service.NewChatService(history, chatOpts...)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS(cfg.CORSOrigins), middleware.Observe(log, m))

	handlers.Routes{
		Auth:        handlers.NewAuthHandler(authService, log),
		Cases:       handlers.NewCaseHandler(caseService, chatService, log),
		Attachments: handlers.NewAttachmentHandler(attachmentService, log),
		NGOs:        handlers.NewNGOHandler(pipeline.NGOs()),
		RequireAuth: middleware.RequireAuth(authService, log),
		Database:    db,
		Metrics:     m.Handler(),
		AppName:     cfg.AppName,
	}.Register(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}
}

func initChatHistory(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.ChatHistory, func()) {
	if cfg.RedisAddr == "" {
		return repository.NewMemoryChatHistory(cfg.ChatHistoryLimit), func() {}
	}
	h, err := repository.NewRedisChatHistory(ctx, cfg.RedisAddr, cfg.ChatHistoryLimit)
	if err != nil {
		log.Warn("Redis unavailable, keeping chat history in memory", "addr", cfg.RedisAddr, "error", err)
		return repository.NewMemoryChatHistory(cfg.ChatHistoryLimit), func() {}
	}
	log.Info("Chat history stored in Redis", "addr", cfg.RedisAddr)
	return h, func() { _ = h.Close() }
}
