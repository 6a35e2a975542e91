package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/scoratis/scoratis-backend/internal/config"
	"github.com/scoratis/scoratis-backend/internal/database"
	"github.com/scoratis/scoratis-backend/internal/handlers"
	"github.com/scoratis/scoratis-backend/internal/middleware"
	"github.com/scoratis/scoratis-backend/internal/routes"
	"github.com/scoratis/scoratis-backend/internal/services"
)

func main() {
	// Load env
	envErr := godotenv.Load()
	cfg := config.Load()

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("no .env file found")
	}

	// Open the database file
	store, err := database.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database",
			zap.Error(err),
			zap.String("db_path", cfg.DBPath))
	}
	defer store.Close()

	// Redis is optional; without it the chat context window lives in-process.
	var memory *services.Memory
	if cfg.RedisURI != "" {
		rdb, err := services.NewRedisClient(cfg.RedisURI)
		if err != nil {
			logger.Warn("redis unavailable, using in-process chat memory", zap.Error(err))
			memory = services.NewMemory(nil)
		} else {
			defer rdb.Close()
			logger.Info("connected to redis")
			memory = services.NewMemory(rdb)
		}
	} else {
		memory = services.NewMemory(nil)
	}

	if cfg.LLMAPIKey == "" {
		logger.Warn("LLM_API_KEY not set; chat will return 503")
	}
	chat, err := services.NewChatService(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, memory, logger)
	if err != nil {
		logger.Fatal("failed to initialize chat service", zap.Error(err))
	}

	if cfg.YouTubeAPIKey == "" {
		logger.Warn("YOUTUBE_API_KEY not set; video search will return 503")
	}
	videos := services.NewYouTubeClient(cfg.YouTubeAPIKey, logger)

	h := handlers.New(store, chat, videos, logger)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestLogger(logger))

	routes.SetupRoutes(r, h)

	// The write timeout leaves headroom for the tutor call, which may take up to 30s.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("scoratis backend running", zap.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
