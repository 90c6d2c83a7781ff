package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ClareAI/astra-sales-console/internal/adapters/agentapi"
	"github.com/ClareAI/astra-sales-console/internal/handler"
	"github.com/ClareAI/astra-sales-console/internal/repository"
	"github.com/ClareAI/astra-sales-console/internal/session"
	"github.com/ClareAI/astra-sales-console/internal/store"
	"github.com/ClareAI/astra-sales-console/pkg/logger"
	"github.com/ClareAI/astra-sales-console/pkg/redis"
)

// ServerConfig holds the console server configuration
type ServerConfig struct {
	Port string

	// Agent backend configuration
	AgentBaseURL     string
	AgentBearerToken string

	// Auth configuration
	JWTSecret string

	// Redis configuration (optional cache layer)
	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Preview session configuration
	PreviewIdleTTLMinutes int
}

// Server represents the sales console server
type Server struct {
	config         *ServerConfig
	router         *mux.Router
	handlerManager *handler.HandlerManager
	repoManager    repository.RepositoryManager
	sessions       *session.Manager
}

// NewServer creates a new sales console server
func NewServer(cfg *ServerConfig) (*Server, error) {
	if _, err := logger.Init(os.Getenv("LOG_ENV")); err != nil {
		logger.Base().Error("Failed to initialize zap logger, falling back to std log")
	}

	repoManager, err := repository.NewRepositoryManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	// The redis cache is optional: without it every fetch goes to postgres,
	// which is fine for small deployments.
	var cache redis.RedisServiceInterface
	if cfg.RedisEnabled {
		redisService, err := redis.NewRedisService(&redis.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Base().Warn("redis unavailable, continuing without cache", zap.Error(err))
		} else {
			cache = redisService
		}
	}

	agentClient := agentapi.NewClient(cfg.AgentBaseURL, cfg.AgentBearerToken)
	configStore := store.NewConfigStore(repoManager.SalesConfig(), cache)
	sessions := session.NewManager(agentClient, time.Duration(cfg.PreviewIdleTTLMinutes)*time.Minute)

	router := mux.NewRouter()
	handlerManager := handler.NewHandlerManager(repoManager, configStore, sessions, agentClient, cfg.JWTSecret)
	handlerManager.SetupAllRoutes(router)

	return &Server{
		config:         cfg,
		router:         router,
		handlerManager: handlerManager,
		repoManager:    repoManager,
		sessions:       sessions,
	}, nil
}

// Start starts the sales console server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.config.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // preview exchanges wait on the agent backend
		IdleTimeout:  60 * time.Second,
	}

	logger.Base().Info("Starting server", zap.String("addr", addr))
	return server.ListenAndServe()
}

// Shutdown releases the server's background resources.
func (s *Server) Shutdown() {
	s.sessions.Shutdown()
	if err := s.repoManager.Close(); err != nil {
		logger.Base().Warn("failed to close database", zap.Error(err))
	}
}

// LoadConfigFromEnv loads the console configuration from environment
func LoadConfigFromEnv() *ServerConfig {
	return &ServerConfig{
		Port: getEnvOrDefault("SALES_CONSOLE_PORT", "8084"),

		AgentBaseURL:     getEnvOrDefault("AGENT_BASE_URL", "http://localhost:8000"),
		AgentBearerToken: getEnvOrDefault("AGENT_BEARER_TOKEN", ""),

		JWTSecret: getEnvOrDefault("JWT_SECRET", ""),

		RedisEnabled:  getEnvAsBoolOrDefault("REDIS_ENABLED", false),
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsIntOrDefault("REDIS_DB", 0),

		PreviewIdleTTLMinutes: getEnvAsIntOrDefault("PREVIEW_IDLE_TTL_MINUTES", 30),
	}
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault gets environment variable as bool or returns default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func main() {
	// Load .env for local development; environment set by Helm/Docker wins.
	if err := godotenv.Load(); err != nil {
		log.Printf("Info: .env file not found or skipped (expected in production): %v", err)
	}

	cfg := LoadConfigFromEnv()

	server, err := NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer server.Shutdown()

	logger.Base().Info("Server initialized successfully", zap.String("port", cfg.Port))

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
