package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ClareAI/astra-sales-console/internal/adapters/agentapi"
	"github.com/ClareAI/astra-sales-console/internal/repository"
	"github.com/ClareAI/astra-sales-console/internal/session"
	"github.com/ClareAI/astra-sales-console/internal/store"
	"github.com/ClareAI/astra-sales-console/pkg/logger"
)

// HandlerManager manages all handlers and their initialization
type HandlerManager struct {
	repoManager repository.RepositoryManager
	configStore *store.ConfigStore
	sessions    *session.Manager
	agentClient *agentapi.Client
	jwtSecret   string
}

// NewHandlerManager creates and initializes all handlers and services
func NewHandlerManager(
	repoManager repository.RepositoryManager,
	configStore *store.ConfigStore,
	sessions *session.Manager,
	agentClient *agentapi.Client,
	jwtSecret string,
) *HandlerManager {
	return &HandlerManager{
		repoManager: repoManager,
		configStore: configStore,
		sessions:    sessions,
		agentClient: agentClient,
		jwtSecret:   jwtSecret,
	}
}

// SetupAllRoutes sets up all routes with middleware
func (hm *HandlerManager) SetupAllRoutes(router *mux.Router) {
	// Apply global middleware
	router.Use(CORSMiddleware)
	router.Use(LoggingMiddleware)

	router.HandleFunc("/health", hm.handleHealth).Methods("GET")

	hm.SetupAPIRoutes(router)

	logger.Base().Info("all application routes registered")
}

// SetupAPIRoutes sets up all API routes and middleware
func (hm *HandlerManager) SetupAPIRoutes(router *mux.Router) {
	apiRouter := router.PathPrefix("/api").Subrouter()

	apiRouter.Use(ValidationMiddleware)
	apiRouter.Use(BearerAuthMiddleware(hm.jwtSecret))

	configHandler := NewConfigHandler(hm.configStore)
	configHandler.SetupConfigRoutes(apiRouter)

	previewHandler := NewPreviewHandler(hm.sessions)
	previewHandler.SetupPreviewRoutes(apiRouter)

	invitationHandler := NewInvitationHandler(hm.agentClient)
	invitationHandler.SetupInvitationRoutes(apiRouter)

	discoveryCallHandler := NewDiscoveryCallHandler(hm.repoManager.DiscoveryCall())
	discoveryCallHandler.SetupDiscoveryCallRoutes(apiRouter)

	router.PathPrefix("/api/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")
}

func (hm *HandlerManager) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]interface{}{
		"status":           "healthy",
		"preview_sessions": hm.sessions.Count(),
	}
	code := http.StatusOK
	if err := hm.repoManager.Ping(ctx); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}
