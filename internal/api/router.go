package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zhuravskayyar/cardastica-server/internal/api/handler"
	"github.com/zhuravskayyar/cardastica-server/internal/gateway"
	"github.com/zhuravskayyar/cardastica-server/internal/middleware"
	"github.com/zhuravskayyar/cardastica-server/internal/services/presence"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger        *slog.Logger
	Registry      *presence.Registry
	Gateway       *gateway.Gateway
	AllowedOrigin string
}

// NewRouter creates the full HTTP surface: the websocket endpoint and the
// read-only presence query API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	onlineHandler := handler.NewOnlineHandler(cfg.Registry)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	corsMiddleware := middleware.CORS(cfg.AllowedOrigin)

	// Root probe, kept for load balancers and uptime checks
	r.HandleFunc("/", rootHandler).Methods(http.MethodGet)

	// The websocket endpoint skips the logging wrapper: the connection is
	// hijacked on upgrade and the wrapper would hide http.Hijacker.
	if cfg.Gateway != nil {
		r.HandleFunc("/ws", cfg.Gateway.ServeWS)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.Use(corsMiddleware)

	api.HandleFunc("/online", onlineHandler.List).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/online/{player_id}", onlineHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
