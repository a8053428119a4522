package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/zhuravskayyar/cardastica-server/internal/api/apierr"
	"github.com/zhuravskayyar/cardastica-server/internal/api/response"
	"github.com/zhuravskayyar/cardastica-server/internal/services/presence"
)

// OnlineHandler serves the read-only presence query surface. No endpoint
// here mutates state beyond the registry's own lazy expiry.
type OnlineHandler struct {
	registry *presence.Registry
}

// NewOnlineHandler creates a new online handler
func NewOnlineHandler(registry *presence.Registry) *OnlineHandler {
	return &OnlineHandler{registry: registry}
}

// List handles GET /api/v1/online?q=&limit=
func (h *OnlineHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			apierr.WriteError(w, apierr.NewInvalidRequestError("limit must be an integer"))
			return
		}
		// An explicit limit is clamped rather than defaulted, so limit=0
		// and limit=-5 both mean the smallest page.
		limit = parsed
		if limit < presence.MinListLimit {
			limit = presence.MinListLimit
		}
	}

	snap, err := h.registry.List(r.Context(), query, limit)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OnlineListFromSnapshot(snap))
}

// Get handles GET /api/v1/online/{player_id}
func (h *OnlineHandler) Get(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["player_id"]

	view, err := h.registry.Lookup(r.Context(), playerID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromView(view))
}
