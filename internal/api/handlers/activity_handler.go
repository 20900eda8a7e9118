package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/nvalmar/postdeck-be/internal/models"
	"github.com/nvalmar/postdeck-be/internal/services"
	"github.com/rs/zerolog/log"
)

const defaultEventLimit = 50

// ActivityHandler serves the activity log.
type ActivityHandler struct {
	service services.ActivityServiceProvider
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(service services.ActivityServiceProvider) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// GetRecent returns the most recent activity entries.
func (h *ActivityHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	events, err := h.service.GetRecent(limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load activity events")
		http.Error(w, "Failed to retrieve events", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}
