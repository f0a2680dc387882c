package httpapi

import (
	"net/http"
	"time"

	"jobcal-engine/internal/events"
	"jobcal-engine/internal/store"
)

type HealthHandler struct {
	Store *store.Store
	Hub   *events.Hub
	Now   func() time.Time
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"time":        h.Now().Format(time.RFC3339),
		"today":       h.Store.Today(),
		"jobs":        h.Store.Len(),
		"subscribers": h.Hub.Count(),
	})
}
