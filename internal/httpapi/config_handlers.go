package httpapi

import (
	"net/http"
	"path/filepath"
	"sync/atomic"

	"github.com/rs/zerolog"

	"jobcal-engine/internal/config"
	"jobcal-engine/internal/events"
)

type ConfigHandler struct {
	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	Hub         *events.Hub
	Log         zerolog.Logger

	// OnChange runs after a saved config is live.
	OnChange func(config.Config)
}

// Get returns the saved document. Env overrides show only in the live config.
func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := config.Load(h.UserCfgPath)
	if err != nil {
		h.Log.Error().Err(err).Str("path", h.UserCfgPath).Msg("config read failed")
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}

// Put applies the body onto the saved document, then validates, saves and
// reloads. Keys the body leaves out keep their saved values. Listener,
// limiter and logger settings apply on the next start; the timezone applies
// at once.
func (h ConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	incoming, err := config.Load(h.UserCfgPath)
	if err != nil {
		h.Log.Error().Err(err).Str("path", h.UserCfgPath).Msg("config read failed")
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	if err := decodeJSON(w, r, &incoming); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	normalized, vr := config.NormalizeAndValidate(incoming)
	if !vr.OK() {
		// Structured so the UI can list every problem
		WriteJSON(w, http.StatusBadRequest, vr)
		return
	}

	if err := config.SaveAtomic(h.UserCfgPath, normalized); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	saved, err := h.LoadCfg()
	if err != nil {
		h.Log.Error().Err(err).Str("path", h.UserCfgPath).Msg("config reload failed")
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "saved but reload failed: "+err.Error())
		return
	}
	h.CfgVal.Store(saved)
	if h.OnChange != nil {
		h.OnChange(saved)
	}
	h.Log.Info().Str("path", h.UserCfgPath).Str("timezone", saved.Calendar.Timezone).Msg("config saved")
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeConfigChanged, nil)
	WriteJSON(w, http.StatusOK, normalized)
}

func (h ConfigHandler) Path(w http.ResponseWriter, r *http.Request) {
	abs, _ := filepath.Abs(h.UserCfgPath)
	WriteJSON(w, http.StatusOK, map[string]any{"path": abs})
}

func (h ConfigHandler) Validate(w http.ResponseWriter, r *http.Request) {
	cur := h.CfgVal.Load().(config.Config)
	_, vr := config.NormalizeAndValidate(cur)
	WriteJSON(w, http.StatusOK, vr)
}
