package main

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"jobcal-engine/internal/httpapi"
)

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// shutdowner is the part of *http.Server the shutdown route needs.
type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdownHandler lets the desktop shell stop the engine. Only loopback
// callers holding the token get through.
func shutdownHandler(token *string, srv shutdowner, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			httpapi.WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
			return
		}

		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			// RemoteAddr can be a bare host
			host = r.RemoteAddr
		}
		if host != "127.0.0.1" && host != "::1" && host != "localhost" {
			log.Warn().Str("request_id", httpapi.RequestIDFrom(r.Context())).Str("remote", host).Msg("shutdown refused: not loopback")
			httpapi.WriteError(w, r, http.StatusForbidden, "forbidden", "shutdown is loopback only")
			return
		}

		got := r.Header.Get("X-Shutdown-Token")
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(*token)) != 1 {
			log.Warn().Str("request_id", httpapi.RequestIDFrom(r.Context())).Msg("shutdown refused: bad token")
			httpapi.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "missing or wrong X-Shutdown-Token")
			return
		}

		log.Info().Str("request_id", httpapi.RequestIDFrom(r.Context())).Msg("shutdown requested")
		httpapi.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "shutting down"})

		// Respond first; Shutdown waits for this handler to return.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Error().Err(err).Msg("shutdown failed")
			}
		}()
	}
}
