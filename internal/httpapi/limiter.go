package httpapi

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"jobcal-engine/internal/metrics"
)

// MutationLimiter rate-limits write requests per client host. Reads pass
// through untouched.
type MutationLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int

	metrics metrics.Sink
}

// NewMutationLimiter returns nil when perSec is not positive, which
// disables limiting.
func NewMutationLimiter(perSec float64, burst int, m metrics.Sink) *MutationLimiter {
	if perSec <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	if m == nil {
		m = metrics.NewNoopSink()
	}
	return &MutationLimiter{
		m:       make(map[string]*rate.Limiter),
		r:       rate.Limit(perSec),
		b:       burst,
		metrics: m,
	}
}

func (ml *MutationLimiter) limiterFor(host string) *rate.Limiter {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if lim, ok := ml.m[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(ml.r, ml.b)
	ml.m[host] = lim
	return lim
}

// Allow reports whether a write from remoteAddr may proceed now.
func (ml *MutationLimiter) Allow(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil || host == "" {
		host = remoteAddr
	}
	return ml.limiterFor(host).Allow()
}

func (ml *MutationLimiter) Handler(next http.Handler) http.Handler {
	if ml == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		if !ml.Allow(r.RemoteAddr) {
			ml.metrics.RateLimited("mutation")
			w.Header().Set("Retry-After", "1")
			WriteError(w, r, http.StatusTooManyRequests, "rate_limited", "too many changes, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}
