package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobcal-engine/internal/metrics"
)

// NewRouter returns the chi mux itself so main() can still attach /shutdown (needs srv+token).
func NewRouter(d Deps) *chi.Mux {
	if d.Metrics == nil {
		d.Metrics = metrics.NewNoopSink()
	}
	cfg := d.config()

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(d.Log, d.Metrics))
	r.Use(Recover(d.Log))
	r.Use(cors.Handler(cors.Options{
		// Tauri fetch requests come from "tauri://localhost" origin.
		AllowedOrigins: cfg.HTTP.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID", "X-Shutdown-Token"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	if n := cfg.HTTP.RequestsPerMinute; n > 0 {
		r.Use(httprate.Limit(n, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				d.Metrics.RateLimited("ip")
				WriteError(w, r, http.StatusTooManyRequests, "rate_limited", "too many requests")
			}),
		))
	}

	hh := HealthHandler{Store: d.Store, Hub: d.Hub, Now: d.now}
	r.Get("/health", hh.Health)

	eh := EventsHandler{Hub: d.Hub}
	r.Get("/events", eh.ServeSSE)

	if cfg.Metrics.Enabled && d.Gatherer != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	ml := NewMutationLimiter(cfg.HTTP.MutationsPerSecond, cfg.HTTP.MutationBurst, d.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Use(ml.Handler)

		// Config
		ch := ConfigHandler{
			CfgVal:      d.CfgVal,
			UserCfgPath: d.UserCfgPath,
			LoadCfg:     d.LoadCfg,
			Hub:         d.Hub,
			Log:         d.Log,
			OnChange:    d.OnConfigChange,
		}
		r.Get("/config", ch.Get)
		r.Put("/config", ch.Put)
		r.Get("/config/path", ch.Path)
		r.Get("/config/validate", ch.Validate)

		// Reference data
		rh := ReferenceHandler{Store: d.Store}
		r.Get("/team-leaders", rh.TeamLeaders)
		r.Get("/employees", rh.Employees)
		r.Get("/options", rh.Options)

		// Jobs
		jh := JobsHandler{Store: d.Store, Hub: d.Hub, Log: d.Log}
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", jh.List)
			r.Post("/", jh.Create)
			r.Get("/new", jh.NewDefaults)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", jh.Get)
				r.Put("/", jh.Update)
				r.Delete("/", jh.Delete)
				r.Post("/move", jh.Move)
				r.Post("/employees/{employeeID}/toggle", jh.ToggleEmployee)
			})
		})

		// Calendar
		cal := CalendarHandler{Store: d.Store}
		r.Get("/calendar", cal.Grid)
		r.Get("/calendar/navigate", cal.Navigate)
		r.Get("/calendar/day", cal.Day)

		// Selection + drag
		sh := StateHandler{Store: d.Store, Hub: d.Hub, Log: d.Log}
		r.Get("/selection", sh.Selection)
		r.Put("/selection", sh.Select)
		r.Delete("/selection", sh.ClearSelection)
		r.Get("/drag", sh.Drag)
		r.Post("/drag", sh.StartDrag)
		r.Post("/drag/drop", sh.Drop)
		r.Delete("/drag", sh.CancelDrag)

		// Export
		xh := ExportHandler{Deps: d, Log: d.Log}
		r.Get("/export/jobs.ics", xh.ICS)
		r.Get("/export/jobs.xlsx", xh.XLSX)
	})

	return r
}
