package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// PrometheusSink implements Sink with client_golang collectors. A collector
// that fails to register is logged and keeps working unexported.
type PrometheusSink struct {
	mutationsTotal *prometheus.CounterVec
	jobsTotal      prometheus.Gauge
	dragTotal      *prometheus.CounterVec

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     *prometheus.CounterVec

	subscribers     prometheus.Gauge
	eventsPublished *prometheus.CounterVec
	eventsDropped   prometheus.Counter
}

func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{}
	s.initStoreMetrics(reg)
	s.initHTTPMetrics(reg)
	s.initHubMetrics(reg)
	return s
}

func (s *PrometheusSink) initStoreMetrics(reg prometheus.Registerer) {
	s.mutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobcal_store_mutations_total",
		Help: "Job mutations applied, by operation.",
	}, []string{"op"})
	s.jobsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jobcal_store_jobs",
		Help: "Jobs currently held in the store.",
	})
	s.dragTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobcal_store_drag_sessions_total",
		Help: "Finished drag sessions, by outcome.",
	}, []string{"outcome"})

	s.register(reg, s.mutationsTotal, "jobcal_store_mutations_total")
	s.register(reg, s.jobsTotal, "jobcal_store_jobs")
	s.register(reg, s.dragTotal, "jobcal_store_drag_sessions_total")
}

func (s *PrometheusSink) initHTTPMetrics(reg prometheus.Registerer) {
	s.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobcal_http_requests_total",
		Help: "HTTP requests served, by method, route and status class.",
	}, []string{"method", "route", "status_class"})
	s.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jobcal_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"route"})
	s.rateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobcal_http_rate_limited_total",
		Help: "Requests rejected by a rate limiter, by scope.",
	}, []string{"scope"})

	s.register(reg, s.requestsTotal, "jobcal_http_requests_total")
	s.register(reg, s.requestDuration, "jobcal_http_request_duration_seconds")
	s.register(reg, s.rateLimited, "jobcal_http_rate_limited_total")
}

func (s *PrometheusSink) initHubMetrics(reg prometheus.Registerer) {
	s.subscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jobcal_events_subscribers",
		Help: "Connected SSE subscribers.",
	})
	s.eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobcal_events_published_total",
		Help: "Events published to the hub, by type.",
	}, []string{"type"})
	s.eventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jobcal_events_dropped_total",
		Help: "Events dropped because a subscriber buffer was full.",
	})

	s.register(reg, s.subscribers, "jobcal_events_subscribers")
	s.register(reg, s.eventsPublished, "jobcal_events_published_total")
	s.register(reg, s.eventsDropped, "jobcal_events_dropped_total")
}

func (s *PrometheusSink) register(reg prometheus.Registerer, c prometheus.Collector, name string) {
	if err := reg.Register(c); err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("metrics: register failed")
	}
}

func (s *PrometheusSink) JobMutation(op string) {
	s.mutationsTotal.WithLabelValues(op).Inc()
}

func (s *PrometheusSink) JobsTotal(n int) {
	s.jobsTotal.Set(float64(n))
}

func (s *PrometheusSink) DragOutcome(outcome string) {
	s.dragTotal.WithLabelValues(outcome).Inc()
}

func (s *PrometheusSink) RequestCompleted(method, route string, status int, d time.Duration) {
	s.requestsTotal.WithLabelValues(method, route, StatusClass(status)).Inc()
	s.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (s *PrometheusSink) RateLimited(scope string) {
	s.rateLimited.WithLabelValues(scope).Inc()
}

func (s *PrometheusSink) SubscribersUpdate(n int) {
	s.subscribers.Set(float64(n))
}

func (s *PrometheusSink) EventPublished(eventType string) {
	s.eventsPublished.WithLabelValues(eventType).Inc()
}

func (s *PrometheusSink) EventDropped() {
	s.eventsDropped.Inc()
}
