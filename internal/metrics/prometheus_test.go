package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func newTestSink(t *testing.T) (*PrometheusSink, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewPrometheusSink(reg), reg
}

func find(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchLabels(m.GetLabel(), labels) {
				return m
			}
		}
	}
	return nil
}

func matchLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	if len(pairs) != len(want) {
		return false
	}
	for _, p := range pairs {
		if v, ok := want[p.GetName()]; !ok || v != p.GetValue() {
			return false
		}
	}
	return true
}

func TestPrometheusSink_StoreMetrics(t *testing.T) {
	sink, reg := newTestSink(t)

	sink.JobMutation(OpCreate)
	sink.JobMutation(OpCreate)
	sink.JobMutation(OpMove)
	sink.JobsTotal(12)
	sink.DragOutcome(DragNoop)

	if m := find(t, reg, "jobcal_store_mutations_total", map[string]string{"op": OpCreate}); m.GetCounter().GetValue() != 2 {
		t.Errorf("create mutations = %v, want 2", m.GetCounter().GetValue())
	}
	if m := find(t, reg, "jobcal_store_mutations_total", map[string]string{"op": OpMove}); m.GetCounter().GetValue() != 1 {
		t.Errorf("move mutations = %v, want 1", m.GetCounter().GetValue())
	}
	if m := find(t, reg, "jobcal_store_jobs", nil); m.GetGauge().GetValue() != 12 {
		t.Errorf("jobs gauge = %v, want 12", m.GetGauge().GetValue())
	}
	if m := find(t, reg, "jobcal_store_drag_sessions_total", map[string]string{"outcome": DragNoop}); m.GetCounter().GetValue() != 1 {
		t.Errorf("drag noop = %v, want 1", m.GetCounter().GetValue())
	}
}

func TestPrometheusSink_HTTPMetrics(t *testing.T) {
	sink, reg := newTestSink(t)

	sink.RequestCompleted("GET", "/api/jobs", 200, 3*time.Millisecond)
	sink.RequestCompleted("GET", "/api/jobs", 404, time.Millisecond)
	sink.RateLimited("mutations")

	m := find(t, reg, "jobcal_http_requests_total", map[string]string{"method": "GET", "route": "/api/jobs", "status_class": "4xx"})
	if m.GetCounter().GetValue() != 1 {
		t.Errorf("4xx count = %v, want 1", m.GetCounter().GetValue())
	}
	h := find(t, reg, "jobcal_http_request_duration_seconds", map[string]string{"route": "/api/jobs"})
	if h.GetHistogram().GetSampleCount() != 2 {
		t.Errorf("histogram samples = %d, want 2", h.GetHistogram().GetSampleCount())
	}
	if m := find(t, reg, "jobcal_http_rate_limited_total", map[string]string{"scope": "mutations"}); m.GetCounter().GetValue() != 1 {
		t.Errorf("rate limited = %v", m.GetCounter().GetValue())
	}
}

func TestPrometheusSink_HubMetrics(t *testing.T) {
	sink, reg := newTestSink(t)

	sink.SubscribersUpdate(3)
	sink.EventPublished("job_moved")
	sink.EventDropped()
	sink.EventDropped()

	if m := find(t, reg, "jobcal_events_subscribers", nil); m.GetGauge().GetValue() != 3 {
		t.Errorf("subscribers = %v", m.GetGauge().GetValue())
	}
	if m := find(t, reg, "jobcal_events_published_total", map[string]string{"type": "job_moved"}); m.GetCounter().GetValue() != 1 {
		t.Errorf("published = %v", m.GetCounter().GetValue())
	}
	if m := find(t, reg, "jobcal_events_dropped_total", nil); m.GetCounter().GetValue() != 2 {
		t.Errorf("dropped = %v", m.GetCounter().GetValue())
	}
}

func TestPrometheusSink_DoubleRegistrationDoesNotPanic(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = NewPrometheusSink(reg)
	s := NewPrometheusSink(reg)
	s.JobMutation(OpDelete)
}

func TestStatusClass(t *testing.T) {
	cases := map[int]string{200: "2xx", 201: "2xx", 404: "4xx", 429: "4xx", 500: "5xx", 0: "other"}
	for code, want := range cases {
		if got := StatusClass(code); got != want {
			t.Errorf("StatusClass(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestNoopSink_ImplementsSink(t *testing.T) {
	var s Sink = NewNoopSink()
	s.JobMutation(OpUpdate)
	s.RequestCompleted("GET", "/", 200, time.Millisecond)
	s.EventDropped()
}
