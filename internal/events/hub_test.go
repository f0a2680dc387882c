package events

import (
	"encoding/json"
	"testing"
)

func TestHub_PublishReachesSubscribers(t *testing.T) {
	h := NewHub(nil)
	a := h.Subscribe()
	b := h.Subscribe()
	defer h.Unsubscribe(a)
	defer h.Unsubscribe(b)

	h.Publish("hello")

	for _, ch := range []chan string{a, b} {
		select {
		case got := <-ch:
			if got != "hello" {
				t.Errorf("got %q", got)
			}
		default:
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestHub_DropsWhenSlow(t *testing.T) {
	h := NewHub(nil)
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	for i := 0; i < subscriberBuffer+5; i++ {
		h.Publish("x")
	}
	if len(ch) != subscriberBuffer {
		t.Errorf("buffered %d, want %d", len(ch), subscriberBuffer)
	}
}

func TestHub_UnsubscribeClosesOnce(t *testing.T) {
	h := NewHub(nil)
	ch := h.Subscribe()
	if h.Count() != 1 {
		t.Fatalf("count = %d", h.Count())
	}
	h.Unsubscribe(ch)
	h.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Error("channel should be closed")
	}
	if h.Count() != 0 {
		t.Errorf("count = %d", h.Count())
	}
	h.Publish("after")
}

func TestHub_EmitEnvelope(t *testing.T) {
	h := NewHub(nil)
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	h.Emit("req-1", TypeJobMoved, map[string]any{"id": 3, "date": "2026-10-23"})

	var e Event
	if err := json.Unmarshal([]byte(<-ch), &e); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	if e.Type != TypeJobMoved || e.Version != Version || e.RequestID != "req-1" {
		t.Errorf("envelope = %+v", e)
	}
	if e.ID == "" || e.At.IsZero() {
		t.Errorf("missing id or timestamp: %+v", e)
	}
	var data struct {
		ID   int    `json:"id"`
		Date string `json:"date"`
	}
	if err := json.Unmarshal(e.Data, &data); err != nil || data.ID != 3 || data.Date != "2026-10-23" {
		t.Errorf("data = %s (%v)", e.Data, err)
	}
}

func TestMakeEvent_NilData(t *testing.T) {
	var e Event
	if err := json.Unmarshal([]byte(MakeEvent("", TypePing, 1, nil)), &e); err != nil {
		t.Fatal(err)
	}
	if e.Type != TypePing || len(e.Data) != 0 {
		t.Errorf("ping = %+v", e)
	}
}
