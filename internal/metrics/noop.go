package metrics

import "time"

// NoopSink is used when metrics are disabled so callers skip nil checks.
type NoopSink struct{}

func NewNoopSink() *NoopSink { return &NoopSink{} }

func (n *NoopSink) JobMutation(op string)                                              {}
func (n *NoopSink) JobsTotal(count int)                                                {}
func (n *NoopSink) DragOutcome(outcome string)                                         {}
func (n *NoopSink) RequestCompleted(method, route string, status int, d time.Duration) {}
func (n *NoopSink) RateLimited(scope string)                                           {}
func (n *NoopSink) SubscribersUpdate(count int)                                        {}
func (n *NoopSink) EventPublished(eventType string)                                    {}
func (n *NoopSink) EventDropped()                                                      {}
