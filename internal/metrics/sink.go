package metrics

import (
	"strconv"
	"time"
)

// Sink records engine metrics. Implementations must not block and never
// return errors to the caller.
type Sink interface {
	// Store
	JobMutation(op string)
	JobsTotal(n int)
	DragOutcome(outcome string)

	// HTTP
	RequestCompleted(method, route string, status int, d time.Duration)
	RateLimited(scope string)

	// Event hub
	SubscribersUpdate(n int)
	EventPublished(eventType string)
	EventDropped()
}

// Mutation ops for JobMutation.
const (
	OpCreate         = "create"
	OpUpdate         = "update"
	OpMove           = "move"
	OpDelete         = "delete"
	OpToggleEmployee = "toggle_employee"
)

// Drag outcomes for DragOutcome.
const (
	DragMoved     = "moved"
	DragNoop      = "noop"
	DragCancelled = "cancelled"
)

// StatusClass maps 404 to "4xx" and so on.
func StatusClass(code int) string {
	if code < 100 || code > 599 {
		return "other"
	}
	return strconv.Itoa(code/100) + "xx"
}
