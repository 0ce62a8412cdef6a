package history

import (
	"context"
	"time"

	"github.com/loykin/stationreg/internal/rundata"
)

// EventType defines the kind of registry event.
type EventType string

const (
	// EventRegister is emitted when a station writes its run record.
	EventRegister EventType = "register"
	// EventObserved is emitted when a scan sees a station's record.
	EventObserved EventType = "observed"
)

// Event represents a registry event to be exported to external systems
// (analytics/statistics). Alive is meaningful for EventObserved only.
type Event struct {
	Type       EventType       `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Record     rundata.RunData `json:"record"`
	Alive      bool            `json:"alive"`
}

// Sink is a destination for registry events.
// Implementations must be safe for concurrent use.
type Sink interface {
	Send(ctx context.Context, e Event) error
}
