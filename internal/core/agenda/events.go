package agenda

import "time"

// EventType defines the type of Aggregator event.
type EventType string

const (
	EventRefreshed        EventType = "refreshed"
	EventRefreshDiscarded EventType = "refresh_discarded"
	EventRefreshFailed    EventType = "refresh_failed"
	EventAccessDenied     EventType = "access_denied"
)

// Event represents an Aggregator update for observers.
type Event struct {
	Type       EventType
	Generation uint64
	Events     int
	Holidays   int
	Message    string
	At         time.Time
}
