package domain

import "time"

// EventType names a domain event. Values double as message routing keys.
type EventType string

const (
	EventSessionStarted EventType = "session.started"
	EventSessionStopped EventType = "session.stopped"
	EventSessionResumed EventType = "session.resumed"
	EventExtraAdded     EventType = "session.extra_added"
	EventExtraRemoved   EventType = "session.extra_removed"
	EventOrderCreated   EventType = "order.created"
	EventSettingsUpdate EventType = "settings.updated"
)

// Event is published after a state change has been persisted.
type Event struct {
	Type       EventType      `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Revision   int64          `json:"revision"`
	TableNo    int            `json:"table_no,omitempty"`
	SessionID  string         `json:"session_id,omitempty"`
	OrderID    string         `json:"order_id,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}
