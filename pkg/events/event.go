package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "REPORT_SUBMITTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TypeReportSubmitted = "REPORT_SUBMITTED"
	TypeReportUndone    = "REPORT_UNDONE"
)

// NewReportSubmitted builds the event emitted after a successful quantity
// write (both delta and absolute-overwrite commits).
func NewReportSubmitted(userID, client, project, item, process string, delta float64, absolute bool) Event {
	return BaseEvent{
		Type: TypeReportSubmitted,
		Data: map[string]interface{}{
			"user_id":  userID,
			"client":   client,
			"project":  project,
			"item":     item,
			"process":  process,
			"delta":    delta,
			"absolute": absolute,
		},
		OccurredAt: time.Now(),
	}
}

// NewReportUndone builds the event emitted after a process column reset.
func NewReportUndone(userID, client, project, item, process string) Event {
	return BaseEvent{
		Type: TypeReportUndone,
		Data: map[string]interface{}{
			"user_id": userID,
			"client":  client,
			"project": project,
			"item":    item,
			"process": process,
		},
		OccurredAt: time.Now(),
	}
}
