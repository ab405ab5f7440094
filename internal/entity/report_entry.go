package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReportEntry is one append-only log record. Entries are write-once: undo
// reverts the aggregate cell but never removes the log row.
type ReportEntry struct {
	Id         uuid.UUID
	OccurredAt time.Time
	UserID     string
	Client     string
	Project    string
	Item       string
	Process    string
	Delta      float64
	Kind       string // add | set | undo
	RawText    string
}
