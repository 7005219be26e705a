package database

import (
	"time"
)

// Posting is a notified posting stored in the database. Once written it is
// an immutable historical record, read back only for deduplication and the
// status API.
type Posting struct {
	ID          string
	Title       string
	Summary     string
	Categories  string // Comma-joined category names, empty when none
	Link        string
	PublishDate time.Time
	CreatedDate time.Time // Set once, at insert time
}
