package dto

import "time"

// Change event types emitted by the change feed.
const (
	ChangeEventInsert = "insert"
	ChangeEventUpdate = "update"
)

// ChangeEvent notifies subscribers that a row in a collection changed.
// Consumers re-fetch the affected list rather than merging incrementally.
type ChangeEvent struct {
	Collection string    `json:"collection"`
	Event      string    `json:"event"`
	RowID      string    `json:"row_id"`
	At         time.Time `json:"at"`
}
