package dto

import (
	"time"

	"github.com/jsu-events/drinktally-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// LogListRequest defines filters for the audit log viewer.
type LogListRequest struct {
	Page     int
	PageSize int
	Sort     string // "asc" or "desc", defaults to desc
	Action   string
	Search   string // matches username or target
}

// LogEntryResponse serializes an audit record.
type LogEntryResponse struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	UserID    string                 `json:"user_id"`
	Username  string                 `json:"username"`
	Action    string                 `json:"action"`
	Target    string                 `json:"target"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// LogListResponse wraps a paginated audit log response.
type LogListResponse struct {
	Items      []LogEntryResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewLogEntryResponse converts a log entry model into a DTO.
func NewLogEntryResponse(entry models.LogEntry) LogEntryResponse {
	var metadata map[string]interface{}
	if len(entry.Metadata) > 0 {
		metadata = map[string]interface{}(entry.Metadata)
	}

	return LogEntryResponse{
		ID:        entry.ID,
		Timestamp: entry.Timestamp,
		UserID:    entry.UserID,
		Username:  entry.Username,
		Action:    entry.Action,
		Target:    entry.Target,
		Message:   entry.Message,
		Metadata:  metadata,
	}
}
