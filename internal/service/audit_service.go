package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/jsu-events/drinktally-api/internal/dto"
	"github.com/jsu-events/drinktally-api/internal/models"
	"github.com/jsu-events/drinktally-api/internal/repository"
)

// AuditEntry captures the details of one mutating action.
type AuditEntry struct {
	UserID   string
	Username string
	Action   string
	Target   string
	Message  string
	Metadata map[string]interface{}
}

// AuditRecorder appends audit entries. Recording is fire-and-forget: the
// triggering action has already committed, so failures are written to the
// operator log and swallowed.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// AuditService appends and reads the audit trail.
type AuditService interface {
	AuditRecorder
	List(ctx context.Context, req dto.LogListRequest) (dto.LogListResponse, error)
}

type auditService struct {
	repo      repository.LogRepository
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewAuditService constructs the audit log service.
func NewAuditService(repo repository.LogRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:      repo,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) {
	action := strings.ToLower(strings.TrimSpace(entry.Action))
	if action == "" {
		s.logger.Error().Str("target", entry.Target).Msg("audit entry dropped: action missing")
		return
	}

	model := models.LogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		UserID:    entry.UserID,
		Username:  entry.Username,
		Action:    action,
		Target:    strings.TrimSpace(entry.Target),
		Message:   strings.TrimSpace(s.sanitizer.Sanitize(entry.Message)),
		Metadata:  datatypes.JSONMap(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).
			Str("action", action).
			Str("target", model.Target).
			Msg("failed to persist audit entry")
	}
}

func (s *auditService) List(ctx context.Context, req dto.LogListRequest) (dto.LogListResponse, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	filter := repository.LogFilter{
		Page:      page,
		PageSize:  pageSize,
		Ascending: strings.EqualFold(req.Sort, "asc"),
		Action:    strings.TrimSpace(req.Action),
		Search:    strings.TrimSpace(req.Search),
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.LogListResponse{}, err
	}

	responses := make([]dto.LogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewLogEntryResponse(entry))
	}

	pagination := dto.PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}

	return dto.LogListResponse{Items: responses, Pagination: pagination}, nil
}
