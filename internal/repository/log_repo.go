package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/jsu-events/drinktally-api/internal/models"
)

// LogFilter narrows audit log queries.
type LogFilter struct {
	Page      int
	PageSize  int
	Ascending bool
	Action    string
	Search    string
}

// LogRepository persists audit trail entries. Append and read only; no
// update or delete methods exist.
type LogRepository interface {
	Create(ctx context.Context, entry *models.LogEntry) error
	List(ctx context.Context, filter LogFilter) ([]models.LogEntry, int64, error)
}

type logRepository struct {
	db *gorm.DB
}

// NewLogRepository constructs the audit log repository.
func NewLogRepository(db *gorm.DB) LogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) Create(ctx context.Context, entry *models.LogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *logRepository) List(ctx context.Context, filter LogFilter) ([]models.LogEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LogEntry{})

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(target) LIKE ?", pattern, pattern)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	order := "timestamp DESC"
	if filter.Ascending {
		order = "timestamp ASC"
	}

	var entries []models.LogEntry
	if err := query.Order(order).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
