package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"study-tracker/internal/model"
)

// LogFilter narrows ListFiltered. Zero values mean "no filter".
type LogFilter struct {
	UserID     uint
	From       *time.Time
	To         *time.Time
	Area       *model.Area
	CategoryID *uint
	Limit      int
	Offset     int
}

// LogRepository handles CRUD for log entries.
type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

func (r *LogRepository) WithTx(tx *gorm.DB) *LogRepository {
	return &LogRepository{db: tx}
}

func (r *LogRepository) Create(ctx context.Context, entry *model.LogEntry) error {
	entry.DateTime = entry.DateTime.UTC()
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create log entry: %w", err)
	}
	return nil
}

func (r *LogRepository) FindByID(ctx context.Context, userID, id uint) (*model.LogEntry, error) {
	var entry model.LogEntry
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *LogRepository) FindView(ctx context.Context, userID, id uint) (*model.LogEntryView, error) {
	var entries []model.LogEntryView
	if err := r.viewQuery(ctx).Where("l.user_id = ? AND l.id = ?", userID, id).Limit(1).Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("find log entry: %w", err)
	}
	if len(entries) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &entries[0], nil
}

// FindForWeeklyPlan returns the earliest log of a template dated in [from, to).
func (r *LogRepository) FindForWeeklyPlan(ctx context.Context, userID, weeklyPlanItemID uint, from, to time.Time) (*model.LogEntry, error) {
	var entry model.LogEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND weekly_plan_item_id = ? AND date_time >= ? AND date_time < ?",
			userID, weeklyPlanItemID, from.UTC(), to.UTC()).
		Order("date_time ASC, id ASC").
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *LogRepository) Update(ctx context.Context, entry *model.LogEntry, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(entry).Updates(updates).Error; err != nil {
		return fmt.Errorf("update log entry: %w", err)
	}
	return nil
}

func (r *LogRepository) Delete(ctx context.Context, userID, id uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).
		Delete(&model.LogEntry{}).Error; err != nil {
		return fmt.Errorf("delete log entry: %w", err)
	}
	return nil
}

// List returns one page of matching entries, newest first, and the total match count.
func (r *LogRepository) List(ctx context.Context, f LogFilter) ([]model.LogEntryView, int64, error) {
	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Table("log_entries l"), f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count log entries: %w", err)
	}

	q := r.applyFilter(r.viewQuery(ctx), f).Order("l.date_time DESC, l.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
		if f.Offset > 0 {
			q = q.Offset(f.Offset)
		}
	}
	var entries []model.LogEntryView
	if err := q.Scan(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("list log entries: %w", err)
	}
	return entries, total, nil
}

func (r *LogRepository) applyFilter(q *gorm.DB, f LogFilter) *gorm.DB {
	q = q.Where("l.user_id = ?", f.UserID)
	if f.From != nil {
		q = q.Where("l.date_time >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("l.date_time < ?", f.To.UTC())
	}
	if f.Area != nil {
		q = q.Where("l.area = ?", *f.Area)
	}
	if f.CategoryID != nil {
		q = q.Where("l.category_id = ?", *f.CategoryID)
	}
	return q
}

func (r *LogRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("log_entries l").
		Select("l.*, c.name AS category_name, c.color AS category_color").
		Joins("LEFT JOIN categories c ON c.id = l.category_id")
}
