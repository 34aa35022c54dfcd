package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"study-tracker/internal/model"
)

// WeeklyPlanRepository stores recurring weekly templates and derives their
// per-week completion from log_entries.
type WeeklyPlanRepository struct {
	db *gorm.DB
}

func NewWeeklyPlanRepository(db *gorm.DB) *WeeklyPlanRepository {
	return &WeeklyPlanRepository{db: db}
}

func (r *WeeklyPlanRepository) WithTx(tx *gorm.DB) *WeeklyPlanRepository {
	return &WeeklyPlanRepository{db: tx}
}

func (r *WeeklyPlanRepository) Create(ctx context.Context, item *model.WeeklyPlanItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create weekly plan item: %w", err)
	}
	return nil
}

// FindActive returns an active template owned by the user.
func (r *WeeklyPlanRepository) FindActive(ctx context.Context, userID, id uint) (*model.WeeklyPlanItem, error) {
	var item model.WeeklyPlanItem
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ? AND is_active = ?", userID, id, true).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindOwned returns a template owned by the user whether or not it is retired.
func (r *WeeklyPlanRepository) FindOwned(ctx context.Context, userID, id uint) (*model.WeeklyPlanItem, error) {
	var item model.WeeklyPlanItem
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *WeeklyPlanRepository) Update(ctx context.Context, item *model.WeeklyPlanItem, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
		return fmt.Errorf("update weekly plan item: %w", err)
	}
	return nil
}

func (r *WeeklyPlanRepository) SoftDelete(ctx context.Context, userID, id uint) error {
	if err := r.db.WithContext(ctx).Model(&model.WeeklyPlanItem{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("is_active", false).Error; err != nil {
		return fmt.Errorf("retire weekly plan item: %w", err)
	}
	return nil
}

// ListActive returns active templates ordered the way the weekly grid lays them out.
func (r *WeeklyPlanRepository) ListActive(ctx context.Context, userID uint, area *model.Area) ([]model.WeeklyPlanItemView, error) {
	q := r.viewQuery(ctx).Where("w.user_id = ? AND w.is_active = ?", userID, true)
	if area != nil {
		q = q.Where("w.area = ?", *area)
	}
	var items []model.WeeklyPlanItemView
	if err := q.Order("w.day_of_week ASC, w.created_at ASC, w.id ASC").Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("list weekly plan items: %w", err)
	}
	return items, nil
}

func (r *WeeklyPlanRepository) FindView(ctx context.Context, userID, id uint) (*model.WeeklyPlanItemView, error) {
	var items []model.WeeklyPlanItemView
	if err := r.viewQuery(ctx).Where("w.user_id = ? AND w.id = ?", userID, id).Limit(1).Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("find weekly plan item: %w", err)
	}
	if len(items) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &items[0], nil
}

func (r *WeeklyPlanRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("weekly_plan_items w").
		Select("w.*, c.name AS category_name, c.color AS category_color").
		Joins("LEFT JOIN categories c ON c.id = w.category_id")
}

// WeekStatus joins every active template against the earliest matching log
// in [from, to). Nothing about completion is stored on the template.
func (r *WeeklyPlanRepository) WeekStatus(ctx context.Context, userID uint, area *model.Area, from, to time.Time) ([]model.WeekStatus, error) {
	builder := sq.Select(
		"w.id", "w.area", "w.day_of_week", "w.category_id",
		"c.name AS category_name", "c.color AS category_color",
		"w.title", "w.notes", "w.duration_minutes", "w.intensity",
		"l.id AS completed_log_id", "l.date_time AS completed_at",
	).
		From("weekly_plan_items w").
		LeftJoin("categories c ON c.id = w.category_id").
		LeftJoin(`log_entries l ON l.id = (
			SELECT l2.id FROM log_entries l2
			WHERE l2.weekly_plan_item_id = w.id AND l2.user_id = ?
				AND l2.date_time >= ? AND l2.date_time < ?
			ORDER BY l2.date_time ASC, l2.id ASC
			LIMIT 1)`, userID, from.UTC(), to.UTC()).
		Where(sq.Eq{"w.user_id": userID, "w.is_active": true}).
		OrderBy("w.day_of_week ASC", "w.created_at ASC", "w.id ASC")
	if area != nil {
		builder = builder.Where(sq.Eq{"w.area": *area})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build week status: %w", err)
	}

	var rows []model.WeekStatus
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("week status: %w", err)
	}
	for i := range rows {
		rows[i].IsCompleted = rows[i].CompletedLogID != nil
	}
	return rows, nil
}
