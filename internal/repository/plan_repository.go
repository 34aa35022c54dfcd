package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"study-tracker/internal/model"
)

// PlanFilter narrows List. Dates are inclusive YYYY-MM-DD strings.
type PlanFilter struct {
	UserID    uint
	StartDate string
	EndDate   string
	Area      *model.Area
}

// PlanRepository handles CRUD for one-off plan items.
type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) WithTx(tx *gorm.DB) *PlanRepository {
	return &PlanRepository{db: tx}
}

func (r *PlanRepository) Create(ctx context.Context, item *model.PlanItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create plan item: %w", err)
	}
	return nil
}

func (r *PlanRepository) FindByID(ctx context.Context, userID, id uint) (*model.PlanItem, error) {
	var item model.PlanItem
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PlanRepository) FindView(ctx context.Context, userID, id uint) (*model.PlanItemView, error) {
	var items []model.PlanItemView
	if err := r.viewQuery(ctx).Where("p.user_id = ? AND p.id = ?", userID, id).Limit(1).Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("find plan item: %w", err)
	}
	if len(items) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &items[0], nil
}

func (r *PlanRepository) List(ctx context.Context, f PlanFilter) ([]model.PlanItemView, error) {
	q := r.viewQuery(ctx).Where("p.user_id = ?", f.UserID)
	if f.StartDate != "" {
		q = q.Where("p.date >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		q = q.Where("p.date <= ?", f.EndDate)
	}
	if f.Area != nil {
		q = q.Where("p.area = ?", *f.Area)
	}
	var items []model.PlanItemView
	if err := q.Order("p.date ASC, p.created_at ASC, p.id ASC").Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("list plan items: %w", err)
	}
	return items, nil
}

func (r *PlanRepository) Update(ctx context.Context, item *model.PlanItem, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
		return fmt.Errorf("update plan item: %w", err)
	}
	return nil
}

func (r *PlanRepository) SetStatus(ctx context.Context, userID, id uint, status model.PlanStatus) error {
	if err := r.db.WithContext(ctx).Model(&model.PlanItem{}).Where("user_id = ? AND id = ?", userID, id).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("set plan status: %w", err)
	}
	return nil
}

func (r *PlanRepository) Delete(ctx context.Context, userID, id uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).
		Delete(&model.PlanItem{}).Error; err != nil {
		return fmt.Errorf("delete plan item: %w", err)
	}
	return nil
}

// CountPlannedOn counts plan items still in the planned state on a date.
func (r *PlanRepository) CountPlannedOn(ctx context.Context, userID uint, date string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.PlanItem{}).
		Where("user_id = ? AND date = ? AND status = ?", userID, date, model.PlanStatusPlanned).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count planned items: %w", err)
	}
	return count, nil
}

func (r *PlanRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("plan_items p").
		Select("p.*, c.name AS category_name, c.color AS category_color").
		Joins("LEFT JOIN categories c ON c.id = p.category_id")
}
