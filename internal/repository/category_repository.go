package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"study-tracker/internal/model"
)

// CategoryRepository manages plan and log categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: tx}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// GetOrCreate returns the user's category with this name, creating it when missing.
func (r *CategoryRepository) GetOrCreate(ctx context.Context, userID uint, area model.Area, name, color string, kind *string) (*model.Category, error) {
	var category model.Category
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ? AND area = ? AND name = ?", userID, area, name).First(&category).Error
	switch {
	case err == nil:
		return &category, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		category = model.Category{UserID: userID, Area: area, Name: name, Color: color, Type: kind, IsActive: true}
		if err := db.Create(&category).Error; err != nil {
			return nil, fmt.Errorf("create category: %w", err)
		}
		return &category, nil
	default:
		return nil, fmt.Errorf("find category: %w", err)
	}
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID uint, area model.Area, activeOnly bool) ([]model.Category, error) {
	var categories []model.Category
	q := r.db.WithContext(ctx).Where("user_id = ? AND area = ?", userID, area)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, userID, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *model.Category, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Deactivate(ctx context.Context, userID, id uint) error {
	if err := r.db.WithContext(ctx).Model(&model.Category{}).Where("user_id = ? AND id = ?", userID, id).
		Update("is_active", false).Error; err != nil {
		return fmt.Errorf("deactivate category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, userID, id uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).
		Delete(&model.Category{}).Error; err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// IsReferenced reports whether any log, weekly template or plan item points at the category.
func (r *CategoryRepository) IsReferenced(ctx context.Context, id uint) (bool, error) {
	db := r.db.WithContext(ctx)
	for _, m := range []interface{}{&model.LogEntry{}, &model.WeeklyPlanItem{}, &model.PlanItem{}} {
		var count int64
		if err := db.Model(m).Where("category_id = ?", id).Count(&count).Error; err != nil {
			return false, fmt.Errorf("count category references: %w", err)
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
