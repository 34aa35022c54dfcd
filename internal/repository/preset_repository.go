package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"study-tracker/internal/model"
)

// PresetRepository stores quick-pick subjects.
type PresetRepository struct {
	db *gorm.DB
}

func NewPresetRepository(db *gorm.DB) *PresetRepository {
	return &PresetRepository{db: db}
}

func (r *PresetRepository) Create(ctx context.Context, preset *model.Preset) error {
	if err := r.db.WithContext(ctx).Create(preset).Error; err != nil {
		return fmt.Errorf("create preset: %w", err)
	}
	return nil
}

func (r *PresetRepository) List(ctx context.Context, userID uint, area *model.Area) ([]model.Preset, error) {
	var presets []model.Preset
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if area != nil {
		q = q.Where("area = ?", *area)
	}
	if err := q.Order("subject ASC").Find(&presets).Error; err != nil {
		return nil, err
	}
	return presets, nil
}

func (r *PresetRepository) FindByID(ctx context.Context, userID, id uint) (*model.Preset, error) {
	var preset model.Preset
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&preset).Error; err != nil {
		return nil, err
	}
	return &preset, nil
}

func (r *PresetRepository) FindBySubject(ctx context.Context, userID uint, area model.Area, subject string) (*model.Preset, error) {
	var preset model.Preset
	if err := r.db.WithContext(ctx).Where("user_id = ? AND area = ? AND subject = ?", userID, area, subject).
		First(&preset).Error; err != nil {
		return nil, err
	}
	return &preset, nil
}

func (r *PresetRepository) Delete(ctx context.Context, userID, id uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).
		Delete(&model.Preset{}).Error; err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	return nil
}
