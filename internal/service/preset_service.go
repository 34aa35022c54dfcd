package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"study-tracker/internal/model"
	"study-tracker/internal/repository"
)

// PresetService manages quick-pick subjects.
type PresetService struct {
	repo *repository.PresetRepository
}

func NewPresetService(repo *repository.PresetRepository) *PresetService {
	return &PresetService{repo: repo}
}

func (s *PresetService) List(ctx context.Context, userID uint, area *model.Area) ([]model.Preset, error) {
	if area != nil && !area.Valid() {
		return nil, validationf("area must be study or football")
	}
	return s.repo.List(ctx, userID, area)
}

func (s *PresetService) Create(ctx context.Context, userID uint, area model.Area, subject string) (*model.Preset, error) {
	if !area.Valid() {
		return nil, validationf("area must be study or football")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, validationf("subject is required")
	}

	preset := model.Preset{UserID: userID, Area: area, Subject: subject}
	if err := s.repo.Create(ctx, &preset); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictf("preset %q already exists", subject)
		}
		return nil, err
	}
	return &preset, nil
}

func (s *PresetService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.repo.FindByID(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("preset")
		}
		return err
	}
	return s.repo.Delete(ctx, userID, id)
}

func (s *PresetService) DeleteBySubject(ctx context.Context, userID uint, area model.Area, subject string) error {
	preset, err := s.repo.FindBySubject(ctx, userID, area, strings.TrimSpace(subject))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("preset")
		}
		return err
	}
	return s.repo.Delete(ctx, userID, preset.ID)
}
