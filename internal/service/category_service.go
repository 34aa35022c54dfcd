package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"study-tracker/internal/model"
	"study-tracker/internal/repository"
	"study-tracker/internal/scoring"
)

// FootballTypes are the accepted football category sub-types.
var FootballTypes = []string{"team", "strength", "endurance", "ball", "recovery"}

var defaultStudyCategories = []string{"Mathematics", "Physics", "Chemistry", "Biology", "English", "Computer Science"}

var defaultFootballTypes = map[string]string{
	"Technique":     "ball",
	"Endurance":     "endurance",
	"Strength":      "strength",
	"Tactic":        "team",
	"Recovery":      "recovery",
	"Team Training": "team",
	"Match":         "team",
	"Physio":        "recovery",
}

// CategoryInput carries the fields of a new category.
type CategoryInput struct {
	Name  string
	Color string
	Type  *string
}

// CategoryUpdate carries a partial category change.
type CategoryUpdate struct {
	Name     *string
	Color    *string
	Type     model.Nullable[string]
	IsActive *bool
}

// CategoryService provides helpers around categories.
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context, userID uint, area model.Area, activeOnly bool) ([]model.Category, error) {
	if !area.Valid() {
		return nil, validationf("area must be study or football")
	}
	return s.repo.ListByUser(ctx, userID, area, activeOnly)
}

func (s *CategoryService) Create(ctx context.Context, userID uint, area model.Area, input CategoryInput) (*model.Category, error) {
	if !area.Valid() {
		return nil, validationf("area must be study or football")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationf("name is required")
	}
	if err := validateCategoryType(area, input.Type); err != nil {
		return nil, err
	}
	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = model.DefaultColor(area)
	}

	category := model.Category{
		UserID:   userID,
		Area:     area,
		Name:     name,
		Color:    color,
		Type:     input.Type,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, &category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictf("category %q already exists", name)
		}
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, userID uint, area model.Area, id uint, input CategoryUpdate) (*model.Category, error) {
	category, err := s.find(ctx, userID, area, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validationf("name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Color != nil {
		updates["color"] = *input.Color
	}
	if input.Type.Set {
		if err := validateCategoryType(area, input.Type.Value); err != nil {
			return nil, err
		}
		updates["type"] = input.Type.Value
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if err := s.repo.Update(ctx, category, updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictf("category already exists")
		}
		return nil, err
	}
	return s.repo.FindByID(ctx, userID, id)
}

// Delete removes an unreferenced category. A category still referenced by
// history is retired instead and deactivated is reported true.
func (s *CategoryService) Delete(ctx context.Context, userID uint, area model.Area, id uint) (deactivated bool, err error) {
	if _, err := s.find(ctx, userID, area, id); err != nil {
		return false, err
	}
	referenced, err := s.repo.IsReferenced(ctx, id)
	if err != nil {
		return false, err
	}
	if referenced {
		return true, s.repo.Deactivate(ctx, userID, id)
	}
	return false, s.repo.Delete(ctx, userID, id)
}

// SeedDefaults gives a new user a starter set of categories. Football
// defaults match the scoring session types.
func (s *CategoryService) SeedDefaults(ctx context.Context, userID uint) error {
	for _, name := range defaultStudyCategories {
		if _, err := s.repo.GetOrCreate(ctx, userID, model.AreaStudy, name, model.DefaultStudyColor, nil); err != nil {
			return err
		}
	}
	for _, name := range scoring.SessionTypes() {
		kind := defaultFootballTypes[name]
		if _, err := s.repo.GetOrCreate(ctx, userID, model.AreaFootball, name, model.DefaultFootballColor, &kind); err != nil {
			return err
		}
	}
	return nil
}

func (s *CategoryService) find(ctx context.Context, userID uint, area model.Area, id uint) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("category")
		}
		return nil, err
	}
	if category.Area != area {
		return nil, notFound("category")
	}
	return category, nil
}

func validateCategoryType(area model.Area, kind *string) error {
	if kind == nil || *kind == "" {
		return nil
	}
	if area != model.AreaFootball {
		return validationf("only football categories have a type")
	}
	for _, t := range FootballTypes {
		if *kind == t {
			return nil
		}
	}
	return validationf("type must be one of %s", strings.Join(FootballTypes, ", "))
}

// activeCategory resolves a category the caller may attach new plans to.
func activeCategory(ctx context.Context, repo *repository.CategoryRepository, userID uint, area model.Area, id uint) (*model.Category, error) {
	if id == 0 {
		return nil, validationf("categoryId is required")
	}
	category, err := repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("category %d does not exist", id)
		}
		return nil, err
	}
	if category.Area != area {
		return nil, validationf("category %d belongs to %s, not %s", id, category.Area, area)
	}
	if !category.IsActive {
		return nil, validationf("category %d is inactive", id)
	}
	return category, nil
}
