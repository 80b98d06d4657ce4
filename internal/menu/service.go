package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Tejayenduri9/biryani-boys-backend/pkg/db/models"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/enums"
	pkgerrors "github.com/Tejayenduri9/biryani-boys-backend/pkg/errors"
	"gorm.io/gorm"
)

// MealBox is the single meal shape served to the menu browser and the
// review dashboard: catalog fields plus live review aggregates.
type MealBox struct {
	Meal          models.Meal `json:"meal"`
	ReviewCount   int         `json:"review_count"`
	AverageRating string      `json:"average_rating"`
}

// Service exposes read operations over the meal catalog.
type Service interface {
	ListMeals(ctx context.Context) ([]MealBox, error)
	ListMealsByCategory(ctx context.Context, category string) ([]MealBox, error)
	GetMeal(ctx context.Context, title string) (*MealBox, error)
}

type service struct {
	repo  MealRepository
	stats ReviewStats
}

// NewService builds a menu service. stats may be nil; aggregates then read
// as zero.
func NewService(repo MealRepository, stats ReviewStats) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("meal repository required")
	}
	return &service{repo: repo, stats: stats}, nil
}

// ListMeals returns all available meals with their review aggregates.
func (s *service) ListMeals(ctx context.Context) ([]MealBox, error) {
	meals, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list meals")
	}
	return s.boxAll(meals), nil
}

// ListMealsByCategory returns available meals in the given category.
func (s *service) ListMealsByCategory(ctx context.Context, category string) ([]MealBox, error) {
	parsed, err := enums.ParseMealCategory(category)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown meal category")
	}
	meals, err := s.repo.ListByCategory(ctx, parsed, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list meals by category")
	}
	return s.boxAll(meals), nil
}

// GetMeal loads one meal by title.
func (s *service) GetMeal(ctx context.Context, title string) (*MealBox, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "meal title is required")
	}
	meal, err := s.repo.FindByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "meal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load meal")
	}
	box := s.box(*meal)
	return &box, nil
}

func (s *service) boxAll(meals []models.Meal) []MealBox {
	boxes := make([]MealBox, 0, len(meals))
	for _, meal := range meals {
		boxes = append(boxes, s.box(meal))
	}
	return boxes
}

func (s *service) box(meal models.Meal) MealBox {
	box := MealBox{Meal: meal, AverageRating: "0.0"}
	if s.stats != nil {
		box.ReviewCount = s.stats.ReviewCount(meal.Title)
		box.AverageRating = s.stats.AverageRating(meal.Title)
	}
	return box
}
