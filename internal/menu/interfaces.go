package menu

import (
	"context"

	"github.com/Tejayenduri9/biryani-boys-backend/pkg/db/models"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/enums"
)

// MealRepository exposes persistence operations for the meal catalog.
type MealRepository interface {
	List(ctx context.Context, onlyAvailable bool) ([]models.Meal, error)
	ListByCategory(ctx context.Context, category enums.MealCategory, onlyAvailable bool) ([]models.Meal, error)
	FindByTitle(ctx context.Context, title string) (*models.Meal, error)
}

// ReviewStats supplies the per-meal aggregates shown next to each meal.
type ReviewStats interface {
	ReviewCount(meal string) int
	AverageRating(meal string) string
}
