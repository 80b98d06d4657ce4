package menu

import (
	"context"

	"github.com/Tejayenduri9/biryani-boys-backend/pkg/db/models"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for the meal catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a meal repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the catalog ordered by category then title.
func (r *Repository) List(ctx context.Context, onlyAvailable bool) ([]models.Meal, error) {
	var rows []models.Meal
	q := r.db.WithContext(ctx).Order("category ASC, title ASC")
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByCategory returns meals in one category ordered by title.
func (r *Repository) ListByCategory(ctx context.Context, category enums.MealCategory, onlyAvailable bool) ([]models.Meal, error) {
	var rows []models.Meal
	q := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("title ASC")
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByTitle loads a single meal by its unique title.
func (r *Repository) FindByTitle(ctx context.Context, title string) (*models.Meal, error) {
	var meal models.Meal
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&meal).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}
