package menu

import (
	"context"
	"testing"

	"github.com/Tejayenduri9/biryani-boys-backend/pkg/db/models"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/enums"
	pkgerrors "github.com/Tejayenduri9/biryani-boys-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Meal{}))
	return NewRepository(conn)
}

func seedMeal(t *testing.T, repo *Repository, title string, category enums.MealCategory, available bool) {
	t.Helper()
	meal := models.Meal{
		ID:          uuid.New(),
		Title:       title,
		Category:    category,
		Price:       decimal.RequireFromString("12.99"),
		IsAvailable: available,
	}
	require.NoError(t, repo.db.Create(&meal).Error)
}

type stubStats struct {
	counts map[string]int
	avgs   map[string]string
}

func (s stubStats) ReviewCount(meal string) int { return s.counts[meal] }
func (s stubStats) AverageRating(meal string) string {
	if avg, ok := s.avgs[meal]; ok {
		return avg
	}
	return "0.0"
}

func TestListMealsSkipsUnavailable(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	seedMeal(t, repo, "Chicken Biryani", enums.MealCategoryBiryani, true)
	seedMeal(t, repo, "Goat Biryani", enums.MealCategoryBiryani, false)

	svc, err := NewService(repo, nil)
	require.NoError(t, err)

	boxes, err := svc.ListMeals(context.Background())
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.Equal(t, "Chicken Biryani", boxes[0].Meal.Title)
	assert.Equal(t, "0.0", boxes[0].AverageRating)
}

func TestListMealsByCategory(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	seedMeal(t, repo, "Chicken Biryani", enums.MealCategoryBiryani, true)
	seedMeal(t, repo, "Mango Lassi", enums.MealCategoryBeverage, true)

	svc, err := NewService(repo, nil)
	require.NoError(t, err)

	boxes, err := svc.ListMealsByCategory(context.Background(), "beverage")
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.Equal(t, "Mango Lassi", boxes[0].Meal.Title)

	_, err = svc.ListMealsByCategory(context.Background(), "sushi")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestGetMealCarriesReviewAggregates(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	seedMeal(t, repo, "Chicken Biryani", enums.MealCategoryBiryani, true)

	svc, err := NewService(repo, stubStats{
		counts: map[string]int{"Chicken Biryani": 4},
		avgs:   map[string]string{"Chicken Biryani": "4.5"},
	})
	require.NoError(t, err)

	box, err := svc.GetMeal(context.Background(), "Chicken Biryani")
	require.NoError(t, err)
	assert.Equal(t, 4, box.ReviewCount)
	assert.Equal(t, "4.5", box.AverageRating)
}

func TestGetMealNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newTestRepo(t), nil)
	require.NoError(t, err)

	_, err = svc.GetMeal(context.Background(), "Paneer Tikka")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.GetMeal(context.Background(), "   ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
