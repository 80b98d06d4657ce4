package enums

import "fmt"

// MealCategory represents the menu sections the storefront renders.
type MealCategory string

const (
	MealCategoryBiryani  MealCategory = "biryani"
	MealCategoryCurry    MealCategory = "curry"
	MealCategoryStarter  MealCategory = "starter"
	MealCategoryBread    MealCategory = "bread"
	MealCategoryDessert  MealCategory = "dessert"
	MealCategoryBeverage MealCategory = "beverage"
)

var validMealCategories = []MealCategory{
	MealCategoryBiryani,
	MealCategoryCurry,
	MealCategoryStarter,
	MealCategoryBread,
	MealCategoryDessert,
	MealCategoryBeverage,
}

// String implements fmt.Stringer.
func (c MealCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known MealCategory.
func (c MealCategory) IsValid() bool {
	for _, candidate := range validMealCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseMealCategory validates and converts a raw string.
func ParseMealCategory(raw string) (MealCategory, error) {
	category := MealCategory(raw)
	if !category.IsValid() {
		return "", fmt.Errorf("invalid meal category %q", raw)
	}
	return category, nil
}

// MealCategories returns the full ordered list for menu rendering.
func MealCategories() []MealCategory {
	out := make([]MealCategory, len(validMealCategories))
	copy(out, validMealCategories)
	return out
}
