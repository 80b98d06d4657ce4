package models

import (
	"time"

	"github.com/Tejayenduri9/biryani-boys-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Meal is a distinct orderable menu entry. The title doubles as the partition
// key for the meal's remote review collection, so it is unique.
type Meal struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string             `gorm:"column:title;not null;uniqueIndex"`
	Description string             `gorm:"column:description;not null;default:''"`
	Category    enums.MealCategory `gorm:"column:category;not null"`
	Price       decimal.Decimal    `gorm:"column:price;type:numeric(8,2);not null"`
	ImageURL    *string            `gorm:"column:image_url"`
	IsAvailable bool               `gorm:"column:is_available;not null;default:true"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table used by the menu repository.
func (Meal) TableName() string {
	return "meals"
}
