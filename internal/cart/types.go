package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one distinct menu entry and its quantity within a cart. Title
// is the dedup key: a cart never holds two line items with the same title.
type LineItem struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is unit price times quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// DeliveryInfo captures the delivery form, written at order submission and
// kept until the cart is cleared.
type DeliveryInfo struct {
	CustomerName string `json:"customer_name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Instructions string `json:"instructions,omitempty"`
}

// Cart is the hydrated view of a customer's cart.
type Cart struct {
	Items    []LineItem      `json:"items"`
	Delivery *DeliveryInfo   `json:"delivery,omitempty"`
	Total    decimal.Decimal `json:"total"`
}
