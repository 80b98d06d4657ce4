package cart

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/Tejayenduri9/biryani-boys-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service exposes cart operations. Every mutation writes the full cart back
// to the repository before returning, so the stored state never trails the
// returned one.
type Service interface {
	AddItem(ctx context.Context, userID, title string, unitPrice decimal.Decimal) (*Cart, error)
	UpdateQuantity(ctx context.Context, userID string, itemID uuid.UUID, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, userID string) error
	SetDeliveryInfo(ctx context.Context, userID string, info DeliveryInfo) error
	Get(ctx context.Context, userID string) (*Cart, error)
	Total(ctx context.Context, userID string) (decimal.Decimal, error)
}

type service struct {
	repo Repository
}

// NewService builds a cart service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &service{repo: repo}, nil
}

// AddItem increments the quantity of an existing line item with the same
// title, or appends a new one with quantity 1 and a fresh id.
func (s *service) AddItem(ctx context.Context, userID, title string, unitPrice decimal.Decimal) (*Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item title is required")
	}
	if unitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	items, err := s.repo.LoadItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	found := false
	for i := range items {
		if items[i].Title == title {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, LineItem{
			ID:        uuid.New(),
			Title:     title,
			UnitPrice: unitPrice,
			Quantity:  1,
		})
	}

	if err := s.repo.SaveItems(ctx, userID, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return s.hydrate(ctx, userID, items)
}

// UpdateQuantity sets the quantity exactly; anything below 1 removes the item.
func (s *service) UpdateQuantity(ctx context.Context, userID string, itemID uuid.UUID, quantity int) (*Cart, error) {
	if quantity < 1 {
		return s.RemoveItem(ctx, userID, itemID)
	}

	items, err := s.repo.LoadItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	found := false
	for i := range items {
		if items[i].ID == itemID {
			items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if err := s.repo.SaveItems(ctx, userID, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return s.hydrate(ctx, userID, items)
}

// RemoveItem deletes the line item with the given id.
func (s *service) RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) (*Cart, error) {
	items, err := s.repo.LoadItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	kept := items[:0]
	found := false
	for _, item := range items {
		if item.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if err := s.repo.SaveItems(ctx, userID, kept); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return s.hydrate(ctx, userID, kept)
}

// Clear drops both the line items and the delivery info.
func (s *service) Clear(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// SetDeliveryInfo replaces the stored delivery details.
func (s *service) SetDeliveryInfo(ctx context.Context, userID string, info DeliveryInfo) error {
	if err := s.repo.SaveDelivery(ctx, userID, info); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist delivery info")
	}
	return nil
}

// Get hydrates the full cart, including the derived total.
func (s *service) Get(ctx context.Context, userID string) (*Cart, error) {
	items, err := s.repo.LoadItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.hydrate(ctx, userID, items)
}

// Total sums unit price times quantity over the current items. Always derived,
// never stored.
func (s *service) Total(ctx context.Context, userID string) (decimal.Decimal, error) {
	items, err := s.repo.LoadItems(ctx, userID)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return sumItems(items), nil
}

func (s *service) hydrate(ctx context.Context, userID string, items []LineItem) (*Cart, error) {
	delivery, err := s.repo.LoadDelivery(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery info")
	}
	return &Cart{
		Items:    items,
		Delivery: delivery,
		Total:    sumItems(items),
	}, nil
}

func sumItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
