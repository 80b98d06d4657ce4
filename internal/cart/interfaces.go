package cart

import "context"

// Repository persists a customer's cart. Implementations store line items
// and delivery info as two separate serialized entries keyed by user id.
type Repository interface {
	LoadItems(ctx context.Context, userID string) ([]LineItem, error)
	SaveItems(ctx context.Context, userID string, items []LineItem) error
	LoadDelivery(ctx context.Context, userID string) (*DeliveryInfo, error)
	SaveDelivery(ctx context.Context, userID string, info DeliveryInfo) error
	Clear(ctx context.Context, userID string) error
}
