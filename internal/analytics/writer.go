package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/Tejayenduri9/biryani-boys-backend/internal/orders"
)

type inserter interface {
	InsertOrderEvents(ctx context.Context, rows []any) error
}

// orderEventRow flattens a submitted order into one BigQuery row per line
// item, so revenue queries never need to unnest JSON.
type orderEventRow struct {
	EventID      string    `bigquery:"event_id"`
	UserID       string    `bigquery:"user_id"`
	CustomerName string    `bigquery:"customer_name"`
	DeliveryDay  string    `bigquery:"delivery_day"`
	DeliveryDate string    `bigquery:"delivery_date"`
	MealTitle    string    `bigquery:"meal_title"`
	Quantity     int       `bigquery:"quantity"`
	UnitPrice    string    `bigquery:"unit_price"`
	Subtotal     string    `bigquery:"subtotal"`
	OrderTotal   string    `bigquery:"order_total"`
	SubmittedAt  time.Time `bigquery:"submitted_at"`
}

// Writer persists order events into the analytics table.
type Writer struct {
	bq inserter
}

// NewWriter wraps the BigQuery client used for order analytics.
func NewWriter(bq inserter) (*Writer, error) {
	if bq == nil {
		return nil, errors.New("bigquery inserter is required")
	}
	return &Writer{bq: bq}, nil
}

// WriteOrderSubmitted stores one row per line item. Orders without items
// still produce a single row so the submission is not lost.
func (w *Writer) WriteOrderSubmitted(ctx context.Context, event orders.OrderSubmittedEvent) error {
	base := orderEventRow{
		EventID:      event.EventID,
		UserID:       event.UserID,
		CustomerName: event.CustomerName,
		DeliveryDay:  event.DeliveryDay,
		DeliveryDate: event.DeliveryDate,
		OrderTotal:   event.Total,
		SubmittedAt:  event.SubmittedAt,
	}

	if len(event.Items) == 0 {
		return w.bq.InsertOrderEvents(ctx, []any{base})
	}

	rows := make([]any, 0, len(event.Items))
	for _, item := range event.Items {
		row := base
		row.MealTitle = item.Title
		row.Quantity = item.Quantity
		row.UnitPrice = item.UnitPrice
		row.Subtotal = item.Subtotal
		rows = append(rows, row)
	}
	return w.bq.InsertOrderEvents(ctx, rows)
}
