package orders

import (
	"context"
	"encoding/json"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/logger"
	"github.com/google/uuid"
)

// EventTypeOrderSubmitted tags messages on the orders topic so consumers can
// route by type.
const EventTypeOrderSubmitted = "order.submitted"

const publishTimeout = 15 * time.Second

// OrderSubmittedEvent is the analytics payload emitted after a successful
// handoff. The WhatsApp dispatch itself stays unconfirmed; this event records
// that the order left the system.
type OrderSubmittedEvent struct {
	EventID      string      `json:"event_id"`
	UserID       string      `json:"user_id"`
	CustomerName string      `json:"customer_name"`
	DeliveryDay  string      `json:"delivery_day"`
	DeliveryDate string      `json:"delivery_date"`
	Items        []EventItem `json:"items"`
	Total        string      `json:"total"`
	SubmittedAt  time.Time   `json:"submitted_at"`
}

// EventItem is one order line in the event payload.
type EventItem struct {
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type publisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// EventPublisher emits order events to the configured topic. Publishing is
// best effort: a lost event never blocks or fails an order.
type EventPublisher struct {
	pub  publisher
	logg *logger.Logger
}

// NewEventPublisher wraps the orders topic publisher. A nil publisher
// produces a no-op emitter.
func NewEventPublisher(pub *pubsub.Publisher, logg *logger.Logger) *EventPublisher {
	p := &EventPublisher{logg: logg}
	if pub != nil {
		p.pub = pub
	}
	return p
}

// OrderSubmitted publishes the event and waits for the server ack within the
// publish timeout. Failures are logged and swallowed.
func (p *EventPublisher) OrderSubmitted(ctx context.Context, event OrderSubmittedEvent) {
	if p == nil || p.pub == nil {
		return
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		if p.logg != nil {
			p.logg.Error(ctx, "encoding order event", err)
		}
		return
	}

	msg := &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_id":     event.EventID,
			"event_type":   EventTypeOrderSubmitted,
			"submitted_at": event.SubmittedAt.Format(time.RFC3339Nano),
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	result := p.pub.Publish(publishCtx, msg)
	if result == nil {
		return
	}
	if _, err := result.Get(publishCtx); err != nil && p.logg != nil {
		p.logg.Error(ctx, "publishing order event", err)
	}
}
