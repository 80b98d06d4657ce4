package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Tejayenduri9/biryani-boys-backend/internal/availability"
	"github.com/Tejayenduri9/biryani-boys-backend/internal/cart"
	pkgerrors "github.com/Tejayenduri9/biryani-boys-backend/pkg/errors"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/logger"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/metrics"
	"github.com/google/uuid"
)

// Dispatcher hands the rendered order summary to the outbound messaging
// channel and returns the deep link the customer follows.
type Dispatcher interface {
	Dispatch(ctx context.Context, message string) (string, error)
}

// SubmitInput is the delivery form as posted by the customer.
type SubmitInput struct {
	CustomerName string `json:"customer_name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Instructions string `json:"instructions"`
	DayLabel     string `json:"day_label"`
	DayDate      string `json:"day_date"`
}

// Receipt is returned once the order has been handed off.
type Receipt struct {
	Summary      string                `json:"summary"`
	WhatsAppLink string                `json:"whatsapp_link"`
	Day          availability.OrderDay `json:"day"`
	Total        string                `json:"total"`
}

// Service composes and submits orders.
type Service interface {
	AvailableDays() []availability.OrderDay
	Submit(ctx context.Context, userID string, input SubmitInput) (*Receipt, error)
}

type service struct {
	cart       cart.Service
	policy     *availability.Policy
	dispatcher Dispatcher
	events     *EventPublisher
	metrics    *metrics.OrderMetrics
	logg       *logger.Logger
	now        func() time.Time
}

// NewService builds the order service. events and metrics may be nil.
func NewService(cartSvc cart.Service, policy *availability.Policy, dispatcher Dispatcher, events *EventPublisher, m *metrics.OrderMetrics, logg *logger.Logger) (Service, error) {
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if policy == nil {
		return nil, fmt.Errorf("availability policy required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("order dispatcher required")
	}
	return &service{
		cart:       cartSvc,
		policy:     policy,
		dispatcher: dispatcher,
		events:     events,
		metrics:    m,
		logg:       logg,
		now:        time.Now,
	}, nil
}

// AvailableDays returns the delivery days currently open for orders.
func (s *service) AvailableDays() []availability.OrderDay {
	return s.policy.ComputeAvailableDays(s.now())
}

// Submit validates the form, persists the delivery info, renders the order
// summary, hands it off, emits the analytics event, and clears the cart.
// Validation failures report every bad field at once and mutate nothing.
func (s *service) Submit(ctx context.Context, userID string, input SubmitInput) (*Receipt, error) {
	current, err := s.cart.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if strings.TrimSpace(input.CustomerName) == "" {
		fields["customer_name"] = "name is required"
	}
	if strings.TrimSpace(input.Address) == "" {
		fields["address"] = "address is required"
	}
	if strings.TrimSpace(input.Phone) == "" {
		fields["phone"] = "phone is required"
	}
	day, ok := s.selectedDay(input)
	if !ok {
		fields["day"] = "pick one of the offered delivery days"
	}
	if len(fields) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order form has missing or invalid fields").
			WithDetails(fields)
	}

	if len(current.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	info := cart.DeliveryInfo{
		CustomerName: strings.TrimSpace(input.CustomerName),
		Address:      strings.TrimSpace(input.Address),
		Phone:        strings.TrimSpace(input.Phone),
		Instructions: strings.TrimSpace(input.Instructions),
	}
	if err := s.cart.SetDeliveryInfo(ctx, userID, info); err != nil {
		return nil, err
	}

	summary := renderSummary(info, day, current)

	link, err := s.dispatcher.Dispatch(ctx, summary)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order handoff failed")
	}

	// Handoff dispatched: the order is placed. Everything after this point
	// is bookkeeping and must not fail the submission.
	s.emitEvent(ctx, userID, info, day, current)
	s.metrics.IncSubmitted(day.Label)
	s.metrics.ObserveLineItems(len(current.Items))

	if err := s.cart.Clear(ctx, userID); err != nil && s.logg != nil {
		s.logg.Error(ctx, "clearing cart after order handoff", err)
	}

	return &Receipt{
		Summary:      summary,
		WhatsAppLink: link,
		Day:          day,
		Total:        current.Total.StringFixed(2),
	}, nil
}

func (s *service) selectedDay(input SubmitInput) (availability.OrderDay, bool) {
	label := strings.TrimSpace(input.DayLabel)
	date := strings.TrimSpace(input.DayDate)
	if label == "" || date == "" {
		return availability.OrderDay{}, false
	}
	for _, day := range s.policy.ComputeAvailableDays(s.now()) {
		if day.Label == label && day.Date == date {
			return day, true
		}
	}
	return availability.OrderDay{}, false
}

func (s *service) emitEvent(ctx context.Context, userID string, info cart.DeliveryInfo, day availability.OrderDay, current *cart.Cart) {
	if s.events == nil {
		return
	}
	items := make([]EventItem, 0, len(current.Items))
	for _, item := range current.Items {
		items = append(items, EventItem{
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Subtotal:  item.Subtotal().StringFixed(2),
		})
	}
	s.events.OrderSubmitted(ctx, OrderSubmittedEvent{
		EventID:      uuid.NewString(),
		UserID:       userID,
		CustomerName: info.CustomerName,
		DeliveryDay:  day.Label,
		DeliveryDate: day.Date,
		Items:        items,
		Total:        current.Total.StringFixed(2),
		SubmittedAt:  s.now(),
	})
}

// renderSummary builds the deterministic plain-text order message.
func renderSummary(info cart.DeliveryInfo, day availability.OrderDay, current *cart.Cart) string {
	var b strings.Builder
	b.WriteString("Order Summary:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", info.CustomerName)
	fmt.Fprintf(&b, "Delivery: %s (%s)\n\n", day.Label, day.Date)
	b.WriteString("Items:\n")
	for _, item := range current.Items {
		fmt.Fprintf(&b, "- %s x%d = $%s\n", item.Title, item.Quantity, item.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: $%s\n\n", current.Total.StringFixed(2))
	fmt.Fprintf(&b, "Address: %s\n", info.Address)
	fmt.Fprintf(&b, "Phone: %s\n", info.Phone)
	if info.Instructions != "" {
		fmt.Fprintf(&b, "Instructions: %s\n", info.Instructions)
	}
	return b.String()
}
