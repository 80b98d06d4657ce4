package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Tejayenduri9/biryani-boys-backend/internal/availability"
	ordersvc "github.com/Tejayenduri9/biryani-boys-backend/internal/orders"
	pkgerrors "github.com/Tejayenduri9/biryani-boys-backend/pkg/errors"
)

type stubOrderService struct {
	days    []availability.OrderDay
	receipt *ordersvc.Receipt
	err     error
	inputs  []ordersvc.SubmitInput
}

func (s *stubOrderService) AvailableDays() []availability.OrderDay {
	return s.days
}

func (s *stubOrderService) Submit(ctx context.Context, userID string, input ordersvc.SubmitInput) (*ordersvc.Receipt, error) {
	s.inputs = append(s.inputs, input)
	return s.receipt, s.err
}

func TestDeliveryDays(t *testing.T) {
	stub := &stubOrderService{days: []availability.OrderDay{
		{Label: "Friday", Date: "Jan 2, 2026"},
		{Label: "Saturday", Date: "Jan 3, 2026"},
	}}
	handler := DeliveryDays(stub, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/orders/delivery-days", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data []availability.OrderDay `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 || envelope.Data[0].Label != "Friday" {
		t.Fatalf("unexpected days: %+v", envelope.Data)
	}
}

func TestSubmitOrderSuccess(t *testing.T) {
	stub := &stubOrderService{receipt: &ordersvc.Receipt{
		Summary:      "Order Summary:",
		WhatsAppLink: "https://wa.me/15550001111?text=order",
		Total:        "25.98",
	}}
	handler := SubmitOrder(stub, nil)

	body := `{"customer_name":"Asha","address":"12 Main St","phone":"+15551234567","day_label":"Friday","day_date":"Jan 2, 2026"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/orders", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if len(stub.inputs) != 1 || stub.inputs[0].DayLabel != "Friday" {
		t.Fatalf("unexpected submit input: %+v", stub.inputs)
	}

	var envelope struct {
		Data ordersvc.Receipt `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.WhatsAppLink == "" {
		t.Fatal("expected whatsapp link in receipt")
	}
}

func TestSubmitOrderRequiresIdentity(t *testing.T) {
	handler := SubmitOrder(&stubOrderService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestSubmitOrderSurfacesValidationDetails(t *testing.T) {
	validationErr := pkgerrors.New(pkgerrors.CodeValidation, "delivery details incomplete").WithDetails(map[string]string{
		"customer_name": "customer name is required",
		"address":       "address is required",
		"phone":         "phone is required",
		"day":           "selected day is not available",
	})
	stub := &stubOrderService{err: validationErr}
	handler := SubmitOrder(stub, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/orders", `{}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Error.Details) != 4 {
		t.Fatalf("expected all four fields flagged, got %v", envelope.Error.Details)
	}
}

func TestSubmitOrderDependencyFailure(t *testing.T) {
	stub := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeDependency, "order handoff failed")}
	handler := SubmitOrder(stub, nil)

	body := `{"customer_name":"Asha","address":"12 Main St","phone":"+15551234567","day_label":"Friday","day_date":"Jan 2, 2026"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/orders", body))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
