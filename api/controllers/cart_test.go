package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Tejayenduri9/biryani-boys-backend/api/middleware"
	cartsvc "github.com/Tejayenduri9/biryani-boys-backend/internal/cart"
	pkgerrors "github.com/Tejayenduri9/biryani-boys-backend/pkg/errors"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/types"
)

type stubCartService struct {
	cart       *cartsvc.Cart
	err        error
	added      []string
	quantities map[uuid.UUID]int
	cleared    bool
	delivery   *cartsvc.DeliveryInfo
}

func (s *stubCartService) AddItem(ctx context.Context, userID, title string, unitPrice decimal.Decimal) (*cartsvc.Cart, error) {
	s.added = append(s.added, title)
	return s.cart, s.err
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, userID string, itemID uuid.UUID, quantity int) (*cartsvc.Cart, error) {
	if s.quantities == nil {
		s.quantities = map[uuid.UUID]int{}
	}
	s.quantities[itemID] = quantity
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) (*cartsvc.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Clear(ctx context.Context, userID string) error {
	s.cleared = true
	return s.err
}

func (s *stubCartService) SetDeliveryInfo(ctx context.Context, userID string, info cartsvc.DeliveryInfo) error {
	s.delivery = &info
	return s.err
}

func (s *stubCartService) Get(ctx context.Context, userID string) (*cartsvc.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Total(ctx context.Context, userID string) (decimal.Decimal, error) {
	if s.cart == nil {
		return decimal.Zero, s.err
	}
	return s.cart.Total, s.err
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	identity := types.Identity{UID: "u1", DisplayName: "Asha"}
	return req.WithContext(middleware.WithIdentity(req.Context(), identity))
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCartFetchSuccess(t *testing.T) {
	current := &cartsvc.Cart{
		Items: []cartsvc.LineItem{{
			ID:        uuid.New(),
			Title:     "Goat Biryani",
			UnitPrice: decimal.RequireFromString("12.99"),
			Quantity:  2,
		}},
		Total: decimal.RequireFromString("25.98"),
	}
	handler := CartFetch(&stubCartService{cart: current}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.Cart `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 1 || envelope.Data.Items[0].Title != "Goat Biryani" {
		t.Fatalf("unexpected cart payload: %+v", envelope.Data)
	}
}

func TestCartFetchRequiresIdentity(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemSuccess(t *testing.T) {
	stub := &stubCartService{cart: &cartsvc.Cart{}}
	handler := CartAddItem(stub, nil)

	body := `{"title":"Chicken 65","unit_price":"9.49"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if len(stub.added) != 1 || stub.added[0] != "Chicken 65" {
		t.Fatalf("expected one add for Chicken 65, got %v", stub.added)
	}
}

func TestCartAddItemRejectsBadPrice(t *testing.T) {
	stub := &stubCartService{cart: &cartsvc.Cart{}}
	handler := CartAddItem(stub, nil)

	body := `{"title":"Chicken 65","unit_price":"nine"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(stub.added) != 0 {
		t.Fatalf("service should not be called on invalid price")
	}
}

func TestCartAddItemRejectsMissingFields(t *testing.T) {
	handler := CartAddItem(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", `{}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	stub := &stubCartService{cart: &cartsvc.Cart{}}
	handler := CartUpdateQuantity(stub, nil)

	itemID := uuid.New()
	req := authedRequest(http.MethodPut, "/api/v1/cart/items/"+itemID.String(), `{"quantity":3}`)
	req = withRouteParam(req, "itemID", itemID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if stub.quantities[itemID] != 3 {
		t.Fatalf("expected quantity 3 recorded, got %v", stub.quantities)
	}
}

func TestCartUpdateQuantityRejectsBadID(t *testing.T) {
	handler := CartUpdateQuantity(&stubCartService{}, nil)

	req := authedRequest(http.MethodPut, "/api/v1/cart/items/not-a-uuid", `{"quantity":3}`)
	req = withRouteParam(req, "itemID", "not-a-uuid")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartClear(t *testing.T) {
	stub := &stubCartService{}
	handler := CartClear(stub, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodDelete, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !stub.cleared {
		t.Fatal("expected clear to reach the service")
	}
}

func TestCartSetDelivery(t *testing.T) {
	stub := &stubCartService{}
	handler := CartSetDelivery(stub, nil)

	body := `{"customer_name":"Asha","address":"12 Main St","phone":"+15551234567","instructions":"ring twice"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/cart/delivery", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if stub.delivery == nil || stub.delivery.CustomerName != "Asha" {
		t.Fatalf("expected delivery info stored, got %+v", stub.delivery)
	}
}

func TestCartSetDeliveryPropagatesServiceError(t *testing.T) {
	stub := &stubCartService{err: pkgerrors.New(pkgerrors.CodeDependency, "redis down")}
	handler := CartSetDelivery(stub, nil)

	body := `{"customer_name":"Asha","address":"12 Main St","phone":"+15551234567"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/cart/delivery", body))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
