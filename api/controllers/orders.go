package controllers

import (
	"net/http"

	"github.com/Tejayenduri9/biryani-boys-backend/api/responses"
	"github.com/Tejayenduri9/biryani-boys-backend/api/validators"
	ordersvc "github.com/Tejayenduri9/biryani-boys-backend/internal/orders"
	pkgerrors "github.com/Tejayenduri9/biryani-boys-backend/pkg/errors"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/logger"
)

// submitOrderRequest carries no validate tags: the order service checks every
// field independently so a single response can flag all of them at once.
type submitOrderRequest struct {
	CustomerName string `json:"customer_name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Instructions string `json:"instructions"`
	DayLabel     string `json:"day_label"`
	DayDate      string `json:"day_date"`
}

// DeliveryDays lists the days an order placed right now can be delivered on.
func DeliveryDays(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		responses.WriteSuccess(w, svc.AvailableDays())
	}
}

// SubmitOrder composes the cart into an order summary and hands it off.
func SubmitOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload submitOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Submit(r.Context(), userID, ordersvc.SubmitInput{
			CustomerName: payload.CustomerName,
			Address:      payload.Address,
			Phone:        payload.Phone,
			Instructions: payload.Instructions,
			DayLabel:     payload.DayLabel,
			DayDate:      payload.DayDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}
