package controllers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Tejayenduri9/biryani-boys-backend/api/responses"
	menusvc "github.com/Tejayenduri9/biryani-boys-backend/internal/menu"
	pkgerrors "github.com/Tejayenduri9/biryani-boys-backend/pkg/errors"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/logger"
)

// ListMeals returns the full menu grouped meal boxes.
func ListMeals(svc menusvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		category := strings.TrimSpace(r.URL.Query().Get("category"))
		if category != "" {
			boxes, err := svc.ListMealsByCategory(r.Context(), category)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, boxes)
			return
		}

		boxes, err := svc.ListMeals(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, boxes)
	}
}

// GetMeal returns a single meal box by title.
func GetMeal(svc menusvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		title, err := mealTitleParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		box, err := svc.GetMeal(r.Context(), title)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, box)
	}
}

// mealTitleParam extracts and unescapes the {title} route parameter. Meal
// titles carry spaces, so the frontend URL-encodes them.
func mealTitleParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "title")
	title, err := url.PathUnescape(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed meal title")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "meal title is required")
	}
	return title, nil
}
