package controllers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Tejayenduri9/biryani-boys-backend/api/middleware"
	"github.com/Tejayenduri9/biryani-boys-backend/api/responses"
	"github.com/Tejayenduri9/biryani-boys-backend/api/validators"
	reviewsvc "github.com/Tejayenduri9/biryani-boys-backend/internal/reviews"
	pkgerrors "github.com/Tejayenduri9/biryani-boys-backend/pkg/errors"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/logger"
)

type reviewRequest struct {
	Comment string `json:"comment" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

type reviewPage struct {
	Meal          string             `json:"meal"`
	Reviews       []reviewsvc.Review `json:"reviews"`
	ReviewCount   int                `json:"review_count"`
	AverageRating string             `json:"average_rating"`
	Online        bool               `json:"online"`
}

// ListReviews serves the cached review window for a meal. It never blocks on
// the remote store, so browsing stays fast even when offline.
func ListReviews(engine *reviewsvc.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review engine unavailable"))
			return
		}

		meal, err := mealParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, reviewPage{
			Meal:          meal,
			Reviews:       engine.Reviews(meal),
			ReviewCount:   engine.ReviewCount(meal),
			AverageRating: engine.AverageRating(meal),
			Online:        engine.Online(),
		})
	}
}

// SubmitReview posts a new review for a meal.
func SubmitReview(engine *reviewsvc.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review engine unavailable"))
			return
		}

		meal, err := mealParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload reviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		identity := middleware.IdentityFromContext(r.Context())
		review, err := engine.Submit(r.Context(), identity, meal, payload.Comment, payload.Rating)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}

// UpdateReview edits the comment and rating of the caller's own review.
func UpdateReview(engine *reviewsvc.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review engine unavailable"))
			return
		}

		meal, err := mealParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload reviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		identity := middleware.IdentityFromContext(r.Context())
		reviewID := chi.URLParam(r, "reviewID")
		if err := engine.Update(r.Context(), identity, meal, reviewID, payload.Comment, payload.Rating); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// DeleteReview removes the caller's own review.
func DeleteReview(engine *reviewsvc.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review engine unavailable"))
			return
		}

		meal, err := mealParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		identity := middleware.IdentityFromContext(r.Context())
		reviewID := chi.URLParam(r, "reviewID")
		if err := engine.Delete(r.Context(), identity, meal, reviewID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func mealParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "meal")
	meal, err := url.PathUnescape(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed meal name")
	}
	meal = strings.TrimSpace(meal)
	if meal == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "meal name is required")
	}
	return meal, nil
}
