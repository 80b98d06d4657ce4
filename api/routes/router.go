package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Tejayenduri9/biryani-boys-backend/api/controllers"
	"github.com/Tejayenduri9/biryani-boys-backend/api/middleware"
	cartsvc "github.com/Tejayenduri9/biryani-boys-backend/internal/cart"
	menusvc "github.com/Tejayenduri9/biryani-boys-backend/internal/menu"
	ordersvc "github.com/Tejayenduri9/biryani-boys-backend/internal/orders"
	reviewsvc "github.com/Tejayenduri9/biryani-boys-backend/internal/reviews"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/config"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	deps map[string]controllers.Pinger,
	menuService menusvc.Service,
	cartService cartsvc.Service,
	orderService ordersvc.Service,
	reviewEngine *reviewsvc.Engine,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, deps))
	})

	r.Handle("/metrics", promhttp.Handler())

	// Browsing never requires sign-in; a valid token still attaches the
	// customer identity for personalized responses.
	r.Route("/api/v1/menu", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, logg))
		r.Get("/", controllers.ListMeals(menuService, logg))
		r.Get("/{title}", controllers.GetMeal(menuService, logg))
	})

	r.With(middleware.OptionalAuth(cfg.JWT, logg)).
		Get("/api/v1/orders/delivery-days", controllers.DeliveryDays(orderService, logg))

	r.Route("/api/v1/reviews/{meal}", func(r chi.Router) {
		r.With(middleware.OptionalAuth(cfg.JWT, logg)).
			Get("/", controllers.ListReviews(reviewEngine, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Post("/", controllers.SubmitReview(reviewEngine, logg))
			r.Put("/{reviewID}", controllers.UpdateReview(reviewEngine, logg))
			r.Delete("/{reviewID}", controllers.DeleteReview(reviewEngine, logg))
		})
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/", controllers.CartFetch(cartService, logg))
		r.Delete("/", controllers.CartClear(cartService, logg))
		r.Post("/items", controllers.CartAddItem(cartService, logg))
		r.Put("/items/{itemID}", controllers.CartUpdateQuantity(cartService, logg))
		r.Delete("/items/{itemID}", controllers.CartRemoveItem(cartService, logg))
		r.Put("/delivery", controllers.CartSetDelivery(cartService, logg))
	})

	r.With(middleware.Auth(cfg.JWT, logg)).
		Post("/api/v1/orders", controllers.SubmitOrder(orderService, logg))

	return r
}
