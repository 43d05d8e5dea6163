package http

import (
	"log/slog"
	"net/http"

	"evently/internal/delivery/http/controllers"
	"evently/internal/delivery/http/middleware"
	"evently/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Event    *controllers.EventController
	Category *controllers.CategoryController
	Order    *controllers.OrderController
	Webhook  *controllers.WebhookController
	Health   *controllers.HealthController
}

// NewRouter initializes the HTTP router with all application routes.
// Routes that act on behalf of a user are wrapped with RequireAuth.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Events
	mux.HandleFunc("GET /events", c.Event.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", c.Event.GetEventByID)
	mux.HandleFunc("GET /events/{eventID}/related", c.Event.ListRelatedEvents)
	mux.HandleFunc("GET /users/{userID}/events", c.Event.ListEventsByUser)
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("PUT /events/{eventID}", auth(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Event.DeleteEvent))

	// Categories
	mux.HandleFunc("GET /categories", c.Category.ListCategories)
	mux.HandleFunc("POST /categories", auth(c.Category.CreateCategory))

	// Orders
	mux.HandleFunc("POST /orders/checkout", auth(c.Order.Checkout))
	mux.HandleFunc("GET /events/{eventID}/orders", auth(c.Order.ListEventOrders))
	mux.HandleFunc("GET /me/orders", auth(c.Order.ListMyOrders))

	// Payment provider
	mux.HandleFunc("POST /webhooks/stripe", c.Webhook.StripeWebhook)

	mux.HandleFunc("GET /healthz", c.Health.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
