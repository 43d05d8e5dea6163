package controllers

import (
	"log/slog"
	"net/http"

	"evently/internal/delivery/http/helpers"
	"evently/internal/delivery/http/middleware"
	"evently/internal/domain"

	"github.com/google/uuid"
)

// CheckoutRequest is the request body for POST /orders/checkout.
type CheckoutRequest struct {
	EventID string `json:"eventId"`
}

// Validate implements Validator.
func (c CheckoutRequest) Validate() []string {
	if c.EventID == "" {
		return []string{"eventId is required"}
	}
	if uuid.Validate(c.EventID) != nil {
		return []string{"eventId must be a UUID"}
	}
	return nil
}

// CheckoutResponse is the data payload for POST /orders/checkout (200).
type CheckoutResponse struct {
	URL string `json:"url"`
}

// CheckoutSuccessResponse is the success response envelope for POST /orders/checkout (200).
type CheckoutSuccessResponse struct {
	Data  CheckoutResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventOrdersSuccessResponse is the success response envelope for GET /events/{eventID}/orders (200).
type ListEventOrdersSuccessResponse struct {
	Data  []*domain.EventOrder `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// OrderListResponse is the data payload for GET /me/orders.
type OrderListResponse struct {
	Items      []*domain.UserOrder    `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListMyOrdersSuccessResponse is the success response envelope for GET /me/orders (200).
type ListMyOrdersSuccessResponse struct {
	Data  OrderListResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type OrderController struct {
	Logger  *slog.Logger
	Service domain.OrderService
}

func NewOrderController(logger *slog.Logger, svc domain.OrderService) *OrderController {
	return &OrderController{
		Logger:  logger,
		Service: svc,
	}
}

// Checkout godoc
// @Summary Start a ticket checkout
// @Description Creates a hosted payment session for one ticket and returns the URL to redirect the buyer to. Free events are checked out with a zero amount.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CheckoutRequest true "Event to buy a ticket for"
// @Success 200 {object} controllers.CheckoutSuccessResponse "data contains the checkout url"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /orders/checkout [post]
func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	url, err := c.Service.Checkout(r.Context(), req.EventID, userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CheckoutResponse{URL: url})
}

// ListEventOrders godoc
// @Summary List orders of an event
// @Description Returns the orders of an event, newest first. search keeps orders whose buyer name contains it, ignoring case. Only the organizer can list.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param search query string false "Buyer name substring"
// @Success 200 {object} controllers.ListEventOrdersSuccessResponse "data is an array of orders"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/orders [get]
func (c *OrderController) ListEventOrders(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	orders, err := c.Service.ListOrdersByEvent(r.Context(), eventID, userID, r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, orders)
}

// ListMyOrders godoc
// @Summary List the current user's orders
// @Description Returns the authenticated user's orders with the purchased event joined in, newest first. event is null when the event was deleted.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size (max 100)" default(3)
// @Success 200 {object} controllers.ListMyOrdersSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/orders [get]
func (c *OrderController) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params, err := helpers.ParsePagination(r, helpers.OrdersLimit)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	page, err := c.Service.ListOrdersByUser(r.Context(), userID, params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "user not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, OrderListResponse{
		Items:      page.Data,
		Pagination: helpers.NewPaginationMeta(params, page.TotalPages),
	})
}
