package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"evently/internal/delivery/http/helpers"
	"evently/internal/delivery/http/middleware"
	"evently/internal/domain"

	"github.com/google/uuid"
)

// EventRequest is the request body for POST /events.
type EventRequest struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	ImageURL      string    `json:"imageUrl"`
	StartDateTime time.Time `json:"startDateTime"`
	EndDateTime   time.Time `json:"endDateTime"`
	Price         string    `json:"price"`
	IsFree        bool      `json:"isFree"`
	URL           string    `json:"url"`
	CategoryID    string    `json:"categoryId"`
}

// Validate implements Validator. Returns error messages for required and format rules.
func (e EventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, "title is required")
	}
	if e.CategoryID == "" {
		errs = append(errs, "categoryId is required")
	} else if uuid.Validate(e.CategoryID) != nil {
		errs = append(errs, "categoryId must be a UUID")
	}
	return errs
}

func (e EventRequest) toEvent() *domain.Event {
	return &domain.Event{
		Title:         strings.TrimSpace(e.Title),
		Description:   e.Description,
		Location:      e.Location,
		ImageURL:      e.ImageURL,
		StartDateTime: e.StartDateTime,
		EndDateTime:   e.EndDateTime,
		Price:         e.Price,
		IsFree:        e.IsFree,
		URL:           e.URL,
		CategoryID:    e.CategoryID,
	}
}

// UpdateEventRequest is the request body for PUT /events/{eventID}. All event
// fields are replaced. Path names the page to revalidate after the update.
type UpdateEventRequest struct {
	EventRequest
	Path string `json:"path"`
}

// EventSuccessResponse is the success response envelope for a single event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListResponse is the data payload of paginated event listings.
type EventListResponse struct {
	Items      []*domain.Event        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// EventListSuccessResponse is the success response envelope for paginated event listings (200).
type EventListSuccessResponse struct {
	Data  EventListResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DeleteEventResponse is the data payload for DELETE /events/{eventID} (200).
type DeleteEventResponse struct {
	Status string `json:"status"`
}

// DeleteEventSuccessResponse is the success response envelope for DELETE /events/{eventID} (200).
type DeleteEventSuccessResponse struct {
	Data  DeleteEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *EventController) writePage(w http.ResponseWriter, params domain.PaginationParams, page *domain.EventPage) {
	helpers.WriteJSONSuccess(w, http.StatusOK, EventListResponse{
		Items:      page.Data,
		Pagination: helpers.NewPaginationMeta(params, page.TotalPages),
	})
}

// ListEvents godoc
// @Summary List events
// @Description Returns events newest first. query filters by title (case-insensitive substring); category filters by category name. An unknown category yields an empty page.
// @Tags events
// @Produce json
// @Param query query string false "Title substring"
// @Param category query string false "Category name"
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size (max 100)" default(6)
// @Success 200 {object} controllers.EventListSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	params, err := helpers.ParsePagination(r, helpers.EventsLimit)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	filter := domain.EventFilter{Query: q.Get("query"), Category: q.Get("category")}
	page, err := c.Service.ListEvents(r.Context(), filter, params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	c.writePage(w, params, page)
}

// GetEventByID godoc
// @Summary Get an event by ID
// @Description Returns the event with its category and organizer joined in. Either is null when the reference no longer resolves.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEventByID(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetEventByID(r.Context(), eventID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListRelatedEvents godoc
// @Summary List related events
// @Description Returns other events in the same category as the given event, newest first.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size (max 100)" default(3)
// @Success 200 {object} controllers.EventListSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/related [get]
func (c *EventController) ListRelatedEvents(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	params, err := helpers.ParsePagination(r, helpers.RelatedLimit)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	event, err := c.Service.GetEventByID(r.Context(), eventID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	page, err := c.Service.ListRelatedEvents(r.Context(), event.CategoryID, event.ID, params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	c.writePage(w, params, page)
}

// ListEventsByUser godoc
// @Summary List events organized by a user
// @Description Returns events whose organizer is the given user, newest first.
// @Tags events
// @Produce json
// @Param userID path string true "User ID (UUID)"
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size (max 100)" default(6)
// @Success 200 {object} controllers.EventListSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events [get]
func (c *EventController) ListEventsByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	params, err := helpers.ParsePagination(r, helpers.EventsLimit)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	page, err := c.Service.ListEventsByOrganizer(r.Context(), userID, params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "user not found")
		return
	}
	c.writePage(w, params, page)
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Creates an event. The authenticated user becomes its organizer. id and timestamps are server-generated; a free event is stored without a price.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (organizer)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), req.toEvent(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "organizer not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Replaces the event fields. Only the organizer can update. path, when set, is revalidated on the presentation side afterwards.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Event data and path to revalidate"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event := req.toEvent()
	event.ID = eventID
	updated, err := c.Service.UpdateEvent(r.Context(), event, userID, req.Path)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event. Only the organizer can delete. Deleting an event that does not exist succeeds. path, when set, is revalidated afterwards.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param path query string false "Page path to revalidate"
// @Success 200 {object} controllers.DeleteEventSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID, userID, r.URL.Query().Get("path")); err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Status: "deleted"})
}
