package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"

	"evently/internal/delivery/http/helpers"
	"evently/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	eventUUID = "0b6c2a39-8f6e-4f5e-9a51-1d0f7d3f2a10"
	userUUID  = "6f1d4c8e-2b7a-4e93-8c55-93a1b0e7d4c2"
	catUUID   = "a3e8f1d2-5c6b-4a79-b0e4-7d2c9f8a1b63"
)

// decodeData decodes the envelope in body and unmarshals its data into dest.
func decodeData(t *testing.T, body io.Reader, dest any) {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(body).Decode(&envelope), "response must be valid JSON envelope")
	require.Nil(t, envelope.Error, "success response must have error nil")
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest))
}

// decodeError decodes the envelope in body and returns its error.
func decodeError(t *testing.T, body io.Reader) *helpers.APIError {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(body).Decode(&envelope), "response must be valid JSON envelope")
	require.NotNil(t, envelope.Error, "error response must have error set")
	return envelope.Error
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err       error
	page      *domain.EventPage
	event     *domain.Event
	relateErr error

	lastFilter      domain.EventFilter
	lastParams      domain.PaginationParams
	lastOrganizerID string
	lastCategoryID  string
	lastExcludeID   string
	lastEvent       *domain.Event
	lastUserID      string
	lastPath        string
	lastDeleteID    string
}

func (f *fakeEventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) (*domain.EventPage, error) {
	f.lastFilter, f.lastParams = filter, params
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeEventService) ListEventsByOrganizer(ctx context.Context, organizerID string, params domain.PaginationParams) (*domain.EventPage, error) {
	f.lastOrganizerID, f.lastParams = organizerID, params
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeEventService) ListRelatedEvents(ctx context.Context, categoryID, excludeEventID string, params domain.PaginationParams) (*domain.EventPage, error) {
	f.lastCategoryID, f.lastExcludeID, f.lastParams = categoryID, excludeEventID, params
	if f.relateErr != nil {
		return nil, f.relateErr
	}
	return f.page, nil
}

func (f *fakeEventService) CreateEvent(ctx context.Context, event *domain.Event, organizerID string) (*domain.Event, error) {
	f.lastEvent, f.lastUserID = event, organizerID
	if f.err != nil {
		return nil, f.err
	}
	created := *event
	created.ID = eventUUID
	created.OrganizerID = organizerID
	return &created, nil
}

func (f *fakeEventService) GetEventByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.event == nil || f.event.ID != id {
		return nil, domain.ErrNotFound
	}
	return f.event, nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, event *domain.Event, requestingUserID, path string) (*domain.Event, error) {
	f.lastEvent, f.lastUserID, f.lastPath = event, requestingUserID, path
	if f.err != nil {
		return nil, f.err
	}
	return event, nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, id, requestingUserID, path string) error {
	f.lastDeleteID, f.lastUserID, f.lastPath = id, requestingUserID, path
	return f.err
}

// fakeCategoryService implements domain.CategoryService for handler tests.
type fakeCategoryService struct {
	categories []*domain.Category
	err        error
	lastName   string
}

func (f *fakeCategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *fakeCategoryService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	f.lastName = name
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Category{ID: catUUID, Name: name}, nil
}

// fakeOrderService implements domain.OrderService for handler tests.
type fakeOrderService struct {
	err          error
	intakeResult *domain.IntakeResult
	checkoutURL  string
	eventOrders  []*domain.EventOrder
	page         *domain.OrderPage

	lastPayload   []byte
	lastSignature string
	lastEventID   string
	lastUserID    string
	lastSearch    string
	lastParams    domain.PaginationParams
}

func (f *fakeOrderService) Intake(ctx context.Context, payload []byte, signature string) (*domain.IntakeResult, error) {
	f.lastPayload, f.lastSignature = payload, signature
	return f.intakeResult, f.err
}

func (f *fakeOrderService) Checkout(ctx context.Context, eventID, buyerID string) (string, error) {
	f.lastEventID, f.lastUserID = eventID, buyerID
	if f.err != nil {
		return "", f.err
	}
	return f.checkoutURL, nil
}

func (f *fakeOrderService) ListOrdersByEvent(ctx context.Context, eventID, actorID, search string) ([]*domain.EventOrder, error) {
	f.lastEventID, f.lastUserID, f.lastSearch = eventID, actorID, search
	if f.err != nil {
		return nil, f.err
	}
	return f.eventOrders, nil
}

func (f *fakeOrderService) ListOrdersByUser(ctx context.Context, userID string, params domain.PaginationParams) (*domain.OrderPage, error) {
	f.lastUserID, f.lastParams = userID, params
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

// memOrderRepo is a minimal OrderRepository for the webhook round trip.
type memOrderRepo struct {
	mu       sync.Mutex
	byStripe map[string]domain.Order
}

func (m *memOrderRepo) CreateIfAbsent(ctx context.Context, o *domain.Order) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byStripe[o.StripeID]; ok {
		*o = existing
		return false, nil
	}
	o.ID = "ord-1"
	m.byStripe[o.StripeID] = *o
	return true, nil
}

func (m *memOrderRepo) GetByStripeID(ctx context.Context, stripeID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.byStripe[stripeID]; ok {
		return &o, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memOrderRepo) ListByEvent(ctx context.Context, eventID, search string) ([]*domain.EventOrder, error) {
	return nil, nil
}

func (m *memOrderRepo) ListByBuyer(ctx context.Context, buyerID string, params domain.PaginationParams) ([]*domain.UserOrder, int, error) {
	return nil, 0, nil
}

// missingEvents and missingUsers resolve nothing, so no confirmation is sent.
type missingEvents struct{ domain.EventRepository }

func (missingEvents) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return nil, domain.ErrNotFound
}

type missingUsers struct{}

func (missingUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}
