package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CategorySummary is the category projection joined onto an event.
type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OrganizerSummary is the user projection joined onto an event.
type OrganizerSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Event is a ticketed event. CategoryID and OrganizerID are the stored
// references; Category and Organizer are filled on read and stay nil when the
// reference no longer resolves.
// swagger:model Event
type Event struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Location      string            `json:"location"`
	ImageURL      string            `json:"imageUrl"`
	StartDateTime time.Time         `json:"startDateTime"`
	EndDateTime   time.Time         `json:"endDateTime"`
	Price         string            `json:"price"`
	IsFree        bool              `json:"isFree"`
	URL           string            `json:"url"`
	CategoryID    string            `json:"categoryId"`
	OrganizerID   string            `json:"organizerId"`
	Category      *CategorySummary  `json:"category"`
	Organizer     *OrganizerSummary `json:"organizer"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// Validate checks the fields required on create and update.
func (e *Event) Validate() error {
	var errs []string
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, "title is required")
	}
	if e.CategoryID == "" {
		errs = append(errs, "categoryId is required")
	}
	if !e.StartDateTime.IsZero() && !e.EndDateTime.IsZero() && e.EndDateTime.Before(e.StartDateTime) {
		errs = append(errs, "endDateTime must not be before startDateTime")
	}
	if !e.IsFree && e.Price != "" {
		if _, err := ParseMinorUnits(e.Price); err != nil {
			errs = append(errs, "price must be a decimal amount")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, "; "))
	}
	return nil
}

// EventPage is one page of events plus the total page count for the filter.
type EventPage struct {
	Data       []*Event `json:"data"`
	TotalPages int      `json:"totalPages"`
}

// EventFilter carries the optional free-text and category-name filters of the
// public listing.
type EventFilter struct {
	Query    string
	Category string
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	// Create inserts the event and sets its ID.
	Create(ctx context.Context, event *Event) error
	// GetByID returns the joined event or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Event, error)
	// List returns one page of joined events matching pred, newest first, and
	// the total number of matching events.
	List(ctx context.Context, pred Predicate, params PaginationParams) ([]*Event, int, error)
	// Update replaces all mutable fields. Returns ErrNotFound when no row matched.
	Update(ctx context.Context, event *Event) error
	// Delete removes the event. Returns ErrNotFound when no row matched.
	Delete(ctx context.Context, id string) error
}

// PathRevalidator tells the presentation layer that cached pages under path are stale.
// The path is opaque to the core.
type PathRevalidator interface {
	Revalidate(ctx context.Context, path string) error
}

// EventService defines the business logic for browsing and managing events.
type EventService interface {
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) (*EventPage, error)
	ListEventsByOrganizer(ctx context.Context, organizerID string, params PaginationParams) (*EventPage, error)
	ListRelatedEvents(ctx context.Context, categoryID, excludeEventID string, params PaginationParams) (*EventPage, error)
	CreateEvent(ctx context.Context, event *Event, organizerID string) (*Event, error)
	GetEventByID(ctx context.Context, id string) (*Event, error)
	UpdateEvent(ctx context.Context, event *Event, requestingUserID, path string) (*Event, error)
	DeleteEvent(ctx context.Context, id, requestingUserID, path string) error
}
