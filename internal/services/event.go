package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"evently/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	categoryRepo   domain.CategoryRepository
	userRepo       domain.UserRepository
	revalidator    domain.PathRevalidator
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	categoryRepo domain.CategoryRepository,
	userRepo domain.UserRepository,
	revalidator domain.PathRevalidator,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		categoryRepo:   categoryRepo,
		userRepo:       userRepo,
		revalidator:    revalidator,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// BuildEventPredicate turns the optional listing filters into a predicate.
// A category name that resolves to nothing yields MatchNone rather than
// dropping the filter.
func BuildEventPredicate(ctx context.Context, categories domain.CategoryRepository, filter domain.EventFilter) (domain.Predicate, error) {
	var preds []domain.Predicate
	if q := strings.TrimSpace(filter.Query); q != "" {
		preds = append(preds, domain.TitleContains{Text: q})
	}
	if name := strings.TrimSpace(filter.Category); name != "" {
		category, err := categories.FindByName(ctx, name)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return domain.MatchNone{}, nil
		case err != nil:
			return nil, fmt.Errorf("resolve category: %w", err)
		}
		preds = append(preds, domain.CategoryEquals{CategoryID: category.ID})
	}
	return domain.AllOf(preds...), nil
}

func (s *eventService) list(ctx context.Context, pred domain.Predicate, params domain.PaginationParams) (*domain.EventPage, error) {
	events, total, err := s.eventRepo.List(ctx, pred, params)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return &domain.EventPage{Data: events, TotalPages: params.TotalPages(total)}, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) (*domain.EventPage, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	pred, err := BuildEventPredicate(ctx, s.categoryRepo, filter)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, pred, params)
}

func (s *eventService) ListEventsByOrganizer(ctx context.Context, organizerID string, params domain.PaginationParams) (*domain.EventPage, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.list(ctx, domain.OrganizerEquals{OrganizerID: organizerID}, params)
}

func (s *eventService) ListRelatedEvents(ctx context.Context, categoryID, excludeEventID string, params domain.PaginationParams) (*domain.EventPage, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var pred domain.Predicate = domain.MatchNone{}
	if categoryID != "" {
		pred = domain.AllOf(domain.CategoryEquals{CategoryID: categoryID}, domain.IDNotEquals{ID: excludeEventID})
	}
	return s.list(ctx, pred, params)
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event, organizerID string) (*domain.Event, error) {
	if event == nil {
		return nil, fmt.Errorf("%w: event is required", domain.ErrValidation)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, organizerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("organizer %s: %w", organizerID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get organizer: %w", err)
	}

	now := time.Now().UTC()
	event.ID = ""
	event.OrganizerID = organizerID
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.IsFree {
		event.Price = ""
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	created, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("get created event: %w", err)
	}
	return created, nil
}

func (s *eventService) GetEventByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, event *domain.Event, requestingUserID, path string) (*domain.Event, error) {
	if event == nil {
		return nil, fmt.Errorf("%w: event is required", domain.ErrValidation)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	stored, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := domain.EnsureOrganizer(stored, requestingUserID); err != nil {
		return nil, err
	}

	event.OrganizerID = stored.OrganizerID
	event.CreatedAt = stored.CreatedAt
	event.UpdatedAt = time.Now().UTC()
	if event.IsFree {
		event.Price = ""
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	s.revalidate(ctx, path)

	updated, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("get updated event: %w", err)
	}
	return updated, nil
}

// DeleteEvent removes an event owned by requestingUserID. Deleting an event
// that does not exist succeeds without side effects.
func (s *eventService) DeleteEvent(ctx context.Context, id, requestingUserID, path string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	stored, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := domain.EnsureOrganizer(stored, requestingUserID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.revalidate(ctx, path)
	return nil
}

// revalidate is best effort. Failures are logged.
func (s *eventService) revalidate(ctx context.Context, path string) {
	if path == "" || s.revalidator == nil {
		return
	}
	if err := s.revalidator.Revalidate(ctx, path); err != nil {
		s.logger.WarnContext(ctx, "revalidate failed", "path", path, "err", err)
	}
}
