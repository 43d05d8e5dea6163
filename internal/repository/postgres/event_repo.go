package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"evently/internal/domain"
)

// eventSelect reads events with the category and organizer summaries joined.
// LEFT JOINs keep events whose references no longer resolve.
const eventSelect = `
		SELECT e.id, e.title, e.description, e.location, e.image_url, e.start_date_time, e.end_date_time,
			e.price, e.is_free, e.url, e.category_id, e.organizer_id, e.created_at, e.updated_at,
			c.id, c.name, u.id, u.first_name, u.last_name
		FROM events e
		LEFT JOIN categories c ON c.id = e.category_id
		LEFT JOIN users u ON u.id = e.organizer_id
`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var categoryRef, organizerRef sql.NullString
	var catID, catName, orgID, orgFirst, orgLast sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.ImageURL, &e.StartDateTime, &e.EndDateTime,
		&e.Price, &e.IsFree, &e.URL, &categoryRef, &organizerRef, &e.CreatedAt, &e.UpdatedAt,
		&catID, &catName, &orgID, &orgFirst, &orgLast,
	)
	if err != nil {
		return nil, err
	}
	e.CategoryID = categoryRef.String
	e.OrganizerID = organizerRef.String
	if catID.Valid {
		e.Category = &domain.CategorySummary{ID: catID.String, Name: catName.String}
	}
	if orgID.Valid {
		e.Organizer = &domain.OrganizerSummary{ID: orgID.String, FirstName: orgFirst.String, LastName: orgLast.String}
	}
	return e, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, location, image_url, start_date_time, end_date_time,
			price, is_free, url, category_id, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Location, e.ImageURL, e.StartDateTime, e.EndDateTime,
		e.Price, e.IsFree, e.URL, nullIfEmpty(e.CategoryID), nullIfEmpty(e.OrganizerID), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := eventSelect + `		WHERE e.id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, pred domain.Predicate, params domain.PaginationParams) ([]*domain.Event, int, error) {
	where, args, err := compilePredicate(pred, nil)
	if err != nil {
		return nil, 0, err
	}
	// MatchNone needs no round trip.
	if where == "FALSE" {
		return []*domain.Event{}, 0, nil
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM events e WHERE ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	n := len(args)
	query := eventSelect + fmt.Sprintf(`		WHERE %s
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT $%d OFFSET $%d`, where, n+1, n+2)
	args = append(args, params.PageSize, params.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events SET title = $1, description = $2, location = $3, image_url = $4,
			start_date_time = $5, end_date_time = $6, price = $7, is_free = $8, url = $9,
			category_id = $10, updated_at = $11
		WHERE id = $12
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.Title, e.Description, e.Location, e.ImageURL, e.StartDateTime, e.EndDateTime,
		e.Price, e.IsFree, e.URL, nullIfEmpty(e.CategoryID), e.UpdatedAt, e.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
