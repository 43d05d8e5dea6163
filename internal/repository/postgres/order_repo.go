package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"evently/internal/domain"
)

type orderRepository struct {
	DB *sql.DB
}

// NewOrderRepository returns a domain.OrderRepository implemented with Postgres.
// orders.stripe_id carries a unique index; CreateIfAbsent relies on it.
func NewOrderRepository(db *sql.DB) domain.OrderRepository {
	return &orderRepository{DB: db}
}

func (r *orderRepository) CreateIfAbsent(ctx context.Context, o *domain.Order) (bool, error) {
	query := `
		INSERT INTO orders (stripe_id, event_id, buyer_id, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (stripe_id) DO NOTHING
		RETURNING id, created_at
	`
	err := r.DB.QueryRowContext(ctx, query, o.StripeID, o.EventID, o.BuyerID, o.TotalAmount, o.CreatedAt).
		Scan(&o.ID, &o.CreatedAt)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	// Conflict: another delivery of the same notification got there first.
	existing, err := r.GetByStripeID(ctx, o.StripeID)
	if err != nil {
		return false, fmt.Errorf("read existing order: %w", err)
	}
	*o = *existing
	return false, nil
}

func (r *orderRepository) GetByStripeID(ctx context.Context, stripeID string) (*domain.Order, error) {
	query := `
		SELECT id, stripe_id, event_id, buyer_id, total_amount, created_at
		FROM orders
		WHERE stripe_id = $1
	`
	o := &domain.Order{}
	err := r.DB.QueryRowContext(ctx, query, stripeID).
		Scan(&o.ID, &o.StripeID, &o.EventID, &o.BuyerID, &o.TotalAmount, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) ListByEvent(ctx context.Context, eventID, search string) ([]*domain.EventOrder, error) {
	query := `
		SELECT o.id, o.total_amount, o.created_at, COALESCE(e.title, ''), o.event_id,
			COALESCE(u.first_name || ' ' || u.last_name, '')
		FROM orders o
		LEFT JOIN events e ON e.id::text = o.event_id
		LEFT JOIN users u ON u.id::text = o.buyer_id
		WHERE o.event_id = $1
	`
	args := []any{eventID}
	if search != "" {
		query += `		AND (u.first_name || ' ' || u.last_name) ILIKE $2
`
		args = append(args, containsPattern(search))
	}
	query += `		ORDER BY o.created_at DESC, o.id DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*domain.EventOrder, 0)
	for rows.Next() {
		var o domain.EventOrder
		if err := rows.Scan(&o.ID, &o.TotalAmount, &o.CreatedAt, &o.EventTitle, &o.EventID, &o.Buyer); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// nullableEvent receives the event side of an orders LEFT JOIN, where every
// column may be NULL once the event is gone.
type nullableEvent struct {
	ID, Title, Description, Location, ImageURL, Price, URL sql.NullString
	CategoryID, OrganizerID                                sql.NullString
	StartDateTime, EndDateTime, CreatedAt, UpdatedAt       sql.NullTime
	IsFree                                                 sql.NullBool
	CatID, CatName, OrgID, OrgFirst, OrgLast               sql.NullString
}

func (n *nullableEvent) dest() []any {
	return []any{
		&n.ID, &n.Title, &n.Description, &n.Location, &n.ImageURL, &n.StartDateTime, &n.EndDateTime,
		&n.Price, &n.IsFree, &n.URL, &n.CategoryID, &n.OrganizerID, &n.CreatedAt, &n.UpdatedAt,
		&n.CatID, &n.CatName, &n.OrgID, &n.OrgFirst, &n.OrgLast,
	}
}

func (n *nullableEvent) event() *domain.Event {
	if !n.ID.Valid {
		return nil
	}
	e := &domain.Event{
		ID:            n.ID.String,
		Title:         n.Title.String,
		Description:   n.Description.String,
		Location:      n.Location.String,
		ImageURL:      n.ImageURL.String,
		StartDateTime: n.StartDateTime.Time,
		EndDateTime:   n.EndDateTime.Time,
		Price:         n.Price.String,
		IsFree:        n.IsFree.Bool,
		URL:           n.URL.String,
		CategoryID:    n.CategoryID.String,
		OrganizerID:   n.OrganizerID.String,
		CreatedAt:     n.CreatedAt.Time,
		UpdatedAt:     n.UpdatedAt.Time,
	}
	if n.CatID.Valid {
		e.Category = &domain.CategorySummary{ID: n.CatID.String, Name: n.CatName.String}
	}
	if n.OrgID.Valid {
		e.Organizer = &domain.OrganizerSummary{ID: n.OrgID.String, FirstName: n.OrgFirst.String, LastName: n.OrgLast.String}
	}
	return e
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID string, params domain.PaginationParams) ([]*domain.UserOrder, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE buyer_id = $1`, buyerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := `
		SELECT o.id, o.stripe_id, o.event_id, o.buyer_id, o.total_amount, o.created_at,
			e.id, e.title, e.description, e.location, e.image_url, e.start_date_time, e.end_date_time,
			e.price, e.is_free, e.url, e.category_id, e.organizer_id, e.created_at, e.updated_at,
			c.id, c.name, u.id, u.first_name, u.last_name
		FROM orders o
		LEFT JOIN events e ON e.id::text = o.event_id
		LEFT JOIN categories c ON c.id = e.category_id
		LEFT JOIN users u ON u.id = e.organizer_id
		WHERE o.buyer_id = $1
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, buyerID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.UserOrder, 0)
	for rows.Next() {
		var (
			o  domain.UserOrder
			ev nullableEvent
		)
		dest := append([]any{&o.ID, &o.StripeID, &o.EventID, &o.BuyerID, &o.TotalAmount, &o.CreatedAt}, ev.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, err
		}
		o.Event = ev.event()
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
