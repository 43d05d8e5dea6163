package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"evently/internal/domain"
)

const selectUserByID = `
	SELECT id, email, username, first_name, last_name, photo
	FROM users
	WHERE id = $1`

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

// GetByID loads the buyer or organizer profile used on orders and events.
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var (
		u     domain.User
		photo sql.NullString
	)
	row := r.DB.QueryRowContext(ctx, selectUserByID, id)
	switch err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &photo); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, domain.ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	u.Photo = photo.String
	return &u, nil
}
