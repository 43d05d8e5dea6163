package domain

import "context"

// Category groups events. Names are unique regardless of case.
// swagger:model Category
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryRepository defines storage for categories.
type CategoryRepository interface {
	// Create inserts the category and sets its ID. Returns ErrDuplicateCategory on a name clash.
	Create(ctx context.Context, category *Category) error
	List(ctx context.Context) ([]*Category, error)
	// FindByName resolves a category by case-insensitive name, preferring an
	// exact match over a substring match. Returns ErrNotFound when nothing matches.
	FindByName(ctx context.Context, name string) (*Category, error)
}

// CategoryService defines the business logic for categories.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]*Category, error)
	CreateCategory(ctx context.Context, name string) (*Category, error)
}
