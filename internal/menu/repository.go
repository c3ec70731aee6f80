package menu

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ ItemRepository = (*Repository)(nil)

// Repository handles menu database operations
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new menu repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const itemColumns = `
	id, name, name_zh, description, description_zh, price, category, image_url,
	is_available, spicy_level, is_vegetarian, is_gluten_free, created_at, updated_at`

// Create inserts a new menu item
func (r *Repository) Create(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO menu_items (
			id, name, name_zh, description, description_zh, price, category, image_url,
			is_available, spicy_level, is_vegetarian, is_gluten_free, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		item.ID, item.Name, item.NameZh, item.Description, item.DescriptionZh,
		item.Price, item.Category, item.ImageURL, item.IsAvailable,
		item.SpicyLevel, item.IsVegetarian, item.IsGlutenFree,
		item.CreatedAt, item.UpdatedAt,
	)
	return err
}

// GetByID gets a menu item by ID
func (r *Repository) GetByID(ctx context.Context, itemID uuid.UUID) (*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM menu_items WHERE id = $1`

	var item Item
	err := r.db.QueryRow(ctx, query, itemID).Scan(
		&item.ID, &item.Name, &item.NameZh, &item.Description, &item.DescriptionZh,
		&item.Price, &item.Category, &item.ImageURL, &item.IsAvailable,
		&item.SpicyLevel, &item.IsVegetarian, &item.IsGlutenFree,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List lists menu items, optionally filtered by category. When
// includeUnavailable is false only orderable dishes are returned.
func (r *Repository) List(ctx context.Context, category *Category, includeUnavailable bool) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM menu_items WHERE 1=1`
	args := []interface{}{}

	if category != nil {
		args = append(args, *category)
		query += ` AND category = $1`
	}
	if !includeUnavailable {
		query += ` AND is_available = true`
	}
	query += ` ORDER BY category, name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

// Update replaces a menu item's mutable fields
func (r *Repository) Update(ctx context.Context, item *Item) error {
	query := `
		UPDATE menu_items SET
			name = $1, name_zh = $2, description = $3, description_zh = $4,
			price = $5, category = $6, image_url = $7,
			is_available = $8, spicy_level = $9, is_vegetarian = $10,
			is_gluten_free = $11, updated_at = NOW()
		WHERE id = $12
	`

	_, err := r.db.Exec(ctx, query,
		item.Name, item.NameZh, item.Description, item.DescriptionZh,
		item.Price, item.Category, item.ImageURL,
		item.IsAvailable, item.SpicyLevel, item.IsVegetarian, item.IsGlutenFree,
		item.ID,
	)
	return err
}

// Delete removes a menu item
func (r *Repository) Delete(ctx context.Context, itemID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, itemID)
	return err
}

func scanItems(rows pgx.Rows) ([]*Item, error) {
	var items []*Item
	for rows.Next() {
		var item Item
		err := rows.Scan(
			&item.ID, &item.Name, &item.NameZh, &item.Description, &item.DescriptionZh,
			&item.Price, &item.Category, &item.ImageURL, &item.IsAvailable,
			&item.SpicyLevel, &item.IsVegetarian, &item.IsGlutenFree,
			&item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			continue
		}
		items = append(items, &item)
	}
	return items, nil
}
