package orders

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var _ OrderRepository = (*Repository)(nil)

// DB is the subset of pgxpool.Pool the repository uses. Tests substitute a
// mock connection through it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository handles order database operations
type Repository struct {
	db DB
}

// NewRepository creates a new order repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

const orderColumns = `
	id, user_id, customer_name, email, phone, delivery_address,
	items, subtotal, tax, delivery_fee, total, status,
	risk_score, risk_issues, requires_confirmation,
	notes, created_at, updated_at`

// Create inserts a new order
func (r *Repository) Create(ctx context.Context, order *Order) error {
	itemsJSON, _ := json.Marshal(order.Items)
	issuesJSON, _ := json.Marshal(order.RiskIssues)

	query := `
		INSERT INTO orders (
			id, user_id, customer_name, email, phone, delivery_address,
			items, subtotal, tax, delivery_fee, total, status,
			risk_score, risk_issues, requires_confirmation,
			notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.db.Exec(ctx, query,
		order.ID, order.UserID, order.CustomerName, order.Email, order.Phone, order.DeliveryAddress,
		itemsJSON, order.Subtotal, order.Tax, order.DeliveryFee, order.Total, order.Status,
		order.RiskScore, issuesJSON, order.RequiresConfirmation,
		order.Notes, order.CreatedAt, order.UpdatedAt,
	)
	return err
}

// GetByID gets an order by ID
func (r *Repository) GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var order Order
	var itemsJSON, issuesJSON []byte
	err := r.db.QueryRow(ctx, query, orderID).Scan(
		&order.ID, &order.UserID, &order.CustomerName, &order.Email, &order.Phone, &order.DeliveryAddress,
		&itemsJSON, &order.Subtotal, &order.Tax, &order.DeliveryFee, &order.Total, &order.Status,
		&order.RiskScore, &issuesJSON, &order.RequiresConfirmation,
		&order.Notes, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	_ = json.Unmarshal(itemsJSON, &order.Items)
	_ = json.Unmarshal(issuesJSON, &order.RiskIssues)

	return &order, nil
}

// ListByUser lists orders placed by a user, newest first
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Order, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	return orders, total, err
}

// List lists all orders, optionally filtered by status, newest first
func (r *Repository) List(ctx context.Context, status *Status, limit, offset int) ([]*Order, int64, error) {
	var total int64
	var err error
	if status != nil {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`, *status).Scan(&total)
	} else {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total)
	}
	if err != nil {
		return nil, 0, err
	}

	var rows pgx.Rows
	if status != nil {
		rows, err = r.db.Query(ctx, `SELECT `+orderColumns+`
			FROM orders WHERE status = $1
			ORDER BY created_at DESC LIMIT $2 OFFSET $3`, *status, limit, offset)
	} else {
		rows, err = r.db.Query(ctx, `SELECT `+orderColumns+`
			FROM orders
			ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	return orders, total, err
}

// UpdateStatus updates the status of an order
func (r *Repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, status, orderID)
	return err
}

// CountOrdersForUser counts orders a user placed since the given time. This
// is the frequency signal consumed by the risk evaluator. It tracks
// submissions, not outcomes: rejected orders count too.
func (r *Repository) CountOrdersForUser(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders
		WHERE user_id = $1 AND created_at >= $2
	`, userID, since).Scan(&count)
	return count, err
}

func scanOrders(rows pgx.Rows) ([]*Order, error) {
	var orders []*Order
	for rows.Next() {
		var order Order
		var itemsJSON, issuesJSON []byte
		err := rows.Scan(
			&order.ID, &order.UserID, &order.CustomerName, &order.Email, &order.Phone, &order.DeliveryAddress,
			&itemsJSON, &order.Subtotal, &order.Tax, &order.DeliveryFee, &order.Total, &order.Status,
			&order.RiskScore, &issuesJSON, &order.RequiresConfirmation,
			&order.Notes, &order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			continue
		}
		_ = json.Unmarshal(itemsJSON, &order.Items)
		_ = json.Unmarshal(issuesJSON, &order.RiskIssues)
		orders = append(orders, &order)
	}
	return orders, nil
}
