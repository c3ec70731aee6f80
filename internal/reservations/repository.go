package reservations

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ ReservationRepository = (*Repository)(nil)

// Repository handles reservation database operations
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new reservation repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const reservationColumns = `
	id, user_id, name, email, phone, date, time, party_size,
	status, special_requests, reminder_sent_at, created_at, updated_at`

// Create inserts a new reservation
func (r *Repository) Create(ctx context.Context, reservation *Reservation) error {
	query := `
		INSERT INTO reservations (
			id, user_id, name, email, phone, date, time, party_size,
			status, special_requests, reminder_sent_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		reservation.ID, reservation.UserID, reservation.Name, reservation.Email,
		reservation.Phone, reservation.Date, reservation.Time, reservation.PartySize,
		reservation.Status, reservation.SpecialRequests, reservation.ReminderSentAt,
		reservation.CreatedAt, reservation.UpdatedAt,
	)
	return err
}

// GetByID gets a reservation by ID
func (r *Repository) GetByID(ctx context.Context, reservationID uuid.UUID) (*Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	var reservation Reservation
	err := r.db.QueryRow(ctx, query, reservationID).Scan(
		&reservation.ID, &reservation.UserID, &reservation.Name, &reservation.Email,
		&reservation.Phone, &reservation.Date, &reservation.Time, &reservation.PartySize,
		&reservation.Status, &reservation.SpecialRequests, &reservation.ReminderSentAt,
		&reservation.CreatedAt, &reservation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ListByUser lists a user's reservations, upcoming first
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Reservation, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE user_id = $1
		ORDER BY date DESC, time DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reservations, err := scanReservations(rows)
	return reservations, total, err
}

// ListByDate lists all reservations on a calendar day, earliest slot first
func (r *Repository) ListByDate(ctx context.Context, date string) ([]*Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE date = $1
		ORDER BY time ASC`

	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReservations(rows)
}

// GetConfirmedForDate lists confirmed reservations on a calendar day that
// have not been reminded yet. Consumed by the reminder worker.
func (r *Repository) GetConfirmedForDate(ctx context.Context, date string) ([]*Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE date = $1 AND status = 'confirmed' AND reminder_sent_at IS NULL
		ORDER BY time ASC`

	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReservations(rows)
}

// UpdateStatus updates the status of a reservation
func (r *Repository) UpdateStatus(ctx context.Context, reservationID uuid.UUID, status Status) error {
	query := `UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, status, reservationID)
	return err
}

// MarkReminderSent records that the reminder for a reservation went out
func (r *Repository) MarkReminderSent(ctx context.Context, reservationID uuid.UUID) error {
	query := `UPDATE reservations SET reminder_sent_at = NOW(), updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, reservationID)
	return err
}

func scanReservations(rows pgx.Rows) ([]*Reservation, error) {
	var reservations []*Reservation
	for rows.Next() {
		var reservation Reservation
		err := rows.Scan(
			&reservation.ID, &reservation.UserID, &reservation.Name, &reservation.Email,
			&reservation.Phone, &reservation.Date, &reservation.Time, &reservation.PartySize,
			&reservation.Status, &reservation.SpecialRequests, &reservation.ReminderSentAt,
			&reservation.CreatedAt, &reservation.UpdatedAt,
		)
		if err != nil {
			continue
		}
		reservations = append(reservations, &reservation)
	}
	return reservations, nil
}
