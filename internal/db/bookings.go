package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"barbearia/internal/model"
)

// CreateBooking inserts a booking after rechecking, inside a transaction,
// that its time range is free of non-cancelled bookings and blocked ranges.
// The slot list shown to clients is advisory; this check decides.
func (db *DB) CreateBooking(ctx context.Context, b *model.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = model.StatusPending
	}
	if b.EndTime <= b.StartTime {
		return fmt.Errorf("%w: %s-%s", ErrInvalidRange, b.StartTime, b.EndTime)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Zero-padded HH:MM strings compare correctly as text. Half-open ranges:
	// touching bookings do not conflict.
	var conflicts int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE barber_id = ? AND date = ?
		  AND status IN (?, ?)
		  AND start_time < ? AND ? < end_time`,
		b.BarberID, b.Date,
		model.StatusPending, model.StatusConfirmed,
		b.EndTime, b.StartTime,
	).Scan(&conflicts)
	if err != nil {
		return fmt.Errorf("check booking conflicts: %w", err)
	}
	if conflicts == 0 {
		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM blocked_ranges
			WHERE barber_id = ? AND date = ?
			  AND start_time < ? AND ? < end_time`,
			b.BarberID, b.Date, b.EndTime, b.StartTime,
		).Scan(&conflicts)
		if err != nil {
			return fmt.Errorf("check block conflicts: %w", err)
		}
	}
	if conflicts > 0 {
		return ErrSlotTaken
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (id, barber_id, service_id, customer_name, customer_phone,
		                      date, start_time, end_time, price_cents, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.BarberID, b.ServiceID, b.CustomerName, nullable(b.CustomerPhone),
		b.Date, b.StartTime, b.EndTime, b.PriceCents, b.Status, nullable(b.Notes),
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	return tx.Commit()
}

// GetBooking returns one booking by ID.
func (db *DB) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, barber_id, service_id, customer_name, customer_phone,
		       date, start_time, end_time, price_cents, status, notes, created_at, updated_at
		FROM bookings WHERE id = ?`, id)
	return scanBooking(row)
}

// UpdateBookingStatus moves a booking to a new status.
func (db *DB) UpdateBookingStatus(ctx context.Context, id, status string) error {
	res, err := db.ExecContext(ctx, `
		UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDayBookings returns all bookings of one barber on one day, any status.
// The schedule collector filters cancelled ones itself.
func (db *DB) ListDayBookings(ctx context.Context, barberID, date string) ([]model.Booking, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, barber_id, service_id, customer_name, customer_phone,
		       date, start_time, end_time, price_cents, status, notes, created_at, updated_at
		FROM bookings
		WHERE barber_id = ? AND date = ?
		ORDER BY start_time`,
		barberID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("list day bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListBookingsBetween returns all bookings with date in [from, to],
// inclusive, ordered for reporting.
func (db *DB) ListBookingsBetween(ctx context.Context, from, to string) ([]model.Booking, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, barber_id, service_id, customer_name, customer_phone,
		       date, start_time, end_time, price_cents, status, notes, created_at, updated_at
		FROM bookings
		WHERE date >= ? AND date <= ?
		ORDER BY barber_id, date, start_time`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings between: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// DeleteOldBookings removes bookings whose day ended more than olderThan ago.
func (db *DB) DeleteOldBookings(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).Format("2006-01-02")
	res, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE date < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old bookings: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*model.Booking, error) {
	var b model.Booking
	var phone, notes sql.NullString
	err := row.Scan(
		&b.ID, &b.BarberID, &b.ServiceID, &b.CustomerName, &phone,
		&b.Date, &b.StartTime, &b.EndTime, &b.PriceCents, &b.Status, &notes,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	b.CustomerPhone = phone.String
	b.Notes = notes.String
	return &b, nil
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
