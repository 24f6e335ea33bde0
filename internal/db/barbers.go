package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"barbearia/internal/model"
)

// ListBarbers returns barbers, optionally only active ones, ordered by name.
func (db *DB) ListBarbers(ctx context.Context, activeOnly bool) ([]model.Barber, error) {
	query := `SELECT id, name, phone, specialties, active, created_at FROM barbers`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list barbers: %w", err)
	}
	defer rows.Close()

	var barbers []model.Barber
	for rows.Next() {
		var b model.Barber
		var phone, specialties sql.NullString
		if err := rows.Scan(&b.ID, &b.Name, &phone, &specialties, &b.Active, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan barber: %w", err)
		}
		b.Phone = phone.String
		b.Specialties = specialties.String
		barbers = append(barbers, b)
	}
	return barbers, rows.Err()
}

// GetBarber returns one barber by ID.
func (db *DB) GetBarber(ctx context.Context, id string) (*model.Barber, error) {
	var b model.Barber
	var phone, specialties sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, phone, specialties, active, created_at FROM barbers WHERE id = ?`, id,
	).Scan(&b.ID, &b.Name, &phone, &specialties, &b.Active, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get barber: %w", err)
	}
	b.Phone = phone.String
	b.Specialties = specialties.String
	return &b, nil
}

// CreateBarber inserts a barber, assigning an ID when absent.
func (db *DB) CreateBarber(ctx context.Context, b *model.Barber) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO barbers (id, name, phone, specialties, active)
		VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.Name, nullable(b.Phone), nullable(b.Specialties), b.Active,
	)
	if err != nil {
		return fmt.Errorf("create barber: %w", err)
	}
	return nil
}
