package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"barbearia/internal/model"
)

// ListServices returns services, optionally only active ones, ordered by name.
func (db *DB) ListServices(ctx context.Context, activeOnly bool) ([]model.Service, error) {
	query := `SELECT id, name, minutes, price_cents, active, created_at FROM services`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Minutes, &s.PriceCents, &s.Active, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// GetService returns one service by ID.
func (db *DB) GetService(ctx context.Context, id string) (*model.Service, error) {
	var s model.Service
	err := db.QueryRowContext(ctx,
		`SELECT id, name, minutes, price_cents, active, created_at FROM services WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.Minutes, &s.PriceCents, &s.Active, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	return &s, nil
}

// ServiceDurations resolves the given service IDs to their lengths in
// minutes. Missing IDs are simply absent from the map; the schedule collector
// decides what to do about them.
func (db *DB) ServiceDurations(ctx context.Context, ids []string) (map[string]int, error) {
	durations := make(map[string]int, len(ids))
	if len(ids) == 0 {
		return durations, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, minutes FROM services WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("service durations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var minutes int
		if err := rows.Scan(&id, &minutes); err != nil {
			return nil, fmt.Errorf("scan duration: %w", err)
		}
		durations[id] = minutes
	}
	return durations, rows.Err()
}

// CreateService inserts a service, assigning an ID when absent.
func (db *DB) CreateService(ctx context.Context, s *model.Service) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO services (id, name, minutes, price_cents, active)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Minutes, s.PriceCents, s.Active,
	)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	return nil
}
