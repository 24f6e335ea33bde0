package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"barbearia/internal/model"
)

// GetSettings returns the single shop-settings row, seeding defaults when
// none exists yet.
func (db *DB) GetSettings(ctx context.Context) (*model.ShopSettings, error) {
	var s model.ShopSettings
	var closedMessage, lunchStart, lunchEnd sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT id, open, closed_message, opens_at, closes_at,
		       lunch_start, lunch_end, slot_minutes, working_days, max_advance_days
		FROM shop_settings LIMIT 1`,
	).Scan(
		&s.ID, &s.Open, &closedMessage, &s.OpensAt, &s.ClosesAt,
		&lunchStart, &lunchEnd, &s.SlotMinutes, &s.WorkingDays, &s.MaxAdvanceDays,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return db.seedSettings(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	s.ClosedMessage = closedMessage.String
	s.LunchStart = lunchStart.String
	s.LunchEnd = lunchEnd.String
	return &s, nil
}

func (db *DB) seedSettings(ctx context.Context) (*model.ShopSettings, error) {
	s := &model.ShopSettings{
		ID:             uuid.NewString(),
		Open:           true,
		OpensAt:        "09:00",
		ClosesAt:       "19:00",
		SlotMinutes:    20,
		WorkingDays:    "mon,tue,wed,thu,fri,sat",
		MaxAdvanceDays: 15,
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO shop_settings (id, open, opens_at, closes_at, slot_minutes, working_days, max_advance_days)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Open, s.OpensAt, s.ClosesAt, s.SlotMinutes, s.WorkingDays, s.MaxAdvanceDays,
	)
	if err != nil {
		return nil, fmt.Errorf("seed settings: %w", err)
	}
	return s, nil
}

// UpdateSettings replaces the shop-settings row.
func (db *DB) UpdateSettings(ctx context.Context, s *model.ShopSettings) error {
	res, err := db.ExecContext(ctx, `
		UPDATE shop_settings
		SET open = ?, closed_message = ?, opens_at = ?, closes_at = ?,
		    lunch_start = ?, lunch_end = ?, slot_minutes = ?, working_days = ?, max_advance_days = ?
		WHERE id = ?`,
		s.Open, nullable(s.ClosedMessage), s.OpensAt, s.ClosesAt,
		nullable(s.LunchStart), nullable(s.LunchEnd), s.SlotMinutes, s.WorkingDays, s.MaxAdvanceDays,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
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

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
