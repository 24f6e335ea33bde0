package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"barbearia/internal/model"
)

// CreateBlock inserts a blocked range, assigning an ID when absent.
func (db *DB) CreateBlock(ctx context.Context, blk *model.BlockedRange) error {
	if blk.ID == "" {
		blk.ID = uuid.NewString()
	}
	if blk.EndTime <= blk.StartTime {
		return fmt.Errorf("%w: %s-%s", ErrInvalidRange, blk.StartTime, blk.EndTime)
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO blocked_ranges (id, barber_id, date, start_time, end_time, reason)
		VALUES (?, ?, ?, ?, ?, ?)`,
		blk.ID, blk.BarberID, blk.Date, blk.StartTime, blk.EndTime, nullable(blk.Reason),
	)
	if err != nil {
		return fmt.Errorf("create block: %w", err)
	}
	return nil
}

// DeleteBlock removes a blocked range.
func (db *DB) DeleteBlock(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM blocked_ranges WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
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

// ListDayBlocks returns all blocked ranges of one barber on one day.
func (db *DB) ListDayBlocks(ctx context.Context, barberID, date string) ([]model.BlockedRange, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, barber_id, date, start_time, end_time, reason, created_at
		FROM blocked_ranges
		WHERE barber_id = ? AND date = ?
		ORDER BY start_time`,
		barberID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("list day blocks: %w", err)
	}
	defer rows.Close()

	var blocks []model.BlockedRange
	for rows.Next() {
		var blk model.BlockedRange
		var reason sql.NullString
		if err := rows.Scan(&blk.ID, &blk.BarberID, &blk.Date, &blk.StartTime, &blk.EndTime, &reason, &blk.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blk.Reason = reason.String
		blocks = append(blocks, blk)
	}
	return blocks, rows.Err()
}
