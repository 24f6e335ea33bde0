// Package db is the SQLite store behind the booking service.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

var (
	// ErrNotFound marks a missing record.
	ErrNotFound = errors.New("not found")
	// ErrSlotTaken marks a write-time booking conflict. This check, not the
	// advisory slot list, is what prevents double-booking.
	ErrSlotTaken = errors.New("time slot already taken")
	// ErrInvalidRange marks a time range whose end is not after its start.
	// An inverted HH:MM text range can never match the overlap predicate,
	// so it must not reach the table.
	ErrInvalidRange = errors.New("invalid time range")
)

// DB wraps sql.DB for the shop store.
type DB struct {
	*sql.DB
}

// New opens the database at path and creates the schema if needed.
func New(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS barbers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT,
			specialties TEXT,
			active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS services (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			minutes INTEGER NOT NULL,
			price_cents INTEGER NOT NULL,
			active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			barber_id TEXT NOT NULL,
			service_id TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			customer_phone TEXT,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			price_cents INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (barber_id) REFERENCES barbers(id),
			FOREIGN KEY (service_id) REFERENCES services(id)
		)`,

		`CREATE TABLE IF NOT EXISTS blocked_ranges (
			id TEXT PRIMARY KEY,
			barber_id TEXT NOT NULL,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			reason TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (barber_id) REFERENCES barbers(id)
		)`,

		`CREATE TABLE IF NOT EXISTS shop_settings (
			id TEXT PRIMARY KEY,
			open BOOLEAN NOT NULL DEFAULT 1,
			closed_message TEXT,
			opens_at TEXT NOT NULL DEFAULT '09:00',
			closes_at TEXT NOT NULL DEFAULT '19:00',
			lunch_start TEXT,
			lunch_end TEXT,
			slot_minutes INTEGER NOT NULL DEFAULT 20,
			working_days TEXT NOT NULL DEFAULT 'mon,tue,wed,thu,fri,sat',
			max_advance_days INTEGER NOT NULL DEFAULT 15
		)`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_day ON bookings(barber_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_blocked_day ON blocked_ranges(barber_id, date)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}
