package db

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Backup periodically copies the SQLite file aside and prunes old copies.
// WAL checkpoints on close, so a plain file copy of a quiesced database is
// enough for this workload.
type Backup struct {
	dbPath        string
	dir           string
	retentionDays int
	interval      time.Duration
	logger        zerolog.Logger
}

// NewBackup configures a backup loop for the database at dbPath.
func NewBackup(dbPath, dir string, retentionDays int, logger zerolog.Logger) *Backup {
	return &Backup{
		dbPath:        dbPath,
		dir:           dir,
		retentionDays: retentionDays,
		interval:      24 * time.Hour,
		logger:        logger.With().Str("component", "backup").Logger(),
	}
}

// Run takes a snapshot immediately, then once per interval until the context
// is cancelled.
func (b *Backup) Run(ctx context.Context) {
	if err := b.Snapshot(); err != nil {
		b.logger.Error().Err(err).Msg("initial backup failed")
	}

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.Snapshot(); err != nil {
				b.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			b.prune()
		}
	}
}

// Snapshot copies the database file into the backup directory.
func (b *Backup) Snapshot() error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("backup_%s.db", time.Now().Format("20060102_150405"))
	path := filepath.Join(b.dir, name)

	src, err := os.Open(b.dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy database: %w", err)
	}

	b.logger.Info().Str("path", path).Msg("backup written")
	return nil
}

func (b *Backup) prune() {
	if b.retentionDays <= 0 {
		return
	}

	entries, err := os.ReadDir(b.dir)
	if err != nil {
		b.logger.Error().Err(err).Msg("read backup dir failed")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -b.retentionDays)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			b.logger.Info().Str("file", entry.Name()).Msg("pruning old backup")
			_ = os.Remove(filepath.Join(b.dir, entry.Name()))
		}
	}
}
