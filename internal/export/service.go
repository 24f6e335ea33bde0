// Package export builds monthly booking reports and prunes old records.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"barbearia/internal/format"
	"barbearia/internal/model"
)

// Store is the persistence the exporter reads and prunes.
type Store interface {
	ListBookingsBetween(ctx context.Context, from, to string) ([]model.Booking, error)
	ListBarbers(ctx context.Context, activeOnly bool) ([]model.Barber, error)
	ListServices(ctx context.Context, activeOnly bool) ([]model.Service, error)
	DeleteOldBookings(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Config tunes the exporter.
type Config struct {
	// RetentionDays is how many days of past bookings to keep. Zero
	// disables cleanup.
	RetentionDays int
	// CleanupInterval is how often cleanup runs. Default: 24h.
	CleanupInterval time.Duration
}

// Service produces reports and runs retention cleanup.
type Service struct {
	config    Config
	store     Store
	newWriter func() ExcelWriter
	logger    zerolog.Logger
}

// NewService creates the exporter. newWriter defaults to excelize.
func NewService(config Config, store Store, newWriter func() ExcelWriter, logger zerolog.Logger) *Service {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 24 * time.Hour
	}
	if newWriter == nil {
		newWriter = NewExcelizeWriter
	}
	return &Service{
		config:    config,
		store:     store,
		newWriter: newWriter,
		logger:    logger.With().Str("component", "export").Logger(),
	}
}

var reportColumns = []string{"Date", "Start", "End", "Customer", "Phone", "Service", "Price", "Status"}

// MonthlyReport builds an xlsx workbook of one month's bookings, one sheet
// per barber.
func (s *Service) MonthlyReport(ctx context.Context, month string) ([]byte, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, fmt.Errorf("parse month %q: %w", month, err)
	}
	from := start.Format(format.DateLayout)
	to := start.AddDate(0, 1, -1).Format(format.DateLayout)

	bookings, err := s.store.ListBookingsBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	barbers, err := s.store.ListBarbers(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list barbers: %w", err)
	}
	services, err := s.store.ListServices(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	serviceNames := make(map[string]string, len(services))
	for _, svc := range services {
		serviceNames[svc.ID] = svc.Name
	}

	byBarber := make(map[string][]model.Booking)
	for _, b := range bookings {
		byBarber[b.BarberID] = append(byBarber[b.BarberID], b)
	}

	writer := s.newWriter()
	wrote := false
	for _, barber := range barbers {
		rows := byBarber[barber.ID]
		if len(rows) == 0 {
			continue
		}
		if err := s.writeBarberSheet(writer, barber.Name, rows, serviceNames); err != nil {
			return nil, err
		}
		wrote = true
	}
	if !wrote {
		if err := s.writeBarberSheet(writer, "Bookings", nil, serviceNames); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Str("month", month).Int("bookings", len(bookings)).Msg("report built")
	return writer.Bytes()
}

func (s *Service) writeBarberSheet(writer ExcelWriter, name string, bookings []model.Booking, serviceNames map[string]string) error {
	if err := writer.AddSheet(name); err != nil {
		return err
	}
	if err := writer.WriteHeader(reportColumns); err != nil {
		return err
	}
	for _, b := range bookings {
		serviceName := serviceNames[b.ServiceID]
		if serviceName == "" {
			serviceName = b.ServiceID
		}
		row := []any{
			b.Date, b.StartTime, b.EndTime,
			b.CustomerName, b.CustomerPhone,
			serviceName, format.Price(b.PriceCents), b.Status,
		}
		if err := writer.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

// Run performs retention cleanup on a ticker until the context is cancelled.
// It is a no-op when retention is disabled.
func (s *Service) Run(ctx context.Context) {
	if s.config.RetentionDays <= 0 {
		return
	}

	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			olderThan := time.Duration(s.config.RetentionDays) * 24 * time.Hour
			deleted, err := s.store.DeleteOldBookings(ctx, olderThan)
			if err != nil {
				s.logger.Error().Err(err).Msg("cleanup failed")
				continue
			}
			if deleted > 0 {
				s.logger.Info().Int64("deleted", deleted).Msg("old bookings removed")
			}
		}
	}
}
