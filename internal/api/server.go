// Package api exposes the booking backend over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"barbearia/internal/model"
	"barbearia/internal/notify"
	"barbearia/internal/schedule"
)

// Availability computes day schedules.
type Availability interface {
	DaySlots(ctx context.Context, barberID, date string, serviceIDs []string) ([]schedule.Slot, error)
}

// Store is the persistence surface the API writes and reads through.
type Store interface {
	ListServices(ctx context.Context, activeOnly bool) ([]model.Service, error)
	GetService(ctx context.Context, id string) (*model.Service, error)
	ListBarbers(ctx context.Context, activeOnly bool) ([]model.Barber, error)
	CreateBooking(ctx context.Context, b *model.Booking) error
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id, status string) error
}

// Exporter produces the monthly bookings workbook.
type Exporter interface {
	MonthlyReport(ctx context.Context, month string) ([]byte, error)
}

// Publisher pushes change-feed invalidations after successful writes.
type Publisher interface {
	Publish(ctx context.Context, inv notify.Invalidation) error
}

// Server is the HTTP surface of the booking backend.
type Server struct {
	store        Store
	availability Availability
	exporter     Exporter
	publisher    Publisher
	limiter      *rate.Limiter
	logger       zerolog.Logger
	now          func() time.Time
}

// Config tunes the server.
type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewServer wires handlers and middleware. exporter and publisher may be nil.
func NewServer(store Store, avail Availability, exporter Exporter, publisher Publisher, cfg Config, logger zerolog.Logger) *Server {
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 50
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 100
	}
	return &Server{
		store:        store,
		availability: avail,
		exporter:     exporter,
		publisher:    publisher,
		limiter:      rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		logger:       logger.With().Str("component", "api").Logger(),
		now:          time.Now,
	}
}

// Handler returns the routed and wrapped http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/v1/availability", s.handleAvailability)
	mux.HandleFunc("/api/v1/services", s.handleServices)
	mux.HandleFunc("/api/v1/barbers", s.handleBarbers)
	mux.HandleFunc("/api/v1/bookings", s.handleCreateBooking)
	mux.HandleFunc("/api/v1/bookings/cancel", s.handleCancelBooking)
	mux.HandleFunc("/api/v1/admin/export", s.handleExport)
	return s.withRateLimit(s.withLogging(mux))
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) publish(ctx context.Context, inv notify.Invalidation) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, inv); err != nil {
		s.logger.Warn().Err(err).Str("kind", inv.Kind).Msg("publish invalidation failed")
	}
}
