package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"barbearia/internal/db"
	"barbearia/internal/format"
	"barbearia/internal/metrics"
	"barbearia/internal/model"
	"barbearia/internal/notify"
)

// createBookingRequest is the body for POST /api/v1/bookings.
type createBookingRequest struct {
	BarberID      string `json:"barber_id"`
	ServiceID     string `json:"service_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	Date          string `json:"date"`       // YYYY-MM-DD
	StartTime     string `json:"start_time"` // HH:MM
	Notes         string `json:"notes,omitempty"`
}

// handleCreateBooking books a slot. The availability the client saw is
// advisory; the store rechecks the range at write time and a lost race comes
// back as 409.
// POST /api/v1/bookings
func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_create")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req createBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.BarberID == "" || req.ServiceID == "" || req.CustomerName == "" ||
		req.Date == "" || req.StartTime == "" {
		writeError(w, http.StatusBadRequest, "barber_id, service_id, customer_name, date and start_time are required")
		return
	}

	inWindow, err := format.DateInWindow(req.Date, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date; expected YYYY-MM-DD")
		return
	}
	if !inWindow {
		writeError(w, http.StatusBadRequest, "date outside the booking window")
		return
	}

	service, err := s.store.GetService(r.Context(), req.ServiceID)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "unknown service")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("load service failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	endTime, err := format.EndTime(req.StartTime, service.Minutes)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_time or the appointment would run past midnight")
		return
	}

	booking := &model.Booking{
		BarberID:      req.BarberID,
		ServiceID:     req.ServiceID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       endTime,
		PriceCents:    service.PriceCents,
		Status:        model.StatusPending,
		Notes:         req.Notes,
	}

	err = s.store.CreateBooking(r.Context(), booking)
	if errors.Is(err, db.ErrSlotTaken) {
		writeError(w, http.StatusConflict, "time slot already taken")
		return
	}
	if errors.Is(err, db.ErrInvalidRange) {
		writeError(w, http.StatusBadRequest, "invalid time range")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("create booking failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	metrics.IncBookingCreated(booking.Status)
	s.publish(r.Context(), notify.Invalidation{
		Kind:     notify.KindBookings,
		BarberID: booking.BarberID,
		Date:     booking.Date,
	})

	writeJSON(w, http.StatusCreated, booking)
}

// cancelBookingRequest is the body for POST /api/v1/bookings/cancel.
type cancelBookingRequest struct {
	ID string `json:"id"`
}

// handleCancelBooking cancels a booking; its slot frees immediately.
// POST /api/v1/bookings/cancel
func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_cancel")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req cancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "booking id is required")
		return
	}

	booking, err := s.store.GetBooking(r.Context(), req.ID)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("load booking failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if booking.Terminal() {
		writeError(w, http.StatusConflict, "booking already finished")
		return
	}

	if err := s.store.UpdateBookingStatus(r.Context(), req.ID, model.StatusCancelled); err != nil {
		s.logger.Error().Err(err).Msg("cancel booking failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	metrics.IncBookingCancelled()
	s.publish(r.Context(), notify.Invalidation{
		Kind:     notify.KindBookings,
		BarberID: booking.BarberID,
		Date:     booking.Date,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": model.StatusCancelled})
}
