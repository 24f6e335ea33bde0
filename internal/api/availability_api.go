package api

import (
	"errors"
	"net/http"
	"strings"

	"barbearia/internal/availability"
	"barbearia/internal/format"
	"barbearia/internal/metrics"
	"barbearia/internal/schedule"
)

// availabilityResponse is the reply for GET /api/v1/availability.
type availabilityResponse struct {
	BarberID string              `json:"barber_id"`
	Date     string              `json:"date"`
	Slots    []schedule.SlotInfo `json:"slots"`
}

// handleAvailability returns the slot list for one barber, one day and a
// comma-separated set of service IDs.
// GET /api/v1/availability?barber_id=&date=&services=
func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	barberID := r.URL.Query().Get("barber_id")
	date := r.URL.Query().Get("date")
	services := splitList(r.URL.Query().Get("services"))

	if barberID == "" || date == "" || len(services) == 0 {
		writeError(w, http.StatusBadRequest, "barber_id, date and services are required")
		return
	}

	inWindow, err := format.DateInWindow(date, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date; expected YYYY-MM-DD")
		return
	}
	if !inWindow {
		writeError(w, http.StatusBadRequest, "date outside the booking window")
		return
	}

	slots, err := s.availability.DaySlots(r.Context(), barberID, date, services)
	switch {
	case errors.Is(err, availability.ErrUnknownService):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, schedule.ErrBadInterval), errors.Is(err, schedule.ErrBadConfig):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		s.logger.Error().Err(err).Str("barber_id", barberID).Str("date", date).Msg("availability failed")
		writeError(w, http.StatusInternalServerError, "unable to load available times")
		return
	}

	writeJSON(w, http.StatusOK, availabilityResponse{
		BarberID: barberID,
		Date:     date,
		Slots:    schedule.ToSlotInfo(slots),
	})
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
