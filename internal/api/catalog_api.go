package api

import (
	"fmt"
	"net/http"
	"time"

	"barbearia/internal/format"
	"barbearia/internal/metrics"
	"barbearia/internal/model"
)

// serviceInfo decorates a service with its display strings.
type serviceInfo struct {
	model.Service
	Price    string `json:"price"`
	Duration string `json:"duration"`
}

// handleServices lists active services.
// GET /api/v1/services
func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("services")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	services, err := s.store.ListServices(r.Context(), true)
	if err != nil {
		s.logger.Error().Err(err).Msg("list services failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	infos := make([]serviceInfo, len(services))
	for i, svc := range services {
		infos[i] = serviceInfo{
			Service:  svc,
			Price:    format.Price(svc.PriceCents),
			Duration: format.Duration(svc.Minutes),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": infos})
}

// handleBarbers lists active barbers.
// GET /api/v1/barbers
func (s *Server) handleBarbers(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("barbers")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	barbers, err := s.store.ListBarbers(r.Context(), true)
	if err != nil {
		s.logger.Error().Err(err).Msg("list barbers failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"barbers": barbers})
}

// handleExport streams the monthly bookings workbook.
// GET /api/v1/admin/export?month=YYYY-MM
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusNotImplemented, "export disabled")
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = s.now().Format("2006-01")
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		writeError(w, http.StatusBadRequest, "invalid month; expected YYYY-MM")
		return
	}

	data, err := s.exporter.MonthlyReport(r.Context(), month)
	if err != nil {
		s.logger.Error().Err(err).Str("month", month).Msg("export failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=bookings-%s.xlsx", month))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
