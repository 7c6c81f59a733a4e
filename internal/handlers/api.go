package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aymerigermain/dashboard-acadi/internal/errors"
	"github.com/aymerigermain/dashboard-acadi/internal/observability"
	"github.com/aymerigermain/dashboard-acadi/internal/services"
)

type APIHandlers struct {
	stats  *services.Stats
	logger *slog.Logger
}

func NewAPIHandlers(stats *services.Stats, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		stats:  stats,
		logger: logger,
	}
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.ComputeStats(r.Context())
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccess(w, stats)
}

func (h *APIHandlers) HandlePayments(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	dateRange, err := parseDateRange(r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid date range"), requestID)
		return
	}

	payments, err := h.stats.ListPayments(r.Context(), dateRange)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	errors.WriteSuccess(w, payments)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleAdminStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.stats.Describe())
}

// parseDateRange accepts calendar dates or RFC 3339 timestamps; empty
// values leave that bound open.
func parseDateRange(start, end string) (services.DateRange, error) {
	var dr services.DateRange

	if start != "" {
		t, err := parseDate(start)
		if err != nil {
			return services.DateRange{}, fmt.Errorf("startDate: %w", err)
		}
		dr.Start = t
	}
	if end != "" {
		t, err := parseDate(end)
		if err != nil {
			return services.DateRange{}, fmt.Errorf("endDate: %w", err)
		}
		dr.End = t
	}

	return dr, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
