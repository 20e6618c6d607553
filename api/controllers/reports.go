package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/sterlingmedical/medsupply-backend/api/responses"
	"github.com/sterlingmedical/medsupply-backend/internal/reports"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
	"github.com/sterlingmedical/medsupply-backend/pkg/logger"
)

func AdminProfitLossReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := reportWindow(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.ProfitLoss(r.Context(), window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func AdminProductMarginsReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := reportWindow(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ProductMargins(r.Context(), window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"products": rows})
	}
}

func AdminLowStockReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// reportWindow reads the from/to query parameters. The upper bound is
// exclusive so adjacent windows never overlap.
func reportWindow(r *http.Request) (reports.DateRangeInput, error) {
	from, err := parseReportTime(r.URL.Query().Get("from"), "from")
	if err != nil {
		return reports.DateRangeInput{}, err
	}
	to, err := parseReportTime(r.URL.Query().Get("to"), "to")
	if err != nil {
		return reports.DateRangeInput{}, err
	}
	return reports.DateRangeInput{From: from, To: to}, nil
}

func parseReportTime(raw, field string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "date range is required").
			WithDetails(map[string]any{"field": field})
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid date").
		WithDetails(map[string]any{"field": field})
}
