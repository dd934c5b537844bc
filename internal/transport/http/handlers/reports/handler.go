package reportshandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"flpayroll/internal/domain/company"
	"flpayroll/internal/domain/ledger"
	"flpayroll/internal/domain/reports"
	"flpayroll/internal/domain/taxconfig"
	"flpayroll/internal/platform/metrics"
	"flpayroll/internal/transport/http/api"
	"flpayroll/internal/transport/http/middleware"
)

type Handler struct {
	Companies *company.Store
	Ledger    *ledger.Store
	Loader    *taxconfig.Loader
	Metrics   *metrics.Collector
}

func New(companies *company.Store, ledgerStore *ledger.Store, loader *taxconfig.Loader, collector *metrics.Collector) *Handler {
	return &Handler{Companies: companies, Ledger: ledgerStore, Loader: loader, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/941", h.Form941)
	r.Get("/reports/rt6", h.RT6)
	r.Get("/reports/rt6.csv", h.RT6CSV)
	r.Get("/reports/940", h.Form940)
	r.Get("/reports/w2/{employeeID}", h.W2)
}

func (h *Handler) Form941(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	year, quarter, ok := h.yearQuarter(w, r, reqID)
	if !ok {
		return
	}
	_, rows, ok := h.quarterRows(w, r, year, quarter, reqID)
	if !ok {
		return
	}

	summary := reports.Quarter941(rows, year, quarter)
	h.recordBuild()
	api.Success(w, map[string]any{"summary": summary, "lines": reports.Form941Lines}, reqID)
}

func (h *Handler) RT6(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	year, quarter, ok := h.yearQuarter(w, r, reqID)
	if !ok {
		return
	}
	c, rows, ok := h.quarterRows(w, r, year, quarter, reqID)
	if !ok {
		return
	}

	summary := reports.QuarterRT6(rows, year, quarter, c.SUTARate)
	h.recordBuild()
	api.Success(w, map[string]any{"summary": summary, "lines": reports.RT6Lines}, reqID)
}

func (h *Handler) RT6CSV(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	year, quarter, ok := h.yearQuarter(w, r, reqID)
	if !ok {
		return
	}
	c, rows, ok := h.quarterRows(w, r, year, quarter, reqID)
	if !ok {
		return
	}

	summary := reports.QuarterRT6(rows, year, quarter, c.SUTARate)
	data, err := reports.RT6DetailCSV(summary)
	if err != nil {
		h.internal(w, "rt6 csv", err, reqID)
		return
	}

	h.recordBuild()
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="rt6-detail.csv"`)
	_, _ = w.Write(data)
}

func (h *Handler) Form940(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "year query parameter is required", reqID)
		return
	}

	c, err := h.Companies.GetCompany(r.Context())
	if errors.Is(err, company.ErrCompanyNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "company is not configured yet", reqID)
		return
	}
	if err != nil {
		h.internal(w, "940", err, reqID)
		return
	}

	// FUTA parameters are annual, not per frequency; any frequency's
	// resolved config carries them.
	cfg, err := h.Loader.Resolve(year, taxconfig.FrequencyMonthly)
	if err != nil {
		h.writeConfigError(w, err, reqID)
		return
	}

	rows, err := h.Ledger.LatestForYear(r.Context(), c.ID, year)
	if err != nil {
		h.internal(w, "940", err, reqID)
		return
	}

	summary, err := reports.Year940(rows, year, cfg.FUTA.EmployerRate, cfg.FUTA.WageBase)
	if errors.Is(err, reports.ErrCapExceeded) {
		api.Fail(w, http.StatusConflict, "cap_exceeded", err.Error(), reqID)
		return
	}
	if err != nil {
		h.internal(w, "940", err, reqID)
		return
	}

	h.recordBuild()
	api.Success(w, map[string]any{"summary": summary, "lines": reports.Form940Lines}, reqID)
}

func (h *Handler) W2(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "year query parameter is required", reqID)
		return
	}

	c, err := h.Companies.GetCompany(r.Context())
	if errors.Is(err, company.ErrCompanyNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "company is not configured yet", reqID)
		return
	}
	if err != nil {
		h.internal(w, "w2", err, reqID)
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if _, err := h.Companies.GetEmployee(r.Context(), employeeID); errors.Is(err, company.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	} else if err != nil {
		h.internal(w, "w2", err, reqID)
		return
	}

	rows, err := h.Ledger.LatestForEmployeeYear(r.Context(), c.ID, employeeID, year)
	if err != nil {
		h.internal(w, "w2", err, reqID)
		return
	}

	boxes, err := reports.MapW2(rows)
	if errors.Is(err, reports.ErrInconsistentRate) {
		api.Fail(w, http.StatusConflict, "inconsistent_rate", err.Error(), reqID)
		return
	}
	if err != nil {
		h.internal(w, "w2", err, reqID)
		return
	}

	h.recordBuild()
	api.Success(w, boxes, reqID)
}

func (h *Handler) yearQuarter(w http.ResponseWriter, r *http.Request, reqID string) (int, int, bool) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "year query parameter is required", reqID)
		return 0, 0, false
	}
	quarter, err := strconv.Atoi(r.URL.Query().Get("quarter"))
	if err != nil || quarter < 1 || quarter > 4 {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "quarter must be between 1 and 4", reqID)
		return 0, 0, false
	}
	return year, quarter, true
}

func (h *Handler) quarterRows(w http.ResponseWriter, r *http.Request, year, quarter int, reqID string) (company.Company, []ledger.Row, bool) {
	c, err := h.Companies.GetCompany(r.Context())
	if errors.Is(err, company.ErrCompanyNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "company is not configured yet", reqID)
		return company.Company{}, nil, false
	}
	if err != nil {
		h.internal(w, "quarter rows", err, reqID)
		return company.Company{}, nil, false
	}

	rows, err := h.Ledger.LatestForQuarter(r.Context(), c.ID, year, quarter)
	if err != nil {
		h.internal(w, "quarter rows", err, reqID)
		return company.Company{}, nil, false
	}
	return c, rows, true
}

func (h *Handler) writeConfigError(w http.ResponseWriter, err error, reqID string) {
	var invalid *taxconfig.InvalidConfigError
	switch {
	case errors.Is(err, taxconfig.ErrConfigNotFound):
		api.Fail(w, http.StatusUnprocessableEntity, "config_not_found", err.Error(), reqID)
	case errors.As(err, &invalid):
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "config_invalid", invalid.Error(), invalid.Result, reqID)
	default:
		h.internal(w, "resolve config", err, reqID)
	}
}

func (h *Handler) recordBuild() {
	if h.Metrics != nil {
		h.Metrics.RecordReportBuild()
	}
}

func (h *Handler) internal(w http.ResponseWriter, op string, err error, reqID string) {
	slog.Error(op+" failed", "err", err, "requestId", reqID)
	api.Fail(w, http.StatusInternalServerError, "internal", "internal server error", reqID)
}
