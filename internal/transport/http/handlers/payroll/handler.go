package payrollhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"flpayroll/internal/domain/company"
	"flpayroll/internal/domain/ledger"
	"flpayroll/internal/domain/reports"
	"flpayroll/internal/domain/taxconfig"
	"flpayroll/internal/domain/withholding"
	"flpayroll/internal/platform/metrics"
	"flpayroll/internal/transport/http/api"
	"flpayroll/internal/transport/http/middleware"
)

type Handler struct {
	Companies    *company.Store
	Ledger       *ledger.Store
	Loader       *taxconfig.Loader
	Metrics      *metrics.Collector
	ArtifactsDir string
}

func New(companies *company.Store, ledgerStore *ledger.Store, loader *taxconfig.Loader, collector *metrics.Collector, artifactsDir string) *Handler {
	return &Handler{
		Companies:    companies,
		Ledger:       ledgerStore,
		Loader:       loader,
		Metrics:      collector,
		ArtifactsDir: artifactsDir,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/payroll/runs", h.Run)
	r.Get("/payroll/rows/{rowID}", h.GetRow)
	r.Get("/payroll/rows/{rowID}/paystub", h.Paystub)
	r.Get("/payroll/employees/{employeeID}/rows", h.EmployeeRows)
}

type runRequest struct {
	EmployeeID      string `json:"employeeId"`
	Year            int    `json:"year"`
	Month           int    `json:"month"`
	PayDate         string `json:"payDate"`
	HoursWorked     string `json:"hoursWorked"`
	Bonus           string `json:"bonus"`
	Reimbursement   string `json:"reimbursement"`
	OtherDeductions string `json:"otherDeductions"`
	Recompute       bool   `json:"recompute"`
}

func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "invalid JSON body", reqID)
		return
	}
	if req.EmployeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "employeeId is required", reqID)
		return
	}
	if req.Month < 1 || req.Month > 12 {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "month must be between 1 and 12", reqID)
		return
	}
	if req.Year <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "year is required", reqID)
		return
	}

	payDate, err := time.Parse("2006-01-02", req.PayDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "payDate must be YYYY-MM-DD", reqID)
		return
	}

	input := withholding.RunInput{Year: req.Year, Month: req.Month}
	for _, amount := range []struct {
		name   string
		text   string
		target *decimal.Decimal
	}{
		{"hoursWorked", req.HoursWorked, &input.HoursWorked},
		{"bonus", req.Bonus, &input.Bonus},
		{"reimbursement", req.Reimbursement, &input.Reimbursement},
		{"otherDeductions", req.OtherDeductions, &input.OtherDeductions},
	} {
		if amount.text == "" {
			*amount.target = decimal.Zero
			continue
		}
		value, err := decimal.NewFromString(amount.text)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_request", amount.name+" must be a decimal number", reqID)
			return
		}
		if value.IsNegative() {
			api.Fail(w, http.StatusBadRequest, "invalid_request", amount.name+" cannot be negative", reqID)
			return
		}
		*amount.target = value
	}

	c, err := h.Companies.GetCompany(r.Context())
	if errors.Is(err, company.ErrCompanyNotFound) {
		api.Fail(w, http.StatusConflict, "no_company", "configure the company before running payroll", reqID)
		return
	}
	if err != nil {
		h.internal(w, "payroll run", err, reqID)
		return
	}

	employee, err := h.Companies.GetEmployee(r.Context(), req.EmployeeID)
	if errors.Is(err, company.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		h.internal(w, "payroll run", err, reqID)
		return
	}
	if !employee.Active {
		api.Fail(w, http.StatusConflict, "inactive_employee", "employee is inactive", reqID)
		return
	}

	cfg, err := h.Loader.Resolve(req.Year, employee.PayFrequency)
	if err != nil {
		h.writeConfigError(w, err, reqID)
		return
	}

	prior, err := h.Ledger.PriorYTD(r.Context(), c.ID, employee.ID, req.Year, req.Month)
	if err != nil {
		h.internal(w, "payroll run", err, reqID)
		return
	}

	computed, err := withholding.Compute(employee.PayProfile(), input, prior, cfg, c.SUTARate)
	if err != nil {
		h.writeComputeError(w, err, reqID)
		return
	}

	row := ledger.Row{
		CompanyID:   c.ID,
		EmployeeID:  employee.ID,
		Year:        req.Year,
		Month:       req.Month,
		PayDate:     payDate,
		HoursWorked: input.HoursWorked,
		LedgerRow:   computed,
	}
	saved, err := h.Ledger.Insert(r.Context(), row, req.Recompute)
	if errors.Is(err, ledger.ErrRowExists) {
		api.Fail(w, http.StatusConflict, "row_exists",
			"a ledger row already exists for this period; set recompute to supersede it", reqID)
		return
	}
	if err != nil {
		h.internal(w, "payroll run", err, reqID)
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordPayrollRun()
	}
	api.Created(w, saved, reqID)
}

func (h *Handler) GetRow(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	row, err := h.Ledger.Get(r.Context(), chi.URLParam(r, "rowID"))
	if errors.Is(err, ledger.ErrRowNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "ledger row not found", reqID)
		return
	}
	if err != nil {
		h.internal(w, "get row", err, reqID)
		return
	}
	api.Success(w, row, reqID)
}

func (h *Handler) EmployeeRows(w http.ResponseWriter, r *http.Request) {
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
		h.internal(w, "employee rows", err, reqID)
		return
	}

	rows, err := h.Ledger.LatestForEmployeeYear(r.Context(), c.ID, chi.URLParam(r, "employeeID"), year)
	if err != nil {
		h.internal(w, "employee rows", err, reqID)
		return
	}
	if rows == nil {
		rows = []ledger.Row{}
	}
	api.Success(w, rows, reqID)
}

func (h *Handler) Paystub(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	row, err := h.Ledger.Get(r.Context(), chi.URLParam(r, "rowID"))
	if errors.Is(err, ledger.ErrRowNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "ledger row not found", reqID)
		return
	}
	if err != nil {
		h.internal(w, "paystub", err, reqID)
		return
	}

	c, err := h.Companies.GetCompany(r.Context())
	if err != nil {
		h.internal(w, "paystub", err, reqID)
		return
	}
	employee, err := h.Companies.GetEmployee(r.Context(), row.EmployeeID)
	if err != nil {
		h.internal(w, "paystub", err, reqID)
		return
	}

	yearRows, err := h.Ledger.LatestForEmployeeYear(r.Context(), row.CompanyID, row.EmployeeID, row.Year)
	if err != nil {
		h.internal(w, "paystub", err, reqID)
		return
	}
	ytd := reports.BuildYTDLines(yearRows, row.Month)

	path := filepath.Join(h.ArtifactsDir, "paystubs", row.ID+".pdf")
	employeeName := employee.FirstName + " " + employee.LastName
	if err := reports.GeneratePaystubPDF(path, c.Name, employeeName, row, ytd); err != nil {
		h.internal(w, "paystub", err, reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="paystub-`+row.ID+`.pdf"`)
	http.ServeFile(w, r, path)
}

func (h *Handler) writeConfigError(w http.ResponseWriter, err error, reqID string) {
	var invalid *taxconfig.InvalidConfigError
	switch {
	case errors.Is(err, taxconfig.ErrConfigNotFound):
		api.Fail(w, http.StatusUnprocessableEntity, "config_not_found", err.Error(), reqID)
	case errors.As(err, &invalid):
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "config_invalid", invalid.Error(), invalid.Result, reqID)
	case errors.Is(err, taxconfig.ErrUnsupportedFrequency):
		api.Fail(w, http.StatusBadRequest, "invalid_request", err.Error(), reqID)
	default:
		h.internal(w, "resolve config", err, reqID)
	}
}

func (h *Handler) writeComputeError(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, withholding.ErrNegativeInput),
		errors.Is(err, withholding.ErrInvalidRate),
		errors.Is(err, taxconfig.ErrUnsupportedFilingStatus),
		errors.Is(err, taxconfig.ErrUnsupportedFrequency):
		api.Fail(w, http.StatusBadRequest, "invalid_request", err.Error(), reqID)
	default:
		h.internal(w, "compute", err, reqID)
	}
}

func (h *Handler) internal(w http.ResponseWriter, op string, err error, reqID string) {
	slog.Error(op+" failed", "err", err, "requestId", reqID)
	api.Fail(w, http.StatusInternalServerError, "internal", "internal server error", reqID)
}
