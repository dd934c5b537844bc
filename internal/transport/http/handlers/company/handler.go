package companyhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"flpayroll/internal/domain/company"
	"flpayroll/internal/domain/taxconfig"
	"flpayroll/internal/domain/withholding"
	"flpayroll/internal/transport/http/api"
	"flpayroll/internal/transport/http/middleware"
)

type Handler struct {
	Store *company.Store
}

func New(store *company.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/company", h.GetCompany)
	r.Put("/company", h.UpsertCompany)
	r.Get("/employees", h.ListEmployees)
	r.Post("/employees", h.CreateEmployee)
	r.Get("/employees/{employeeID}", h.GetEmployee)
	r.Patch("/employees/{employeeID}/active", h.SetEmployeeActive)
}

type companyRequest struct {
	Name                 string `json:"name"`
	FEIN                 string `json:"fein"`
	FloridaAccountNumber string `json:"floridaAccountNumber"`
	DefaultTaxYear       int    `json:"defaultTaxYear"`
	SUTARate             string `json:"sutaRate"`
}

func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	c, err := h.Store.GetCompany(r.Context())
	if errors.Is(err, company.ErrCompanyNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "company is not configured yet", reqID)
		return
	}
	if err != nil {
		slog.Error("get company failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal", "internal server error", reqID)
		return
	}
	api.Success(w, c, reqID)
}

func (h *Handler) UpsertCompany(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var req companyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "invalid JSON body", reqID)
		return
	}
	if req.Name == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "name is required", reqID)
		return
	}
	if req.DefaultTaxYear <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "defaultTaxYear is required", reqID)
		return
	}
	rate, err := company.ParseRate(req.SUTARate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_rate", "sutaRate: "+err.Error(), reqID)
		return
	}

	saved, err := h.Store.UpsertCompany(r.Context(), company.Company{
		Name:                 req.Name,
		FEIN:                 req.FEIN,
		FloridaAccountNumber: req.FloridaAccountNumber,
		DefaultTaxYear:       req.DefaultTaxYear,
		SUTARate:             rate,
	})
	if err != nil {
		slog.Error("upsert company failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal", "internal server error", reqID)
		return
	}
	api.Success(w, saved, reqID)
}

type employeeRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	SSNLast4     string `json:"ssnLast4"`
	FilingStatus string `json:"filingStatus"`
	PayType      string `json:"payType"`
	PayFrequency string `json:"payFrequency"`

	BaseRate     string `json:"baseRate"`
	DefaultHours string `json:"defaultHours"`

	OtherIncomeAnnual string `json:"otherIncomeAnnual"`
	DeductionsAnnual  string `json:"deductionsAnnual"`
	DependentsCredit  string `json:"dependentsCredit"`
	ExtraWithholding  string `json:"extraWithholding"`
}

var validStatuses = map[string]bool{
	taxconfig.StatusSingle:                  true,
	taxconfig.StatusMarriedFilingSeparately: true,
	taxconfig.StatusMarriedFilingJointly:    true,
	taxconfig.StatusHeadOfHousehold:         true,
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	c, err := h.Store.GetCompany(r.Context())
	if errors.Is(err, company.ErrCompanyNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "company is not configured yet", reqID)
		return
	}
	if err != nil {
		slog.Error("list employees failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal", "internal server error", reqID)
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"
	employees, err := h.Store.ListEmployees(r.Context(), c.ID, activeOnly)
	if err != nil {
		slog.Error("list employees failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal", "internal server error", reqID)
		return
	}
	if employees == nil {
		employees = []company.Employee{}
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "invalid JSON body", reqID)
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "firstName and lastName are required", reqID)
		return
	}
	if !validStatuses[req.FilingStatus] {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "unsupported filing status "+req.FilingStatus, reqID)
		return
	}
	if req.PayType != withholding.PayTypeSalary && req.PayType != withholding.PayTypeHourly {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "payType must be salary or hourly", reqID)
		return
	}
	if _, ok := taxconfig.PeriodsPerYear(req.PayFrequency); !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "unsupported pay frequency "+req.PayFrequency, reqID)
		return
	}

	c, err := h.Store.GetCompany(r.Context())
	if errors.Is(err, company.ErrCompanyNotFound) {
		api.Fail(w, http.StatusConflict, "no_company", "configure the company before adding employees", reqID)
		return
	}
	if err != nil {
		slog.Error("create employee failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal", "internal server error", reqID)
		return
	}

	employee := company.Employee{
		CompanyID:    c.ID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		SSNLast4:     req.SSNLast4,
		FilingStatus: req.FilingStatus,
		PayType:      req.PayType,
		PayFrequency: req.PayFrequency,
		Active:       true,
	}

	amounts := []struct {
		name     string
		text     string
		required bool
		target   *decimal.Decimal
	}{
		{"baseRate", req.BaseRate, true, &employee.BaseRate},
		{"defaultHours", req.DefaultHours, false, &employee.DefaultHours},
		{"otherIncomeAnnual", req.OtherIncomeAnnual, false, &employee.OtherIncomeAnnual},
		{"deductionsAnnual", req.DeductionsAnnual, false, &employee.DeductionsAnnual},
		{"dependentsCredit", req.DependentsCredit, false, &employee.DependentsCredit},
		{"extraWithholding", req.ExtraWithholding, false, &employee.ExtraWithholding},
	}
	for _, amount := range amounts {
		if amount.text == "" {
			if amount.required {
				api.Fail(w, http.StatusBadRequest, "invalid_request", amount.name+" is required", reqID)
				return
			}
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

	created, err := h.Store.CreateEmployee(r.Context(), employee)
	if err != nil {
		slog.Error("create employee failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal", "internal server error", reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employee, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, company.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		slog.Error("get employee failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal", "internal server error", reqID)
		return
	}
	api.Success(w, employee, reqID)
}

func (h *Handler) SetEmployeeActive(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "invalid JSON body", reqID)
		return
	}

	err := h.Store.SetEmployeeActive(r.Context(), chi.URLParam(r, "employeeID"), req.Active)
	if errors.Is(err, company.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		slog.Error("set employee active failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal", "internal server error", reqID)
		return
	}
	api.Success(w, map[string]bool{"active": req.Active}, reqID)
}
