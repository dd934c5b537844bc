package company

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"flpayroll/internal/domain/withholding"
)

var (
	ErrCompanyNotFound  = errors.New("company not found")
	ErrEmployeeNotFound = errors.New("employee not found")
)

type Company struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	FEIN                 string          `json:"fein"`
	FloridaAccountNumber string          `json:"floridaAccountNumber"`
	DefaultTaxYear       int             `json:"defaultTaxYear"`
	SUTARate             decimal.Decimal `json:"sutaRate"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

type Employee struct {
	ID           string `json:"id"`
	CompanyID    string `json:"companyId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	SSNLast4     string `json:"ssnLast4"`
	FilingStatus string `json:"filingStatus"`
	PayType      string `json:"payType"`
	PayFrequency string `json:"payFrequency"`

	BaseRate     decimal.Decimal `json:"baseRate"`
	DefaultHours decimal.Decimal `json:"defaultHours"`

	OtherIncomeAnnual decimal.Decimal `json:"otherIncomeAnnual"`
	DeductionsAnnual  decimal.Decimal `json:"deductionsAnnual"`
	DependentsCredit  decimal.Decimal `json:"dependentsCredit"`
	ExtraWithholding  decimal.Decimal `json:"extraWithholding"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// PayProfile projects the employee record into the calculator's input shape.
func (e Employee) PayProfile() withholding.EmployeeProfile {
	return withholding.EmployeeProfile{
		EmployeeID:        e.ID,
		PayType:           e.PayType,
		BaseRate:          e.BaseRate,
		DefaultHours:      e.DefaultHours,
		FilingStatus:      e.FilingStatus,
		PayFrequency:      e.PayFrequency,
		OtherIncomeAnnual: e.OtherIncomeAnnual,
		DeductionsAnnual:  e.DeductionsAnnual,
		DependentsCredit:  e.DependentsCredit,
		ExtraWithholding:  e.ExtraWithholding,
	}
}
