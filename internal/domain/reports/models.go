package reports

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInconsistentRate means a year's rows span a mid-year rate change,
	// so W-2 taxable wages cannot be back-derived from a single rate.
	ErrInconsistentRate = errors.New("inconsistent tax rate across period")
	// ErrCapExceeded means stored per-row taxable wages sum past the annual
	// wage base, which row-time cap tracking should have made impossible.
	ErrCapExceeded = errors.New("taxable wages exceed annual wage base")
)

type Form941Summary struct {
	Year    int `json:"year"`
	Quarter int `json:"quarter"`

	Wages                      decimal.Decimal `json:"wages"`
	FederalWithholding         decimal.Decimal `json:"federalWithholding"`
	SocialSecurityWages        decimal.Decimal `json:"socialSecurityWages"`
	SocialSecurityTax          decimal.Decimal `json:"socialSecurityTax"`
	MedicareWages              decimal.Decimal `json:"medicareWages"`
	MedicareTax                decimal.Decimal `json:"medicareTax"`
	AdditionalMedicareWithheld decimal.Decimal `json:"additionalMedicareWithheld"`
	TotalTaxes                 decimal.Decimal `json:"totalTaxes"`
}

// Form941Lines maps summary fields onto the form's line numbers for report
// consumers.
var Form941Lines = map[string]string{
	"Line 2":  "Wages, tips, and other compensation",
	"Line 3":  "Federal income tax withheld",
	"Line 5a": "Taxable Social Security wages and EE+ER tax",
	"Line 5c": "Taxable Medicare wages and EE+ER tax",
	"Line 5d": "Additional Medicare Tax withheld (employee only)",
	"Line 6":  "Total taxes before adjustments",
}

type RT6EmployeeDetail struct {
	EmployeeID string          `json:"employeeId"`
	Gross      decimal.Decimal `json:"gross"`
	Taxable    decimal.Decimal `json:"taxable"`
	Excess     decimal.Decimal `json:"excess"`
}

type RT6Summary struct {
	Year    int `json:"year"`
	Quarter int `json:"quarter"`

	GrossWages   decimal.Decimal     `json:"grossWages"`
	ExcessWages  decimal.Decimal     `json:"excessWages"`
	TaxableWages decimal.Decimal     `json:"taxableWages"`
	SUTARate     decimal.Decimal     `json:"sutaRate"`
	TaxDue       decimal.Decimal     `json:"taxDue"`
	Detail       []RT6EmployeeDetail `json:"detail"`
}

var RT6Lines = map[string]string{
	"Line 1": "Total wages paid",
	"Line 2": "Excess wages over the annual wage base",
	"Line 3": "Taxable wages",
	"Line 4": "Tax due at the employer rate",
}

type Form940Summary struct {
	Year int `json:"year"`

	TotalPayments    decimal.Decimal `json:"totalPayments"`
	FUTATaxableWages decimal.Decimal `json:"futaTaxableWages"`
	FUTATax          decimal.Decimal `json:"futaTax"`
}

var Form940Lines = map[string]string{
	"Line 3":  "Total payments to all employees",
	"Line 7":  "Taxable FUTA wages after the annual wage base cap",
	"Line 12": "FUTA tax due",
}

type W2Boxes struct {
	Box1Wages               decimal.Decimal `json:"box1Wages"`
	Box2FederalWithholding  decimal.Decimal `json:"box2FederalWithholding"`
	Box3SocialSecurityWages decimal.Decimal `json:"box3SocialSecurityWages"`
	Box4SocialSecurityTax   decimal.Decimal `json:"box4SocialSecurityTax"`
	Box5MedicareWages       decimal.Decimal `json:"box5MedicareWages"`
	Box6MedicareTax         decimal.Decimal `json:"box6MedicareTax"`
}
