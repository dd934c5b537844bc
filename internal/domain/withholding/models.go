package withholding

import "github.com/shopspring/decimal"

const (
	PayTypeSalary = "salary"
	PayTypeHourly = "hourly"
)

// EmployeeProfile is the pay and W-4 data the calculator needs. It is owned
// by the employee record; the calculator treats it as transient input.
type EmployeeProfile struct {
	EmployeeID        string
	PayType           string
	BaseRate          decimal.Decimal
	DefaultHours      decimal.Decimal
	FilingStatus      string
	PayFrequency      string
	OtherIncomeAnnual decimal.Decimal
	DeductionsAnnual  decimal.Decimal
	DependentsCredit  decimal.Decimal
	ExtraWithholding  decimal.Decimal
}

// RunInput is the per-period payroll input supplied by the caller.
// HoursWorked only applies to hourly employees; zero means hours were not
// submitted and the profile's default hours are used, so an unpaid period
// must be entered with a zero base rate, not zero hours.
type RunInput struct {
	Year            int
	Month           int
	HoursWorked     decimal.Decimal
	Bonus           decimal.Decimal
	Reimbursement   decimal.Decimal
	OtherDeductions decimal.Decimal
}

// PriorYTD carries the cumulative taxable-wage figures for earlier periods of
// the same calendar year. The caller derives them from persisted ledger rows;
// the calculator never reads shared state for cap math.
type PriorYTD struct {
	SocialSecurityTaxableWages decimal.Decimal
	MedicareWages              decimal.Decimal
	FUTATaxableWages           decimal.Decimal
	SUTATaxableWages           decimal.Decimal
}

// TraceEntry records one computation step: the formula inputs, the raw
// intermediate value, and the rounding decision. Values are decimal strings
// so a persisted trace replays bit-for-bit.
type TraceEntry struct {
	Step     string            `json:"step"`
	Inputs   map[string]string `json:"inputs"`
	Raw      string            `json:"raw"`
	Rounded  string            `json:"rounded"`
	Rounding string            `json:"rounding"`
}

// LedgerRow is the immutable result of one computation. Recomputing produces
// a new row; rows are never edited in place.
type LedgerRow struct {
	GrossPay decimal.Decimal `json:"grossPay"`

	FIT                        decimal.Decimal `json:"fit"`
	SocialSecurityEmployee     decimal.Decimal `json:"socialSecurityEmployee"`
	MedicareEmployee           decimal.Decimal `json:"medicareEmployee"`
	AdditionalMedicareEmployee decimal.Decimal `json:"additionalMedicareEmployee"`

	SocialSecurityEmployer decimal.Decimal `json:"socialSecurityEmployer"`
	MedicareEmployer       decimal.Decimal `json:"medicareEmployer"`
	FUTAEmployer           decimal.Decimal `json:"futaEmployer"`
	SUTAEmployer           decimal.Decimal `json:"sutaEmployer"`

	OtherDeductions decimal.Decimal `json:"otherDeductions"`
	NetPay          decimal.Decimal `json:"netPay"`

	SocialSecurityTaxableWages decimal.Decimal `json:"socialSecurityTaxableWages"`
	MedicareTaxableWages       decimal.Decimal `json:"medicareTaxableWages"`
	FUTATaxableWages           decimal.Decimal `json:"futaTaxableWages"`
	SUTATaxableWages           decimal.Decimal `json:"sutaTaxableWages"`

	// Rates in effect, stamped for W-2 back-derivation and audit.
	SocialSecurityEmployeeRate decimal.Decimal `json:"socialSecurityEmployeeRate"`
	MedicareEmployeeRate       decimal.Decimal `json:"medicareEmployeeRate"`

	TaxYear       int          `json:"taxYear"`
	PayFrequency  string       `json:"payFrequency"`
	ConfigVersion string       `json:"configVersion"`
	Trace         []TraceEntry `json:"trace"`
}
