package taxconfig

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	FrequencyDaily       = "daily"
	FrequencyWeekly      = "weekly"
	FrequencyBiweekly    = "biweekly"
	FrequencySemimonthly = "semimonthly"
	FrequencyMonthly     = "monthly"

	StatusSingle                  = "single"
	StatusMarriedFilingSeparately = "married_filing_separately"
	StatusMarriedFilingJointly    = "married_filing_jointly"
	StatusHeadOfHousehold         = "head_of_household"

	// FIT table keys as published; single and married-filing-separately
	// share one table.
	TableSingleOrSeparate = "single_or_married_filing_separately"
	TableMarriedJointly   = "married_filing_jointly"
	TableHeadOfHousehold  = "head_of_household"
)

var periodsPerYear = map[string]int{
	FrequencyDaily:       260,
	FrequencyWeekly:      52,
	FrequencyBiweekly:    26,
	FrequencySemimonthly: 24,
	FrequencyMonthly:     12,
}

var tableKeys = []string{TableSingleOrSeparate, TableMarriedJointly, TableHeadOfHousehold}

var statusTables = map[string]string{
	StatusSingle:                  TableSingleOrSeparate,
	StatusMarriedFilingSeparately: TableSingleOrSeparate,
	StatusMarriedFilingJointly:    TableMarriedJointly,
	StatusHeadOfHousehold:         TableHeadOfHousehold,
}

func PeriodsPerYear(frequency string) (int, bool) {
	periods, ok := periodsPerYear[frequency]
	return periods, ok
}

func Frequencies() []string {
	return []string{FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencySemimonthly, FrequencyMonthly}
}

type Bracket struct {
	Lower   decimal.Decimal `json:"lower"`
	Rate    decimal.Decimal `json:"rate"`
	BaseTax decimal.Decimal `json:"base_tax"`
}

type FITTable struct {
	StandardDeduction decimal.Decimal `json:"standard_deduction"`
	Brackets          []Bracket       `json:"brackets"`
}

type Metadata struct {
	Source      string `json:"source"`
	Version     string `json:"version"`
	LastUpdated string `json:"last_updated"`
	Notes       string `json:"notes"`
	TaxYear     int    `json:"tax_year"`
	Method      string `json:"method"`
}

type SocialSecurity struct {
	EmployeeRate decimal.Decimal `json:"employee_rate"`
	EmployerRate decimal.Decimal `json:"employer_rate"`
	WageBase     decimal.Decimal `json:"wage_base"`
}

type Medicare struct {
	EmployeeRate           decimal.Decimal            `json:"employee_rate"`
	EmployerRate           decimal.Decimal            `json:"employer_rate"`
	AdditionalEmployeeRate decimal.Decimal            `json:"additional_employee_rate"`
	AdditionalThresholds   map[string]decimal.Decimal `json:"additional_threshold"`
}

type FUTA struct {
	EmployerRate decimal.Decimal `json:"employer_rate"`
	WageBase     decimal.Decimal `json:"wage_base"`
}

type SUTA struct {
	WageBase decimal.Decimal `json:"wage_base"`
}

// Config is the fully resolved parameter set for one (year, frequency).
// It is immutable after Resolve returns it; calculators hold it read-only.
type Config struct {
	Year      int
	Frequency string
	Periods   int

	Metadata       Metadata
	FIT            map[string]FITTable
	SocialSecurity SocialSecurity
	Medicare       Medicare
	FUTA           FUTA
	SUTA           SUTA
}

// Table returns the FIT table for an employee filing status.
func (c *Config) Table(filingStatus string) (FITTable, error) {
	key, ok := statusTables[filingStatus]
	if !ok {
		return FITTable{}, fmt.Errorf("%w: %q", ErrUnsupportedFilingStatus, filingStatus)
	}
	table, ok := c.FIT[key]
	if !ok {
		return FITTable{}, fmt.Errorf("%w: no FIT table %q for %d/%s", ErrUnsupportedFilingStatus, key, c.Year, c.Frequency)
	}
	if len(table.Brackets) == 0 {
		return FITTable{}, fmt.Errorf("%w: empty FIT bracket table %q for %d/%s", ErrUnsupportedFilingStatus, key, c.Year, c.Frequency)
	}
	return table, nil
}

// AdditionalMedicareThreshold returns the additional-Medicare income
// threshold recorded for the employee's filing status.
func (c *Config) AdditionalMedicareThreshold(filingStatus string) (decimal.Decimal, error) {
	key, ok := statusTables[filingStatus]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnsupportedFilingStatus, filingStatus)
	}
	threshold, ok := c.Medicare.AdditionalThresholds[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no additional medicare threshold for %q", ErrUnsupportedFilingStatus, key)
	}
	return threshold, nil
}
