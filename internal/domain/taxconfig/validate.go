package taxconfig

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the structured PASS/FAIL report for one (year,
// frequency). Nothing may compute against a config whose result is not OK.
type ValidationResult struct {
	OK       bool           `json:"ok"`
	Errors   []Issue        `json:"errors,omitempty"`
	Warnings []Issue        `json:"warnings,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

func newValidationResult() ValidationResult {
	return ValidationResult{OK: true, Details: map[string]any{}}
}

func (r *ValidationResult) addError(field, format string, args ...any) {
	r.OK = false
	r.Errors = append(r.Errors, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) merge(other ValidationResult) {
	if !other.OK {
		r.OK = false
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	for k, v := range other.Details {
		r.Details[k] = v
	}
}

var one = decimal.NewFromInt(1)

func rateInRange(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(one)
}

// gate runs every invariant and checkpoint over a loaded file set.
func gate(raw *rawConfig, year int, frequency string) ValidationResult {
	result := newValidationResult()
	result.Details["year"] = year
	result.Details["pay_frequency"] = frequency

	gateMetadata(raw.Metadata, year, &result)
	gateRates(raw.Rates, &result)
	gateFIT(raw.FIT, &result)
	gateCheckpoints(raw, year, &result)
	return result
}

func gateMetadata(meta Metadata, year int, result *ValidationResult) {
	if meta.Source == "" {
		result.addError("metadata.source", "source publication is required")
	}
	if meta.Version == "" {
		result.addError("metadata.version", "version is required")
	}
	if meta.LastUpdated == "" {
		result.addError("metadata.last_updated", "last_updated is required")
	}
	if meta.Notes == "" {
		result.addWarning("metadata.notes", "notes are empty")
	}
	if meta.TaxYear != year {
		result.addError("metadata.tax_year", "tax_year mismatch: expected %d, found %d", year, meta.TaxYear)
	}
	if meta.Method != "percentage" {
		result.addError("metadata.method", "method must be %q, found %q", "percentage", meta.Method)
	}
}

func gateRates(rates ratesFile, result *ValidationResult) {
	checkRate := func(field string, rate decimal.Decimal, required bool) {
		if !rateInRange(rate) {
			result.addError(field, "rate must be within [0,1], found %s", rate)
			return
		}
		if required && rate.IsZero() {
			result.addError(field, "rate is missing or zero")
		}
	}
	checkBase := func(field string, base decimal.Decimal) {
		if !base.IsPositive() {
			result.addError(field, "wage base must be positive, found %s", base)
		}
	}

	checkRate("rates.social_security.employee_rate", rates.SocialSecurity.EmployeeRate, true)
	checkRate("rates.social_security.employer_rate", rates.SocialSecurity.EmployerRate, true)
	checkBase("rates.social_security.wage_base", rates.SocialSecurity.WageBase)

	checkRate("rates.medicare.employee_rate", rates.Medicare.EmployeeRate, true)
	checkRate("rates.medicare.employer_rate", rates.Medicare.EmployerRate, true)
	checkRate("rates.medicare.additional_employee_rate", rates.Medicare.AdditionalEmployeeRate, false)
	for _, key := range tableKeys {
		threshold, ok := rates.Medicare.AdditionalThresholds[key]
		if !ok {
			result.addError("rates.medicare.additional_threshold."+key, "threshold is missing")
			continue
		}
		if !threshold.IsPositive() {
			result.addError("rates.medicare.additional_threshold."+key, "threshold must be positive, found %s", threshold)
		}
	}

	checkRate("rates.futa.employer_rate", rates.FUTA.EmployerRate, true)
	checkBase("rates.futa.wage_base", rates.FUTA.WageBase)
	checkBase("rates.suta.wage_base", rates.SUTA.WageBase)
}

func gateFIT(tables map[string]FITTable, result *ValidationResult) {
	for _, key := range tableKeys {
		table, ok := tables[key]
		if !ok {
			result.addError("fit."+key, "missing FIT table for filing status")
			continue
		}
		field := "fit." + key
		if table.StandardDeduction.IsNegative() {
			result.addError(field+".standard_deduction", "standard deduction must be non-negative, found %s", table.StandardDeduction)
		}
		if len(table.Brackets) == 0 {
			result.addError(field+".brackets", "at least one bracket is required")
			continue
		}
		if !table.Brackets[0].Lower.IsZero() {
			result.addError(field+".brackets[0].lower", "first bracket must start at 0, found %s", table.Brackets[0].Lower)
		}
		for i, bracket := range table.Brackets {
			idx := fmt.Sprintf("%s.brackets[%d]", field, i)
			if !rateInRange(bracket.Rate) {
				result.addError(idx+".rate", "rate must be within [0,1], found %s", bracket.Rate)
			}
			if bracket.BaseTax.IsNegative() {
				result.addError(idx+".base_tax", "base tax must be non-negative, found %s", bracket.BaseTax)
			}
			if i > 0 && !bracket.Lower.GreaterThan(table.Brackets[i-1].Lower) {
				result.addError(idx+".lower", "bracket lower bounds must be strictly increasing: %s after %s", bracket.Lower, table.Brackets[i-1].Lower)
			}
		}
	}
}

// gateCheckpoints cross-checks recorded expected figures against the loaded
// tables. This catches a wrong-year file being substituted; it is not a
// re-derivation of the tables themselves.
func gateCheckpoints(raw *rawConfig, year int, result *ValidationResult) {
	checkpoints := raw.Checkpoints
	if checkpoints.TaxYear != year {
		result.addError("validation.tax_year", "tax_year mismatch: expected %d, found %d", year, checkpoints.TaxYear)
	}

	for _, key := range tableKeys {
		table, ok := raw.FIT[key]
		if !ok {
			continue
		}
		if expected, ok := checkpoints.StandardDeduction[key]; ok && !expected.Equal(table.StandardDeduction) {
			result.addError("fit."+key+".standard_deduction",
				"tables appear to be for a different year: expected standard deduction %s, found %s", expected, table.StandardDeduction)
		}
		expectedBounds := checkpoints.BracketLowerBounds[key]
		checks := len(expectedBounds)
		if checks > len(table.Brackets) {
			checks = len(table.Brackets)
		}
		if checks > 3 {
			checks = 3
		}
		for i := 0; i < checks; i++ {
			if !expectedBounds[i].Equal(table.Brackets[i].Lower) {
				result.addError(fmt.Sprintf("fit.%s.brackets[%d].lower", key, i),
					"tables appear to be for a different year: expected lower bound %s, found %s", expectedBounds[i], table.Brackets[i].Lower)
			}
		}
	}
}
