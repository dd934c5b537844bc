package taxconfig

import (
	"strings"
	"testing"
)

func hasErrorField(result ValidationResult, field string) bool {
	for _, issue := range result.Errors {
		if issue.Field == field {
			return true
		}
	}
	return false
}

func TestValidatePassesForGoodYear(t *testing.T) {
	loader := NewLoader("testdata")
	result := loader.Validate(2026, FrequencyMonthly)

	if !result.OK {
		t.Fatalf("expected OK, got errors %v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	loader := NewLoader("testdata")
	result := loader.Validate(2031, FrequencyMonthly)

	if result.OK {
		t.Fatal("expected a failing result")
	}
	for _, field := range []string{
		"metadata.source",
		"metadata.tax_year",
		"metadata.method",
		"rates.social_security.employee_rate",
		"rates.social_security.wage_base",
		"rates.medicare.additional_threshold.single_or_married_filing_separately",
		"fit.single_or_married_filing_separately.brackets[0].lower",
		"fit.head_of_household.brackets",
	} {
		if !hasErrorField(result, field) {
			t.Errorf("expected an error on %s, got %v", field, result.Errors)
		}
	}

	// The report also covers file presence for every frequency.
	if !hasErrorField(result, "fit.weekly") {
		t.Errorf("expected a missing-file error for fit.weekly, got %v", result.Errors)
	}
}

func TestValidateFlagsWrongYearTables(t *testing.T) {
	loader := NewLoader("testdata")
	result := loader.Validate(2031, FrequencyMonthly)

	found := false
	for _, issue := range result.Errors {
		if strings.Contains(issue.Message, "different year") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a checkpoint mismatch error, got %v", result.Errors)
	}
}

func TestValidateMissingYear(t *testing.T) {
	loader := NewLoader("testdata")
	result := loader.Validate(2030, FrequencyMonthly)

	if result.OK {
		t.Fatal("expected a failing result for a missing year")
	}
	if !hasErrorField(result, "config") {
		t.Fatalf("expected a config-level error, got %v", result.Errors)
	}
}

func TestValidateUnsupportedFrequency(t *testing.T) {
	loader := NewLoader("testdata")
	result := loader.Validate(2026, "fortnightly")

	if result.OK {
		t.Fatal("expected a failing result")
	}
	if !hasErrorField(result, "pay_frequency") {
		t.Fatalf("expected a pay_frequency error, got %v", result.Errors)
	}
}
