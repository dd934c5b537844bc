package taxconfig

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestResolveValidYear(t *testing.T) {
	loader := NewLoader("testdata")

	cfg, err := loader.Resolve(2026, FrequencyMonthly)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if cfg.Periods != 12 {
		t.Fatalf("expected 12 periods for monthly, got %d", cfg.Periods)
	}
	if cfg.Metadata.Version != "2026.1" {
		t.Fatalf("unexpected version %q", cfg.Metadata.Version)
	}
	if !cfg.SocialSecurity.WageBase.Equal(decimal.NewFromInt(168600)) {
		t.Fatalf("unexpected social security wage base %s", cfg.SocialSecurity.WageBase)
	}

	table, err := cfg.Table(StatusSingle)
	if err != nil {
		t.Fatalf("Table(single): %v", err)
	}
	if !table.StandardDeduction.Equal(decimal.NewFromInt(15000)) {
		t.Fatalf("unexpected standard deduction %s", table.StandardDeduction)
	}
	if !table.Brackets[0].Lower.IsZero() {
		t.Fatalf("first bracket must start at 0, got %s", table.Brackets[0].Lower)
	}
}

func TestResolveSharedTableForSeparateFilers(t *testing.T) {
	loader := NewLoader("testdata")
	cfg, err := loader.Resolve(2026, FrequencyMonthly)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	single, err := cfg.Table(StatusSingle)
	if err != nil {
		t.Fatalf("Table(single): %v", err)
	}
	separate, err := cfg.Table(StatusMarriedFilingSeparately)
	if err != nil {
		t.Fatalf("Table(married_filing_separately): %v", err)
	}
	if !single.StandardDeduction.Equal(separate.StandardDeduction) {
		t.Fatal("single and married-filing-separately must resolve to the same table")
	}
}

func TestResolveCachesConfig(t *testing.T) {
	loader := NewLoader("testdata")
	first, err := loader.Resolve(2026, FrequencyMonthly)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := loader.Resolve(2026, FrequencyMonthly)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first != second {
		t.Fatal("expected cached config pointer on second resolve")
	}
}

func TestResolveMissingYear(t *testing.T) {
	loader := NewLoader("testdata")
	_, err := loader.Resolve(2030, FrequencyMonthly)
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestResolveMissingFrequencyFile(t *testing.T) {
	loader := NewLoader("testdata")
	_, err := loader.Resolve(2031, FrequencyWeekly)
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound for missing fit file, got %v", err)
	}
}

func TestResolveUnsupportedFrequency(t *testing.T) {
	loader := NewLoader("testdata")
	_, err := loader.Resolve(2026, "fortnightly")
	if !errors.Is(err, ErrUnsupportedFrequency) {
		t.Fatalf("expected ErrUnsupportedFrequency, got %v", err)
	}
}

func TestResolveInvalidYearFailsClosed(t *testing.T) {
	loader := NewLoader("testdata")
	_, err := loader.Resolve(2031, FrequencyMonthly)

	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfigError, got %v", err)
	}
	if invalid.Result.OK {
		t.Fatal("invalid config must carry a failing result")
	}
	if len(invalid.Result.Errors) == 0 {
		t.Fatal("expected at least one field error")
	}
}

func TestAdditionalMedicareThresholdPerStatus(t *testing.T) {
	loader := NewLoader("testdata")
	cfg, err := loader.Resolve(2026, FrequencyMonthly)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	single, err := cfg.AdditionalMedicareThreshold(StatusSingle)
	if err != nil {
		t.Fatalf("threshold(single): %v", err)
	}
	joint, err := cfg.AdditionalMedicareThreshold(StatusMarriedFilingJointly)
	if err != nil {
		t.Fatalf("threshold(married_filing_jointly): %v", err)
	}
	if !single.Equal(decimal.NewFromInt(200000)) {
		t.Fatalf("unexpected single threshold %s", single)
	}
	if !joint.Equal(decimal.NewFromInt(250000)) {
		t.Fatalf("unexpected joint threshold %s", joint)
	}

	if _, err := cfg.AdditionalMedicareThreshold("unknown"); !errors.Is(err, ErrUnsupportedFilingStatus) {
		t.Fatalf("expected ErrUnsupportedFilingStatus, got %v", err)
	}
}
