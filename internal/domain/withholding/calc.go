package withholding

import (
	"fmt"

	"github.com/shopspring/decimal"

	"flpayroll/internal/domain/taxconfig"
)

const roundingHalfUp2 = "half_up_2dp"

// round2 rounds half-up to cents. Every line item is rounded here before it
// is carried forward; fractional cents never accumulate across steps.
func round2(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}

func floor0(value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	return value
}

type tracer struct {
	entries []TraceEntry
}

func (t *tracer) add(step string, inputs map[string]string, raw, rounded decimal.Decimal, rounding string) {
	t.entries = append(t.entries, TraceEntry{
		Step:     step,
		Inputs:   inputs,
		Raw:      raw.String(),
		Rounded:  rounded.String(),
		Rounding: rounding,
	})
}

// Compute runs one payroll period for one employee against a resolved,
// validated config. It is a pure function: identical inputs produce an
// identical row and trace. sutaRate is the company-specific Florida
// reemployment rate, already normalized to decimal form.
func Compute(profile EmployeeProfile, input RunInput, priorYTD PriorYTD, cfg *taxconfig.Config, sutaRate decimal.Decimal) (LedgerRow, error) {
	if err := assertInputs(profile, input, priorYTD, sutaRate); err != nil {
		return LedgerRow{}, err
	}
	if profile.PayFrequency != cfg.Frequency {
		return LedgerRow{}, fmt.Errorf("%w: config resolved for %q, profile pays %q",
			taxconfig.ErrUnsupportedFrequency, cfg.Frequency, profile.PayFrequency)
	}
	table, err := cfg.Table(profile.FilingStatus)
	if err != nil {
		return LedgerRow{}, err
	}
	additionalThreshold, err := cfg.AdditionalMedicareThreshold(profile.FilingStatus)
	if err != nil {
		return LedgerRow{}, err
	}

	trace := &tracer{}

	// Step 1: gross pay.
	hours := input.HoursWorked
	if profile.PayType == PayTypeHourly && hours.IsZero() {
		hours = profile.DefaultHours
	}
	base := profile.BaseRate
	if profile.PayType == PayTypeHourly {
		base = profile.BaseRate.Mul(hours)
	}
	grossRaw := base.Add(input.Bonus).Add(input.Reimbursement)
	gross := round2(grossRaw)
	trace.add("gross_pay", map[string]string{
		"pay_type":      profile.PayType,
		"base_rate":     profile.BaseRate.String(),
		"hours_worked":  hours.String(),
		"bonus":         input.Bonus.String(),
		"reimbursement": input.Reimbursement.String(),
	}, grossRaw, gross, roundingHalfUp2)

	// Step 2: FIT via the annualized percentage method.
	periods := decimal.NewFromInt(int64(cfg.Periods))
	annualized := gross.Mul(periods)
	taxableAnnual := floor0(annualized.
		Add(profile.OtherIncomeAnnual).
		Sub(profile.DeductionsAnnual).
		Sub(table.StandardDeduction))
	trace.add("fit_annual_taxable", map[string]string{
		"annualized_gross":   annualized.String(),
		"other_income":       profile.OtherIncomeAnnual.String(),
		"deductions":         profile.DeductionsAnnual.String(),
		"standard_deduction": table.StandardDeduction.String(),
		"periods_per_year":   periods.String(),
	}, taxableAnnual, taxableAnnual, "none")

	bracket := table.Brackets[0]
	for _, candidate := range table.Brackets {
		if candidate.Lower.LessThanOrEqual(taxableAnnual) {
			bracket = candidate
		}
	}
	annualTax := bracket.BaseTax.Add(bracket.Rate.Mul(taxableAnnual.Sub(bracket.Lower)))
	trace.add("fit_bracket", map[string]string{
		"bracket_lower": bracket.Lower.String(),
		"bracket_rate":  bracket.Rate.String(),
		"base_tax":      bracket.BaseTax.String(),
	}, annualTax, annualTax, "none")

	afterCredit := floor0(annualTax.Sub(profile.DependentsCredit))
	fitRaw := afterCredit.Div(periods).Add(profile.ExtraWithholding)
	fit := round2(fitRaw)
	trace.add("fit_withholding", map[string]string{
		"annual_tax":        annualTax.String(),
		"dependents_credit": profile.DependentsCredit.String(),
		"periods_per_year":  periods.String(),
		"extra_withholding": profile.ExtraWithholding.String(),
	}, fitRaw, fit, roundingHalfUp2)

	// Step 3: Social Security with annual wage-base cap.
	ssHeadroom := floor0(cfg.SocialSecurity.WageBase.Sub(priorYTD.SocialSecurityTaxableWages))
	ssTaxable := gross
	if ssHeadroom.LessThan(ssTaxable) {
		ssTaxable = ssHeadroom
	}
	ssEmployeeRaw := ssTaxable.Mul(cfg.SocialSecurity.EmployeeRate)
	ssEmployee := round2(ssEmployeeRaw)
	ssEmployerRaw := ssTaxable.Mul(cfg.SocialSecurity.EmployerRate)
	ssEmployer := round2(ssEmployerRaw)
	trace.add("social_security", map[string]string{
		"wage_base":          cfg.SocialSecurity.WageBase.String(),
		"prior_ytd_taxable":  priorYTD.SocialSecurityTaxableWages.String(),
		"cap_headroom":       ssHeadroom.String(),
		"taxable_wages":      ssTaxable.String(),
		"employee_rate":      cfg.SocialSecurity.EmployeeRate.String(),
		"employer_rate":      cfg.SocialSecurity.EmployerRate.String(),
		"employer_tax_raw":   ssEmployerRaw.String(),
		"employer_tax_final": ssEmployer.String(),
	}, ssEmployeeRaw, ssEmployee, roundingHalfUp2)

	// Step 4: Medicare (uncapped) plus additional Medicare above the
	// cumulative YTD threshold.
	medicareEmployeeRaw := gross.Mul(cfg.Medicare.EmployeeRate)
	medicareEmployee := round2(medicareEmployeeRaw)
	medicareEmployerRaw := gross.Mul(cfg.Medicare.EmployerRate)
	medicareEmployer := round2(medicareEmployerRaw)
	trace.add("medicare", map[string]string{
		"taxable_wages":      gross.String(),
		"employee_rate":      cfg.Medicare.EmployeeRate.String(),
		"employer_rate":      cfg.Medicare.EmployerRate.String(),
		"employer_tax_raw":   medicareEmployerRaw.String(),
		"employer_tax_final": medicareEmployer.String(),
	}, medicareEmployeeRaw, medicareEmployee, roundingHalfUp2)

	cumulativeAfter := priorYTD.MedicareWages.Add(gross)
	additionalTaxable := floor0(cumulativeAfter.Sub(additionalThreshold)).
		Sub(floor0(priorYTD.MedicareWages.Sub(additionalThreshold)))
	additionalRaw := additionalTaxable.Mul(cfg.Medicare.AdditionalEmployeeRate)
	additionalMedicare := round2(additionalRaw)
	trace.add("additional_medicare", map[string]string{
		"threshold":           additionalThreshold.String(),
		"prior_ytd_wages":     priorYTD.MedicareWages.String(),
		"cumulative_wages":    cumulativeAfter.String(),
		"taxable_over_thresh": additionalTaxable.String(),
		"additional_rate":     cfg.Medicare.AdditionalEmployeeRate.String(),
	}, additionalRaw, additionalMedicare, roundingHalfUp2)

	// Step 5: FUTA with annual wage-base cap.
	futaHeadroom := floor0(cfg.FUTA.WageBase.Sub(priorYTD.FUTATaxableWages))
	futaTaxable := gross
	if futaHeadroom.LessThan(futaTaxable) {
		futaTaxable = futaHeadroom
	}
	futaRaw := futaTaxable.Mul(cfg.FUTA.EmployerRate)
	futa := round2(futaRaw)
	trace.add("futa", map[string]string{
		"wage_base":         cfg.FUTA.WageBase.String(),
		"prior_ytd_taxable": priorYTD.FUTATaxableWages.String(),
		"cap_headroom":      futaHeadroom.String(),
		"taxable_wages":     futaTaxable.String(),
		"employer_rate":     cfg.FUTA.EmployerRate.String(),
	}, futaRaw, futa, roundingHalfUp2)

	// Step 6: SUTA, same cap shape with the company rate.
	sutaHeadroom := floor0(cfg.SUTA.WageBase.Sub(priorYTD.SUTATaxableWages))
	sutaTaxable := gross
	if sutaHeadroom.LessThan(sutaTaxable) {
		sutaTaxable = sutaHeadroom
	}
	sutaRaw := sutaTaxable.Mul(sutaRate)
	suta := round2(sutaRaw)
	trace.add("suta", map[string]string{
		"wage_base":         cfg.SUTA.WageBase.String(),
		"prior_ytd_taxable": priorYTD.SUTATaxableWages.String(),
		"cap_headroom":      sutaHeadroom.String(),
		"taxable_wages":     sutaTaxable.String(),
		"employer_rate":     sutaRate.String(),
	}, sutaRaw, suta, roundingHalfUp2)

	// Step 7: net pay.
	netRaw := gross.Sub(fit).Sub(ssEmployee).Sub(medicareEmployee).Sub(additionalMedicare).Sub(input.OtherDeductions)
	net := round2(netRaw)
	trace.add("net_pay", map[string]string{
		"gross_pay":           gross.String(),
		"fit":                 fit.String(),
		"social_security":     ssEmployee.String(),
		"medicare":            medicareEmployee.String(),
		"additional_medicare": additionalMedicare.String(),
		"other_deductions":    input.OtherDeductions.String(),
	}, netRaw, net, roundingHalfUp2)

	return LedgerRow{
		GrossPay:                   gross,
		FIT:                        fit,
		SocialSecurityEmployee:     ssEmployee,
		MedicareEmployee:           medicareEmployee,
		AdditionalMedicareEmployee: additionalMedicare,
		SocialSecurityEmployer:     ssEmployer,
		MedicareEmployer:           medicareEmployer,
		FUTAEmployer:               futa,
		SUTAEmployer:               suta,
		OtherDeductions:            round2(input.OtherDeductions),
		NetPay:                     net,
		SocialSecurityTaxableWages: ssTaxable,
		MedicareTaxableWages:       gross,
		FUTATaxableWages:           futaTaxable,
		SUTATaxableWages:           sutaTaxable,
		SocialSecurityEmployeeRate: cfg.SocialSecurity.EmployeeRate,
		MedicareEmployeeRate:       cfg.Medicare.EmployeeRate,
		TaxYear:                    cfg.Year,
		PayFrequency:               cfg.Frequency,
		ConfigVersion:              cfg.Metadata.Version,
		Trace:                      trace.entries,
	}, nil
}

// assertInputs re-asserts the non-negativity contract. Callers validate at
// their boundary too, but the calculator fails rather than silently clamps.
func assertInputs(profile EmployeeProfile, input RunInput, priorYTD PriorYTD, sutaRate decimal.Decimal) error {
	checks := []struct {
		name  string
		value decimal.Decimal
	}{
		{"base_rate", profile.BaseRate},
		{"default_hours", profile.DefaultHours},
		{"other_income_annual", profile.OtherIncomeAnnual},
		{"deductions_annual", profile.DeductionsAnnual},
		{"dependents_credit", profile.DependentsCredit},
		{"extra_withholding", profile.ExtraWithholding},
		{"hours_worked", input.HoursWorked},
		{"bonus", input.Bonus},
		{"reimbursement", input.Reimbursement},
		{"other_deductions", input.OtherDeductions},
		{"prior_ytd_social_security", priorYTD.SocialSecurityTaxableWages},
		{"prior_ytd_medicare", priorYTD.MedicareWages},
		{"prior_ytd_futa", priorYTD.FUTATaxableWages},
		{"prior_ytd_suta", priorYTD.SUTATaxableWages},
	}
	for _, check := range checks {
		if check.value.IsNegative() {
			return fmt.Errorf("%w: %s is %s", ErrNegativeInput, check.name, check.value)
		}
	}
	if profile.PayType != PayTypeSalary && profile.PayType != PayTypeHourly {
		return fmt.Errorf("unknown pay type %q", profile.PayType)
	}
	if sutaRate.IsNegative() || sutaRate.GreaterThan(one) {
		return fmt.Errorf("%w: company suta rate %s", ErrInvalidRate, sutaRate)
	}
	return nil
}

var one = decimal.NewFromInt(1)
