package reports

import (
	"fmt"

	"github.com/shopspring/decimal"

	"flpayroll/internal/domain/ledger"
)

// MapW2 derives the year-end W-2 box values from one employee's rows. Boxes 3
// and 5 are back-derived by dividing withheld tax by the employee rate the
// rows were computed with; that only works when one rate covered the whole
// year, so a mid-year rate change is reported, never averaged away.
func MapW2(rows []ledger.Row) (W2Boxes, error) {
	if len(rows) == 0 {
		return W2Boxes{}, nil
	}

	ssRate := rows[0].SocialSecurityEmployeeRate
	medicareRate := rows[0].MedicareEmployeeRate

	gross, fit := decimal.Zero, decimal.Zero
	ssTax, medicareTax, additionalTax := decimal.Zero, decimal.Zero, decimal.Zero
	for _, row := range rows {
		if !row.SocialSecurityEmployeeRate.Equal(ssRate) {
			return W2Boxes{}, fmt.Errorf("%w: social security employee rate changed from %s to %s",
				ErrInconsistentRate, ssRate, row.SocialSecurityEmployeeRate)
		}
		if !row.MedicareEmployeeRate.Equal(medicareRate) {
			return W2Boxes{}, fmt.Errorf("%w: medicare employee rate changed from %s to %s",
				ErrInconsistentRate, medicareRate, row.MedicareEmployeeRate)
		}

		gross = gross.Add(row.GrossPay)
		fit = fit.Add(row.FIT)
		ssTax = ssTax.Add(row.SocialSecurityEmployee)
		medicareTax = medicareTax.Add(row.MedicareEmployee)
		additionalTax = additionalTax.Add(row.AdditionalMedicareEmployee)
	}
	if ssRate.IsZero() || medicareRate.IsZero() {
		return W2Boxes{}, fmt.Errorf("%w: zero employee rate stamped on rows", ErrInconsistentRate)
	}

	return W2Boxes{
		Box1Wages:               round2(gross),
		Box2FederalWithholding:  round2(fit),
		Box3SocialSecurityWages: round2(ssTax.Div(ssRate)),
		Box4SocialSecurityTax:   round2(ssTax),
		Box5MedicareWages:       round2(medicareTax.Div(medicareRate)),
		Box6MedicareTax:         round2(medicareTax.Add(additionalTax)),
	}, nil
}
