package reports

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"flpayroll/internal/domain/ledger"
)

func round2(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}

func inQuarter(row ledger.Row, year, quarter int) bool {
	start, end := ledger.QuarterMonths(quarter)
	return row.Year == year && row.Month >= start && row.Month <= end
}

// Quarter941 folds a quarter's rows into the Form 941 summary. The fold is
// associative sums only, so permuting the row set cannot change the result.
func Quarter941(rows []ledger.Row, year, quarter int) Form941Summary {
	summary := Form941Summary{Year: year, Quarter: quarter}
	wages, fit := decimal.Zero, decimal.Zero
	ssWages, ssTax := decimal.Zero, decimal.Zero
	medicareWages, medicareTax, additional := decimal.Zero, decimal.Zero, decimal.Zero

	for _, row := range rows {
		if !inQuarter(row, year, quarter) {
			continue
		}
		wages = wages.Add(row.GrossPay)
		fit = fit.Add(row.FIT)
		ssWages = ssWages.Add(row.SocialSecurityTaxableWages)
		ssTax = ssTax.Add(row.SocialSecurityEmployee).Add(row.SocialSecurityEmployer)
		medicareWages = medicareWages.Add(row.MedicareTaxableWages)
		medicareTax = medicareTax.Add(row.MedicareEmployee).Add(row.MedicareEmployer)
		additional = additional.Add(row.AdditionalMedicareEmployee)
	}

	summary.Wages = round2(wages)
	summary.FederalWithholding = round2(fit)
	summary.SocialSecurityWages = round2(ssWages)
	summary.SocialSecurityTax = round2(ssTax)
	summary.MedicareWages = round2(medicareWages)
	summary.MedicareTax = round2(medicareTax)
	summary.AdditionalMedicareWithheld = round2(additional)
	summary.TotalTaxes = round2(fit.Add(ssTax).Add(medicareTax).Add(additional))
	return summary
}

// QuarterRT6 folds a quarter's rows into the Florida RT-6 summary with
// per-employee detail. Taxable wages come from the row-level wage-base cap
// already applied at compute time; tax due is a flat multiply over the total.
func QuarterRT6(rows []ledger.Row, year, quarter int, sutaRate decimal.Decimal) RT6Summary {
	summary := RT6Summary{Year: year, Quarter: quarter, SUTARate: sutaRate}

	type accum struct {
		gross   decimal.Decimal
		taxable decimal.Decimal
	}
	perEmployee := map[string]*accum{}
	for _, row := range rows {
		if !inQuarter(row, year, quarter) {
			continue
		}
		a, ok := perEmployee[row.EmployeeID]
		if !ok {
			a = &accum{gross: decimal.Zero, taxable: decimal.Zero}
			perEmployee[row.EmployeeID] = a
		}
		a.gross = a.gross.Add(row.GrossPay)
		a.taxable = a.taxable.Add(row.SUTATaxableWages)
	}

	employeeIDs := make([]string, 0, len(perEmployee))
	for id := range perEmployee {
		employeeIDs = append(employeeIDs, id)
	}
	sort.Strings(employeeIDs)

	totalGross, totalTaxable := decimal.Zero, decimal.Zero
	for _, id := range employeeIDs {
		a := perEmployee[id]
		totalGross = totalGross.Add(a.gross)
		totalTaxable = totalTaxable.Add(a.taxable)
		summary.Detail = append(summary.Detail, RT6EmployeeDetail{
			EmployeeID: id,
			Gross:      round2(a.gross),
			Taxable:    round2(a.taxable),
			Excess:     round2(a.gross.Sub(a.taxable)),
		})
	}

	summary.GrossWages = round2(totalGross)
	summary.TaxableWages = round2(totalTaxable)
	summary.ExcessWages = round2(totalGross.Sub(totalTaxable))
	summary.TaxDue = round2(totalTaxable.Mul(sutaRate))
	return summary
}

// Year940 folds a year's rows into the Form 940 summary. Row-level cap
// tracking already bounded each employee's taxable wages, so the per-employee
// sums are re-checked against the wage base as a consistency gate.
func Year940(rows []ledger.Row, year int, futaRate, wageBase decimal.Decimal) (Form940Summary, error) {
	summary := Form940Summary{Year: year}

	totalPayments, totalTaxable := decimal.Zero, decimal.Zero
	perEmployee := map[string]decimal.Decimal{}
	for _, row := range rows {
		if row.Year != year {
			continue
		}
		totalPayments = totalPayments.Add(row.GrossPay)
		totalTaxable = totalTaxable.Add(row.FUTATaxableWages)
		perEmployee[row.EmployeeID] = perEmployee[row.EmployeeID].Add(row.FUTATaxableWages)
	}
	for employeeID, taxable := range perEmployee {
		if taxable.GreaterThan(wageBase) {
			return Form940Summary{}, fmt.Errorf("%w: employee %s has FUTA taxable wages %s over base %s",
				ErrCapExceeded, employeeID, taxable, wageBase)
		}
	}

	summary.TotalPayments = round2(totalPayments)
	summary.FUTATaxableWages = round2(totalTaxable)
	summary.FUTATax = round2(totalTaxable.Mul(futaRate))
	return summary, nil
}
