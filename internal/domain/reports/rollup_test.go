package reports

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"flpayroll/internal/domain/ledger"
	"flpayroll/internal/domain/withholding"
)

func dec(t *testing.T, text string) decimal.Decimal {
	t.Helper()
	value, err := decimal.NewFromString(text)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", text, err)
	}
	return value
}

func monthRow(t *testing.T, employeeID string, year, month int, gross string) ledger.Row {
	t.Helper()
	g := dec(t, gross)
	return ledger.Row{
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
		LedgerRow: withholding.LedgerRow{
			GrossPay:                   g,
			FIT:                        g.Mul(dec(t, "0.08")).Round(2),
			SocialSecurityEmployee:     g.Mul(dec(t, "0.062")).Round(2),
			SocialSecurityEmployer:     g.Mul(dec(t, "0.062")).Round(2),
			MedicareEmployee:           g.Mul(dec(t, "0.0145")).Round(2),
			MedicareEmployer:           g.Mul(dec(t, "0.0145")).Round(2),
			SocialSecurityTaxableWages: g,
			MedicareTaxableWages:       g,
			FUTATaxableWages:           g,
			SUTATaxableWages:           g,
			SocialSecurityEmployeeRate: dec(t, "0.062"),
			MedicareEmployeeRate:       dec(t, "0.0145"),
			TaxYear:                    year,
		},
	}
}

func assertEqual(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: got %s, want %s", name, got, want)
	}
}

func TestQuarter941Sums(t *testing.T) {
	rows := []ledger.Row{
		monthRow(t, "emp-a", 2026, 1, "4000"),
		monthRow(t, "emp-a", 2026, 2, "4000"),
		monthRow(t, "emp-a", 2026, 3, "4000"),
		monthRow(t, "emp-b", 2026, 2, "3000"),
		// Outside the quarter, must be ignored.
		monthRow(t, "emp-a", 2026, 4, "4000"),
		monthRow(t, "emp-a", 2025, 2, "4000"),
	}

	summary := Quarter941(rows, 2026, 1)

	assertEqual(t, "wages", summary.Wages, "15000")
	assertEqual(t, "fit", summary.FederalWithholding, "1200")
	assertEqual(t, "ss wages", summary.SocialSecurityWages, "15000")
	// 15000 * 0.062 * 2 (employee + employer).
	assertEqual(t, "ss tax", summary.SocialSecurityTax, "1860")
	assertEqual(t, "medicare wages", summary.MedicareWages, "15000")
	assertEqual(t, "medicare tax", summary.MedicareTax, "435")
	assertEqual(t, "additional medicare", summary.AdditionalMedicareWithheld, "0")
	assertEqual(t, "total taxes", summary.TotalTaxes, "3495")
}

func TestQuarter941OrderIndependent(t *testing.T) {
	rows := []ledger.Row{
		monthRow(t, "emp-a", 2026, 1, "4000.33"),
		monthRow(t, "emp-b", 2026, 2, "2999.67"),
		monthRow(t, "emp-c", 2026, 3, "1234.56"),
	}
	reversed := []ledger.Row{rows[2], rows[0], rows[1]}

	a := Quarter941(rows, 2026, 1)
	b := Quarter941(reversed, 2026, 1)

	if !a.TotalTaxes.Equal(b.TotalTaxes) || !a.Wages.Equal(b.Wages) {
		t.Fatalf("permuting rows changed the summary: %v vs %v", a, b)
	}
}

func TestQuarterRT6Detail(t *testing.T) {
	rows := []ledger.Row{
		monthRow(t, "emp-a", 2026, 1, "4000"),
		monthRow(t, "emp-a", 2026, 2, "4000"),
		monthRow(t, "emp-b", 2026, 1, "3000"),
	}
	// emp-a hit the 7000 wage base in month 2: only 3000 was taxable.
	rows[1].SUTATaxableWages = dec(t, "3000")

	summary := QuarterRT6(rows, 2026, 1, dec(t, "0.027"))

	assertEqual(t, "gross", summary.GrossWages, "11000")
	assertEqual(t, "taxable", summary.TaxableWages, "10000")
	assertEqual(t, "excess", summary.ExcessWages, "1000")
	assertEqual(t, "tax due", summary.TaxDue, "270")

	if len(summary.Detail) != 2 {
		t.Fatalf("expected 2 employees in detail, got %d", len(summary.Detail))
	}
	// Detail is sorted by employee for stable output.
	if summary.Detail[0].EmployeeID != "emp-a" || summary.Detail[1].EmployeeID != "emp-b" {
		t.Fatalf("unexpected detail order: %v", summary.Detail)
	}
	assertEqual(t, "emp-a excess", summary.Detail[0].Excess, "1000")
	assertEqual(t, "emp-b excess", summary.Detail[1].Excess, "0")
}

func TestYear940(t *testing.T) {
	rows := []ledger.Row{
		monthRow(t, "emp-a", 2026, 1, "4000"),
		monthRow(t, "emp-a", 2026, 2, "4000"),
		monthRow(t, "emp-b", 2026, 6, "2500"),
	}
	rows[1].FUTATaxableWages = dec(t, "3000")

	summary, err := Year940(rows, 2026, dec(t, "0.006"), dec(t, "7000"))
	if err != nil {
		t.Fatalf("Year940: %v", err)
	}

	assertEqual(t, "total payments", summary.TotalPayments, "10500")
	assertEqual(t, "futa taxable", summary.FUTATaxableWages, "9500")
	assertEqual(t, "futa tax", summary.FUTATax, "57")
}

func TestYear940CapConsistency(t *testing.T) {
	rows := []ledger.Row{
		monthRow(t, "emp-a", 2026, 1, "4000"),
		monthRow(t, "emp-a", 2026, 2, "4000"),
	}

	// Stored taxable wages sum to 8000 against a 7000 base.
	_, err := Year940(rows, 2026, dec(t, "0.006"), dec(t, "7000"))
	if !errors.Is(err, ErrCapExceeded) {
		t.Fatalf("expected ErrCapExceeded, got %v", err)
	}
}

func TestRT6DetailCSV(t *testing.T) {
	summary := QuarterRT6([]ledger.Row{
		monthRow(t, "emp-a", 2026, 1, "4000"),
	}, 2026, 1, dec(t, "0.027"))

	data, err := RT6DetailCSV(summary)
	if err != nil {
		t.Fatalf("RT6DetailCSV: %v", err)
	}

	want := "employee_id,gross,taxable,excess\nemp-a,4000.00,4000.00,0.00\n"
	if string(data) != want {
		t.Fatalf("unexpected csv:\n%s", data)
	}
}

func TestBuildYTDLines(t *testing.T) {
	rows := []ledger.Row{
		monthRow(t, "emp-a", 2026, 1, "4000"),
		monthRow(t, "emp-a", 2026, 2, "4000"),
		monthRow(t, "emp-a", 2026, 3, "4000"),
	}
	for i := range rows {
		rows[i].NetPay = dec(t, "3000")
	}

	lines := BuildYTDLines(rows, 2)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines through month 2, got %d", len(lines))
	}
	assertEqual(t, "running gross", lines[1].RunningGross, "8000")
	assertEqual(t, "running net", lines[1].RunningNet, "6000")
}
