package reports

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"flpayroll/internal/domain/ledger"
)

// YTDLine is one month of the running year-to-date table printed on a
// paystub.
type YTDLine struct {
	Month        int
	Gross        decimal.Decimal
	Net          decimal.Decimal
	RunningGross decimal.Decimal
	RunningNet   decimal.Decimal
}

// BuildYTDLines walks an employee's rows through the paystub's month and
// accumulates the running totals.
func BuildYTDLines(rows []ledger.Row, throughMonth int) []YTDLine {
	runningGross, runningNet := decimal.Zero, decimal.Zero
	var lines []YTDLine
	for _, row := range rows {
		if row.Month > throughMonth {
			continue
		}
		runningGross = runningGross.Add(row.GrossPay)
		runningNet = runningNet.Add(row.NetPay)
		lines = append(lines, YTDLine{
			Month:        row.Month,
			Gross:        row.GrossPay,
			Net:          row.NetPay,
			RunningGross: round2(runningGross),
			RunningNet:   round2(runningNet),
		})
	}
	return lines
}

// GeneratePaystubPDF writes the paystub for one ledger row.
func GeneratePaystubPDF(path, companyName, employeeName string, row ledger.Row, ytd []YTDLine) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Pay Stub")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Company: %s", companyName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", employeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %d-%02d (paid %s)", row.Year, row.Month, row.PayDate.Format("2006-01-02")))
	pdf.Ln(10)

	amounts := []struct {
		label string
		value decimal.Decimal
	}{
		{"Gross pay", row.GrossPay},
		{"Federal income tax", row.FIT},
		{"Social Security", row.SocialSecurityEmployee},
		{"Medicare", row.MedicareEmployee},
		{"Additional Medicare", row.AdditionalMedicareEmployee},
		{"Other deductions", row.OtherDeductions},
		{"Net pay", row.NetPay},
	}
	for _, amount := range amounts {
		pdf.Cell(0, 8, fmt.Sprintf("%s: %s", amount.label, amount.value.StringFixed(2)))
		pdf.Ln(7)
	}

	if len(ytd) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Year to date")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, line := range ytd {
			pdf.Cell(0, 7, fmt.Sprintf("Month %02d  gross %s  net %s  (running %s / %s)",
				line.Month, line.Gross.StringFixed(2), line.Net.StringFixed(2),
				line.RunningGross.StringFixed(2), line.RunningNet.StringFixed(2)))
			pdf.Ln(6)
		}
	}

	return pdf.OutputFileAndClose(path)
}
