package reports

import (
	"bytes"
	"encoding/csv"
)

// RT6DetailCSV renders the per-employee RT-6 detail for download. The detail
// repeats the taxable-wage figures already stored per row; nothing is
// re-derived here.
func RT6DetailCSV(summary RT6Summary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"employee_id", "gross", "taxable", "excess"}); err != nil {
		return nil, err
	}
	for _, detail := range summary.Detail {
		record := []string{
			detail.EmployeeID,
			detail.Gross.StringFixed(2),
			detail.Taxable.StringFixed(2),
			detail.Excess.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	return buf.Bytes(), writer.Error()
}
