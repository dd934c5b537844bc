package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"flpayroll/internal/domain/withholding"
)

// Row is one persisted ledger entry: the computed period result plus its
// identity. A period is superseded by inserting a higher revision; earlier
// revisions stay readable for audit.
type Row struct {
	ID         string `json:"id"`
	CompanyID  string `json:"companyId"`
	EmployeeID string `json:"employeeId"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Revision   int    `json:"revision"`

	PayDate     time.Time       `json:"payDate"`
	HoursWorked decimal.Decimal `json:"hoursWorked"`

	withholding.LedgerRow

	CreatedAt time.Time `json:"createdAt"`
}

// QuarterMonths returns the first and last month of a calendar quarter.
func QuarterMonths(quarter int) (int, int) {
	start := (quarter-1)*3 + 1
	return start, start + 2
}
