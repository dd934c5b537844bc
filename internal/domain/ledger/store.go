package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"flpayroll/internal/domain/withholding"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Numeric columns are moved as text on the wire so decimal values survive
// round-trips without binary float conversion.
const rowColumns = `
    id, company_id, employee_id, year, month, revision, pay_date, hours_worked::text,
    gross_pay::text, fit::text, ss_ee::text, medicare_ee::text, addl_medicare_ee::text,
    ss_er::text, medicare_er::text, futa_er::text, suta_er::text,
    other_deductions::text, net_pay::text,
    ss_taxable_wages::text, medicare_taxable_wages::text, futa_taxable_wages::text, suta_taxable_wages::text,
    ss_employee_rate::text, medicare_employee_rate::text,
    tax_year_version, pay_frequency, trace, created_at`

// Insert persists a computed row for (company, employee, year, month). The
// first insert gets revision 1; a later insert requires supersede and gets
// the next revision. Existing revisions are never updated.
func (s *Store) Insert(ctx context.Context, row Row, supersede bool) (Row, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Row{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var maxRevision int
	err = tx.QueryRow(ctx, `
    SELECT COALESCE(MAX(revision), 0)
    FROM payroll_ledger
    WHERE company_id = $1 AND employee_id = $2 AND year = $3 AND month = $4
  `, row.CompanyID, row.EmployeeID, row.Year, row.Month).Scan(&maxRevision)
	if err != nil {
		return Row{}, err
	}
	if maxRevision > 0 && !supersede {
		return Row{}, ErrRowExists
	}

	row.ID = uuid.NewString()
	row.Revision = maxRevision + 1

	traceJSON, err := json.Marshal(row.Trace)
	if err != nil {
		return Row{}, err
	}

	err = tx.QueryRow(ctx, `
    INSERT INTO payroll_ledger (
      id, company_id, employee_id, year, month, revision, pay_date, hours_worked,
      gross_pay, fit, ss_ee, medicare_ee, addl_medicare_ee,
      ss_er, medicare_er, futa_er, suta_er,
      other_deductions, net_pay,
      ss_taxable_wages, medicare_taxable_wages, futa_taxable_wages, suta_taxable_wages,
      ss_employee_rate, medicare_employee_rate,
      tax_year_version, pay_frequency, trace
    ) VALUES (
      $1,$2,$3,$4,$5,$6,$7,$8,
      $9,$10,$11,$12,$13,
      $14,$15,$16,$17,
      $18,$19,
      $20,$21,$22,$23,
      $24,$25,
      $26,$27,$28
    )
    RETURNING created_at
  `,
		row.ID, row.CompanyID, row.EmployeeID, row.Year, row.Month, row.Revision, row.PayDate, row.HoursWorked.String(),
		row.GrossPay.String(), row.FIT.String(), row.SocialSecurityEmployee.String(), row.MedicareEmployee.String(), row.AdditionalMedicareEmployee.String(),
		row.SocialSecurityEmployer.String(), row.MedicareEmployer.String(), row.FUTAEmployer.String(), row.SUTAEmployer.String(),
		row.OtherDeductions.String(), row.NetPay.String(),
		row.SocialSecurityTaxableWages.String(), row.MedicareTaxableWages.String(), row.FUTATaxableWages.String(), row.SUTATaxableWages.String(),
		row.SocialSecurityEmployeeRate.String(), row.MedicareEmployeeRate.String(),
		row.ConfigVersion, row.PayFrequency, traceJSON,
	).Scan(&row.CreatedAt)
	if err != nil {
		return Row{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Row{}, err
	}
	return row, nil
}

func (s *Store) Get(ctx context.Context, id string) (Row, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+rowColumns+" FROM payroll_ledger WHERE id = $1", id)
	out, err := scanRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Row{}, ErrRowNotFound
	}
	return out, err
}

// LatestForQuarter returns the latest revision of every row for the company
// whose period falls inside the quarter.
func (s *Store) LatestForQuarter(ctx context.Context, companyID string, year, quarter int) ([]Row, error) {
	start, end := QuarterMonths(quarter)
	return s.latest(ctx, `
    SELECT DISTINCT ON (employee_id, month) `+rowColumns+`
    FROM payroll_ledger
    WHERE company_id = $1 AND year = $2 AND month BETWEEN $3 AND $4
    ORDER BY employee_id, month, revision DESC
  `, companyID, year, start, end)
}

func (s *Store) LatestForYear(ctx context.Context, companyID string, year int) ([]Row, error) {
	return s.latest(ctx, `
    SELECT DISTINCT ON (employee_id, month) `+rowColumns+`
    FROM payroll_ledger
    WHERE company_id = $1 AND year = $2
    ORDER BY employee_id, month, revision DESC
  `, companyID, year)
}

func (s *Store) LatestForEmployeeYear(ctx context.Context, companyID, employeeID string, year int) ([]Row, error) {
	return s.latest(ctx, `
    SELECT DISTINCT ON (month) `+rowColumns+`
    FROM payroll_ledger
    WHERE company_id = $1 AND employee_id = $2 AND year = $3
    ORDER BY month, revision DESC
  `, companyID, employeeID, year)
}

// PriorYTD sums the cap-relevant taxable wages over the latest revisions of
// all months before the given one, within the same calendar year.
func (s *Store) PriorYTD(ctx context.Context, companyID, employeeID string, year, month int) (withholding.PriorYTD, error) {
	var ssText, medicareText, futaText, sutaText string
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(ss_taxable_wages), 0)::text,
           COALESCE(SUM(medicare_taxable_wages), 0)::text,
           COALESCE(SUM(futa_taxable_wages), 0)::text,
           COALESCE(SUM(suta_taxable_wages), 0)::text
    FROM (
      SELECT DISTINCT ON (month) ss_taxable_wages, medicare_taxable_wages, futa_taxable_wages, suta_taxable_wages
      FROM payroll_ledger
      WHERE company_id = $1 AND employee_id = $2 AND year = $3 AND month < $4
      ORDER BY month, revision DESC
    ) latest
  `, companyID, employeeID, year, month).Scan(&ssText, &medicareText, &futaText, &sutaText)
	if err != nil {
		return withholding.PriorYTD{}, err
	}

	sc := &decScanner{}
	prior := withholding.PriorYTD{
		SocialSecurityTaxableWages: sc.dec(ssText),
		MedicareWages:              sc.dec(medicareText),
		FUTATaxableWages:           sc.dec(futaText),
		SUTATaxableWages:           sc.dec(sutaText),
	}
	return prior, sc.err
}

func (s *Store) latest(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

type decScanner struct {
	err error
}

func (d *decScanner) dec(text string) decimal.Decimal {
	value, err := decimal.NewFromString(text)
	if err != nil && d.err == nil {
		d.err = fmt.Errorf("parse numeric %q: %w", text, err)
	}
	return value
}

func scanRow(row pgx.Row) (Row, error) {
	var out Row
	var hours, gross, fit, ssEE, medEE, addlEE, ssER, medER, futaER, sutaER string
	var otherDeductions, net, ssWages, medWages, futaWages, sutaWages, ssRate, medRate string
	var traceJSON []byte

	err := row.Scan(
		&out.ID, &out.CompanyID, &out.EmployeeID, &out.Year, &out.Month, &out.Revision, &out.PayDate, &hours,
		&gross, &fit, &ssEE, &medEE, &addlEE,
		&ssER, &medER, &futaER, &sutaER,
		&otherDeductions, &net,
		&ssWages, &medWages, &futaWages, &sutaWages,
		&ssRate, &medRate,
		&out.ConfigVersion, &out.PayFrequency, &traceJSON, &out.CreatedAt,
	)
	if err != nil {
		return Row{}, err
	}

	sc := &decScanner{}
	out.HoursWorked = sc.dec(hours)
	out.GrossPay = sc.dec(gross)
	out.FIT = sc.dec(fit)
	out.SocialSecurityEmployee = sc.dec(ssEE)
	out.MedicareEmployee = sc.dec(medEE)
	out.AdditionalMedicareEmployee = sc.dec(addlEE)
	out.SocialSecurityEmployer = sc.dec(ssER)
	out.MedicareEmployer = sc.dec(medER)
	out.FUTAEmployer = sc.dec(futaER)
	out.SUTAEmployer = sc.dec(sutaER)
	out.OtherDeductions = sc.dec(otherDeductions)
	out.NetPay = sc.dec(net)
	out.SocialSecurityTaxableWages = sc.dec(ssWages)
	out.MedicareTaxableWages = sc.dec(medWages)
	out.FUTATaxableWages = sc.dec(futaWages)
	out.SUTATaxableWages = sc.dec(sutaWages)
	out.SocialSecurityEmployeeRate = sc.dec(ssRate)
	out.MedicareEmployeeRate = sc.dec(medRate)
	if sc.err != nil {
		return Row{}, sc.err
	}

	out.TaxYear = out.Year
	if len(traceJSON) > 0 {
		if err := json.Unmarshal(traceJSON, &out.Trace); err != nil {
			return Row{}, err
		}
	}
	return out, nil
}
