package company

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// GetCompany returns the single company record this deployment serves.
func (s *Store) GetCompany(ctx context.Context) (Company, error) {
	var c Company
	var rate string
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, fein, florida_account_number, default_tax_year, suta_rate::text, created_at, updated_at
    FROM companies
    ORDER BY created_at
    LIMIT 1
  `).Scan(&c.ID, &c.Name, &c.FEIN, &c.FloridaAccountNumber, &c.DefaultTaxYear, &rate, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrCompanyNotFound
	}
	if err != nil {
		return Company{}, err
	}
	c.SUTARate, err = decimal.NewFromString(rate)
	return c, err
}

// UpsertCompany creates the company on first save and updates it afterwards.
func (s *Store) UpsertCompany(ctx context.Context, c Company) (Company, error) {
	existing, err := s.GetCompany(ctx)
	switch {
	case errors.Is(err, ErrCompanyNotFound):
		c.ID = uuid.NewString()
		err = s.DB.QueryRow(ctx, `
      INSERT INTO companies (id, name, fein, florida_account_number, default_tax_year, suta_rate)
      VALUES ($1,$2,$3,$4,$5,$6)
      RETURNING created_at, updated_at
    `, c.ID, c.Name, c.FEIN, c.FloridaAccountNumber, c.DefaultTaxYear, c.SUTARate.String()).Scan(&c.CreatedAt, &c.UpdatedAt)
		return c, err
	case err != nil:
		return Company{}, err
	}

	c.ID = existing.ID
	err = s.DB.QueryRow(ctx, `
    UPDATE companies
    SET name = $2, fein = $3, florida_account_number = $4, default_tax_year = $5, suta_rate = $6, updated_at = now()
    WHERE id = $1
    RETURNING created_at, updated_at
  `, c.ID, c.Name, c.FEIN, c.FloridaAccountNumber, c.DefaultTaxYear, c.SUTARate.String()).Scan(&c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const employeeColumns = `
    id, company_id, first_name, last_name, ssn_last4, filing_status, pay_type, pay_frequency,
    base_rate::text, default_hours::text,
    other_income_annual::text, deductions_annual::text, dependents_credit::text, extra_withholding::text,
    active, created_at`

func (s *Store) ListEmployees(ctx context.Context, companyID string, activeOnly bool) ([]Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employees WHERE company_id = $1"
	if activeOnly {
		query += " AND active"
	}
	query += " ORDER BY last_name, first_name"

	rows, err := s.DB.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, employee)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id)
	employee, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return employee, err
}

func (s *Store) CreateEmployee(ctx context.Context, e Employee) (Employee, error) {
	e.ID = uuid.NewString()
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (
      id, company_id, first_name, last_name, ssn_last4, filing_status, pay_type, pay_frequency,
      base_rate, default_hours, other_income_annual, deductions_annual, dependents_credit, extra_withholding, active
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
    RETURNING created_at
  `, e.ID, e.CompanyID, e.FirstName, e.LastName, e.SSNLast4, e.FilingStatus, e.PayType, e.PayFrequency,
		e.BaseRate.String(), e.DefaultHours.String(), e.OtherIncomeAnnual.String(), e.DeductionsAnnual.String(),
		e.DependentsCredit.String(), e.ExtraWithholding.String(), e.Active).Scan(&e.CreatedAt)
	return e, err
}

func (s *Store) SetEmployeeActive(ctx context.Context, id string, active bool) error {
	tag, err := s.DB.Exec(ctx, "UPDATE employees SET active = $2 WHERE id = $1", id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	var baseRate, defaultHours, otherIncome, deductions, dependents, extra string
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.FirstName, &e.LastName, &e.SSNLast4, &e.FilingStatus, &e.PayType, &e.PayFrequency,
		&baseRate, &defaultHours, &otherIncome, &deductions, &dependents, &extra,
		&e.Active, &e.CreatedAt,
	)
	if err != nil {
		return Employee{}, err
	}

	for _, field := range []struct {
		text   string
		target *decimal.Decimal
	}{
		{baseRate, &e.BaseRate},
		{defaultHours, &e.DefaultHours},
		{otherIncome, &e.OtherIncomeAnnual},
		{deductions, &e.DeductionsAnnual},
		{dependents, &e.DependentsCredit},
		{extra, &e.ExtraWithholding},
	} {
		value, err := decimal.NewFromString(field.text)
		if err != nil {
			return Employee{}, err
		}
		*field.target = value
	}
	return e, nil
}
