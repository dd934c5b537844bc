package reports

import (
	"errors"
	"testing"

	"flpayroll/internal/domain/ledger"
)

func TestMapW2(t *testing.T) {
	rows := []ledger.Row{
		monthRow(t, "emp-a", 2026, 1, "4000"),
		monthRow(t, "emp-a", 2026, 2, "4000"),
		monthRow(t, "emp-a", 2026, 3, "4000"),
	}

	boxes, err := MapW2(rows)
	if err != nil {
		t.Fatalf("MapW2: %v", err)
	}

	assertEqual(t, "box 1", boxes.Box1Wages, "12000")
	assertEqual(t, "box 2", boxes.Box2FederalWithholding, "960")
	// Box 4 is the sum of withheld amounts; box 3 is back-derived from it.
	assertEqual(t, "box 4", boxes.Box4SocialSecurityTax, "744")
	assertEqual(t, "box 3", boxes.Box3SocialSecurityWages, "12000")
	assertEqual(t, "box 6", boxes.Box6MedicareTax, "174")
	assertEqual(t, "box 5", boxes.Box5MedicareWages, "12000")
}

func TestMapW2WithAdditionalMedicare(t *testing.T) {
	rows := []ledger.Row{
		monthRow(t, "emp-a", 2026, 1, "4000"),
		monthRow(t, "emp-a", 2026, 2, "4000"),
	}
	rows[1].AdditionalMedicareEmployee = dec(t, "27")

	boxes, err := MapW2(rows)
	if err != nil {
		t.Fatalf("MapW2: %v", err)
	}

	// Box 5 derives from regular Medicare only; box 6 adds the additional
	// withholding on top.
	assertEqual(t, "box 5", boxes.Box5MedicareWages, "8000")
	assertEqual(t, "box 6", boxes.Box6MedicareTax, "143")
}

func TestMapW2Empty(t *testing.T) {
	boxes, err := MapW2(nil)
	if err != nil {
		t.Fatalf("MapW2: %v", err)
	}
	if !boxes.Box1Wages.IsZero() || !boxes.Box6MedicareTax.IsZero() {
		t.Fatalf("expected zero boxes for no rows, got %+v", boxes)
	}
}

func TestMapW2InconsistentRate(t *testing.T) {
	rows := []ledger.Row{
		monthRow(t, "emp-a", 2026, 1, "4000"),
		monthRow(t, "emp-a", 2026, 2, "4000"),
	}
	rows[1].SocialSecurityEmployeeRate = dec(t, "0.063")

	_, err := MapW2(rows)
	if !errors.Is(err, ErrInconsistentRate) {
		t.Fatalf("expected ErrInconsistentRate, got %v", err)
	}
}

func TestMapW2ZeroRate(t *testing.T) {
	row := monthRow(t, "emp-a", 2026, 1, "4000")
	row.SocialSecurityEmployeeRate = dec(t, "0")
	row.MedicareEmployeeRate = dec(t, "0")

	_, err := MapW2([]ledger.Row{row})
	if !errors.Is(err, ErrInconsistentRate) {
		t.Fatalf("expected ErrInconsistentRate for zero rates, got %v", err)
	}
}
