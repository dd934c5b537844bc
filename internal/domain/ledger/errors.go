package ledger

import "errors"

var (
	ErrRowExists   = errors.New("ledger row already exists for this employee and period")
	ErrRowNotFound = errors.New("ledger row not found")
)
