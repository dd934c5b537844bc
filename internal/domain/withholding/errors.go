package withholding

import "errors"

var (
	ErrNegativeInput = errors.New("negative input rejected")
	ErrInvalidRate   = errors.New("rate out of range")
)
