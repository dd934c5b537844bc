package taxconfig

import (
	"errors"
	"fmt"
)

var (
	ErrConfigNotFound          = errors.New("tax year configuration not found")
	ErrUnsupportedFrequency    = errors.New("unsupported pay frequency")
	ErrUnsupportedFilingStatus = errors.New("unsupported filing status")
)

// InvalidConfigError carries the full field-level validation report for a
// config that was found but failed the gate.
type InvalidConfigError struct {
	Year      int
	Frequency string
	Result    ValidationResult
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("tax year configuration invalid for %d/%s: %d error(s)", e.Year, e.Frequency, len(e.Result.Errors))
}
