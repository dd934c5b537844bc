package taxconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
)

type ratesFile struct {
	SocialSecurity SocialSecurity `json:"social_security"`
	Medicare       Medicare       `json:"medicare"`
	FUTA           FUTA           `json:"futa"`
	SUTA           SUTA           `json:"suta"`
}

type checkpointsFile struct {
	TaxYear            int                          `json:"tax_year"`
	StandardDeduction  map[string]decimal.Decimal   `json:"standard_deduction"`
	BracketLowerBounds map[string][]decimal.Decimal `json:"bracket_lower_bounds"`
}

type rawConfig struct {
	Metadata    Metadata
	Rates       ratesFile
	FIT         map[string]FITTable
	Checkpoints checkpointsFile
}

// Loader resolves tax-year file sets from a data directory laid out as
// {dir}/{year}/{metadata,rates,validation}.json plus
// {dir}/{year}/fit/{frequency}/percentage_method.json.
//
// Resolved configs are cached for the process lifetime. Tax files do not
// change at runtime, so concurrent first resolutions may load redundantly but
// converge on one immutable value.
type Loader struct {
	dir   string
	cache sync.Map // "year/frequency" -> *Config
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Resolve returns the validated config for (year, frequency). It fails closed:
// a missing file set, a malformed file, or a gate failure is an error, never a
// fallback config.
func (l *Loader) Resolve(year int, frequency string) (*Config, error) {
	periods, ok := periodsPerYear[frequency]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFrequency, frequency)
	}

	key := strconv.Itoa(year) + "/" + frequency
	if cached, ok := l.cache.Load(key); ok {
		return cached.(*Config), nil
	}

	raw, err := l.loadRaw(year, frequency)
	if err != nil {
		return nil, err
	}
	result := gate(raw, year, frequency)
	if !result.OK {
		return nil, &InvalidConfigError{Year: year, Frequency: frequency, Result: result}
	}

	cfg := &Config{
		Year:           year,
		Frequency:      frequency,
		Periods:        periods,
		Metadata:       raw.Metadata,
		FIT:            raw.FIT,
		SocialSecurity: raw.Rates.SocialSecurity,
		Medicare:       raw.Rates.Medicare,
		FUTA:           raw.Rates.FUTA,
		SUTA:           raw.Rates.SUTA,
	}
	cached, _ := l.cache.LoadOrStore(key, cfg)
	return cached.(*Config), nil
}

// Validate produces the operator-facing report for (year, frequency),
// including presence checks for every configured frequency. Unlike Resolve it
// never caches and collects all problems instead of stopping at the first.
func (l *Loader) Validate(year int, frequency string) ValidationResult {
	result := newValidationResult()
	result.Details["year"] = year
	result.Details["pay_frequency"] = frequency

	if _, ok := periodsPerYear[frequency]; !ok {
		result.addError("pay_frequency", "unsupported pay frequency %q", frequency)
		return result
	}

	yearDir := l.yearDir(year)
	if _, err := os.Stat(yearDir); err != nil {
		result.addError("config", "no tax data directory for year %d", year)
		return result
	}
	for _, freq := range Frequencies() {
		path := filepath.Join(yearDir, "fit", freq, "percentage_method.json")
		if _, err := os.Stat(path); err != nil {
			result.addError("fit."+freq, "missing FIT percentage tables at fit/%s/percentage_method.json", freq)
		}
	}

	raw, err := l.loadRaw(year, frequency)
	if err != nil {
		var invalid *InvalidConfigError
		if errors.As(err, &invalid) {
			result.merge(invalid.Result)
		} else {
			result.addError("config", "%s", err.Error())
		}
		return result
	}

	result.merge(gate(raw, year, frequency))
	return result
}

func (l *Loader) yearDir(year int) string {
	return filepath.Join(l.dir, strconv.Itoa(year))
}

func (l *Loader) loadRaw(year int, frequency string) (*rawConfig, error) {
	yearDir := l.yearDir(year)
	if _, err := os.Stat(yearDir); err != nil {
		return nil, fmt.Errorf("%w: year %d", ErrConfigNotFound, year)
	}

	raw := &rawConfig{}
	files := []struct {
		path     string
		field    string
		notFound string
		target   any
	}{
		{filepath.Join(yearDir, "metadata.json"), "metadata", fmt.Sprintf("year %d", year), &raw.Metadata},
		{filepath.Join(yearDir, "rates.json"), "rates", fmt.Sprintf("year %d", year), &raw.Rates},
		{filepath.Join(yearDir, "validation.json"), "validation", fmt.Sprintf("year %d", year), &raw.Checkpoints},
		{filepath.Join(yearDir, "fit", frequency, "percentage_method.json"), "fit." + frequency, fmt.Sprintf("year %d frequency %s", year, frequency), &raw.FIT},
	}

	for _, file := range files {
		data, err := os.ReadFile(file.path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, file.notFound)
			}
			return nil, err
		}
		if err := json.Unmarshal(data, file.target); err != nil {
			result := newValidationResult()
			result.addError(file.field, "invalid JSON in %s: %s", filepath.Base(file.path), err)
			return nil, &InvalidConfigError{Year: year, Frequency: frequency, Result: result}
		}
	}
	return raw, nil
}
