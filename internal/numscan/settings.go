package numscan

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// ErrInvalidSettings is returned when a precision context cannot be built.
var ErrInvalidSettings = errors.New("invalid scan settings")

// DefaultMaxPrecision is the digit ceiling used when none is configured.
const DefaultMaxPrecision = 200

// Settings is the precision context of a scan. It is fixed before the first
// token is parsed and never changes while the scan runs.
type Settings struct {
	// MaxPrecision is the number of significant digits the decimal engine
	// keeps. Tokens with this many digits or more are skipped.
	MaxPrecision uint32 `json:"max_precision"`

	// Scientific allows e/E exponents such as 7.5E-12.
	Scientific bool `json:"scientific"`

	MaxExponent int32 `json:"max_exponent"`
	MinExponent int32 `json:"min_exponent"`
}

// DefaultSettings returns precision 200 with scientific notation enabled.
func DefaultSettings() Settings {
	return Settings{
		MaxPrecision: DefaultMaxPrecision,
		Scientific:   true,
		MaxExponent:  apd.MaxExponent,
		MinExponent:  apd.MinExponent,
	}
}

// Validate checks the settings can back a decimal context.
func (s Settings) Validate() error {
	// Display rounding needs room for at least two fractional digits.
	if s.MaxPrecision < 2 {
		return fmt.Errorf("%w: max precision must be >= 2, got %d", ErrInvalidSettings, s.MaxPrecision)
	}
	if s.MaxPrecision > apd.MaxExponent {
		return fmt.Errorf("%w: max precision must be <= %d, got %d", ErrInvalidSettings, apd.MaxExponent, s.MaxPrecision)
	}
	if s.MaxExponent <= 0 || s.MaxExponent > apd.MaxExponent {
		return fmt.Errorf("%w: max exponent must be in (0, %d], got %d", ErrInvalidSettings, apd.MaxExponent, s.MaxExponent)
	}
	if s.MinExponent >= 0 || s.MinExponent < apd.MinExponent {
		return fmt.Errorf("%w: min exponent must be in [%d, 0), got %d", ErrInvalidSettings, apd.MinExponent, s.MinExponent)
	}
	return nil
}

// decimalContext builds the apd context shared by parsing, addition and
// display rounding.
func (s Settings) decimalContext() *apd.Context {
	return &apd.Context{
		Precision:   s.MaxPrecision,
		MaxExponent: s.MaxExponent,
		MinExponent: s.MinExponent,
		Traps:       apd.DefaultTraps,
		Rounding:    apd.RoundHalfEven,
	}
}

// NewContext validates settings and returns the decimal context they
// describe.
func NewContext(s Settings) (*apd.Context, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s.decimalContext(), nil
}
