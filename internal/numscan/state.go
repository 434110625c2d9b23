package numscan

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// ErrOverflow is returned by RunState.Add when the running total leaves the
// configured exponent range.
var ErrOverflow = errors.New("running total overflow")

// RunState accumulates one scan. It is owned by a single goroutine.
type RunState struct {
	Total apd.Decimal

	AcceptedCount       int
	NegativeCount       int
	SkippedForPrecision int
	ConversionFailures  int
	RejectedCount       int
	TokenCount          int
	LineCount           int

	// Inexact is set when an addition had to round. With the default
	// precision this never happens for tokens that passed the precision gate.
	Inexact bool

	settings Settings
	ctx      *apd.Context
}

// NewRunState returns an empty state bound to settings.
func NewRunState(settings Settings) (*RunState, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &RunState{
		settings: settings,
		ctx:      settings.decimalContext(),
	}, nil
}

// Add folds an accepted result into the total. A failed addition leaves the
// total untouched so the state stays a valid prefix sum.
func (s *RunState) Add(r Result) error {
	if !r.Accepted() {
		return fmt.Errorf("cannot add rejected token (%s)", r.Reason)
	}
	var sum apd.Decimal
	cond, err := s.ctx.Add(&sum, &s.Total, r.Value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOverflow, err)
	}
	if cond.Inexact() {
		s.Inexact = true
	}
	s.Total.Set(&sum)
	s.AcceptedCount++
	if r.Negative {
		s.NegativeCount++
	}
	return nil
}

// Settings returns the precision context of the scan.
func (s *RunState) Settings() Settings {
	return s.settings
}
