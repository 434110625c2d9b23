package numscan

import "fmt"

// Summary is produced once per scan for presentation layers.
type Summary struct {
	DisplayString            string `json:"display_string"`
	Total                    string `json:"total,omitempty"`
	AcceptedCount            int    `json:"accepted_count"`
	NegativeCount            int    `json:"negative_count"`
	SkippedForPrecisionCount int    `json:"skipped_for_precision_count"`
	ConversionFailures       int    `json:"conversion_failures"`
	RejectedCount            int    `json:"rejected_count"`
	TokenCount               int    `json:"token_count"`
	LineCount                int    `json:"line_count"`
	MaxPrecision             uint32 `json:"max_precision"`
	Inexact                  bool   `json:"inexact,omitempty"`

	// Degraded is set when display rounding failed and the unrounded total
	// was shown instead.
	Degraded bool `json:"degraded,omitempty"`
}

// Summary formats the state. It never fails; a rounding failure is reported
// through Degraded.
func (s *RunState) Summary() Summary {
	display, err := Format(s.ctx, &s.Total, s.AcceptedCount)
	sum := Summary{
		DisplayString:            display,
		AcceptedCount:            s.AcceptedCount,
		NegativeCount:            s.NegativeCount,
		SkippedForPrecisionCount: s.SkippedForPrecision,
		ConversionFailures:       s.ConversionFailures,
		RejectedCount:            s.RejectedCount,
		TokenCount:               s.TokenCount,
		LineCount:                s.LineCount,
		MaxPrecision:             s.settings.MaxPrecision,
		Inexact:                  s.Inexact,
		Degraded:                 err != nil,
	}
	if s.AcceptedCount > 0 {
		sum.Total = s.Total.String()
	}
	return sum
}

// Notices returns the auxiliary notes shown after the sum, if any.
func (s Summary) Notices() []string {
	var notes []string
	if s.NegativeCount > 0 {
		notes = append(notes, fmt.Sprintf("Note: %d negative numbers were evaluated and subtracted.", s.NegativeCount))
	}
	if s.SkippedForPrecisionCount > 0 {
		notes = append(notes, fmt.Sprintf("%d numbers ignored due to digit length exceeding %d", s.SkippedForPrecisionCount, s.MaxPrecision))
	}
	return notes
}
