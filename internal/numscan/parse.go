package numscan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

var (
	// groupedNumber is the only accepted thousands-separator layout.
	groupedNumber = regexp.MustCompile(`^\d{1,3}(,\d{3})*(\.\d+)?$`)

	// numeral is what remains once decoration, sign and grouping are gone.
	numeral = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

// Result is the outcome of parsing one token.
type Result struct {
	// Value is nil unless the token was accepted.
	Value *apd.Decimal

	// Negative is true when exactly one minus was consumed and the value is
	// not zero. -0.00 is not negative.
	Negative bool

	Reason Reason
	Stage  Stage

	// Cleaned is the token as the last stage saw it.
	Cleaned string
}

// Accepted reports whether the token produced a value.
func (r Result) Accepted() bool {
	return r.Reason == ReasonNone && r.Value != nil
}

// Parser turns single tokens into signed decimals.
type Parser struct {
	settings Settings
	ctx      *apd.Context
}

// NewParser validates settings and builds a parser.
func NewParser(settings Settings) (*Parser, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Parser{
		settings: settings,
		ctx:      settings.decimalContext(),
	}, nil
}

// Settings returns the precision context the parser was built with.
func (p *Parser) Settings() Settings {
	return p.settings
}

// Parse runs token through every stage in order and stops at the first
// rejection. state may be nil; otherwise its SkippedForPrecision and
// ConversionFailures counters are incremented for the matching rejections.
func (p *Parser) Parse(token string, state *RunState) Result {
	if reason := Classify(token, p.settings.Scientific); reason != ReasonNone {
		return rejected(StageClassify, reason, token)
	}

	s, minusCount := StripDecoration(token)
	negative, ok := ResolveSign(minusCount)
	if !ok {
		return rejected(StageSign, ReasonMultipleMinus, s)
	}

	s, reason := FillTrailingDashes(s)
	if reason != ReasonNone {
		return rejected(StageDashFill, reason, s)
	}

	s, reason = ValidateGrouping(s)
	if reason != ReasonNone {
		return rejected(StageGrouping, reason, s)
	}

	if ExceedsPrecision(s, p.settings.MaxPrecision) {
		if state != nil {
			state.SkippedForPrecision++
		}
		return rejected(StagePrecision, ReasonPrecision, s)
	}

	value, err := p.Convert(s)
	if err != nil {
		if state != nil {
			state.ConversionFailures++
		}
		return rejected(StageConvert, ReasonMalformed, s)
	}

	if negative {
		value.Neg(value)
	}
	return Result{
		Value:    value,
		Negative: negative && !value.IsZero(),
		Stage:    StageConvert,
		Cleaned:  s,
	}
}

// ResolveSign maps the number of consumed leading minus signs to a sign.
// Stacked negation is ambiguous, so two or more are refused.
func ResolveSign(minusCount int) (negative, ok bool) {
	switch minusCount {
	case 0:
		return false, true
	case 1:
		return true, true
	default:
		return false, false
	}
}

// FillTrailingDashes handles decimal points and trailing dash runs.
// "7.---" becomes "7.0"; "17-" and "1E5-" are refused; more than one point
// is refused outright.
func FillTrailingDashes(s string) (string, Reason) {
	points := strings.Count(s, ".")
	if points > 1 {
		return s, ReasonMultiplePoints
	}
	if !strings.HasSuffix(s, "-") {
		return s, ReasonNone
	}
	if strings.ContainsAny(s, "eE") {
		return s, ReasonExponentDash
	}
	if points == 0 {
		return s, ReasonTrailingDash
	}
	return strings.TrimRight(s, "-") + "0", ReasonNone
}

// ValidateGrouping checks thousands separators and removes them.
// Strings without commas pass through untouched.
func ValidateGrouping(s string) (string, Reason) {
	if !strings.Contains(s, ",") {
		return s, ReasonNone
	}
	if !groupedNumber.MatchString(s) {
		return s, ReasonBadGrouping
	}
	return strings.ReplaceAll(s, ",", ""), ReasonNone
}

// DigitCount counts ASCII decimal digits in s.
func DigitCount(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}

// ExceedsPrecision reports whether s carries at least maxPrecision digits.
func ExceedsPrecision(s string, maxPrecision uint32) bool {
	return DigitCount(s) >= int(maxPrecision)
}

// Convert parses a cleaned numeral into a decimal under the parser's
// precision context.
func (p *Parser) Convert(s string) (*apd.Decimal, error) {
	if !numeral.MatchString(s) {
		return nil, fmt.Errorf("not a numeral: %q", s)
	}
	d, _, err := p.ctx.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("decimal conversion of %q: %w", s, err)
	}
	return d, nil
}

func rejected(stage Stage, reason Reason, cleaned string) Result {
	return Result{Reason: reason, Stage: stage, Cleaned: cleaned}
}
