package numscan

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

const (
	// NoNumbersMessage is shown when nothing in the selection was accepted.
	NoNumbersMessage = "No selected valid numbers were found."

	displayPrefix = "Selected Sum = "
)

// ErrQuantize reports that rounding the total to cents failed. The display
// string returned alongside it is still usable.
var ErrQuantize = errors.New("display quantization failed")

// Format renders a total for display:
//
//   - no accepted values: NoNumbersMessage
//   - integral total: "Selected Sum = 1000000"
//   - total exact at two decimals: "Selected Sum = 1000489.09"
//   - anything finer: the full value, never rounded
func Format(ctx *apd.Context, total *apd.Decimal, accepted int) (string, error) {
	if accepted == 0 {
		return NoNumbersMessage, nil
	}

	// Reduce without a context: trailing zeros go, significant digits stay.
	var norm apd.Decimal
	norm.Reduce(total)
	if norm.IsZero() {
		norm.Negative = false
		norm.Exponent = 0
	}
	if norm.Exponent >= 0 {
		return displayPrefix + norm.Text('f'), nil
	}

	var cents apd.Decimal
	if _, err := ctx.Quantize(&cents, &norm, -2); err != nil {
		return displayPrefix + norm.String(), fmt.Errorf("%w: %v", ErrQuantize, err)
	}
	if cents.Cmp(&norm) == 0 {
		return displayPrefix + cents.Text('f'), nil
	}
	return displayPrefix + norm.String(), nil
}
