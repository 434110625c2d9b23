package numscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripDecoration(t *testing.T) {
	tests := []struct {
		token     string
		wantRest  string
		wantMinus int
	}{
		{"7.", "7.", 0},
		{`"-$10.00,"`, "10.00", 1},
		{"+$700.-----", "700.-----", 0},
		{"(00.100)", "00.100", 0},
		{"$1,000,000.--", "1,000,000.--", 0},
		{`"199.99*"`, "199.99", 0},
		{"-$$9", "9", 1},
		{"[-$400.00]", "400.00", 1},
		{"[-[$600*]*]", "600", 1},
		{"+++[[500]]", "500", 0},
		{"[[100*]*]", "100", 0},
		{"-[-[40]]", "40", 2},
		{"--5", "5", 2},
		{"]7[", "]7[", 0},
		{"*9", "*9", 0},
		{"7*7", "7*7", 0},
		{"5;", "5", 0},
		{"'12'", "12", 0},
		{"", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			rest, minus := StripDecoration(tt.token)
			assert.Equal(t, tt.wantRest, rest)
			assert.Equal(t, tt.wantMinus, minus)
		})
	}
}

func TestStripDecoration_Idempotent(t *testing.T) {
	tokens := []string{
		`"-$10.00,"`, "[-[$600*]*]", "+++[[500]]", "-[-[40]]", "$-$-$1", "((([[[-7]]])))", `'"-"'3`,
	}
	for _, token := range tokens {
		once, _ := StripDecoration(token)
		twice, minus := StripDecoration(once)
		assert.Equal(t, once, twice, "token %q", token)
		assert.Zero(t, minus, "token %q", token)
	}
}
