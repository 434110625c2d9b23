package numscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		token      string
		scientific bool
		want       Reason
	}{
		{"7.", true, ReasonNone},
		{`"-$10.00,"`, true, ReasonNone},
		{"[-[$600*]*]", true, ReasonNone},
		{"7.89101112131415E-12", true, ReasonNone},
		{"7.89101112131415E-12", false, ReasonLetter},
		{"5x", true, ReasonLetter},
		{"12е3", true, ReasonLetter}, // Cyrillic ie
		{"---", true, ReasonNoDigit},
		{"$", true, ReasonNoDigit},
		{"11?", true, ReasonDisqualifier},
		{"46.58%", true, ReasonDisqualifier},
		{"$48.00/year", true, ReasonLetter},
		{"$48.00/", true, ReasonDisqualifier},
		{"12:30", true, ReasonDisqualifier},
		{"a=1", true, ReasonLetter},
		{"=1", true, ReasonDisqualifier},
		{"~5", true, ReasonDisqualifier},
		{"1_000", true, ReasonDisqualifier},
		{"2^8", true, ReasonDisqualifier},
		{`1\2`, true, ReasonDisqualifier},
		{"<5>", true, ReasonDisqualifier},
		{"5;", true, ReasonNone},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.token, tt.scientific))
			assert.Equal(t, tt.want == ReasonNone, IsPotentiallyValidNumber(tt.token, tt.scientific))
		})
	}
}

func TestClassify_EveryDisqualifier(t *testing.T) {
	for _, c := range disqualifiers {
		token := "1" + string(c) + "2"
		assert.Equal(t, ReasonDisqualifier, Classify(token, true), "token %q", token)
	}
}
