package numscan

import (
	"strings"
	"unicode"
)

// disqualifiers mark URLs, ratios, percentages, placeholders and similar
// non-numeric content.
const disqualifiers = `!#%&:<>?@_|^\/~=`

// Classify is the cheap pre-filter run before any stripping. It returns
// ReasonNone when the token may still be a number.
func Classify(token string, scientific bool) Reason {
	if strings.IndexFunc(token, func(r rune) bool {
		if !unicode.IsLetter(r) {
			return false
		}
		return !scientific || (r != 'e' && r != 'E')
	}) >= 0 {
		return ReasonLetter
	}
	if strings.IndexFunc(token, isDigit) < 0 {
		return ReasonNoDigit
	}
	if strings.ContainsAny(token, disqualifiers) {
		return ReasonDisqualifier
	}
	return ReasonNone
}

// IsPotentiallyValidNumber reports whether token passes Classify.
func IsPotentiallyValidNumber(token string, scientific bool) bool {
	return Classify(token, scientific) == ReasonNone
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
