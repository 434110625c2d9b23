package numscan

import "strings"

const (
	trailingDecoration = `])*;,'"`
	leadingDecoration  = `+$(['"`
)

// StripDecoration peels wrapping characters off both ends of token until a
// full pass removes nothing. Each pass also consumes at most one leading
// minus; minusCount reports how many were consumed in total.
//
//	StripDecoration(`[-[$600*]*]`) // "600", 1
//	StripDecoration(`-[-[40]]`)    // "40", 2
func StripDecoration(token string) (rest string, minusCount int) {
	for {
		before := len(token)
		token = strings.TrimRight(token, trailingDecoration)
		token = strings.TrimLeft(token, leadingDecoration)
		if strings.HasPrefix(token, "-") {
			token = token[1:]
			minusCount++
		}
		if len(token) == before {
			return token, minusCount
		}
	}
}
