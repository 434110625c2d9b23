// Package numscan finds plausible numbers in free-form text and sums them.
//
// # Overview
//
// Text is split into lines and whitespace-delimited tokens. Each token runs
// through an ordered pipeline of pure stages:
//
//	classify -> strip decoration -> resolve sign -> dash fill
//	         -> grouping -> precision gate -> convert
//
// A token either becomes a signed arbitrary-precision decimal or is rejected
// with a Reason. Rejections are ordinary outcomes, never errors.
//
// Accepted values are folded into a RunState whose total is formatted for
// display with three tiers: plain integer, two fixed decimals, or the full
// precision value when rounding to cents would change it.
//
// # Usage
//
//	scanner, err := numscan.NewScanner(numscan.DefaultSettings())
//	if err != nil {
//	    return err
//	}
//	state, err := scanner.Scan(ctx, []string{"$1,000.-- (250) -[$50*]"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(state.Summary().DisplayString) // Selected Sum = 1200
//
// # Concurrency Safety
//
// Parser and Scanner are immutable after construction and safe for
// concurrent use. A RunState belongs to exactly one scan.
package numscan
