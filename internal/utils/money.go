package utils // package utils provides money conversion and counter-bid math helpers

import "math"

// ToCents converts a client-supplied amount in major currency units to
// minor units, rounding to the nearest cent.  Clients send "5" or
// "4.99"; everything server-side works in integer cents.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CentsToAmount converts minor units back to major currency units for
// display purposes only; money decisions never use the float form.
func CentsToAmount(cents int64) float64 {
	return float64(cents) / 100
}

// SuggestedCounterBid computes the counter-bid offered to an outbid
// backer: the leading total raised by the configured percentage,
// rounded up to the next cent.  Computed in integer math to avoid
// float drift on large totals.
func SuggestedCounterBid(leadingTotalCents int64, incrementPercent uint32) int64 {
	if leadingTotalCents <= 0 {
		return 0
	}
	num := leadingTotalCents * int64(100+incrementPercent)
	return (num + 99) / 100
}
