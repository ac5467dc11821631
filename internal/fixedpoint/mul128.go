package fixedpoint

import "math/bits"

// bitsMul64 and bitsDiv128By64 give Price.Mul a 128-bit intermediate so a
// Price*Quantity multiplication at the two scales in this package never
// silently loses precision before the final overflow check.

func bitsMul64(a, b uint64) (hi, lo uint64) {
	return bits.Mul64(a, b)
}

func bitsDiv128By64(hi, lo, divisor uint64) (quotient, remainder uint64) {
	return bits.Div64(hi, lo, divisor)
}
