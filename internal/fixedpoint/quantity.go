package fixedpoint

import (
	"fmt"
	"math"
)

// QuantityScale is the implicit decimal scale of Quantity: 10^8.
const QuantityScale = 100_000_000

// Quantity is a base-currency (BTC) amount with 8 implicit decimal places,
// backed by an int64 mantissa. Quantities are never negative.
type Quantity struct {
	mantissa int64
}

// NewQuantityFromMantissa builds a Quantity directly from its raw mantissa.
func NewQuantityFromMantissa(mantissa int64) Quantity {
	return Quantity{mantissa: mantissa}
}

// NewQuantityFromFloat converts a decimal value to a Quantity, rounding to
// the nearest representable mantissa. Fails on non-finite, negative, or
// overflowing input.
func NewQuantityFromFloat(value float64) (Quantity, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Quantity{}, fmt.Errorf("fixedpoint: quantity %v is not finite", value)
	}
	if value < 0 {
		return Quantity{}, fmt.Errorf("fixedpoint: quantity %v is negative", value)
	}
	scaled := value * QuantityScale
	if scaled > math.MaxInt64 {
		return Quantity{}, fmt.Errorf("fixedpoint: quantity %v overflows scale %d", value, QuantityScale)
	}
	return Quantity{mantissa: int64(math.Round(scaled))}, nil
}

// Zero is the additive identity.
var Zero = Quantity{}

// Mantissa returns the raw integer representation.
func (q Quantity) Mantissa() int64 { return q.mantissa }

// Float64 converts back to a decimal value. Boundary use only.
func (q Quantity) Float64() float64 { return float64(q.mantissa) / QuantityScale }

// IsZero reports whether the quantity is exactly zero.
func (q Quantity) IsZero() bool { return q.mantissa == 0 }

// IsPositive reports whether the quantity is strictly greater than zero.
func (q Quantity) IsPositive() bool { return q.mantissa > 0 }

// Equal reports mantissa equality.
func (q Quantity) Equal(o Quantity) bool { return q.mantissa == o.mantissa }

// Less reports whether q sorts before o.
func (q Quantity) Less(o Quantity) bool { return q.mantissa < o.mantissa }

// Add returns q+o, failing on int64 overflow.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	sum := q.mantissa + o.mantissa
	if sum < q.mantissa {
		return Quantity{}, fmt.Errorf("fixedpoint: quantity addition overflow")
	}
	return Quantity{mantissa: sum}, nil
}

// Sub returns q-o, failing if the result would be negative.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	if o.mantissa > q.mantissa {
		return Quantity{}, fmt.Errorf("fixedpoint: quantity subtraction underflow: %s - %s", q, o)
	}
	return Quantity{mantissa: q.mantissa - o.mantissa}, nil
}

// Min returns the smaller of q and o.
func Min(a, b Quantity) Quantity {
	if a.Less(b) {
		return a
	}
	return b
}

func (q Quantity) String() string {
	return fmt.Sprintf("%d.%08d", q.mantissa/QuantityScale, q.mantissa%QuantityScale)
}
