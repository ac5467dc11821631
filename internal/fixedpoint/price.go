// Package fixedpoint provides integer-backed decimal scalars for the
// matching path. No floating point is used past the boundary conversion
// functions, so trade prices and quantities compare and hash exactly.
package fixedpoint

import (
	"fmt"
	"math"
)

// PriceScale is the implicit decimal scale of Price: 10^6.
const PriceScale = 1_000_000

// Price is a quote-currency (USD) amount with 6 implicit decimal places,
// backed by an int64 mantissa. The zero value is 0.000000.
type Price struct {
	mantissa int64
}

// NewPriceFromMantissa builds a Price directly from its raw integer mantissa.
func NewPriceFromMantissa(mantissa int64) Price {
	return Price{mantissa: mantissa}
}

// NewPriceFromFloat converts a decimal value to a Price, rounding to the
// nearest representable mantissa. It fails if the value is not finite or
// overflows int64 at the target scale.
func NewPriceFromFloat(value float64) (Price, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Price{}, fmt.Errorf("fixedpoint: price %v is not finite", value)
	}
	scaled := value * PriceScale
	if scaled > math.MaxInt64 || scaled < math.MinInt64 {
		return Price{}, fmt.Errorf("fixedpoint: price %v overflows scale %d", value, PriceScale)
	}
	return Price{mantissa: int64(math.Round(scaled))}, nil
}

// ZeroPrice is the Price value 0.000000.
var ZeroPrice = Price{}

// Mantissa returns the raw integer representation.
func (p Price) Mantissa() int64 { return p.mantissa }

// IsZero reports whether the price is exactly zero.
func (p Price) IsZero() bool { return p.mantissa == 0 }

// Float64 converts back to a decimal value. Boundary use only; never call
// this on the matching path.
func (p Price) Float64() float64 { return float64(p.mantissa) / PriceScale }

// IsPositive reports whether the price is strictly greater than zero.
func (p Price) IsPositive() bool { return p.mantissa > 0 }

// Equal reports mantissa equality.
func (p Price) Equal(o Price) bool { return p.mantissa == o.mantissa }

// Less reports whether p sorts before o.
func (p Price) Less(o Price) bool { return p.mantissa < o.mantissa }

// LessOrEqual reports p <= o.
func (p Price) LessOrEqual(o Price) bool { return p.mantissa <= o.mantissa }

// GreaterOrEqual reports p >= o.
func (p Price) GreaterOrEqual(o Price) bool { return p.mantissa >= o.mantissa }

// Add returns p+o, failing on overflow. Used for USD-denominated balance
// arithmetic, which shares Price's scale.
func (p Price) Add(o Price) (Price, error) {
	sum := p.mantissa + o.mantissa
	if (o.mantissa > 0 && sum < p.mantissa) || (o.mantissa < 0 && sum > p.mantissa) {
		return Price{}, fmt.Errorf("fixedpoint: price addition overflow")
	}
	return Price{mantissa: sum}, nil
}

// Sub returns p-o, failing if the result would be negative or underflow.
// Balance arithmetic never allows negative USD amounts.
func (p Price) Sub(o Price) (Price, error) {
	diff := p.mantissa - o.mantissa
	if (o.mantissa < 0 && diff < p.mantissa) || (o.mantissa > 0 && diff > p.mantissa) {
		return Price{}, fmt.Errorf("fixedpoint: price subtraction underflow")
	}
	if diff < 0 {
		return Price{}, fmt.Errorf("fixedpoint: price subtraction would go negative")
	}
	return Price{mantissa: diff}, nil
}

// Mul multiplies a Price by a Quantity, producing a quote-scale amount
// (still expressed as a Price, scale 10^6) with the Quantity's scale
// absorbed. Uses a wider intermediate to avoid overflow before the
// scale-down division.
func (p Price) Mul(q Quantity) (Price, error) {
	// p.mantissa (scale 1e6) * q.mantissa (scale 1e8) / 1e8 = result at scale 1e6
	hi, lo := bitsMul64(uint64(absInt64(p.mantissa)), uint64(absInt64(q.mantissa)))
	if hi >= QuantityScale {
		return Price{}, fmt.Errorf("fixedpoint: price*quantity overflow")
	}
	quotient, rem := bitsDiv128By64(hi, lo, QuantityScale)
	_ = rem
	if quotient > math.MaxInt64 {
		return Price{}, fmt.Errorf("fixedpoint: price*quantity overflow")
	}
	result := int64(quotient)
	if (p.mantissa < 0) != (q.mantissa < 0) {
		result = -result
	}
	return Price{mantissa: result}, nil
}

func (p Price) String() string {
	return fmt.Sprintf("%d.%06d", p.mantissa/PriceScale, absInt64(p.mantissa%PriceScale))
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
