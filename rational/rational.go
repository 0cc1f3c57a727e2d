// Package rational implements exact fractional arithmetic for sample counts,
// frame rates and subcarrier frequencies, so that timing never accumulates
// floating point drift over a long transmission.
package rational

// Rational is a reduced fraction num/den with den always positive.
type Rational struct {
	Num int64
	Den int64
}

// New returns num/den reduced to lowest terms with a positive denominator.
func New(num, den int64) Rational {
	if den == 0 {
		den = 1
	}
	if den < 0 {
		num, den = -num, -den
	}
	if g := gcd(abs(num), den); g > 1 {
		num /= g
		den /= g
	}
	return Rational{Num: num, Den: den}
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// Float64 returns the floating point approximation num/den.
func (r Rational) Float64() float64 {
	return float64(r.Num) / float64(r.Den)
}

// Invert returns den/num.
func (r Rational) Invert() Rational {
	return New(r.Den, r.Num)
}

// Add returns r+o.
func (r Rational) Add(o Rational) Rational {
	return New(r.Num*o.Den+o.Num*r.Den, r.Den*o.Den)
}

// Sub returns r-o.
func (r Rational) Sub(o Rational) Rational {
	return New(r.Num*o.Den-o.Num*r.Den, r.Den*o.Den)
}

// Mul returns r*o.
func (r Rational) Mul(o Rational) Rational {
	return New(r.Num*o.Num, r.Den*o.Den)
}

// Div returns r/o.
func (r Rational) Div(o Rational) Rational {
	return New(r.Num*o.Den, r.Den*o.Num)
}

// MulInt returns r*n.
func (r Rational) MulInt(n int64) Rational {
	return New(r.Num*n, r.Den)
}

// Rescale converts a timestamp expressed in units of `from` into units of `to`,
// rounding to the nearest integer tick. Used to move a PTS between a stream's
// time base and the mode's frame time base.
func Rescale(pts int64, from, to Rational) int64 {
	// pts * from / to
	num := pts * from.Num * to.Den
	den := from.Den * to.Num
	if den == 0 {
		return 0
	}
	// round-to-nearest, ties away from zero
	if num >= 0 {
		return (num + den/2) / den
	}
	return -((-num + den/2) / den)
}

// IsPositive reports whether r > 0.
func (r Rational) IsPositive() bool {
	return r.Num > 0
}

// Equal reports whether r and o represent the same value.
func (r Rational) Equal(o Rational) bool {
	return r.Num*o.Den == o.Num*r.Den
}
