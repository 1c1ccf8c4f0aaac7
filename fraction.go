package trackbox

// Fraction is an exact rational number used for frame rates, so that
// rates like NTSC 30000/1001 survive arithmetic without floating-point
// drift. Value type (16 bytes) — copied and compared by value.
//
// Invariant: Den > 0 when constructed through NewFraction.
type Fraction struct {
	Num int `json:"num"`
	Den int `json:"den"`
}

// NewFraction returns the fraction num/den reduced to lowest terms with
// a positive denominator. A zero denominator is treated as 1; a
// negative denominator moves its sign to the numerator.
func NewFraction(num, den int) Fraction {
	if den == 0 {
		den = 1
	}
	if den < 0 {
		num, den = -num, -den
	}
	n := num
	if n < 0 {
		n = -n
	}
	if g := gcd(n, den); g > 1 {
		num /= g
		den /= g
	}
	return Fraction{Num: num, Den: den}
}

// Value returns the fraction as a float64.
func (f Fraction) Value() float64 {
	return float64(f.Num) / float64(f.Den)
}

// Reciprocal returns the inverted fraction (seconds per frame for a
// frame rate).
func (f Fraction) Reciprocal() Fraction {
	return NewFraction(f.Den, f.Num)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
