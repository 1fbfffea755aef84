// Package sim defines the shared simulation contract: fixed-precision
// arithmetic, entity slot tables, fixed-shape observations, and the pure
// environment interface every game implements. Nothing in this package
// performs I/O or holds mutable global state; a state goes in, a new state
// comes out.
package sim

// Fixed-point scale factor: 1 world unit = 1000 sub-units.
// Sub-unit precision with pure integer arithmetic keeps every tick
// bit-identical regardless of how many instances run side by side.
const Scale = 1000

// Fix is a fixed-point number scaled by Scale.
type Fix int32

// ToFix converts a whole world coordinate to fixed-point.
func ToFix(v int) Fix {
	return Fix(v * Scale)
}

// ToFixF converts a fractional parameter to fixed-point, rounding to the
// nearest sub-unit. Intended for configuration values only; the simulation
// itself never computes with floats.
func ToFixF(v float64) Fix {
	if v >= 0 {
		return Fix(v*Scale + 0.5)
	}
	return Fix(v*Scale - 0.5)
}

// Whole returns the whole-unit part (truncated toward zero).
func (f Fix) Whole() int {
	return int(f) / Scale
}

// Rounded returns the nearest whole unit.
func (f Fix) Rounded() int {
	if f >= 0 {
		return (int(f) + Scale/2) / Scale
	}
	return (int(f) - Scale/2) / Scale
}

// Float returns the value as a float64, for observation flattening only.
// The simulation itself never computes with floats.
func (f Fix) Float() float64 {
	return float64(f) / Scale
}

// MulInt multiplies by a plain integer.
func (f Fix) MulInt(n int) Fix {
	return Fix(int64(f) * int64(n))
}

// DivInt divides by a plain integer.
func (f Fix) DivInt(n int) Fix {
	if n == 0 {
		return 0
	}
	return Fix(int64(f) / int64(n))
}

// Mul multiplies two fixed-point values.
func (f Fix) Mul(o Fix) Fix {
	return Fix(int64(f) * int64(o) / Scale)
}

// Div divides one fixed-point value by another.
func (f Fix) Div(o Fix) Fix {
	if o == 0 {
		return 0
	}
	return Fix(int64(f) * Scale / int64(o))
}

// Abs returns the absolute value.
func (f Fix) Abs() Fix {
	if f < 0 {
		return -f
	}
	return f
}

// Sign returns -1, 0, or 1.
func (f Fix) Sign() int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	default:
		return 0
	}
}

// ClampFix restricts a value to [lo, hi].
func ClampFix(v, lo, hi Fix) Fix {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// isqrt64 is the integer square root via Newton iteration, identical on
// every platform.
func isqrt64(n int64) int64 {
	if n <= 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

// SqrtFix returns the fixed-point square root.
func SqrtFix(f Fix) Fix {
	if f <= 0 {
		return 0
	}
	// sqrt(v/Scale) in raw units is sqrt(v*Scale).
	return Fix(isqrt64(int64(f) * Scale))
}

// Hypot returns the Euclidean length of (dx, dy) in fixed-point.
// Because both inputs carry the same scale, the raw-unit length is simply
// the integer square root of the raw sum of squares.
func Hypot(dx, dy Fix) Fix {
	n := int64(dx)*int64(dx) + int64(dy)*int64(dy)
	return Fix(isqrt64(n))
}
