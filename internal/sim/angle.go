package sim

// Angle is a direction on a 256-step circle (one step = 1.40625 degrees).
// Table-based trig keeps rotation and aiming fully integer, the classic
// arcade approach, instead of relying on floating-point sin/cos.
type Angle uint8

// AngleSteps is the number of discrete directions on the circle.
const AngleSteps = 256

// quarterSine holds sin(i * 2*pi/256) * Scale for i in [0, 64].
var quarterSine = [65]Fix{
	0, 25, 49, 74, 98, 122, 147, 171, 195, 219, 243, 267, 290, 314, 337,
	360, 383, 405, 428, 450, 471, 493, 514, 535, 556, 576, 596, 615, 634,
	653, 672, 690, 707, 724, 741, 757, 773, 788, 803, 818, 831, 845, 858,
	870, 882, 893, 904, 914, 924, 933, 942, 950, 957, 964, 970, 976, 981,
	985, 989, 992, 995, 997, 999, 1000, 1000,
}

// Sin returns sin(a) in fixed-point.
func Sin(a Angle) Fix {
	i := int(a)
	switch {
	case i <= 64:
		return quarterSine[i]
	case i <= 128:
		return quarterSine[128-i]
	case i <= 192:
		return -quarterSine[i-128]
	default:
		return -quarterSine[256-i]
	}
}

// Cos returns cos(a) in fixed-point.
func Cos(a Angle) Fix {
	return Sin(a + 64)
}

// Add rotates by delta steps, wrapping around the circle.
func (a Angle) Add(delta int) Angle {
	return Angle(int(a) + delta)
}
