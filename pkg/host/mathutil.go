package host

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
)

// Str renders a value the way the language prints it: integral numbers
// without a decimal point, everything else in its natural form.
func Str(v any) string {
	switch n := v.(type) {
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return strconv.FormatFloat(n, 'f', 0, 64)
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	case string:
		return n
	case bool:
		if n {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(v)
	}
}

// Abs is the absolute value.
func Abs(v float64) float64 { return math.Abs(v) }

// Mod is the floating-point remainder, used for the % operator.
func Mod(a, b float64) float64 { return math.Mod(a, b) }

// Random returns a uniform value in [lo, hi).
func Random(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rand.Float64()*(hi-lo)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Range yields the whole numbers from lo up to but not including hi, the
// iteration space of a for-in loop.
func Range(lo, hi float64) []float64 {
	if hi <= lo {
		return nil
	}
	out := make([]float64, 0, int(hi-lo))
	for v := lo; v < hi; v++ {
		out = append(out, v)
	}
	return out
}
