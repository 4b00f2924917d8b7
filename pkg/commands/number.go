package commands

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// numberPrefix matches the longest numeric prefix a cell may start with.
var numberPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// ParseNumber reads the numeric prefix of s after leading whitespace, so
// "12px" is 12. Text without a numeric prefix, including "", is NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	m := numberPrefix.FindString(s)
	if m == "" {
		return math.NaN()
	}

	switch strings.TrimLeft(m, "+-") {
	case "Infinity":
		if strings.HasPrefix(m, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	// out-of-range values come back as ±Inf, which is the wanted result
	n, _ := strconv.ParseFloat(m, 64)
	return n
}

// FormatNumber formats n for a cell: integral values without a fraction,
// NaN as "NaN", infinities as "Infinity"/"-Infinity", and exponent notation
// only for very large or very small magnitudes.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}

	abs := math.Abs(n)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(n, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
