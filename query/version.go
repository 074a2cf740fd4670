package query

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)`)

// parseFloat reads the leading decimal number of s, so "4.2-4.3" is 4.2
// and "10.0" is 10. Strings without a numeric prefix ("TP", "all") yield
// NaN, which compares false against everything.
func parseFloat(s string) float64 {
	m := leadingNumber.FindString(s)
	if m == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

