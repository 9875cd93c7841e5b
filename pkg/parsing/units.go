package parsing

import (
	"fmt"
	"strconv"
	"unicode"
)

// suffixMultipliers scales a top magnitude to KiB, the unit top uses when
// no suffix is printed.
var suffixMultipliers = map[rune]float64{
	'k': 1,
	'm': 1 << 10,
	'g': 1 << 20,
	't': 1 << 30,
	'p': 1 << 40,
	'e': 1 << 50,
}

// Normalize converts a top magnitude such as "512", "12.5" or "512m" to KiB.
// Unknown suffix letters are rejected instead of being dropped.
func Normalize(token string) (float64, error) {
	if token == "" {
		return 0, fmt.Errorf("empty value")
	}

	last := rune(token[len(token)-1])
	if unicode.IsDigit(last) || last == '.' {
		return strconv.ParseFloat(token, 64)
	}

	mult, ok := suffixMultipliers[unicode.ToLower(last)]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownSuffix, string(last))
	}

	v, err := strconv.ParseFloat(token[:len(token)-1], 64)
	if err != nil {
		return 0, err
	}
	return v * mult, nil
}
