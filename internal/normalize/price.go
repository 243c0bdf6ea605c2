package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPrice is returned when a price string is not a non-negative integer.
var ErrInvalidPrice = errors.New("invalid price")

var separatorReplacer = strings.NewReplacer(".", "", ",", "", " ", "", "\u00a0", "")

// ParsePrice converts a thousands-separated integer string to its value.
// "7.250" -> 7250, "1.234.567" -> 1234567.
func ParsePrice(s string) (int64, error) {
	digits := separatorReplacer.Replace(strings.TrimSpace(s))
	if digits == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidPrice)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
		}
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidPrice, s, err)
	}
	return v, nil
}
