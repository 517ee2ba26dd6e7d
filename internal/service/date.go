package service

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the accepted input shape: four-digit year, then month and day
// with one or two digits each.
const DateLayout = "2006-1-2"

// ParseDate parses a calendar date in DateLayout into midnight UTC.
//
// Out-of-range components are rejected rather than rolled over, so
// "2023-13-40" and "2023-02-30" are both invalid.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// atoiDigits accepts ASCII digits only; strconv.Atoi alone would allow signs.
func atoiDigits(s string) (int, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
