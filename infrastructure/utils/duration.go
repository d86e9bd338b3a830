package utils

import (
	"regexp"
	"strconv"
)

// ShortMaxSeconds is the inclusive upper bound for short-form classification.
const ShortMaxSeconds = 180

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration converts an ISO 8601 duration of the form PT[nH][nM][nS]
// into total seconds. Any input that does not match the pattern, including the
// empty string, yields 0; absent components count as 0.
func ParseISODuration(s string) int {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	h := atoiOrZero(m[1])
	min := atoiOrZero(m[2])
	sec := atoiOrZero(m[3])
	return h*3600 + min*60 + sec
}

// IsShortDuration reports whether a decoded duration classifies the video as
// short-form content.
func IsShortDuration(seconds int) bool {
	return seconds <= ShortMaxSeconds
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
