package prompts

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// CompareVersions compares two dotted version strings numerically and returns
// -1, 0 or 1. Missing or non-numeric segments count as 0, so "1" equals
// "1.0" and "1.10" is greater than "1.2". Segments too large for a uint64
// saturate at math.MaxUint64.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	n := max(len(as), len(bs))
	for i := 0; i < n; i++ {
		x, y := segment(as, i), segment(bs, i)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

func segment(parts []string, i int) uint64 {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.ParseUint(parts[i], 10, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return math.MaxUint64
	case err != nil:
		return 0
	}
	return n
}

// isDottedVersion reports whether s is one or more dot-separated runs of
// ASCII digits.
func isDottedVersion(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}
		for i := 0; i < len(part); i++ {
			if part[i] < '0' || part[i] > '9' {
				return false
			}
		}
	}
	return true
}
