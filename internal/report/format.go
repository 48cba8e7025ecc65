package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"benchdiff/internal/benchmark"
)

// FormatTime renders nanoseconds using the largest unit the magnitude reaches.
// nil renders as "N/A".
func FormatTime(ns *int64) string {
	if ns == nil {
		return "N/A"
	}
	v := *ns
	if v == 0 {
		return "0 ns"
	}

	sign := ""
	abs := uint64(v)
	if v < 0 {
		sign = "-"
		abs = uint64(-(v + 1)) + 1
	}

	switch {
	case abs >= benchmark.NsPerS:
		return fmt.Sprintf("%s%.3f s", sign, float64(abs)/benchmark.NsPerS)
	case abs >= benchmark.NsPerMs:
		return fmt.Sprintf("%s%.3f ms", sign, float64(abs)/benchmark.NsPerMs)
	case abs >= benchmark.NsPerUs:
		return fmt.Sprintf("%s%.3f µs", sign, float64(abs)/benchmark.NsPerUs)
	default:
		return fmt.Sprintf("%s%d ns", sign, abs)
	}
}

// GroupOf returns the part of name before the first '/', or name itself.
func GroupOf(name string) string {
	if i := strings.Index(name, "/"); i >= 0 {
		return name[:i]
	}
	return name
}

// ShortName returns name without its group prefix.
func ShortName(name string) string {
	if i := strings.Index(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// FormatGroupName turns a group key into a section title:
// "json_parse" becomes "Json Parse".
func FormatGroupName(group string) string {
	return titleCase(strings.ReplaceAll(group, "_", " "))
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// formatPercent prints a threshold the way it is written in config, always
// with a fractional part: 5 -> "5.0", 2.5 -> "2.5". Magnitudes below 1e-4 or
// from 1e16 up use exponent form: 1e-05, 1e+16.
func formatPercent(v float64) string {
	format := byte('f')
	if abs := math.Abs(v); v != 0 && (abs < 1e-4 || abs >= 1e16) {
		format = 'e'
	}
	s := strconv.FormatFloat(v, format, -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
