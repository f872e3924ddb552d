package core

import (
	"strings"
	"time"
)

const (
	canonicalLayout     = "2006-01-02T15:04:05.000000-07:00"
	canonicalLayoutNoTZ = "2006-01-02T15:04:05.000000"
	fractionDigits      = 6
)

// CanonicalTimestamp repairs a loosely ISO-8601 timestamp into
// YYYY-MM-DDTHH:MM:SS.ffffff[±HH:MM]. It returns false when the string has no
// single date/time separator.
func CanonicalTimestamp(s string) (string, bool) {
	canonical, _, ok := canonicalize(s)
	return canonical, ok
}

func canonicalize(s string) (canonical string, hasZone bool, ok bool) {
	s = strings.TrimSpace(s)
	if strings.Count(s, "T") != 1 {
		return "", false, false
	}
	datePart, timePart, _ := strings.Cut(s, "T")

	var zone string
	switch {
	case strings.HasSuffix(timePart, "Z"):
		timePart = strings.TrimSuffix(timePart, "Z")
		zone = "+00:00"
	case strings.Contains(timePart, "+"):
		i := strings.LastIndex(timePart, "+")
		timePart, zone = timePart[:i], timePart[i:]
	case strings.Contains(timePart, "-"):
		i := strings.LastIndex(timePart, "-")
		timePart, zone = timePart[:i], timePart[i:]
	}

	clock, fraction, _ := strings.Cut(timePart, ".")
	if len(fraction) > fractionDigits {
		fraction = fraction[:fractionDigits]
	}
	fraction += strings.Repeat("0", fractionDigits-len(fraction))

	return datePart + "T" + clock + "." + fraction + zone, zone != "", true
}

// NormalizeTimestamp parses a loosely ISO-8601 timestamp. Timestamps without
// a zone are taken as UTC.
func NormalizeTimestamp(s string) (time.Time, bool) {
	canonical, hasZone, ok := canonicalize(s)
	if !ok {
		return time.Time{}, false
	}

	layout := canonicalLayoutNoTZ
	if hasZone {
		layout = canonicalLayout
	}
	t, err := time.Parse(layout, canonical)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
