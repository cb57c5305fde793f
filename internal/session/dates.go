package session

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date estimation confidence levels.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Fallback window for documents with no timestamp at all. These constants
// are pinned: the fallback date is derived by hashing the canonical name
// into this window, and moving the window would shift fallback dates for
// entries already merged into capsules.
const (
	fallbackWindowStart = "2023-01-01"
	fallbackWindowDays  = 730
)

var (
	isoDateRe  = regexp.MustCompile(`\b(20\d{2})-(\d{2})-(\d{2})\b`)
	longDateRe = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(20\d{2})\b`)
	yearRe     = regexp.MustCompile(`\b(20\d{2})\b`)
)

var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
}

// calendarAnchors maps known calendar-anchored keywords to month-day.
var calendarAnchors = []struct {
	keyword string
	month   int
	day     int
}{
	{"christmas", 12, 25},
	{"halloween", 10, 31},
	{"thanksgiving", 11, 27},
	{"valentine", 2, 14},
	{"new year", 1, 1},
	{"new_year", 1, 1},
	{"birthday", 6, 15},
}

// EstimateDate estimates an ISO date (YYYY-MM-DD) for a transcript, with a
// confidence tag. Order: explicit dates in the content or name, then
// calendar-anchored keywords, then a deterministic hash fallback: the same
// canonical name always yields the same fallback date, so reruns don't drift.
func EstimateDate(content, canonicalName string) (string, string) {
	for _, text := range []string{content, canonicalName} {
		if date, ok := explicitDate(text); ok {
			return date, ConfidenceHigh
		}
	}

	lowered := strings.ToLower(canonicalName + " " + content)
	for _, anchor := range calendarAnchors {
		if strings.Contains(lowered, anchor.keyword) {
			year := anchorYear(lowered, canonicalName)
			return fmt.Sprintf("%04d-%02d-%02d", year, anchor.month, anchor.day), ConfidenceMedium
		}
	}

	return fallbackDate(canonicalName), ConfidenceLow
}

// explicitDate finds the first valid explicit date in text.
func explicitDate(text string) (string, bool) {
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		if _, err := time.Parse("2006-01-02", m[0]); err == nil {
			return m[0], true
		}
	}
	if m := longDateRe.FindStringSubmatch(text); m != nil {
		month := monthNumbers[strings.ToLower(m[1])]
		date := fmt.Sprintf("%s-%02d-%s", m[3], month, leftPad(m[2]))
		if _, err := time.Parse("2006-01-02", date); err == nil {
			return date, true
		}
	}
	return "", false
}

func leftPad(day string) string {
	if len(day) == 1 {
		return "0" + day
	}
	return day
}

// anchorYear picks a year for a calendar anchor: an explicit year in the
// text when present, else the hash-derived fallback year.
func anchorYear(lowered, canonicalName string) int {
	if m := yearRe.FindStringSubmatch(lowered); m != nil {
		var year int
		fmt.Sscanf(m[1], "%d", &year)
		return year
	}
	t, _ := time.Parse("2006-01-02", fallbackDate(canonicalName))
	return t.Year()
}

// fallbackDate hashes the canonical name into the pinned window.
func fallbackDate(canonicalName string) string {
	sum := sha256.Sum256([]byte(canonicalName))
	offset := binary.BigEndian.Uint64(sum[:8]) % fallbackWindowDays

	start, _ := time.Parse("2006-01-02", fallbackWindowStart)
	return start.AddDate(0, 0, int(offset)).Format("2006-01-02")
}
