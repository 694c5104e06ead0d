package scrape

import (
	"log"
	"regexp"
	"strconv"
	"strings"
)

var nonNumeric = regexp.MustCompile(`[^\d.\-]`)

// CleanValue converts a Fundamentus-formatted number into a float64.
// The site uses the Brazilian convention: "." as thousands separator and ","
// as decimal separator, with optional "R$" and "%" markers. Percentages are
// returned as fractions (12,5% -> 0.125).
//
// Every input maps to a value; empty, "-" and unparseable text yield 0.0 with
// a warning diagnostic, never an error.
func CleanValue(text string) float64 {
	s := strings.TrimSpace(text)
	if s == "" || s == "-" {
		return 0.0
	}
	original := s

	if strings.Contains(s, "R$") {
		s = strings.TrimSpace(strings.ReplaceAll(s, "R$", ""))
	}

	isPercent := strings.Contains(s, "%")
	if isPercent {
		s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	}

	s = strings.ReplaceAll(s, ".", "") // thousands separators
	s = strings.ReplaceAll(s, ",", ".")
	s = nonNumeric.ReplaceAllString(s, "")

	if s == "" || s == "-" {
		return 0.0
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Printf("[Scrape] WARN: could not convert %q (cleaned to %q): %v, returning 0.0", original, s, err)
		return 0.0
	}
	if isPercent {
		value /= 100.0
	}
	return value
}
