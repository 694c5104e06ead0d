// Package ticker derives the per-source symbol variants for a user-supplied
// Brazilian exchange ticker.
package ticker

import (
	"regexp"
	"strings"
)

// Variants holds the symbol forms expected by each data source.
type Variants struct {
	Original    string `json:"original"`
	Base        string `json:"base"`        // uppercased, no market suffix (PETR4)
	Fundamentus string `json:"fundamentus"` // PETR4
	Yahoo       string `json:"yahoo"`       // PETR4.SA
	Finnhub     string `json:"finnhub"`     // PETR4
}

// B3 common-stock pattern: four letters plus one or two digits (PETR4, TAEE11).
// BDRs like ITUB34 match as well.
var b3Pattern = regexp.MustCompile(`^[A-Z]{4}\d{1,2}$`)

// Prepare normalizes the user input and derives the per-source variants.
// The ".SA" Yahoo suffix is only re-appended when the base form looks like a
// B3 listing, so foreign symbols pass through unchanged.
func Prepare(original string) Variants {
	base := strings.ToUpper(strings.TrimSpace(original))
	fundamentus := strings.ReplaceAll(base, ".SA", "")

	yahoo := fundamentus
	if !strings.HasSuffix(yahoo, ".SA") && b3Pattern.MatchString(yahoo) {
		yahoo += ".SA"
	}

	return Variants{
		Original:    original,
		Base:        base,
		Fundamentus: fundamentus,
		Yahoo:       yahoo,
		Finnhub:     fundamentus,
	}
}
