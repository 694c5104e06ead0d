package scrape

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SectionTable maps qualified row labels to normalized values for one titled
// section of the detail page.
type SectionTable map[string]float64

// Candidate headings for the two detail sections. The site renamed both
// sections at some point, so the extractor tries each in order.
var (
	IncomeStatementTitles = []string{"Dados demonstrativos de resultados", "Demonstrativo de Resultados"}
	BalanceSheetTitles    = []string{"Dados Balanço Patrimonial", "Balanço Patrimonial"}
)

// Income-statement headline figures that appear twice per section: first the
// trailing-12-month window, then the last-quarter window.
var incomeHeadlines = map[string]bool{
	"Receita Líquida": true,
	"EBIT":            true,
	"Lucro Líquido":   true,
}

// Period suffixes appended to repeated headline labels.
const (
	Suffix12Months = " (Últimos 12 meses)"
	Suffix3Months  = " (Últimos 3 meses)"
)

// ExtractSection locates the first matching section among the candidate titles
// and returns its label -> value mapping. No matching title yields an empty
// table and a warning, never an error.
func (d *Document) ExtractSection(titles []string) SectionTable {
	out := SectionTable{}

	table, title := d.findSection(titles)
	if table == nil {
		log.Printf("[Scrape] WARN: no section found for titles %v", titles)
		return out
	}

	isIncome := isIncomeSection(title)
	var headlineOrder []string

	table.Find("tr").Each(func(rowIdx int, row *goquery.Selection) {
		labelCells := row.Find("td.label")
		dataCells := row.Find("td.data")

		// The first row of a section is sometimes a td.nivel2 heading with no
		// data cells; skip it.
		if rowIdx == 0 && labelCells.Length() == 0 && dataCells.Length() == 0 {
			if row.Find("td.nivel2 span.txt").Length() > 0 {
				return
			}
		}

		// Wide rows carry several label/value pairs side by side; pair them
		// up by position.
		labelCells.Each(func(i int, labelCell *goquery.Selection) {
			if i >= dataCells.Length() {
				return
			}
			label := strings.TrimSpace(labelCell.Find("span.txt").First().Text())
			value := strings.TrimSpace(dataCells.Eq(i).Find("span.txt").First().Text())
			if label == "" || value == "" {
				return
			}

			key := label
			if isIncome && incomeHeadlines[label] {
				key, headlineOrder = qualifyPeriodLabel(label, headlineOrder)
			}

			// First write wins: a later duplicate must not clobber the
			// correctly tagged first occurrence.
			if _, exists := out[key]; !exists {
				out[key] = CleanValue(value)
			}
		})
	})

	return out
}

// qualifyPeriodLabel tags repeated income-statement headline labels by
// occurrence order: the first sighting is the 12-month figure, any later one
// the 3-month figure. This is a positional heuristic over the page layout,
// not a semantic read of the source; it lives here so a layout change is a
// one-place fix.
func qualifyPeriodLabel(label string, seen []string) (string, []string) {
	for _, s := range seen {
		if s == label {
			return label + Suffix3Months, seen
		}
	}
	return label + Suffix12Months, append(seen, label)
}

func isIncomeSection(title string) bool {
	for _, t := range IncomeStatementTitles {
		if title == t {
			return true
		}
	}
	return false
}
