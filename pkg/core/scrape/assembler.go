package scrape

import (
	"log"

	"github.com/adalbertobrant/fundamentalistapro/pkg/models"
)

// indicatorCatalog maps the flat-region display labels to canonical record
// keys. Iterated in order so diagnostics are deterministic.
var indicatorCatalog = []struct {
	Label string
	Key   string
}{
	{"Cotação", models.KeyPrice},
	{"P/L", models.KeyPE},
	{"P/VP", models.KeyPB},
	{"P/EBIT", models.KeyPEBIT},
	{"PSR", models.KeyPSR},
	{"EV / EBITDA", models.KeyEVEBITDA},
	{"Div. Yield", models.KeyDividendYield},
	{"LPA", models.KeyEPS},
	{"VPA", models.KeyBVPS},
	{"Marg. Bruta", models.KeyGrossMargin},
	{"Marg. EBIT", models.KeyEBITMargin},
	{"Marg. Líquida", models.KeyNetMargin},
	{"ROE", models.KeyROE},
	{"ROIC", models.KeyROIC},
	{"Liquidez Corr", models.KeyCurrentRatio},
	{"Div Br/ Patrim", models.KeyDebtToEquity},
	{"Cres. Rec (5a)", models.KeyRevenueGrowth5Y},
	{"Valor da Firma", models.KeyEnterpriseValue},
	{"Nro. Ações", models.KeyShareCount},
}

// netFixedAssetChain is the ordered fallback for the net fixed assets figure:
// primary label, historical synonym, then the broader non-current aggregate.
var netFixedAssetChain = []string{"Ativo Imobilizado", "Imobilizado"}

const nonCurrentAssetsLabel = "Ativo Não Circulante"

// Assembled is the output of Assemble: the flat numeric record plus the
// fields that do not fit a float map.
type Assembled struct {
	Record      models.FinancialRecord
	CompanyName string
	// Missing lists catalog labels that could not be located at all, so
	// callers can tell "not found" apart from "found but zero".
	Missing []string
}

// Assemble walks the indicator catalog and the two detail sections and builds
// one flat financial record. Every catalog key is present in the result even
// when extraction failed for it.
func Assemble(doc *Document, tickerLabel string) Assembled {
	rec := models.FinancialRecord{}
	var missing []string

	for _, entry := range indicatorCatalog {
		text, ok := doc.IndicatorText(entry.Label)
		rec[entry.Key] = CleanValue(text)
		if !ok {
			missing = append(missing, entry.Label)
			log.Printf("[Scrape] indicator %q (key %s) for %s not found or empty", entry.Label, entry.Key, tickerLabel)
		}
	}

	income := doc.ExtractSection(IncomeStatementTitles)
	rec[models.KeyEBITTTM] = income.Lookup("EBIT"+Suffix12Months, "EBIT")
	rec[models.KeyNetIncomeTTM] = income.Lookup("Lucro Líquido"+Suffix12Months, "Lucro Líquido")
	rec[models.KeyNetRevenueTTM] = income.Lookup("Receita Líquida"+Suffix12Months, "Receita Líquida")

	balance := doc.ExtractSection(BalanceSheetTitles)
	rec[models.KeyCurrentAssets] = balance.Lookup("Ativo Circulante")
	rec[models.KeyCurrentLiabilities] = balance.Lookup("Passivo Circulante")
	if rec[models.KeyCurrentLiabilities] == 0.0 && rec[models.KeyCurrentAssets] != 0.0 {
		log.Printf("[Scrape] WARN: current liabilities not found for %s; NWC and capital employed will be imprecise (current assets: %v)",
			tickerLabel, rec[models.KeyCurrentAssets])
	}

	rec[models.KeyNetFixedAssets] = balance.Lookup(netFixedAssetChain...)
	if rec[models.KeyNetFixedAssets] == 0.0 {
		if v := balance.Lookup(nonCurrentAssetsLabel); v != 0.0 {
			rec[models.KeyNetFixedAssets] = v
			log.Printf("[Scrape] using %q as net fixed assets fallback for %s", nonCurrentAssetsLabel, tickerLabel)
		}
	}

	rec[models.KeyTotalEquity] = balance.Lookup("Patrim. Líq")

	name, ok := doc.IndicatorText("Empresa")
	if !ok {
		name = "N/A"
	}

	deriveGreenblatt(rec, tickerLabel)

	return Assembled{Record: rec, CompanyName: name, Missing: missing}
}

// Lookup returns the value of the first key present in the table, or 0.0.
// Presence-based: an explicit zero in an earlier key still wins.
func (t SectionTable) Lookup(keys ...string) float64 {
	for _, k := range keys {
		if v, ok := t[k]; ok {
			return v
		}
	}
	return 0.0
}

// deriveGreenblatt computes the magic-formula inputs and outputs from the
// already-assembled fields. Inputs are retained in the record so the ratios
// stay auditable.
func deriveGreenblatt(rec models.FinancialRecord, tickerLabel string) {
	ev := rec[models.KeyEnterpriseValue]
	ebit := rec[models.KeyEBITTTM]
	nwc := rec[models.KeyCurrentAssets] - rec[models.KeyCurrentLiabilities]
	nfa := rec[models.KeyNetFixedAssets]

	rec[models.KeyGreenblattNWC] = nwc
	rec[models.KeyGreenblattNFA] = nfa
	rec[models.KeyGreenblattEBIT] = ebit
	rec[models.KeyGreenblattEV] = ev

	rec[models.KeyGreenblattYield] = 0.0
	if ev != 0 {
		rec[models.KeyGreenblattYield] = ebit / ev
	}

	capitalEmployed := nwc + nfa
	rec[models.KeyGreenblattROC] = 0.0
	if capitalEmployed != 0 {
		rec[models.KeyGreenblattROC] = ebit / capitalEmployed
	}

	log.Printf("[Scrape] Greenblatt (%s) EV=%v EBIT=%v NWC=%v NFA=%v yield=%.4f roc=%.4f",
		tickerLabel, ev, ebit, nwc, nfa, rec[models.KeyGreenblattYield], rec[models.KeyGreenblattROC])
}
