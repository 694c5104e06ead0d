package scrape

import (
	"math"
	"testing"

	"github.com/adalbertobrant/fundamentalistapro/pkg/models"
)

const detailPageHTML = `
<html><body>
<table>
<tr>
  <td class="label"><span class="txt">Papel</span></td><td class="data"><span class="txt">TEST3</span></td>
  <td class="label"><span class="txt">Cotação</span></td><td class="data"><span class="txt">25,40</span></td>
</tr>
<tr>
  <td class="label"><span class="txt">Empresa</span></td><td class="data"><span class="txt">Teste Participações S.A.</span></td>
  <td class="label"><span class="txt">Valor da Firma</span></td><td class="data"><span class="txt">2.000</span></td>
</tr>
<tr>
  <td class="label"><span class="txt">P/L</span></td><td class="data"><span class="txt">12,70</span></td>
  <td class="label"><span class="txt">LPA</span></td><td class="data"><span class="txt">2,00</span></td>
</tr>
<tr>
  <td class="label"><span class="txt">VPA</span></td><td class="data"><span class="txt">10,00</span></td>
  <td class="label"><span class="txt">ROE</span></td><td class="data"><span class="txt">20,0%</span></td>
</tr>
</table>
<table>
<tr><td class="nivel2"><span class="txt">Dados demonstrativos de resultados</span></td></tr>
<tr>
  <td class="label"><span class="txt">EBIT</span></td><td class="data"><span class="txt">500</span></td>
  <td class="label"><span class="txt">EBIT</span></td><td class="data"><span class="txt">120</span></td>
</tr>
</table>
<table>
<tr><td class="nivel2"><span class="txt">Dados Balanço Patrimonial</span></td></tr>
<tr>
  <td class="label"><span class="txt">Ativo Circulante</span></td><td class="data"><span class="txt">800</span></td>
  <td class="label"><span class="txt">Passivo Circulante</span></td><td class="data"><span class="txt">300</span></td>
</tr>
<tr>
  <td class="label"><span class="txt">Imobilizado</span></td><td class="data"><span class="txt">1.500</span></td>
  <td class="label"><span class="txt">Patrim. Líq</span></td><td class="data"><span class="txt">1.200</span></td>
</tr>
</table>
</body></html>`

func approx(t *testing.T, rec models.FinancialRecord, key string, want float64) {
	t.Helper()
	if math.Abs(rec[key]-want) > 1e-9 {
		t.Errorf("record[%s] = %f, want %f", key, rec[key], want)
	}
}

func TestAssembleFullPage(t *testing.T) {
	doc := mustDocument(t, detailPageHTML)
	out := Assemble(doc, "TEST3")
	rec := out.Record

	approx(t, rec, models.KeyPrice, 25.40)
	approx(t, rec, models.KeyPE, 12.70)
	approx(t, rec, models.KeyEPS, 2.0)
	approx(t, rec, models.KeyBVPS, 10.0)
	approx(t, rec, models.KeyROE, 0.20)
	approx(t, rec, models.KeyEnterpriseValue, 2000)

	// Detail sections.
	approx(t, rec, models.KeyEBITTTM, 500)
	approx(t, rec, models.KeyCurrentAssets, 800)
	approx(t, rec, models.KeyCurrentLiabilities, 300)
	approx(t, rec, models.KeyTotalEquity, 1200)

	// "Imobilizado" is the synonym tier of the net fixed assets chain.
	approx(t, rec, models.KeyNetFixedAssets, 1500)

	// Greenblatt: NWC = 800-300, capital employed = 500+1500.
	approx(t, rec, models.KeyGreenblattNWC, 500)
	approx(t, rec, models.KeyGreenblattNFA, 1500)
	approx(t, rec, models.KeyGreenblattYield, 500.0/2000.0)
	approx(t, rec, models.KeyGreenblattROC, 500.0/2000.0)

	if out.CompanyName != "Teste Participações S.A." {
		t.Errorf("company name = %q", out.CompanyName)
	}
}

func TestAssembleDefaultsEveryCatalogKey(t *testing.T) {
	doc := mustDocument(t, `<html><body><table></table></body></html>`)
	out := Assemble(doc, "EMPTY")

	for _, entry := range indicatorCatalog {
		v, ok := out.Record[entry.Key]
		if !ok {
			t.Errorf("catalog key %s absent from record", entry.Key)
		}
		if v != 0.0 {
			t.Errorf("catalog key %s = %f, want 0.0 default", entry.Key, v)
		}
	}
	if len(out.Missing) != len(indicatorCatalog) {
		t.Errorf("expected %d missing labels, got %d", len(indicatorCatalog), len(out.Missing))
	}
	if out.CompanyName != "N/A" {
		t.Errorf("company name default = %q, want N/A", out.CompanyName)
	}
	// Derived and Greenblatt keys must exist too.
	for _, key := range []string{
		models.KeyEBITTTM, models.KeyNetIncomeTTM, models.KeyNetRevenueTTM,
		models.KeyCurrentAssets, models.KeyCurrentLiabilities, models.KeyNetFixedAssets,
		models.KeyGreenblattNWC, models.KeyGreenblattYield, models.KeyGreenblattROC,
	} {
		if _, ok := out.Record[key]; !ok {
			t.Errorf("derived key %s absent from record", key)
		}
	}
}

func TestAssembleNonCurrentAssetsFallback(t *testing.T) {
	html := `
<table>
<tr><td class="nivel2"><span class="txt">Dados Balanço Patrimonial</span></td></tr>
<tr>
  <td class="label"><span class="txt">Ativo Não Circulante</span></td><td class="data"><span class="txt">900</span></td>
</tr>
</table>`
	doc := mustDocument(t, html)
	out := Assemble(doc, "FALL3")
	approx(t, out.Record, models.KeyNetFixedAssets, 900)
}

func TestAssembleIsIdempotent(t *testing.T) {
	doc := mustDocument(t, detailPageHTML)
	first := Assemble(doc, "TEST3")
	second := Assemble(doc, "TEST3")

	if len(first.Record) != len(second.Record) {
		t.Fatalf("record sizes differ: %d vs %d", len(first.Record), len(second.Record))
	}
	for k, v := range first.Record {
		if second.Record[k] != v {
			t.Errorf("record[%s] differs between runs: %v vs %v", k, v, second.Record[k])
		}
	}
}
