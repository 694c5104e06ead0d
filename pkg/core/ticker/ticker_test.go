package ticker

import "testing"

func TestPrepareB3Common(t *testing.T) {
	v := Prepare("petr4")
	if v.Base != "PETR4" {
		t.Errorf("Base expected PETR4, got %s", v.Base)
	}
	if v.Fundamentus != "PETR4" {
		t.Errorf("Fundamentus expected PETR4, got %s", v.Fundamentus)
	}
	if v.Yahoo != "PETR4.SA" {
		t.Errorf("Yahoo expected PETR4.SA, got %s", v.Yahoo)
	}
	if v.Finnhub != "PETR4" {
		t.Errorf("Finnhub expected PETR4, got %s", v.Finnhub)
	}
	if v.Original != "petr4" {
		t.Errorf("Original must be preserved verbatim, got %s", v.Original)
	}
}

func TestPrepareStripsSuffix(t *testing.T) {
	v := Prepare(" VALE3.SA ")
	if v.Base != "VALE3.SA" {
		t.Errorf("Base keeps suffix after trim/upper, got %s", v.Base)
	}
	if v.Fundamentus != "VALE3" {
		t.Errorf("Fundamentus expected VALE3, got %s", v.Fundamentus)
	}
	if v.Yahoo != "VALE3.SA" {
		t.Errorf("Yahoo expected VALE3.SA, got %s", v.Yahoo)
	}
}

func TestPrepareUnits(t *testing.T) {
	v := Prepare("TAEE11")
	if v.Yahoo != "TAEE11.SA" {
		t.Errorf("two-digit listing should gain .SA, got %s", v.Yahoo)
	}
}

func TestPrepareForeignSymbolUntouched(t *testing.T) {
	v := Prepare("AAPL")
	if v.Yahoo != "AAPL" {
		t.Errorf("non-B3 symbol must not gain .SA, got %s", v.Yahoo)
	}
}
