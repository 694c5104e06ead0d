package models

// Canonical FinancialRecord keys. The catalog is fixed and versionless:
// consumers rely on every key being present, with 0.0 as the
// "zero or not found" sentinel.
const (
	KeyPrice           = "cotacao_atual"
	KeyPE              = "preco_lucro"
	KeyPB              = "preco_valor_patrimonial"
	KeyPEBIT           = "preco_ebit"
	KeyPSR             = "price_sales_ratio"
	KeyEVEBITDA        = "ev_ebitda"
	KeyDividendYield   = "dividend_yield"
	KeyEPS             = "lucro_por_acao"
	KeyBVPS            = "valor_patrimonial_acao"
	KeyGrossMargin     = "margem_bruta"
	KeyEBITMargin      = "margem_ebit"
	KeyNetMargin       = "margem_liquida"
	KeyROE             = "roe"
	KeyROIC            = "roic"
	KeyCurrentRatio    = "liquidez_corrente"
	KeyDebtToEquity    = "divida_bruta_patrimonio"
	KeyRevenueGrowth5Y = "cres_receita_5a"
	KeyEnterpriseValue = "enterprise_value"
	KeyShareCount      = "numero_acoes"

	KeyEBITTTM       = "ebit_12m"
	KeyNetIncomeTTM  = "lucro_liquido_12m"
	KeyNetRevenueTTM = "receita_liquida_12m"

	KeyCurrentAssets      = "ativo_circulante"
	KeyCurrentLiabilities = "passivo_circulante"
	KeyNetFixedAssets     = "ativo_imobilizado_liquido"
	KeyTotalEquity        = "patrimonio_liquido_total"

	KeyGreenblattNWC   = "greenblatt_nwc_calculado"
	KeyGreenblattNFA   = "greenblatt_nfa_usado"
	KeyGreenblattEBIT  = "greenblatt_ebit_usado"
	KeyGreenblattEV    = "greenblatt_ev_usado"
	KeyGreenblattYield = "greenblatt_earnings_yield"
	KeyGreenblattROC   = "greenblatt_return_on_capital"
)
