package domain

// ISO 4217 codes quoted by the supported exchange houses.
const (
	CurrencyUSD = "USD"
	CurrencyBRL = "BRL"
	CurrencyEUR = "EUR"
	CurrencyARS = "ARS"
	CurrencyPYG = "PYG"
	CurrencyUYU = "UYU"
	CurrencyCLP = "CLP"
	CurrencyGBP = "GBP"
	CurrencyJPY = "JPY"
	CurrencyCHF = "CHF"
	CurrencyCAD = "CAD"
	CurrencyMXN = "MXN"
	CurrencyBOB = "BOB"
	CurrencyPEN = "PEN"
	CurrencyCOP = "COP"
	CurrencyAUD = "AUD"
	CurrencyCNY = "CNY"
)

var knownCurrencies = map[string]struct{}{
	CurrencyUSD: {}, CurrencyBRL: {}, CurrencyEUR: {}, CurrencyARS: {},
	CurrencyPYG: {}, CurrencyUYU: {}, CurrencyCLP: {}, CurrencyGBP: {},
	CurrencyJPY: {}, CurrencyCHF: {}, CurrencyCAD: {}, CurrencyMXN: {},
	CurrencyBOB: {}, CurrencyPEN: {}, CurrencyCOP: {}, CurrencyAUD: {},
	CurrencyCNY: {},
}

// IsKnownCurrency reports whether code belongs to the canonical ISO code set.
func IsKnownCurrency(code string) bool {
	_, ok := knownCurrencies[code]
	return ok
}
