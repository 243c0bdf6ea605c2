package normalize

import (
	"strings"

	"cotizaciones/internal/domain"
)

// CurrencyTable maps source tokens to ISO codes.
type CurrencyTable struct {
	// Tokens maps an icon/category token to an ISO 4217 code.
	Tokens map[string]string
	// ExcludeLabels lists label substrings marking non-tradable instruments
	// (check-only rates). Matching records map to no currency.
	ExcludeLabels []string
}

// ISOCode returns the canonical code for rec, or false when the record is
// excluded or its token is unknown.
func (t CurrencyTable) ISOCode(rec RawRecord) (string, bool) {
	if t.Excluded(rec) {
		return "", false
	}
	return t.tokenCode(rec)
}

// tokenCode maps the record token alone, without the exclusion check.
func (t CurrencyTable) tokenCode(rec RawRecord) (string, bool) {
	code, ok := t.Tokens[rec.Icon]
	if !ok || !domain.IsKnownCurrency(code) {
		return "", false
	}
	return code, true
}

// Excluded reports whether rec is flagged as a non-tradable instrument.
func (t CurrencyTable) Excluded(rec RawRecord) bool {
	for _, s := range t.ExcludeLabels {
		if strings.Contains(rec.Label, s) {
			return true
		}
	}
	return false
}
