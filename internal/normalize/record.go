package normalize

import "sort"

// RawRecord is one quote line as delivered by a source, before normalization.
type RawRecord struct {
	Label    string // currency label, e.g. "Dolar" or "Cheque Dolar"
	Icon     string // icon or category token used for currency mapping
	Purchase string // locale formatted purchase price
	Sale     string // locale formatted sale price
}

// Payload is a parsed source response keyed by remote branch code.
type Payload map[string][]RawRecord

// SortedCodes returns the remote branch codes of p in lexical order.
func (p Payload) SortedCodes() []string {
	codes := make([]string, 0, len(p))
	for code := range p {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
