package normalize

import "cotizaciones/internal/domain"

// Reasons a raw record produced no detail.
const (
	DropExcluded     = "excluded"
	DropUnknownToken = "unknown_token"
	DropInvalidPrice = "invalid_price"
)

// Drop describes a raw record that was discarded during normalization.
type Drop struct {
	Record RawRecord
	Reason string
	Err    error // set for DropInvalidPrice
}

// Details converts raw records to query response details, best effort.
// Every input record yields either one detail or one Drop, in input order.
func Details(records []RawRecord, table CurrencyTable) ([]domain.QueryResponseDetail, []Drop) {
	details := make([]domain.QueryResponseDetail, 0, len(records))
	var drops []Drop

	for _, rec := range records {
		if table.Excluded(rec) {
			drops = append(drops, Drop{Record: rec, Reason: DropExcluded})
			continue
		}
		iso, ok := table.tokenCode(rec)
		if !ok {
			drops = append(drops, Drop{Record: rec, Reason: DropUnknownToken})
			continue
		}

		purchase, err := ParsePrice(rec.Purchase)
		if err != nil {
			drops = append(drops, Drop{Record: rec, Reason: DropInvalidPrice, Err: err})
			continue
		}
		sale, err := ParsePrice(rec.Sale)
		if err != nil {
			drops = append(drops, Drop{Record: rec, Reason: DropInvalidPrice, Err: err})
			continue
		}

		details = append(details, domain.QueryResponseDetail{
			ISOCode:       iso,
			PurchasePrice: purchase,
			SalePrice:     sale,
		})
	}

	return details, drops
}
