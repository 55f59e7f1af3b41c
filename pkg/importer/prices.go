package importer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hmelton/plaidbean/pkg/ledger"
	"github.com/hmelton/plaidbean/pkg/securities"
	"github.com/hmelton/plaidbean/pkg/snapshot"
)

// Providers emit 1970-01-01 for "never observed"; anything at or before this
// cutoff is a placeholder, not a real observation.
var priceEpoch = time.Date(1971, time.January, 2, 0, 0, 0, 0, time.UTC)

var one = decimal.NewFromInt(1)

// holdingBalances emits one balance assertion per holding of the imported
// account, dated past the institution's as-of date so that same-day
// transactions sort before the checkpoint. A holding whose security cannot
// be resolved to a symbol is a fatal error: an assertion against "unknown"
// would check nothing.
func (imp *Importer) holdingBalances(snap *snapshot.Snapshot, secs securities.Table, aliases map[string]string) ([]ledger.Directive, error) {
	var out []ledger.Directive
	for _, h := range snap.Holdings {
		if h.AccountId != imp.opts.AccountID {
			continue
		}

		sec, ok := secs.Lookup(h.SecurityId)
		if !ok {
			return nil, &UnresolvedSecurityError{SecurityID: h.SecurityId}
		}
		symbol, ok := securities.Symbol(sec, aliases)
		if !ok {
			return nil, &UnresolvedSecurityError{SecurityID: h.SecurityId, Name: securities.Name(sec)}
		}

		asOf, ok := parseAsOf(h.InstitutionPriceAsOf.Get())
		if !ok {
			continue
		}

		out = append(out, &ledger.Balance{
			Date:    asOf.AddDate(0, 0, imp.opts.BalanceDays),
			Account: imp.opts.Account + ":" + symbol,
			Amount:  ledger.NewAmount(dec(h.Quantity), symbol),
		})
	}
	return out, nil
}

// holdingPrices derives point-in-time price observations from the holdings
// snapshot. Each holding offers two candidate sources, the security's own
// close price and the institution-reported price; the strictly more recent
// one wins, with the currency taken from the same source. Placeholder
// prices (the degenerate unit price, or anything before the epoch cutoff)
// are skipped so they cannot poison the ledger.
func (imp *Importer) holdingPrices(snap *snapshot.Snapshot, secs securities.Table, aliases map[string]string) ([]ledger.Directive, error) {
	var out []ledger.Directive
	for _, h := range snap.Holdings {
		if h.AccountId != imp.opts.AccountID {
			continue
		}

		sec, ok := secs.Lookup(h.SecurityId)
		if !ok {
			return nil, &UnresolvedSecurityError{SecurityID: h.SecurityId}
		}

		holdingDate, _ := parseAsOf(h.InstitutionPriceAsOf.Get())
		closeDate, _ := parseAsOf(sec.ClosePriceAsOf.Get())

		var (
			price    decimal.Decimal
			currency string
			date     time.Time
		)
		if closeDate.After(holdingDate) {
			price = dec(sec.GetClosePrice())
			currency = sec.GetIsoCurrencyCode()
			date = closeDate
		} else {
			price = dec(h.InstitutionPrice)
			currency = h.GetIsoCurrencyCode()
			date = holdingDate
		}

		if price.Equal(one) || !date.After(priceEpoch) {
			continue
		}

		symbol, ok := securities.Symbol(sec, aliases)
		if !ok {
			return nil, &UnresolvedSecurityError{SecurityID: h.SecurityId, Name: securities.Name(sec)}
		}

		out = append(out, &ledger.Price{
			Date:      date,
			Commodity: symbol,
			Amount:    ledger.NewAmount(price, currency),
		})
	}
	return out, nil
}
