package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Weight returns the value a posting contributes to its transaction's
// per-currency balance: units at cost when the posting opens or closes a
// lot, units at price when it carries a price conversion, plain units
// otherwise. The second return is false for elided postings.
func (p Posting) Weight() (Amount, bool) {
	if p.Units == nil {
		return Amount{}, false
	}
	switch {
	case p.Cost != nil:
		return Amount{Number: p.Units.Number.Mul(p.Cost.Number), Currency: p.Cost.Currency}, true
	case p.Price != nil:
		return Amount{Number: p.Units.Number.Mul(p.Price.Number), Currency: p.Price.Currency}, true
	}
	return *p.Units, true
}

// CheckBalanced verifies that posting weights sum to zero per currency.
// Transactions with fewer than two postings, or with an elided posting, are
// left to the ledger tool's interpolation and pass unchecked.
func (t *Transaction) CheckBalanced() error {
	if len(t.Postings) < 2 {
		return nil
	}

	sums := map[string]decimal.Decimal{}
	for _, p := range t.Postings {
		w, ok := p.Weight()
		if !ok {
			return nil
		}
		sums[w.Currency] = sums[w.Currency].Add(w.Number)
	}

	for currency, sum := range sums {
		if !sum.IsZero() {
			return fmt.Errorf("transaction %q does not balance: %s %s left over", t.Narration, sum, currency)
		}
	}

	return nil
}
