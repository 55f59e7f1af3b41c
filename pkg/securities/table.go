// Package securities resolves Plaid security records to ledger commodity
// symbols.
package securities

import (
	"github.com/plaid/plaid-go/plaid"
)

// UnknownSymbol substitutes for instruments the provider reports without a
// tradable symbol when no ledger alias covers them either. Handlers that
// need an unambiguous symbol (balance assertions, prices) must treat it as
// a resolution failure instead of using it.
const UnknownSymbol = "unknown"

// Table maps Plaid security ids to their raw security records.
type Table map[string]plaid.Security

// Build merges one or more security sections into a single lookup table.
// A snapshot may report the same security under several sections (once with
// the investment transactions, once with the holdings); later sections
// overwrite earlier ones on id collision, so callers list the authoritative
// section last.
func Build(sections ...[]plaid.Security) Table {
	t := Table{}
	for _, section := range sections {
		for _, s := range section {
			t[s.SecurityId] = s
		}
	}
	return t
}

func (t Table) Lookup(id string) (plaid.Security, bool) {
	s, ok := t[id]
	return s, ok
}

// Symbol resolves the tradable symbol of a security. Money-market and other
// proprietary funds often come without a ticker; for those the security's
// display name is looked up against the commodities already declared in the
// ledger. The second return reports whether resolution succeeded.
func Symbol(sec plaid.Security, aliases map[string]string) (string, bool) {
	if ticker := sec.TickerSymbol.Get(); ticker != nil && *ticker != "" {
		return *ticker, true
	}
	if name := sec.Name.Get(); name != nil {
		if symbol, ok := aliases[*name]; ok {
			return symbol, true
		}
	}
	return UnknownSymbol, false
}

// Name returns the display name of a security, or "" when absent.
func Name(sec plaid.Security) string {
	if name := sec.Name.Get(); name != nil {
		return *name
	}
	return ""
}
