package importer

// Options configures the synthesis of ledger entries for one account. Only
// Account and AccountID are required; the remaining account names default
// to conventional locations.
type Options struct {
	// Account is the ledger account all postings hang off, e.g.
	// "Assets:US:Broker". AccountID is the Plaid account id to import.
	Account   string
	AccountID string

	// CashAccount receives cash movements; defaults to Account + ":Cash".
	CashAccount string

	// DividendAccount books dividend and interest income.
	DividendAccount string

	// FeesAccount books broker fees separately so they stay auditable
	// independent of the trade that incurred them.
	FeesAccount string

	// GainsAccount receives the realized gain/loss of sells.
	GainsAccount string

	// RoundingAccount absorbs the quoting noise of buys and contributions.
	RoundingAccount string

	// ExcludeDescriptions drops transactions whose narration contains any of
	// these substrings. Used for accounts that sweep into a holding fund.
	ExcludeDescriptions []string

	// MoneyMarketFunds lists fund symbols that track their settlement
	// currency 1:1; positions in them are booked without a cost lot.
	MoneyMarketFunds []string

	// BalanceDays offsets balance assertions past the as-of date, so that
	// same-day transactions sort before the checkpoint. Defaults to 1.
	BalanceDays int
}

func (o Options) withDefaults() Options {
	if o.CashAccount == "" {
		o.CashAccount = o.Account + ":Cash"
	}
	if o.DividendAccount == "" {
		o.DividendAccount = "Income:Dividends"
	}
	if o.FeesAccount == "" {
		o.FeesAccount = "Expenses:Fees"
	}
	if o.GainsAccount == "" {
		o.GainsAccount = "Income:PnL"
	}
	if o.RoundingAccount == "" {
		o.RoundingAccount = "Equity:Rounding-Error"
	}
	if o.BalanceDays == 0 {
		o.BalanceDays = 1
	}
	return o
}

func (o Options) isMoneyMarket(symbol string) bool {
	for _, fund := range o.MoneyMarketFunds {
		if fund == symbol {
			return true
		}
	}
	return false
}
