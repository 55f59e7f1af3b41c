package importer

import (
	"fmt"

	"github.com/plaid/plaid-go/plaid"
	"github.com/shopspring/decimal"

	"github.com/hmelton/plaidbean/pkg/ledger"
	"github.com/hmelton/plaidbean/pkg/securities"
	"github.com/hmelton/plaidbean/pkg/snapshot"
)

func (imp *Importer) investEntries(snap *snapshot.Snapshot, secs securities.Table, aliases map[string]string) ([]ledger.Directive, error) {
	var out []ledger.Directive
	for _, t := range snap.InvestmentTransactions {
		if t.AccountId != imp.opts.AccountID {
			continue
		}

		txn, err := imp.investTransaction(t, secs, aliases)
		if err != nil {
			return nil, err
		}
		if txn == nil || imp.excluded(txn.Narration) {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

// investTransaction dispatches on the provider's (type, subtype) taxonomy.
// Every recognized pair maps to exactly one handler; anything else is a
// fatal UnsupportedTransactionError, never a silent skip.
func (imp *Importer) investTransaction(t plaid.InvestmentTransaction, secs securities.Table, aliases map[string]string) (*ledger.Transaction, error) {
	switch t.Type {
	case "cash":
		switch t.Subtype {
		case "deposit", "withdrawal":
			// Deposits that carry a quantity behave like trades, not pure
			// cash movements.
			if !dec(t.Quantity).IsZero() {
				return imp.trade(t, imp.opts.CashAccount, secs, aliases)
			}
			return imp.cashMovement(t, secs)
		case "contribution":
			return imp.trade(t, imp.opts.CashAccount, secs, aliases)
		case "dividend", "interest":
			return imp.cashIncome(t, secs)
		}
	case "buy":
		switch t.Subtype {
		case "buy":
			return imp.trade(t, imp.opts.CashAccount, secs, aliases)
		case "long-term capital gain reinvestment":
			return imp.trade(t, imp.opts.DividendAccount, secs, aliases)
		}
	case "sell":
		if t.Subtype == "sell" {
			return imp.trade(t, imp.opts.CashAccount, secs, aliases)
		}
	case "fee":
		switch t.Subtype {
		case "miscellaneous fee", "interest":
			return imp.sweepFee(t, secs, aliases)
		case "account fee":
			return imp.accountFee(t, secs, aliases)
		case "dividend":
			return imp.cashIncome(t, secs)
		}
	case "transfer":
		if t.Subtype == "transfer" {
			return imp.cashTransfer(t)
		}
	}

	return nil, &UnsupportedTransactionError{
		ID:      t.InvestmentTransactionId,
		Type:    t.Type,
		Subtype: t.Subtype,
	}
}

func (imp *Importer) newTransaction(t plaid.InvestmentTransaction) (*ledger.Transaction, error) {
	date, err := parseDate(t.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date of transaction %s: %w", t.InvestmentTransactionId, err)
	}
	return &ledger.Transaction{
		Date:      date,
		Flag:      "*",
		Narration: t.Name,
	}, nil
}

// cashMovement books a deposit or withdrawal as a single cash posting. The
// amount sign follows the raw transaction; the counter-leg is left to the
// ledger tool.
func (imp *Importer) cashMovement(t plaid.InvestmentTransaction, secs securities.Table) (*ledger.Transaction, error) {
	txn, err := imp.newTransaction(t)
	if err != nil {
		return nil, err
	}

	if sec, ok := secs.Lookup(t.GetSecurityId()); ok {
		txn.Payee = securities.Name(sec)
	}

	units := ledger.NewAmount(dec(t.Amount).Neg(), t.GetIsoCurrencyCode())
	txn.Postings = []ledger.Posting{{
		Account: imp.opts.CashAccount,
		Units:   &units,
		Meta:    externalMeta(t.InvestmentTransactionId),
	}}
	return txn, nil
}

// cashTransfer is shaped like a deposit/withdrawal but names the currency
// rather than a security.
func (imp *Importer) cashTransfer(t plaid.InvestmentTransaction) (*ledger.Transaction, error) {
	txn, err := imp.newTransaction(t)
	if err != nil {
		return nil, err
	}
	txn.Payee = t.GetIsoCurrencyCode()

	units := ledger.NewAmount(dec(t.Amount).Neg(), t.GetIsoCurrencyCode())
	txn.Postings = []ledger.Posting{{
		Account: imp.opts.CashAccount,
		Units:   &units,
		Meta:    externalMeta(t.InvestmentTransactionId),
	}}
	return txn, nil
}

// cashIncome books dividend or interest income: income and cash legs, equal
// and opposite.
func (imp *Importer) cashIncome(t plaid.InvestmentTransaction, secs securities.Table) (*ledger.Transaction, error) {
	txn, err := imp.newTransaction(t)
	if err != nil {
		return nil, err
	}
	if sec, ok := secs.Lookup(t.GetSecurityId()); ok {
		txn.Payee = securities.Name(sec)
	}

	amount := ledger.NewAmount(dec(t.Amount), t.GetIsoCurrencyCode())
	negated := amount.Neg()
	txn.Postings = []ledger.Posting{
		{Account: imp.opts.DividendAccount, Units: &amount},
		{Account: imp.opts.CashAccount, Units: &negated, Meta: externalMeta(t.InvestmentTransactionId)},
	}
	return txn, nil
}

// sweepFee handles miscellaneous fees and interest charged against a sweep
// instrument. The posting converts the cash amount into instrument units at
// the security's close price, which is only meaningful for cash
// equivalents; anything else is a fatal input error.
func (imp *Importer) sweepFee(t plaid.InvestmentTransaction, secs securities.Table, aliases map[string]string) (*ledger.Transaction, error) {
	sec, ok := secs.Lookup(t.GetSecurityId())
	if !ok || !sec.GetIsCashEquivalent() {
		return nil, &NotCashEquivalentError{ID: t.InvestmentTransactionId, SecurityID: t.GetSecurityId()}
	}

	txn, err := imp.newTransaction(t)
	if err != nil {
		return nil, err
	}
	txn.Payee = securities.Name(sec)

	symbol, _ := securities.Symbol(sec, aliases)
	cash := ledger.NewAmount(dec(t.Amount).Neg(), t.GetIsoCurrencyCode())
	units := ledger.NewAmount(dec(t.Amount), symbol)
	price := ledger.NewAmount(dec(sec.GetClosePrice()), sec.GetIsoCurrencyCode())

	txn.Postings = []ledger.Posting{
		{Account: imp.opts.CashAccount, Units: &cash},
		{
			Account: imp.opts.Account + ":" + symbol,
			Units:   &units,
			Price:   &price,
			Meta:    externalMeta(t.InvestmentTransactionId),
		},
	}
	return txn, nil
}

// accountFee books maintenance fees. Symbol-less cash-equivalent sweeps get
// a plain expense entry; fees settled in fund units go through the trade
// path funded by the fees account.
func (imp *Importer) accountFee(t plaid.InvestmentTransaction, secs securities.Table, aliases map[string]string) (*ledger.Transaction, error) {
	sec, ok := secs.Lookup(t.GetSecurityId())
	if ok && sec.TickerSymbol.Get() == nil && sec.GetIsCashEquivalent() {
		txn, err := imp.newTransaction(t)
		if err != nil {
			return nil, err
		}

		amount := ledger.NewAmount(dec(t.Amount), t.GetIsoCurrencyCode())
		negated := amount.Neg()
		txn.Postings = []ledger.Posting{
			{Account: imp.opts.FeesAccount, Units: &amount},
			{Account: imp.opts.CashAccount, Units: &negated, Meta: externalMeta(t.InvestmentTransactionId)},
		}
		return txn, nil
	}

	return imp.trade(t, imp.opts.FeesAccount, secs, aliases)
}

// trade is the compound buy/sell/contribution handler. It debits the
// funding account by amount+fee, isolates the fee, books the traded
// quantity as a cost lot (or 1:1 for funds that track cash), and routes the
// discrepancy between notional and quantity*price to gain/loss on sells or
// to the rounding account otherwise. The discrepancy is real money either
// way and must never be folded into the cost basis.
func (imp *Importer) trade(t plaid.InvestmentTransaction, fundingAccount string, secs securities.Table, aliases map[string]string) (*ledger.Transaction, error) {
	txn, err := imp.newTransaction(t)
	if err != nil {
		return nil, err
	}

	sec, _ := secs.Lookup(t.GetSecurityId())
	symbol, resolved := securities.Symbol(sec, aliases)
	txn.Payee = securities.Name(sec)

	currency := t.GetIsoCurrencyCode()
	amount := dec(t.Amount)
	fees := dec(t.GetFees())
	quantity := dec(t.Quantity)
	price := dec(t.Price)

	funding := ledger.NewAmount(amount.Add(fees).Neg(), currency)
	postings := []ledger.Posting{{Account: fundingAccount, Units: &funding}}

	if !fees.IsZero() {
		fee := ledger.NewAmount(fees, currency)
		postings = append(postings, ledger.Posting{Account: imp.opts.FeesAccount, Units: &fee})
	}

	if imp.opts.isMoneyMarket(symbol) {
		// The fund tracks its settlement currency 1:1; no cost lot.
		imp.log.WithField("symbol", symbol).Debug("booking money-market position without cost basis")
		units := ledger.NewAmount(amount, symbol)
		one := ledger.NewAmount(decimal.NewFromInt(1), currency)
		postings = append(postings, ledger.Posting{
			Account: imp.opts.Account + ":" + symbol,
			Units:   &units,
			Price:   &one,
			Meta:    externalMeta(t.InvestmentTransactionId),
		})
	} else {
		// A cost lot under the sentinel symbol would be unreconcilable.
		if !resolved {
			return nil, &UnresolvedSecurityError{SecurityID: t.GetSecurityId(), Name: securities.Name(sec)}
		}
		units := ledger.NewAmount(quantity, symbol)
		unitPrice := ledger.NewAmount(price, currency)
		postings = append(postings, ledger.Posting{
			Account: imp.opts.Account + ":" + symbol,
			Units:   &units,
			Cost:    &ledger.Cost{Number: price, Currency: currency, Date: txn.Date},
			Price:   &unitPrice,
			Meta:    externalMeta(t.InvestmentTransactionId),
		})

		if discrepancy := amount.Sub(quantity.Mul(price)); !discrepancy.IsZero() {
			account := imp.opts.RoundingAccount
			if t.Type == "sell" {
				account = imp.opts.GainsAccount
			}
			leftover := ledger.NewAmount(discrepancy, currency)
			postings = append(postings, ledger.Posting{Account: account, Units: &leftover})
		}
	}

	txn.Postings = postings
	return txn, nil
}
