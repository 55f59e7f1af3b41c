package importer

import (
	"fmt"
	"strings"

	"github.com/plaid/plaid-go/plaid"

	"github.com/hmelton/plaidbean/pkg/ledger"
	"github.com/hmelton/plaidbean/pkg/snapshot"
)

// bankEntries converts non-investment transactions: each settled transaction
// becomes a two-posting entry between the owning account and an expense
// account derived from the provider's category path. Pending transactions
// are excluded entirely. If any entries were produced, one balance assertion
// is appended, dated past the snapshot's last successful update.
func (imp *Importer) bankEntries(snap *snapshot.Snapshot) ([]ledger.Directive, error) {
	account, ok := snap.Account(imp.opts.AccountID)
	if !ok {
		return nil, nil
	}
	currency := account.Balances.GetIsoCurrencyCode()

	var out []ledger.Directive
	for _, t := range snap.Transactions {
		if t.AccountId != imp.opts.AccountID || t.Pending {
			continue
		}
		if imp.excluded(t.Name) {
			continue
		}

		date, err := parseDate(t.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date of transaction %s: %w", t.TransactionId, err)
		}

		units := ledger.NewAmount(dec(t.Amount), currency)
		negated := units.Neg()
		out = append(out, &ledger.Transaction{
			Date:      date,
			Flag:      "*",
			Payee:     t.GetMerchantName(),
			Narration: t.Name,
			Postings: []ledger.Posting{
				{Account: imp.opts.Account, Units: &negated, Meta: externalMeta(t.TransactionId)},
				{Account: expenseAccount(t.GetCategory()), Units: &units},
			},
		})
	}

	if len(out) > 0 {
		out = append(out, imp.bankBalance(account, currency, snap))
	}
	return out, nil
}

func (imp *Importer) bankBalance(account plaid.AccountBase, currency string, snap *snapshot.Snapshot) *ledger.Balance {
	// Venmo and a few others report no current balance, only available.
	number := dec(account.Balances.GetAvailable())
	if current, ok := account.Balances.GetCurrentOk(); ok && current != nil {
		number = dec(*current)
	}

	// Credit and loan balances are reported as positive debt; the ledger
	// sees them as negative liabilities.
	if t := account.GetType(); t == plaid.ACCOUNTTYPE_CREDIT || t == plaid.ACCOUNTTYPE_LOAN {
		number = number.Neg()
	}

	return &ledger.Balance{
		Date:    snap.LastUpdate.AddDate(0, 0, imp.opts.BalanceDays),
		Account: imp.opts.Account,
		Amount:  ledger.NewAmount(number, currency),
	}
}

// expenseAccount derives the expense account from the provider's category
// path, e.g. ["Food", "Restaurants"] -> "Expenses:Food-Restaurants".
// Apostrophes and commas are dropped and spaces hyphenated, so every
// segment stays a legal account name component.
func expenseAccount(categories []string) string {
	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.ReplaceAll(c, "'", "")
		c = strings.ReplaceAll(c, ",", "")
		c = strings.ReplaceAll(c, " ", "-")
		if c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		parts = []string{"Uncategorized"}
	}
	return "Expenses:" + strings.Join(parts, "-")
}
