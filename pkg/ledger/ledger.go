// Package ledger holds the beancount-side data model: directives, postings
// and exact decimal amounts, plus rendering and a reader for existing files.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the date layout used by beancount directives.
const DateFormat = "2006-01-02"

// Metadata keys shared across the importer.
const (
	// ExternalIDKey carries the stable Plaid transaction id on postings that
	// represent a real money movement. It is the sole key used for cross-run
	// deduplication.
	ExternalIDKey = "plaid_id"

	// DuplicateKey marks a transaction that duplicates one already present
	// in the existing ledger.
	DuplicateKey = "__duplicate__"
)

// Directive is any datable ledger record.
type Directive interface {
	When() time.Time
}

// Amount is a number of units of one currency or commodity.
type Amount struct {
	Number   decimal.Decimal
	Currency string
}

func NewAmount(number decimal.Decimal, currency string) Amount {
	return Amount{Number: number, Currency: currency}
}

func (a Amount) Neg() Amount {
	return Amount{Number: a.Number.Neg(), Currency: a.Currency}
}

func (a Amount) IsZero() bool { return a.Number.IsZero() }

func (a Amount) String() string {
	return a.Number.String() + " " + a.Currency
}

// Cost records the acquisition of a lot: per-unit cost, cost currency and
// acquisition date.
type Cost struct {
	Number   decimal.Decimal
	Currency string
	Date     time.Time
}

// Posting is one leg of a transaction. Units may be nil for an elided
// posting whose amount the ledger tool interpolates.
type Posting struct {
	Account string
	Units   *Amount
	Cost    *Cost
	Price   *Amount
	Meta    map[string]string
}

// Transaction is a dated, narrated set of postings.
type Transaction struct {
	Date      time.Time
	Flag      string
	Payee     string
	Narration string
	Meta      map[string]string
	Postings  []Posting
}

func (t *Transaction) When() time.Time { return t.Date }

// SetMeta attaches transaction-level metadata, allocating the map lazily.
func (t *Transaction) SetMeta(key, value string) {
	if t.Meta == nil {
		t.Meta = map[string]string{}
	}
	t.Meta[key] = value
}

// Balance asserts the expected amount of an account on a given date.
type Balance struct {
	Date    time.Time
	Account string
	Amount  Amount
}

func (b *Balance) When() time.Time { return b.Date }

// Price records an observed price of a commodity on a given date.
type Price struct {
	Date      time.Time
	Commodity string
	Amount    Amount
}

func (p *Price) When() time.Time { return p.Date }
