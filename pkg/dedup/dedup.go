// Package dedup flags freshly synthesized ledger entries that duplicate
// entries already present, tolerating slightly different dates and rounding.
package dedup

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/hmelton/plaidbean/pkg/ledger"
)

// epsilon is the allowed fractional variation between two amounts for them
// to still count as the same movement. Strictly less than: a 5% difference
// exactly is not a match.
var epsilon = decimal.RequireFromString("0.05")

var one = decimal.NewFromInt(1)

type key struct {
	account    string
	externalID string
	currency   string
}

type amounts map[key]decimal.Decimal

// Comparator decides whether two transactions describe the same real-world
// movement. Per-entry amount maps are memoized under a generated entry
// index for the duration of a pass, since each fresh entry is compared
// against many candidates.
type Comparator struct {
	// MaxDateDelta rejects pairs whose dates differ by more; zero disables
	// the date gate.
	MaxDateDelta time.Duration

	indexes map[*ledger.Transaction]int
	cache   map[int]amounts
}

func NewComparator(maxDateDelta time.Duration) *Comparator {
	return &Comparator{
		MaxDateDelta: maxDateDelta,
		indexes:      map[*ledger.Transaction]int{},
		cache:        map[int]amounts{},
	}
}

// SimilarEntries reports whether the two transactions likely record the
// same movement: they share at least one (account, external id, currency)
// key, and on some shared key the amounts agree within the tolerance.
func (c *Comparator) SimilarEntries(a, b *ledger.Transaction) bool {
	if c.MaxDateDelta != 0 {
		delta := a.Date.Sub(b.Date)
		if delta < 0 {
			delta = -delta
		}
		if delta > c.MaxDateDelta {
			return false
		}
	}

	left, right := c.amounts(a), c.amounts(b)

	shared := make([]key, 0, len(left))
	for k := range left {
		if _, ok := right[k]; ok {
			shared = append(shared, k)
		}
	}
	if len(shared) == 0 {
		return false
	}
	sort.Slice(shared, func(i, j int) bool {
		if shared[i].account != shared[j].account {
			return shared[i].account < shared[j].account
		}
		if shared[i].externalID != shared[j].externalID {
			return shared[i].externalID < shared[j].externalID
		}
		return shared[i].currency < shared[j].currency
	})

	for _, k := range shared {
		first, second := left[k], right[k]
		if first.IsZero() && second.IsZero() {
			return true
		}
		// One side zero and the other not can never be the same movement.
		if first.IsZero() || second.IsZero() {
			return false
		}

		ratio := first.Div(second).Abs()
		if ratio.LessThan(one) {
			ratio = one.Div(ratio)
		}
		if ratio.Sub(one).LessThan(epsilon) {
			return true
		}
	}
	return false
}

func (c *Comparator) amounts(t *ledger.Transaction) amounts {
	idx, ok := c.indexes[t]
	if !ok {
		idx = len(c.indexes)
		c.indexes[t] = idx
	}
	if m, ok := c.cache[idx]; ok {
		return m
	}
	m := amountsOf(t)
	c.cache[idx] = m
	return m
}

// amountsOf sums posting units per (account, external id, currency).
// Postings without the external identifier, including any auto-balancing
// legs, are excluded: they are not independently verifiable.
func amountsOf(t *ledger.Transaction) amounts {
	m := amounts{}
	for _, p := range t.Postings {
		if p.Units == nil {
			continue
		}
		id, ok := p.Meta[ledger.ExternalIDKey]
		if !ok {
			continue
		}
		k := key{account: p.Account, externalID: id, currency: p.Units.Currency}
		m[k] = m[k].Add(p.Units.Number)
	}
	return m
}

// Mark flags fresh transactions that duplicate an existing entry by setting
// duplicate metadata on them. Entries are marked, not dropped, so the
// operator can still inspect what the import skipped.
func Mark(fresh []ledger.Directive, existing []*ledger.Transaction, c *Comparator) int {
	marked := 0
	for _, d := range fresh {
		txn, ok := d.(*ledger.Transaction)
		if !ok {
			continue
		}
		for _, prev := range existing {
			if c.SimilarEntries(txn, prev) {
				txn.SetMeta(ledger.DuplicateKey, "true")
				marked++
				logrus.WithField("narration", txn.Narration).Debug("marked duplicate entry")
				break
			}
		}
	}
	return marked
}
