// Package importer converts one institution snapshot into beancount
// directives: transactions, balance assertions and price observations.
package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/hmelton/plaidbean/pkg/ledger"
	"github.com/hmelton/plaidbean/pkg/securities"
	"github.com/hmelton/plaidbean/pkg/snapshot"
)

// Importer synthesizes ledger entries for a single account. It is a pure,
// batch transform: one snapshot in, one ordered directive list out.
type Importer struct {
	opts Options
	log  *logrus.Entry
}

func New(opts Options) *Importer {
	opts = opts.withDefaults()
	return &Importer{
		opts: opts,
		log: logrus.WithFields(logrus.Fields{
			"account": opts.Account,
			"run_id":  uuid.NewString(),
		}),
	}
}

// Extract produces directives for the importer's account in a stable order:
// bank transactions, investment transactions, holding balance assertions,
// then prices, each following the snapshot's original item order.
func (imp *Importer) Extract(snap *snapshot.Snapshot, existing *ledger.Ledger) ([]ledger.Directive, error) {
	aliases := map[string]string{}
	if existing != nil {
		aliases = existing.Aliases
	}

	// Holdings data is authoritative for securities, so its section is
	// merged last.
	secs := securities.Build(snap.TransactionSecurities, snap.HoldingSecurities)

	var directives []ledger.Directive

	bank, err := imp.bankEntries(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to extract bank transactions: %w", err)
	}
	directives = append(directives, bank...)

	invest, err := imp.investEntries(snap, secs, aliases)
	if err != nil {
		return nil, fmt.Errorf("failed to extract investment transactions: %w", err)
	}
	directives = append(directives, invest...)

	balances, err := imp.holdingBalances(snap, secs, aliases)
	if err != nil {
		return nil, fmt.Errorf("failed to project balance assertions: %w", err)
	}
	directives = append(directives, balances...)

	prices, err := imp.holdingPrices(snap, secs, aliases)
	if err != nil {
		return nil, fmt.Errorf("failed to project prices: %w", err)
	}
	directives = append(directives, prices...)

	imp.log.WithFields(logrus.Fields{
		"bank":     len(bank),
		"invest":   len(invest),
		"balances": len(balances),
		"prices":   len(prices),
	}).Debug("extracted directives")

	return directives, nil
}

func (imp *Importer) excluded(narration string) bool {
	for _, needle := range imp.opts.ExcludeDescriptions {
		if needle != "" && strings.Contains(narration, needle) {
			return true
		}
	}
	return false
}

// dec converts a plaid float at the API boundary into an exact decimal. All
// arithmetic past this point stays in decimals.
func dec(v float32) decimal.Decimal {
	return decimal.NewFromFloat32(v)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(ledger.DateFormat, s)
}

// parseAsOf handles the provider's as-of timestamps, which arrive either as
// a bare date or as RFC 3339.
func parseAsOf(s *string) (time.Time, bool) {
	if s == nil || *s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(ledger.DateFormat, *s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return t.UTC().Truncate(24 * time.Hour), true
	}
	return time.Time{}, false
}

func externalMeta(id string) map[string]string {
	return map[string]string{ledger.ExternalIDKey: id}
}
