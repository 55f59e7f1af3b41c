// Package extract turns persisted snapshots into a beancount file: it runs
// the importer for every configured account, marks duplicates against the
// existing ledger and renders the surviving directives.
package extract

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hmelton/plaidbean/pkg/config"
	"github.com/hmelton/plaidbean/pkg/dedup"
	"github.com/hmelton/plaidbean/pkg/importer"
	"github.com/hmelton/plaidbean/pkg/ledger"
	"github.com/hmelton/plaidbean/pkg/persistence"
	"github.com/hmelton/plaidbean/pkg/snapshot"
)

const defaultDedupeDays = 3

func Extract(configPath string) error {
	cfg, err := persistence.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := persistence.NewStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer store.Close()

	snaps, err := store.LoadSnapshots()
	if err != nil {
		return fmt.Errorf("failed to load snapshots: %w", err)
	}

	existing, err := ledger.ReadFile(cfg.LedgerPath)
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	directives, err := extractDirectives(cfg, snaps, existing)
	if err != nil {
		return err
	}

	dedupeDays := cfg.DedupeDays
	if dedupeDays == 0 {
		dedupeDays = defaultDedupeDays
	}
	cmp := dedup.NewComparator(time.Duration(dedupeDays) * 24 * time.Hour)
	marked := dedup.Mark(directives, existing.Transactions, cmp)

	outputPath := cfg.OutputPath
	if outputPath == "" {
		outputPath = persistence.DefaultOutputPath
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := ledger.Render(f, directives); err != nil {
		return fmt.Errorf("failed to render directives: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"directives": len(directives),
		"duplicates": marked,
		"output":     outputPath,
	}).Info("extracted ledger entries")
	return nil
}

func extractDirectives(cfg *config.Config, snaps []*snapshot.Snapshot, existing *ledger.Ledger) ([]ledger.Directive, error) {
	var directives []ledger.Directive

	for _, inst := range cfg.Institutions {
		snap, ok := snapshot.Find(snaps, inst.Name)
		if !ok {
			logrus.Warnf("no snapshot for %s, run fetch first", inst.Name)
			continue
		}

		for _, account := range inst.Accounts {
			imp := importer.New(accountOptions(account))
			ds, err := imp.Extract(snap, existing)
			if err != nil {
				return nil, fmt.Errorf("failed to extract %s:%s: %w", inst.Name, account.Account, err)
			}
			directives = append(directives, ds...)
		}
	}

	return directives, nil
}

func accountOptions(a config.Account) importer.Options {
	return importer.Options{
		Account:             a.Account,
		AccountID:           a.ID,
		CashAccount:         a.CashAccount,
		DividendAccount:     a.DividendAccount,
		FeesAccount:         a.FeesAccount,
		GainsAccount:        a.GainsAccount,
		RoundingAccount:     a.RoundingAccount,
		ExcludeDescriptions: a.ExcludeDescriptions,
		MoneyMarketFunds:    a.MoneyMarketFunds,
		BalanceDays:         a.BalanceDays,
	}
}
