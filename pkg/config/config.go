// Package config defines the yaml configuration: Plaid credentials, the
// snapshot storage backend, linked institutions and per-account importer
// options.
package config

import (
	"fmt"

	"github.com/plaid/plaid-go/plaid"
)

// Account maps one Plaid account to its ledger accounts and synthesis
// options. Empty optional fields fall back to the importer's defaults.
type Account struct {
	ID      string `yaml:"id"`
	Account string `yaml:"account"`

	CashAccount         string   `yaml:"cashAccount,omitempty"`
	DividendAccount     string   `yaml:"dividendAccount,omitempty"`
	FeesAccount         string   `yaml:"feesAccount,omitempty"`
	GainsAccount        string   `yaml:"gainsAccount,omitempty"`
	RoundingAccount     string   `yaml:"roundingAccount,omitempty"`
	ExcludeDescriptions []string `yaml:"excludeDescriptions,omitempty"`
	MoneyMarketFunds    []string `yaml:"moneyMarketFunds,omitempty"`
	BalanceDays         int      `yaml:"balanceDays,omitempty"`
}

type Institution struct {
	Name        string           `yaml:"name"`
	AccessToken string           `yaml:"accessToken"`
	Products    []plaid.Products `yaml:"products"`
	Accounts    []Account        `yaml:"accounts,omitempty"`
}

func (i Institution) HasProduct(p plaid.Products) bool {
	for _, product := range i.Products {
		if product == p {
			return true
		}
	}
	return false
}

// StorageConfig selects the snapshot store backend.
type StorageConfig struct {
	Backend string `yaml:"backend,omitempty"` // "json" (default) or "sqlite"
	Path    string `yaml:"path,omitempty"`
}

type Config struct {
	ClientID    string `yaml:"clientID"`
	Secret      string `yaml:"secret"`
	Environment string `yaml:"environment"`

	Storage StorageConfig `yaml:"storage,omitempty"`

	// LedgerPath points at the existing beancount file used for commodity
	// aliases and deduplication. OutputPath receives the generated entries.
	LedgerPath string `yaml:"ledgerPath,omitempty"`
	OutputPath string `yaml:"outputPath,omitempty"`

	// StartDate bounds the investment transaction fetch window (inclusive,
	// YYYY-MM-DD).
	StartDate string `yaml:"startDate,omitempty"`

	// DedupeDays is the maximum date distance, in days, at which two
	// entries can still be considered duplicates. Defaults to 3.
	DedupeDays int `yaml:"dedupeDays,omitempty"`

	Institutions []Institution `yaml:"institutions,omitempty"`
}

func (c *Config) Institution(name string) (Institution, bool) {
	for _, inst := range c.Institutions {
		if inst.Name == name {
			return inst, true
		}
	}
	return Institution{}, false
}

func (c *Config) SetInstitution(inst Institution) error {
	if inst.Name == "" {
		return fmt.Errorf("institution name must not be empty")
	}

	for i := range c.Institutions {
		if c.Institutions[i].Name == inst.Name {
			c.Institutions[i] = inst
			return nil
		}
	}

	c.Institutions = append(c.Institutions, inst)
	return nil
}
