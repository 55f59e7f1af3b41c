package persistence

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/plaid/plaid-go/plaid"

	"github.com/hmelton/plaidbean/pkg/config"
)

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := &config.Config{
		ClientID:    "client-id",
		Secret:      "secret",
		Environment: "Sandbox",
		Storage:     config.StorageConfig{Backend: "sqlite", Path: "snapshots.db"},
		LedgerPath:  "main.beancount",
		OutputPath:  "plaid_gen.beancount",
		StartDate:   "2023-01-01",
		DedupeDays:  5,
		Institutions: []config.Institution{
			{
				Name:        "mock-broker",
				AccessToken: "token",
				Products:    []plaid.Products{plaid.PRODUCTS_INVESTMENTS},
				Accounts: []config.Account{
					{
						ID:               "acct-1",
						Account:          "Assets:Broker",
						MoneyMarketFunds: []string{"PMMF"},
					},
				},
			},
		},
	}

	if err := DumpConfig(path, cfg); err != nil {
		t.Fatalf("DumpConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if !reflect.DeepEqual(cfg, loaded) {
		t.Fatalf("round-trip mismatch.\nExpected: %+v\nActual:   %+v", cfg, loaded)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestNewStoreUnknownBackend(t *testing.T) {
	if _, err := NewStore(config.StorageConfig{Backend: "bolt"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
