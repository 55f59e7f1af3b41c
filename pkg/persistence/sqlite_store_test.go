package persistence

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/plaid/plaid-go/plaid"

	"github.com/hmelton/plaidbean/pkg/snapshot"
)

func strPtr(s string) *string {
	return &s
}

func newTestSnapshots() []*snapshot.Snapshot {
	return []*snapshot.Snapshot{
		{
			Institution: "bank-a",
			Cursor:      "cur-1",
			LastUpdate:  time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
			Accounts: []plaid.AccountBase{
				{AccountId: "acct-1", Name: "Checking"},
			},
			Transactions: []plaid.Transaction{
				{
					TransactionId: "txn-1",
					AccountId:     "acct-1",
					Amount:        42.5,
					Name:          "Coffee Shop",
				},
				{
					TransactionId: "txn-2",
					AccountId:     "acct-1",
					Amount:        100.0,
					Name:          "Grocery Store",
				},
			},
			InvestmentTransactions: []plaid.InvestmentTransaction{
				{
					InvestmentTransactionId: "inv-txn-1",
					AccountId:               "acct-1",
					Amount:                  500.0,
				},
			},
			TransactionSecurities: []plaid.Security{
				{
					SecurityId:   "sec-1",
					TickerSymbol: *plaid.NewNullableString(strPtr("AAPL")),
				},
			},
			HoldingSecurities: []plaid.Security{
				{
					SecurityId:   "sec-1",
					TickerSymbol: *plaid.NewNullableString(strPtr("AAPL")),
				},
				{
					SecurityId:   "sec-2",
					TickerSymbol: *plaid.NewNullableString(strPtr("VTI")),
				},
			},
			Holdings: []plaid.Holding{
				{AccountId: "acct-1", SecurityId: "sec-1", Quantity: 10.0},
				{AccountId: "acct-1", SecurityId: "sec-2", Quantity: 3.5},
			},
		},
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	snaps := newTestSnapshots()

	if err := store.DumpSnapshots(snaps); err != nil {
		t.Fatalf("DumpSnapshots: %v", err)
	}

	loaded, err := store.LoadSnapshots()
	if err != nil {
		t.Fatalf("LoadSnapshots: %v", err)
	}

	// Compare via JSON since plaid types have unexported fields
	expected, _ := json.Marshal(snaps)
	actual, _ := json.Marshal(loaded)

	if string(expected) != string(actual) {
		t.Errorf("round-trip mismatch.\nExpected: %s\nActual:   %s", string(expected), string(actual))
	}
}

func TestSQLiteStoreEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	loaded, err := store.LoadSnapshots()
	if err != nil {
		t.Fatalf("LoadSnapshots: %v", err)
	}

	if len(loaded) != 0 {
		t.Errorf("expected empty, got %d snapshots", len(loaded))
	}
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	// Write initial data
	snaps := newTestSnapshots()
	if err := store.DumpSnapshots(snaps); err != nil {
		t.Fatalf("DumpSnapshots (first): %v", err)
	}

	// Overwrite with different data
	snaps2 := []*snapshot.Snapshot{
		{Institution: "broker-b", Cursor: "cur-9"},
	}
	if err := store.DumpSnapshots(snaps2); err != nil {
		t.Fatalf("DumpSnapshots (second): %v", err)
	}

	loaded, err := store.LoadSnapshots()
	if err != nil {
		t.Fatalf("LoadSnapshots: %v", err)
	}

	if len(loaded) != 1 || loaded[0].Institution != "broker-b" {
		t.Errorf("expected single snapshot 'broker-b', got %+v", loaded)
	}
}
