package importer

import (
	"testing"
	"time"

	"github.com/plaid/plaid-go/plaid"

	"github.com/hmelton/plaidbean/pkg/ledger"
	"github.com/hmelton/plaidbean/pkg/snapshot"
)

// Extract keeps a stable section order: bank entries and their balance
// assertion, then investment entries, then holding assertions, then
// prices.
func TestExtractOrder(t *testing.T) {
	imp := New(Options{Account: "Assets:Broker", AccountID: "acct-1"})

	sec := withClosePrice(testSec("sec-1", "ABC", "Alphabet Corp", false), 102.5, "2023-05-04")

	snap := &snapshot.Snapshot{
		Institution:            "broker",
		LastUpdate:             time.Date(2023, 5, 4, 0, 0, 0, 0, time.UTC),
		Accounts:               []plaid.AccountBase{bankAccount(plaid.ACCOUNTTYPE_DEPOSITORY, 100)},
		Transactions:           []plaid.Transaction{bankTxn("txn-1", "Coffee Shop", 4.99, false, nil)},
		InvestmentTransactions: []plaid.InvestmentTransaction{invTxn("buy-1", "buy", "buy", 1000, 10, 100)},
		HoldingSecurities:      []plaid.Security{sec},
		Holdings:               []plaid.Holding{holding("sec-1", 10, 100, "2023-05-03")},
	}

	directives, err := imp.Extract(snap, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(directives) != 5 {
		t.Fatalf("expected 5 directives, got %d", len(directives))
	}

	if txn, ok := directives[0].(*ledger.Transaction); !ok || txn.Narration != "Coffee Shop" {
		t.Fatalf("expected bank transaction first, got %#v", directives[0])
	}
	if balance, ok := directives[1].(*ledger.Balance); !ok || balance.Account != "Assets:Broker" {
		t.Fatalf("expected bank balance second, got %#v", directives[1])
	}
	if txn, ok := directives[2].(*ledger.Transaction); !ok || txn.Narration != "buy-1" {
		t.Fatalf("expected investment transaction third, got %#v", directives[2])
	}
	if balance, ok := directives[3].(*ledger.Balance); !ok || balance.Account != "Assets:Broker:ABC" {
		t.Fatalf("expected holding assertion fourth, got %#v", directives[3])
	}
	if price, ok := directives[4].(*ledger.Price); !ok || price.Commodity != "ABC" {
		t.Fatalf("expected price last, got %#v", directives[4])
	}
}

// Commodity aliases from the existing ledger resolve ticker-less funds.
func TestExtractUsesLedgerAliases(t *testing.T) {
	imp := New(Options{Account: "Assets:Broker", AccountID: "acct-1"})

	fund := testSec("sec-1", "", "Prime Money Market Fund", true)
	snap := &snapshot.Snapshot{
		Institution:       "broker",
		HoldingSecurities: []plaid.Security{fund},
		Holdings:          []plaid.Holding{holding("sec-1", 100, 1, "2023-05-03")},
	}

	existing := &ledger.Ledger{
		Aliases: map[string]string{"Prime Money Market Fund": "PMMF"},
	}

	directives, err := imp.Extract(snap, existing)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(directives) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(directives))
	}
	balance := directives[0].(*ledger.Balance)
	if balance.Account != "Assets:Broker:PMMF" || balance.Amount.String() != "100 PMMF" {
		t.Fatalf("unexpected balance: %+v", balance)
	}
}
