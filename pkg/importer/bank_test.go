package importer

import (
	"testing"
	"time"

	"github.com/plaid/plaid-go/plaid"

	"github.com/hmelton/plaidbean/pkg/ledger"
	"github.com/hmelton/plaidbean/pkg/snapshot"
)

func bankAccount(accountType plaid.AccountType, current float32) plaid.AccountBase {
	account := plaid.AccountBase{
		AccountId: "acct-1",
		Name:      "Checking",
		Type:      accountType,
	}
	account.Balances.Current = *plaid.NewNullableFloat32(f32Ptr(current))
	account.Balances.Available = *plaid.NewNullableFloat32(f32Ptr(current - 10))
	account.Balances.IsoCurrencyCode = *plaid.NewNullableString(strPtr("USD"))
	return account
}

func bankTxn(id, name string, amount float32, pending bool, category []string) plaid.Transaction {
	t := plaid.Transaction{
		TransactionId: id,
		AccountId:     "acct-1",
		Amount:        amount,
		Date:          "2023-05-01",
		Name:          name,
		Pending:       pending,
	}
	t.Category = category
	return t
}

func TestBankEntries(t *testing.T) {
	imp := New(Options{Account: "Assets:Checking", AccountID: "acct-1"})

	snap := &snapshot.Snapshot{
		Institution: "bank",
		LastUpdate:  time.Date(2023, 5, 3, 15, 4, 5, 0, time.UTC),
		Accounts:    []plaid.AccountBase{bankAccount(plaid.ACCOUNTTYPE_DEPOSITORY, 100.25)},
		Transactions: []plaid.Transaction{
			bankTxn("txn-1", "Coffee Shop", 4.99, false, []string{"Food", "Restaurants"}),
			bankTxn("txn-2", "Pending Card Swipe", 10, true, nil),
			bankTxn("txn-3", "Refund", -15, false, nil),
		},
	}

	entries, err := imp.bankEntries(snap)
	if err != nil {
		t.Fatalf("bankEntries: %v", err)
	}

	// Two settled transactions plus the trailing balance assertion.
	if len(entries) != 3 {
		t.Fatalf("expected 3 directives, got %d", len(entries))
	}

	first := entries[0].(*ledger.Transaction)
	mustBalance(t, first)
	if first.Narration != "Coffee Shop" {
		t.Fatalf("unexpected narration: %q", first.Narration)
	}
	own := findPosting(t, first, "Assets:Checking")
	if own.Units.String() != "-4.99 USD" {
		t.Fatalf("unexpected units: %s", own.Units)
	}
	if own.Meta[ledger.ExternalIDKey] != "txn-1" {
		t.Fatalf("expected external id, got %+v", own.Meta)
	}
	expense := findPosting(t, first, "Expenses:Food-Restaurants")
	if expense.Units.String() != "4.99 USD" {
		t.Fatalf("unexpected expense units: %s", expense.Units)
	}

	refund := entries[1].(*ledger.Transaction)
	if p := findPosting(t, refund, "Assets:Checking"); p.Units.String() != "15 USD" {
		t.Fatalf("unexpected refund units: %s", p.Units)
	}
	findPosting(t, refund, "Expenses:Uncategorized")

	balance := entries[2].(*ledger.Balance)
	if balance.Account != "Assets:Checking" {
		t.Fatalf("unexpected balance account: %s", balance.Account)
	}
	if balance.Amount.String() != "100.25 USD" {
		t.Fatalf("unexpected balance amount: %s", balance.Amount)
	}
	want := time.Date(2023, 5, 4, 15, 4, 5, 0, time.UTC)
	if !balance.Date.Equal(want) {
		t.Fatalf("unexpected balance date: %v", balance.Date)
	}
}

// Credit balances arrive as positive debt and assert as negative
// liabilities.
func TestBankBalanceCreditSignFlip(t *testing.T) {
	imp := New(Options{Account: "Liabilities:Card", AccountID: "acct-1"})

	snap := &snapshot.Snapshot{
		Institution:  "bank",
		LastUpdate:   time.Date(2023, 5, 3, 0, 0, 0, 0, time.UTC),
		Accounts:     []plaid.AccountBase{bankAccount(plaid.ACCOUNTTYPE_CREDIT, 250)},
		Transactions: []plaid.Transaction{bankTxn("txn-1", "Groceries", 50, false, nil)},
	}

	entries, err := imp.bankEntries(snap)
	if err != nil {
		t.Fatalf("bankEntries: %v", err)
	}

	balance := entries[len(entries)-1].(*ledger.Balance)
	if balance.Amount.String() != "-250 USD" {
		t.Fatalf("expected sign-flipped balance, got %s", balance.Amount)
	}
}

func TestBankEntriesUnknownAccount(t *testing.T) {
	imp := New(Options{Account: "Assets:Checking", AccountID: "missing"})

	snap := &snapshot.Snapshot{
		Institution:  "bank",
		Accounts:     []plaid.AccountBase{bankAccount(plaid.ACCOUNTTYPE_DEPOSITORY, 100)},
		Transactions: []plaid.Transaction{bankTxn("txn-1", "Coffee Shop", 4.99, false, nil)},
	}

	entries, err := imp.bankEntries(snap)
	if err != nil {
		t.Fatalf("bankEntries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries for unknown account, got %d", len(entries))
	}
}

func TestExpenseAccount(t *testing.T) {
	cases := []struct {
		categories []string
		want       string
	}{
		{[]string{"Food", "Restaurants"}, "Expenses:Food-Restaurants"},
		{[]string{"Food and Drink", "Coffee"}, "Expenses:Food-and-Drink-Coffee"},
		{[]string{"Mc'Donalds, Inc"}, "Expenses:McDonalds-Inc"},
		{nil, "Expenses:Uncategorized"},
		{[]string{""}, "Expenses:Uncategorized"},
	}

	for _, tc := range cases {
		if got := expenseAccount(tc.categories); got != tc.want {
			t.Errorf("expenseAccount(%v) = %q, want %q", tc.categories, got, tc.want)
		}
	}
}
