// Package snapshot models the normalized account data fetched from Plaid
// for one institution: accounts, bank transactions, investment transactions,
// securities and holdings, in their original item order.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/plaid/plaid-go/plaid"
)

// Snapshot is everything fetched for one institution. Slices keep insertion
// order so that re-imports emit entries in a stable order; the upsert
// helpers replace records in place instead of appending duplicates.
//
// Securities are kept in two sections because Plaid reports them both with
// the investment transaction history and with the holdings; the resolver
// merges them with the holdings section taking precedence.
type Snapshot struct {
	Institution string    `json:"institution"`
	Cursor      string    `json:"cursor"`
	LastUpdate  time.Time `json:"lastUpdate"`

	Accounts               []plaid.AccountBase           `json:"accounts"`
	Transactions           []plaid.Transaction           `json:"transactions"`
	InvestmentTransactions []plaid.InvestmentTransaction `json:"investmentTransactions"`
	TransactionSecurities  []plaid.Security              `json:"transactionSecurities"`
	HoldingSecurities      []plaid.Security              `json:"holdingSecurities"`
	Holdings               []plaid.Holding               `json:"holdings"`
}

func New(institution string) *Snapshot {
	return &Snapshot{Institution: institution}
}

func (s *Snapshot) Account(id string) (plaid.AccountBase, bool) {
	for _, a := range s.Accounts {
		if a.AccountId == id {
			return a, true
		}
	}
	return plaid.AccountBase{}, false
}

func (s *Snapshot) UpsertAccount(account plaid.AccountBase) {
	for i := range s.Accounts {
		if s.Accounts[i].AccountId == account.AccountId {
			s.Accounts[i] = account
			return
		}
	}
	s.Accounts = append(s.Accounts, account)
}

func (s *Snapshot) UpsertTransaction(txn plaid.Transaction) {
	for i := range s.Transactions {
		if s.Transactions[i].TransactionId == txn.TransactionId {
			s.Transactions[i] = txn
			return
		}
	}
	s.Transactions = append(s.Transactions, txn)
}

func (s *Snapshot) RemoveTransaction(id string) {
	for i := range s.Transactions {
		if s.Transactions[i].TransactionId == id {
			s.Transactions = append(s.Transactions[:i], s.Transactions[i+1:]...)
			return
		}
	}
}

func (s *Snapshot) UpsertInvestmentTransaction(txn plaid.InvestmentTransaction) {
	for i := range s.InvestmentTransactions {
		if s.InvestmentTransactions[i].InvestmentTransactionId == txn.InvestmentTransactionId {
			s.InvestmentTransactions[i] = txn
			return
		}
	}
	s.InvestmentTransactions = append(s.InvestmentTransactions, txn)
}

func (s *Snapshot) UpsertTransactionSecurity(sec plaid.Security) {
	s.TransactionSecurities = upsertSecurity(s.TransactionSecurities, sec)
}

// SetHoldings replaces the holdings and their security section wholesale:
// holdings data is authoritative per fetch, not incremental.
func (s *Snapshot) SetHoldings(holdings []plaid.Holding, secs []plaid.Security) {
	s.Holdings = holdings
	s.HoldingSecurities = secs
}

func upsertSecurity(list []plaid.Security, sec plaid.Security) []plaid.Security {
	for i := range list {
		if list[i].SecurityId == sec.SecurityId {
			list[i] = sec
			return list
		}
	}
	return append(list, sec)
}

// Plaid's generated models misbehave when decoded back from storage: enum
// fields that were never populated round-trip as empty strings, which their
// validating UnmarshalJSON rejects mid-record. Each record is therefore
// decoded individually with the error swallowed, keeping whatever fields
// did decode; a record written by Dump never loses real data this way.
type rawSnapshot struct {
	Institution string    `json:"institution"`
	Cursor      string    `json:"cursor"`
	LastUpdate  time.Time `json:"lastUpdate"`

	Accounts               []json.RawMessage `json:"accounts"`
	Transactions           []json.RawMessage `json:"transactions"`
	InvestmentTransactions []json.RawMessage `json:"investmentTransactions"`
	TransactionSecurities  []json.RawMessage `json:"transactionSecurities"`
	HoldingSecurities      []json.RawMessage `json:"holdingSecurities"`
	Holdings               []json.RawMessage `json:"holdings"`
}

func (r *rawSnapshot) snapshot() *Snapshot {
	s := &Snapshot{
		Institution: r.Institution,
		Cursor:      r.Cursor,
		LastUpdate:  r.LastUpdate,
	}
	for _, raw := range r.Accounts {
		var a plaid.AccountBase
		_ = json.Unmarshal(raw, &a)
		s.Accounts = append(s.Accounts, a)
	}
	for _, raw := range r.Transactions {
		var t plaid.Transaction
		_ = json.Unmarshal(raw, &t)
		s.Transactions = append(s.Transactions, t)
	}
	for _, raw := range r.InvestmentTransactions {
		var t plaid.InvestmentTransaction
		_ = json.Unmarshal(raw, &t)
		s.InvestmentTransactions = append(s.InvestmentTransactions, t)
	}
	for _, raw := range r.TransactionSecurities {
		var sec plaid.Security
		_ = json.Unmarshal(raw, &sec)
		s.TransactionSecurities = append(s.TransactionSecurities, sec)
	}
	for _, raw := range r.HoldingSecurities {
		var sec plaid.Security
		_ = json.Unmarshal(raw, &sec)
		s.HoldingSecurities = append(s.HoldingSecurities, sec)
	}
	for _, raw := range r.Holdings {
		var h plaid.Holding
		_ = json.Unmarshal(raw, &h)
		s.Holdings = append(s.Holdings, h)
	}
	return s
}

// Load reads snapshots from a JSON file; a missing file is an empty list.
func Load(path string) ([]*Snapshot, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return []*Snapshot{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	raws := []*rawSnapshot{}
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshots: %w", err)
	}

	snaps := make([]*Snapshot, 0, len(raws))
	for _, r := range raws {
		snaps = append(snaps, r.snapshot())
	}
	return snaps, nil
}

func Dump(path string, snaps []*Snapshot) error {
	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshots: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Find returns the snapshot for an institution, if present.
func Find(snaps []*Snapshot, institution string) (*Snapshot, bool) {
	for _, s := range snaps {
		if s.Institution == institution {
			return s, true
		}
	}
	return nil, false
}
