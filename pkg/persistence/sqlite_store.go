package persistence

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/plaid/plaid-go/plaid"

	"github.com/hmelton/plaidbean/pkg/snapshot"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    institution TEXT PRIMARY KEY,
    cursor      TEXT NOT NULL DEFAULT '',
    last_update TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS accounts (
    id          TEXT PRIMARY KEY,
    institution TEXT NOT NULL REFERENCES snapshots(institution),
    position    INTEGER NOT NULL,
    data        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    transaction_id TEXT PRIMARY KEY,
    institution    TEXT NOT NULL REFERENCES snapshots(institution),
    position       INTEGER NOT NULL,
    data           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS investment_transactions (
    transaction_id TEXT PRIMARY KEY,
    institution    TEXT NOT NULL REFERENCES snapshots(institution),
    position       INTEGER NOT NULL,
    data           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS securities (
    security_id TEXT NOT NULL,
    institution TEXT NOT NULL REFERENCES snapshots(institution),
    section     TEXT NOT NULL CHECK(section IN ('transactions', 'holdings')),
    position    INTEGER NOT NULL,
    data        TEXT NOT NULL,
    PRIMARY KEY (security_id, institution, section)
);

CREATE TABLE IF NOT EXISTS holdings (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    institution TEXT NOT NULL REFERENCES snapshots(institution),
    position    INTEGER NOT NULL,
    data        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_accounts_institution ON accounts(institution);
CREATE INDEX IF NOT EXISTS idx_transactions_institution ON transactions(institution);
CREATE INDEX IF NOT EXISTS idx_inv_transactions_institution ON investment_transactions(institution);
CREATE INDEX IF NOT EXISTS idx_securities_institution ON securities(institution);
CREATE INDEX IF NOT EXISTS idx_holdings_institution ON holdings(institution);
`

// Type aliases bypass plaid's custom UnmarshalJSON, which silently drops
// data when enum fields (e.g. AccountType) are empty. The aliases use Go's
// default JSON decoder, which populates all fields regardless of enum
// validation.
type (
	rawAccountBase   plaid.AccountBase
	rawTransaction   plaid.Transaction
	rawHolding       plaid.Holding
	rawSecurity      plaid.Security
	rawInvestmentTxn plaid.InvestmentTransaction
)

func unmarshalAccountBase(data []byte) plaid.AccountBase {
	var r rawAccountBase
	_ = json.Unmarshal(data, &r)
	return plaid.AccountBase(r)
}

func unmarshalTransaction(data []byte) plaid.Transaction {
	var r rawTransaction
	_ = json.Unmarshal(data, &r)
	return plaid.Transaction(r)
}

func unmarshalHolding(data []byte) plaid.Holding {
	var r rawHolding
	_ = json.Unmarshal(data, &r)
	return plaid.Holding(r)
}

func unmarshalSecurity(data []byte) plaid.Security {
	var r rawSecurity
	_ = json.Unmarshal(data, &r)
	return plaid.Security(r)
}

func unmarshalInvestmentTxn(data []byte) plaid.InvestmentTransaction {
	var r rawInvestmentTxn
	_ = json.Unmarshal(data, &r)
	return plaid.InvestmentTransaction(r)
}

// SQLiteStore implements Store using a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LoadSnapshots() ([]*snapshot.Snapshot, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query("SELECT institution, cursor, last_update FROM snapshots ORDER BY institution")
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []*snapshot.Snapshot{}
	for rows.Next() {
		snap := &snapshot.Snapshot{}
		var lastUpdate string
		if err := rows.Scan(&snap.Institution, &snap.Cursor, &lastUpdate); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if lastUpdate != "" {
			if snap.LastUpdate, err = time.Parse(time.RFC3339, lastUpdate); err != nil {
				return nil, fmt.Errorf("failed to parse last update of %s: %w", snap.Institution, err)
			}
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot rows error: %w", err)
	}

	for _, snap := range snaps {
		if err := s.loadSnapshotData(tx, snap); err != nil {
			return nil, fmt.Errorf("failed to load data for %s: %w", snap.Institution, err)
		}
	}

	return snaps, nil
}

// loadSnapshotData fills one snapshot's record lists, preserving the
// position each record was dumped with so re-imports keep a stable order.
func (s *SQLiteStore) loadSnapshotData(tx *sql.Tx, snap *snapshot.Snapshot) error {
	if err := queryData(tx,
		"SELECT data FROM accounts WHERE institution = ? ORDER BY position", snap.Institution,
		func(data []byte) { snap.Accounts = append(snap.Accounts, unmarshalAccountBase(data)) },
	); err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	if err := queryData(tx,
		"SELECT data FROM transactions WHERE institution = ? ORDER BY position", snap.Institution,
		func(data []byte) { snap.Transactions = append(snap.Transactions, unmarshalTransaction(data)) },
	); err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	if err := queryData(tx,
		"SELECT data FROM investment_transactions WHERE institution = ? ORDER BY position", snap.Institution,
		func(data []byte) {
			snap.InvestmentTransactions = append(snap.InvestmentTransactions, unmarshalInvestmentTxn(data))
		},
	); err != nil {
		return fmt.Errorf("failed to load investment transactions: %w", err)
	}

	if err := queryData(tx,
		"SELECT data FROM securities WHERE institution = ? AND section = 'transactions' ORDER BY position", snap.Institution,
		func(data []byte) {
			snap.TransactionSecurities = append(snap.TransactionSecurities, unmarshalSecurity(data))
		},
	); err != nil {
		return fmt.Errorf("failed to load transaction securities: %w", err)
	}

	if err := queryData(tx,
		"SELECT data FROM securities WHERE institution = ? AND section = 'holdings' ORDER BY position", snap.Institution,
		func(data []byte) {
			snap.HoldingSecurities = append(snap.HoldingSecurities, unmarshalSecurity(data))
		},
	); err != nil {
		return fmt.Errorf("failed to load holding securities: %w", err)
	}

	if err := queryData(tx,
		"SELECT data FROM holdings WHERE institution = ? ORDER BY position", snap.Institution,
		func(data []byte) { snap.Holdings = append(snap.Holdings, unmarshalHolding(data)) },
	); err != nil {
		return fmt.Errorf("failed to load holdings: %w", err)
	}

	return nil
}

func queryData(tx *sql.Tx, query, institution string, collect func([]byte)) error {
	rows, err := tx.Query(query, institution)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return err
		}
		collect([]byte(data))
	}
	return rows.Err()
}

func (s *SQLiteStore) DumpSnapshots(snaps []*snapshot.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Clear all data in reverse dependency order.
	for _, table := range []string{"holdings", "securities", "investment_transactions", "transactions", "accounts", "snapshots"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}

	for _, snap := range snaps {
		lastUpdate := ""
		if !snap.LastUpdate.IsZero() {
			lastUpdate = snap.LastUpdate.Format(time.RFC3339)
		}
		if _, err := tx.Exec(
			"INSERT INTO snapshots (institution, cursor, last_update) VALUES (?, ?, ?)",
			snap.Institution, snap.Cursor, lastUpdate,
		); err != nil {
			return fmt.Errorf("failed to insert snapshot %s: %w", snap.Institution, err)
		}

		for i, account := range snap.Accounts {
			if err := insertData(tx,
				"INSERT INTO accounts (id, institution, position, data) VALUES (?, ?, ?, ?)",
				account, account.AccountId, snap.Institution, i,
			); err != nil {
				return fmt.Errorf("failed to insert account: %w", err)
			}
		}

		for i, txn := range snap.Transactions {
			if err := insertData(tx,
				"INSERT INTO transactions (transaction_id, institution, position, data) VALUES (?, ?, ?, ?)",
				txn, txn.TransactionId, snap.Institution, i,
			); err != nil {
				return fmt.Errorf("failed to insert transaction: %w", err)
			}
		}

		for i, txn := range snap.InvestmentTransactions {
			if err := insertData(tx,
				"INSERT INTO investment_transactions (transaction_id, institution, position, data) VALUES (?, ?, ?, ?)",
				txn, txn.InvestmentTransactionId, snap.Institution, i,
			); err != nil {
				return fmt.Errorf("failed to insert investment transaction: %w", err)
			}
		}

		for i, sec := range snap.TransactionSecurities {
			if _, err := tx.Exec(
				"INSERT INTO securities (security_id, institution, section, position, data) VALUES (?, ?, 'transactions', ?, ?)",
				sec.SecurityId, snap.Institution, i, marshal(sec),
			); err != nil {
				return fmt.Errorf("failed to insert transaction security: %w", err)
			}
		}

		for i, sec := range snap.HoldingSecurities {
			if _, err := tx.Exec(
				"INSERT INTO securities (security_id, institution, section, position, data) VALUES (?, ?, 'holdings', ?, ?)",
				sec.SecurityId, snap.Institution, i, marshal(sec),
			); err != nil {
				return fmt.Errorf("failed to insert holding security: %w", err)
			}
		}

		for i, h := range snap.Holdings {
			if _, err := tx.Exec(
				"INSERT INTO holdings (institution, position, data) VALUES (?, ?, ?)",
				snap.Institution, i, marshal(h),
			); err != nil {
				return fmt.Errorf("failed to insert holding: %w", err)
			}
		}
	}

	return tx.Commit()
}

func insertData(tx *sql.Tx, query string, record interface{}, id, institution string, position int) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	_, err = tx.Exec(query, id, institution, position, string(data))
	return err
}

func marshal(record interface{}) string {
	data, err := json.Marshal(record)
	if err != nil {
		return "{}"
	}
	return string(data)
}
