package ledger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Ledger is the read-only view of an existing beancount file that the
// importer needs: commodity aliases for symbol resolution and previously
// imported transactions for deduplication.
type Ledger struct {
	// Aliases maps a security display name (the "name"/"name2" metadata on a
	// commodity directive) to its ledger commodity symbol.
	Aliases map[string]string

	Transactions []*Transaction
}

// ReadFile reads an existing ledger file. A missing file yields an empty
// ledger rather than an error, since first imports have nothing to compare
// against.
func ReadFile(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &Ledger{Aliases: map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer f.Close()

	led, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger file %s: %w", path, err)
	}
	return led, nil
}

// Read scans a beancount stream line by line. This is not a full parser: it
// recovers only dates, accounts, amounts and metadata, which is all the
// deduplicator and the symbol resolver consume. Anything else is skipped.
func Read(r io.Reader) (*Ledger, error) {
	led := &Ledger{Aliases: map[string]string{}}

	var (
		txn       *Transaction
		posting   *Posting
		commodity string
	)

	flush := func() {
		if txn != nil {
			led.Transactions = append(led.Transactions, txn)
		}
		txn, posting, commodity = nil, nil, ""
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			flush()
			continue
		}

		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			flush()
			fields := strings.Fields(trimmed)
			if len(fields) < 2 {
				continue
			}
			date, err := time.Parse(DateFormat, fields[0])
			if err != nil {
				continue
			}
			switch fields[1] {
			case "commodity":
				if len(fields) >= 3 {
					commodity = fields[2]
				}
			case "*", "!", "txn":
				txn = &Transaction{Date: date, Flag: fields[1]}
			}
			continue
		}

		if key, value, ok := metaLine(trimmed); ok {
			switch {
			case commodity != "" && (key == "name" || key == "name2"):
				led.Aliases[value] = commodity
			case posting != nil:
				if posting.Meta == nil {
					posting.Meta = map[string]string{}
				}
				posting.Meta[key] = value
			case txn != nil:
				txn.SetMeta(key, value)
			}
			continue
		}

		if txn != nil {
			txn.Postings = append(txn.Postings, parsePosting(trimmed))
			posting = &txn.Postings[len(txn.Postings)-1]
		}
	}
	flush()

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan ledger: %w", err)
	}
	return led, nil
}

// metaLine recognizes `key: "value"` metadata lines. Metadata keys start
// with a lowercase letter or underscore, which distinguishes them from
// account names.
func metaLine(s string) (string, string, bool) {
	i := strings.Index(s, ":")
	if i <= 0 {
		return "", "", false
	}
	key := s[:i]
	first := rune(key[0])
	if !unicode.IsLower(first) && first != '_' {
		return "", "", false
	}
	value := strings.TrimSpace(s[i+1:])
	value = strings.Trim(value, `"`)
	return key, value, true
}

// parsePosting splits one posting line into account and optional units.
// Costs and prices are dropped: dedup compares raw unit amounts only.
func parsePosting(s string) Posting {
	fields := strings.Fields(s)
	p := Posting{Account: fields[0]}
	if len(fields) >= 3 {
		if number, err := decimal.NewFromString(fields[1]); err == nil {
			p.Units = &Amount{Number: number, Currency: fields[2]}
		}
	}
	return p
}
