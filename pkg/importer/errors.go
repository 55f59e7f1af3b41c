package importer

import "fmt"

// UnsupportedTransactionError reports an investment transaction whose
// (type, subtype) pair has no handler. The import aborts rather than
// skipping: silently dropped records leave the ledger inconsistent.
type UnsupportedTransactionError struct {
	ID      string
	Type    string
	Subtype string
}

func (e *UnsupportedTransactionError) Error() string {
	return fmt.Sprintf("unsupported investment transaction %s (type: %s, subtype: %s)", e.ID, e.Type, e.Subtype)
}

// UnresolvedSecurityError reports a security without a tradable symbol in a
// context that requires one, such as a balance assertion or a price.
type UnresolvedSecurityError struct {
	SecurityID string
	Name       string
}

func (e *UnresolvedSecurityError) Error() string {
	return fmt.Sprintf("cannot resolve a commodity symbol for security %s (%q): no ticker and no ledger alias", e.SecurityID, e.Name)
}

// NotCashEquivalentError reports a fee/interest transaction on an instrument
// that is not a cash equivalent. The per-unit conversion those handlers rely
// on is undefined for anything else.
type NotCashEquivalentError struct {
	ID         string
	SecurityID string
}

func (e *NotCashEquivalentError) Error() string {
	return fmt.Sprintf("fee transaction %s: security %s is not a cash equivalent", e.ID, e.SecurityID)
}
