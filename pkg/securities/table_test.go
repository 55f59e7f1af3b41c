package securities

import (
	"testing"

	"github.com/plaid/plaid-go/plaid"
)

func strPtr(s string) *string {
	return &s
}

func sec(id, ticker, name string) plaid.Security {
	s := plaid.Security{SecurityId: id}
	if ticker != "" {
		s.TickerSymbol = *plaid.NewNullableString(strPtr(ticker))
	}
	if name != "" {
		s.Name = *plaid.NewNullableString(strPtr(name))
	}
	return s
}

func TestBuildLastSectionWins(t *testing.T) {
	txnSection := []plaid.Security{sec("sec-1", "OLD", "Stale Name")}
	holdingSection := []plaid.Security{sec("sec-1", "ABC", "Fresh Name"), sec("sec-2", "DEF", "")}

	table := Build(txnSection, holdingSection)

	if len(table) != 2 {
		t.Fatalf("expected 2 securities, got %d", len(table))
	}
	s, ok := table.Lookup("sec-1")
	if !ok {
		t.Fatalf("expected sec-1 to resolve")
	}
	ticker := s.TickerSymbol.Get()
	if ticker == nil || *ticker != "ABC" {
		t.Fatalf("expected holdings section to win, got %+v", s.TickerSymbol)
	}

	if _, ok := table.Lookup("sec-3"); ok {
		t.Fatalf("expected sec-3 to be absent")
	}
}

func TestSymbol(t *testing.T) {
	aliases := map[string]string{"Prime Money Market Fund": "PMMF"}

	symbol, ok := Symbol(sec("sec-1", "ABC", "Anything"), aliases)
	if !ok || symbol != "ABC" {
		t.Fatalf("expected ticker ABC, got %q %v", symbol, ok)
	}

	symbol, ok = Symbol(sec("sec-2", "", "Prime Money Market Fund"), aliases)
	if !ok || symbol != "PMMF" {
		t.Fatalf("expected alias PMMF, got %q %v", symbol, ok)
	}

	symbol, ok = Symbol(sec("sec-3", "", "No Such Fund"), aliases)
	if ok || symbol != UnknownSymbol {
		t.Fatalf("expected unresolved sentinel, got %q %v", symbol, ok)
	}

	symbol, ok = Symbol(sec("sec-4", "", ""), nil)
	if ok || symbol != UnknownSymbol {
		t.Fatalf("expected unresolved sentinel for empty security, got %q %v", symbol, ok)
	}
}

func TestName(t *testing.T) {
	if got := Name(sec("sec-1", "", "Tiny Growth Fund")); got != "Tiny Growth Fund" {
		t.Fatalf("unexpected name: %q", got)
	}
	if got := Name(sec("sec-2", "", "")); got != "" {
		t.Fatalf("expected empty name, got %q", got)
	}
}
