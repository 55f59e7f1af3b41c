package config

import (
	"testing"

	"github.com/plaid/plaid-go/plaid"
)

func TestSetInstitution(t *testing.T) {
	cfg := &Config{}

	if err := cfg.SetInstitution(Institution{}); err == nil {
		t.Fatalf("expected error for empty institution name")
	}

	if err := cfg.SetInstitution(Institution{Name: "bank-a", AccessToken: "tok-1"}); err != nil {
		t.Fatalf("SetInstitution: %v", err)
	}
	if err := cfg.SetInstitution(Institution{Name: "bank-b", AccessToken: "tok-2"}); err != nil {
		t.Fatalf("SetInstitution: %v", err)
	}

	// Updating an existing institution replaces it in place.
	if err := cfg.SetInstitution(Institution{Name: "bank-a", AccessToken: "tok-3"}); err != nil {
		t.Fatalf("SetInstitution: %v", err)
	}

	if len(cfg.Institutions) != 2 {
		t.Fatalf("expected 2 institutions, got %d", len(cfg.Institutions))
	}
	inst, ok := cfg.Institution("bank-a")
	if !ok || inst.AccessToken != "tok-3" {
		t.Fatalf("unexpected institution: %+v %v", inst, ok)
	}
	if _, ok := cfg.Institution("bank-c"); ok {
		t.Fatalf("expected bank-c to be absent")
	}
}

func TestHasProduct(t *testing.T) {
	inst := Institution{
		Name:     "broker",
		Products: []plaid.Products{plaid.PRODUCTS_INVESTMENTS},
	}

	if !inst.HasProduct(plaid.PRODUCTS_INVESTMENTS) {
		t.Fatalf("expected investments product")
	}
	if inst.HasProduct(plaid.PRODUCTS_TRANSACTIONS) {
		t.Fatalf("did not expect transactions product")
	}
}
