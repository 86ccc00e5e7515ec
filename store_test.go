package rebalance

import (
	"errors"
	"strings"
	"testing"
)

func TestAllocation_Validate(t *testing.T) {
	tests := []struct {
		name    string
		alloc   Allocation
		wantErr string // substring of the expected error, "" for valid
	}{
		{
			name: "valid",
			alloc: Allocation{
				{Asset: "equities", Fraction: Q(0.6)},
				{Asset: "bonds", Fraction: Q(0.4)},
			},
		},
		{
			name:    "empty",
			wantErr: "no slices",
		},
		{
			name: "cash target",
			alloc: Allocation{
				{Asset: Cash, Fraction: Q(1)},
			},
			wantErr: "cash",
		},
		{
			name: "duplicate",
			alloc: Allocation{
				{Asset: "equities", Fraction: Q(0.5)},
				{Asset: "equities", Fraction: Q(0.5)},
			},
			wantErr: "duplicate",
		},
		{
			name: "negative fraction",
			alloc: Allocation{
				{Asset: "equities", Fraction: Q(1.2)},
				{Asset: "bonds", Fraction: Q(-0.2)},
			},
			wantErr: "negative",
		},
		{
			name: "does not sum to one",
			alloc: Allocation{
				{Asset: "equities", Fraction: Q(0.6)},
				{Asset: "bonds", Fraction: Q(0.3)},
			},
			wantErr: "sum",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.alloc.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func fixtureStore() *Store {
	return &Store{
		Accounts: []Account{
			{Key: "tax", Name: "Brokerage", Taxable: true, Active: true},
			{Key: "ira", Name: "IRA", Active: true},
		},
		Assets: []AssetClass{
			{Key: "equities"},
			{Key: "bonds"},
		},
		Securities: []Security{
			{Ticker: "vti", Asset: "equities", Price: USD(100)},
			{Ticker: "bnd", Asset: "bonds", Price: USD(50)},
		},
		Lots: []TaxLot{
			{Account: "tax", Security: "vti", LotID: "vti-1", Shares: Q(80), ShareBasis: USD(50)},
			{Account: "ira", Security: "bnd", LotID: "bnd-1", Shares: Q(40), ShareBasis: USD(55)},
		},
		Allocation: Allocation{
			{Asset: "equities", Fraction: Q(0.6)},
			{Asset: "bonds", Fraction: Q(0.4)},
		},
	}
}

func TestStore_Validate(t *testing.T) {
	if err := fixtureStore().Validate(); err != nil {
		t.Fatalf("Validate() error = %v on a well-formed store", err)
	}
}

func TestStore_Validate_UndeclaredSecurityClass(t *testing.T) {
	s := fixtureStore()
	s.Securities = append(s.Securities, Security{Ticker: "gld", Asset: "commodities", Price: USD(200)})
	var notFound *AssetClassNotFoundError
	if err := s.Validate(); !errors.As(err, &notFound) {
		t.Fatalf("Validate() error = %v, want *AssetClassNotFoundError", err)
	}
}

func TestStore_Validate_CashSecurityNeedsNoClass(t *testing.T) {
	s := fixtureStore()
	s.Securities = append(s.Securities, Security{Ticker: "mmf", Asset: Cash, Price: USD(1)})
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() error = %v, cash-equivalents need no declared class", err)
	}
}

func TestStore_Validate_UnknownLotSecurity(t *testing.T) {
	s := fixtureStore()
	s.Lots = append(s.Lots, TaxLot{Account: "tax", Security: "xyz", LotID: "x-1", Shares: Q(1)})
	if err := s.Validate(); err == nil || !strings.Contains(err.Error(), "unknown security") {
		t.Errorf("Validate() error = %v, want unknown security", err)
	}
}

func TestStore_Validate_ZeroShareLot(t *testing.T) {
	s := fixtureStore()
	s.Lots = append(s.Lots, TaxLot{Account: "tax", Security: "vti", LotID: "z-1"})
	if err := s.Validate(); err == nil || !strings.Contains(err.Error(), "zero share") {
		t.Errorf("Validate() error = %v, want zero share count", err)
	}
}

func TestStore_Validate_UndeclaredAllocationTarget(t *testing.T) {
	s := fixtureStore()
	s.Allocation = Allocation{
		{Asset: "equities", Fraction: Q(0.6)},
		{Asset: "crypto", Fraction: Q(0.4)},
	}
	var notFound *AssetClassNotFoundError
	if err := s.Validate(); !errors.As(err, &notFound) {
		t.Fatalf("Validate() error = %v, want *AssetClassNotFoundError", err)
	}
	if notFound.Key != "crypto" {
		t.Errorf("missing key = %q, want crypto", notFound.Key)
	}
}

func TestAllocation_Fraction(t *testing.T) {
	alloc := Allocation{{Asset: "equities", Fraction: Q(0.6)}}
	if f, ok := alloc.Fraction("equities"); !ok || !f.Equal(Q(0.6)) {
		t.Errorf("Fraction(equities) = %s, %v, want 0.6, true", f, ok)
	}
	if _, ok := alloc.Fraction("bonds"); ok {
		t.Error("Fraction(bonds) found an untargeted class")
	}
}
