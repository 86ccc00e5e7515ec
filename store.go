package rebalance

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// allocationEpsilon is the tolerance when checking that fractions sum to 1.
var allocationEpsilon = decimal.New(1, -4)

// AllocationSlice is one target of the desired allocation: an asset class
// and the fraction of the total portfolio value it should hold.
type AllocationSlice struct {
	Asset    AssetClassKey
	Fraction Quantity
}

// Allocation is the user-specified target allocation, an ordered list of
// slices whose fractions sum to 1. Cash is excluded: the engine trades
// everything else and cash absorbs the difference.
type Allocation []AllocationSlice

// Validate checks the allocation for duplicate or negative slices, a cash
// slice, and fractions not summing to ~1.
func (a Allocation) Validate() error {
	if len(a) == 0 {
		return &AllocationError{Reason: "no slices"}
	}
	seen := make(map[AssetClassKey]bool, len(a))
	sum := decimal.Zero
	for _, slice := range a {
		if slice.Asset.IsCash() {
			return &AllocationError{Key: slice.Asset, Reason: "cash cannot be an allocation target"}
		}
		if seen[slice.Asset] {
			return &AllocationError{Key: slice.Asset, Reason: "duplicate slice"}
		}
		seen[slice.Asset] = true
		if slice.Fraction.IsNegative() {
			return &AllocationError{Key: slice.Asset, Reason: "negative fraction"}
		}
		sum = sum.Add(slice.Fraction.value)
	}
	if sum.Sub(decimal.New(1, 0)).Abs().GreaterThan(allocationEpsilon) {
		return &AllocationError{Reason: fmt.Sprintf("fractions sum to %s, want 1", sum)}
	}
	return nil
}

// Fraction returns the target fraction for an asset class, if any.
func (a Allocation) Fraction(k AssetClassKey) (Quantity, bool) {
	for _, slice := range a {
		if slice.Asset == k {
			return slice.Fraction, true
		}
	}
	return Quantity{}, false
}

// Targets returns the set of explicitly targeted asset classes. An explicit
// target is protected from being silently substituted away.
func (a Allocation) Targets() map[AssetClassKey]bool {
	targets := make(map[AssetClassKey]bool, len(a))
	for _, slice := range a {
		targets[slice.Asset] = true
	}
	return targets
}

// Store holds the ordered model lists a rebalance request computes from.
// It is a plain in-memory value: the engine itself never persists anything.
type Store struct {
	Accounts     []Account
	Assets       []AssetClass
	Securities   []Security
	Lots         []TaxLot
	Transactions []RecentTransaction
	Allocation   Allocation

	// Snapshots and Flows feed the performance report only; the rebalance
	// pipeline never reads them.
	Snapshots []AccountSnapshot
	Flows     []Cashflow
}

// AccountSnapshot is one observed account value, as recorded in the store.
type AccountSnapshot struct {
	Date    Date
	Account AccountKey
	Value   Money
}

// SnapshotSeries groups the store's snapshots by account, each series in
// date order.
func (s *Store) SnapshotSeries() map[AccountKey][]ValueSnapshot {
	series := make(map[AccountKey][]ValueSnapshot)
	for _, snap := range s.Snapshots {
		series[snap.Account] = append(series[snap.Account], ValueSnapshot{Date: snap.Date, Value: snap.Value})
	}
	for _, snaps := range series {
		slices.SortFunc(snaps, func(a, b ValueSnapshot) int {
			switch {
			case a.Date.Before(b.Date):
				return -1
			case a.Date.After(b.Date):
				return 1
			default:
				return 0
			}
		})
	}
	return series
}

// NewStore creates an empty model store.
func NewStore() *Store { return &Store{} }

// AccountMap indexes the store's accounts by key.
func (s *Store) AccountMap() AccountMap {
	m := make(AccountMap, len(s.Accounts))
	for _, a := range s.Accounts {
		m[a.Key] = a
	}
	return m
}

// SecurityMap indexes the store's securities by ticker.
func (s *Store) SecurityMap() SecurityMap {
	m := make(SecurityMap, len(s.Securities))
	for _, sec := range s.Securities {
		m[sec.Ticker] = sec
	}
	return m
}

// Hierarchy builds the asset hierarchy from the store's declared classes.
func (s *Store) Hierarchy() (*Hierarchy, error) {
	return NewHierarchy(s.Assets)
}

// Validate checks the structural integrity of the store: the hierarchy must
// build, every security must reference a declared asset class, every lot and
// transaction must reference a declared security, and the allocation must be
// well formed. These are fatal to a rebalance request; data-quality issues
// (like missing realized gains) are reported separately as warnings.
func (s *Store) Validate() error {
	hierarchy, err := s.Hierarchy()
	if err != nil {
		return err
	}
	securities := s.SecurityMap()

	for _, sec := range s.Securities {
		if sec.Asset.IsCash() {
			continue // cash-equivalents need no declared class
		}
		if !hierarchy.Has(sec.Asset) {
			return &AssetClassNotFoundError{Key: sec.Asset, Ref: fmt.Sprintf("security %q", sec.Ticker)}
		}
	}
	for _, lot := range s.Lots {
		if _, ok := securities[lot.Security]; !ok {
			return fmt.Errorf("lot %q references unknown security %q", lot.LotID, lot.Security)
		}
		if lot.Shares.IsZero() {
			return fmt.Errorf("lot %q has a zero share count", lot.LotID)
		}
	}
	for _, tx := range s.Transactions {
		if _, ok := securities[tx.Security]; !ok {
			return fmt.Errorf("transaction on %s references unknown security %q", tx.Date, tx.Security)
		}
	}
	if s.Allocation != nil {
		if err := s.Allocation.Validate(); err != nil {
			return err
		}
		for _, slice := range s.Allocation {
			if !hierarchy.Has(slice.Asset) {
				return &AssetClassNotFoundError{Key: slice.Asset, Ref: "allocation slice"}
			}
		}
	}
	return nil
}
