package rebalance

import (
	"cmp"
	"slices"
)

// Purchase is the buy order for one asset class.
type Purchase struct {
	Asset  AssetClassKey
	Amount Money // always positive
	// Wash is the re-triggered disallowance of this purchase (signed,
	// negative or zero), filled by BuildPlan. See Purchase.WashAmount.
	Wash Money
}

// Purchases selects every positive, non-cash delta of at least one cent and
// returns the orders sorted descending by amount, largest buy first. The
// ordering is a trade-execution policy, ties fall back to key order.
func Purchases(m RebalanceMap) []Purchase {
	var purchases []Purchase
	for _, asset := range sortedKeys(m) {
		amount := m[asset]
		if asset.IsCash() || !amount.IsPositive() || amount.UnderCent() {
			continue
		}
		purchases = append(purchases, Purchase{Asset: asset, Amount: amount})
	}
	slices.SortFunc(purchases, func(a, b Purchase) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Asset, b.Asset)
	})
	return purchases
}
