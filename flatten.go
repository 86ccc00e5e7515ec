package rebalance

// MRebalanceSale is one per-account, per-security, per-lot execution row of
// the trade plan.
type MRebalanceSale struct {
	Account      AccountKey
	Security     SecurityKey
	LotID        string
	Amount       Money
	Shares       Quantity
	LiquidateAll bool
}

// MRebalancePurchase is one per-account purchase execution row.
type MRebalancePurchase struct {
	Account AccountKey
	Asset   AssetClassKey
	Amount  Money
}

// FlattenSales expands asset-class-level sales into execution rows, one row
// per (Sale, LiquidateHolding) pair. Pure data reshaping, no policy.
func FlattenSales(sales []Sale) []MRebalanceSale {
	var rows []MRebalanceSale
	for _, sale := range sales {
		for _, l := range sale.Liquidations {
			rows = append(rows, MRebalanceSale{
				Account:      l.Holding.Lot.Account,
				Security:     l.Holding.Lot.Security,
				LotID:        l.Holding.Lot.LotID,
				Amount:       l.Proceeds(),
				Shares:       l.Shares(),
				LiquidateAll: l.LiquidateAll(),
			})
		}
	}
	return rows
}

// FlattenPurchases expands purchases into execution rows, one row per
// (account, Purchase) pair.
func FlattenPurchases(accounts []AccountKey, purchases []Purchase) []MRebalancePurchase {
	var rows []MRebalancePurchase
	for _, account := range accounts {
		for _, p := range purchases {
			rows = append(rows, MRebalancePurchase{
				Account: account,
				Asset:   p.Asset,
				Amount:  p.Amount,
			})
		}
	}
	return rows
}
