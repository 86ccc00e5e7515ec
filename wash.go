package rebalance

import "slices"

// This file implements the IRS wash-sale disallowance arithmetic.
//
// The two calculators deliberately use asymmetric sign conventions, matching
// how the amounts are disclosed: the purchase-side wash is signed (negative,
// a disallowed loss attached to a buy), the sale-side wash is an unsigned
// magnitude (the disallowed dollar loss of the sale). Do not unify them
// without re-deriving every call site.

// PurchaseInfo summarizes one recent acquisition for the sale-side
// calculator: a signed share count (negative entries account for shares
// since shed from that recent lot) and the basis per share.
type PurchaseInfo struct {
	Shares     Quantity
	ShareBasis Money
}

// Amount returns the signed dollar basis of the entry.
func (p PurchaseInfo) Amount() Money { return p.ShareBasis.Mul(p.Shares) }

// PurchaseWash computes the disallowed amount when buying back into a
// security with recent realized losses.
//
// netLoss is the sum of recorded realized gains over the relevant recent
// transactions; absent figures contribute zero, never an error. When the net
// is a loss, the wash is that loss clamped so its magnitude cannot exceed
// the repurchase: max(netLoss, -buyAmount). The result is signed and
// negative; no loss means zero.
func PurchaseWash(recent []RecentTransaction, buyAmount Money) Money {
	var netLoss Money
	for _, tx := range recent {
		netLoss = netLoss.Add(tx.RealizedGain())
	}
	if !netLoss.IsNegative() {
		return Money{}
	}
	return netLoss.Max(buyAmount.Neg())
}

// SaleWash computes the disallowed dollar loss of a sale that follows recent
// acquisitions of the same (or a substantially identical) security.
//
// recentPurchaseAmount is the net dollar basis of the recent acquisitions,
// floored at zero. When the sale realizes a net loss, the wash is
// min(|netGainLoss|, recentPurchaseAmount), returned as a magnitude; a net
// gain washes nothing.
func SaleWash(recentPurchases []PurchaseInfo, netGainLoss Money) Money {
	if !netGainLoss.IsNegative() {
		return Money{}
	}
	var recentPurchaseAmount Money
	for _, p := range recentPurchases {
		recentPurchaseAmount = recentPurchaseAmount.Add(p.Amount())
	}
	if recentPurchaseAmount.IsNegative() {
		recentPurchaseAmount = Money{}
	}
	return netGainLoss.Abs().Min(recentPurchaseAmount)
}

// Equivalents returns the tickers substantially identical to t for wash
// purposes: t itself, plus every security replicating the same tracker
// index. The result is in key order.
func (securities SecurityMap) Equivalents(t SecurityKey) []SecurityKey {
	set := map[SecurityKey]bool{t: true}
	if sec, ok := securities[t]; ok && sec.Tracker != "" {
		for ticker, other := range securities {
			if other.Tracker == sec.Tracker {
				set[ticker] = true
			}
		}
	}
	return sortedKeys(set)
}

// WashAmount consolidates the recent-purchases map across tracker-equivalent
// securities of everything this sale sheds, then delegates to SaleWash.
// The result is an unsigned magnitude.
func (s Sale) WashAmount(recentPurchases map[SecurityKey][]PurchaseInfo, securities SecurityMap) Money {
	var consolidated []PurchaseInfo
	seen := make(map[SecurityKey]bool)
	for _, ticker := range s.Tickers() {
		for _, eq := range securities.Equivalents(ticker) {
			if seen[eq] {
				continue
			}
			seen[eq] = true
			consolidated = append(consolidated, recentPurchases[eq]...)
		}
	}
	return SaleWash(consolidated, s.NetGainLoss())
}

// WashAmount consolidates recent sale transactions across the purchased
// asset class's securities and their tracker equivalents, then delegates to
// PurchaseWash. The result is signed (negative or zero).
func (p Purchase) WashAmount(assetSellTxns map[SecurityKey][]RecentTransaction, securities SecurityMap) Money {
	var consolidated []RecentTransaction
	seen := make(map[SecurityKey]bool)
	for _, ticker := range sortedKeys(securities) {
		if securities[ticker].Asset != p.Asset {
			continue
		}
		for _, eq := range securities.Equivalents(ticker) {
			if seen[eq] {
				continue
			}
			seen[eq] = true
			consolidated = append(consolidated, assetSellTxns[eq]...)
		}
	}
	return PurchaseWash(consolidated, p.Amount)
}

// RecentPurchasesMap collects, per security, the acquisition entries inside
// the lookback window, as consumed by the sale-side calculator. Sales inside
// the window appear as negative entries, shedding basis from the recent
// lots.
func RecentPurchasesMap(txns []RecentTransaction, window Range) map[SecurityKey][]PurchaseInfo {
	m := make(map[SecurityKey][]PurchaseInfo)
	for _, tx := range txns {
		if !window.Contains(tx.Date) {
			continue
		}
		m[tx.Security] = append(m[tx.Security], PurchaseInfo{Shares: tx.Shares, ShareBasis: tx.SharePrice})
	}
	return m
}

// SellTxnsMap collects, per security, the sale transactions inside the
// lookback window, as consumed by the purchase-side calculator.
func SellTxnsMap(txns []RecentTransaction, window Range) map[SecurityKey][]RecentTransaction {
	m := make(map[SecurityKey][]RecentTransaction)
	for _, tx := range txns {
		if !window.Contains(tx.Date) || !tx.IsSale() {
			continue
		}
		m[tx.Security] = append(m[tx.Security], tx)
	}
	return m
}

// NeedsRealizedGain flags the sale transactions whose wash-sale evidence is
// incomplete: inside the lookback window starting at cutoff, in a taxable
// and active account, for a non-cash security, with neither realized-gain
// figure recorded. Such records must be completed before wash results can be
// trusted; they are reported, never silently defaulted.
func NeedsRealizedGain(txns []RecentTransaction, cutoff Date, securities SecurityMap, accounts AccountMap) []RecentTransaction {
	var flagged []RecentTransaction
	for _, tx := range txns {
		if !tx.IsSale() || tx.HasRealizedGain() {
			continue
		}
		if tx.Date.Before(cutoff) {
			continue
		}
		account, ok := accounts[tx.Account]
		if !ok || !account.Taxable || !account.Active {
			continue
		}
		sec, ok := securities[tx.Security]
		if !ok || sec.Asset.IsCash() {
			continue
		}
		flagged = append(flagged, tx)
	}
	slices.SortFunc(flagged, func(a, b RecentTransaction) int {
		if a.Date.Before(b.Date) {
			return -1
		}
		if a.Date.After(b.Date) {
			return 1
		}
		if a.Security != b.Security {
			if a.Security < b.Security {
				return -1
			}
			return 1
		}
		return 0
	})
	return flagged
}
