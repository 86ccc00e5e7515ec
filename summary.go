package rebalance

import (
	"cmp"
	"maps"
	"slices"
)

// SecurityMap indexes securities by ticker.
type SecurityMap map[SecurityKey]Security

// AccountMap indexes accounts by key.
type AccountMap map[AccountKey]Account

// ValuedLot is a tax lot priced against its security: the raw lot plus its
// computed present value and cost basis.
type ValuedLot struct {
	Lot          TaxLot
	PresentValue Money
	CostBasis    Money
}

// GainLoss returns the embedded gain (positive) or loss (negative) of the lot.
func (v ValuedLot) GainLoss() Money { return v.PresentValue.Sub(v.CostBasis) }

// HoldingsSummary aggregates a set of tax lots.
type HoldingsSummary struct {
	PresentValue Money
	CostBasis    Money
	Count        int
	Shares       map[SecurityKey]Quantity
	// Lots are kept ordered ascending by per-lot gain/loss, so that the
	// liquidation selector realizes losses first. Downstream code relies on
	// this order and must not re-sort.
	Lots []ValuedLot
}

// UnrealizedGain returns the embedded gain of the summary, floored at zero.
func (s *HoldingsSummary) UnrealizedGain() Money {
	gain := s.PresentValue.Sub(s.CostBasis)
	if gain.IsNegative() {
		return M(0, gain.Currency())
	}
	return gain
}

func (s *HoldingsSummary) add(v ValuedLot) {
	s.PresentValue = s.PresentValue.Add(v.PresentValue)
	s.CostBasis = s.CostBasis.Add(v.CostBasis)
	s.Count++
	if s.Shares == nil {
		s.Shares = make(map[SecurityKey]Quantity)
	}
	s.Shares[v.Lot.Security] = s.Shares[v.Lot.Security].Add(v.Lot.Shares)
	s.Lots = append(s.Lots, v)
}

// merge folds another summary into this one (rollup support).
func (s *HoldingsSummary) merge(o *HoldingsSummary) {
	s.PresentValue = s.PresentValue.Add(o.PresentValue)
	s.CostBasis = s.CostBasis.Add(o.CostBasis)
	s.Count += o.Count
	if s.Shares == nil {
		s.Shares = make(map[SecurityKey]Quantity)
	}
	for ticker, shares := range o.Shares {
		s.Shares[ticker] = s.Shares[ticker].Add(shares)
	}
	s.Lots = append(s.Lots, o.Lots...)
	s.sortLots()
}

// sortLots restores the ascending gain/loss order, with ties broken by
// account, security and lot id to keep results reproducible.
func (s *HoldingsSummary) sortLots() {
	slices.SortFunc(s.Lots, func(a, b ValuedLot) int {
		if c := a.GainLoss().Cmp(b.GainLoss()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Lot.Account, b.Lot.Account); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Lot.Security, b.Lot.Security); c != 0 {
			return c
		}
		return cmp.Compare(a.Lot.LotID, b.Lot.LotID)
	})
}

// SummaryMap groups holdings summaries by asset class.
type SummaryMap map[AssetClassKey]*HoldingsSummary

// AccountSummaryMap groups per-asset-class summaries by account.
type AccountSummaryMap map[AccountKey]SummaryMap

// TotalPresentValue sums the present value of all summaries.
func (m SummaryMap) TotalPresentValue() Money {
	var total Money
	for _, k := range sortedKeys(m) {
		total = total.Add(m[k].PresentValue)
	}
	return total
}

// value prices a lot against its security. ok is false when the lot must be
// skipped: unknown security, unknown price (present value not positive), or
// an invalid asset class.
func value(lot TaxLot, securities SecurityMap) (v ValuedLot, ok bool) {
	sec, found := securities[lot.Security]
	if !found || sec.Asset == "" {
		return ValuedLot{}, false
	}
	pv := sec.Price.Mul(lot.Shares)
	if !pv.IsPositive() {
		return ValuedLot{}, false
	}
	return ValuedLot{Lot: lot, PresentValue: pv, CostBasis: lot.CostBasis()}, true
}

// AssetSummaryMap groups tax lots by asset class (through each lot's
// security), producing one HoldingsSummary per class. Lots whose security is
// missing, whose present value is not positive, or whose asset class is
// invalid are skipped. An absent cost basis counts as zero.
func AssetSummaryMap(lots []TaxLot, securities SecurityMap) SummaryMap {
	m := make(SummaryMap)
	for _, lot := range lots {
		v, ok := value(lot, securities)
		if !ok {
			continue
		}
		asset := securities[lot.Security].Asset
		summary, found := m[asset]
		if !found {
			summary = &HoldingsSummary{}
			m[asset] = summary
		}
		summary.add(v)
	}
	for _, summary := range m {
		summary.sortLots()
	}
	return m
}

// AccountAssetSummaryMap is the per-account variant of AssetSummaryMap.
func AccountAssetSummaryMap(lots []TaxLot, securities SecurityMap) AccountSummaryMap {
	byAccount := make(map[AccountKey][]TaxLot)
	for _, lot := range lots {
		byAccount[lot.Account] = append(byAccount[lot.Account], lot)
	}
	am := make(AccountSummaryMap, len(byAccount))
	for account, own := range byAccount {
		am[account] = AssetSummaryMap(own, securities)
	}
	return am
}

// TickerShareMap totals held shares per security, for security-level
// wash-sale lookups.
func TickerShareMap(lots []TaxLot) map[SecurityKey]Quantity {
	m := make(map[SecurityKey]Quantity)
	for _, lot := range lots {
		m[lot.Security] = m[lot.Security].Add(lot.Shares)
	}
	return m
}

// TickerSummaryMap groups lots by security instead of asset class.
func TickerSummaryMap(lots []TaxLot, securities SecurityMap) map[SecurityKey]*HoldingsSummary {
	m := make(map[SecurityKey]*HoldingsSummary)
	for _, lot := range lots {
		v, ok := value(lot, securities)
		if !ok {
			continue
		}
		summary, found := m[lot.Security]
		if !found {
			summary = &HoldingsSummary{}
			m[lot.Security] = summary
		}
		summary.add(v)
	}
	for _, summary := range m {
		summary.sortLots()
	}
	return m
}

// sortedKeys returns the map keys in sorted order. All grouping iteration in
// the engine goes through explicit sort keys: map iteration order must never
// leak into results.
func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := slices.Collect(maps.Keys(m))
	slices.Sort(keys)
	return keys
}
