package rebalance

// RebalanceMap is the signed dollar delta per asset class: positive means
// buy, negative means sell. The cash class never appears, and residuals
// below one cent are dropped.
type RebalanceMap map[AssetClassKey]Money

// NewRebalanceMap computes target minus current per asset class.
//
// Each allocation slice contributes target_i = fraction_i x totalPV minus the
// class's current present value; classes that are held but not targeted
// contribute their full present value as a sale.
func NewRebalanceMap(alloc Allocation, current SummaryMap, totalPV Money) RebalanceMap {
	m := make(RebalanceMap)
	for _, slice := range alloc {
		target := totalPV.Mul(slice.Fraction)
		var cur Money
		if summary, ok := current[slice.Asset]; ok {
			cur = summary.PresentValue
		}
		m.set(slice.Asset, target.Sub(cur))
	}
	targets := alloc.Targets()
	for _, asset := range sortedKeys(current) {
		if targets[asset] {
			continue
		}
		m.set(asset, current[asset].PresentValue.Neg())
	}
	return m
}

// set stores a delta, dropping the cash class and sub-cent residuals.
func (m RebalanceMap) set(asset AssetClassKey, delta Money) {
	if asset.IsCash() || delta.UnderCent() {
		delete(m, asset)
		return
	}
	m[asset] = delta
}

// substitution is one eligible related-asset fold: the eliminated class's
// delta is absorbed by the kept class.
type substitution struct {
	eliminated, kept AssetClassKey
}

// SubstituteRelated folds deltas between directly related asset classes to
// avoid needless trades: when the map simultaneously sells class X and buys
// class Y, and one is the direct parent of the other (substitution never
// crosses more than one hierarchy level), the smaller-magnitude delta is
// reduced to zero and the larger adjusted by the same amount.
//
// A class named as an explicit allocation target is protected: it is never
// the one eliminated. When several pairs are simultaneously eligible, the
// pair whose eliminated class carries the largest embedded unrealized gain
// goes first (preserving tax-loss positions), with key order as the final
// tie-break. Substitution repeats until no eligible pair remains.
func (m RebalanceMap) SubstituteRelated(h *Hierarchy, targets map[AssetClassKey]bool, current SummaryMap) {
	for {
		sub, ok := m.nextSubstitution(h, targets, current)
		if !ok {
			return
		}
		m.set(sub.kept, m[sub.kept].Add(m[sub.eliminated]))
		delete(m, sub.eliminated)
	}
}

func (m RebalanceMap) nextSubstitution(h *Hierarchy, targets map[AssetClassKey]bool, current SummaryMap) (substitution, bool) {
	gain := func(k AssetClassKey) Money {
		if summary, ok := current[k]; ok {
			return summary.UnrealizedGain()
		}
		return Money{}
	}

	var best substitution
	found := false
	better := func(c substitution) bool {
		if !found {
			return true
		}
		if by := gain(c.eliminated).Cmp(gain(best.eliminated)); by != 0 {
			return by > 0
		}
		if c.eliminated != best.eliminated {
			return c.eliminated < best.eliminated
		}
		return c.kept < best.kept
	}

	keys := sortedKeys(m)
	for _, x := range keys {
		for _, y := range keys {
			if x == y || !h.IsAdjacent(x, y) {
				continue
			}
			// one sells while the other buys
			if m[x].IsNegative() == m[y].IsNegative() {
				continue
			}
			eliminated, kept := x, y
			if m[x].Abs().GreaterThan(m[y].Abs()) {
				eliminated, kept = y, x
			}
			if targets[eliminated] {
				continue
			}
			if c := (substitution{eliminated: eliminated, kept: kept}); better(c) {
				best, found = c, true
			}
		}
	}
	return best, found
}
