package rebalance

// LiquidateHolding is one lot picked for (possibly partial) liquidation.
type LiquidateHolding struct {
	Holding  ValuedLot
	Fraction Quantity // in (0, 1]; 1 liquidates the whole lot
}

// LiquidateAll reports whether the whole lot is sold.
func (l LiquidateHolding) LiquidateAll() bool { return l.Fraction.Equal(One) }

// Proceeds returns the dollar value of the sold fraction.
func (l LiquidateHolding) Proceeds() Money { return l.Holding.PresentValue.Mul(l.Fraction) }

// Shares returns the number of shares sold.
func (l LiquidateHolding) Shares() Quantity { return l.Holding.Lot.Shares.Mul(l.Fraction) }

// GainLoss returns the realized gain or loss of the sold fraction.
func (l LiquidateHolding) GainLoss() Money { return l.Holding.GainLoss().Mul(l.Fraction) }

// Liquidations greedily consumes lots, in the order given, until the target
// amount is raised.
//
// The lot order is the one established by the holdings aggregator (ascending
// per-lot gain/loss, so losses are realized first); it is an upstream
// contract and is not re-sorted here. Each lot is consumed fully while its
// value fits in the remaining target; the last lot is consumed fractionally.
// Dust avoidance: when selling a lot fully instead of partially would leave
// an unconsumed remainder worth no more than minimumAmount, the fraction is
// extended to 1 rather than leaving a sub-threshold orphan position.
//
// The returned remainder is zero when the target was fully raised, and the
// unmet amount when holdings were insufficient; that is reported, not an
// error.
func Liquidations(lots []ValuedLot, target Money, minimumAmount Money) (list []LiquidateHolding, remainder Money) {
	remaining := target
	for _, holding := range lots {
		if !remaining.IsPositive() {
			break
		}
		if holding.PresentValue.LessThanOrEqual(remaining) {
			list = append(list, LiquidateHolding{Holding: holding, Fraction: One})
			remaining = remaining.Sub(holding.PresentValue)
			continue
		}
		leftover := holding.PresentValue.Sub(remaining)
		if leftover.LessThanOrEqual(minimumAmount) {
			// selling the whole lot beats leaving a dust position
			list = append(list, LiquidateHolding{Holding: holding, Fraction: One})
		} else {
			list = append(list, LiquidateHolding{Holding: holding, Fraction: remaining.DivPrice(holding.PresentValue)})
		}
		remaining = Money{}
	}
	if remaining.IsNegative() {
		remaining = Money{}
	}
	return list, remaining
}

// Sale is the liquidation order for one asset class.
type Sale struct {
	Asset        AssetClassKey
	Amount       Money // target dollar amount to raise
	Liquidations []LiquidateHolding
	Remainder    Money // unmet part of Amount, zero when fully satisfied
	// Wash is the disallowed dollar loss of this sale (unsigned magnitude),
	// filled by BuildPlan. See Sale.WashAmount.
	Wash Money
}

// Proceeds returns the total dollar value raised by the sale.
func (s Sale) Proceeds() Money {
	var total Money
	for _, l := range s.Liquidations {
		total = total.Add(l.Proceeds())
	}
	return total
}

// NetGainLoss returns the sum of fractional gains and losses realized.
func (s Sale) NetGainLoss() Money {
	var total Money
	for _, l := range s.Liquidations {
		total = total.Add(l.GainLoss())
	}
	return total
}

// AbsoluteGains sums only the positive fractional gains.
func (s Sale) AbsoluteGains() Money {
	var total Money
	for _, l := range s.Liquidations {
		if gain := l.GainLoss(); gain.IsPositive() {
			total = total.Add(gain)
		}
	}
	return total
}

// Tickers returns the distinct securities sold, in key order.
func (s Sale) Tickers() []SecurityKey {
	set := make(map[SecurityKey]bool)
	for _, l := range s.Liquidations {
		set[l.Holding.Lot.Security] = true
	}
	return sortedKeys(set)
}

// Sales builds one Sale per asset class with a negative delta, in asset key
// order.
//
// The cash class is never sold; deltas under one cent and, when minimumSale
// is set, sales smaller than it are skipped, as are classes with no valued
// holdings. minimumSale also serves as the dust-avoidance threshold inside
// each liquidation.
func Sales(m RebalanceMap, holdings SummaryMap, minimumSale Money) []Sale {
	var sales []Sale
	for _, asset := range sortedKeys(m) {
		delta := m[asset]
		if asset.IsCash() || !delta.IsNegative() || delta.UnderCent() {
			continue
		}
		amount := delta.Neg()
		if amount.LessThan(minimumSale) {
			continue
		}
		summary, ok := holdings[asset]
		if !ok || len(summary.Lots) == 0 {
			continue
		}
		list, remainder := Liquidations(summary.Lots, amount, minimumSale)
		sales = append(sales, Sale{
			Asset:        asset,
			Amount:       amount,
			Liquidations: list,
			Remainder:    remainder,
		})
	}
	return sales
}
