package rebalance

import "testing"

// valuedLot is a test shortcut: a lot of 'shares' shares valued at 'pv' total
// with basis 'basis' total.
func valuedLot(id string, shares float64, pv, basis Money) ValuedLot {
	return ValuedLot{
		Lot:          TaxLot{Account: "ira", Security: "vti", LotID: id, Shares: Q(shares)},
		PresentValue: pv,
		CostBasis:    basis,
	}
}

func TestLiquidations(t *testing.T) {
	lots := []ValuedLot{
		valuedLot("l1", 1, USD(1.0), USD(1.0)),
		valuedLot("l2", 2, USD(2.0), USD(2.0)),
	}

	list, remainder := Liquidations(lots, USD(2.0), Money{})

	if len(list) != 2 {
		t.Fatalf("Liquidations() picked %d lots, want 2", len(list))
	}
	if !list[0].Fraction.Equal(One) || !list[0].LiquidateAll() {
		t.Errorf("first lot fraction = %s, want 1", list[0].Fraction)
	}
	if !list[1].Fraction.Equal(Q(0.5)) {
		t.Errorf("second lot fraction = %s, want 0.5", list[1].Fraction)
	}
	if !list[1].Proceeds().Equal(USD(1.0)) {
		t.Errorf("second lot proceeds = %s, want %s", list[1].Proceeds(), USD(1.0))
	}
	if !list[1].Shares().Equal(Q(1)) {
		t.Errorf("second lot shares = %s, want 1", list[1].Shares())
	}
	if !remainder.IsZero() {
		t.Errorf("remainder = %s, want zero", remainder)
	}
}

func TestLiquidations_DustAvoidance(t *testing.T) {
	lots := []ValuedLot{valuedLot("l1", 2, USD(2.0), USD(2.0))}

	// a partial sale would leave a $0.10 orphan, under the $0.20 threshold:
	// the whole lot goes instead
	list, remainder := Liquidations(lots, USD(1.90), USD(0.20))
	if len(list) != 1 || !list[0].LiquidateAll() {
		t.Fatalf("Liquidations() = %v, want one full liquidation", list)
	}
	if !remainder.IsZero() {
		t.Errorf("remainder = %s, want zero", remainder)
	}

	// a comfortable leftover stays partial
	list, _ = Liquidations(lots, USD(1.0), USD(0.20))
	if len(list) != 1 || list[0].LiquidateAll() {
		t.Fatalf("Liquidations() = %v, want one partial liquidation", list)
	}
	if !list[0].Fraction.Equal(Q(0.5)) {
		t.Errorf("fraction = %s, want 0.5", list[0].Fraction)
	}
}

func TestLiquidations_Insufficient(t *testing.T) {
	lots := []ValuedLot{
		valuedLot("l1", 1, USD(1.0), USD(1.0)),
		valuedLot("l2", 2, USD(2.0), USD(2.0)),
	}
	list, remainder := Liquidations(lots, USD(5.0), Money{})
	if len(list) != 2 {
		t.Fatalf("Liquidations() picked %d lots, want all 2", len(list))
	}
	if !remainder.Equal(USD(2.0)) {
		t.Errorf("remainder = %s, want %s", remainder, USD(2.0))
	}
}

func TestSale_Aggregates(t *testing.T) {
	s := Sale{
		Asset:  "equities",
		Amount: USD(150),
		Liquidations: []LiquidateHolding{
			{Holding: valuedLot("l1", 1, USD(100), USD(120)), Fraction: One},    // loss -20
			{Holding: valuedLot("l2", 1, USD(100), USD(40)), Fraction: Q(0.5)}, // gain +30
		},
	}
	if !s.Proceeds().Equal(USD(150)) {
		t.Errorf("Proceeds() = %s, want %s", s.Proceeds(), USD(150))
	}
	if !s.NetGainLoss().Equal(USD(10)) {
		t.Errorf("NetGainLoss() = %s, want %s", s.NetGainLoss(), USD(10))
	}
	if !s.AbsoluteGains().Equal(USD(30)) {
		t.Errorf("AbsoluteGains() = %s, want %s", s.AbsoluteGains(), USD(30))
	}
}

func TestSales(t *testing.T) {
	holdings := SummaryMap{
		"equities": {
			PresentValue: USD(3000),
			Lots:         []ValuedLot{valuedLot("l1", 30, USD(3000), USD(2000))},
		},
		"gold": {
			PresentValue: USD(100),
			Lots:         []ValuedLot{valuedLot("g1", 1, USD(100), USD(100))},
		},
	}
	m := RebalanceMap{
		"equities": USD(-1000),
		"gold":     USD(-30), // below the minimum sale size
		"bonds":    USD(500), // a buy, not a sale
		Cash:       USD(-200),
	}

	sales := Sales(m, holdings, USD(50))

	if len(sales) != 1 {
		t.Fatalf("Sales() produced %d sales, want 1: %v", len(sales), sales)
	}
	if sales[0].Asset != "equities" {
		t.Errorf("sale asset = %s, want equities", sales[0].Asset)
	}
	if !sales[0].Amount.Equal(USD(1000)) {
		t.Errorf("sale amount = %s, want %s", sales[0].Amount, USD(1000))
	}
	if !sales[0].Remainder.IsZero() {
		t.Errorf("sale remainder = %s, want zero", sales[0].Remainder)
	}
}

func TestSales_NoHoldings(t *testing.T) {
	m := RebalanceMap{"equities": USD(-1000)}
	if sales := Sales(m, SummaryMap{}, Money{}); len(sales) != 0 {
		t.Errorf("Sales() sold a class with no holdings: %v", sales)
	}
}
