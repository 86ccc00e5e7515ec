package rebalance

import (
	"fmt"
	"slices"
)

// DefaultLookbackDays is the usual IRS wash-sale lookback window.
const DefaultLookbackDays = 30

// PlanOptions configures a rebalance request.
type PlanOptions struct {
	// Cutoff is "now" for the wash-sale lookback. Zero means today. The
	// engine itself never reads the wall clock elsewhere.
	Cutoff Date
	// LookbackDays is the length of the wash-sale window; zero means
	// DefaultLookbackDays.
	LookbackDays int
	// MinimumSale skips sales below this size and doubles as the
	// dust-avoidance threshold inside each liquidation.
	MinimumSale Money
	// PreserveZero keeps fully netted entries at 0.0 in the residual map,
	// to show classes considered but not traded.
	PreserveZero bool
	// Order is the total order over asset-class keys used for netting
	// tie-breaks. Nil means plain key order.
	Order func(a, b AssetClassKey) int
}

// WarningCode classifies a data-quality warning.
type WarningCode string

const (
	// WarnNeedsRealizedGain flags a taxable sale inside the lookback window
	// with no realized-gain record: wash results cannot be trusted until it
	// is completed.
	WarnNeedsRealizedGain WarningCode = "needs-realized-gain"
	// WarnUnmetSale flags a sale target the holdings could not fully raise.
	WarnUnmetSale WarningCode = "unmet-sale"
)

// Warning is a non-fatal data-quality issue, collected and returned
// alongside the still-computed plan: a rebalance plan is useful pending data
// cleanup.
type Warning struct {
	Code    WarningCode
	Message string
}

func (w Warning) String() string { return fmt.Sprintf("%s: %s", w.Code, w.Message) }

// Plan is the full result of a rebalance request, with the intermediate maps
// kept for display and audit.
type Plan struct {
	Window     Range // wash-sale lookback window
	TotalValue Money // portfolio present value the targets were computed from

	// Deltas is the target-minus-current map after related-asset
	// substitution, before netting.
	Deltas RebalanceMap
	// Reducers records the amounts netted between related classes.
	Reducers ReducerMap
	// Residual is what is actually left to trade after netting.
	Residual RebalanceMap

	Sales     []Sale
	Purchases []Purchase

	// Flattened execution rows.
	SaleRows     []MRebalanceSale
	PurchaseRows []MRebalancePurchase

	Warnings []Warning
}

// BuildPlan computes the minimal tax-aware trade plan for the store's target
// allocation.
//
// The whole pipeline is a pure function of the store and options: aggregate
// holdings, compute deltas, substitute related classes, net opposing trades,
// select liquidations, emit purchases, annotate wash-sale amounts, and
// flatten to execution rows. Structural errors abort; data-quality issues
// are collected into Plan.Warnings.
func BuildPlan(store *Store, opts PlanOptions) (*Plan, error) {
	if err := store.Validate(); err != nil {
		return nil, err
	}
	hierarchy, err := store.Hierarchy()
	if err != nil {
		return nil, err
	}
	securities := store.SecurityMap()
	accounts := store.AccountMap()

	cutoff := opts.Cutoff
	if cutoff.IsZero() {
		cutoff = Today()
	}
	lookback := opts.LookbackDays
	if lookback == 0 {
		lookback = DefaultLookbackDays
	}
	window := Lookback(cutoff, lookback)

	summaries := AssetSummaryMap(store.Lots, securities)
	totalValue := summaries.TotalPresentValue()

	deltas := NewRebalanceMap(store.Allocation, summaries, totalValue)
	deltas.SubstituteRelated(hierarchy, store.Allocation.Targets(), summaries)

	reducers := GenerateReducerMap(deltas, hierarchy.Relations(), opts.Order)
	residual := ApplyReducerMap(deltas, reducers, opts.PreserveZero)

	sales := Sales(residual, summaries, opts.MinimumSale)
	purchases := Purchases(residual)

	recentPurchases := RecentPurchasesMap(store.Transactions, window)
	sellTxns := SellTxnsMap(store.Transactions, window)
	for i := range sales {
		sales[i].Wash = sales[i].WashAmount(recentPurchases, securities)
	}
	for i := range purchases {
		purchases[i].Wash = purchases[i].WashAmount(sellTxns, securities)
	}

	plan := &Plan{
		Window:     window,
		TotalValue: totalValue,
		Deltas:     deltas,
		Reducers:   reducers,
		Residual:   residual,
		Sales:      sales,
		Purchases:  purchases,
		SaleRows:   FlattenSales(sales),
	}

	var active []AccountKey
	for _, k := range sortedKeys(accounts) {
		if accounts[k].Active {
			active = append(active, k)
		}
	}
	plan.PurchaseRows = FlattenPurchases(active, purchases)

	for _, tx := range NeedsRealizedGain(store.Transactions, window.From, securities, accounts) {
		plan.Warnings = append(plan.Warnings, Warning{
			Code:    WarnNeedsRealizedGain,
			Message: fmt.Sprintf("sale of %s on %s in account %q has no realized gain recorded", tx.Security, tx.Date, tx.Account),
		})
	}
	for _, sale := range sales {
		if sale.Remainder.IsPositive() {
			plan.Warnings = append(plan.Warnings, Warning{
				Code:    WarnUnmetSale,
				Message: fmt.Sprintf("holdings in %q cover only %s of the %s sale target", sale.Asset, sale.Proceeds(), sale.Amount),
			})
		}
	}
	slices.SortFunc(plan.Warnings, func(a, b Warning) int {
		if a.Code != b.Code {
			if a.Code < b.Code {
				return -1
			}
			return 1
		}
		if a.Message < b.Message {
			return -1
		}
		if a.Message > b.Message {
			return 1
		}
		return 0
	})
	return plan, nil
}
