// Package renderer turns engine results into markdown reports.
package renderer

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/etnz/rebalance"
)

// PlanMarkdown renders the full trade plan: deltas, netting, sales with their
// liquidations, purchases, and data-quality warnings.
func PlanMarkdown(plan *rebalance.Plan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Rebalance Plan\n\n")
	fmt.Fprintf(&b, "Portfolio value: %s\n\n", plan.TotalValue)
	fmt.Fprintf(&b, "Wash-sale window: %s to %s\n\n", plan.Window.From, plan.Window.To)

	fmt.Fprint(&b, "## Deltas per Asset Class\n\n")
	fmt.Fprintln(&b, "| Asset Class | Delta |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, asset := range sortedAssets(plan.Deltas) {
		fmt.Fprintf(&b, "| %s | %s |\n", asset, plan.Deltas[asset].SignedString())
	}
	fmt.Fprintln(&b)

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Netted Between Related Classes\n\n")
		fmt.Fprintln(w, "| Sell | Buy | Amount |")
		fmt.Fprintln(w, "|:---|:---|---:|")
		printed := false
		for _, pair := range sortedPairs(plan.Reducers) {
			fmt.Fprintf(w, "| %s | %s | %s |\n", pair.Sell, pair.Buy, plan.Reducers[pair])
			printed = true
		}
		fmt.Fprintln(w)
		return printed
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Sales\n\n")
		fmt.Fprintln(w, "| Asset Class | Amount | Proceeds | Gain/Loss | Wash |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|---:|")
		for _, sale := range plan.Sales {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
				sale.Asset, sale.Amount, sale.Proceeds(),
				sale.NetGainLoss().SignedString(), sale.Wash)
		}
		fmt.Fprintln(w)
		return len(plan.Sales) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "### Lots to Sell\n\n")
		fmt.Fprintln(w, "| Account | Security | Lot | Shares | Amount | All |")
		fmt.Fprintln(w, "|:---|:---|:---|---:|---:|:---:|")
		for _, row := range plan.SaleRows {
			all := ""
			if row.LiquidateAll {
				all = "yes"
			}
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
				row.Account, row.Security, row.LotID, row.Shares, row.Amount, all)
		}
		fmt.Fprintln(w)
		return len(plan.SaleRows) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Purchases\n\n")
		fmt.Fprintln(w, "| Asset Class | Amount | Wash |")
		fmt.Fprintln(w, "|:---|---:|---:|")
		for _, p := range plan.Purchases {
			fmt.Fprintf(w, "| %s | %s | %s |\n", p.Asset, p.Amount, p.Wash.SignedString())
		}
		fmt.Fprintln(w)
		return len(plan.Purchases) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Warnings\n\n")
		for _, warning := range plan.Warnings {
			fmt.Fprintf(w, "- **%s**: %s\n", warning.Code, warning.Message)
		}
		fmt.Fprintln(w)
		return len(plan.Warnings) > 0
	})

	return b.String()
}

func sortedAssets(m rebalance.RebalanceMap) []rebalance.AssetClassKey {
	keys := make([]rebalance.AssetClassKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func sortedPairs(m rebalance.ReducerMap) []rebalance.ReducerPair {
	pairs := make([]rebalance.ReducerPair, 0, len(m))
	for p := range m {
		pairs = append(pairs, p)
	}
	slices.SortFunc(pairs, func(a, b rebalance.ReducerPair) int {
		if c := cmp.Compare(a.Sell, b.Sell); c != 0 {
			return c
		}
		return cmp.Compare(a.Buy, b.Buy)
	})
	return pairs
}
