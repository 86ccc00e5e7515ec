package renderer

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/etnz/rebalance"
)

// HoldingsMarkdown renders the aggregated holdings per asset class, with the
// per-lot detail in liquidation order.
func HoldingsMarkdown(m rebalance.SummaryMap) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Holdings\n\n")
	fmt.Fprintf(&b, "Total value: %s\n\n", m.TotalPresentValue())

	fmt.Fprintln(&b, "| Asset Class | Value | Cost Basis | Unrealized Gain | Lots |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	for _, asset := range sortedClasses(m) {
		s := m[asset]
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d |\n",
			asset, s.PresentValue, s.CostBasis, s.UnrealizedGain(), s.Count)
	}
	fmt.Fprintln(&b)

	for _, asset := range sortedClasses(m) {
		s := m[asset]
		ConditionalBlock(&b, func(w io.Writer) bool {
			fmt.Fprintf(w, "## %s\n\n", asset)
			fmt.Fprintln(w, "| Account | Security | Lot | Shares | Value | Gain/Loss |")
			fmt.Fprintln(w, "|:---|:---|:---|---:|---:|---:|")
			for _, lot := range s.Lots {
				fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
					lot.Lot.Account, lot.Lot.Security, lot.Lot.LotID,
					lot.Lot.Shares, lot.PresentValue, lot.GainLoss().SignedString())
			}
			fmt.Fprintln(w)
			return len(s.Lots) > 0
		})
	}

	return b.String()
}

// PerformanceMarkdown renders a Modified Dietz performance line.
func PerformanceMarkdown(period rebalance.Range, perf rebalance.Performance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Performance from %s to %s\n\n", period.From, period.To)
	fmt.Fprintln(&b, "| Start | End | Change | Return |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|")
	fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
		perf.Start, perf.End, perf.Change().SignedString(), perf.Return.SignedString())
	return b.String()
}

func sortedClasses(m rebalance.SummaryMap) []rebalance.AssetClassKey {
	keys := make([]rebalance.AssetClassKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
