package rebalance

import (
	"fmt"
	"slices"
)

// Performance holds the starting and ending value and the calculated return
// for a reporting period.
type Performance struct {
	Start, End Money
	Return     Percent
}

// Change returns the absolute value change over the period.
func (p Performance) Change() Money { return p.End.Sub(p.Start) }

// ValueSnapshot is the observed value of a portfolio or account on a date.
type ValueSnapshot struct {
	Date  Date
	Value Money
}

// Cashflow is an external flow: positive for a contribution, negative for a
// withdrawal. Internal trades are not cashflows.
type Cashflow struct {
	Date   Date
	Amount Money
}

// ModifiedDietz computes the money-weighted approximation of the
// time-weighted return between two snapshots:
//
//	R = (EMV - BMV - F) / (BMV + sum w_i * f_i)
//
// where F is the net external flow and w_i = (CD - D_i) / CD weights each
// flow by the fraction of the period it was invested. Flows outside the
// period are ignored.
func ModifiedDietz(begin, end ValueSnapshot, flows []Cashflow) (Percent, error) {
	if !end.Date.After(begin.Date) {
		return 0, fmt.Errorf("period end %s must be after start %s", end.Date, begin.Date)
	}
	period := Range{From: begin.Date, To: end.Date}
	days := float64(period.Days() - 1) // CD: calendar days between the snapshots

	var net Money
	weighted := 0.0
	for _, f := range flows {
		if !period.Contains(f.Date) {
			continue
		}
		net = net.Add(f.Amount)
		held := Range{From: begin.Date, To: f.Date}
		weight := (days - float64(held.Days()-1)) / days
		weighted += weight * f.Amount.AsFloat()
	}

	gain := end.Value.Sub(begin.Value).Sub(net).AsFloat()
	capital := begin.Value.AsFloat() + weighted
	if capital == 0 {
		return 0, fmt.Errorf("no invested capital between %s and %s", begin.Date, end.Date)
	}
	return Percent(100 * gain / capital), nil
}

// ConsolidateSnapshots merges per-account snapshot series into a single
// portfolio series: one snapshot per observed date, each account
// contributing its last known value on or before that date.
func ConsolidateSnapshots(series map[AccountKey][]ValueSnapshot) []ValueSnapshot {
	dates := make(map[Date]bool)
	for _, snaps := range series {
		for _, s := range snaps {
			dates[s.Date] = true
		}
	}
	ordered := make([]Date, 0, len(dates))
	for d := range dates {
		ordered = append(ordered, d)
	}
	slices.SortFunc(ordered, func(a, b Date) int {
		switch {
		case a.Before(b):
			return -1
		case a.After(b):
			return 1
		default:
			return 0
		}
	})

	accounts := sortedKeys(series)
	var out []ValueSnapshot
	for _, d := range ordered {
		var total Money
		for _, account := range accounts {
			var last Money
			for _, s := range series[account] {
				if s.Date.After(d) {
					break
				}
				last = s.Value
			}
			total = total.Add(last)
		}
		out = append(out, ValueSnapshot{Date: d, Value: total})
	}
	return out
}

// NewPerformance computes the Modified Dietz performance over a period from
// an ordered snapshot series and the external cashflows. The snapshots
// bounding the period are the last on or before each boundary.
func NewPerformance(snapshots []ValueSnapshot, flows []Cashflow, period Range) (Performance, error) {
	begin, ok := lastOnOrBefore(snapshots, period.From)
	if !ok {
		return Performance{}, fmt.Errorf("no snapshot on or before %s", period.From)
	}
	end, ok := lastOnOrBefore(snapshots, period.To)
	if !ok || !end.Date.After(begin.Date) {
		return Performance{}, fmt.Errorf("no snapshot inside period ending %s", period.To)
	}
	ret, err := ModifiedDietz(begin, end, flows)
	if err != nil {
		return Performance{}, err
	}
	return Performance{Start: begin.Value, End: end.Value, Return: ret}, nil
}

func lastOnOrBefore(snapshots []ValueSnapshot, day Date) (ValueSnapshot, bool) {
	var found ValueSnapshot
	ok := false
	for _, s := range snapshots {
		if s.Date.After(day) {
			break
		}
		found, ok = s, true
	}
	return found, ok
}
