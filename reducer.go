package rebalance

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
)

// ReducerPair is a directed (sell, buy) netting relation between two related
// asset classes. Direction carries sign meaning: the sell leg is always
// netted against the buy leg, never the reverse. A pair and its mirror are
// distinct map keys.
type ReducerPair struct {
	Sell, Buy AssetClassKey
}

// Mirror returns the pair with its legs swapped.
func (p ReducerPair) Mirror() ReducerPair { return ReducerPair{Sell: p.Buy, Buy: p.Sell} }

func (p ReducerPair) String() string { return fmt.Sprintf("(%s->%s)", p.Sell, p.Buy) }

// ReducerMap records the netted dollar amount per directed pair.
type ReducerMap map[ReducerPair]Money

// GenerateReducerMap pairs opposing deltas across related asset classes.
//
// For each class with a sell (negative) remaining delta, its related classes
// with a buy (positive) remaining delta are examined in the supplied order;
// each match nets min(|sellRemaining|, buyRemaining), decrementing both
// remainders, until no related opposite-signed pair remains.
//
// 'order' is the caller's total order over candidate keys; it makes the
// result deterministic and must never be left to map iteration order. A nil
// order means plain key order.
func GenerateReducerMap(m RebalanceMap, relations map[AssetClassKey][]AssetClassKey, order func(a, b AssetClassKey) int) ReducerMap {
	if order == nil {
		order = func(a, b AssetClassKey) int { return cmp.Compare(a, b) }
	}

	remaining := maps.Clone(m)
	sells := make([]AssetClassKey, 0, len(remaining))
	for k, v := range remaining {
		if v.IsNegative() {
			sells = append(sells, k)
		}
	}
	slices.SortFunc(sells, order)

	reducers := make(ReducerMap)
	for _, sell := range sells {
		candidates := slices.Clone(relations[sell])
		slices.SortFunc(candidates, order)
		for _, buy := range candidates {
			if !remaining[sell].IsNegative() {
				break
			}
			buyRemaining := remaining[buy]
			if !buyRemaining.IsPositive() {
				continue
			}
			amount := remaining[sell].Abs().Min(buyRemaining)
			pair := ReducerPair{Sell: sell, Buy: buy}
			reducers[pair] = reducers[pair].Add(amount)
			remaining[sell] = remaining[sell].Add(amount)
			remaining[buy] = buyRemaining.Sub(amount)
		}
	}
	return reducers
}

// ApplyReducerMap produces the residual rebalance map by subtracting every
// netted amount from both legs of each pair. Entries that land exactly at
// zero are dropped, unless preserveZero is set, in which case they are kept
// at 0.0 to show "considered but not traded".
func ApplyReducerMap(original RebalanceMap, reducers ReducerMap, preserveZero bool) RebalanceMap {
	residual := maps.Clone(original)
	if residual == nil {
		residual = make(RebalanceMap)
	}

	pairs := slices.Collect(maps.Keys(reducers))
	slices.SortFunc(pairs, func(a, b ReducerPair) int {
		if c := cmp.Compare(a.Sell, b.Sell); c != 0 {
			return c
		}
		return cmp.Compare(a.Buy, b.Buy)
	})
	for _, pair := range pairs {
		amount := reducers[pair]
		residual[pair.Sell] = residual[pair.Sell].Add(amount)
		residual[pair.Buy] = residual[pair.Buy].Sub(amount)
	}

	if !preserveZero {
		for k, v := range residual {
			if v.IsZero() {
				delete(residual, k)
			}
		}
	}
	return residual
}
