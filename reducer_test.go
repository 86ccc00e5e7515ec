package rebalance

import "testing"

func TestGenerateReducerMap(t *testing.T) {
	m := RebalanceMap{
		"a": USD(1.0),
		"b": USD(-1.0),
	}
	relations := map[AssetClassKey][]AssetClassKey{
		"a": {"b"},
		"b": {"a"},
	}

	reducers := GenerateReducerMap(m, relations, nil)

	if len(reducers) != 1 {
		t.Fatalf("GenerateReducerMap() produced %d pairs, want 1: %v", len(reducers), reducers)
	}
	pair := ReducerPair{Sell: "b", Buy: "a"}
	if !reducers[pair].Equal(USD(1.0)) {
		t.Errorf("reducers[%s] = %s, want %s", pair, reducers[pair], USD(1.0))
	}
	// direction carries meaning: the mirror is a different key
	if _, ok := reducers[pair.Mirror()]; ok {
		t.Errorf("mirror pair %s present in reducer map", pair.Mirror())
	}
}

func TestGenerateReducerMap_PartialNet(t *testing.T) {
	// the sell is larger than all related buys combined
	m := RebalanceMap{
		"equities":      USD(-1000),
		"us-equities":   USD(300),
		"intl-equities": USD(500),
	}
	relations := map[AssetClassKey][]AssetClassKey{
		"equities":      {"intl-equities", "us-equities"},
		"us-equities":   {"equities"},
		"intl-equities": {"equities"},
	}

	reducers := GenerateReducerMap(m, relations, nil)

	if len(reducers) != 2 {
		t.Fatalf("GenerateReducerMap() produced %d pairs, want 2: %v", len(reducers), reducers)
	}
	if got := reducers[ReducerPair{Sell: "equities", Buy: "intl-equities"}]; !got.Equal(USD(500)) {
		t.Errorf("intl leg = %s, want %s", got, USD(500))
	}
	if got := reducers[ReducerPair{Sell: "equities", Buy: "us-equities"}]; !got.Equal(USD(300)) {
		t.Errorf("us leg = %s, want %s", got, USD(300))
	}
}

func TestGenerateReducerMap_UnrelatedNeverNet(t *testing.T) {
	m := RebalanceMap{
		"equities": USD(-1000),
		"bonds":    USD(1000),
	}
	reducers := GenerateReducerMap(m, map[AssetClassKey][]AssetClassKey{}, nil)
	if len(reducers) != 0 {
		t.Errorf("unrelated classes were netted: %v", reducers)
	}
}

func TestApplyReducerMap(t *testing.T) {
	original := RebalanceMap{
		"a": USD(1.0),
		"b": USD(-1.0),
	}
	reducers := ReducerMap{{Sell: "b", Buy: "a"}: USD(1.0)}

	residual := ApplyReducerMap(original, reducers, false)
	if len(residual) != 0 {
		t.Errorf("fully netted entries kept: %v", residual)
	}

	// the original map is left untouched
	if !original["a"].Equal(USD(1.0)) || !original["b"].Equal(USD(-1.0)) {
		t.Errorf("ApplyReducerMap() mutated its input: %v", original)
	}

	preserved := ApplyReducerMap(original, reducers, true)
	if len(preserved) != 2 {
		t.Fatalf("preserveZero dropped entries: %v", preserved)
	}
	if !preserved["a"].IsZero() || !preserved["b"].IsZero() {
		t.Errorf("preserved entries not at zero: %v", preserved)
	}
}

func TestApplyReducerMap_Partial(t *testing.T) {
	original := RebalanceMap{
		"equities":    USD(-1000),
		"us-equities": USD(300),
	}
	reducers := ReducerMap{{Sell: "equities", Buy: "us-equities"}: USD(300)}

	residual := ApplyReducerMap(original, reducers, false)
	if want := USD(-700); !residual["equities"].Equal(want) {
		t.Errorf("equities residual = %s, want %s", residual["equities"], want)
	}
	if _, ok := residual["us-equities"]; ok {
		t.Errorf("us-equities residual kept: %s", residual["us-equities"])
	}
}
