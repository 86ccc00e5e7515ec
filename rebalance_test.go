package rebalance

import "testing"

func TestNewRebalanceMap(t *testing.T) {
	alloc := Allocation{
		{Asset: "equities", Fraction: Q(0.6)},
		{Asset: "bonds", Fraction: Q(0.4)},
	}
	current := SummaryMap{
		"equities": {PresentValue: USD(8000)},
		"bonds":    {PresentValue: USD(2000)},
		"gold":     {PresentValue: USD(500)}, // held but not targeted
		Cash:       {PresentValue: USD(300)}, // never traded
	}

	m := NewRebalanceMap(alloc, current, USD(10500))

	if len(m) != 3 {
		t.Fatalf("NewRebalanceMap() produced %d entries, want 3: %v", len(m), sortedKeys(m))
	}
	if want := USD(0.6*10500 - 8000); !m["equities"].Equal(want) {
		t.Errorf("equities delta = %s, want %s", m["equities"], want)
	}
	if want := USD(0.4*10500 - 2000); !m["bonds"].Equal(want) {
		t.Errorf("bonds delta = %s, want %s", m["bonds"], want)
	}
	// an untargeted class is sold entirely
	if want := USD(-500); !m["gold"].Equal(want) {
		t.Errorf("gold delta = %s, want %s", m["gold"], want)
	}
	if _, ok := m[Cash]; ok {
		t.Error("cash appeared in the rebalance map")
	}
}

func TestNewRebalanceMap_DropsSubCent(t *testing.T) {
	alloc := Allocation{{Asset: "equities", Fraction: Q(1)}}
	current := SummaryMap{"equities": {PresentValue: USD(1000.005)}}
	m := NewRebalanceMap(alloc, current, USD(1000))
	if _, ok := m["equities"]; ok {
		t.Errorf("sub-cent residual kept: %s", m["equities"])
	}
}

func TestSubstituteRelated(t *testing.T) {
	h, err := NewHierarchy([]AssetClass{
		{Key: "equities"},
		{Key: "us-equities", Parent: "equities"},
		{Key: "bonds"},
	})
	if err != nil {
		t.Fatalf("NewHierarchy() error = %v", err)
	}

	// selling the child while buying the parent: the smaller delta folds away
	m := RebalanceMap{
		"us-equities": USD(-300),
		"equities":    USD(1000),
		"bonds":       USD(-700),
	}
	m.SubstituteRelated(h, map[AssetClassKey]bool{"equities": true}, nil)

	if _, ok := m["us-equities"]; ok {
		t.Errorf("us-equities survived substitution: %s", m["us-equities"])
	}
	if want := USD(700); !m["equities"].Equal(want) {
		t.Errorf("equities delta = %s, want %s", m["equities"], want)
	}
	// bonds is unrelated and untouched
	if want := USD(-700); !m["bonds"].Equal(want) {
		t.Errorf("bonds delta = %s, want %s", m["bonds"], want)
	}
}

func TestSubstituteRelated_ProtectsTargets(t *testing.T) {
	h, err := NewHierarchy([]AssetClass{
		{Key: "equities"},
		{Key: "us-equities", Parent: "equities"},
	})
	if err != nil {
		t.Fatalf("NewHierarchy() error = %v", err)
	}

	// us-equities has the smaller magnitude but is an explicit target: it
	// must not be eliminated, and no other fold is possible.
	m := RebalanceMap{
		"us-equities": USD(-300),
		"equities":    USD(1000),
	}
	m.SubstituteRelated(h, map[AssetClassKey]bool{"equities": true, "us-equities": true}, nil)

	if want := USD(-300); !m["us-equities"].Equal(want) {
		t.Errorf("protected target folded away: %s, want %s", m["us-equities"], want)
	}
	if want := USD(1000); !m["equities"].Equal(want) {
		t.Errorf("equities delta = %s, want %s", m["equities"], want)
	}
}

func TestSubstituteRelated_OneLevelOnly(t *testing.T) {
	h, err := NewHierarchy([]AssetClass{
		{Key: "equities"},
		{Key: "us-equities", Parent: "equities"},
		{Key: "us-small-cap", Parent: "us-equities"},
	})
	if err != nil {
		t.Fatalf("NewHierarchy() error = %v", err)
	}

	// grandchild vs grandparent: two levels apart, never substituted
	m := RebalanceMap{
		"us-small-cap": USD(-300),
		"equities":     USD(1000),
	}
	m.SubstituteRelated(h, map[AssetClassKey]bool{"equities": true}, nil)

	if want := USD(-300); !m["us-small-cap"].Equal(want) {
		t.Errorf("us-small-cap delta = %s, want %s", m["us-small-cap"], want)
	}
}

func TestSubstituteRelated_LargestGainFirst(t *testing.T) {
	h, err := NewHierarchy([]AssetClass{
		{Key: "equities"},
		{Key: "us-equities", Parent: "equities"},
		{Key: "intl-equities", Parent: "equities"},
	})
	if err != nil {
		t.Fatalf("NewHierarchy() error = %v", err)
	}

	// both children are eligible against the parent buy; the one carrying the
	// larger embedded gain folds first and exhausts the parent.
	current := SummaryMap{
		"us-equities":   {PresentValue: USD(900), CostBasis: USD(1000)},  // loss position
		"intl-equities": {PresentValue: USD(1200), CostBasis: USD(1000)}, // gain position
	}
	m := RebalanceMap{
		"us-equities":   USD(-400),
		"intl-equities": USD(-400),
		"equities":      USD(400),
	}
	m.SubstituteRelated(h, map[AssetClassKey]bool{"equities": true}, current)

	if _, ok := m["intl-equities"]; ok {
		t.Errorf("gain position was not substituted first: %s", m["intl-equities"])
	}
	// the loss position keeps its sale, preserving the tax-loss harvest
	if want := USD(-400); !m["us-equities"].Equal(want) {
		t.Errorf("us-equities delta = %s, want %s", m["us-equities"], want)
	}
	if _, ok := m["equities"]; ok {
		t.Errorf("equities should be fully absorbed: %s", m["equities"])
	}
}
