package rebalance

import (
	"fmt"
	"slices"
)

// Hierarchy answers ancestry queries over the asset-class taxonomy.
//
// It is an arena of nodes indexed by asset-class key, each storing its parent
// key; descendant queries use a precomputed children-by-parent index. There
// are no node references, so there is nothing to cycle.
type Hierarchy struct {
	parents  map[AssetClassKey]AssetClassKey
	children map[AssetClassKey][]AssetClassKey // sorted for deterministic walks
}

// NewHierarchy builds the taxonomy tree from each class's declared parent.
//
// Every parent referenced by a class must itself be declared: a missing
// parent is a hard validation error (*AssetClassNotFoundError) and aborts
// construction. So does a cycle in the parent chain.
func NewHierarchy(assets []AssetClass) (*Hierarchy, error) {
	declared := make(map[AssetClassKey]AssetClass, len(assets))
	for _, a := range assets {
		declared[a.Key] = a
	}

	h := &Hierarchy{
		parents:  make(map[AssetClassKey]AssetClassKey, len(assets)),
		children: make(map[AssetClassKey][]AssetClassKey),
	}

	// Walk each class's parent chain, inserting ancestors before
	// descendants. Re-inserting an already known class is a no-op.
	for _, a := range assets {
		chain := make([]AssetClass, 0, 4)
		seen := make(map[AssetClassKey]bool)
		for cur := a; ; {
			if seen[cur.Key] {
				return nil, fmt.Errorf("asset class %q is part of a parent cycle", cur.Key)
			}
			seen[cur.Key] = true
			chain = append(chain, cur)
			if cur.Parent == "" {
				break
			}
			parent, ok := declared[cur.Parent]
			if !ok {
				return nil, &AssetClassNotFoundError{Key: cur.Parent, Ref: fmt.Sprintf("asset class %q as parent", cur.Key)}
			}
			cur = parent
		}
		// ancestors first
		for i := len(chain) - 1; i >= 0; i-- {
			h.insert(chain[i])
		}
	}

	for _, c := range h.children {
		slices.Sort(c)
	}
	return h, nil
}

// insert adds a single class to the arena; duplicate insert is a no-op.
func (h *Hierarchy) insert(a AssetClass) {
	if _, ok := h.parents[a.Key]; ok {
		return
	}
	h.parents[a.Key] = a.Parent
	if a.Parent != "" {
		h.children[a.Parent] = append(h.children[a.Parent], a.Key)
	}
}

// Has reports whether the class is part of the taxonomy.
func (h *Hierarchy) Has(k AssetClassKey) bool {
	_, ok := h.parents[k]
	return ok
}

// Parent returns the direct parent of a class, if it has one.
func (h *Hierarchy) Parent(k AssetClassKey) (AssetClassKey, bool) {
	p, ok := h.parents[k]
	return p, ok && p != ""
}

// Children returns the direct children of a class, in key order.
func (h *Hierarchy) Children(k AssetClassKey) []AssetClassKey {
	return slices.Clone(h.children[k])
}

// IsDescendant reports whether x sits strictly below 'of' in the taxonomy.
func (h *Hierarchy) IsDescendant(x, of AssetClassKey) bool {
	for {
		p, ok := h.Parent(x)
		if !ok {
			return false
		}
		if p == of {
			return true
		}
		x = p
	}
}

// IsAdjacent reports whether y is the direct parent or a direct child of x.
// Related-asset substitution never crosses more than one hierarchy level.
func (h *Hierarchy) IsAdjacent(x, y AssetClassKey) bool {
	if p, ok := h.Parent(x); ok && p == y {
		return true
	}
	if p, ok := h.Parent(y); ok && p == x {
		return true
	}
	return false
}

// RelatedKeys returns every ancestor and every descendant of x, in key
// order. x itself is not included.
func (h *Hierarchy) RelatedKeys(x AssetClassKey) []AssetClassKey {
	var related []AssetClassKey
	for cur := x; ; {
		p, ok := h.Parent(cur)
		if !ok {
			break
		}
		related = append(related, p)
		cur = p
	}
	var walk func(k AssetClassKey)
	walk = func(k AssetClassKey) {
		for _, c := range h.children[k] {
			related = append(related, c)
			walk(c)
		}
	}
	walk(x)
	slices.Sort(related)
	return related
}

// Relations returns the full related-classes map consumed by the trade
// netting reducer.
func (h *Hierarchy) Relations() map[AssetClassKey][]AssetClassKey {
	relations := make(map[AssetClassKey][]AssetClassKey, len(h.parents))
	for k := range h.parents {
		relations[k] = h.RelatedKeys(k)
	}
	return relations
}

// RollupSpec designates, for each child class, the key its summary merges
// into.
type RollupSpec map[AssetClassKey]AssetClassKey

// TopLevelSpec returns the spec that rolls every nested class up into its
// topmost ancestor, for flat "all holdings under parent classes" views.
func (h *Hierarchy) TopLevelSpec() RollupSpec {
	spec := make(RollupSpec)
	for k := range h.parents {
		top := k
		for {
			p, ok := h.Parent(top)
			if !ok {
				break
			}
			top = p
		}
		if top != k {
			spec[k] = top
		}
	}
	return spec
}

// Rollup merges each child class's summary into its designated target key
// and removes the child entry. A nil spec rolls up to top-level classes.
func (h *Hierarchy) Rollup(m SummaryMap, spec RollupSpec) {
	if spec == nil {
		spec = h.TopLevelSpec()
	}
	for _, child := range sortedKeys(spec) {
		summary, ok := m[child]
		if !ok {
			continue
		}
		target := spec[child]
		if existing, ok := m[target]; ok {
			existing.merge(summary)
		} else {
			m[target] = summary
		}
		delete(m, child)
	}
}

// RollupAccounts is the per-account variant of Rollup.
func (h *Hierarchy) RollupAccounts(am AccountSummaryMap, spec RollupSpec) {
	for _, m := range am {
		h.Rollup(m, spec)
	}
}
