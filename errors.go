package rebalance

import "fmt"

// Validation failures are fatal to the request and carry the offending key,
// so that the caller can fix its input data. They are never swallowed.

// AssetClassNotFoundError reports an asset class referenced as a parent (or
// by a security or allocation) that is absent from the asset map.
type AssetClassNotFoundError struct {
	Key AssetClassKey
	Ref string // what referenced the missing class
}

func (e *AssetClassNotFoundError) Error() string {
	return fmt.Sprintf("asset class %q referenced by %s not found", e.Key, e.Ref)
}

// AllocationError reports a malformed target allocation.
type AllocationError struct {
	Key    AssetClassKey // offending slice, if any
	Reason string
}

func (e *AllocationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid allocation: %s", e.Reason)
	}
	return fmt.Sprintf("invalid allocation slice %q: %s", e.Key, e.Reason)
}

func errUnknownPeriod(s string) error { return fmt.Errorf("unknown period: %q", s) }
