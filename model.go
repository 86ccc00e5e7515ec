package rebalance

import "strings"

// AssetClassKey identifies a node in the asset-class taxonomy.
// Keys are normalized to lower case so that "Equities" and "equities"
// name the same class.
type AssetClassKey string

// Cash is the distinguished asset class that the engine never trades:
// it is excluded from rebalance deltas, sales and purchases.
const Cash AssetClassKey = "cash"

// NewAssetClassKey normalizes a raw identifier into an AssetClassKey.
func NewAssetClassKey(s string) AssetClassKey {
	return AssetClassKey(strings.ToLower(strings.TrimSpace(s)))
}

// IsCash reports whether the key is the distinguished cash class.
func (k AssetClassKey) IsCash() bool { return k == Cash }

// AccountKey identifies an account in the model store.
type AccountKey string

// SecurityKey identifies a tradable instrument by its ticker.
type SecurityKey string

// AssetClass declares a node of the asset taxonomy with its optional parent.
// A class with no parent sits directly under the synthetic root.
type AssetClass struct {
	Key    AssetClassKey
	Parent AssetClassKey
}

// Account represents a brokerage or retirement account holding tax lots.
type Account struct {
	Key     AccountKey
	Name    string
	Taxable bool // wash-sale rules only bind taxable accounts
	Active  bool
}

// Security describes a tradable instrument.
type Security struct {
	Ticker SecurityKey
	Asset  AssetClassKey
	// Price is the last known price per share. A zero price means the price
	// is unknown: lots of this security cannot be valued and are skipped.
	Price Money
	// Tracker names the index this security replicates, if any. Two
	// securities with the same tracker are substantially identical for
	// wash-sale purposes.
	Tracker string
}

// HasPrice reports whether the security can value its lots.
func (s Security) HasPrice() bool { return s.Price.IsPositive() }

// TaxLot represents a single purchased position in an account.
type TaxLot struct {
	Account  AccountKey
	Security SecurityKey
	LotID    string
	Shares   Quantity // non-zero
	// ShareBasis is the cost per share. A zero basis is a zero-basis gift,
	// not missing data.
	ShareBasis Money
	Acquired   Date // zero when the acquisition date is unknown
}

// CostBasis returns the total cost basis of the lot.
func (l TaxLot) CostBasis() Money { return l.ShareBasis.Mul(l.Shares) }

// RecentTransaction is a historical buy/sell/transfer record, used read-only
// as wash-sale evidence within a caller-supplied lookback window.
type RecentTransaction struct {
	Date       Date
	Account    AccountKey
	Security   SecurityKey
	Shares     Quantity // signed: positive for buys, negative for sales
	SharePrice Money
	// RealizedShort and RealizedLong are the realized short- and long-term
	// gains of a sale. nil means the figure was never recorded, which is
	// different from a recorded zero: see NeedsRealizedGain.
	RealizedShort *Money
	RealizedLong  *Money
}

// IsSale reports whether the transaction sheds shares.
func (t RecentTransaction) IsSale() bool { return t.Shares.IsNegative() }

// Amount returns the signed dollar amount of the transaction.
func (t RecentTransaction) Amount() Money { return t.SharePrice.Mul(t.Shares) }

// RealizedGain sums the recorded realized gains. Absent figures contribute
// zero: missing data is "no known loss", never an error.
func (t RecentTransaction) RealizedGain() Money {
	var g Money
	if t.RealizedShort != nil {
		g = g.Add(*t.RealizedShort)
	}
	if t.RealizedLong != nil {
		g = g.Add(*t.RealizedLong)
	}
	return g
}

// HasRealizedGain reports whether at least one realized-gain figure was
// recorded for the transaction.
func (t RecentTransaction) HasRealizedGain() bool {
	return t.RealizedShort != nil || t.RealizedLong != nil
}
