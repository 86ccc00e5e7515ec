package rebalance

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The model store persists as a JSONL file, one record per line, each line
// carrying a "kind" discriminator. The format is human readable and
// git-friendly: the engine never mutates it, callers own the file.

type recordKind string

const (
	kindAccount  recordKind = "account"
	kindAsset    recordKind = "asset"
	kindSecurity recordKind = "security"
	kindLot      recordKind = "lot"
	kindTxn      recordKind = "txn"
	kindTarget   recordKind = "target"
	kindSnapshot recordKind = "snapshot"
	kindFlow     recordKind = "flow"
)

// DecodeStore decodes a model store from a stream of JSONL data.
func DecodeStore(r io.Reader) (*Store, error) {
	store := NewStore()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Kind recordKind `json:"kind"`
		}
		if err := json.Unmarshal(raw, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record on line %d %q: %w", line, string(raw), err)
		}

		var err error
		switch identifier.Kind {
		case kindAccount:
			var temp struct {
				Key     AccountKey `json:"key"`
				Name    string     `json:"name"`
				Taxable bool       `json:"taxable"`
				Active  bool       `json:"active"`
			}
			if err = json.Unmarshal(raw, &temp); err == nil {
				store.Accounts = append(store.Accounts, Account(temp))
			}

		case kindAsset:
			var temp struct {
				Key    string `json:"key"`
				Parent string `json:"parent"`
			}
			if err = json.Unmarshal(raw, &temp); err == nil {
				store.Assets = append(store.Assets, AssetClass{
					Key:    NewAssetClassKey(temp.Key),
					Parent: NewAssetClassKey(temp.Parent),
				})
			}

		case kindSecurity:
			var temp struct {
				Ticker  SecurityKey     `json:"ticker"`
				Asset   string          `json:"asset"`
				Price   decimal.Decimal `json:"price"`
				Tracker string          `json:"tracker"`
			}
			if err = json.Unmarshal(raw, &temp); err == nil {
				store.Securities = append(store.Securities, Security{
					Ticker:  temp.Ticker,
					Asset:   NewAssetClassKey(temp.Asset),
					Price:   M(temp.Price, ""),
					Tracker: temp.Tracker,
				})
			}

		case kindLot:
			var temp struct {
				Account  AccountKey      `json:"account"`
				Security SecurityKey     `json:"security"`
				ID       string          `json:"id"`
				Shares   Quantity        `json:"shares"`
				Basis    decimal.Decimal `json:"basis"`
				Acquired Date            `json:"acquired,omitempty"`
			}
			if err = json.Unmarshal(raw, &temp); err == nil {
				store.Lots = append(store.Lots, TaxLot{
					Account:    temp.Account,
					Security:   temp.Security,
					LotID:      temp.ID,
					Shares:     temp.Shares,
					ShareBasis: M(temp.Basis, ""),
					Acquired:   temp.Acquired,
				})
			}

		case kindTxn:
			var temp struct {
				Date          Date             `json:"date"`
				Account       AccountKey       `json:"account"`
				Security      SecurityKey      `json:"security"`
				Shares        Quantity         `json:"shares"`
				Price         decimal.Decimal  `json:"price"`
				RealizedShort *decimal.Decimal `json:"realizedShort"`
				RealizedLong  *decimal.Decimal `json:"realizedLong"`
			}
			if err = json.Unmarshal(raw, &temp); err == nil {
				store.Transactions = append(store.Transactions, RecentTransaction{
					Date:          temp.Date,
					Account:       temp.Account,
					Security:      temp.Security,
					Shares:        temp.Shares,
					SharePrice:    M(temp.Price, ""),
					RealizedShort: moneyPtr(temp.RealizedShort),
					RealizedLong:  moneyPtr(temp.RealizedLong),
				})
			}

		case kindTarget:
			var temp struct {
				Asset    string   `json:"asset"`
				Fraction Quantity `json:"fraction"`
			}
			if err = json.Unmarshal(raw, &temp); err == nil {
				store.Allocation = append(store.Allocation, AllocationSlice{
					Asset:    NewAssetClassKey(temp.Asset),
					Fraction: temp.Fraction,
				})
			}

		case kindSnapshot:
			var temp struct {
				Date    Date            `json:"date"`
				Account AccountKey      `json:"account"`
				Value   decimal.Decimal `json:"value"`
			}
			if err = json.Unmarshal(raw, &temp); err == nil {
				store.Snapshots = append(store.Snapshots, AccountSnapshot{
					Date:    temp.Date,
					Account: temp.Account,
					Value:   M(temp.Value, ""),
				})
			}

		case kindFlow:
			var temp struct {
				Date   Date            `json:"date"`
				Amount decimal.Decimal `json:"amount"`
			}
			if err = json.Unmarshal(raw, &temp); err == nil {
				store.Flows = append(store.Flows, Cashflow{
					Date:   temp.Date,
					Amount: M(temp.Amount, ""),
				})
			}

		default:
			err = fmt.Errorf("unknown record kind %q", identifier.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", line, string(raw), err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading store: %w", err)
	}
	return store, nil
}

func moneyPtr(d *decimal.Decimal) *Money {
	if d == nil {
		return nil
	}
	m := M(*d, "")
	return &m
}

// EncodeStore writes the store in its canonical JSONL form: accounts, then
// asset classes, securities, lots, transactions, and allocation targets,
// each in their stored order.
func EncodeStore(w io.Writer, store *Store) error {
	encode := func(v json.Marshaler) error {
		raw, err := v.MarshalJSON()
		if err != nil {
			return err
		}
		if _, err := w.Write(append(raw, '\n')); err != nil {
			return err
		}
		return nil
	}

	for _, a := range store.Accounts {
		var jw jsonObjectWriter
		jw.Append("kind", kindAccount)
		jw.Append("key", a.Key)
		jw.Optional("name", a.Name)
		jw.Append("taxable", a.Taxable)
		jw.Append("active", a.Active)
		if err := encode(&jw); err != nil {
			return err
		}
	}
	for _, a := range store.Assets {
		var jw jsonObjectWriter
		jw.Append("kind", kindAsset)
		jw.Append("key", a.Key)
		jw.Optional("parent", a.Parent)
		if err := encode(&jw); err != nil {
			return err
		}
	}
	for _, s := range store.Securities {
		var jw jsonObjectWriter
		jw.Append("kind", kindSecurity)
		jw.Append("ticker", s.Ticker)
		jw.Append("asset", s.Asset)
		if s.HasPrice() {
			jw.Append("price", s.Price.value)
		}
		jw.Optional("tracker", s.Tracker)
		if err := encode(&jw); err != nil {
			return err
		}
	}
	for _, l := range store.Lots {
		var jw jsonObjectWriter
		jw.Append("kind", kindLot)
		jw.Append("account", l.Account)
		jw.Append("security", l.Security)
		jw.Append("id", l.LotID)
		jw.Append("shares", l.Shares)
		if !l.ShareBasis.IsZero() {
			jw.Append("basis", l.ShareBasis.value)
		}
		if !l.Acquired.IsZero() {
			jw.Append("acquired", l.Acquired)
		}
		if err := encode(&jw); err != nil {
			return err
		}
	}
	for _, t := range store.Transactions {
		var jw jsonObjectWriter
		jw.Append("kind", kindTxn)
		jw.Append("date", t.Date)
		jw.Append("account", t.Account)
		jw.Append("security", t.Security)
		jw.Append("shares", t.Shares)
		jw.Append("price", t.SharePrice.value)
		if t.RealizedShort != nil {
			jw.Append("realizedShort", t.RealizedShort.value)
		}
		if t.RealizedLong != nil {
			jw.Append("realizedLong", t.RealizedLong.value)
		}
		if err := encode(&jw); err != nil {
			return err
		}
	}
	for _, slice := range store.Allocation {
		var jw jsonObjectWriter
		jw.Append("kind", kindTarget)
		jw.Append("asset", slice.Asset)
		jw.Append("fraction", slice.Fraction)
		if err := encode(&jw); err != nil {
			return err
		}
	}
	for _, snap := range store.Snapshots {
		var jw jsonObjectWriter
		jw.Append("kind", kindSnapshot)
		jw.Append("date", snap.Date)
		jw.Append("account", snap.Account)
		jw.Append("value", snap.Value.value)
		if err := encode(&jw); err != nil {
			return err
		}
	}
	for _, flow := range store.Flows {
		var jw jsonObjectWriter
		jw.Append("kind", kindFlow)
		jw.Append("date", flow.Date)
		jw.Append("amount", flow.Amount.value)
		if err := encode(&jw); err != nil {
			return err
		}
	}
	return nil
}
