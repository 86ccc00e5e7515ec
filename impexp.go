package rebalance

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// this file contains functions to import broker position exports.
// Brokers all export JSON, but never the same shape; a BrokerMapping holds
// the jsonpath expressions that adapt one broker's export to the store model.

// BrokerMapping maps one broker's JSON export onto tax lots.
//
// Positions selects the list of position objects in the document; the other
// paths are evaluated against each position object. Basis and Acquired may be
// empty when the broker does not export them: the lot is then recorded as a
// gift (zero basis) or without an acquisition date.
type BrokerMapping struct {
	// Account is the account key the imported lots belong to; broker exports
	// are per-account and rarely carry the key themselves.
	Account AccountKey

	Positions string // e.g. "$.positions[*]"
	Ticker    string // e.g. "$.symbol"
	Shares    string // e.g. "$.quantity"
	Basis     string // e.g. "$.costBasisPerShare", optional
	Acquired  string // e.g. "$.acquisitionDate", optional
}

// ImportLots reads one broker JSON export from 'r' and maps it to tax lots
// using the given mapping. Lot IDs are assigned sequentially per ticker
// (aapl-1, aapl-2, ...) since brokers rarely export stable lot identifiers.
func ImportLots(r io.Reader, m BrokerMapping) ([]TaxLot, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("cannot parse broker export: %w", err)
	}

	jval, err := jsonpath.Get(m.Positions, jobj)
	if err != nil {
		return nil, fmt.Errorf("error selecting positions: %q %w", m.Positions, err)
	}
	rows, ok := jval.([]any)
	if !ok {
		// a single-position export is not a list
		rows = []any{jval}
	}

	var lots []TaxLot
	seq := make(map[SecurityKey]int)
	for i, row := range rows {
		ticker, err := jstring(m.Ticker, row)
		if err != nil {
			return nil, fmt.Errorf("position %d: ticker: %w", i, err)
		}
		shares, err := jnumber(m.Shares, row)
		if err != nil {
			return nil, fmt.Errorf("position %d (%s): shares: %w", i, ticker, err)
		}
		lot := TaxLot{
			Account:  m.Account,
			Security: SecurityKey(ticker),
			Shares:   Q(shares),
		}
		if m.Basis != "" {
			basis, err := jnumber(m.Basis, row)
			if err != nil {
				return nil, fmt.Errorf("position %d (%s): basis: %w", i, ticker, err)
			}
			lot.ShareBasis = M(basis, "")
		}
		if m.Acquired != "" {
			day, err := jstring(m.Acquired, row)
			if err != nil {
				return nil, fmt.Errorf("position %d (%s): acquired: %w", i, ticker, err)
			}
			d, err := ParseDate(day)
			if err != nil {
				return nil, fmt.Errorf("position %d (%s): acquired: %w", i, ticker, err)
			}
			lot.Acquired = d
		}
		seq[lot.Security]++
		lot.LotID = fmt.Sprintf("%s-%d", strings.ToLower(string(lot.Security)), seq[lot.Security])
		lots = append(lots, lot)
	}
	return lots, nil
}

// jstring evaluates a jsonpath against one row and returns it as a string.
func jstring(path string, row any) (string, error) {
	jval, err := jget(path, row)
	if err != nil {
		return "", err
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("%q: not a string: %v", path, jval)
	}
	return s, nil
}

// jnumber evaluates a jsonpath against one row and returns it as a decimal.
// Some broker APIs return numbers as strings, with commas for decimal marks.
func jnumber(path string, row any) (decimal.Decimal, error) {
	jval, err := jget(path, row)
	if err != nil {
		return decimal.Decimal{}, err
	}
	switch v := jval.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		v = strings.ReplaceAll(v, ",", ".")
		v = strings.ReplaceAll(v, " ", "")
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return decimal.Decimal{}, fmt.Errorf("%q: invalid number string %q: %w", path, v, err)
		}
		return decimal.NewFromString(v)
	default:
		return decimal.Decimal{}, fmt.Errorf("%q: neither a number nor a string: %v", path, jval)
	}
}

func jget(path string, row any) (any, error) {
	jval, err := jsonpath.Get(path, row)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return jval, nil
}
