package rebalance

// USD is a helper for tests to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for tests to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

// moneyRef is a helper for tests to take the address of a money const
func moneyRef(m Money) *Money { return &m }

// fixtureSecurities is the reference security table shared by several tests.
func fixtureSecurities() SecurityMap {
	return SecurityMap{
		"vti": {Ticker: "vti", Asset: "equities", Price: USD(100), Tracker: "us-total-market"},
		"itot": {Ticker: "itot", Asset: "equities", Price: USD(90), Tracker: "us-total-market"},
		"bnd": {Ticker: "bnd", Asset: "bonds", Price: USD(50)},
		"mmf": {Ticker: "mmf", Asset: Cash, Price: USD(1)},
	}
}
