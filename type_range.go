package rebalance

import "time"

// Range represents a range of dates, boundaries included.
//
// The wash-sale calculator uses a Range as its lookback window; the
// performance report uses one as its measurement period.
type Range struct{ From, To Date }

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Lookback returns the window of 'days' days ending at 'cutoff', inclusive.
// The typical wash-sale window is Lookback(cutoff, 30).
func Lookback(cutoff Date, days int) Range {
	return Range{From: cutoff.Add(-days), To: cutoff}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return (!date.Before(r.From) && !date.After(r.To)) }

// Days returns the number of days in the range, boundaries included.
func (r Range) Days() int {
	return int(r.To.time().Sub(r.From.time())/(24*time.Hour)) + 1
}

// Period represents a standard reporting period.
type Period int

const (
	Monthly Period = iota
	Quarterly
	Yearly
)

func (p Period) String() string {
	switch p {
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		return "periodic"
	}
}

// ParsePeriod parses a period name.
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "monthly", "month":
		return Monthly, nil
	case "quarterly", "quarter":
		return Quarterly, nil
	case "yearly", "year":
		return Yearly, nil
	}
	return 0, errUnknownPeriod(s)
}

// Range returns the full period range containing day d.
func (p Period) Range(d Date) Range {
	switch p {
	case Monthly:
		return Range{From: NewDate(d.Year(), d.Month(), 1), To: NewDate(d.Year(), d.Month()+1, 0)}
	case Quarterly:
		quarter := (d.Month() - 1) / 3
		start := time.Month(quarter*3 + 1)
		return Range{From: NewDate(d.Year(), start, 1), To: NewDate(d.Year(), start+3, 0)}
	case Yearly:
		return Range{From: NewDate(d.Year(), time.January, 1), To: NewDate(d.Year()+1, time.January, 0)}
	default:
		panic("unknown period")
	}
}
