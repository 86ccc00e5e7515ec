package rebalance

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want Date
	}{
		{"2025-08-01", NewDate(2025, time.August, 1)},
		{"2025-8-1", NewDate(2025, time.August, 1)}, // lenient single digits
		{" 2025-08-01 ", NewDate(2025, time.August, 1)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if err != nil {
			t.Errorf("ParseDate(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseDate("not-a-date"); err == nil {
		t.Error("ParseDate() accepted garbage")
	}
}

func TestParseDate_Relative(t *testing.T) {
	today := Today()
	if got, err := ParseDate("0d"); err != nil || got != today {
		t.Errorf("ParseDate(0d) = %s, %v, want today", got, err)
	}
	if got, err := ParseDate("-30d"); err != nil || got != today.Add(-30) {
		t.Errorf("ParseDate(-30d) = %s, %v, want %s", got, err, today.Add(-30))
	}
	if got, err := ParseDate("+2w"); err != nil || got != today.Add(14) {
		t.Errorf("ParseDate(+2w) = %s, %v, want %s", got, err, today.Add(14))
	}
}

func TestDate_Add_Normalizes(t *testing.T) {
	if got := NewDate(2025, time.January, 31).Add(1); got != NewDate(2025, time.February, 1) {
		t.Errorf("Add(1) = %s, want 2025-02-01", got)
	}
	if got := NewDate(2024, time.March, 1).Add(-1); got != NewDate(2024, time.February, 29) {
		t.Errorf("Add(-1) = %s, want leap day", got)
	}
}

func TestLookback(t *testing.T) {
	cutoff := NewDate(2025, time.August, 1)
	window := Lookback(cutoff, 30)
	if window.To != cutoff {
		t.Errorf("window.To = %s, want %s", window.To, cutoff)
	}
	if window.From != NewDate(2025, time.July, 2) {
		t.Errorf("window.From = %s, want 2025-07-02", window.From)
	}
	if !window.Contains(cutoff) || !window.Contains(window.From) {
		t.Error("window boundaries must be inclusive")
	}
	if window.Contains(cutoff.Add(1)) || window.Contains(window.From.Add(-1)) {
		t.Error("window contains days outside its boundaries")
	}
	if window.Days() != 31 {
		t.Errorf("window.Days() = %d, want 31", window.Days())
	}
}

func TestPeriod_Range(t *testing.T) {
	d := NewDate(2025, time.June, 15)
	tests := []struct {
		period   Period
		from, to Date
	}{
		{Monthly, NewDate(2025, time.June, 1), NewDate(2025, time.June, 30)},
		{Quarterly, NewDate(2025, time.April, 1), NewDate(2025, time.June, 30)},
		{Yearly, NewDate(2025, time.January, 1), NewDate(2025, time.December, 31)},
	}
	for _, tt := range tests {
		r := tt.period.Range(d)
		if r.From != tt.from || r.To != tt.to {
			t.Errorf("%s.Range(%s) = %v, want %s to %s", tt.period, d, r, tt.from, tt.to)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	for _, s := range []string{"monthly", "month"} {
		if p, err := ParsePeriod(s); err != nil || p != Monthly {
			t.Errorf("ParsePeriod(%q) = %v, %v, want Monthly", s, p, err)
		}
	}
	if _, err := ParsePeriod("fortnightly"); err == nil {
		t.Error("ParsePeriod() accepted an unknown period")
	}
}
