package rebalance

import "testing"

func TestMoney_String(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{USD(1234.56), "$1,234.56"},
		{USD(-20), "-$20.00"},
		{NO(5), "$5.00"}, // weak currency formats as USD
		{M(3, "EUR"), "€3.00"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestMoney_WeakCurrency(t *testing.T) {
	sum := NO(5).Add(USD(10))
	if sum.Currency() != "USD" {
		t.Errorf("weak currency did not adopt USD: %q", sum.Currency())
	}
	if !sum.Equal(USD(15)) {
		t.Errorf("sum = %s, want %s", sum, USD(15))
	}
}

func TestMoney_MismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("mixing USD and EUR did not panic")
		}
	}()
	_ = USD(1).Add(M(1, "EUR"))
}

func TestMoney_UnderCent(t *testing.T) {
	tests := []struct {
		m    Money
		want bool
	}{
		{USD(0.009), true},
		{USD(-0.009), true},
		{USD(0.01), false},
		{USD(-5), false},
		{Money{}, true},
	}
	for _, tt := range tests {
		if got := tt.m.UnderCent(); got != tt.want {
			t.Errorf("UnderCent(%s) = %v, want %v", tt.m, got, tt.want)
		}
	}
}

func TestMoney_MinMax(t *testing.T) {
	a, b := USD(3), USD(7)
	if !a.Min(b).Equal(a) || !b.Min(a).Equal(a) {
		t.Errorf("Min() broken")
	}
	if !a.Max(b).Equal(b) || !b.Max(a).Equal(b) {
		t.Errorf("Max() broken")
	}
}

func TestMoney_MulDiv(t *testing.T) {
	price := USD(100)
	if got := price.Mul(Q(2.5)); !got.Equal(USD(250)) {
		t.Errorf("Mul() = %s, want %s", got, USD(250))
	}
	if got := USD(250).DivPrice(price); !got.Equal(Q(2.5)) {
		t.Errorf("DivPrice() = %s, want 2.5", got)
	}
	// the quantity-money product is exact, not a float approximation
	if got := USD(0.1).Mul(Q(3)); !got.Equal(USD(0.3)) {
		t.Errorf("Mul() = %s, want exactly %s", got, USD(0.3))
	}
}

func TestMoney_SignedString(t *testing.T) {
	if got := USD(5).SignedString(); got != "+$5.00" {
		t.Errorf("SignedString() = %q, want +$5.00", got)
	}
	if got := USD(-5).SignedString(); got != "-$5.00" {
		t.Errorf("SignedString() = %q, want -$5.00", got)
	}
	if got := (Money{}).SignedString(); got != "-" {
		t.Errorf("SignedString() = %q, want -", got)
	}
}
