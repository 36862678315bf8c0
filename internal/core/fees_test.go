package core

import "testing"

func TestFeeForEveryLevel(t *testing.T) {
	// Every level resolves to exactly one of the three tiers, and the
	// result is stable across calls.
	for l := range levelTable {
		fee := FeeFor(l)
		switch fee {
		case FeeExam, FeeMath, FeeDefault:
		default:
			t.Fatalf("FeeFor(%q) = %d, not a known tier", l, fee)
		}
		if again := FeeFor(l); again != fee {
			t.Fatalf("FeeFor(%q) not deterministic", l)
		}
	}
}

func TestFeeTiers(t *testing.T) {
	cases := []struct {
		level Level
		want  Amount
	}{
		{KET1, 70000},
		{KET2, 70000},
		{PET, 70000},
		{FCE, 70000},
		{Math1, 55000},
		{Math4, 55000},
		{Math6, 55000},
		{PreStarters, 65000},
		{Starters2, 65000},
		{Movers1, 65000},
		{PreFlyers, 65000},
		{Flyers2, 65000},
	}
	for _, tc := range cases {
		if got := FeeFor(tc.level); got != tc.want {
			t.Fatalf("FeeFor(%q) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestFeeForName(t *testing.T) {
	// Substring fallback for names outside the table, first match wins.
	cases := []struct {
		name string
		want Amount
	}{
		{"KET-3", 70000},
		{"pet advanced", 70000},
		{"Math-9", 55000},
		{"Starters 3", 65000},
		{"", 65000},
	}
	for _, tc := range cases {
		if got := FeeForName(tc.name); got != tc.want {
			t.Fatalf("FeeForName(%q) = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestFormatKyat(t *testing.T) {
	cases := []struct {
		in   Amount
		want string
	}{
		{70000, "70,000 Ks"},
		{5000, "5,000 Ks"},
		{1234567, "1,234,567 Ks"},
		{0, "0 Ks"},
	}
	for _, tc := range cases {
		if got := FormatKyat(tc.in); got != tc.want {
			t.Fatalf("FormatKyat(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
