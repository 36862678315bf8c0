package core

import (
	"strconv"
	"strings"
)

// Tuition fee tiers in whole Kyat.
const (
	FeeExam    Amount = 70000 // KET, PET, FCE
	FeeMath    Amount = 55000 // Math-1, Math-4, Math-6
	FeeDefault Amount = 65000 // Pre-Starters through Flyers
)

// FeeFor returns the canonical per-level tuition fee. It is the default
// for payment entry; it never validates or clamps an already-recorded
// payment's amount.
func FeeFor(l Level) Amount {
	if info, ok := levelTable[l]; ok {
		return info.fee
	}
	return FeeForName(string(l))
}

// FeeForName resolves a fee from a free-form level name,
// case-insensitive, first match wins. Total: anything unrecognized
// falls to the default tier.
func FeeForName(name string) Amount {
	l := strings.ToLower(name)
	switch {
	case strings.Contains(l, "ket"), strings.Contains(l, "pet"), strings.Contains(l, "fce"):
		return FeeExam
	case strings.Contains(l, "math"):
		return FeeMath
	}
	return FeeDefault
}

// FormatKyat renders an amount with thousands separators and the Ks
// suffix, e.g. "70,000 Ks".
func FormatKyat(a Amount) string {
	neg := a < 0
	if neg {
		a = -a
	}
	s := strconv.FormatInt(int64(a), 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + " Ks"
	if neg {
		return "-" + out
	}
	return out
}
