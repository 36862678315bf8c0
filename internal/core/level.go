// Package core holds the edupay domain model: students, payments, the
// persisted document, and the static level configuration that drives
// fees and report bucketing.
package core

import "strings"

// Level is a class offering a student is enrolled in. The set is
// closed, but data written by older schema versions may carry names
// outside it; lookups on unknown levels never fail, they fall back to
// substring matching.
type Level string

const (
	PreStarters Level = "Pre-Starters"
	Starters    Level = "Starters"
	Starters1   Level = "Starters 1"
	Starters2   Level = "Starters 2"
	Movers      Level = "Movers"
	Movers1     Level = "Movers 1"
	Movers2     Level = "Movers 2"
	PreFlyers   Level = "Pre-flyers"
	Flyers      Level = "Flyers"
	Flyers1     Level = "Flyers1"
	Flyers2     Level = "Flyers2"
	KET1        Level = "KET-1"
	KET2        Level = "KET-2"
	PET         Level = "PET"
	FCE         Level = "FCE"
	Math1       Level = "Math-1"
	Math4       Level = "Math-4"
	Math6       Level = "Math-6"
)

// SummaryBucket is one of the canonical categories the monthly report
// tables collapse levels into. Other is tracked during aggregation but
// excluded from the fixed-width tables.
type SummaryBucket string

const (
	BucketPreStarters SummaryBucket = "Pre-starters"
	BucketStarters    SummaryBucket = "Starters"
	BucketMovers      SummaryBucket = "Movers"
	BucketFlyers      SummaryBucket = "Flyers"
	BucketKET         SummaryBucket = "KET"
	BucketPET         SummaryBucket = "PET"
	BucketFCE         SummaryBucket = "FCE"
	BucketMath1       SummaryBucket = "Math-1"
	BucketMath4       SummaryBucket = "Math-4"
	BucketMath6       SummaryBucket = "Math-6"
	BucketOther       SummaryBucket = "Other"
)

// SummaryBuckets lists the ten report columns in display order.
var SummaryBuckets = []SummaryBucket{
	BucketPreStarters, BucketStarters, BucketMovers, BucketFlyers,
	BucketKET, BucketPET, BucketFCE, BucketMath1, BucketMath4, BucketMath6,
}

type levelInfo struct {
	fee      Amount
	bucket   SummaryBucket
	days     []DayType
	teachers map[DayType]string
}

// levelTable is the single source of truth for per-level configuration.
// The substring matchers in fees.go and bucketForName exist only for
// names outside this table.
var levelTable = map[Level]levelInfo{
	PreStarters: {fee: FeeDefault, bucket: BucketPreStarters, days: []DayType{Weekday, Weekend},
		teachers: map[DayType]string{Weekday: "Tr. Phoo", Weekend: "Tr. Phoo"}},
	Starters: {fee: FeeDefault, bucket: BucketStarters, days: []DayType{Weekday},
		teachers: map[DayType]string{Weekday: "Tr. Phyo"}},
	Starters1: {fee: FeeDefault, bucket: BucketStarters, days: []DayType{Weekend},
		teachers: map[DayType]string{Weekend: "Tr. Phyo"}},
	Starters2: {fee: FeeDefault, bucket: BucketStarters, days: []DayType{Weekend},
		teachers: map[DayType]string{Weekend: "Tr. Yadanar"}},
	Movers: {fee: FeeDefault, bucket: BucketMovers, days: []DayType{Weekday},
		teachers: map[DayType]string{Weekday: "Tr. Nyein"}},
	Movers1: {fee: FeeDefault, bucket: BucketMovers, days: []DayType{Weekend},
		teachers: map[DayType]string{Weekend: "Tr. Nyein"}},
	Movers2: {fee: FeeDefault, bucket: BucketMovers, days: []DayType{Weekend},
		teachers: map[DayType]string{Weekend: "Tr. Athena"}},
	// Pre-flyers reports under the Flyers column. The legacy matchers
	// disagreed here; this table is the canonical mapping.
	PreFlyers: {fee: FeeDefault, bucket: BucketFlyers, days: []DayType{Weekday, Weekend},
		teachers: map[DayType]string{Weekday: "Tr. Elora", Weekend: "Tr. Elora"}},
	Flyers: {fee: FeeDefault, bucket: BucketFlyers, days: []DayType{Weekend},
		teachers: map[DayType]string{Weekend: "Tr. Yamin"}},
	Flyers1: {fee: FeeDefault, bucket: BucketFlyers, days: []DayType{Weekday},
		teachers: map[DayType]string{Weekday: "Tr. Ko Myo"}},
	Flyers2: {fee: FeeDefault, bucket: BucketFlyers, days: []DayType{Weekday},
		teachers: map[DayType]string{Weekday: "Tr. Shwe Sin"}},
	KET1: {fee: FeeExam, bucket: BucketKET, days: []DayType{Weekday, Weekend},
		teachers: map[DayType]string{Weekday: "Tr. Phoo Phoo", Weekend: "Tr. Samuel"}},
	KET2: {fee: FeeExam, bucket: BucketKET, days: []DayType{Weekday, Weekend},
		teachers: map[DayType]string{Weekday: "Tr. Yadanar", Weekend: "Tr. Athena"}},
	PET: {fee: FeeExam, bucket: BucketPET, days: []DayType{Weekday, Weekend},
		teachers: map[DayType]string{Weekday: "Tr. Ko Myo", Weekend: "Tr. Ei Phyo"}},
	FCE: {fee: FeeExam, bucket: BucketFCE, days: []DayType{Weekend},
		teachers: map[DayType]string{Weekend: "Tr. Ko Myo"}},
	Math1: {fee: FeeMath, bucket: BucketMath1, days: []DayType{Weekend},
		teachers: map[DayType]string{Weekend: "Tr. Sweety"}},
	Math4: {fee: FeeMath, bucket: BucketMath4, days: []DayType{Weekend},
		teachers: map[DayType]string{Weekend: "Tr. Khat"}},
	Math6: {fee: FeeMath, bucket: BucketMath6, days: []DayType{Weekend},
		teachers: map[DayType]string{Weekend: "Tr. Su Htet"}},
}

// weekdayLevels and weekendLevels are the offerings per schedule, in
// enrollment-form order.
var (
	weekdayLevels = []Level{
		PreStarters, Starters, Movers, Flyers1, Flyers2, PreFlyers,
		KET1, KET2, PET,
	}
	weekendLevels = []Level{
		PreStarters, Starters1, Starters2, Movers1, Movers2, Flyers,
		PreFlyers, KET1, KET2, PET, FCE, Math1, Math4, Math6,
	}
)

// LevelsFor returns the offerings available for a given day type.
func LevelsFor(day DayType) []Level {
	var src []Level
	if day == Weekend {
		src = weekendLevels
	} else {
		src = weekdayLevels
	}
	out := make([]Level, len(src))
	copy(out, src)
	return out
}

// KnownLevel reports whether l is part of the closed enumeration.
func KnownLevel(l Level) bool {
	_, ok := levelTable[l]
	return ok
}

// ValidFor reports whether level l may be assigned to a student with
// the given day type.
func ValidFor(l Level, day DayType) bool {
	info, ok := levelTable[l]
	if !ok {
		return false
	}
	for _, d := range info.days {
		if d == day {
			return true
		}
	}
	return false
}

// TeacherFor returns the assigned teacher for a level on a given day
// type, or a dash when none is configured.
func TeacherFor(l Level, day DayType) string {
	if info, ok := levelTable[l]; ok {
		if t, ok := info.teachers[day]; ok {
			return t
		}
	}
	return "—"
}

// BucketFor maps a level to its summary bucket. Unknown levels go
// through the substring matcher so stale data still lands somewhere.
func BucketFor(l Level) SummaryBucket {
	if info, ok := levelTable[l]; ok {
		return info.bucket
	}
	return bucketForName(string(l))
}

// bucketForName is the legacy matcher: case-insensitive, first match
// wins. Kept only for category names outside the level table.
func bucketForName(name string) SummaryBucket {
	l := strings.ToLower(name)
	switch {
	case strings.Contains(l, "pre-starters"):
		return BucketPreStarters
	case strings.Contains(l, "starters"):
		return BucketStarters
	case strings.Contains(l, "movers"):
		return BucketMovers
	case strings.Contains(l, "flyers"):
		return BucketFlyers
	case strings.Contains(l, "ket"):
		return BucketKET
	case strings.Contains(l, "pet"):
		return BucketPET
	case strings.Contains(l, "fce"):
		return BucketFCE
	case l == "math-1":
		return BucketMath1
	case l == "math-4":
		return BucketMath4
	case l == "math-6":
		return BucketMath6
	}
	return BucketOther
}
