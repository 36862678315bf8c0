package google

import (
	"testing"

	"edupay/internal/core"
	"edupay/internal/reports"
)

func sampleMonth() (reports.MonthlySummary, reports.SheetMatrix) {
	students := []core.Student{
		{ID: "s1", EnglishName: "Aung Aung", Category: core.KET1, DayType: core.Weekday, IsActive: true},
		{ID: "s2", EnglishName: "Su Su", Category: core.Flyers, DayType: core.Weekend, IsActive: true},
	}
	payments := []core.Payment{
		{ID: "p1", StudentID: "s1", Month: "2024-03", Date: "2024-03-05", Amount: 70000, Method: core.Cash, SheetNo: 3},
		{ID: "p2", StudentID: "s2", Month: "2024-03", Date: "2024-03-09", Amount: 65000, Method: core.KPay, SheetNo: 3},
	}
	return reports.Summarize(students, payments, "2024-03"),
		reports.BuildSheetMatrix(students, payments, "2024-03")
}

func TestSummarySheetName(t *testing.T) {
	c := &Client{summaryBase: "Summary"}
	if got := c.summarySheetName("2024-03"); got != "Summary 2024-03" {
		t.Fatalf("summarySheetName = %q, want %q", got, "Summary 2024-03")
	}
}

func TestBuildSummaryRows(t *testing.T) {
	summary, matrix := sampleMonth()
	values := buildSummaryRows(summary, matrix)

	// Title, blank, header, 10 buckets, two total rows, blank, matrix
	// title, matrix header, 20 sheet rows, matrix footer.
	want := 3 + len(core.SummaryBuckets) + 2 + 2 + 1 + core.MaxSheetNo + 1
	if len(values) != want {
		t.Fatalf("row count = %d, want %d", len(values), want)
	}

	if values[0][0] != "Monthly Summary" || values[0][1] != "2024-03" {
		t.Fatalf("unexpected title row: %v", values[0])
	}

	// KET row sits at header offset + bucket position.
	ketRow := values[3+bucketIndex(core.BucketKET)]
	if ketRow[0] != string(core.BucketKET) || ketRow[1] != 1 {
		t.Fatalf("unexpected KET row: %v", ketRow)
	}

	totals := values[3+len(core.SummaryBuckets)]
	if totals[1] != 1 || totals[2] != 1 || totals[3] != 2 {
		t.Fatalf("unexpected totals row: %v", totals)
	}

	amounts := values[3+len(core.SummaryBuckets)+1]
	if amounts[3] != int64(135000) {
		t.Fatalf("gross amount = %v, want 135000", amounts[3])
	}
}

func TestBuildSummaryRows_AppendsOtherBucket(t *testing.T) {
	// A payment pointing at a deleted student lands in Other.
	payments := []core.Payment{
		{ID: "p1", StudentID: "ghost", Month: "2024-03", Date: "2024-03-05", Amount: 50000, Method: core.Cash, SheetNo: 1},
	}
	summary := reports.Summarize(nil, payments, "2024-03")
	matrix := reports.BuildSheetMatrix(nil, payments, "2024-03")

	values := buildSummaryRows(summary, matrix)

	otherRow := values[3+len(core.SummaryBuckets)]
	if otherRow[0] != string(core.BucketOther) || otherRow[1] != 1 {
		t.Fatalf("expected Other bucket row, got %v", otherRow)
	}
}

func bucketIndex(b core.SummaryBucket) int {
	for i, x := range core.SummaryBuckets {
		if x == b {
			return i
		}
	}
	return -1
}
