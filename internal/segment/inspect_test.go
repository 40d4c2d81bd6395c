package segment

import "testing"

func TestInspectCleanPlan(t *testing.T) {
	segments := []Segment{
		{Index: 1, StartMs: 0, EndMs: 10000, FileName: "01_a.mp3"},
		{Index: 2, StartMs: 10000, EndMs: 20000, FileName: "02_b.mp3"},
	}
	if got := Inspect(segments, 20000); len(got) != 0 {
		t.Fatalf("expected no anomalies, got %+v", got)
	}
}

func TestInspectReportsAnomalies(t *testing.T) {
	segments := []Segment{
		{Index: 1, StartMs: 0, EndMs: 12000, FileName: "same.mp3"},
		{Index: 2, StartMs: 10000, EndMs: 10000, FileName: "02_b.mp3"},
		{Index: 3, StartMs: 5000, EndMs: 25000, FileName: "same.mp3"},
	}
	got := Inspect(segments, 20000)

	want := map[AnomalyKind]int{
		AnomalyOverlap:    2,
		AnomalyEmpty:      2,
		AnomalyOutOfOrder: 3,
		AnomalyPastEnd:    3,
		AnomalyDuplicate:  3,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d anomalies, got %+v", len(want), got)
	}
	for _, anomaly := range got {
		index, ok := want[anomaly.Kind]
		if !ok || index != anomaly.Index {
			t.Fatalf("unexpected anomaly %+v", anomaly)
		}
		if anomaly.Detail == "" {
			t.Fatalf("expected detail for %+v", anomaly)
		}
	}
}
