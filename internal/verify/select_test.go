package verify

import (
	"testing"

	"medcheck/internal/model"
)

func rec(id string) model.EvidenceRecord {
	return model.EvidenceRecord{ID: id, Title: "t", Text: "x"}
}

func TestSelectTop_OrdersAndFilters(t *testing.T) {
	records := []model.EvidenceRecord{rec("a"), rec("b"), rec("c")}
	scores := []float64{0.8, -0.1, 0.3}

	got := SelectTop(records, scores, 10)

	if len(got) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("wrong order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Score != 0.8 || got[1].Score != 0.3 {
		t.Errorf("scores not carried: %v, %v", got[0].Score, got[1].Score)
	}
}

func TestSelectTop_DropsZeroScores(t *testing.T) {
	records := []model.EvidenceRecord{rec("a"), rec("b")}
	got := SelectTop(records, []float64{0, 0.5}, 10)

	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("expected only b to survive, got %v", got)
	}
}

func TestSelectTop_CapsAtTopK(t *testing.T) {
	records := make([]model.EvidenceRecord, 15)
	scores := make([]float64, 15)
	for i := range records {
		records[i] = rec(string(rune('a' + i)))
		scores[i] = float64(15 - i) // already descending
	}

	got := SelectTop(records, scores, 10)
	if len(got) != 10 {
		t.Fatalf("expected 10, got %d", len(got))
	}
	if got[0].ID != "a" {
		t.Errorf("highest score not first: %s", got[0].ID)
	}
}

func TestSelectTop_StableOnTies(t *testing.T) {
	records := []model.EvidenceRecord{rec("a"), rec("b"), rec("c")}
	got := SelectTop(records, []float64{0.5, 0.5, 0.5}, 10)

	if got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Errorf("tie order changed: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestSelectTop_Idempotent(t *testing.T) {
	records := []model.EvidenceRecord{rec("a"), rec("b"), rec("c"), rec("d")}
	scores := []float64{0.2, 0.9, -1, 0.4}

	first := SelectTop(records, scores, 3)

	recs := make([]model.EvidenceRecord, len(first))
	again := make([]float64, len(first))
	for i, item := range first {
		recs[i] = item.EvidenceRecord
		again[i] = item.Score
	}
	second := SelectTop(recs, again, 3)

	if len(second) != len(first) {
		t.Fatalf("length changed on reapplication: %d vs %d", len(second), len(first))
	}
	for i := range first {
		if second[i].ID != first[i].ID || second[i].Score != first[i].Score {
			t.Errorf("item %d changed: %v vs %v", i, second[i], first[i])
		}
	}
}

func TestSelectTop_Empty(t *testing.T) {
	got := SelectTop(nil, nil, 10)
	if len(got) != 0 {
		t.Fatalf("expected empty, got %d", len(got))
	}
}
