package model

import "testing"

func classified(stance Stance) ClassifiedEvidence {
	return ClassifiedEvidence{Stance: stance}
}

func TestAggregate_ExcludesInvalid(t *testing.T) {
	items := []ClassifiedEvidence{
		classified(StanceEntails),
		classified(StanceInvalid),
		classified(StanceContradicts),
		classified(StanceEntails),
	}

	dist := Aggregate(items)

	if dist[StanceEntails] != 2 {
		t.Errorf("expected 2 Entails, got %d", dist[StanceEntails])
	}
	if dist[StanceContradicts] != 1 {
		t.Errorf("expected 1 Contradicts, got %d", dist[StanceContradicts])
	}
	if _, ok := dist[StanceInvalid]; ok {
		t.Error("Invalid must not appear in the distribution")
	}
	if dist.Total() != 3 {
		t.Errorf("expected total 3, got %d", dist.Total())
	}
}

func TestAggregate_Empty(t *testing.T) {
	dist := Aggregate(nil)
	if dist.Total() != 0 {
		t.Errorf("expected empty distribution, got total %d", dist.Total())
	}
}
