package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	l := NewLimiter(1, 2)

	// Burst of 2 should pass, the third is throttled
	if !l.Allow("pubmed") {
		t.Error("first request should be allowed")
	}
	if !l.Allow("pubmed") {
		t.Error("second request should be allowed within burst")
	}
	if l.Allow("pubmed") {
		t.Error("third request should be throttled")
	}
}

func TestLimiter_ServicesAreIndependent(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("pubmed") {
		t.Error("pubmed request should be allowed")
	}
	// Exhausting pubmed must not affect the completion service
	if !l.Allow("completion") {
		t.Error("completion request should be allowed")
	}
}

func TestLimiter_SetServiceRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.SetServiceRate("completion", 100, 10)

	allowed := 0
	for i := 0; i < 5; i++ {
		if l.Allow("completion") {
			allowed++
		}
	}
	if allowed != 5 {
		t.Errorf("expected 5 allowed with burst 10, got %d", allowed)
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow("slow") // drain the bucket

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "slow"); err == nil {
		t.Error("expected context deadline error")
	}
}
