package retry

import (
	"testing"
	"time"
)

func TestFixedBackoff(t *testing.T) {
	delay := 100 * time.Millisecond
	backoff := NewFixedBackoff(delay)

	for _, attempt := range []int{1, 2, 3, 10} {
		if got := backoff.NextDelay(attempt); got != delay {
			t.Errorf("NextDelay(%d) = %v, want %v", attempt, got, delay)
		}
	}
}

func TestExponentialBackoff(t *testing.T) {
	backoff := NewExponentialBackoff(100*time.Millisecond,
		WithMultiplier(2.0),
		WithMaxDelay(1*time.Second))

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, 1000 * time.Millisecond},  // Limited by max delay
		{10, 1000 * time.Millisecond}, // Limited by max delay
	}

	for _, tt := range tests {
		if got := backoff.NextDelay(tt.attempt); got != tt.want {
			t.Errorf("NextDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestExponentialBackoff_Defaults(t *testing.T) {
	backoff := NewExponentialBackoff(time.Second)

	if backoff.multiplier != 2.0 {
		t.Errorf("Expected default multiplier 2, got %v", backoff.multiplier)
	}
	if backoff.maxDelay != 30*time.Second {
		t.Errorf("Expected default max delay 30s, got %v", backoff.maxDelay)
	}
	if got := backoff.NextDelay(1000); got != 30*time.Second {
		t.Errorf("Expected huge attempt to be capped at 30s, got %v", got)
	}
}

func TestJitter(t *testing.T) {
	delay := 100 * time.Millisecond

	for i := 0; i < 100; i++ {
		if got := FullJitter(delay); got < 0 || got >= delay {
			t.Fatalf("FullJitter(%v) = %v, out of range", delay, got)
		}
		if got := EqualJitter(delay); got < delay/2 || got >= delay {
			t.Fatalf("EqualJitter(%v) = %v, out of range", delay, got)
		}
	}

	if got := FullJitter(0); got != 0 {
		t.Errorf("FullJitter(0) = %v, want 0", got)
	}
	if got := EqualJitter(1); got != 1 {
		t.Errorf("EqualJitter(1) = %v, want 1", got)
	}
}

func TestBackoffWithJitter(t *testing.T) {
	fixed := NewFixedBackoff(time.Second, WithJitter(FullJitter))
	exp := NewExponentialBackoff(time.Second, WithJitter(EqualJitter), WithMaxDelay(4*time.Second))

	for attempt := 1; attempt <= 5; attempt++ {
		if got := fixed.NextDelay(attempt); got >= time.Second {
			t.Errorf("fixed NextDelay(%d) = %v, expected jittered below 1s", attempt, got)
		}
		if got := exp.NextDelay(attempt); got > 4*time.Second {
			t.Errorf("exponential NextDelay(%d) = %v, expected at most 4s", attempt, got)
		}
	}
}
