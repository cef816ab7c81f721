package resilience

import (
	"testing"
	"time"
)

func TestNormalizeCircuitBreakerConfigFillsDefaults(t *testing.T) {
	t.Parallel()

	cfg := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true})

	if cfg.FailureThreshold != 5 {
		t.Fatalf("unexpected failure threshold %d", cfg.FailureThreshold)
	}
	if cfg.OpenTimeout != 30*time.Second {
		t.Fatalf("unexpected open timeout %s", cfg.OpenTimeout)
	}
	if cfg.HalfOpenMaxReq != 1 {
		t.Fatalf("unexpected half-open request cap %d", cfg.HalfOpenMaxReq)
	}
	if !cfg.Enabled {
		t.Fatal("normalize must not flip Enabled")
	}
}

func TestNormalizeCircuitBreakerConfigKeepsExplicitValues(t *testing.T) {
	t.Parallel()

	in := CircuitBreakerConfig{
		Enabled:          false,
		FailureThreshold: 3,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   2,
	}

	if got := NormalizeCircuitBreakerConfig(in); got != in {
		t.Fatalf("explicit values must survive, got %+v", got)
	}
}
