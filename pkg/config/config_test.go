package config

import (
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	if w.PrimaryThreatWeight != 0.60 || w.ProfileWeight != 0.20 || w.PsychWeight != 0.20 {
		t.Fatalf("unexpected fusion weights: %+v", w)
	}
	if w.PsychBoostTargeted != 0.20 || w.PsychBoostSpam != 0.10 {
		t.Fatalf("unexpected boost coefficients: %+v", w)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative weight", func(c *Config) { c.Weights.ProfileWeight = -1 }},
		{"zero weight sum", func(c *Config) { c.Weights = ScoringWeights{} }},
		{"zero window", func(c *Config) { c.ClassifierWindow = 0 }},
		{"zero timeout", func(c *Config) { c.ClassifierTimeout = 0 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SENTINEL_WEIGHT_PRIMARY", "0.5")
	t.Setenv("SENTINEL_CLASSIFIER_TIMEOUT_MS", "2500")

	cfg := NewDefaultConfig()
	if cfg.Weights.PrimaryThreatWeight != 0.5 {
		t.Fatalf("env override ignored: %v", cfg.Weights.PrimaryThreatWeight)
	}
	if cfg.ClassifierTimeout != 2500*time.Millisecond {
		t.Fatalf("timeout override ignored: %v", cfg.ClassifierTimeout)
	}
}
