// Package config holds runtime settings for the Sentinel analyzer. All
// values can be set via environment variables or programmatically; scoring
// packages receive the pieces they need instead of reading the environment
// themselves.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ScoringWeights are the tunable coefficients of the scoring pipeline.
// The boost coefficients and fusion weights came out of empirical tuning
// rather than a closed-form rationale, so they live here as configuration
// and can be recalibrated without touching the fusion logic.
type ScoringWeights struct {
	// Verdict fusion: primary*0.60 + profile*0.20 + psych*0.20 by default.
	PrimaryThreatWeight float64
	ProfileWeight       float64
	PsychWeight         float64

	// Psychological boost applied to chat confidences when the tactic score
	// is positive: targeted categories (sextortion, tech lure) get the full
	// coefficient, spam the reduced one.
	PsychBoostTargeted float64
	PsychBoostSpam     float64
}

// Config holds global settings for the Sentinel service.
type Config struct {
	// === Service ===
	ListenAddr string // HTTP listen address (default: ":8470")
	VocabPath  string // Optional YAML vocabulary override file

	// === Scoring ===
	Weights          ScoringWeights
	ClassifierWindow int // Messages fed to the anomaly classifier (default: 5)

	// === External collaborators ===
	ClassifierURL     string        // HTTP anomaly classifier endpoint ("" = disabled)
	ExtractorURL      string        // HTTP entity extractor endpoint ("" = disabled)
	ClassifierTimeout time.Duration // Per-call budget for classifier/extractor (default: 10s)

	// === Decoy responder (OpenAI-compatible chat completions) ===
	ResponderBaseURL     string
	ResponderAPIKey      string
	ResponderModel       string
	ResponderTemperature float64
	ResponderTimeout     time.Duration

	// === Session store ===
	RedisAddr     string        // "" = in-memory store
	RedisPassword string
	SessionTTL    time.Duration // Idle session expiry (default: 24h)

	// === Engagement archive (optional) ===
	PostgresDSN string // "" = archiving disabled
}

// DefaultWeights returns the calibrated production coefficients.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		PrimaryThreatWeight: 0.60,
		ProfileWeight:       0.20,
		PsychWeight:         0.20,
		PsychBoostTargeted:  0.20,
		PsychBoostSpam:      0.10,
	}
}

// NewDefaultConfig creates a Config with sensible defaults, overridable via
// SENTINEL_* environment variables.
func NewDefaultConfig() *Config {
	return &Config{
		ListenAddr: GetEnv("SENTINEL_LISTEN_ADDR", ":8470"),
		VocabPath:  GetEnv("SENTINEL_VOCAB_PATH", ""),

		Weights: ScoringWeights{
			PrimaryThreatWeight: GetEnvFloat("SENTINEL_WEIGHT_PRIMARY", 0.60),
			ProfileWeight:       GetEnvFloat("SENTINEL_WEIGHT_PROFILE", 0.20),
			PsychWeight:         GetEnvFloat("SENTINEL_WEIGHT_PSYCH", 0.20),
			PsychBoostTargeted:  GetEnvFloat("SENTINEL_PSYCH_BOOST_TARGETED", 0.20),
			PsychBoostSpam:      GetEnvFloat("SENTINEL_PSYCH_BOOST_SPAM", 0.10),
		},
		ClassifierWindow: GetEnvInt("SENTINEL_CLASSIFIER_WINDOW", 5),

		ClassifierURL:     GetEnv("SENTINEL_CLASSIFIER_URL", ""),
		ExtractorURL:      GetEnv("SENTINEL_EXTRACTOR_URL", ""),
		ClassifierTimeout: time.Duration(GetEnvInt("SENTINEL_CLASSIFIER_TIMEOUT_MS", 10000)) * time.Millisecond,

		ResponderBaseURL:     GetEnv("SENTINEL_RESPONDER_BASE_URL", "http://localhost:11434/v1"),
		ResponderAPIKey:      GetEnv("SENTINEL_RESPONDER_API_KEY", ""),
		ResponderModel:       GetEnv("SENTINEL_RESPONDER_MODEL", "qwen2.5:7b"),
		ResponderTemperature: GetEnvFloat("SENTINEL_RESPONDER_TEMPERATURE", 0.8),
		ResponderTimeout:     time.Duration(GetEnvInt("SENTINEL_RESPONDER_TIMEOUT_MS", 30000)) * time.Millisecond,

		RedisAddr:     GetEnv("SENTINEL_REDIS_ADDR", ""),
		RedisPassword: GetEnv("SENTINEL_REDIS_PASSWORD", ""),
		SessionTTL:    time.Duration(GetEnvInt("SENTINEL_SESSION_TTL_SECONDS", 86400)) * time.Second,

		PostgresDSN: GetEnv("SENTINEL_POSTGRES_DSN", ""),
	}
}

// Validate checks invariants that would otherwise surface as nonsense scores
// deep in the pipeline.
func (c *Config) Validate() error {
	var problems []string

	w := c.Weights
	sum := w.PrimaryThreatWeight + w.ProfileWeight + w.PsychWeight
	if sum <= 0 {
		problems = append(problems, "fusion weights must sum to a positive value")
	}
	for name, v := range map[string]float64{
		"SENTINEL_WEIGHT_PRIMARY":       w.PrimaryThreatWeight,
		"SENTINEL_WEIGHT_PROFILE":       w.ProfileWeight,
		"SENTINEL_WEIGHT_PSYCH":         w.PsychWeight,
		"SENTINEL_PSYCH_BOOST_TARGETED": w.PsychBoostTargeted,
		"SENTINEL_PSYCH_BOOST_SPAM":     w.PsychBoostSpam,
	} {
		if v < 0 {
			problems = append(problems, name+" must be non-negative")
		}
	}
	if c.ClassifierWindow < 1 {
		problems = append(problems, "SENTINEL_CLASSIFIER_WINDOW must be at least 1")
	}
	if c.ClassifierTimeout <= 0 || c.ResponderTimeout <= 0 {
		problems = append(problems, "collaborator timeouts must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Helper functions for environment variable parsing.

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

// GetEnvFloat returns the float64 value of an environment variable or a default value.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an environment variable or a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}
