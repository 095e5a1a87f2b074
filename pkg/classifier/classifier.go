// Package classifier defines the contract to the semantic anomaly classifier
// and entity extractor, plus the available backends. The classifier is
// advisory: every backend can fail or be absent, and the chat analyzer
// degrades to lexical/psychological scoring when it does.
package classifier

import "context"

// Intent labels a classifier may emit. "probing" and "technical" are the
// anomalous conversational modes: the adversary steering small talk toward
// infrastructure and access questions.
const (
	IntentFlirty    = "flirty"
	IntentCasual    = "casual"
	IntentTechnical = "technical"
	IntentProbing   = "probing"
	IntentNormal    = "normal"
)

// AnomalyThreshold is the minimum confidence at which a probing/technical
// intent counts as an anomaly.
const AnomalyThreshold = 0.85

// Result is the classifier output for one message window.
type Result struct {
	Intent     string   `json:"intent"`
	Confidence float64  `json:"confidence"` // 0.0-1.0
	Anomalous  bool     `json:"anomaly"`
	Keywords   []string `json:"keywords,omitempty"`       // tech-probe keywords seen in the window
	Entities   []string `json:"named_entities,omitempty"` // auxiliary, never scored
}

// WindowClassifier classifies a window of recent messages (newest last).
type WindowClassifier interface {
	Classify(ctx context.Context, window []string) (*Result, error)
}

// EntityExtractor returns named entities found in text. Used only for
// reporting alongside a verdict.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// anomalousIntent reports whether an intent label plus confidence crosses
// the anomaly line.
func anomalousIntent(intent string, confidence float64) bool {
	return (intent == IntentProbing || intent == IntentTechnical) &&
		confidence > AnomalyThreshold
}
