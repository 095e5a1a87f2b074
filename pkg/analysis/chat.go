package analysis

import (
	"context"
	"strings"

	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/classifier"
	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/config"
	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/keywords"
)

// Primary intent labels, in descending severity.
const (
	PrimarySextortion    = "Sextortion/Blackmail"
	PrimaryTechHoneytrap = "Tech Honeytrap/Scam"
	PrimarySpam          = "Spam/Scam"
	PrimaryNormal        = "Normal Conversation"
	PrimaryNone          = "N/A"
)

// Confidence tiers. Sextortion saturates higher than tech honeytraps:
// blackmail with three corroborating phrases is close to certain.
const (
	spamPerKeyword      = 10.0
	sextortionHighTier  = 95.0
	sextortionLowTier   = 60.0
	techHighTier        = 85.0
	techLowTier         = 50.0
	highTierMinHits     = 3
	primaryIntentFloor  = 50.0
	maxConfidence       = 100.0
	classifierConfScale = 100.0
)

// KeywordHits groups the lexical matches per threat category.
type KeywordHits struct {
	Spam       []string `json:"spam"`
	Sextortion []string `json:"sextortion"`
	Tech       []string `json:"tech"`
}

// ChatAnalysis is the full result of one transcript analysis. Every
// confidence lies in [0,100].
type ChatAnalysis struct {
	SpamConfidence          float64            `json:"spam_confidence_score"`
	SextortionConfidence    float64            `json:"sextortion_confidence_score"`
	TechHoneytrapConfidence float64            `json:"tech_honeytrap_score"`
	PrimaryIntent           string             `json:"primary_intent"`
	KeywordsFound           KeywordHits        `json:"keywords_found"`
	Psych                   PsychAnalysis      `json:"psychological_analysis"`
	Classifier              *classifier.Result `json:"raw_classifier_output"`
}

// ChatAnalyzer orchestrates lexical extraction, psychological tactic
// detection and the external classifier into per-category confidences and
// one primary intent.
type ChatAnalyzer struct {
	reg     *keywords.Registry
	clf     classifier.WindowClassifier // nil means no classifier configured
	weights config.ScoringWeights
	window  int
}

// NewChatAnalyzer creates an analyzer. clf may be nil; the classifier is
// advisory and lexical/psychological scoring runs without it.
func NewChatAnalyzer(reg *keywords.Registry, clf classifier.WindowClassifier, weights config.ScoringWeights, window int) *ChatAnalyzer {
	if window < 1 {
		window = 5
	}
	return &ChatAnalyzer{reg: reg, clf: clf, weights: weights, window: window}
}

// Analyze scores a transcript. An empty transcript yields an all-zero
// result with primary intent "N/A"; callers never see an error for it.
func (a *ChatAnalyzer) Analyze(ctx context.Context, messages []string) *ChatAnalysis {
	if len(messages) == 0 {
		return &ChatAnalysis{
			PrimaryIntent: PrimaryNone,
			KeywordsFound: KeywordHits{Spam: []string{}, Sextortion: []string{}, Tech: []string{}},
		}
	}

	fullText := strings.ToLower(strings.Join(messages, " "))
	spamHits := nonNil(a.reg.FindAll(keywords.CategorySpam, fullText))
	sextortionHits := nonNil(a.reg.FindAll(keywords.CategorySextortion, fullText))
	techHits := nonNil(a.reg.FindAll(keywords.CategoryTechLure, fullText))

	raw := a.classifyWindow(ctx, messages)

	psych := AnalyzePsychologicalPatterns(a.reg, messages)
	psychScore := float64(psych.TotalRiskScore)

	spamFromClassifier := 0.0
	if raw != nil && raw.Anomalous {
		spamFromClassifier = raw.Confidence * classifierConfScale
	}
	spamConfidence := max(spamFromClassifier, float64(len(spamHits))*spamPerKeyword)

	sextortionConfidence := tierConfidence(len(sextortionHits), sextortionHighTier, sextortionLowTier)
	techConfidence := tierConfidence(len(techHits), techHighTier, techLowTier)

	if psychScore > 0 {
		sextortionConfidence += psychScore * a.weights.PsychBoostTargeted
		techConfidence += psychScore * a.weights.PsychBoostTargeted
		spamConfidence += psychScore * a.weights.PsychBoostSpam
	}

	spamConfidence = clampConfidence(spamConfidence)
	sextortionConfidence = clampConfidence(sextortionConfidence)
	techConfidence = clampConfidence(techConfidence)

	primary := PrimaryNormal
	switch {
	case sextortionConfidence > primaryIntentFloor:
		primary = PrimarySextortion
	case techConfidence > primaryIntentFloor:
		primary = PrimaryTechHoneytrap
	case spamConfidence > primaryIntentFloor:
		primary = PrimarySpam
		if raw != nil && raw.Intent != "" {
			primary = raw.Intent
		}
	case raw != nil && raw.Intent != "" && raw.Intent != classifier.IntentNormal:
		primary = raw.Intent
	}

	return &ChatAnalysis{
		SpamConfidence:          spamConfidence,
		SextortionConfidence:    sextortionConfidence,
		TechHoneytrapConfidence: techConfidence,
		PrimaryIntent:           primary,
		KeywordsFound: KeywordHits{
			Spam:       spamHits,
			Sextortion: sextortionHits,
			Tech:       techHits,
		},
		Psych:      psych,
		Classifier: raw,
	}
}

// classifyWindow calls the external classifier on the most recent messages.
// Any failure degrades to "no signal".
func (a *ChatAnalyzer) classifyWindow(ctx context.Context, messages []string) *classifier.Result {
	if a.clf == nil {
		return nil
	}
	window := messages
	if len(window) > a.window {
		window = window[len(window)-a.window:]
	}
	raw, err := a.clf.Classify(ctx, window)
	if err != nil {
		return nil
	}
	return raw
}

func tierConfidence(hits int, high, low float64) float64 {
	switch {
	case hits >= highTierMinHits:
		return high
	case hits > 0:
		return low
	default:
		return 0
	}
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > maxConfidence {
		return maxConfidence
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
