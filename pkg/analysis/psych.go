// Package analysis implements the scoring pipeline: psychological tactic
// detection, profile risk rules, the tiered chat analyzer and verdict
// fusion. Everything here is a pure computation over its inputs; callers
// can run analyses concurrently without synchronization.
package analysis

import (
	"strings"

	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/keywords"
)

// Tactic names as they appear in reports.
const (
	TacticLoveBombing = "Love Bombing"
	TacticUrgency     = "Urgency & Pressure"
	TacticSecrecy     = "Secrecy & Isolation"
)

// Per-hit weights. Secrecy is weighted highest: isolating the target from
// their support network is the single strongest manipulation signal.
const (
	loveBombingWeight = 15
	urgencyWeight     = 20
	secrecyWeight     = 30

	// Extra score when declarations of love pile up in a short conversation.
	earlyLoveBonus      = 20
	earlyLoveWindow     = 20
	earlyLoveDeclLimit  = 2
	earlyLoveAnnotation = "Multiple declarations of 'love' in a very short conversation."
)

// TacticResult is one detected manipulation tactic with its evidence.
type TacticResult struct {
	Score    int      `json:"score"`
	Evidence []string `json:"evidence"`
}

// PsychAnalysis aggregates all detected tactics. A tactic with no evidence
// is omitted from the map entirely; absence means zero.
type PsychAnalysis struct {
	Tactics        map[string]TacticResult `json:"tactics,omitempty"`
	TotalRiskScore int                     `json:"total_risk_score"`
}

// detectTactic scans the transcript for one tactic's phrase list. Evidence
// is the original messages containing each hit, deduplicated in first-seen
// order.
func detectTactic(reg *keywords.Registry, cat keywords.Category, messages []string, perHit int) (int, []string) {
	fullText := strings.ToLower(strings.Join(messages, " "))

	score := 0
	var evidence []string
	seen := map[string]bool{}

	for _, phrase := range reg.FindAll(cat, fullText) {
		score += perHit
		for _, msg := range messages {
			if strings.Contains(strings.ToLower(msg), phrase) && !seen[msg] {
				seen[msg] = true
				evidence = append(evidence, msg)
			}
		}
	}
	return score, evidence
}

// detectLoveBombing adds the "too fast" heuristic on top of the phrase scan:
// repeated declarations of love inside a short conversation.
func detectLoveBombing(reg *keywords.Registry, messages []string) (int, []string) {
	score, evidence := detectTactic(reg, keywords.CategoryLoveBombing, messages, loveBombingWeight)

	fullText := strings.ToLower(strings.Join(messages, " "))
	if len(messages) < earlyLoveWindow && strings.Count(fullText, "love you") > earlyLoveDeclLimit {
		score += earlyLoveBonus
		evidence = append(evidence, earlyLoveAnnotation)
	}
	return score, evidence
}

// AnalyzePsychologicalPatterns runs all tactic detectors over the transcript
// and sums their scores.
func AnalyzePsychologicalPatterns(reg *keywords.Registry, messages []string) PsychAnalysis {
	result := PsychAnalysis{}

	add := func(name string, score int, evidence []string) {
		if len(evidence) == 0 {
			return
		}
		if result.Tactics == nil {
			result.Tactics = map[string]TacticResult{}
		}
		result.Tactics[name] = TacticResult{Score: score, Evidence: evidence}
		result.TotalRiskScore += score
	}

	lbScore, lbEvidence := detectLoveBombing(reg, messages)
	add(TacticLoveBombing, lbScore, lbEvidence)

	urgScore, urgEvidence := detectTactic(reg, keywords.CategoryUrgency, messages, urgencyWeight)
	add(TacticUrgency, urgScore, urgEvidence)

	secScore, secEvidence := detectTactic(reg, keywords.CategorySecrecy, messages, secrecyWeight)
	add(TacticSecrecy, secScore, secEvidence)

	return result
}
