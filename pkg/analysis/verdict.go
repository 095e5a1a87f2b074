package analysis

import "github.com/IshitaSinghFaujdar/honeytrapper/pkg/config"

// Report is the complete result shown to the operator for one
// profile/transcript pair.
type Report struct {
	ProfileScore   int           `json:"profile_risk_score"` // 0-10
	ProfileReasons []string      `json:"profile_risk_reasons"`
	Chat           *ChatAnalysis `json:"chat_analysis"`
	FinalVerdict   float64       `json:"final_verdict"` // 0-100
	Entities       []string      `json:"named_entities,omitempty"`
}

// CalculateFinalVerdict fuses the profile score and chat analysis into one
// 0-100 verdict. The primary detected chat threat carries the most weight:
// profile signals are circumstantial, chat content is direct evidence.
func CalculateFinalVerdict(profileScore int, chat *ChatAnalysis, w config.ScoringWeights) float64 {
	profileScore100 := float64(profileScore) * 10

	var primaryThreatScore float64
	switch chat.PrimaryIntent {
	case PrimarySextortion:
		primaryThreatScore = chat.SextortionConfidence
	case PrimaryTechHoneytrap:
		primaryThreatScore = chat.TechHoneytrapConfidence
	default:
		primaryThreatScore = chat.SpamConfidence
	}

	// The psych score already boosted the chat confidences; capped here so
	// it cannot dominate the verdict on its own.
	cappedPsych := float64(chat.Psych.TotalRiskScore)
	if cappedPsych > 100 {
		cappedPsych = 100
	}

	verdict := primaryThreatScore*w.PrimaryThreatWeight +
		profileScore100*w.ProfileWeight +
		cappedPsych*w.PsychWeight
	if verdict > 100 {
		verdict = 100
	}
	return verdict
}
