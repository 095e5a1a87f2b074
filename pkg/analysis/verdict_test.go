package analysis

import (
	"context"
	"testing"

	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/config"
	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/keywords"
)

func TestVerdictWeighting(t *testing.T) {
	chat := &ChatAnalysis{
		SextortionConfidence: 95,
		PrimaryIntent:        PrimarySextortion,
		Psych:                PsychAnalysis{TotalRiskScore: 50},
	}

	v := CalculateFinalVerdict(8, chat, config.DefaultWeights())
	// 95*0.6 + 80*0.2 + 50*0.2 = 57 + 16 + 10 = 83
	if v != 83 {
		t.Fatalf("expected 83, got %v", v)
	}
}

func TestVerdictUsesPrimaryCategoryScore(t *testing.T) {
	chat := &ChatAnalysis{
		SpamConfidence:          90,
		TechHoneytrapConfidence: 60,
		PrimaryIntent:           PrimaryTechHoneytrap,
	}

	v := CalculateFinalVerdict(0, chat, config.DefaultWeights())
	if v != 36 {
		t.Fatalf("expected tech confidence to drive verdict (36), got %v", v)
	}
}

func TestVerdictPsychCapped(t *testing.T) {
	chat := &ChatAnalysis{
		SpamConfidence: 0,
		PrimaryIntent:  PrimaryNormal,
		Psych:          PsychAnalysis{TotalRiskScore: 500},
	}

	v := CalculateFinalVerdict(0, chat, config.DefaultWeights())
	// Psych contribution caps at 100*0.2.
	if v != 20 {
		t.Fatalf("expected 20, got %v", v)
	}
}

func TestVerdictClampedToHundred(t *testing.T) {
	chat := &ChatAnalysis{
		SextortionConfidence: 100,
		PrimaryIntent:        PrimarySextortion,
		Psych:                PsychAnalysis{TotalRiskScore: 100},
	}
	w := config.ScoringWeights{PrimaryThreatWeight: 1, ProfileWeight: 1, PsychWeight: 1}

	if v := CalculateFinalVerdict(10, chat, w); v != 100 {
		t.Fatalf("expected clamp to 100, got %v", v)
	}
}

func TestEndToEndVerdictInRange(t *testing.T) {
	reg := keywords.NewRegistry()
	a := NewChatAnalyzer(reg, nil, config.DefaultWeights(), 5)

	transcripts := [][]string{
		nil,
		{"hello, nice to meet you"},
		{"send bitcoin or i leak your photos", "last chance, pay now"},
		{"you're my soulmate, let's move to telegram", "keep this our secret"},
	}
	profiles := []*Profile{
		{Username: "a", IsVerified: true},
		{Username: "b", FollowerCount: 5, FollowingCount: 900, AccountAgeDays: 2},
	}

	for _, msgs := range transcripts {
		chat := a.Analyze(context.Background(), msgs)
		for _, p := range profiles {
			score, _ := CalculateProfileRisk(reg, p)
			v := CalculateFinalVerdict(score, chat, config.DefaultWeights())
			if v < 0 || v > 100 {
				t.Fatalf("verdict out of range: %v (messages=%v profile=%s)", v, msgs, p.Username)
			}
		}
	}
}
