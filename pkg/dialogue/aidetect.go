package dialogue

import (
	"math"
	"regexp"
	"strings"

	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/keywords"
)

// Advisory heuristics over adversary text. Neither detector feeds the
// threat scores; they annotate replies so the operator can see when the
// "scammer" is itself a bot, or is mirroring the decoy to build rapport.

// AIAnalysis scores one message for signs of machine authorship.
type AIAnalysis struct {
	IsLikelyAI bool     `json:"is_likely_ai"`
	Score      int      `json:"score"`
	Reasons    []string `json:"reasons"`
}

// MimicryAnalysis flags the adversary echoing the decoy's own vocabulary.
type MimicryAnalysis struct {
	IsMimicking     bool     `json:"is_mimicking"`
	MimickedPhrases []string `json:"mimicked_phrases"`
}

const (
	disclaimerWeight    = 50
	noContractionWeight = 15
	noFillerWeight      = 10
	uniformLengthWeight = 20

	noContractionMinWords = 15
	noFillerMinWords      = 10
	uniformLengthMinSents = 2
	uniformLengthStdDev   = 2.0

	likelyAIThreshold = 40
	mimicryThreshold  = 4
	mimicryMinWordLen = 5
)

var (
	contractions = []string{"'m", "'re", "'s", "'ve", "'d", "'ll", "n't"}

	sentenceSplit = regexp.MustCompile(`[.!?]`)
	longWord      = regexp.MustCompile(`\b\w{5,}\b`)
)

// AnalyzeAuthorship scores a single message for AI-generated tells:
// canonical disclaimer phrases, the absence of contractions and filler in
// long text, and unnaturally uniform sentence lengths.
func AnalyzeAuthorship(reg *keywords.Registry, message string) AIAnalysis {
	score := 0
	var reasons []string
	text := strings.ToLower(message)

	for _, phrase := range reg.FindAll(keywords.CategoryAIDisclaimer, text) {
		score += disclaimerWeight
		reasons = append(reasons, "Contains classic AI phrase: '"+phrase+"'")
	}

	words := len(strings.Fields(text))

	hasContraction := false
	for _, c := range contractions {
		if strings.Contains(text, c) {
			hasContraction = true
			break
		}
	}
	if words > noContractionMinWords && !hasContraction {
		score += noContractionWeight
		reasons = append(reasons, "Long sentences with perfect grammar and no contractions.")
	}

	if words > noFillerMinWords && !reg.Contains(keywords.CategoryHumanFiller, text) {
		score += noFillerWeight
		reasons = append(reasons, "Lacks common human filler words or slang.")
	}

	if dev, ok := sentenceLengthStdDev(text); ok && dev < uniformLengthStdDev {
		score += uniformLengthWeight
		reasons = append(reasons, "Unnaturally consistent sentence length, a common AI trait.")
	}

	return AIAnalysis{
		IsLikelyAI: score > likelyAIThreshold,
		Score:      score,
		Reasons:    reasons,
	}
}

// sentenceLengthStdDev returns the standard deviation of per-sentence word
// counts. ok is false when the text has too few sentences to judge.
func sentenceLengthStdDev(text string) (float64, bool) {
	var lengths []float64
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) == "" {
			continue
		}
		lengths = append(lengths, float64(len(strings.Fields(s))))
	}
	if len(lengths) <= uniformLengthMinSents {
		return 0, false
	}

	mean := 0.0
	for _, l := range lengths {
		mean += l
	}
	mean /= float64(len(lengths))

	variance := 0.0
	for _, l := range lengths {
		variance += (l - mean) * (l - mean)
	}
	variance /= float64(len(lengths))

	return math.Sqrt(variance), true
}

// AnalyzeMimicry looks for the adversary re-using distinctive words the
// decoy introduced. Words of five or more letters filter out common filler;
// mirroring more than four unique words is a strong rapport-building tell.
func AnalyzeMimicry(investigatorMessages, adversaryMessages []string) MimicryAnalysis {
	if len(investigatorMessages) == 0 || len(adversaryMessages) == 0 {
		return MimicryAnalysis{MimickedPhrases: []string{}}
	}

	investigatorText := strings.ToLower(strings.Join(investigatorMessages, " "))
	adversaryText := strings.ToLower(strings.Join(adversaryMessages, " "))

	// First-seen order keeps repeated runs byte-identical.
	seen := map[string]bool{}
	mimicked := []string{}
	for _, word := range longWord.FindAllString(investigatorText, -1) {
		if seen[word] {
			continue
		}
		seen[word] = true
		if strings.Contains(adversaryText, word) {
			mimicked = append(mimicked, word)
		}
	}

	return MimicryAnalysis{
		IsMimicking:     len(mimicked) > mimicryThreshold,
		MimickedPhrases: mimicked,
	}
}
