package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/classifier"
	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/config"
	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/keywords"
)

type stubClassifier struct {
	res      *classifier.Result
	err      error
	lastSeen []string
}

func (s *stubClassifier) Classify(_ context.Context, window []string) (*classifier.Result, error) {
	s.lastSeen = window
	return s.res, s.err
}

func newTestAnalyzer(clf classifier.WindowClassifier) *ChatAnalyzer {
	return NewChatAnalyzer(keywords.NewRegistry(), clf, config.DefaultWeights(), 5)
}

func TestEmptyTranscript(t *testing.T) {
	a := newTestAnalyzer(nil)
	res := a.Analyze(context.Background(), nil)

	if res.PrimaryIntent != PrimaryNone {
		t.Fatalf("expected %q, got %q", PrimaryNone, res.PrimaryIntent)
	}
	if res.SpamConfidence != 0 || res.SextortionConfidence != 0 || res.TechHoneytrapConfidence != 0 {
		t.Fatalf("expected all-zero confidences: %+v", res)
	}
	if res.Psych.TotalRiskScore != 0 || len(res.Psych.Tactics) != 0 {
		t.Fatalf("expected empty psych payload: %+v", res.Psych)
	}
	if res.Classifier != nil {
		t.Fatal("expected no classifier output for empty transcript")
	}
}

func TestSextortionTranscript(t *testing.T) {
	a := newTestAnalyzer(nil)
	res := a.Analyze(context.Background(), []string{"send bitcoin or I will leak your photos"})

	if len(res.KeywordsFound.Sextortion) < 3 {
		t.Fatalf("expected >=3 sextortion hits, got %v", res.KeywordsFound.Sextortion)
	}
	if res.SextortionConfidence != 95 {
		t.Fatalf("expected confidence 95, got %v", res.SextortionConfidence)
	}
	if res.PrimaryIntent != PrimarySextortion {
		t.Fatalf("expected %q, got %q", PrimarySextortion, res.PrimaryIntent)
	}
}

func TestSextortionOutranksTech(t *testing.T) {
	a := newTestAnalyzer(nil)
	// Both categories land above 50; sextortion must win.
	res := a.Analyze(context.Background(), []string{
		"pay me in bitcoin or i leak your photos",
		"also download my trading bot, guaranteed return, test my app",
	})

	if res.SextortionConfidence <= primaryIntentFloor || res.TechHoneytrapConfidence <= primaryIntentFloor {
		t.Fatalf("test setup: both must exceed %v, got sext=%v tech=%v",
			primaryIntentFloor, res.SextortionConfidence, res.TechHoneytrapConfidence)
	}
	if res.PrimaryIntent != PrimarySextortion {
		t.Fatalf("priority violated: got %q", res.PrimaryIntent)
	}
}

func TestClassifierAnomalyDrivesSpam(t *testing.T) {
	clf := &stubClassifier{res: &classifier.Result{
		Intent:     classifier.IntentProbing,
		Confidence: 0.9,
		Anomalous:  true,
	}}
	a := newTestAnalyzer(clf)
	res := a.Analyze(context.Background(), []string{"hello there, how is your day"})

	if res.SpamConfidence != 90 {
		t.Fatalf("expected spam confidence 90 from classifier, got %v", res.SpamConfidence)
	}
	if res.PrimaryIntent != classifier.IntentProbing {
		t.Fatalf("expected classifier intent label, got %q", res.PrimaryIntent)
	}
}

func TestClassifierFailureDegrades(t *testing.T) {
	clf := &stubClassifier{err: errors.New("connection refused")}
	a := newTestAnalyzer(clf)
	res := a.Analyze(context.Background(), []string{"send bitcoin or I will leak your photos"})

	if res.Classifier != nil {
		t.Fatal("classifier failure must be treated as absent output")
	}
	if res.PrimaryIntent != PrimarySextortion {
		t.Fatalf("lexical scoring must survive classifier failure, got %q", res.PrimaryIntent)
	}
}

func TestClassifierNonNormalIntentSurfaces(t *testing.T) {
	clf := &stubClassifier{res: &classifier.Result{
		Intent:     classifier.IntentFlirty,
		Confidence: 0.7,
	}}
	a := newTestAnalyzer(clf)
	res := a.Analyze(context.Background(), []string{"hey you, good morning"})

	if res.PrimaryIntent != classifier.IntentFlirty {
		t.Fatalf("expected raw intent to surface, got %q", res.PrimaryIntent)
	}
}

func TestClassifierWindowIsLastFive(t *testing.T) {
	clf := &stubClassifier{res: &classifier.Result{Intent: classifier.IntentCasual}}
	a := newTestAnalyzer(clf)

	messages := []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7"}
	a.Analyze(context.Background(), messages)

	want := []string{"m3", "m4", "m5", "m6", "m7"}
	if !reflect.DeepEqual(clf.lastSeen, want) {
		t.Fatalf("expected window %v, got %v", want, clf.lastSeen)
	}
}

func TestConfidencesClamped(t *testing.T) {
	a := newTestAnalyzer(nil)
	// Heavy psych boost on top of saturated tiers must stay within [0,100].
	res := a.Analyze(context.Background(), []string{
		"pay bitcoin or i leak your photos and tell your family, last chance",
		"act now, hurry, don't wait, do it now, immediately",
		"keep this between us, our secret, don't tell anyone",
		"you are my soulmate, my everything, meant to be",
	})

	for name, v := range map[string]float64{
		"spam":       res.SpamConfidence,
		"sextortion": res.SextortionConfidence,
		"tech":       res.TechHoneytrapConfidence,
	} {
		if v < 0 || v > 100 {
			t.Fatalf("%s confidence out of range: %v", name, v)
		}
	}
}

func TestAnalysisIdempotent(t *testing.T) {
	clf := &stubClassifier{res: &classifier.Result{
		Intent:     classifier.IntentProbing,
		Confidence: 0.88,
		Anomalous:  true,
	}}
	a := newTestAnalyzer(clf)
	messages := []string{
		"hey cutie, you are my soulmate",
		"send me some bitcoin",
		"act now or last chance",
	}

	first := a.Analyze(context.Background(), messages)
	second := a.Analyze(context.Background(), messages)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-analysis differs:\n%+v\n%+v", first, second)
	}

	b1, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b2, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b1) != string(b2) {
		t.Fatal("serialized analyses are not byte-identical")
	}
}
