package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPClassifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(req.Messages))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"intent":         IntentProbing,
			"confidence":     0.93,
			"keywords":       []string{"vpn"},
			"named_entities": []string{"Acme Corp"},
			"anomaly":        true,
		})
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, 5*time.Second)
	res, err := c.Classify(context.Background(), []string{"hey", "send me your work vpn login"})
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if res.Intent != IntentProbing || !res.Anomalous {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.Keywords) != 1 || res.Keywords[0] != "vpn" {
		t.Fatalf("unexpected keywords: %v", res.Keywords)
	}
}

func TestHTTPClassifierRecomputesAnomaly(t *testing.T) {
	// A remote that reports probing at high confidence but forgets the
	// anomaly flag must still come back anomalous.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"intent":     IntentProbing,
			"confidence": 0.95,
			"anomaly":    false,
		})
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, 5*time.Second)
	res, err := c.Classify(context.Background(), []string{"what is your admin password"})
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if !res.Anomalous {
		t.Fatal("expected anomaly to be recomputed from intent and confidence")
	}
}

func TestHTTPClassifierErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, 5*time.Second)
	if _, err := c.Classify(context.Background(), []string{"hi"}); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestHTTPClassifierDisabled(t *testing.T) {
	if c := NewHTTPClassifier("", time.Second); c != nil {
		t.Fatal("expected nil classifier for empty URL")
	}
}

func TestHTTPExtractor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req extractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(extractResponse{Entities: []string{"London", "Acme"}})
	}))
	defer srv.Close()

	e := NewHTTPExtractor(srv.URL, 5*time.Second)
	entities, err := e.Extract(context.Background(), "I work at Acme in London")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %v", entities)
	}
}

func TestAnomalousIntent(t *testing.T) {
	testCases := []struct {
		intent     string
		confidence float64
		want       bool
	}{
		{IntentProbing, 0.90, true},
		{IntentTechnical, 0.86, true},
		{IntentProbing, 0.85, false},
		{IntentFlirty, 0.99, false},
		{IntentCasual, 0.99, false},
	}
	for _, tc := range testCases {
		if got := anomalousIntent(tc.intent, tc.confidence); got != tc.want {
			t.Errorf("anomalousIntent(%s, %.2f) = %v, want %v", tc.intent, tc.confidence, got, tc.want)
		}
	}
}

// fakeEmbedding maps text onto four intent axes via keyword presence. Exact
// enough to place every built-in exemplar on its own axis, which makes
// similarity scores deterministic in tests.
func fakeEmbedding(_ context.Context, text string) ([]float32, error) {
	lowered := strings.ToLower(text)
	contains := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lowered, w) {
				return true
			}
		}
		return false
	}
	switch {
	case contains("vpn", "password", "api key", "2fa", "get into", "internal tools", "show me"):
		return []float32{1, 0, 0, 0}, nil
	case contains("cybersecurity", "docker", "aws", "database", "servers", "deployment", "cloud", "github"):
		return []float32{0, 1, 0, 0}, nil
	case contains("cutie", "beautiful", "thinking about you", "handsome", "wish you were here", "different from everyone"):
		return []float32{0, 0, 1, 0}, nil
	default:
		return []float32{0, 0, 0, 1}, nil
	}
}

func TestSemanticClassifierProbing(t *testing.T) {
	sc, err := NewSemanticClassifierWithEmbedding(fakeEmbedding)
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	if err := sc.SeedExemplars(context.Background()); err != nil {
		t.Fatalf("seed exemplars: %v", err)
	}
	if !sc.IsReady() {
		t.Fatal("expected classifier to be ready after seeding")
	}

	res, err := sc.Classify(context.Background(), []string{
		"hey how are you",
		"can you share your work vpn details",
	})
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if res.Intent != IntentProbing {
		t.Fatalf("expected probing intent, got %q", res.Intent)
	}
	if !res.Anomalous {
		t.Fatalf("expected anomaly at confidence %.2f", res.Confidence)
	}
}

func TestSemanticClassifierCasualNotAnomalous(t *testing.T) {
	sc, err := NewSemanticClassifierWithEmbedding(fakeEmbedding)
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	if err := sc.SeedExemplars(context.Background()); err != nil {
		t.Fatalf("seed exemplars: %v", err)
	}

	res, err := sc.Classify(context.Background(), []string{"the weather has been terrible lately"})
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if res.Intent != IntentCasual {
		t.Fatalf("expected casual intent, got %q", res.Intent)
	}
	if res.Anomalous {
		t.Fatal("casual conversation must never be anomalous")
	}
}

func TestSemanticClassifierRequiresSeeding(t *testing.T) {
	sc, err := NewSemanticClassifierWithEmbedding(fakeEmbedding)
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	if _, err := sc.Classify(context.Background(), []string{"hi"}); err == nil {
		t.Fatal("expected error before seeding")
	}
}
