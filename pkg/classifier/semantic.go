package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/httputil"
)

// intentExemplar is one labeled conversation fragment used to anchor the
// embedding space for a conversational intent.
type intentExemplar struct {
	Text   string
	Intent string
}

// SemanticClassifier classifies message windows by embedding similarity to a
// curated exemplar set. Runs fully in-process with chromem-go; only the
// embedding call leaves the process.
type SemanticClassifier struct {
	db         *chromem.DB
	collection *chromem.Collection
	mu         sync.RWMutex
	ready      bool
}

// newOllamaEmbeddingFunc builds a chromem embedding function backed by the
// Ollama /api/embeddings endpoint.
func newOllamaEmbeddingFunc(model, baseURL string) chromem.EmbeddingFunc {
	client := httputil.Client(30 * time.Second)

	return func(ctx context.Context, text string) ([]float32, error) {
		reqBody := map[string]string{
			"model":  model,
			"prompt": text,
		}
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/embeddings", bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer httputil.DrainAndClose(resp.Body)

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("ollama embedding returned status %d", resp.StatusCode)
		}

		var result struct {
			Embedding []float32 `json:"embedding"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return result.Embedding, nil
	}
}

// NewSemanticClassifier creates a classifier using Ollama embeddings at the
// given base URL. Call SeedExemplars before classifying.
func NewSemanticClassifier(ollamaURL string) (*SemanticClassifier, error) {
	db := chromem.NewDB()

	embeddingFunc := newOllamaEmbeddingFunc("embeddinggemma", ollamaURL)

	collection, err := db.CreateCollection("intent_exemplars", nil, embeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	return &SemanticClassifier{db: db, collection: collection}, nil
}

// NewSemanticClassifierWithEmbedding creates a classifier with a custom
// embedding function. Used by tests to avoid a live embedding service.
func NewSemanticClassifierWithEmbedding(embeddingFunc chromem.EmbeddingFunc) (*SemanticClassifier, error) {
	db := chromem.NewDB()
	collection, err := db.CreateCollection("intent_exemplars", nil, embeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return &SemanticClassifier{db: db, collection: collection}, nil
}

// SeedExemplars embeds the built-in exemplar set into the vector store.
// Sequential (1 worker) so a cold Ollama instance is not flooded.
func (sc *SemanticClassifier) SeedExemplars(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	exemplars := intentExemplars()
	docs := make([]chromem.Document, len(exemplars))
	for i, e := range exemplars {
		docs[i] = chromem.Document{
			ID:      fmt.Sprintf("exemplar_%d", i),
			Content: e.Text,
			Metadata: map[string]string{
				"intent": e.Intent,
			},
		}
	}

	if err := sc.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("failed to seed exemplars: %w", err)
	}
	sc.ready = true
	return nil
}

// IsReady reports whether the exemplar set has been loaded.
func (sc *SemanticClassifier) IsReady() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.ready
}

// Classify labels a message window with the intent of its nearest exemplar.
// Confidence is the cosine similarity of the best match.
func (sc *SemanticClassifier) Classify(ctx context.Context, window []string) (*Result, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	if !sc.ready {
		return nil, fmt.Errorf("semantic classifier not seeded - call SeedExemplars first")
	}
	if len(window) == 0 {
		return &Result{Intent: IntentNormal}, nil
	}

	queryText := strings.ToLower(strings.Join(window, "\n"))

	n := 3
	if count := sc.collection.Count(); count < n {
		n = count
	}
	results, err := sc.collection.Query(ctx, queryText, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	if len(results) == 0 {
		return &Result{Intent: IntentNormal}, nil
	}

	best := results[0]
	intent := best.Metadata["intent"]
	confidence := float64(best.Similarity)

	return &Result{
		Intent:     intent,
		Confidence: confidence,
		Anomalous:  anomalousIntent(intent, confidence),
	}, nil
}

// intentExemplars returns the curated exemplar set. Four conversational
// modes: flirty and casual are the expected register of a dating-platform
// chat; technical and probing are the adversary pivoting the decoy toward
// infrastructure and access.
func intentExemplars() []intentExemplar {
	return []intentExemplar{
		// === FLIRTY ===
		{"hey cutie how was your day", IntentFlirty},
		{"you have such a beautiful smile in your photos", IntentFlirty},
		{"i cant stop thinking about you since we matched", IntentFlirty},
		{"good morning handsome did you sleep well", IntentFlirty},
		{"i wish you were here with me right now", IntentFlirty},
		{"you seem so different from everyone else on here", IntentFlirty},

		// === CASUAL ===
		{"what do you like to do on weekends", IntentCasual},
		{"the weather has been terrible lately", IntentCasual},
		{"i just finished watching a great series", IntentCasual},
		{"do you have any pets i love dogs", IntentCasual},
		{"where did you grow up", IntentCasual},
		{"i tried a new restaurant yesterday the food was amazing", IntentCasual},

		// === TECHNICAL ===
		{"so what do you do are you into cybersecurity", IntentTechnical},
		{"do you work with aws or docker at your job", IntentTechnical},
		{"i heard your company runs its own servers is that true", IntentTechnical},
		{"what kind of database does your team use", IntentTechnical},
		{"is your deployment on the cloud or on premises", IntentTechnical},
		{"do you use github for your projects", IntentTechnical},

		// === PROBING ===
		{"can you share your work vpn details i want to try something", IntentProbing},
		{"what is the admin password for your production server", IntentProbing},
		{"do you have access to client data at work can you show me", IntentProbing},
		{"send me your api key i promise i wont misuse it", IntentProbing},
		{"how do i get into your company systems from outside", IntentProbing},
		{"can you disable the 2fa on your account for a minute", IntentProbing},
		{"what internal tools does your security team use exactly", IntentProbing},
	}
}
