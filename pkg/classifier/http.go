package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/httputil"
)

// HTTPClassifier calls an external intent-classifier service over HTTP.
// The service receives the recent message window and returns the intent,
// confidence, probe keywords and an anomaly verdict.
type HTTPClassifier struct {
	url    string
	client *http.Client
}

// NewHTTPClassifier creates a classifier client. An empty URL returns nil,
// which callers treat as "no classifier configured".
func NewHTTPClassifier(url string, timeout time.Duration) *HTTPClassifier {
	if url == "" {
		return nil
	}
	return &HTTPClassifier{url: url, client: httputil.Client(timeout)}
}

type classifyRequest struct {
	Messages []string `json:"messages"`
}

// Classify sends the window to the remote classifier.
func (c *HTTPClassifier) Classify(ctx context.Context, window []string) (*Result, error) {
	if c == nil {
		return nil, fmt.Errorf("classifier not configured")
	}
	body, err := json.Marshal(classifyRequest{Messages: window})
	if err != nil {
		return nil, fmt.Errorf("encoding classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier call failed: %w", err)
	}
	defer httputil.DrainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	data, err := httputil.ReadBody(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading classifier response: %w", err)
	}

	var out Result
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding classifier response: %w", err)
	}
	// Recompute locally so a misconfigured remote cannot hand us an anomaly
	// flag inconsistent with its own intent and confidence.
	out.Anomalous = out.Anomalous || anomalousIntent(out.Intent, out.Confidence)
	return &out, nil
}

// HTTPExtractor calls an external NER service.
type HTTPExtractor struct {
	url    string
	client *http.Client
}

// NewHTTPExtractor creates an extractor client. An empty URL returns nil.
func NewHTTPExtractor(url string, timeout time.Duration) *HTTPExtractor {
	if url == "" {
		return nil
	}
	return &HTTPExtractor{url: url, client: httputil.Client(timeout)}
}

type extractRequest struct {
	Text string `json:"text"`
}

type extractResponse struct {
	Entities []string `json:"named_entities"`
}

// Extract returns named entities for one message.
func (e *HTTPExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	if e == nil {
		return nil, fmt.Errorf("extractor not configured")
	}
	body, err := json.Marshal(extractRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encoding extract request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extractor call failed: %w", err)
	}
	defer httputil.DrainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extractor returned status %d", resp.StatusCode)
	}

	data, err := httputil.ReadBody(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading extractor response: %w", err)
	}

	var out extractResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding extractor response: %w", err)
	}
	return out.Entities, nil
}
