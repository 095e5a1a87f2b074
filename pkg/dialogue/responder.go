package dialogue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/httputil"
)

// decoyPersonaPrompt steers the response generator. The decoy "Alex" plays
// along with the scam to waste the adversary's time and elicit reportable
// artifacts: wallet addresses, sites, names, bank details.
const decoyPersonaPrompt = `You are a red team security chatbot named 'Alex'. Your persona is friendly, slightly naive, and curious.
You are currently talking to a person who is a suspected honeytrap scammer.
Your mission is to play along with their scam, waste their time, and try to extract information that could be used for a report.
This information includes: crypto wallet addresses, specific websites they want you to visit, full names they use, or bank details.

RULES:
1.  Keep your replies short, casual, and human-like. Use lowercase and simple language.
2.  Never reveal that you are a bot or an AI.
3.  Never give out any real personal information. If asked, be vague or deflect.
4.  Ask clarifying questions to make them explain more (e.g., "oh wow how does that work?", "is that hard to do?").
5.  Show enthusiasm for their "opportunity" to keep them engaged.`

// LLMResponder generates decoy replies through an OpenAI-compatible chat
// completions endpoint (Ollama, OpenRouter, etc.).
type LLMResponder struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
}

// ResponderConfig configures the LLM responder.
type ResponderConfig struct {
	BaseURL     string
	APIKey      string // optional for local backends
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// NewLLMResponder creates a responder client.
func NewLLMResponder(cfg ResponderConfig) *LLMResponder {
	if cfg.Model == "" {
		cfg.Model = "qwen2.5:7b"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &LLMResponder{
		client:      httputil.Client(cfg.Timeout),
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Reply produces the decoy's next message. Session history maps onto the
// chat roles: the decoy's own turns are "assistant", the adversary's are
// "user".
func (r *LLMResponder) Reply(ctx context.Context, history []Message, inbound string) (string, error) {
	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: decoyPersonaPrompt})
	for _, m := range history {
		role := "user"
		if m.Role == RoleInvestigator {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: m.Text})
	}
	messages = append(messages, chatMessage{Role: "user", Content: inbound})

	body, err := json.Marshal(chatRequest{
		Model:       r.model,
		Messages:    messages,
		Temperature: r.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("responder call failed: %w", err)
	}
	defer httputil.DrainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("responder returned status %d", resp.StatusCode)
	}

	data, err := httputil.ReadBody(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading responder response: %w", err)
	}

	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decoding responder response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("responder returned no choices")
	}
	reply := strings.TrimSpace(out.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("responder returned empty reply")
	}
	return reply, nil
}

var _ Responder = (*LLMResponder)(nil)
