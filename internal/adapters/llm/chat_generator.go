package llm

import (
	"bytes"
	"chebyshev-board/internal/i18n"
	"chebyshev-board/internal/platform/obs"
	"chebyshev-board/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration

	// Retry policy for transient failures; zero values use the defaults.
	MaxAttempts uint
	Backoff     time.Duration

	MaxTokens   int
	Temperature float64
}

// ChatExplanationGenerator implements ExplanationGenerator against a
// chat-completions compatible text-generation API.
//
// The generator is safe for concurrent use.
type ChatExplanationGenerator struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	model       string
	maxAttempts uint
	backoff     time.Duration
	maxTokens   int
	temperature float64
	prompts     *i18n.Translator
}

var _ ports.ExplanationGenerator = (*ChatExplanationGenerator)(nil)

func NewChatExplanationGenerator(cfg ChatConfig, prompts *i18n.Translator) (*ChatExplanationGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("llm api key is empty")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("llm base url is empty")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("llm model is empty")
	}
	if prompts == nil {
		return nil, errors.New("llm prompt translator is nil")
	}

	g := &ChatExplanationGenerator{
		session:     &http.Client{Timeout: cfg.Timeout},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		prompts:     prompts,
	}
	if g.session.Timeout <= 0 {
		g.session.Timeout = 20 * time.Second
	}
	if g.maxAttempts == 0 {
		g.maxAttempts = 4
	}
	if g.backoff <= 0 {
		g.backoff = 200 * time.Millisecond
	}
	if g.maxTokens <= 0 {
		g.maxTokens = 120
	}
	if g.temperature <= 0 {
		g.temperature = 0.3
	}

	return g, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Explain asks the text-generation service for a short justification of one movement.
func (g *ChatExplanationGenerator) Explain(
	ctx context.Context,
	req ports.ExplanationRequest,
) (_ string, err error) {
	defer obs.Time(ctx, "llm.Explain")(&err)

	payload, err := json.Marshal(chatRequest{
		Model:       g.model,
		Messages:    buildPrompt(g.prompts, req),
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	var decoded chatResponse
	endpoint := g.baseURL + "/chat/completions"
	if err := g.postJSON(ctx, endpoint, payload, &decoded); err != nil {
		return "", fmt.Errorf("chat completion step %d: %w", req.Movement.StepNumber, err)
	}

	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("chat completion step %d: no choices returned", req.Movement.StepNumber)
	}

	text := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("chat completion step %d: empty content", req.Movement.StepNumber)
	}

	return text, nil
}

func (g *ChatExplanationGenerator) postJSON(ctx context.Context, endpoint string, payload []byte, out any) error {
	return g.doWithRetry(ctx, func() error {
		req, err := g.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return err
		}

		resp, err := g.do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode chat response: %w", err)
		}
		return nil
	})
}
