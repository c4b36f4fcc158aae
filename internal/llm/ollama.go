package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaProvider implements Provider against Ollama's /api/generate
// endpoint. The wire contract is Ollama-specific (single prompt, no
// streaming, one "response" field), so the request is built by hand.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
	timeout time.Duration
}

// NewOllamaProvider creates a provider targeting a local Ollama instance.
func NewOllamaProvider(cfg OllamaConfig, timeout time.Duration) (*OllamaProvider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("ollama base URL is required")
	}
	model := cfg.Model
	if model == "" {
		model = "llama3.2"
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}

	return &OllamaProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}, nil
}

type ollamaGenerateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

func (p *OllamaProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:       p.model,
		Prompt:      req.Prompt,
		Stream:      false,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        req.TopP,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, p.mapTransportError(ctx, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &ErrUnavailable{Err: fmt.Errorf("read response body: %w", err)}
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, &ErrBadStatus{
			StatusCode: httpResp.StatusCode,
			Body:       truncate(string(respBody), 200),
		}
	}

	var out ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, &ErrUnavailable{Err: fmt.Errorf("decode response JSON: %w", err)}
	}

	if strings.TrimSpace(out.Response) == "" {
		return nil, &ErrEmptyResponse{}
	}

	model := out.Model
	if model == "" {
		model = p.model
	}

	return &Response{Text: out.Response, Model: model}, nil
}

func (p *OllamaProvider) ModelID() string {
	return p.model
}

// mapTransportError converts http client failures into the package's
// typed errors. Deadline hits become ErrTimeout, everything else
// (connection refused, DNS) becomes ErrUnavailable.
func (p *OllamaProvider) mapTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &ErrTimeout{After: p.timeout, Err: err}
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ErrTimeout{After: p.timeout, Err: err}
	}
	return &ErrUnavailable{Err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
