package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

// AnthropicProvider calls the messages endpoint.
type AnthropicProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewAnthropicProvider(baseURL, apiKey, model string, client *http.Client) *AnthropicProvider {
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}
	return &AnthropicProvider{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, model: model, client: client}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system"`
	Messages  []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *AnthropicProvider) Analyze(ctx context.Context, in AnalysisInput) (*Proposal, error) {
	model := p.model
	if in.Model != "" {
		model = in.Model
	}
	started := time.Now()

	var resp anthropicResponse
	err := postJSON(ctx, p.client, p.baseURL+"/v1/messages",
		map[string]string{"x-api-key": p.apiKey, "anthropic-version": anthropicVersion},
		anthropicRequest{
			Model:     model,
			MaxTokens: 1024,
			System:    systemPrompt,
			Messages:  []chatMessage{{Role: "user", Content: buildUserPrompt(in)}},
		}, &resp)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, errors.New("anthropic returned no text content")
	}

	proposal, err := parseProposal(text.String())
	if err != nil {
		return nil, err
	}
	proposal.ModelUsed = firstNonEmpty(resp.Model, model)
	proposal.ProcessingTimeMS = time.Since(started).Milliseconds()
	return proposal, nil
}
