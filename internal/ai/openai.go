package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIProvider calls the chat completions endpoint in JSON mode.
type OpenAIProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewOpenAIProvider(baseURL, apiKey, model string, client *http.Client) *OpenAIProvider {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, model: model, client: client}
}

func (p *OpenAIProvider) Name() string { return "openai" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

type openAIResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) Analyze(ctx context.Context, in AnalysisInput) (*Proposal, error) {
	model := p.model
	if in.Model != "" {
		model = in.Model
	}
	started := time.Now()

	var resp openAIResponse
	err := postJSON(ctx, p.client, p.baseURL+"/chat/completions",
		map[string]string{"Authorization": "Bearer " + p.apiKey},
		openAIRequest{
			Model: model,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: buildUserPrompt(in)},
			},
			ResponseFormat: map[string]string{"type": "json_object"},
		}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai returned no choices")
	}

	proposal, err := parseProposal(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	proposal.ModelUsed = firstNonEmpty(resp.Model, model)
	proposal.ProcessingTimeMS = time.Since(started).Milliseconds()
	return proposal, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
