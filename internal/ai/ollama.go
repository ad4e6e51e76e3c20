package ai

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaProvider calls a local Ollama chat endpoint with JSON output.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaProvider(baseURL, model string, client *http.Client) *OllamaProvider {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	if model == "" {
		model = "llama3.1"
	}
	return &OllamaProvider{baseURL: strings.TrimRight(baseURL, "/"), model: model, client: client}
}

func (p *OllamaProvider) Name() string { return "ollama" }

type ollamaRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format"`
}

type ollamaResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
}

func (p *OllamaProvider) Analyze(ctx context.Context, in AnalysisInput) (*Proposal, error) {
	model := p.model
	if in.Model != "" {
		model = in.Model
	}
	started := time.Now()

	var resp ollamaResponse
	err := postJSON(ctx, p.client, p.baseURL+"/api/chat", nil, ollamaRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(in)},
		},
		Format: "json",
	}, &resp)
	if err != nil {
		return nil, err
	}

	proposal, err := parseProposal(resp.Message.Content)
	if err != nil {
		return nil, err
	}
	proposal.ModelUsed = firstNonEmpty(resp.Model, model)
	proposal.ProcessingTimeMS = time.Since(started).Milliseconds()
	return proposal, nil
}
