package classify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/civicgo/civicgo/internal/model"
)

// visionPrompt instructs the model to answer with the label/score shape the
// shared mapping consumes
const visionPrompt = `You are analyzing a photo of a municipal problem (water, roads, electricity, sanitation, infrastructure).
Respond with ONLY a JSON array of up to 5 objects, each {"label": string, "score": number between 0 and 1}, ordered by score descending.
Labels must be short lowercase phrases describing what is visible (e.g. "pothole", "water leak", "garbage pile").`

// OpenAIProvider implements the Provider interface using OpenAI vision
// chat completions
type OpenAIProvider struct {
	client  *openai.Client
	modelID string
	timeout time.Duration
	apiKey  string
}

// NewOpenAIProvider creates a new OpenAI vision provider
func NewOpenAIProvider(cfg model.OpenAIConfig, httpCfg model.HTTPConfig) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	modelID := cfg.Model
	if modelID == "" {
		modelID = openai.GPT4oMini
	}

	timeout := httpCfg.Timeout
	if timeout == 0 {
		timeout = 12 * time.Second
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		modelID: modelID,
		timeout: timeout,
		apiKey:  cfg.APIKey,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Configured reports whether an API key is present
func (p *OpenAIProvider) Configured() bool {
	return p.apiKey != ""
}

// Classify sends the image as a data URI to the vision model and maps the
// returned labels via the shared keyword table
func (p *OpenAIProvider) Classify(ctx context.Context, req Request) (*model.ClassificationResult, error) {
	modelID := req.Model
	if modelID == "" {
		modelID = p.modelID
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(req.Image)

	chatReq := openai.ChatCompletionRequest{
		Model: modelID,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: visionPrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURI},
					},
				},
			},
		},
		MaxTokens:   300,
		Temperature: 0.2,
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, providerErr("openai", fmt.Errorf("API error: %w", err))
	}

	if len(resp.Choices) == 0 {
		return nil, providerErr("openai", fmt.Errorf("no choices in response"))
	}

	labels, err := parseVisionLabels(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, providerErr("openai", err)
	}

	concepts := make([]Concept, 0, len(labels))
	for _, l := range labels {
		concepts = append(concepts, Concept{Label: l.Label, Score: l.Score})
	}

	return ResultFromConcepts("openai", concepts)
}

type visionLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// parseVisionLabels extracts the JSON label array from the model's reply,
// tolerating markdown code fences around the payload
func parseVisionLabels(content string) ([]visionLabel, error) {
	content = strings.TrimSpace(content)
	if start := strings.Index(content, "["); start >= 0 {
		if end := strings.LastIndex(content, "]"); end > start {
			content = content[start : end+1]
		}
	}

	var labels []visionLabel
	if err := json.Unmarshal([]byte(content), &labels); err != nil {
		return nil, fmt.Errorf("unparseable label payload: %w", err)
	}
	return labels, nil
}
