package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/civicgo/civicgo/internal/model"
	"github.com/civicgo/civicgo/internal/util"
)

// HuggingFaceProvider implements the Provider interface for the Hugging
// Face hosted inference API. The image bytes are posted raw; the endpoint
// responds with a scored label list.
type HuggingFaceProvider struct {
	apiToken   string
	modelID    string
	baseURL    string
	httpClient *http.Client
}

type huggingFaceLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type huggingFaceError struct {
	Error string `json:"error"`
}

// NewHuggingFaceProvider creates a new Hugging Face provider
func NewHuggingFaceProvider(cfg model.HuggingFaceConfig, httpCfg model.HTTPConfig) *HuggingFaceProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co"
	}

	modelID := cfg.Model
	if modelID == "" {
		modelID = "google/vit-base-patch16-224"
	}

	timeout := httpCfg.Timeout
	if timeout == 0 {
		timeout = 12 * time.Second
	}

	return &HuggingFaceProvider{
		apiToken: cfg.APIToken,
		modelID:  modelID,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
		},
	}
}

// Name returns the provider name
func (p *HuggingFaceProvider) Name() string {
	return "huggingface"
}

// Configured reports whether an API token is present
func (p *HuggingFaceProvider) Configured() bool {
	return p.apiToken != ""
}

// Classify posts the raw image to the inference endpoint and maps the
// returned labels via the shared keyword table
func (p *HuggingFaceProvider) Classify(ctx context.Context, req Request) (*model.ClassificationResult, error) {
	modelID := req.Model
	if modelID == "" {
		modelID = p.modelID
	}

	url := fmt.Sprintf("%s/models/%s", p.baseURL, modelID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(req.Image))
	if err != nil {
		return nil, providerErr("huggingface", fmt.Errorf("create request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/octet-stream")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiToken)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, providerErr("huggingface", fmt.Errorf("execute request: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, providerErr("huggingface", fmt.Errorf("read response: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr huggingFaceError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, providerErr("huggingface", fmt.Errorf("API error (%d): %s", httpResp.StatusCode, apiErr.Error))
		}
		return nil, providerErr("huggingface", fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody)))
	}

	var labels []huggingFaceLabel
	if err := json.Unmarshal(respBody, &labels); err != nil {
		return nil, providerErr("huggingface", fmt.Errorf("unmarshal response: %w", err))
	}

	concepts := make([]Concept, 0, len(labels))
	for _, l := range labels {
		concepts = append(concepts, Concept{Label: l.Label, Score: l.Score})
	}

	return ResultFromConcepts("huggingface", concepts)
}
