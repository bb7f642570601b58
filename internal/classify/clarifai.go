package classify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/civicgo/civicgo/internal/model"
	"github.com/civicgo/civicgo/internal/util"
)

// ClarifaiProvider implements the Provider interface for the Clarifai
// general image recognition model
type ClarifaiProvider struct {
	apiKey     string
	modelID    string
	baseURL    string
	httpClient *http.Client
}

// Clarifai API structures
type clarifaiRequest struct {
	Inputs []clarifaiInput `json:"inputs"`
}

type clarifaiInput struct {
	Data clarifaiData `json:"data"`
}

type clarifaiData struct {
	Image clarifaiImage `json:"image"`
}

type clarifaiImage struct {
	Base64 string `json:"base64"`
}

type clarifaiResponse struct {
	Status struct {
		Code        int    `json:"code"`
		Description string `json:"description"`
	} `json:"status"`
	Outputs []struct {
		Data struct {
			Concepts []struct {
				Name  string  `json:"name"`
				Value float64 `json:"value"`
			} `json:"concepts"`
		} `json:"data"`
	} `json:"outputs"`
}

// NewClarifaiProvider creates a new Clarifai provider
func NewClarifaiProvider(cfg model.ClarifaiConfig, httpCfg model.HTTPConfig) *ClarifaiProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.clarifai.com"
	}

	modelID := cfg.Model
	if modelID == "" {
		modelID = "general-image-recognition"
	}

	timeout := httpCfg.Timeout
	if timeout == 0 {
		timeout = 12 * time.Second
	}

	return &ClarifaiProvider{
		apiKey:  cfg.APIKey,
		modelID: modelID,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
		},
	}
}

// Name returns the provider name
func (p *ClarifaiProvider) Name() string {
	return "clarifai"
}

// Configured reports whether an API key is present
func (p *ClarifaiProvider) Configured() bool {
	return p.apiKey != ""
}

// Classify sends the image to Clarifai and maps the returned concepts to a
// civic category via the shared keyword table
func (p *ClarifaiProvider) Classify(ctx context.Context, req Request) (*model.ClassificationResult, error) {
	modelID := req.Model
	if modelID == "" {
		modelID = p.modelID
	}

	apiReq := clarifaiRequest{
		Inputs: []clarifaiInput{
			{Data: clarifaiData{Image: clarifaiImage{
				Base64: base64.StdEncoding.EncodeToString(req.Image),
			}}},
		},
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, providerErr("clarifai", fmt.Errorf("marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/v2/models/%s/outputs", p.baseURL, modelID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, providerErr("clarifai", fmt.Errorf("create request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Key "+p.apiKey)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, providerErr("clarifai", fmt.Errorf("execute request: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, providerErr("clarifai", fmt.Errorf("read response: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, providerErr("clarifai", fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody)))
	}

	var resp clarifaiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, providerErr("clarifai", fmt.Errorf("unmarshal response: %w", err))
	}

	if len(resp.Outputs) == 0 {
		return nil, providerErr("clarifai", fmt.Errorf("no outputs in response"))
	}

	concepts := make([]Concept, 0, len(resp.Outputs[0].Data.Concepts))
	for _, c := range resp.Outputs[0].Data.Concepts {
		concepts = append(concepts, Concept{Label: c.Name, Score: c.Value})
	}

	return ResultFromConcepts("clarifai", concepts)
}
