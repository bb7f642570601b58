package classify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/civicgo/civicgo/internal/model"
)

func clarifaiConfig(serverURL string) (model.ClarifaiConfig, model.HTTPConfig) {
	return model.ClarifaiConfig{APIKey: "test-key", BaseURL: serverURL}, model.HTTPConfig{}
}

func TestClarifaiProvider_Classify_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v2/models/") || !strings.HasSuffix(r.URL.Path, "/outputs") {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Key test-key" {
			t.Errorf("Unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req clarifaiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Decode request: %v", err)
		}
		if len(req.Inputs) != 1 || req.Inputs[0].Data.Image.Base64 == "" {
			t.Error("Expected one base64 image input")
		}

		_, _ = w.Write([]byte(`{
			"status": {"code": 10000, "description": "Ok"},
			"outputs": [{"data": {"concepts": [
				{"name": "pothole", "value": 0.91},
				{"name": "asphalt", "value": 0.85},
				{"name": "outdoors", "value": 0.7}
			]}}]
		}`))
	}))
	defer server.Close()

	provider := NewClarifaiProvider(clarifaiConfig(server.URL))

	result, err := provider.Classify(context.Background(), Request{Image: []byte("jpeg bytes")})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if result.Category != model.CategoryRoads {
		t.Errorf("Expected Roads, got %v", result.Category)
	}
	if result.Title != "Road Pothole" {
		t.Errorf("Expected Road Pothole, got %q", result.Title)
	}
	if result.Confidence != 0.91 {
		t.Errorf("Expected raw confidence 0.91, got %v", result.Confidence)
	}
	if result.IsMock {
		t.Error("Real provider result must not be tagged mock")
	}
}

func TestClarifaiProvider_Classify_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status": {"code": 11005, "description": "Too many requests"}}`))
	}))
	defer server.Close()

	provider := NewClarifaiProvider(clarifaiConfig(server.URL))

	_, err := provider.Classify(context.Background(), Request{Image: []byte("img")})
	if err == nil {
		t.Fatal("Expected error for 429 response")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %T", err)
	}
	if provErr.Provider != "clarifai" {
		t.Errorf("Expected provider clarifai, got %q", provErr.Provider)
	}
}

func TestClarifaiProvider_Classify_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	provider := NewClarifaiProvider(clarifaiConfig(server.URL))

	if _, err := provider.Classify(context.Background(), Request{Image: []byte("img")}); err == nil {
		t.Error("Expected error for unparseable payload")
	}
}

func TestClarifaiProvider_Classify_EmptyOutputs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": {"code": 10000}, "outputs": []}`))
	}))
	defer server.Close()

	provider := NewClarifaiProvider(clarifaiConfig(server.URL))

	if _, err := provider.Classify(context.Background(), Request{Image: []byte("img")}); err == nil {
		t.Error("Expected error for empty outputs")
	}
}

func TestClarifaiProvider_Configured(t *testing.T) {
	withKey := NewClarifaiProvider(model.ClarifaiConfig{APIKey: "k"}, model.HTTPConfig{})
	if !withKey.Configured() {
		t.Error("Provider with key should be configured")
	}

	withoutKey := NewClarifaiProvider(model.ClarifaiConfig{}, model.HTTPConfig{})
	if withoutKey.Configured() {
		t.Error("Provider without key should not be configured")
	}
}
