package classify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/civicgo/civicgo/internal/model"
)

func TestHuggingFaceProvider_Classify_Success(t *testing.T) {
	imageBytes := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/google/vit-base-patch16-224" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer hf-token" {
			t.Errorf("Unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		body, _ := io.ReadAll(r.Body)
		if string(body) != string(imageBytes) {
			t.Error("Image bytes must be posted raw")
		}

		_, _ = w.Write([]byte(`[
			{"label": "manhole cover, drain cover", "score": 0.62},
			{"label": "street sign", "score": 0.2}
		]`))
	}))
	defer server.Close()

	provider := NewHuggingFaceProvider(
		model.HuggingFaceConfig{APIToken: "hf-token", BaseURL: server.URL},
		model.HTTPConfig{},
	)

	result, err := provider.Classify(context.Background(), Request{Image: imageBytes})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if result.Category != model.CategoryWater {
		t.Errorf("Expected Water from drain label, got %v", result.Category)
	}
	if result.Confidence != 0.62 {
		t.Errorf("Expected raw confidence 0.62, got %v", result.Confidence)
	}
}

func TestHuggingFaceProvider_Classify_ModelLoading(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": "Model google/vit-base-patch16-224 is currently loading"}`))
	}))
	defer server.Close()

	provider := NewHuggingFaceProvider(
		model.HuggingFaceConfig{APIToken: "hf-token", BaseURL: server.URL},
		model.HTTPConfig{},
	)

	_, err := provider.Classify(context.Background(), Request{Image: []byte("img")})
	if err == nil {
		t.Fatal("Expected error while model is loading")
	}
}

func TestHuggingFaceProvider_Configured(t *testing.T) {
	provider := NewHuggingFaceProvider(model.HuggingFaceConfig{}, model.HTTPConfig{})
	if provider.Configured() {
		t.Error("Provider without token should not be configured")
	}
}
