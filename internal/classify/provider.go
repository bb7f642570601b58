package classify

import (
	"context"
	"fmt"

	"github.com/civicgo/civicgo/internal/model"
)

// Provider defines the interface for image classification providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Classify analyzes an image and maps it to a civic issue result
	Classify(ctx context.Context, req Request) (*model.ClassificationResult, error)

	// Configured reports whether the provider has the credentials it needs.
	// An unconfigured provider is skipped by the orchestrator, not treated
	// as a failure.
	Configured() bool
}

// Request contains the input for image classification
type Request struct {
	// Image is the raw image byte sequence
	Image []byte

	// Model is an optional provider-specific model override
	Model string
}

// ProviderError wraps a failure from a single provider: unreachable
// endpoint, non-2xx status, or an unparseable payload. The orchestrator
// recovers from these by falling through to the next adapter.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// providerErr wraps err with the provider name
func providerErr(provider string, err error) error {
	return &ProviderError{Provider: provider, Err: err}
}

// topK is how many top-scoring labels each adapter considers when mapping
// provider output to a civic category
const topK = 5
