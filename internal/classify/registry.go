package classify

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/civicgo/civicgo/internal/model"
)

// Registry constructs providers lazily and caches them by name. The first
// caller for a name triggers construction; concurrent callers for the same
// name share the single in-flight build instead of racing their own.
type Registry struct {
	cfg *model.Config

	mu        sync.RWMutex
	providers map[string]Provider
	group     singleflight.Group
}

// NewRegistry creates a registry over the configured providers
func NewRegistry(cfg *model.Config) *Registry {
	return &Registry{
		cfg:       cfg,
		providers: make(map[string]Provider),
	}
}

// Register installs a pre-built provider under name, bypassing lazy
// construction
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	r.providers[name] = p
	r.mu.Unlock()
}

// Provider returns the adapter for name, building it on first use
func (r *Registry) Provider(name string) (Provider, error) {
	r.mu.RLock()
	p, ok := r.providers[name]
	r.mu.RUnlock()
	if ok {
		return p, nil
	}

	v, err, _ := r.group.Do(name, func() (interface{}, error) {
		// Re-check under the write path: an earlier flight may have stored it
		r.mu.RLock()
		if p, ok := r.providers[name]; ok {
			r.mu.RUnlock()
			return p, nil
		}
		r.mu.RUnlock()

		p, err := r.build(name)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.providers[name] = p
		r.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Provider), nil
}

func (r *Registry) build(name string) (Provider, error) {
	switch name {
	case "clarifai":
		return NewClarifaiProvider(r.cfg.Providers.Clarifai, r.cfg.HTTP), nil
	case "huggingface":
		return NewHuggingFaceProvider(r.cfg.Providers.HuggingFace, r.cfg.HTTP), nil
	case "openai":
		return NewOpenAIProvider(r.cfg.Providers.OpenAI, r.cfg.HTTP), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: clarifai, huggingface, openai)", name)
	}
}
