package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/civicgo/civicgo/internal/cache"
	"github.com/civicgo/civicgo/internal/model"
	"github.com/civicgo/civicgo/internal/worker"
)

// Orchestrator runs the provider fallback chain. Adapters are tried
// strictly in the configured priority order and the first genuine
// (non-mock) success short-circuits the chain; racing providers would
// burn disjoint free-tier quotas for no benefit. When everything fails
// it degrades to the deterministic mock, so classification never errors.
type Orchestrator struct {
	registry *Registry
	order    []string
	limiter  *worker.Limiter
	cache    cache.Cache
	verbose  bool
}

// NewOrchestrator creates an orchestrator over the configured chain.
// resultCache may be nil to disable caching.
func NewOrchestrator(cfg *model.Config, registry *Registry, resultCache cache.Cache) *Orchestrator {
	var limiter *worker.Limiter
	if cfg.Providers.RequestsPerMinute > 0 {
		limiter = worker.NewLimiter(cfg.Providers.RequestsPerMinute, cfg.Providers.Burst)
	}

	return &Orchestrator{
		registry: registry,
		order:    cfg.Providers.Order,
		limiter:  limiter,
		cache:    resultCache,
		verbose:  cfg.Output.Verbose,
	}
}

// Classify runs the fallback chain over the image. It always returns a
// result: a provider's answer when one is configured and reachable,
// otherwise the deterministic mock tagged as degraded.
func (o *Orchestrator) Classify(ctx context.Context, image []byte) *model.ClassificationResult {
	key := cache.Key(image)
	if o.cache != nil {
		if data, found := o.cache.Get(key); found {
			var cached model.ClassificationResult
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached
			}
			// Corrupt entry; fall through to a fresh classification
			_ = o.cache.Delete(key)
		}
	}

	for _, name := range o.order {
		provider, err := o.registry.Provider(name)
		if err != nil {
			o.logf("provider %s unavailable: %v", name, err)
			continue
		}

		// Missing credential is a configuration gate, not a failure
		if !provider.Configured() {
			o.logf("provider %s not configured, skipping", name)
			continue
		}

		if o.limiter != nil {
			if err := o.limiter.Wait(ctx, name); err != nil {
				o.logf("provider %s rate wait aborted: %v", name, err)
				continue
			}
		}

		result, err := provider.Classify(ctx, Request{Image: image})
		if err != nil {
			o.logf("provider %s failed: %v", name, err)
			continue
		}

		if result.IsMock {
			o.logf("provider %s returned placeholder data, trying next", name)
			continue
		}

		if o.cache != nil {
			if data, err := json.Marshal(result); err == nil {
				_ = o.cache.Set(key, data, 0)
			}
		}
		return result
	}

	// Every enabled adapter exhausted; degrade deterministically
	o.logf("all providers exhausted, using mock classifier")
	result := MockClassify(image)
	result.Degraded = true
	return result
}

func (o *Orchestrator) logf(format string, args ...interface{}) {
	if o.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
