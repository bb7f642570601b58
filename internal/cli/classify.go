package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/civicgo/civicgo/internal/cache"
	"github.com/civicgo/civicgo/internal/classify"
	"github.com/civicgo/civicgo/internal/model"
)

var (
	classifyOrder   []string
	classifyNoCache bool
	classifyTimeout time.Duration
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <image>",
	Short: "Classify a civic issue photo into a category",
	Long: `Classify runs the provider fallback chain over an image file and prints
the resulting civic issue classification as JSON.

Providers are tried in a fixed priority order; the first configured and
reachable provider that returns genuine (non-placeholder) data wins. With
no providers configured the deterministic mock result is returned, tagged
as degraded.

Example:
  civicgo classify pothole.jpg
  civicgo classify leak.jpg --provider-order openai,clarifai
  CLARIFAI_API_KEY=... civicgo classify dump-site.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringSliceVar(&classifyOrder, "provider-order", nil, "override provider priority order")
	classifyCmd.Flags().BoolVar(&classifyNoCache, "no-cache", false, "disable result caching")
	classifyCmd.Flags().DurationVar(&classifyTimeout, "timeout", 45*time.Second, "overall classification timeout")
}

func runClassify(cmd *cobra.Command, args []string) error {
	image, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	cfg := buildConfig()
	if len(classifyOrder) > 0 {
		cfg.Providers.Order = classifyOrder
	}
	if classifyNoCache {
		cfg.Cache.Enabled = false
	}

	ctx, cancel := context.WithTimeout(context.Background(), classifyTimeout)
	defer cancel()

	orchestrator := newOrchestrator(cfg)
	result := orchestrator.Classify(ctx, image)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(out))

	if result.Degraded {
		fmt.Fprintln(os.Stderr, "Note: no provider answered; this is a degraded placeholder result")
	}

	return nil
}

// newOrchestrator wires the registry, cache, and orchestrator from config
func newOrchestrator(cfg *model.Config) *classify.Orchestrator {
	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			resultCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		} else {
			resultCache = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		}
	}

	return classify.NewOrchestrator(cfg, classify.NewRegistry(cfg), resultCache)
}
