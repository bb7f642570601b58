package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/civicgo/civicgo/internal/cache"
	"github.com/civicgo/civicgo/internal/model"
	"github.com/civicgo/civicgo/internal/proof"
	"github.com/civicgo/civicgo/internal/worker"
)

var (
	proofTimestamp  string
	verifyReportID  string
	batchFailFast   bool
	proofCmdTimeout time.Duration
)

// proofCmd represents the proof command group
var proofCmd = &cobra.Command{
	Use:   "proof",
	Short: "Create and verify proof-of-record documents",
	Long: `Proof-of-record anchors a report as a minimal immutable JSON document
{report_id, timestamp, city} in a content-addressable store. The returned
CID is the sole handle for later retrieval; any tampering with stored
content changes the identifier and is therefore detectable.`,
}

var proofCreateCmd = &cobra.Command{
	Use:   "create <report-id> <city>",
	Short: "Create a proof-of-record for a report",
	Args:  cobra.ExactArgs(2),
	RunE:  runProofCreate,
}

var proofVerifyCmd = &cobra.Command{
	Use:   "verify <cid>",
	Short: "Verify a proof-of-record by CID",
	Long: `Verify retrieves the record stored at the given CID and validates its
structure. With --report-id the record must additionally carry that exact
report identifier.

Exit status is nonzero when the proof is invalid or could not be
retrieved; the two cases print distinct messages.`,
	Args: cobra.ExactArgs(1),
	RunE: runProofVerify,
}

var proofBatchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify many proofs from a file",
	Long: `Batch reads one item per line ("cid" or "cid,report-id"), verifies all
items concurrently, and prints one result line per input in input order.
A failing item never aborts its siblings.`,
	Args: cobra.ExactArgs(1),
	RunE: runProofBatch,
}

func init() {
	rootCmd.AddCommand(proofCmd)
	proofCmd.AddCommand(proofCreateCmd)
	proofCmd.AddCommand(proofVerifyCmd)
	proofCmd.AddCommand(proofBatchCmd)

	proofCmd.PersistentFlags().DurationVar(&proofCmdTimeout, "timeout", 60*time.Second, "overall command timeout")
	proofCreateCmd.Flags().StringVar(&proofTimestamp, "timestamp", "", "explicit RFC 3339 timestamp (default: now)")
	proofVerifyCmd.Flags().StringVar(&verifyReportID, "report-id", "", "expected report identifier")
	proofBatchCmd.Flags().BoolVar(&batchFailFast, "fail-on-invalid", false, "exit nonzero when any item is invalid")
}

// newStore builds the configured store, with read caching when enabled
func newStore(cfg *model.Config) (proof.Store, error) {
	if cfg.Store.Kind == "ipfs" && cfg.Cache.Enabled {
		readCache := cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		return proof.NewIPFSStoreWithCache(cfg.Store, readCache), nil
	}
	return proof.NewStore(cfg.Store)
}

func runProofCreate(cmd *cobra.Command, args []string) error {
	reportID, city := args[0], args[1]

	cfg := buildConfig()
	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), proofCmdTimeout)
	defer cancel()

	builder := proof.NewBuilder(store)
	result := builder.CreateProofAt(ctx, reportID, city, proofTimestamp)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(out))

	if !result.Success {
		return fmt.Errorf("proof creation failed: %s", result.Error)
	}
	return nil
}

func runProofVerify(cmd *cobra.Command, args []string) error {
	cid := args[0]

	cfg := buildConfig()
	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), proofCmdTimeout)
	defer cancel()

	verifier := proof.NewVerifier(store)
	result := verifier.VerifyProof(ctx, cid, verifyReportID)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(out))

	switch {
	case !result.Success:
		return fmt.Errorf("could not evaluate proof: %s", result.Error)
	case !result.IsValid:
		return fmt.Errorf("proof is not valid: %s", result.Error)
	default:
		return nil
	}
}

func runProofBatch(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), proofCmdTimeout)
	defer cancel()

	processor := worker.NewFileProcessor(proof.NewVerifier(store), cfg.Concurrency.BatchWorkers)
	results, err := processor.ProcessFile(ctx, args[0])
	if err != nil {
		return err
	}

	valid := 0
	for _, r := range results {
		status := "INVALID"
		detail := r.Result.Error
		switch {
		case r.Result.Success && r.Result.IsValid:
			status = "VALID"
			detail = ""
			valid++
		case !r.Result.Success:
			status = "ERROR"
		}
		if detail != "" {
			detail = "  " + detail
		}
		fmt.Printf("%-7s %s%s\n", status, r.Item.CID, detail)
	}

	fmt.Fprintf(os.Stderr, "\n%d/%d proofs valid\n", valid, len(results))

	if batchFailFast && valid != len(results) {
		return fmt.Errorf("%d of %d proofs failed verification", len(results)-valid, len(results))
	}
	return nil
}
