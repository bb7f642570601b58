package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/civicgo/civicgo/internal/model"
	"github.com/civicgo/civicgo/internal/proof"
)

// VerifyJob verifies one proof through the pool
type VerifyJob struct {
	Index    int
	Item     proof.BatchItem
	Verifier *proof.Verifier
}

// Execute runs the verification
func (j *VerifyJob) Execute(ctx context.Context) Result {
	return &VerifyResult{
		Index:  j.Index,
		Item:   j.Item,
		Result: j.Verifier.VerifyProof(ctx, j.Item.CID, j.Item.ReportID),
	}
}

// VerifyResult carries one verification outcome plus its input position
type VerifyResult struct {
	Index  int
	Item   proof.BatchItem
	Result model.ProofVerificationResult
}

// GetError reports the verification failure, if any
func (r *VerifyResult) GetError() error {
	if r.Result.Success && r.Result.IsValid {
		return nil
	}
	return fmt.Errorf("%s: %s", r.Item.CID, r.Result.Error)
}

// FileProcessor verifies proofs listed in a file through a worker pool
type FileProcessor struct {
	verifier    *proof.Verifier
	concurrency int
}

// NewFileProcessor creates a new file processor
func NewFileProcessor(verifier *proof.Verifier, concurrency int) *FileProcessor {
	return &FileProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessItems verifies all items concurrently, returning results in the
// same order as the input
func (p *FileProcessor) ProcessItems(ctx context.Context, items []proof.BatchItem) []*VerifyResult {
	if len(items) == 0 {
		return []*VerifyResult{}
	}

	pool := NewPool(p.concurrency)
	pool.Start()

	for i, item := range items {
		pool.Submit(&VerifyJob{
			Index:    i,
			Item:     item,
			Verifier: p.verifier,
		})
	}

	results := pool.Wait()

	// Restore input order; the pool yields results as workers finish
	ordered := make([]*VerifyResult, len(items))
	for _, result := range results {
		vr := result.(*VerifyResult)
		ordered[vr.Index] = vr
	}

	return ordered
}

// ProcessFile reads items from a file and verifies them concurrently
func (p *FileProcessor) ProcessFile(ctx context.Context, filePath string) ([]*VerifyResult, error) {
	items, err := ReadItemsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}

	return p.ProcessItems(ctx, items), nil
}

// ReadItemsFromFile reads batch items from a file, one per line as
// "cid" or "cid,report-id". Blank lines and #-comments are skipped.
func ReadItemsFromFile(filePath string) ([]proof.BatchItem, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var items []proof.BatchItem

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		item := proof.BatchItem{CID: line}
		if cid, reportID, found := strings.Cut(line, ","); found {
			item.CID = strings.TrimSpace(cid)
			item.ReportID = strings.TrimSpace(reportID)
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return items, nil
}
