package proof

import (
	"context"
	"fmt"
	"sync"

	"github.com/civicgo/civicgo/internal/model"
)

// BatchItem identifies one proof to verify. ReportID is optional; when set
// the verification includes the exact-match check.
type BatchItem struct {
	CID      string
	ReportID string
}

// BatchVerifier fans verification out concurrently. Reads are independent,
// idempotent, and side-effect-free, so parallelism carries no ordering
// risk; results keep the positional correspondence of the input.
type BatchVerifier struct {
	verifier   *Verifier
	maxWorkers int
}

// NewBatchVerifier creates a batch verifier with the given fan-out cap
func NewBatchVerifier(verifier *Verifier, maxWorkers int) *BatchVerifier {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	return &BatchVerifier{
		verifier:   verifier,
		maxWorkers: maxWorkers,
	}
}

// Verify verifies all items concurrently. One item's failure, including a
// panicking store adapter, never aborts its siblings: each slot resolves
// independently to its real result or a synthesized failure carrying the
// original CID.
func (b *BatchVerifier) Verify(ctx context.Context, items []BatchItem) []model.ProofVerificationResult {
	if len(items) == 0 {
		return []model.ProofVerificationResult{}
	}

	results := make([]model.ProofVerificationResult, len(items))
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, b.maxWorkers)

	for i, item := range items {
		wg.Add(1)
		go func(idx int, it BatchItem) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = model.ProofVerificationResult{
					CID:        it.CID,
					Error:      "verification cancelled",
					VerifiedAt: b.verifier.now().UTC(),
				}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = b.verifySafe(ctx, it)
		}(i, item)
	}

	wg.Wait()

	return results
}

// verifySafe isolates a panic from one verification into a failure result
func (b *BatchVerifier) verifySafe(ctx context.Context, item BatchItem) (result model.ProofVerificationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = model.ProofVerificationResult{
				CID:        item.CID,
				Error:      fmt.Sprintf("verification panic: %v", r),
				VerifiedAt: b.verifier.now().UTC(),
			}
		}
	}()

	return b.verifier.VerifyProof(ctx, item.CID, item.ReportID)
}
