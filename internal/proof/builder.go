package proof

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/civicgo/civicgo/internal/model"
)

// Builder creates proof-of-record documents. Creation is best-effort: the
// report submission it rides on must succeed whether or not the proof
// lands, so every failure comes back inside the result, never as an error.
// Input validation is deferred to the verifier; creation trusts its
// upstream caller.
type Builder struct {
	store Store

	// now is injectable for tests
	now func() time.Time
}

// NewBuilder creates a builder over the given store
func NewBuilder(store Store) *Builder {
	return &Builder{
		store: store,
		now:   time.Now,
	}
}

// CreateProof builds and stores a record stamped with the current instant
func (b *Builder) CreateProof(ctx context.Context, reportID, city string) model.ProofCreationResult {
	return b.CreateProofAt(ctx, reportID, city, "")
}

// CreateProofAt builds and stores a record with an explicit timestamp.
// An empty timestamp defaults to the current instant in RFC 3339 UTC.
func (b *Builder) CreateProofAt(ctx context.Context, reportID, city, timestamp string) model.ProofCreationResult {
	createdAt := b.now().UTC()

	if timestamp == "" {
		timestamp = createdAt.Format(time.RFC3339)
	}

	record := &model.ProofRecord{
		ReportID:  reportID,
		Timestamp: timestamp,
		City:      strings.TrimSpace(city),
	}

	// Canonical serialization: struct field order is the byte layout, so
	// identical records always produce identical bytes and the same CID
	data, err := json.Marshal(record)
	if err != nil {
		return model.ProofCreationResult{
			Success:   false,
			Error:     "serialize record: " + err.Error(),
			Timestamp: createdAt,
		}
	}

	cid, err := b.store.Put(ctx, data)
	if err != nil {
		return model.ProofCreationResult{
			Success:   false,
			Error:     err.Error(),
			Timestamp: createdAt,
		}
	}

	return model.ProofCreationResult{
		Success:   true,
		CID:       cid,
		Proof:     record,
		Timestamp: createdAt,
	}
}
