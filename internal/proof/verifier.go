package proof

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/civicgo/civicgo/internal/model"
)

// Verifier retrieves proof records and checks them. This is the trust
// boundary: structure and content are validated here, not at creation.
type Verifier struct {
	store Store

	// now is injectable for tests
	now func() time.Time
}

// NewVerifier creates a verifier over the given store
func NewVerifier(store Store) *Verifier {
	return &Verifier{
		store: store,
		now:   time.Now,
	}
}

// VerifyProof retrieves the record at cid and validates it. A non-empty
// expectedReportID additionally requires an exact, case-sensitive match.
//
// Success=false means retrieval failed; Success=true with IsValid=false
// means the record was retrieved but failed validation. The two are
// distinct failure classes and are reported with distinct messages.
func (v *Verifier) VerifyProof(ctx context.Context, cid, expectedReportID string) model.ProofVerificationResult {
	result := model.ProofVerificationResult{
		CID:        cid,
		VerifiedAt: v.now().UTC(),
	}

	data, err := v.store.Get(ctx, cid)
	if err != nil {
		result.Error = UserMessage(err)
		return result
	}

	// Retrieval worked; everything past this point is a validation verdict
	result.Success = true

	var record model.ProofRecord
	if err := json.Unmarshal(data, &record); err != nil {
		result.Error = "The stored record is not a valid proof document."
		return result
	}

	if reason, ok := validateRecord(&record); !ok {
		result.Proof = &record
		result.Error = reason
		return result
	}

	if expectedReportID != "" && record.ReportID != expectedReportID {
		result.Proof = &record
		result.Error = "The proof does not match the expected report identifier."
		return result
	}

	result.IsValid = true
	result.Proof = &record
	return result
}

// validateRecord runs the structural checks: three non-empty string
// fields, a parseable timestamp, and a non-empty city after trimming
func validateRecord(record *model.ProofRecord) (string, bool) {
	if record.ReportID == "" {
		return "The proof record has no report identifier.", false
	}
	if record.Timestamp == "" {
		return "The proof record has no timestamp.", false
	}
	if _, err := time.Parse(time.RFC3339, record.Timestamp); err != nil {
		return "The proof record's timestamp is not a valid instant.", false
	}
	if strings.TrimSpace(record.City) == "" {
		return "The proof record has no city.", false
	}
	return "", true
}
