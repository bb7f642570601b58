package model

import "time"

// ProofRecord is the minimal immutable document asserting that a report
// existed at a point in time. Field order matters: the record is serialized
// in declaration order and the resulting bytes determine the CID.
type ProofRecord struct {
	ReportID  string `json:"report_id"` // Opaque external identifier
	Timestamp string `json:"timestamp"` // ISO-8601 instant
	City      string `json:"city"`      // Municipality the report belongs to
}

// ProofCreationResult is returned by the proof builder. Creation is
// best-effort: failures are carried here, never raised to the caller.
type ProofCreationResult struct {
	Success   bool         `json:"success"`
	CID       string       `json:"cid,omitempty"`
	Proof     *ProofRecord `json:"proof,omitempty"`
	Error     string       `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// ProofVerificationResult distinguishes two failure classes:
// Success=false means retrieval itself failed (store/network error);
// Success=true with IsValid=false means the record was retrieved but
// failed structural or semantic validation.
type ProofVerificationResult struct {
	Success    bool         `json:"success"`
	IsValid    bool         `json:"is_valid"`
	Proof      *ProofRecord `json:"proof,omitempty"`
	CID        string       `json:"cid"`
	Error      string       `json:"error,omitempty"`
	VerifiedAt time.Time    `json:"verified_at"`
}
