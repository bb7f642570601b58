package proof

import (
	"context"
	"errors"
	"net"
	"regexp"
)

// Store failure causes. Auditors need to tell "the network is down" apart
// from "this proof looks tampered with", so each cause maps to its own
// user-facing message.
var (
	ErrInvalidCID       = errors.New("invalid content identifier")
	ErrStoreTimeout     = errors.New("store request timed out")
	ErrStoreUnreachable = errors.New("store unreachable")
	ErrNotFound         = errors.New("record not found")
)

// cidPattern accepts CIDv0 (Qm + 44 base58 chars) and base32 CIDv1, plus
// the local bafk-hex form the disk and memory stores emit
var cidPattern = regexp.MustCompile(`^(Qm[1-9A-HJ-NP-Za-km-z]{44}|b[a-z2-7]{8,}|bafk[0-9a-f]{64})$`)

// ValidateCID checks CID syntax before any network dial
func ValidateCID(cid string) error {
	if !cidPattern.MatchString(cid) {
		return ErrInvalidCID
	}
	return nil
}

// classifyTransportErr maps a transport failure onto the store error
// taxonomy, preserving the original error for wrapping callers
func classifyTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrStoreTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrStoreTimeout
	}
	return ErrStoreUnreachable
}

// UserMessage renders a store or validation error as the audit-facing
// message shown in the verification UI
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCID):
		return "The proof identifier is malformed. Check that the CID was copied correctly."
	case errors.Is(err, ErrStoreTimeout):
		return "The proof store took too long to respond. Try again in a moment."
	case errors.Is(err, ErrNotFound):
		return "No record exists for this proof identifier."
	case errors.Is(err, ErrStoreUnreachable):
		return "The proof store could not be reached. The network may be down."
	case err != nil:
		return "Proof verification failed: " + err.Error()
	default:
		return ""
	}
}
