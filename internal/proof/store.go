package proof

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/civicgo/civicgo/internal/model"
)

// Store is the content-addressable store contract. The identifier returned
// by Put is a pure function of the submitted bytes: re-submitting identical
// content yields the same CID, and a later Get with that CID returns
// byte-identical content.
type Store interface {
	Put(ctx context.Context, data []byte) (string, error)
	Get(ctx context.Context, cid string) ([]byte, error)
}

// NewStore creates a store from configuration
func NewStore(cfg model.StoreConfig) (Store, error) {
	switch strings.ToLower(cfg.Kind) {
	case "ipfs", "":
		return NewIPFSStore(cfg), nil

	case "disk":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("disk store requires a directory")
		}
		return NewDiskStore(cfg.Dir), nil

	case "memory":
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown store kind: %s (supported: ipfs, disk, memory)", cfg.Kind)
	}
}

// localCID derives the content identifier the disk and memory stores use.
// Real multibase encoding is the remote store's concern; locally we only
// promise determinism and idempotence over the exact bytes.
func localCID(data []byte) string {
	hash := sha256.Sum256(data)
	return "bafk" + hex.EncodeToString(hash[:])
}
