package proof

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore is a content-addressed store over a local directory, used for
// offline and self-hosted deployments. Each record lives in a file named
// by its CID.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a disk store rooted at dir
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

// Put writes data under its derived CID. Identical bytes land on the same
// path, so re-submission is idempotent.
func (s *DiskStore) Put(ctx context.Context, data []byte) (string, error) {
	cid := localCID(data)
	path := filepath.Join(s.dir, cid)

	if _, err := os.Stat(path); err == nil {
		return cid, nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".put-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close record: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("commit record: %w", err)
	}

	return cid, nil
}

// Get reads a record by CID
func (s *DiskStore) Get(ctx context.Context, cid string) ([]byte, error) {
	if err := ValidateCID(cid); err != nil {
		return nil, err
	}
	if strings.ContainsAny(cid, "/\\") {
		return nil, ErrInvalidCID
	}

	data, err := os.ReadFile(filepath.Join(s.dir, cid))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("get %s: %w", cid, ErrNotFound)
		}
		return nil, fmt.Errorf("get %s: %w: %v", cid, ErrStoreUnreachable, err)
	}
	return data, nil
}
