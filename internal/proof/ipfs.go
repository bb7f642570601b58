package proof

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/civicgo/civicgo/internal/cache"
	"github.com/civicgo/civicgo/internal/model"
)

// IPFSStore stores records through an IPFS node HTTP API and reads them
// back through a public gateway. Retrieved content is immutable by
// construction, so Gets are cached read-through.
type IPFSStore struct {
	apiURL       string
	gatewayURL   string
	maxBodyBytes int64
	httpClient   *http.Client
	readCache    cache.Cache

	// limiter paces gateway reads; public gateways throttle greedy clients
	limiter *rate.Limiter
}

type ipfsAddResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

// NewIPFSStore creates a store without read caching
func NewIPFSStore(cfg model.StoreConfig) *IPFSStore {
	return NewIPFSStoreWithCache(cfg, nil)
}

// NewIPFSStoreWithCache creates a store that caches gateway reads
func NewIPFSStoreWithCache(cfg model.StoreConfig, readCache cache.Cache) *IPFSStore {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "http://127.0.0.1:5001"
	}

	gatewayURL := cfg.GatewayURL
	if gatewayURL == "" {
		gatewayURL = "https://ipfs.io"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody == 0 {
		maxBody = 1_000_000
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60.0), 10)
	}

	return &IPFSStore{
		apiURL:       strings.TrimSuffix(apiURL, "/"),
		gatewayURL:   strings.TrimSuffix(gatewayURL, "/"),
		maxBodyBytes: maxBody,
		httpClient:   &http.Client{Timeout: timeout},
		readCache:    readCache,
		limiter:      limiter,
	}
}

// Put adds data to the node and returns its CID. Adding identical bytes
// yields the same CID; the node layer makes Put idempotent.
func (s *IPFSStore) Put(ctx context.Context, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "record.json")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	url := fmt.Sprintf("%s/api/v0/add?cid-version=0&pin=true", s.apiURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	httpResp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("add: %w: %v", classifyTransportErr(err), err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, s.maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read add response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("add: %w: status %d: %s", ErrStoreUnreachable, httpResp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var resp ipfsAddResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("unmarshal add response: %w", err)
	}
	if resp.Hash == "" {
		return "", fmt.Errorf("add response missing hash")
	}

	return resp.Hash, nil
}

// Get fetches content by CID from the gateway. The CID is syntax-checked
// before any dial so a malformed identifier never looks like a network
// failure.
func (s *IPFSStore) Get(ctx context.Context, cid string) ([]byte, error) {
	if err := ValidateCID(cid); err != nil {
		return nil, err
	}

	cacheKey := cache.KeyString(cid)
	if s.readCache != nil {
		if data, found := s.readCache.Get(cacheKey); found {
			return data, nil
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("get %s: %w: %v", cid, ErrStoreTimeout, err)
		}
	}

	url := fmt.Sprintf("%s/ipfs/%s", s.gatewayURL, cid)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpResp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w: %v", cid, classifyTransportErr(err), err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("get %s: %w", cid, ErrNotFound)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: %w: status %d", cid, ErrStoreUnreachable, httpResp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, s.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	if s.readCache != nil {
		_ = s.readCache.Set(cacheKey, data, 0)
	}

	return data, nil
}
