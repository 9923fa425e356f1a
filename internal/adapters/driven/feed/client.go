package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/custodia-labs/leadcache/internal/core/domain"
	"github.com/custodia-labs/leadcache/internal/core/ports/driven"
	"github.com/custodia-labs/leadcache/internal/logger"
)

// maxErrorBody bounds how much of an error response is kept for logs.
const maxErrorBody = 512

// Ensure Client implements the interface.
var _ driven.ChangeFeed = (*Client)(nil)

// ClientConfig holds the options for NewClient.
type ClientConfig struct {
	// BaseURL is the list API root, e.g. "https://api.example.com/v1".
	BaseURL string

	// ListID is the remote list this client serves.
	ListID string

	// Tokens provides access tokens. Optional for unauthenticated APIs.
	Tokens driven.TokenProvider

	// HTTPClient is the underlying transport. Defaults to a client with
	// a 30 second timeout.
	HTTPClient *http.Client

	// RateLimit overrides the default request pacing.
	RateLimit RateLimitConfig

	// MaxRetries bounds transient-failure retries per page request.
	// Defaults to 3.
	MaxRetries int
}

// Client fetches change pages from one remote list's delta endpoint.
type Client struct {
	baseURL    string
	listID     string
	tokens     driven.TokenProvider
	httpClient *http.Client
	limiter    *RateLimiter
	maxRetries uint64
}

// NewClient creates a change-feed client for one list.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		listID:     cfg.ListID,
		tokens:     cfg.Tokens,
		httpClient: httpClient,
		limiter:    NewRateLimiter(cfg.RateLimit),
		maxRetries: uint64(maxRetries),
	}
}

// ListID identifies the remote list this feed serves.
func (c *Client) ListID() string {
	return c.listID
}

// deltaURL is the initial full-enumeration request for the list.
func (c *Client) deltaURL() string {
	return fmt.Sprintf("%s/lists/%s/items/delta", c.baseURL, c.listID)
}

// feedResponse is the wire shape of one delta page.
type feedResponse struct {
	Value []feedRecord `json:"value"`
	// NextLink continues the current pass; DeltaLink closes it.
	NextLink  string `json:"@odata.nextLink"`
	DeltaLink string `json:"@odata.deltaLink"`
}

// feedRecord is one change on the wire. Removed items carry a removal
// marker instead of fields.
type feedRecord struct {
	ID      string            `json:"id"`
	Removed *removalMarker    `json:"removed,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type removalMarker struct {
	Reason string `json:"reason"`
}

// FetchPage fetches the next page of changes. An empty cursor starts a
// full enumeration; otherwise the cursor is the opaque continuation URL
// handed out by the previous page.
func (c *Client) FetchPage(ctx context.Context, cursor string) (*driven.FeedPage, error) {
	url := cursor
	if url == "" {
		url = c.deltaURL()
	}

	var resp feedResponse
	operation := func() error {
		if err := c.doJSON(ctx, url, &resp); err != nil {
			if isRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return nil, err
	}

	page := &driven.FeedPage{
		Records:     make([]domain.ChangeRecord, 0, len(resp.Value)),
		NextCursor:  resp.NextLink,
		DeltaCursor: resp.DeltaLink,
	}
	for _, rec := range resp.Value {
		page.Records = append(page.Records, domain.ChangeRecord{
			ID:      rec.ID,
			Removed: rec.Removed != nil,
			Fields:  rec.Fields,
		})
	}
	return page, nil
}

// doJSON runs one rate-limited GET and decodes the response.
func (c *Client) doJSON(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return backoff.Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("client-request-id", uuid.NewString())

	if c.tokens != nil && c.tokens.IsAuthenticated() {
		token, err := c.tokens.GetToken(ctx)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %w", domain.ErrAuthRequired, err))
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
			c.limiter.RecordRateLimitError(retryAfter)
			logger.Debug("list %s: rate limited, backing off %ds", c.listID, retryAfter)
		}
		return wrapStatus(resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode page: %w", err))
	}
	return nil
}
