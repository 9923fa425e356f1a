package correlate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/custodia-labs/leadcache/internal/adapters/driven/feed"
	"github.com/custodia-labs/leadcache/internal/core/domain"
	"github.com/custodia-labs/leadcache/internal/core/ports/driven"
	"github.com/custodia-labs/leadcache/internal/logger"
)

// MaxBatchSize is the remote API's sub-request limit per batch call.
const MaxBatchSize = 20

// messagesPerQuery bounds how many ranked matches one sub-request asks for.
const messagesPerQuery = 10

const maxErrorBody = 512

// Ensure Client implements the interface.
var _ driven.MessageSearch = (*Client)(nil)

// ClientConfig holds the options for NewClient.
type ClientConfig struct {
	// BaseURL is the mail API root, e.g. "https://api.example.com/v1".
	BaseURL string

	// Tokens provides access tokens. Optional for unauthenticated APIs.
	Tokens driven.TokenProvider

	// HTTPClient is the underlying transport. Defaults to a client with
	// a 30 second timeout.
	HTTPClient *http.Client

	// RateLimit overrides the default request pacing.
	RateLimit feed.RateLimitConfig

	// MaxRetries bounds transient-failure retries per batch call.
	// Defaults to 3.
	MaxRetries int
}

// Client runs multiplexed message searches against the mail API.
type Client struct {
	baseURL    string
	tokens     driven.TokenProvider
	httpClient *http.Client
	limiter    *feed.RateLimiter
	maxRetries uint64
}

// NewClient creates a message-search client.
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
		tokens:     cfg.Tokens,
		httpClient: httpClient,
		limiter:    feed.NewRateLimiter(cfg.RateLimit),
		maxRetries: uint64(maxRetries),
	}
}

// batchRequest is the wire shape of one multiplexed call.
type batchRequest struct {
	Requests []subRequest `json:"requests"`
}

type subRequest struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	URL    string `json:"url"`
}

// batchResponse carries one sub-response per sub-request, each with its
// own status. Order is not guaranteed to match the request.
type batchResponse struct {
	Responses []subResponse `json:"responses"`
}

type subResponse struct {
	ID     string          `json:"id"`
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// messageList is the body of a successful message-search sub-response.
type messageList struct {
	Value []wireMessage `json:"value"`
}

type wireMessage struct {
	ID       string      `json:"id"`
	From     wireAddress `json:"from"`
	Subject  string      `json:"subject"`
	IsDraft  bool        `json:"isDraft"`
	Received string      `json:"receivedDateTime"`
}

type wireAddress struct {
	EmailAddress struct {
		Address string `json:"address"`
	} `json:"emailAddress"`
}

// SearchBatch runs the queries as one batch POST. A sub-request failure
// is reported in its result's Err; only transport and call-level
// failures surface as an error, in which case no result is usable.
func (c *Client) SearchBatch(ctx context.Context, queries []driven.MessageQuery) ([]driven.MessageResult, error) {
	if len(queries) == 0 {
		return nil, nil
	}
	if len(queries) > MaxBatchSize {
		return nil, fmt.Errorf("%w: batch of %d exceeds limit %d", domain.ErrInvalidInput, len(queries), MaxBatchSize)
	}

	payload := batchRequest{Requests: make([]subRequest, 0, len(queries))}
	for _, q := range queries {
		payload.Requests = append(payload.Requests, subRequest{
			ID:     q.ID,
			Method: http.MethodGet,
			URL:    searchURL(q.Addresses),
		})
	}

	var resp batchResponse
	operation := func() error {
		if err := c.doBatch(ctx, payload, &resp); err != nil {
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

	byID := make(map[string]subResponse, len(resp.Responses))
	for _, sub := range resp.Responses {
		byID[sub.ID] = sub
	}

	results := make([]driven.MessageResult, 0, len(queries))
	for _, q := range queries {
		results = append(results, decodeResult(q.ID, byID))
	}
	return results, nil
}

// searchURL builds the relative sub-request URL for one lead's addresses.
func searchURL(addresses []string) string {
	terms := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		terms = append(terms, "participants:"+addr)
	}
	search := url.QueryEscape(fmt.Sprintf("%q", strings.Join(terms, " OR ")))
	return fmt.Sprintf("/messages?$search=%s&$top=%d", search, messagesPerQuery)
}

// decodeResult maps one sub-response back to its query.
func decodeResult(id string, byID map[string]subResponse) driven.MessageResult {
	sub, ok := byID[id]
	if !ok {
		return driven.MessageResult{ID: id, Err: fmt.Errorf("no response for sub-request %s", id)}
	}
	if sub.Status != http.StatusOK {
		return driven.MessageResult{ID: id, Err: fmt.Errorf("message search: sub-request %s: status %d", id, sub.Status)}
	}

	var list messageList
	if err := json.Unmarshal(sub.Body, &list); err != nil {
		return driven.MessageResult{ID: id, Err: fmt.Errorf("message search: decode sub-response %s: %w", id, err)}
	}

	messages := make([]domain.Message, 0, len(list.Value))
	for _, m := range list.Value {
		received, err := time.Parse(time.RFC3339, m.Received)
		if err != nil {
			logger.Warn("message %s: unparseable timestamp %q, skipping", m.ID, m.Received)
			continue
		}
		messages = append(messages, domain.Message{
			ID:       m.ID,
			From:     m.From.EmailAddress.Address,
			Subject:  m.Subject,
			Draft:    m.IsDraft,
			Received: received,
		})
	}
	return driven.MessageResult{ID: id, Messages: messages}
}

// doBatch runs one rate-limited batch POST and decodes the envelope.
func (c *Client) doBatch(ctx context.Context, payload batchRequest, out *batchResponse) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return backoff.Permanent(err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("encode batch: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/$batch", bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
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
		return fmt.Errorf("batch call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &feed.StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode batch: %w", err))
	}
	return nil
}

// isRetryable mirrors the feed transport's policy: server-side and
// network failures retry, everything else surfaces immediately.
func isRetryable(err error) bool {
	var statusErr *feed.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError
	}
	return true
}
