package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadcache/internal/core/domain"
)

func newTestClient(serverURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:    serverURL,
		ListID:     "leads",
		MaxRetries: 1,
		RateLimit:  RateLimitConfig{RequestsPerSecond: 1000, BurstSize: 1000},
	})
}

func TestClient_FetchPage_InitialRequestHitsDeltaEndpoint(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NotEmpty(t, r.Header.Get("client-request-id"))
		fmt.Fprint(w, `{"value":[],"@odata.deltaLink":"`+serverLink(r)+`/delta?token=d1"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	page, err := client.FetchPage(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "/lists/leads/items/delta", gotPath)
	assert.False(t, page.HasNext())
	assert.Contains(t, page.DeltaCursor, "token=d1")
}

func TestClient_FetchPage_DecodesRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"value": [
				{"id":"lead-1","fields":{"name":"Ada","status":"new"}},
				{"id":"lead-2","removed":{"reason":"deleted"}}
			],
			"@odata.deltaLink":"`+serverLink(r)+`/delta?token=d1"
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	page, err := client.FetchPage(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, page.Records, 2)
	assert.Equal(t, "lead-1", page.Records[0].ID)
	assert.False(t, page.Records[0].Removed)
	assert.Equal(t, "Ada", page.Records[0].Fields["name"])
	assert.True(t, page.Records[1].Removed)
}

func TestClient_FetchPage_FollowsCursorURL(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/lists/leads/items/delta", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"value":[{"id":"lead-1","fields":{}}],"@odata.nextLink":"`+serverLink(r)+`/page2"}`)
	})
	mux.HandleFunc("/page2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"value":[{"id":"lead-2","fields":{}}],"@odata.deltaLink":"`+serverLink(r)+`/delta?token=d2"}`)
	})

	client := newTestClient(server.URL)

	page1, err := client.FetchPage(context.Background(), "")
	require.NoError(t, err)
	require.True(t, page1.HasNext())

	page2, err := client.FetchPage(context.Background(), page1.NextCursor)
	require.NoError(t, err)
	assert.False(t, page2.HasNext())
	assert.Equal(t, "lead-2", page2.Records[0].ID)
}

func TestClient_FetchPage_CursorExpiry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "resync required", http.StatusGone)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchPage(context.Background(), server.URL+"/stale")

	assert.ErrorIs(t, err, domain.ErrCursorExpired)
	assert.True(t, IsCursorExpired(err))
}

func TestClient_FetchPage_ServerErrorRetriedOnce(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"value":[],"@odata.deltaLink":"`+serverLink(r)+`/delta?token=d1"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchPage(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestClient_FetchPage_ClientErrorNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchPage(context.Background(), "")

	require.Error(t, err)
	assert.Equal(t, 1, attempts)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
}

func TestClient_FetchPage_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "1")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchPage(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.True(t, IsRateLimited(err))
	assert.False(t, client.limiter.Allow())
}

// serverLink rebuilds the test server origin for links inside responses.
func serverLink(r *http.Request) string {
	return "http://" + r.Host
}
