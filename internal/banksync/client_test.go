package banksync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_SyncTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transactions/sync", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "client-id", body["client_id"])
		assert.Equal(t, "secret", body["secret"])
		assert.Equal(t, "access-token", body["access_token"])
		assert.Equal(t, "cursor-0", body["cursor"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"added": [
				{
					"transaction_id": "tx-1",
					"account_id": "acc-1",
					"amount": 12.34,
					"date": "2024-03-05",
					"merchant_name": "Starbucks",
					"name": "STARBUCKS #1234",
					"pending": false,
					"personal_finance_category": {"primary": "FOOD_AND_DRINK"}
				}
			],
			"removed": [{"transaction_id": "tx-0"}],
			"next_cursor": "cursor-1",
			"has_more": true
		}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "client-id", "secret")

	page, err := client.SyncTransactions(context.Background(), "access-token", "cursor-0")
	require.NoError(t, err)

	require.Len(t, page.Added, 1)
	assert.Equal(t, "tx-1", page.Added[0].ID)
	assert.Equal(t, int64(1234), page.Added[0].AmountCents)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), page.Added[0].Date)
	assert.Equal(t, "Starbucks", page.Added[0].MerchantName)
	assert.Equal(t, "FOOD_AND_DRINK", page.Added[0].Category)
	assert.Equal(t, []string{"tx-0"}, page.Removed)
	assert.Equal(t, "cursor-1", page.NextCursor)
	assert.True(t, page.HasMore)
}

func TestHTTPClient_SyncTransactions_SkipsMalformedDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"added": [
				{"transaction_id": "tx-1", "amount": 5, "date": "not-a-date", "name": "BROKEN ROW"},
				{"transaction_id": "tx-2", "amount": 7.5, "date": "2024-03-06", "name": "GOOD ROW"}
			],
			"removed": [],
			"next_cursor": "cursor-1",
			"has_more": false
		}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "client-id", "secret")

	page, err := client.SyncTransactions(context.Background(), "access-token", "")
	require.NoError(t, err)

	require.Len(t, page.Added, 1)
	assert.Equal(t, "tx-2", page.Added[0].ID)
	assert.Equal(t, "cursor-1", page.NextCursor)
}

func TestHTTPClient_SyncTransactions_FirstSyncOmitsCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		_, hasCursor := body["cursor"]
		assert.False(t, hasCursor)

		_, _ = w.Write([]byte(`{"added": [], "removed": [], "next_cursor": "cursor-1", "has_more": false}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "client-id", "secret")

	page, err := client.SyncTransactions(context.Background(), "access-token", "")
	require.NoError(t, err)
	assert.Empty(t, page.Added)
	assert.Equal(t, "cursor-1", page.NextCursor)
}

func TestHTTPClient_CreateLinkToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/link/token/create", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"client_user_id": "user-1"}, body["user"])

		_, _ = w.Write([]byte(`{"link_token": "link-token-1"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "client-id", "secret")

	token, err := client.CreateLinkToken(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "link-token-1", token)
}

func TestHTTPClient_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_message": "INVALID_ACCESS_TOKEN"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "client-id", "secret")

	_, err := client.SyncTransactions(context.Background(), "bad-token", "")
	require.ErrorContains(t, err, "INVALID_ACCESS_TOKEN")
}

func TestHTTPClient_ProviderErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "client-id", "secret")

	err := client.RemoveItem(context.Background(), "access-token")
	require.ErrorContains(t, err, "status 500")
}
