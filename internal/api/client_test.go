package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "sk_test_abc", nil)
}

func TestBalanceSendsBearerKey(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/balance", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"balance","livemode":false,"available":[{"amount":1200,"currency":"usd"}]}`))
	})

	bal, err := c.Balance(context.Background())
	require.NoError(t, err)
	assert.False(t, bal.LiveMode)
	require.Len(t, bal.Available, 1)
	assert.Equal(t, int64(1200), bal.Available[0].Amount)
}

func TestListCustomers(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/customers", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"data":[{"id":"cus_1","email":"alice@example.com"}],"has_more":true}`))
	})

	list, err := c.ListCustomers(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "alice@example.com", list.Data[0].Email)
	assert.True(t, list.HasMore)
}

func TestListSubscriptionsWithoutLimit(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`{"data":[]}`))
	})

	list, err := c.ListSubscriptions(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, list.Data)
}

func TestAPIError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key provided"}}`))
	})

	_, err := c.Balance(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_request_error", apiErr.Type)
	assert.Equal(t, "API error 401 (invalid_request_error): Invalid API Key provided", err.Error())
}

func TestAPIErrorPlainBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := c.Balance(context.Background())
	require.Error(t, err)
	assert.False(t, IsAuthError(err))
	assert.Contains(t, err.Error(), "API error 502: upstream down")
}

func TestKeyMode(t *testing.T) {
	assert.Equal(t, ModeLive, KeyMode("sk_live_123"))
	assert.Equal(t, ModeTest, KeyMode("sk_test_123"))
	assert.Equal(t, ModeUnknown, KeyMode("rk_live_123"))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "al***@example.com", MaskEmail("alice@example.com"))
	assert.Equal(t, "a***@example.com", MaskEmail("a@example.com"))
	assert.Equal(t, "no-at-sign", MaskEmail("no-at-sign"))
}
