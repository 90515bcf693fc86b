package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/recovery-cli/internal/resilience"
)

func fastRetry(attempts int) resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestSendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req sendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "+15550001111", req.To)
		assert.Equal(t, "Hi John", req.Body)

		json.NewEncoder(w).Encode(sendResponse{MessageID: "msg-1"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-1", time.Second)
	id, err := c.SendMessage(context.Background(), "+15550001111", "Hi John")
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
}

func TestSendMessageRetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(sendResponse{MessageID: "msg-2"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second, WithRetryConfig(fastRetry(3)))
	id, err := c.SendMessage(context.Background(), "+15550001111", "hello")
	require.NoError(t, err)
	assert.Equal(t, "msg-2", id)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSendMessagePermanentFailureNoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "invalid phone", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second, WithRetryConfig(fastRetry(3)))
	_, err := c.SendMessage(context.Background(), "bogus", "hello")
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSendMessageProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sendResponse{Error: "account suspended"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.SendMessage(context.Background(), "+15550001111", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account suspended")
}

func TestSendMessageBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second, WithRetryConfig(fastRetry(1)))

	// Default threshold is five consecutive failures.
	for range 5 {
		_, err := c.SendMessage(context.Background(), "+15550001111", "hello")
		require.Error(t, err)
	}
	before := calls.Load()

	_, err := c.SendMessage(context.Background(), "+15550001111", "hello")
	assert.True(t, eris.Is(err, resilience.ErrCircuitOpen))
	// The open circuit never reached the provider.
	assert.Equal(t, before, calls.Load())
}
