package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyDelivers(t *testing.T) {
	received := make(chan Event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ev))
		received <- ev
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL)
	w.Notify("golden_match", map[string]any{"funds_id": "f1", "combined_value": 82000.0})

	select {
	case ev := <-received:
		assert.Equal(t, "golden_match", ev.Event)
		assert.Equal(t, "f1", ev.Details["funds_id"])
		assert.False(t, ev.Timestamp.IsZero())
	case <-time.After(5 * time.Second):
		t.Fatal("notification never arrived")
	}
}

func TestNotifyEmptyURLIsNoOp(t *testing.T) {
	w := NewWebhook("")
	// Must not panic or block.
	w.Notify("golden_match", nil)
}

func TestNotifyFailureIsSwallowed(t *testing.T) {
	done := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		done <- struct{}{}
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL)
	w.Notify("approval_requested", nil)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("notification never attempted")
	}
}
