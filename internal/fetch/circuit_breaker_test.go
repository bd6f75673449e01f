package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerPassThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer server.Close()

	cbf := NewCircuitBreakerFetcher(NewFetcher())
	defer cbf.Close()
	body, err := cbf.GetDocument(context.Background(), server.URL+"/doc")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))

	states := cbf.GetBreakerState()
	require.Len(t, states, 1)
	for _, state := range states {
		assert.Equal(t, "closed", state)
	}
}

func TestCircuitBreakerTripsAfterFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cbf := NewCircuitBreakerFetcher(NewFetcher(
		WithBaseDelay(time.Millisecond), WithMaxRetries(0)))

	// Drive enough consecutive failures to trip the breaker
	for range 6 {
		_, err := cbf.GetDocument(context.Background(), server.URL+"/doc")
		assert.Error(t, err)
	}

	states := cbf.GetBreakerState()
	for _, state := range states {
		assert.Equal(t, "open", state)
	}
}

func TestCircuitBreakerIgnoresNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cbf := NewCircuitBreakerFetcher(NewFetcher(
		WithBaseDelay(time.Millisecond), WithMaxRetries(0)))

	// Missing documents are routine; they must never open the breaker.
	for range 10 {
		_, err := cbf.GetDocument(context.Background(), server.URL+"/missing.toml")
		assert.ErrorIs(t, err, ErrNotFound)
	}

	states := cbf.GetBreakerState()
	for _, state := range states {
		assert.Equal(t, "closed", state)
	}
}

func TestExtractHost(t *testing.T) {
	assert.Equal(t, "feeds.example.com", extractHost("https://feeds.example.com/api/packages"))
	assert.Equal(t, "short", extractHost("short"))
}
