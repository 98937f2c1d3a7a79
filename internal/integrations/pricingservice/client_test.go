package pricingservice

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

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testRequest() *QuoteRequest {
	coupon := "SAVE10"
	return &QuoteRequest{
		ResourceID: 1,
		Start:      "2026-09-01T10:00",
		End:        "2026-09-01T11:00",
		Extras:     map[string]interface{}{"cleaning": true},
		Coupon:     &coupon,
	}
}

func TestResolvePrice_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/internal/quotes", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req QuoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(1), req.ResourceID)
		assert.Equal(t, "2026-09-01T10:00", req.Start)

		json.NewEncoder(w).Encode(Quote{
			Price:        1350,
			Breakdown:    []BreakdownLine{{Label: "base", Amount: 1500}, {Label: "coupon SAVE10", Amount: -150}},
			InfoMessages: []string{"coupon applied"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second, nopLogger{})
	quote, err := client.ResolvePrice(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, 1350.0, quote.Price)
	require.Len(t, quote.Breakdown, 2)
	assert.Equal(t, []string{"coupon applied"}, quote.InfoMessages)
}

func TestResolvePrice_ZeroPriceIsValid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Quote{Price: 0})
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second, nopLogger{})
	quote, err := client.ResolvePrice(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Zero(t, quote.Price)
}

func TestResolvePrice_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second, nopLogger{})
	_, err := client.ResolvePrice(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrQuoteNotFound)
	assert.False(t, IsRetryable(err))
}

func TestResolvePrice_BadRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Code: 400, Message: "unknown coupon"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second, nopLogger{})
	_, err := client.ResolvePrice(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.False(t, IsRetryable(err))
}

func TestResolvePrice_ServerErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second, nopLogger{})
	_, err := client.ResolvePrice(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, IsRetryable(err))
}

func TestResolvePrice_TransportErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, time.Second, nopLogger{})
	_, err := client.ResolvePrice(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, IsRetryable(err))
}

func TestResolvePrice_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second, nopLogger{})
	_, err := client.ResolvePrice(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrInvalidResponse)
}
