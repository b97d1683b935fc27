package melhorenvio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipping-optimizer/internal/common/logger"
)

func newClientForTest(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(Config{
		BaseURL:     baseURL,
		Token:       "test-token",
		Timeout:     2 * time.Second,
		MaxRetries:  2,
		BackoffBase: time.Millisecond,
	}, logger.NewTestLogger(t), nil)
}

func testQuery() QuoteQuery {
	return QuoteQuery{
		OriginCEP:      "01310100",
		DestinationCEP: "20040020",
		Length:         20,
		Width:          15,
		Height:         10,
		Weight:         1.5,
		InsuranceValue: 100,
	}
}

func TestCalculateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/me/shipment/calculate", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 1, "name": "PAC", "company": {"name": "Correios"}, "price": "24.90", "delivery_time": 7}]`))
	}))
	defer srv.Close()

	client := newClientForTest(t, srv.URL)
	items, err := client.Calculate(context.Background(), testQuery())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "PAC", items[0].ServiceName)
	assert.Equal(t, 24.90, *items[0].Price)
}

func TestCalculateRetriesRateLimited(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[{"id": 1, "name": "SEDEX", "price": "42.00"}]`))
	}))
	defer srv.Close()

	client := newClientForTest(t, srv.URL)
	items, err := client.Calculate(context.Background(), testQuery())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCalculateExhaustsRetriesOnServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newClientForTest(t, srv.URL)
	_, err := client.Calculate(context.Background(), testQuery())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamTransient)
	// Initial attempt plus two retries.
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestCalculateDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "invalid postal code"}`))
	}))
	defer srv.Close()

	client := newClientForTest(t, srv.URL)
	_, err := client.Calculate(context.Background(), testQuery())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamPermanent)
	assert.Contains(t, err.Error(), "invalid postal code")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCalculateMalformedSuccessBodyIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := newClientForTest(t, srv.URL)
	_, err := client.Calculate(context.Background(), testQuery())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamPermanent)
}

func TestCalculateHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(Config{
		BaseURL:     srv.URL,
		Token:       "test-token",
		MaxRetries:  5,
		BackoffBase: 50 * time.Millisecond,
	}, logger.NewTestLogger(t), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Calculate(ctx, testQuery())
	require.Error(t, err)
}
