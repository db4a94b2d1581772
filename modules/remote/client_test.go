package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `[
  {"id":"1","name":"Galaxy","description":"phone","brand":"Samsung","model":"S21","price":"999.00","image":"https://img/1.png","createdAt":"2023-07-17T07:21:02.529Z","isFavorite":true},
  {"id":"2","name":"Pixel","brand":"Google","model":"7","price":"10,50","image":"https://img/2.png","createdAt":"not-a-date"}
]`

func newCatalogServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchProducts(t *testing.T) {
	srv := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	})

	products, err := NewClient(srv.URL, 5*time.Second).FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "1", products[0].ID)
	assert.Equal(t, "Samsung", products[0].Brand)
	assert.False(t, products[0].IsFavorite, "remote favorite flag must be ignored")
	assert.Equal(t, "10,50", products[1].Price)
	assert.Empty(t, products[1].Description)
}

func TestClient_EmptyBody(t *testing.T) {
	for _, body := range []string{"", "[]", "null"} {
		srv := newCatalogServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})

		products, err := NewClient(srv.URL, 5*time.Second).FetchProducts(context.Background())
		require.NoError(t, err, "body %q", body)
		assert.Empty(t, products, "body %q", body)
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := newCatalogServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := NewClient(srv.URL, 5*time.Second).FetchProducts(context.Background())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr), "got %v", err)
	assert.Equal(t, 404, statusErr.Code)
	assert.Equal(t, "Not Found", statusErr.Status)
}

func TestClient_ConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).FetchProducts(context.Background())

	var connErr *ConnectivityError
	assert.True(t, errors.As(err, &connErr), "got %v", err)
}

func TestClient_CancelledContext(t *testing.T) {
	srv := newCatalogServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, time.Second).FetchProducts(ctx)

	var connErr *ConnectivityError
	require.True(t, errors.As(err, &connErr), "got %v", err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_MalformedJSON(t *testing.T) {
	srv := newCatalogServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	})

	_, err := NewClient(srv.URL, time.Second).FetchProducts(context.Background())
	require.Error(t, err)

	var connErr *ConnectivityError
	var statusErr *StatusError
	assert.False(t, errors.As(err, &connErr))
	assert.False(t, errors.As(err, &statusErr))
}
