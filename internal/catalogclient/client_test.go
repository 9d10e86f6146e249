package catalogclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phuocthuan2203/libhub-microservices/internal/catalogclient"
	"github.com/phuocthuan2203/libhub-microservices/internal/ledger"
)

func newCatalogStub(t *testing.T, availability map[string]bool, stockStatus int) *httptest.Server {
	t.Helper()

	r := mux.NewRouter()
	r.HandleFunc("/books/{id}/availability", func(w http.ResponseWriter, req *http.Request) {
		id := mux.Vars(req)["id"]
		available, ok := availability[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]bool{"is_available": available})
	}).Methods("GET")

	r.HandleFunc("/books/{id}/stock", func(w http.ResponseWriter, req *http.Request) {
		if _, ok := availability[mux.Vars(req)["id"]]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(stockStatus)
	}).Methods("PUT")

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_IsAvailable(t *testing.T) {
	srv := newCatalogStub(t, map[string]bool{"book-1": true, "book-2": false}, http.StatusOK)
	client := catalogclient.New(srv.URL)

	available, err := client.IsAvailable(context.Background(), "book-1")
	require.NoError(t, err)
	assert.True(t, available)

	available, err = client.IsAvailable(context.Background(), "book-2")
	require.NoError(t, err)
	assert.False(t, available)

	_, err = client.IsAvailable(context.Background(), "missing")
	assert.ErrorIs(t, err, ledger.ErrBookNotFound)
}

func TestClient_AdjustStock(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := newCatalogStub(t, map[string]bool{"book-1": true}, http.StatusOK)
		client := catalogclient.New(srv.URL)

		require.NoError(t, client.AdjustStock(context.Background(), "book-1", -1))
	})

	t.Run("conflict maps onto the ledger errors", func(t *testing.T) {
		srv := newCatalogStub(t, map[string]bool{"book-1": true}, http.StatusConflict)
		client := catalogclient.New(srv.URL)

		assert.ErrorIs(t, client.AdjustStock(context.Background(), "book-1", -1), ledger.ErrOutOfStock)
		assert.ErrorIs(t, client.AdjustStock(context.Background(), "book-1", 1), ledger.ErrOverCapacity)
	})

	t.Run("missing book", func(t *testing.T) {
		srv := newCatalogStub(t, map[string]bool{}, http.StatusOK)
		client := catalogclient.New(srv.URL)

		assert.ErrorIs(t, client.AdjustStock(context.Background(), "missing", -1), ledger.ErrBookNotFound)
	})

	t.Run("unexpected status", func(t *testing.T) {
		srv := newCatalogStub(t, map[string]bool{"book-1": true}, http.StatusInternalServerError)
		client := catalogclient.New(srv.URL)

		err := client.AdjustStock(context.Background(), "book-1", -1)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ledger.ErrOutOfStock)
	})

	t.Run("transport failure", func(t *testing.T) {
		client := catalogclient.New("http://127.0.0.1:1")

		require.Error(t, client.AdjustStock(context.Background(), "book-1", -1))
	})
}
