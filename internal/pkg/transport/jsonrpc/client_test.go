package jsonrpc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	t.Run("returns the raw result on success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "2.0", req["jsonrpc"])
			assert.Equal(t, "eth_blockNumber", req["method"])
			assert.NotEmpty(t, req["id"])

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":"0x10"}`))
		}))
		defer server.Close()

		c := NewClient(server.Client(), server.URL)

		result, err := c.Fetch(t.Context(), "eth_blockNumber")

		require.NoError(t, err)
		assert.JSONEq(t, `"0x10"`, string(result))
	})

	t.Run("forwards params as a positional array", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, []any{"0xabc", true}, req["params"])

			w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":null}`))
		}))
		defer server.Close()

		c := NewClient(server.Client(), server.URL)

		_, err := c.Fetch(t.Context(), "eth_getBlockByHash", "0xabc", true)

		require.NoError(t, err)
	})

	t.Run("provider error surfaces as a typed error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"jsonrpc":"2.0","id":"1","error":{"code":4001,"message":"User rejected the request."}}`))
		}))
		defer server.Close()

		c := NewClient(server.Client(), server.URL)

		_, err := c.Fetch(t.Context(), "eth_sendTransaction")

		require.ErrorIs(t, err, ErrProviderReturnedError)

		var perr *ProviderError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 4001, perr.Code)
		assert.Equal(t, "User rejected the request.", perr.Message)
	})

	t.Run("malformed response body is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		c := NewClient(server.Client(), server.URL)

		_, err := c.Fetch(t.Context(), "eth_blockNumber")

		assert.Error(t, err)
	})

	t.Run("unreachable provider is an error", func(t *testing.T) {
		c := NewClient(http.DefaultClient, "http://127.0.0.1:0")

		_, err := c.Fetch(t.Context(), "eth_blockNumber")

		assert.Error(t, err)
	})
}
