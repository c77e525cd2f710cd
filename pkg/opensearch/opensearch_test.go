package opensearch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/usernotify/pkg/opensearch"
)

func newCluster(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"name":"node-1","cluster_name":"test","version":{"distribution":"opensearch","number":"2.11.0"},"tagline":"The OpenSearch Project: https://opensearch.org/"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("healthy cluster", func(t *testing.T) {
		t.Parallel()

		srv := newCluster(t, http.StatusOK)
		client, err := opensearch.New(context.Background(), opensearch.Config{
			Addresses:    []string{srv.URL},
			DisableRetry: true,
		})
		require.NoError(t, err)
		assert.NoError(t, opensearch.Healthcheck(client)(context.Background()))
	})

	t.Run("cluster returns an error status", func(t *testing.T) {
		t.Parallel()

		srv := newCluster(t, http.StatusServiceUnavailable)
		_, err := opensearch.New(context.Background(), opensearch.Config{
			Addresses:    []string{srv.URL},
			DisableRetry: true,
		})
		assert.ErrorIs(t, err, opensearch.ErrHealthcheckFailed)
	})

	t.Run("no addresses", func(t *testing.T) {
		t.Parallel()

		_, err := opensearch.New(context.Background(), opensearch.Config{})
		assert.ErrorIs(t, err, opensearch.ErrNoAddresses)
	})
}
