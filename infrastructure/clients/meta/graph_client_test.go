package meta_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nova-studio/infrastructure/clients/meta"
)

func newGraph(t *testing.T, handler http.HandlerFunc) *meta.GraphClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := meta.NewGraphClient(srv.URL, 2*time.Second)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestVerifyAccount_Success(t *testing.T) {
	client := newGraph(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "id,name", r.URL.Query().Get("fields"))
		assert.Equal(t, "tok-123", r.URL.Query().Get("access_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1789","name":"Ada Lovelace"}`))
	})

	identity, err := client.VerifyAccount(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "1789", identity.ID)
	assert.Equal(t, "Ada Lovelace", identity.Name)
}

func TestVerifyAccount_ProviderErrorVerbatim(t *testing.T) {
	client := newGraph(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token.","type":"OAuthException","code":190}}`))
	})

	_, err := client.VerifyAccount(context.Background(), "bad")
	require.Error(t, err)
	assert.Equal(t, "Invalid OAuth access token.", err.Error())
}

func TestVerifyAccount_ErrorPayloadWithOK(t *testing.T) {
	client := newGraph(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"Session has expired"}}`))
	})

	_, err := client.VerifyAccount(context.Background(), "old")
	require.Error(t, err)
	assert.Equal(t, "Session has expired", err.Error())
}

func TestVerifyAccount_MalformedIdentity(t *testing.T) {
	client := newGraph(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"1789"}`))
	})

	_, err := client.VerifyAccount(context.Background(), "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed identity payload")
}

func TestVerifyAccount_ServerError(t *testing.T) {
	client := newGraph(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.VerifyAccount(context.Background(), "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
