package youtube_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nova-studio/infrastructure/clients/youtube"
)

func TestChannelVerifier_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/channels", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("mine"))
		assert.Equal(t, "Bearer yt-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"UC123","snippet":{"title":"Nova Channel"}}]}`))
	}))
	defer srv.Close()

	identity, err := youtube.NewChannelVerifier(srv.URL+"/").VerifyAccount(context.Background(), "yt-token")
	require.NoError(t, err)
	assert.Equal(t, "UC123", identity.ID)
	assert.Equal(t, "Nova Channel", identity.Name)
}

func TestChannelVerifier_NoChannel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	_, err := youtube.NewChannelVerifier(srv.URL+"/").VerifyAccount(context.Background(), "yt-token")
	require.Error(t, err)
	assert.Equal(t, "no channel found for authenticated user", err.Error())
}

func TestChannelVerifier_APIErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"Request had invalid authentication credentials."}}`))
	}))
	defer srv.Close()

	_, err := youtube.NewChannelVerifier(srv.URL+"/").VerifyAccount(context.Background(), "expired")
	require.Error(t, err)
	assert.Equal(t, "Request had invalid authentication credentials.", err.Error())
}

func TestNewOAuthConfig_DefaultScopes(t *testing.T) {
	conf := youtube.NewOAuthConfig("cid", "secret", "http://localhost/auth/youtube/callback", nil)
	assert.Equal(t, youtube.Scopes, conf.Scopes)
	assert.Contains(t, conf.AuthCodeURL("st"), "client_id=cid")
}
