package persistence_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nova-studio/domain/model"
	"nova-studio/infrastructure/cache"
	"nova-studio/infrastructure/persistence"
)

func TestConnectionRepository(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemoryKeyValue()
	repo := persistence.NewConnectionRepository(kv)

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	conns := []model.Connection{{
		Platform:    model.PlatformInstagram,
		AccountID:   "1789",
		Username:    "@ada_lovelace_creator",
		AccessToken: "tok",
		ExpiresAt:   1700000000000,
		IsConnected: true,
	}}
	require.NoError(t, repo.Save(ctx, "u1", conns))

	list, err = repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, conns, list)

	other, err := repo.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)

	raw, found, err := kv.Get(ctx, "connections:u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Contains(t, raw, `"platform":"instagram"`)
	assert.Contains(t, raw, `"accessToken":"tok"`, "the credential is persisted")
}

func TestConnection_JSONOmitsAccessToken(t *testing.T) {
	raw, err := json.Marshal(model.Connection{Platform: model.PlatformYouTubeShorts, AccessToken: "ya29.secret", IsConnected: true})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "ya29.secret")
	assert.NotContains(t, string(raw), "accessToken")
}

func TestConnectionRepository_Corrupt(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemoryKeyValue()
	require.NoError(t, kv.Set(ctx, "connections:u1", "{not json"))

	_, err := persistence.NewConnectionRepository(kv).List(ctx, "u1")
	assert.Error(t, err)
}

func TestIdentityRepository(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewIdentityRepository(cache.NewMemoryKeyValue())

	user, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, user)

	stored := model.User{UID: "u1", Email: "ada@example.com", DisplayName: "Ada"}
	require.NoError(t, repo.Save(ctx, stored))

	user, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, stored, *user)

	require.NoError(t, repo.Delete(ctx, "u1"))
	user, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, user)
}
