package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nova-studio/domain/dto"
	"nova-studio/domain/model"
	"nova-studio/infrastructure/cache"
	"nova-studio/infrastructure/persistence"
	"nova-studio/infrastructure/utils"
	"nova-studio/interfaces/middleware"
)

const secret = "middleware-secret"

func signed(t *testing.T, uid string, expires time.Time, key string) string {
	t.Helper()
	token, err := utils.GenerateToken(model.UserClaims{
		UID:            uid,
		StandardClaims: jwt.StandardClaims{Issuer: uid, ExpiresAt: expires.Unix()},
	}, key)
	require.NoError(t, err)
	return token
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	identities := persistence.NewIdentityRepository(cache.NewMemoryKeyValue())
	require.NoError(t, identities.Save(context.Background(), model.User{UID: "u1"}))

	r := gin.New()
	r.GET("/api/me", middleware.Auth(secret, identities), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.UserIDKey))
	})
	return r
}

func TestAuth(t *testing.T) {
	r := newRouter(t)
	future := time.Now().Add(time.Hour)

	cases := []struct {
		name    string
		header  string
		query   string
		status  int
		body    string
		message string
	}{
		{name: "valid header", header: "Bearer " + signed(t, "u1", future, secret), status: http.StatusOK, body: "u1"},
		{name: "valid query", query: signed(t, "u1", future, secret), status: http.StatusOK, body: "u1"},
		{name: "missing", status: http.StatusUnauthorized, message: "Unauthorized"},
		{name: "no bearer prefix", header: "Token abc", status: http.StatusUnauthorized, message: "Unauthorized"},
		{name: "malformed", header: "Bearer not-a-jwt", status: http.StatusUnauthorized, message: "That's not even a token"},
		{name: "expired", header: "Bearer " + signed(t, "u1", time.Now().Add(-time.Hour), secret), status: http.StatusUnauthorized, message: "Timing is everything"},
		{name: "wrong key", header: "Bearer " + signed(t, "u1", future, "other"), status: http.StatusUnauthorized},
		{name: "unknown identity", header: "Bearer " + signed(t, "ghost", future, secret), status: http.StatusUnauthorized, message: "Unauthorized"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := "/api/me"
			if tc.query != "" {
				target += "?access_token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, tc.body, rec.Body.String())
				return
			}
			var res dto.Res
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, "401", res.ResponseCode)
			if tc.message != "" {
				assert.Equal(t, tc.message, res.ResponseMessage)
			}
		})
	}
}
