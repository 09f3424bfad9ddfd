package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"nova-studio/domain/dto"
	"nova-studio/domain/model"
	"nova-studio/domain/repository"
	"nova-studio/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const UserIDKey = "user_id"

// Auth validates the session token and stores its uid under user_id. The token comes from
// the Authorization header or, for EventSource clients that cannot set headers, the
// access_token query parameter.
func Auth(secretKey string, identities repository.IIdentity) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw := bearerToken(ctx)
		if raw == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("401", "Unauthorized"))
			return
		}

		userClaims, token, err := getClaim(raw, secretKey)
		if err != nil || token == nil || !token.Valid {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("401", rejectReason(err)))
			return
		}

		user, err := identities.Get(ctx.Request.Context(), userClaims.Issuer)
		if err != nil || user == nil {
			logger.GetLogger().WithField("uid", userClaims.Issuer).Info("Token for unknown identity")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("401", "Unauthorized"))
			return
		}
		ctx.Set(UserIDKey, userClaims.Issuer)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	if authorization := ctx.GetHeader("Authorization"); authorization != "" {
		parts := strings.SplitN(authorization, "Bearer ", 2)
		if len(parts) != 2 {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
	return ctx.Query("access_token")
}

func rejectReason(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		switch {
		case ve.Errors&jwt.ValidationErrorMalformed != 0:
			return "That's not even a token"
		case ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0:
			return "Timing is everything"
		default:
			return fmt.Sprintf("Couldn't handle this token:%v", err)
		}
	}
	return "Unauthorized"
}

func getClaim(raw, secretKey string) (model.UserClaims, *jwt.Token, error) {
	var userClaims model.UserClaims
	token, err := jwt.ParseWithClaims(raw, &userClaims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	return userClaims, token, err
}
