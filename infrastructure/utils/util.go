package utils

import (
	"crypto/rand"
	"math/big"
	"time"

	"nova-studio/infrastructure/logger"

	"github.com/golang-jwt/jwt"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// GenerateToken signs claims with HS256.
func GenerateToken(claims jwt.Claims, secretKey string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}

// RandomBase36 returns n random characters from [0-9a-z].
func RandomBase36(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(base36)))
	for i := range out {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			out[i] = base36[time.Now().UnixNano()%int64(len(base36))]
			continue
		}
		out[i] = base36[v.Int64()]
	}
	return string(out)
}
