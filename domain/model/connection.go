package model

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// Connection is a linked external platform account. At most one exists per platform per user.
type Connection struct {
	Platform    Platform `json:"platform"`
	AccountID   string   `json:"accountId,omitempty"`
	PageID      string   `json:"pageId,omitempty"`
	Username    string   `json:"username"`
	AvatarURL   string   `json:"avatarUrl"`
	// AccessToken never leaves the server; persistence stores it through its own record type.
	AccessToken string   `json:"-"`
	ExpiresAt   int64    `json:"expiresAt,omitempty"` // unix millis
	IsConnected bool     `json:"isConnected"`
}

// Expired reports whether the stored credential is past its expiry at now.
// A zero ExpiresAt never expires.
func (c Connection) Expired(now time.Time) bool {
	return c.ExpiresAt > 0 && now.UnixMilli() >= c.ExpiresAt
}

// ConnectionState is the handshake lifecycle of one platform link.
type ConnectionState string

const (
	ConnectionDisconnected     ConnectionState = "disconnected"
	ConnectionHandshakePending ConnectionState = "handshake-pending"
	ConnectionConnected        ConnectionState = "connected"
)

// User is the identity returned by the login boundary.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// UserClaims are the JWT claims of a session token.
type UserClaims struct {
	UID      string `json:"uid"`
	Provider string `json:"provider"`
	jwt.StandardClaims
}

// ProviderIdentity is the account resolved by a provider verification call.
type ProviderIdentity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
