package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"nova-studio/domain/dto"
	"nova-studio/domain/model"
	"nova-studio/domain/repository"
	"nova-studio/domain/studio"
	"nova-studio/infrastructure/logger"

	"github.com/google/go-querystring/query"
	"github.com/jonboulle/clockwork"
	"golang.org/x/oauth2"
)

const handshakeStateTTL = 10 * time.Minute

var whitespace = regexp.MustCompile(`\s`)

// MetaOAuth configures the Instagram implicit flow.
type MetaOAuth struct {
	AppID        string
	RedirectURI  string
	AuthEndpoint string
	Scopes       []string
	TokenTTL     time.Duration
}

type metaDialogParams struct {
	ClientID     string `url:"client_id"`
	RedirectURI  string `url:"redirect_uri"`
	ResponseType string `url:"response_type"`
	Scope        string `url:"scope"`
}

type pendingHandshake struct {
	uid      string
	platform model.Platform
	expires  time.Time
}

type IConnectionUsecase interface {
	List(ctx context.Context, uid string) ([]model.Connection, error)
	AuthorizeURL(ctx context.Context, uid string, platform model.Platform) (dto.AuthorizeResponse, error)
	CompleteInstagram(ctx context.Context, uid, returnURL string) (dto.CallbackResponse, error)
	CompleteYouTube(ctx context.Context, state, code string) (dto.CallbackResponse, error)
	Disconnect(ctx context.Context, uid string, platform model.Platform) error
}

type ConnectionUsecase struct {
	sessions    *SessionStore
	connections repository.IConnection
	meta        MetaOAuth
	metaVerify  repository.IAccountVerifier
	google      *oauth2.Config
	ytVerify    repository.IAccountVerifier
	clock       clockwork.Clock
	feedbackTTL time.Duration

	stateMu sync.Mutex
	states  map[string]pendingHandshake
}

func NewConnectionUsecase(
	sessions *SessionStore,
	connections repository.IConnection,
	meta MetaOAuth,
	metaVerify repository.IAccountVerifier,
	clock clockwork.Clock,
	feedbackTTL time.Duration,
) *ConnectionUsecase {
	return &ConnectionUsecase{
		sessions:    sessions,
		connections: connections,
		meta:        meta,
		metaVerify:  metaVerify,
		clock:       clock,
		feedbackTTL: feedbackTTL,
		states:      map[string]pendingHandshake{},
	}
}

// WithYouTube enables the Google authorization-code flow for the YouTube targets.
func (u *ConnectionUsecase) WithYouTube(conf *oauth2.Config, verifier repository.IAccountVerifier) *ConnectionUsecase {
	u.google = conf
	u.ytVerify = verifier
	return u
}

func (u *ConnectionUsecase) List(ctx context.Context, uid string) ([]model.Connection, error) {
	sess, err := u.sessions.Acquire(ctx, uid)
	if err != nil {
		return nil, err
	}
	return sess.Snapshot().Connections, nil
}

func (u *ConnectionUsecase) AuthorizeURL(ctx context.Context, uid string, platform model.Platform) (dto.AuthorizeResponse, error) {
	sess, err := u.sessions.Acquire(ctx, uid)
	if err != nil {
		return dto.AuthorizeResponse{}, err
	}

	var authURL string
	switch platform {
	case model.PlatformInstagram:
		authURL, err = u.metaDialogURL()
	case model.PlatformYouTubeShorts, model.PlatformYouTubeLong:
		authURL, err = u.googleAuthURL(uid, platform)
	default:
		if !platform.IsKnown() {
			return dto.AuthorizeResponse{}, fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
		}
		err = fmt.Errorf("%w: %s", ErrNotConfigured, platform)
	}
	if err != nil {
		return dto.AuthorizeResponse{}, err
	}

	sess.Update(func(s studio.State) studio.State {
		return studio.HandshakeStarted(s, platform)
	})
	return dto.AuthorizeResponse{Platform: platform, AuthorizeURL: authURL}, nil
}

func (u *ConnectionUsecase) metaDialogURL() (string, error) {
	if u.meta.AppID == "" || u.meta.AuthEndpoint == "" {
		return "", fmt.Errorf("%w: instagram", ErrNotConfigured)
	}
	values, err := query.Values(metaDialogParams{
		ClientID:     u.meta.AppID,
		RedirectURI:  u.meta.RedirectURI,
		ResponseType: "token",
		Scope:        strings.Join(u.meta.Scopes, ","),
	})
	if err != nil {
		return "", err
	}
	return u.meta.AuthEndpoint + "?" + values.Encode(), nil
}

func (u *ConnectionUsecase) googleAuthURL(uid string, platform model.Platform) (string, error) {
	if u.google == nil || u.google.ClientID == "" {
		return "", fmt.Errorf("%w: %s", ErrNotConfigured, platform)
	}
	state := randomState()
	u.stateMu.Lock()
	u.states[state] = pendingHandshake{uid: uid, platform: platform, expires: u.clock.Now().Add(handshakeStateTTL)}
	u.stateMu.Unlock()
	return u.google.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// CompleteInstagram finishes the implicit flow from the URL the browser returned to.
func (u *ConnectionUsecase) CompleteInstagram(ctx context.Context, uid, returnURL string) (dto.CallbackResponse, error) {
	sess, err := u.sessions.Acquire(ctx, uid)
	if err != nil {
		return dto.CallbackResponse{}, err
	}
	clean := StripFragment(returnURL)

	token, ok := ParseReturnToken(returnURL)
	if !ok {
		return dto.CallbackResponse{CleanURL: clean}, u.abort(sess, model.PlatformInstagram, "missing access token")
	}
	if u.metaVerify == nil {
		return dto.CallbackResponse{CleanURL: clean}, u.abort(sess, model.PlatformInstagram, "instagram verification not configured")
	}
	identity, err := u.metaVerify.VerifyAccount(ctx, token)
	if err != nil {
		return dto.CallbackResponse{CleanURL: clean}, u.abort(sess, model.PlatformInstagram, err.Error())
	}

	conn := model.Connection{
		Platform:    model.PlatformInstagram,
		AccountID:   identity.ID,
		Username:    instagramHandle(identity.Name),
		AvatarURL:   "https://api.dicebear.com/7.x/initials/svg?seed=" + url.QueryEscape(identity.Name),
		AccessToken: token,
		ExpiresAt:   u.clock.Now().Add(u.meta.TokenTTL).UnixMilli(),
		IsConnected: true,
	}
	if err := u.connect(ctx, sess, conn, "Connected to Instagram Graph API"); err != nil {
		return dto.CallbackResponse{CleanURL: clean}, err
	}
	return dto.CallbackResponse{Connection: conn, CleanURL: clean}, nil
}

// CompleteYouTube finishes the authorization-code flow started by AuthorizeURL.
func (u *ConnectionUsecase) CompleteYouTube(ctx context.Context, state, code string) (dto.CallbackResponse, error) {
	if u.google == nil {
		return dto.CallbackResponse{}, fmt.Errorf("%w: youtube", ErrNotConfigured)
	}
	u.stateMu.Lock()
	pending, ok := u.states[state]
	if ok {
		delete(u.states, state)
	}
	u.stateMu.Unlock()
	if !ok || u.clock.Now().After(pending.expires) {
		return dto.CallbackResponse{}, fmt.Errorf("%w: invalid state", ErrConnectionFailure)
	}

	sess, err := u.sessions.Acquire(ctx, pending.uid)
	if err != nil {
		return dto.CallbackResponse{}, err
	}
	if code == "" {
		return dto.CallbackResponse{}, u.abort(sess, pending.platform, "missing authorization code")
	}
	token, err := u.google.Exchange(ctx, code)
	if err != nil {
		return dto.CallbackResponse{}, u.abort(sess, pending.platform, err.Error())
	}
	if u.ytVerify == nil {
		return dto.CallbackResponse{}, u.abort(sess, pending.platform, "youtube verification not configured")
	}
	identity, err := u.ytVerify.VerifyAccount(ctx, token.AccessToken)
	if err != nil {
		return dto.CallbackResponse{}, u.abort(sess, pending.platform, err.Error())
	}

	expiry := token.Expiry
	if expiry.IsZero() {
		expiry = u.clock.Now().Add(u.meta.TokenTTL)
	}
	conn := model.Connection{
		Platform:    pending.platform,
		AccountID:   identity.ID,
		Username:    identity.Name,
		AvatarURL:   "https://api.dicebear.com/7.x/initials/svg?seed=" + url.QueryEscape(identity.Name),
		AccessToken: token.AccessToken,
		ExpiresAt:   expiry.UnixMilli(),
		IsConnected: true,
	}
	if err := u.connect(ctx, sess, conn, "Connected to YouTube Data API"); err != nil {
		return dto.CallbackResponse{}, err
	}
	return dto.CallbackResponse{Connection: conn}, nil
}

// connect persists c in place of any previous record for its platform, then installs it.
func (u *ConnectionUsecase) connect(ctx context.Context, sess *Session, c model.Connection, feedback string) error {
	sess.connMu.Lock()
	defer sess.connMu.Unlock()

	persisted, err := u.connections.List(ctx, sess.UID())
	if err != nil {
		return u.abort(sess, c.Platform, "load connections: "+err.Error())
	}
	if err := u.connections.Save(ctx, sess.UID(), studio.ReplaceConnection(persisted, c)); err != nil {
		return u.abort(sess, c.Platform, "store connection: "+err.Error())
	}

	now := u.clock.Now()
	sess.Update(func(s studio.State) studio.State {
		next := studio.ConnectionAdded(s, c)
		return studio.ShowFeedback(next, feedback, now, u.feedbackTTL)
	})
	logger.GetLogger().WithField("uid", sess.UID()).WithField("platform", c.Platform).Info("Platform connected")
	return nil
}

func (u *ConnectionUsecase) abort(sess *Session, platform model.Platform, reason string) error {
	logger.GetLogger().WithField("uid", sess.UID()).WithField("platform", platform).WithField("reason", reason).Warn("Handshake aborted")
	now := u.clock.Now()
	sess.Update(func(s studio.State) studio.State {
		next := studio.HandshakeAborted(s, platform)
		return studio.ShowFeedback(next, "Sync Error: "+reason, now, u.feedbackTTL)
	})
	return fmt.Errorf("%w: %s", ErrConnectionFailure, reason)
}

// Disconnect removes exactly the record for platform and persists the result immediately.
func (u *ConnectionUsecase) Disconnect(ctx context.Context, uid string, platform model.Platform) error {
	if !platform.IsKnown() {
		return fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
	sess, err := u.sessions.Acquire(ctx, uid)
	if err != nil {
		return err
	}
	sess.connMu.Lock()
	defer sess.connMu.Unlock()

	persisted, err := u.connections.List(ctx, uid)
	if err != nil {
		return err
	}
	if err := u.connections.Save(ctx, uid, studio.RemoveConnection(persisted, platform)); err != nil {
		return err
	}
	sess.Update(func(s studio.State) studio.State {
		return studio.ConnectionRemoved(s, platform)
	})
	return nil
}

func instagramHandle(name string) string {
	return "@" + whitespace.ReplaceAllString(strings.ToLower(name), "_") + "_creator"
}

func randomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
