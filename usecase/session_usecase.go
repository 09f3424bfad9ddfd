package usecase

import (
	"context"
	"fmt"
	"time"

	"nova-studio/domain/dto"
	"nova-studio/domain/model"
	"nova-studio/domain/repository"
	"nova-studio/domain/studio"
	"nova-studio/infrastructure/logger"
	"nova-studio/infrastructure/utils"

	"github.com/golang-jwt/jwt"
	"github.com/jonboulle/clockwork"
)

type ISessionUsecase interface {
	Login(ctx context.Context, provider string) (dto.LoginResponse, error)
	Logout(ctx context.Context, uid string) error
	Current(ctx context.Context, uid string) (studio.State, error)
}

type sessionUsecase struct {
	sessions    *SessionStore
	provider    repository.IIdentityProvider
	identities  repository.IIdentity
	connections repository.IConnection
	secretKey   string
	tokenTTL    time.Duration
	clock       clockwork.Clock
	feedbackTTL time.Duration
}

func NewSessionUsecase(
	sessions *SessionStore,
	provider repository.IIdentityProvider,
	identities repository.IIdentity,
	connections repository.IConnection,
	secretKey string,
	tokenTTL time.Duration,
	clock clockwork.Clock,
	feedbackTTL time.Duration,
) ISessionUsecase {
	return &sessionUsecase{
		sessions:    sessions,
		provider:    provider,
		identities:  identities,
		connections: connections,
		secretKey:   secretKey,
		tokenTTL:    tokenTTL,
		clock:       clock,
		feedbackTTL: feedbackTTL,
	}
}

// Login signs the user in, persists the identity and opens a fresh session seeded with
// the persisted connections. On failure no user is stored.
func (u *sessionUsecase) Login(ctx context.Context, provider string) (dto.LoginResponse, error) {
	user, err := u.provider.SignIn(ctx, provider)
	if err != nil {
		logger.GetLogger().WithField("provider", provider).WithField("error", err).Warn("Sign in rejected")
		return dto.LoginResponse{}, fmt.Errorf("%w: %v", ErrAuthFailure, err)
	}
	if user == nil || user.UID == "" {
		return dto.LoginResponse{}, fmt.Errorf("%w: empty identity", ErrAuthFailure)
	}

	now := u.clock.Now()
	claims := model.UserClaims{
		UID:      user.UID,
		Provider: provider,
		StandardClaims: jwt.StandardClaims{
			Issuer:    user.UID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(u.tokenTTL).Unix(),
		},
	}
	token, err := utils.GenerateToken(claims, u.secretKey)
	if err != nil {
		return dto.LoginResponse{}, fmt.Errorf("%w: %v", ErrAuthFailure, err)
	}

	connections, err := u.connections.List(ctx, user.UID)
	if err != nil {
		return dto.LoginResponse{}, fmt.Errorf("load connections: %w", err)
	}
	if err := u.identities.Save(ctx, *user); err != nil {
		return dto.LoginResponse{}, fmt.Errorf("store identity: %w", err)
	}

	sess := u.sessions.Open(*user, connections)
	sess.Update(func(s studio.State) studio.State {
		return studio.ShowFeedback(s, "Authenticated via Identity Provider", now, u.feedbackTTL)
	})
	logger.GetLogger().WithField("uid", user.UID).WithField("provider", provider).Info("User signed in")
	return dto.LoginResponse{Token: token, User: *user}, nil
}

// Logout drops the identity and cancels anything the session still runs. Connections stay
// persisted for the next login.
func (u *sessionUsecase) Logout(ctx context.Context, uid string) error {
	u.sessions.Close(uid)
	if err := u.identities.Delete(ctx, uid); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	logger.GetLogger().WithField("uid", uid).Info("User signed out")
	return nil
}

func (u *sessionUsecase) Current(ctx context.Context, uid string) (studio.State, error) {
	sess, err := u.sessions.Acquire(ctx, uid)
	if err != nil {
		return studio.State{}, err
	}
	return sess.Snapshot(), nil
}
