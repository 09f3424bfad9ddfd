package identity

import (
	"context"
	"fmt"
	"strings"

	"nova-studio/domain/model"
	"nova-studio/domain/repository"

	"github.com/google/uuid"
)

const (
	ProviderPrimary   = "primary"
	ProviderSecondary = "secondary"
)

var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://nova.os/identity"))

type account struct {
	email       string
	displayName string
	photoURL    string
}

// accounts maps each supported provider to the account it signs in.
var accounts = map[string]account{
	ProviderPrimary: {
		email:       "verified_user@gmail.com",
		displayName: "Verified Content Creator",
		photoURL:    "https://api.dicebear.com/7.x/avataaars/svg?seed=verified",
	},
	ProviderSecondary: {
		email:       "creator@nova.os",
		displayName: "Verified Content Creator",
		photoURL:    "https://api.dicebear.com/7.x/avataaars/svg?seed=verified",
	},
}

var aliases = map[string]string{
	"google": ProviderPrimary,
	"email":  ProviderSecondary,
}

// SimulatedProvider stands in for a hosted identity service. The uid is derived from the
// provider and account, so repeated sign-ins land on the same user.
type SimulatedProvider struct{}

func NewSimulatedProvider() *SimulatedProvider { return &SimulatedProvider{} }

var _ repository.IIdentityProvider = (*SimulatedProvider)(nil)

func (p *SimulatedProvider) SignIn(ctx context.Context, provider string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := strings.ToLower(strings.TrimSpace(provider))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	acc, ok := accounts[key]
	if !ok {
		return nil, fmt.Errorf("unsupported identity provider %q", provider)
	}
	return &model.User{
		UID:         uuid.NewSHA1(uidNamespace, []byte(key+"/"+acc.email)).String(),
		Email:       acc.email,
		DisplayName: acc.displayName,
		PhotoURL:    acc.photoURL,
	}, nil
}
