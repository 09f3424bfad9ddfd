package youtube

import (
	"context"
	"errors"
	"fmt"

	"nova-studio/domain/model"
	"nova-studio/domain/repository"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Scopes requested by the connect flow: identity lookup plus uploads.
var Scopes = []string{
	youtube.YoutubeReadonlyScope,
	youtube.YoutubeUploadScope,
}

// NewOAuthConfig builds the authorization-code flow config for the YouTube targets.
func NewOAuthConfig(clientID, clientSecret, redirectURL string, scopes []string) *oauth2.Config {
	if len(scopes) == 0 {
		scopes = Scopes
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}
}

// ChannelVerifier resolves the channel that owns an access token.
type ChannelVerifier struct {
	// endpoint overrides the API base URL; empty means the public API.
	endpoint string
}

func NewChannelVerifier(endpoint string) *ChannelVerifier {
	return &ChannelVerifier{endpoint: endpoint}
}

var _ repository.IAccountVerifier = (*ChannelVerifier)(nil)

func (v *ChannelVerifier) VerifyAccount(ctx context.Context, accessToken string) (*model.ProviderIdentity, error) {
	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})),
	}
	if v.endpoint != "" {
		opts = append(opts, option.WithEndpoint(v.endpoint))
	}
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	response, err := service.Channels.List([]string{"snippet"}).Mine(true).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return nil, errors.New(apiErr.Message)
		}
		return nil, fmt.Errorf("failed to get my channel: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, errors.New("no channel found for authenticated user")
	}

	channel := response.Items[0]
	name := channel.Id
	if channel.Snippet != nil && channel.Snippet.Title != "" {
		name = channel.Snippet.Title
	}
	return &model.ProviderIdentity{ID: channel.Id, Name: name}, nil
}
