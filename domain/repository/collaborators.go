package repository

import (
	"context"

	"nova-studio/domain/model"
)

// IAccountVerifier resolves the account behind an access token.
type IAccountVerifier interface {
	VerifyAccount(ctx context.Context, accessToken string) (*model.ProviderIdentity, error)
}

// IAnalysis is the generative analysis service.
type IAnalysis interface {
	AnalyzeIntent(ctx context.Context, prompt string, project model.Project) (model.IntentResult, error)
	GeneratePostMetadata(ctx context.Context, platform model.Platform, project model.Project) (model.PostMetadata, error)
}

// IDraftAnalyzer produces the scene/transcript/insight analysis of a new draft.
type IDraftAnalyzer interface {
	Analyze(ctx context.Context, name string) (model.Project, error)
}

// IIdentityProvider signs a user in with one of the configured providers.
type IIdentityProvider interface {
	SignIn(ctx context.Context, provider string) (*model.User, error)
}

// IEventPublisher forwards terminal publish events to a message bus.
type IEventPublisher interface {
	PublishEvent(ctx context.Context, event model.PublishEvent) error
}
