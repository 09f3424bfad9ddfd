package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nova-studio/domain/model"
	"nova-studio/domain/repository"
	"nova-studio/domain/studio"
	"nova-studio/infrastructure/cache"
	"nova-studio/infrastructure/persistence"
	"nova-studio/usecase"
)

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyAccount(ctx context.Context, token string) (*model.ProviderIdentity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProviderIdentity), args.Error(1)
}

type MockAnalysis struct {
	mock.Mock
}

func (m *MockAnalysis) AnalyzeIntent(ctx context.Context, prompt string, project model.Project) (model.IntentResult, error) {
	args := m.Called(ctx, prompt, project)
	return args.Get(0).(model.IntentResult), args.Error(1)
}

func (m *MockAnalysis) GeneratePostMetadata(ctx context.Context, platform model.Platform, project model.Project) (model.PostMetadata, error) {
	args := m.Called(ctx, platform, project)
	return args.Get(0).(model.PostMetadata), args.Error(1)
}

type MockDraftAnalyzer struct {
	mock.Mock
}

func (m *MockDraftAnalyzer) Analyze(ctx context.Context, name string) (model.Project, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.Project), args.Error(1)
}

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) SignIn(ctx context.Context, provider string) (*model.User, error) {
	args := m.Called(ctx, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishEvent(ctx context.Context, event model.PublishEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// fixture wires a session store over the in-memory backend.
type fixture struct {
	identities  repository.IIdentity
	connections repository.IConnection
	sessions    *usecase.SessionStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := cache.NewMemoryKeyValue()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	f := &fixture{
		identities:  persistence.NewIdentityRepository(kv),
		connections: persistence.NewConnectionRepository(kv),
	}
	f.sessions = usecase.NewSessionStore(ctx, f.identities, f.connections, nil)
	return f
}

var testUser = model.User{UID: "u1", Email: "ada@example.com", DisplayName: "Ada"}

func testProject() model.Project {
	return model.Project{
		ID:           "proj_abcde",
		Name:         "Launch",
		VideoURL:     "https://cdn.example/launch.mp4",
		AppliedEdits: []model.EditAction{},
	}
}

// openWithProject opens a session for testUser with a loaded project.
func (f *fixture) openWithProject(t *testing.T, conns ...model.Connection) *usecase.Session {
	t.Helper()
	require.NoError(t, f.identities.Save(context.Background(), testUser))
	require.NoError(t, f.connections.Save(context.Background(), testUser.UID, conns))
	sess := f.sessions.Open(testUser, conns)
	sess.Update(func(s studio.State) studio.State {
		return studio.SetProject(s, testProject())
	})
	return sess
}

func target(t *testing.T, s studio.State, p model.Platform) model.ExportTarget {
	t.Helper()
	tg, ok := s.Target(p)
	require.True(t, ok, "target %s missing", p)
	return tg
}
