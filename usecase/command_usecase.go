package usecase

import (
	"context"
	"strings"
	"time"

	"nova-studio/domain/model"
	"nova-studio/domain/repository"
	"nova-studio/domain/studio"
	"nova-studio/infrastructure/logger"

	"github.com/jonboulle/clockwork"
)

const (
	DefaultProjectName   = "Untitled Campaign"
	draftAnalyzedMessage = "Draft analyzed. I've mapped out the key scenes. Ready to tighten the flow."
	editorOfflineMessage = "Editor offline. Check connectivity."
)

type ICommandUsecase interface {
	CreateProject(ctx context.Context, uid, name string) (model.Project, error)
	Project(ctx context.Context, uid string) (*model.Project, error)
	Translate(ctx context.Context, uid, prompt string) (model.IntentResult, error)
	Messages(ctx context.Context, uid string) ([]model.ChatMessage, error)
}

type commandUsecase struct {
	sessions *SessionStore
	analyzer repository.IDraftAnalyzer
	analysis repository.IAnalysis
	clock    clockwork.Clock
	timeout  time.Duration
}

func NewCommandUsecase(
	sessions *SessionStore,
	analyzer repository.IDraftAnalyzer,
	analysis repository.IAnalysis,
	clock clockwork.Clock,
	timeout time.Duration,
) ICommandUsecase {
	return &commandUsecase{
		sessions: sessions,
		analyzer: analyzer,
		analysis: analysis,
		clock:    clock,
		timeout:  timeout,
	}
}

func (u *commandUsecase) CreateProject(ctx context.Context, uid, name string) (model.Project, error) {
	sess, err := u.sessions.Acquire(ctx, uid)
	if err != nil {
		return model.Project{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultProjectName
	}
	project, err := u.analyzer.Analyze(ctx, name)
	if err != nil {
		return model.Project{}, err
	}

	var startErr error
	sess.Update(func(s studio.State) studio.State {
		switch {
		case s.Busy():
			startErr = ErrRunInProgress
			return s
		case s.CommandPending:
			// The pending command's edits belong to the current project.
			startErr = ErrCommandPending
			return s
		}
		next := studio.SetProject(s, project)
		return studio.AppendMessage(next, model.ChatMessage{
			Role:      model.RoleAssistant,
			Content:   draftAnalyzedMessage,
			Timestamp: u.clock.Now().UnixMilli(),
		})
	})
	if startErr != nil {
		return model.Project{}, startErr
	}
	logger.GetLogger().WithField("uid", uid).WithField("project_id", project.ID).Info("Draft analyzed")
	return project, nil
}

func (u *commandUsecase) Project(ctx context.Context, uid string) (*model.Project, error) {
	sess, err := u.sessions.Acquire(ctx, uid)
	if err != nil {
		return nil, err
	}
	return sess.Snapshot().Project, nil
}

// Translate records the prompt, asks the analysis service for edits and appends them
// verbatim. A failing service yields a fixed assistant reply and no edits.
func (u *commandUsecase) Translate(ctx context.Context, uid, prompt string) (model.IntentResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return model.IntentResult{}, ErrInvalidPrompt
	}
	sess, err := u.sessions.Acquire(ctx, uid)
	if err != nil {
		return model.IntentResult{}, err
	}

	var project model.Project
	var startErr error
	sess.Update(func(s studio.State) studio.State {
		switch {
		case s.Project == nil:
			startErr = ErrNoProject
		case s.CommandPending:
			startErr = ErrCommandPending
		default:
			project = *s.Project
			next := studio.SetCommandPending(s, true)
			return studio.AppendMessage(next, model.ChatMessage{
				Role:      model.RoleUser,
				Content:   prompt,
				Timestamp: u.clock.Now().UnixMilli(),
			})
		}
		return s
	})
	if startErr != nil {
		return model.IntentResult{}, startErr
	}

	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	result, err := u.analysis.AnalyzeIntent(callCtx, prompt, project)
	if err != nil {
		logger.GetLogger().WithField("uid", uid).WithField("error", err).Warn("Command translation failed")
		result = model.IntentResult{Explanation: editorOfflineMessage, SuggestedActions: []model.EditAction{}}
	}
	if result.SuggestedActions == nil {
		result.SuggestedActions = []model.EditAction{}
	}

	sess.Update(func(s studio.State) studio.State {
		next := studio.ApplyEdits(s, result.SuggestedActions)
		next = studio.AppendMessage(next, model.ChatMessage{
			Role:      model.RoleAssistant,
			Content:   result.Explanation,
			Timestamp: u.clock.Now().UnixMilli(),
			Actions:   result.SuggestedActions,
		})
		return studio.SetCommandPending(next, false)
	})
	return result, nil
}

func (u *commandUsecase) Messages(ctx context.Context, uid string) ([]model.ChatMessage, error) {
	sess, err := u.sessions.Acquire(ctx, uid)
	if err != nil {
		return nil, err
	}
	return sess.Snapshot().Messages, nil
}
