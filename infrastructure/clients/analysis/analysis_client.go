package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"nova-studio/domain/model"
	"nova-studio/domain/repository"
	"nova-studio/infrastructure/logger"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel   = "gemini-2.0-flash"
)

// Fallbacks used when the model answers with something that is not the expected JSON.
var (
	DefaultIntent = model.IntentResult{
		Explanation:      "I smoothed out that transition. It felt a bit abrupt, so I tightened the cut to keep the momentum going.",
		SuggestedActions: []model.EditAction{},
	}
	DefaultPostMetadata = model.PostMetadata{
		Title:       "Check this out!",
		Description: "Just finished editing this awesome piece with Nova AI.",
		Hashtags:    []string{"#videoediting", "#novaai", "#viral"},
	}
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// MaxRetries is passed to the SDK; negative keeps its default.
	MaxRetries int
}

// Client talks to an OpenAI-compatible chat-completions endpoint in JSON mode.
type Client struct {
	client openai.Client
	model  string
}

var _ repository.IAnalysis = (*Client)(nil)

func NewClient(cfg Config) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	baseURL := cfg.BaseURL
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	opts = append(opts, option.WithBaseURL(baseURL))
	if cfg.MaxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Client{client: openai.NewClient(opts...), model: modelName}
}

func (c *Client) AnalyzeIntent(ctx context.Context, prompt string, project model.Project) (model.IntentResult, error) {
	system := "You are Nova, a professional human film editor with a focus on retention and storytelling. " +
		"Speak like a human editor, not an AI. Use conversational \"editor speak\". " +
		"Example: Instead of \"Applying a 1.2x zoom\", say \"I zoomed in slightly when you mentioned the metrics to keep the viewer focused on the results.\""
	user := fmt.Sprintf(`Current Project Context: %q
Retention Insight: Viewers stay engaged until 6s, then attention drops slightly.

User's Request: %q

Analyze this intent. Focus on narrative flow, removing filler, and creating impact.
Respond with JSON only, shaped as:
{"explanation":"...","suggestedActions":[{"id":"...","type":"JUMP_CUT|DYNAMIC_ZOOM|CAPTION_STYLE|B_ROLL|MUSIC_DUCK|COLOR_GRADE|BRANDING|AI_REWRITE","timestamp":0,"description":"...","aiReasoning":"..."}]}`,
		project.Name, prompt)

	raw, err := c.complete(ctx, system, user)
	if err != nil {
		return model.IntentResult{}, err
	}

	var result model.IntentResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil || result.Explanation == "" {
		logger.GetLogger().WithField("raw", raw).Warn("Unparseable intent response, using default")
		return DefaultIntent, nil
	}
	if result.SuggestedActions == nil {
		result.SuggestedActions = []model.EditAction{}
	}
	return result, nil
}

func (c *Client) GeneratePostMetadata(ctx context.Context, platform model.Platform, project model.Project) (model.PostMetadata, error) {
	system := "You are a social media growth strategist."
	user := fmt.Sprintf(`Generate a viral title, description, and hashtags for the following video content on %s.
Video Name: %q
Insights: Hook Score %d%%, Viral Potential %d%%.

The tone should be platform-appropriate (e.g., professional for LinkedIn, high-energy for TikTok).
Respond with JSON only, shaped as {"title":"...","description":"...","hashtags":["#..."]}`,
		platform, project.Name, project.Insights.HookScore, project.Insights.ViralPotential)

	raw, err := c.complete(ctx, system, user)
	if err != nil {
		return model.PostMetadata{}, err
	}

	var meta model.PostMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil || meta.Title == "" {
		logger.GetLogger().WithField("raw", raw).Warn("Unparseable metadata response, using default")
		return DefaultPostMetadata, nil
	}
	if meta.Hashtags == nil {
		meta.Hashtags = []string{}
	}
	return meta, nil
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model: c.model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{Type: "json_object"},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("analysis service returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
