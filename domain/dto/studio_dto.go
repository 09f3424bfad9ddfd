package dto

import "nova-studio/domain/model"

type LoginRequest struct {
	Provider string `json:"provider" binding:"required"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type CreateProjectRequest struct {
	Name string `json:"name"`
}

type CommandRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type CommandResponse struct {
	Explanation      string             `json:"explanation"`
	SuggestedActions []model.EditAction `json:"suggestedActions"`
}

type RunResponse struct {
	RunID   string           `json:"runId"`
	Targets []model.Platform `json:"targets"`
}

// AuthorizeResponse carries the provider URL the browser must navigate to.
type AuthorizeResponse struct {
	Platform     model.Platform `json:"platform"`
	AuthorizeURL string         `json:"authorizeUrl"`
}

// InstagramCallbackRequest is the full return URL the browser landed on after the dialog.
type InstagramCallbackRequest struct {
	ReturnURL string `json:"returnUrl" binding:"required"`
}

type CallbackResponse struct {
	Connection model.Connection `json:"connection"`
	// CleanURL is the return URL with its fragment removed, for history replacement.
	CleanURL string `json:"cleanUrl,omitempty"`
}

type FeedbackResponse struct {
	Message string `json:"message,omitempty"`
	Visible bool   `json:"visible"`
}
