package usecase

import "errors"

// Publish and translation failures never surface as errors: they become state on the
// affected target or an assistant message. Everything below is returned to the caller.
var (
	ErrAuthFailure         = errors.New("authentication failure")
	ErrNoSession           = errors.New("no active session")
	ErrConnectionFailure   = errors.New("connection failure")
	ErrUnknownPlatform     = errors.New("unknown platform")
	ErrNotConfigured       = errors.New("integration not configured")
	ErrNoProject           = errors.New("no project loaded")
	ErrEmptySelection      = errors.New("no export targets selected")
	ErrRunInProgress       = errors.New("run in progress")
	ErrCommandPending      = errors.New("a command is already being processed")
	ErrInvalidPrompt       = errors.New("prompt is empty")
	ErrAnalysisUnavailable = errors.New("analysis service unavailable")
)
