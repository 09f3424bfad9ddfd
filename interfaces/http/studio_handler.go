package http

import (
	"errors"
	"io"

	"nova-studio/domain/dto"
	"nova-studio/usecase"

	"github.com/gin-gonic/gin"
)

type IStudioHandler interface {
	CreateProject(c *gin.Context)
	Project(c *gin.Context)
	Command(c *gin.Context)
	Messages(c *gin.Context)
}

type StudioHandler struct {
	commandUsecase usecase.ICommandUsecase
}

func NewStudioHandler(commandUsecase usecase.ICommandUsecase) IStudioHandler {
	return &StudioHandler{commandUsecase: commandUsecase}
}

// CreateProject analyzes a new draft. The body is optional.
func (h *StudioHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	project, err := h.commandUsecase.CreateProject(c.Request.Context(), userID(c), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, project)
}

func (h *StudioHandler) Project(c *gin.Context) {
	project, err := h.commandUsecase.Project(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if project == nil {
		fail(c, usecase.ErrNoProject)
		return
	}
	ok(c, project)
}

func (h *StudioHandler) Command(c *gin.Context) {
	var req dto.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.commandUsecase.Translate(c.Request.Context(), userID(c), req.Prompt)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, dto.CommandResponse{Explanation: result.Explanation, SuggestedActions: result.SuggestedActions})
}

func (h *StudioHandler) Messages(c *gin.Context) {
	messages, err := h.commandUsecase.Messages(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, messages)
}
