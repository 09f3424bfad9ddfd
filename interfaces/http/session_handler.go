package http

import (
	"net/http"

	"nova-studio/domain/dto"
	"nova-studio/usecase"

	"github.com/gin-gonic/gin"
)

type ISessionHandler interface {
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Current(c *gin.Context)
}

type SessionHandler struct {
	sessionUsecase usecase.ISessionUsecase
}

func NewSessionHandler(sessionUsecase usecase.ISessionUsecase) ISessionHandler {
	return &SessionHandler{sessionUsecase: sessionUsecase}
}

func (h *SessionHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.sessionUsecase.Login(c.Request.Context(), req.Provider)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.sessionUsecase.Logout(c.Request.Context(), userID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(nil))
}

func (h *SessionHandler) Current(c *gin.Context) {
	state, err := h.sessionUsecase.Current(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, state)
}
