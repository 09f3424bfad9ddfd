package http

import (
	"net/http"
	"net/url"
	"strconv"

	"nova-studio/domain/dto"
	"nova-studio/domain/model"
	"nova-studio/infrastructure/logger"
	"nova-studio/usecase"

	"github.com/gin-gonic/gin"
)

type IConnectionHandler interface {
	List(c *gin.Context)
	Authorize(c *gin.Context)
	InstagramCallback(c *gin.Context)
	YouTubeCallback(c *gin.Context)
	Disconnect(c *gin.Context)
}

type ConnectionHandler struct {
	connectionUsecase usecase.IConnectionUsecase
	// returnTo is the dashboard origin the browser goes back to after the YouTube callback.
	returnTo string
}

func NewConnectionHandler(connectionUsecase usecase.IConnectionUsecase, returnTo string) IConnectionHandler {
	return &ConnectionHandler{connectionUsecase: connectionUsecase, returnTo: returnTo}
}

func (h *ConnectionHandler) List(c *gin.Context) {
	connections, err := h.connectionUsecase.List(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, connections)
}

func (h *ConnectionHandler) Authorize(c *gin.Context) {
	res, err := h.connectionUsecase.AuthorizeURL(c.Request.Context(), userID(c), model.Platform(c.Param("platform")))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

// InstagramCallback receives the URL the Meta dialog redirected the browser to. The
// fragment never reaches the server on its own, so the dashboard posts it here.
func (h *ConnectionHandler) InstagramCallback(c *gin.Context) {
	var req dto.InstagramCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.connectionUsecase.CompleteInstagram(c.Request.Context(), userID(c), req.ReturnURL)
	if err != nil {
		status := statusOf(err)
		c.JSON(status, dto.Res{ResponseCode: strconv.Itoa(status), ResponseMessage: err.Error(), Data: res})
		return
	}
	ok(c, res)
}

func (h *ConnectionHandler) YouTubeCallback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		logger.GetLogger().WithField("reason", reason).Warn("Google consent denied")
	}
	res, err := h.connectionUsecase.CompleteYouTube(c.Request.Context(), c.Query("state"), c.Query("code"))
	if h.returnTo == "" {
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, res)
		return
	}

	q := url.Values{}
	if err != nil {
		q.Set("sync_error", err.Error())
	} else {
		q.Set("connected", string(res.Connection.Platform))
	}
	c.Redirect(http.StatusFound, h.returnTo+"?"+q.Encode())
}

func (h *ConnectionHandler) Disconnect(c *gin.Context) {
	if err := h.connectionUsecase.Disconnect(c.Request.Context(), userID(c), model.Platform(c.Param("platform"))); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(nil))
}
