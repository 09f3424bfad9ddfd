package http

import (
	"nova-studio/domain/model"
	"nova-studio/domain/studio"
	"nova-studio/usecase"

	"github.com/gin-gonic/gin"
)

// StateStreamer serves the live state of the calling user as server-sent events.
type StateStreamer interface {
	Serve(c *gin.Context, initial studio.State)
}

type IExportHandler interface {
	State(c *gin.Context)
	ToggleSelection(c *gin.Context)
	StartRun(c *gin.Context)
	PostMetadata(c *gin.Context)
	Stream(c *gin.Context)
	Feedback(c *gin.Context)
}

type ExportHandler struct {
	exportUsecase usecase.IExportUsecase
	streamer      StateStreamer
}

func NewExportHandler(exportUsecase usecase.IExportUsecase, streamer StateStreamer) IExportHandler {
	return &ExportHandler{exportUsecase: exportUsecase, streamer: streamer}
}

func (h *ExportHandler) State(c *gin.Context) {
	state, err := h.exportUsecase.State(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, state)
}

func (h *ExportHandler) ToggleSelection(c *gin.Context) {
	state, err := h.exportUsecase.ToggleSelection(c.Request.Context(), userID(c), model.Platform(c.Param("platform")))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, state.Selection)
}

func (h *ExportHandler) StartRun(c *gin.Context) {
	run, err := h.exportUsecase.StartRun(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, run)
}

func (h *ExportHandler) PostMetadata(c *gin.Context) {
	meta, err := h.exportUsecase.GeneratePostMetadata(c.Request.Context(), userID(c), model.Platform(c.Param("platform")))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, meta)
}

func (h *ExportHandler) Stream(c *gin.Context) {
	state, err := h.exportUsecase.State(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	h.streamer.Serve(c, state)
}

func (h *ExportHandler) Feedback(c *gin.Context) {
	res, err := h.exportUsecase.Feedback(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}
