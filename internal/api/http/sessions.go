package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/soapgen/internal/export"
	"github.com/GoSim-25-26J-441/soapgen/internal/logging"
	"github.com/GoSim-25-26J-441/soapgen/internal/session"
	"github.com/GoSim-25-26J-441/soapgen/internal/submission"
)

const formFileField = "wsdl_file"

type sessionResponse struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	FileName  string `json:"file_name,omitempty"`
	Output    string `json:"output"`
	Pending   bool   `json:"pending"`
}

type errorResponse struct {
	Error   string           `json:"error"`
	Session *sessionResponse `json:"session,omitempty"`
}

type setTextReq struct {
	Text string `json:"text"`
}

// SessionHandler drives one submission controller per browser session.
type SessionHandler struct {
	registry       *session.Registry
	maxUploadBytes int64
}

func NewSessionHandler(registry *session.Registry, maxUploadBytes int64) *SessionHandler {
	return &SessionHandler{registry: registry, maxUploadBytes: maxUploadBytes}
}

func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sessions", h.start)

	s := rg.Group("/sessions/:id")
	s.GET("", h.get)
	s.DELETE("", h.end)
	s.PUT("/text", h.setText)
	s.PUT("/file", h.setFile)
	s.DELETE("/file", h.clearFile)
	s.POST("/submit", h.submit)
	s.GET("/download", h.download)
}

func toResponse(id string, s submission.State) sessionResponse {
	return sessionResponse{
		SessionID: id,
		Text:      s.Text,
		FileName:  s.FileName(),
		Output:    s.Output,
		Pending:   s.Pending,
	}
}

func (h *SessionHandler) controller(c *gin.Context) (string, *submission.Controller, bool) {
	id := c.Param("id")
	ctrl, err := h.registry.Get(id)
	if err != nil {
		writeError(c, err, nil)
		return "", nil, false
	}
	return id, ctrl, true
}

func (h *SessionHandler) start(c *gin.Context) {
	id, ctrl := h.registry.Start(c.Request.Context())
	c.JSON(http.StatusCreated, toResponse(id, ctrl.Snapshot()))
}

func (h *SessionHandler) get(c *gin.Context) {
	id, ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toResponse(id, ctrl.Snapshot()))
}

func (h *SessionHandler) end(c *gin.Context) {
	if err := h.registry.End(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) setText(c *gin.Context) {
	id, ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req setTextReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return
	}
	ctrl.SetText(req.Text)
	c.JSON(http.StatusOK, toResponse(id, ctrl.Snapshot()))
}

func (h *SessionHandler) setFile(c *gin.Context) {
	id, ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fh, err := c.FormFile(formFileField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: fmt.Sprintf("file exceeds %d bytes", tooLarge.Limit)})
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: formFileField + " is required"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "cannot read uploaded file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "cannot read uploaded file"})
		return
	}

	ctrl.SetFile(submission.File{Name: fh.Filename, Data: data})
	c.JSON(http.StatusOK, toResponse(id, ctrl.Snapshot()))
}

func (h *SessionHandler) clearFile(c *gin.Context) {
	id, ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctrl.ClearFile()
	c.JSON(http.StatusOK, toResponse(id, ctrl.Snapshot()))
}

func (h *SessionHandler) submit(c *gin.Context) {
	id, ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	// a submission runs to completion even if the browser goes away
	ctx := context.WithoutCancel(c.Request.Context())

	if err := ctrl.Submit(ctx); err != nil {
		resp := toResponse(id, ctrl.Snapshot())
		writeError(c, err, &resp)
		return
	}
	c.JSON(http.StatusOK, toResponse(id, ctrl.Snapshot()))
}

func (h *SessionHandler) download(c *gin.Context) {
	_, ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctrl.Download(c.Request.Context(), export.NewAttachmentSaver(c.Writer)); err != nil {
		// headers are already on the wire at this point
		logging.New(c.Request.Context()).LogError("download", err)
	}
}

func writeError(c *gin.Context, err error, s *sessionResponse) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, submission.ErrMissingFile):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: submission.MissingFileNotice, Session: s})
	case errors.Is(err, submission.ErrSubmissionPending):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error(), Session: s})
	case errors.Is(err, submission.ErrGenerationFailed):
		c.JSON(http.StatusBadGateway, errorResponse{Error: submission.FailureOutput, Session: s})
	default:
		logging.New(c.Request.Context()).LogError("http", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
