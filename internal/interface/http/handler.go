package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/content-digest/internal/domain/content"
	"github.com/yanqian/content-digest/internal/domain/converse"
	"github.com/yanqian/content-digest/internal/domain/pipeline"
	"github.com/yanqian/content-digest/internal/domain/trust"
)

const maxUploadBytes = 32 << 20

// Handler wires the HTTP transport to domain services.
type Handler struct {
	pipelineSvc pipeline.Service
	trustSvc    trust.Service
	chatSvc     converse.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(pipelineSvc pipeline.Service, trustSvc trust.Service, chatSvc converse.Service, logger *slog.Logger) *Handler {
	return &Handler{
		pipelineSvc: pipelineSvc,
		trustSvc:    trustSvc,
		chatSvc:     chatSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

// Summarize runs the pipeline. Failures inside the pipeline are results, so
// only malformed requests produce an error status.
func (h *Handler) Summarize(c *gin.Context) {
	var (
		kind content.SourceKind
		in   content.RawInput
		err  error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		kind, in, err = bindMultipart(c)
	} else {
		kind, in, err = bindJSON(c)
	}
	if err != nil {
		abortWithError(c, badRequest(err))
		return
	}

	result := h.pipelineSvc.Run(c.Request.Context(), kind, in)
	c.JSON(http.StatusOK, result)
}

// ClassifyTrust returns a trust verdict for the submitted text.
func (h *Handler) ClassifyTrust(c *gin.Context) {
	var req trust.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, badRequest(err))
		return
	}
	c.JSON(http.StatusOK, h.trustSvc.Classify(c.Request.Context(), req.Text))
}

// Chat answers one message, optionally grounded on caller supplied context.
func (h *Handler) Chat(c *gin.Context) {
	var req converse.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, badRequest(err))
		return
	}
	reply := h.chatSvc.Reply(c.Request.Context(), req.Message, req.Context)
	c.JSON(http.StatusOK, converse.Response{Response: reply})
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func bindJSON(c *gin.Context) (content.SourceKind, content.RawInput, error) {
	var req pipeline.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", content.RawInput{}, err
	}
	kind, err := content.ParseSourceKind(req.Kind)
	if err != nil {
		return "", content.RawInput{}, err
	}
	if kind == content.KindDocument {
		return "", content.RawInput{}, errors.New("documents must be uploaded as multipart form field \"file\"")
	}
	return kind, content.RawInput{Text: req.Input}, nil
}

func bindMultipart(c *gin.Context) (content.SourceKind, content.RawInput, error) {
	kind, err := content.ParseSourceKind(c.PostForm("kind"))
	if err != nil {
		return "", content.RawInput{}, err
	}
	in := content.RawInput{Text: c.PostForm("input")}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if kind == content.KindDocument {
			return "", content.RawInput{}, fmt.Errorf("file is required: %w", err)
		}
		return kind, in, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", content.RawInput{}, fmt.Errorf("failed to read upload: %w", err)
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return "", content.RawInput{}, fmt.Errorf("failed to read upload: %w", err)
	}
	in.Data = data
	in.Filename = fileHeader.Filename
	return kind, in, nil
}
