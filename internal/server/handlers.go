package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"vibe_studio/internal/project"
)

// CodeGenerator produces a project from a prompt
type CodeGenerator interface {
	Generate(ctx context.Context, prompt, extra string) (Result, error)
}

// Handler holds dependencies for API endpoints
type Handler struct {
	generator CodeGenerator
	log       *logrus.Logger
}

// NewHandler initializes the API handler
func NewHandler(gen CodeGenerator, log *logrus.Logger) *Handler {
	return &Handler{generator: gen, log: log}
}

type generateRequest struct {
	Prompt  *string `json:"prompt" binding:"required"`
	Context string  `json:"context"`
}

type writeRequest struct {
	RootDir *string            `json:"rootDir" binding:"required"`
	Files   []project.FileItem `json:"files" binding:"required"`
}

// Generate handles POST /api/generate
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), *req.Prompt, req.Context)
	if err != nil {
		entry := requestLog(c, h.log).WithError(err)

		var upstream *UpstreamError
		switch {
		case errors.As(err, &upstream):
			entry.Error("model server unreachable")
			c.JSON(http.StatusBadGateway, gin.H{"detail": "Ollama error: " + upstream.Error()})
		case errors.Is(err, ErrNonJSONOutput):
			entry.Warn("generation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": ErrNonJSONOutput.Error()})
		case errors.Is(err, ErrInvalidFiles):
			entry.Warn("generation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": ErrInvalidFiles.Error()})
		default:
			entry.Error("generation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		}
		return
	}

	requestLog(c, h.log).WithField("files", len(result.Files)).Info("generated project")
	c.JSON(http.StatusOK, result)
}

// Write handles POST /api/write
func (h *Handler) Write(c *gin.Context) {
	var req writeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	written, err := WriteFiles(*req.RootDir, req.Files)
	if err != nil {
		entry := requestLog(c, h.log).WithError(err).WithField("root", *req.RootDir)
		if errors.Is(err, ErrOutsideRoot) {
			entry.Warn("rejected write")
			c.JSON(http.StatusBadRequest, gin.H{"detail": ErrOutsideRoot.Error()})
			return
		}
		entry.Error("write failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Write error: " + err.Error()})
		return
	}

	requestLog(c, h.log).WithFields(logrus.Fields{
		"root":    *req.RootDir,
		"written": written,
	}).Info("wrote project")
	c.JSON(http.StatusOK, gin.H{"status": "ok", "written": written})
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
