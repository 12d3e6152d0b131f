package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/api/http/middleware"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/ingest/validator"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/service"
)

const maxDocumentBytes = 4 << 20

// Handler handles HTTP requests for atomization runs
type Handler struct {
	runs   Runs
	logger *zap.Logger
}

func New(runs Runs, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{runs: runs, logger: logger}
}

// CreateRun atomizes the posted network. The body is either
// {"network_yaml": "..."} or the YAML/JSON document itself.
func (h *Handler) CreateRun(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxDocumentBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "network document exceeds 4MB"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	doc := documentFrom(body)
	if len(strings.TrimSpace(string(doc))) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "network document is required"})
		return
	}

	res, err := h.runs.Create(c.Request.Context(), doc)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMalformedDocument),
			errors.Is(err, validator.ErrInvalidNetwork),
			errors.Is(err, service.ErrEmptyNetwork):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("atomization failed", requestID(c), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to atomize network"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"run": res})
}

// documentFrom unwraps {"network_yaml": ...}; anything else is the document.
func documentFrom(body []byte) []byte {
	var req createRunRequest
	if err := json.Unmarshal(body, &req); err == nil && req.NetworkYAML != "" {
		return []byte(req.NetworkYAML)
	}
	return body
}

// GetRun retrieves a stored run by ID
func (h *Handler) GetRun(c *gin.Context) {
	rec, err := h.runs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.notFoundOr500(c, err, domain.ErrRunNotFound, "run not found", "failed to get run")
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": toRunResponse(rec)})
}

func (h *Handler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	recs, err := h.runs.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list runs failed", requestID(c), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	out := make([]runResponse, 0, len(recs))
	for i := range recs {
		out = append(out, toRunResponse(&recs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"runs": out})
}

func (h *Handler) GetSummary(c *gin.Context) {
	s, err := h.runs.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.notFoundOr500(c, err, domain.ErrSummaryNotFound, "summary not found", "failed to get summary")
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": s})
}

func (h *Handler) DeleteRun(c *gin.Context) {
	if err := h.runs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.notFoundOr500(c, err, domain.ErrRunNotFound, "run not found", "failed to delete run")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) notFoundOr500(c *gin.Context, err, notFound error, notFoundMsg, failMsg string) {
	if errors.Is(err, notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return
	}
	h.logger.Error(failMsg, requestID(c), zap.String("run_id", c.Param("id")), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
}

func requestID(c *gin.Context) zap.Field {
	return zap.String("request_id", middleware.GetRequestID(c.Request.Context()))
}
