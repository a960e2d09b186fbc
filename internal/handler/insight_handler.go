package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scholarspoint/sphub-backend/internal/response"
	"github.com/scholarspoint/sphub-backend/internal/service"
)

// InsightHandler serves the AI class summary.
type InsightHandler struct {
	stateService   *service.StateService
	insightService *service.InsightService
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(stateService *service.StateService, insightService *service.InsightService) *InsightHandler {
	return &InsightHandler{stateService: stateService, insightService: insightService}
}

// Generate godoc
// POST /api/v1/insights/generate
// Produces a fresh summary. The text is always displayable; API problems
// come back as a fixed fallback message, not an error.
func (h *InsightHandler) Generate(c *gin.Context) {
	insight := h.insightService.Generate(c.Request.Context(), h.stateService.Snapshot())
	response.Success(c, http.StatusOK, insight)
}

// Latest godoc
// GET /api/v1/insights/latest
// Returns the most recently generated summary, if any.
func (h *InsightHandler) Latest(c *gin.Context) {
	insight, err := h.insightService.Latest(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if insight == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, insight)
}
