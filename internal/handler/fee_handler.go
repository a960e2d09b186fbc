package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scholarspoint/sphub-backend/internal/model"
	"github.com/scholarspoint/sphub-backend/internal/response"
	"github.com/scholarspoint/sphub-backend/internal/service"
	"github.com/scholarspoint/sphub-backend/internal/validator"
	"github.com/scholarspoint/sphub-backend/internal/view"
)

// FeeHandler handles the monthly fee summary and status changes.
type FeeHandler struct {
	stateService *service.StateService
}

// NewFeeHandler creates a new FeeHandler.
func NewFeeHandler(stateService *service.StateService) *FeeHandler {
	return &FeeHandler{stateService: stateService}
}

// Summary godoc
// GET /api/v1/fees/summary?month=0-11&year=YYYY
// Returns collected total, pending roster and per-student statuses.
func (h *FeeHandler) Summary(c *gin.Context) {
	month0, year, ok := monthYearParams(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	summary := view.BuildFeeSummary(h.stateService.Snapshot(), month0, year)
	response.Success(c, http.StatusOK, summary)
}

// SetStatus godoc
// POST /api/v1/fees/status
// Upserts the (student, month, year) record to the requested status.
func (h *FeeHandler) SetStatus(c *gin.Context) {
	var req model.SetFeeStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	record, err := h.stateService.SetFeeStatus(&req)
	if errors.Is(err, service.ErrStudentNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrStorageWriteFailed)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"record": record})
}
