package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scholarspoint/sphub-backend/internal/model"
	"github.com/scholarspoint/sphub-backend/internal/response"
	"github.com/scholarspoint/sphub-backend/internal/service"
	"github.com/scholarspoint/sphub-backend/internal/validator"
	"github.com/scholarspoint/sphub-backend/internal/view"
)

// AttendanceHandler handles daily marking and the monthly register.
type AttendanceHandler struct {
	stateService *service.StateService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(stateService *service.StateService) *AttendanceHandler {
	return &AttendanceHandler{stateService: stateService}
}

// dateParam reads and validates a ?date=YYYY-MM-DD query param, defaulting
// to today when absent.
func dateParam(c *gin.Context) (string, bool) {
	date := c.Query("date")
	if date == "" {
		return view.DateString(time.Now()), true
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", false
	}
	return date, true
}

// monthYearParams reads ?month= (0-11) and ?year= query params, defaulting
// to the current period.
func monthYearParams(c *gin.Context) (int, int, bool) {
	now := time.Now()
	month0 := int(now.Month()) - 1
	year := now.Year()

	if raw := c.Query("month"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 11 {
			return 0, 0, false
		}
		month0 = n
	}
	if raw := c.Query("year"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 2000 || n > 2100 {
			return 0, 0, false
		}
		year = n
	}
	return month0, year, true
}

// Day godoc
// GET /api/v1/attendance/day?date=YYYY-MM-DD
// Returns the per-day split: tallies, statuses and the active absentees.
func (h *AttendanceHandler) Day(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	split := view.SplitDay(h.stateService.Snapshot(), date)
	response.Success(c, http.StatusOK, split)
}

// Mark godoc
// POST /api/v1/attendance/mark
// Upserts a batch of records keyed by (date, studentId).
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req model.MarkAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.stateService.MarkAttendance(req.Records); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrStorageWriteFailed)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"marked": len(req.Records)})
}

// Cycle godoc
// POST /api/v1/attendance/cycle
// Advances one cell through present -> absent -> late -> excused -> holiday.
func (h *AttendanceHandler) Cycle(c *gin.Context) {
	var req model.CycleAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	record, err := h.stateService.CycleAttendance(req.Date, req.StudentID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrStorageWriteFailed)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"record": record})
}

// Holiday godoc
// POST /api/v1/attendance/holiday
// Marks the whole active roster as holiday for one date.
func (h *AttendanceHandler) Holiday(c *gin.Context) {
	var req model.HolidayRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	marked, err := h.stateService.MarkHoliday(req.Date)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrStorageWriteFailed)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"marked": marked})
}

// Monthly godoc
// GET /api/v1/attendance/monthly?month=0-11&year=YYYY
// Returns the full register grid plus weighted percentages.
func (h *AttendanceHandler) Monthly(c *gin.Context) {
	month0, year, ok := monthYearParams(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	report := view.BuildMonthlyReport(h.stateService.Snapshot(), month0, year)
	response.Success(c, http.StatusOK, report)
}
