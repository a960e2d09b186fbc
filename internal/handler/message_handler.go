package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scholarspoint/sphub-backend/internal/model"
	"github.com/scholarspoint/sphub-backend/internal/response"
	"github.com/scholarspoint/sphub-backend/internal/service"
	"github.com/scholarspoint/sphub-backend/internal/validator"
	"github.com/scholarspoint/sphub-backend/internal/view"
)

// MessageHandler builds WhatsApp deep links. Nothing is sent server-side;
// the client opens the links.
type MessageHandler struct {
	stateService    *service.StateService
	whatsappService *service.WhatsAppService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(stateService *service.StateService, whatsappService *service.WhatsAppService) *MessageHandler {
	return &MessageHandler{stateService: stateService, whatsappService: whatsappService}
}

// AbsenceAlertRequest identifies the student and date for a parent alert.
type AbsenceAlertRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
}

// FeeMessageRequest identifies the student and period for a fee message.
type FeeMessageRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	Month     int    `json:"month" binding:"min=0,max=11"`
	Year      int    `json:"year" binding:"required,min=2000,max=2100"`
}

func (h *MessageHandler) findStudent(c *gin.Context, id string) (model.Student, bool) {
	for _, s := range h.stateService.Snapshot().Students {
		if s.ID == id {
			return s, true
		}
	}
	response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	return model.Student{}, false
}

// AbsenceAlert godoc
// POST /api/v1/messages/absence
func (h *MessageHandler) AbsenceAlert(c *gin.Context) {
	var req AbsenceAlertRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, ok := h.findStudent(c, req.StudentID)
	if !ok {
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"link": h.whatsappService.AbsenceAlert(student, req.Date),
	})
}

// FeeReminder godoc
// POST /api/v1/messages/fee-reminder
func (h *MessageHandler) FeeReminder(c *gin.Context) {
	var req FeeMessageRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, ok := h.findStudent(c, req.StudentID)
	if !ok {
		return
	}

	// Name the current status in the message; no record means unpaid.
	status := model.FeeUnpaid
	wantID := model.FeeRecordID(req.StudentID, req.Month, req.Year)
	for _, rec := range h.stateService.Snapshot().Fees {
		if rec.ID == wantID {
			status = rec.Status
			break
		}
	}

	response.Success(c, http.StatusOK, gin.H{
		"link": h.whatsappService.FeeReminder(student, req.Month, req.Year, status),
	})
}

// FeeReceipt godoc
// POST /api/v1/messages/fee-receipt
// Requires a paid record for the period.
func (h *MessageHandler) FeeReceipt(c *gin.Context) {
	var req FeeMessageRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, ok := h.findStudent(c, req.StudentID)
	if !ok {
		return
	}

	wantID := model.FeeRecordID(req.StudentID, req.Month, req.Year)
	for _, rec := range h.stateService.Snapshot().Fees {
		if rec.ID == wantID && rec.Status == model.FeePaid {
			response.Success(c, http.StatusOK, gin.H{
				"link": h.whatsappService.FeeReceipt(student, rec),
			})
			return
		}
	}

	response.Fail(c, http.StatusNotFound, response.ErrNotFound)
}

// BroadcastContacts godoc
// GET /api/v1/messages/broadcast-contacts
// Returns the phone list for a class-wide announcement.
func (h *MessageHandler) BroadcastContacts(c *gin.Context) {
	phones := view.BroadcastContacts(h.stateService.Snapshot().Students)
	response.Success(c, http.StatusOK, gin.H{"phones": phones})
}
