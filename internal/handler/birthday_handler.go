package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scholarspoint/sphub-backend/internal/response"
	"github.com/scholarspoint/sphub-backend/internal/service"
	"github.com/scholarspoint/sphub-backend/internal/view"
)

// BirthdayHandler serves the birthday windows and the admin reminder links.
type BirthdayHandler struct {
	stateService    *service.StateService
	whatsappService *service.WhatsAppService
}

// NewBirthdayHandler creates a new BirthdayHandler.
func NewBirthdayHandler(stateService *service.StateService, whatsappService *service.WhatsAppService) *BirthdayHandler {
	return &BirthdayHandler{stateService: stateService, whatsappService: whatsappService}
}

// Windows godoc
// GET /api/v1/birthdays
// Returns today / tomorrow / later-this-month for the active roster, plus
// WhatsApp links alerting the admins about tomorrow's birthdays.
func (h *BirthdayHandler) Windows(c *gin.Context) {
	now := time.Now()
	active := view.ActiveRoster(h.stateService.Snapshot().Students)
	windows := view.BuildBirthdayWindows(active, now)

	tomorrow := view.DateString(now.AddDate(0, 0, 1))
	response.Success(c, http.StatusOK, gin.H{
		"windows":    windows,
		"alertLinks": h.whatsappService.BirthdayAlerts(windows.Tomorrow, tomorrow),
	})
}
