package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scholarspoint/sphub-backend/internal/response"
	"github.com/scholarspoint/sphub-backend/internal/service"
	"github.com/scholarspoint/sphub-backend/internal/view"
)

// DashboardHandler serves the landing-page aggregate.
type DashboardHandler struct {
	stateService *service.StateService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(stateService *service.StateService) *DashboardHandler {
	return &DashboardHandler{stateService: stateService}
}

// Overview godoc
// GET /api/v1/dashboard
// One call for the dashboard: today's split, the current month's fee position
// and the birthday windows.
func (h *DashboardHandler) Overview(c *gin.Context) {
	snapshot := h.stateService.Snapshot()
	now := time.Now()

	active := view.ActiveRoster(snapshot.Students)
	today := view.SplitDay(snapshot, view.DateString(now))
	fees := view.BuildFeeSummary(snapshot, int(now.Month())-1, now.Year())
	birthdays := view.BuildBirthdayWindows(active, now)

	response.Success(c, http.StatusOK, gin.H{
		"activeStudents": len(active),
		"totalStudents":  len(snapshot.Students),
		"today":          today,
		"fees":           fees,
		"birthdays":      birthdays,
	})
}
