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

// StudentHandler handles roster CRUD and archival.
type StudentHandler struct {
	stateService *service.StateService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(stateService *service.StateService) *StudentHandler {
	return &StudentHandler{stateService: stateService}
}

// List godoc
// GET /api/v1/students
// Returns the directory split into active and archived, both sorted by roll.
func (h *StudentHandler) List(c *gin.Context) {
	snapshot := h.stateService.Snapshot()
	dir := view.PartitionDirectory(snapshot.Students)
	view.SortByRoll(dir.Active)
	view.SortByRoll(dir.Archived)

	response.Success(c, http.StatusOK, gin.H{
		"active":   dir.Active,
		"archived": dir.Archived,
	})
}

// Create godoc
// POST /api/v1/students
// Enrolls a student; the roll number is assigned server-side.
func (h *StudentHandler) Create(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.stateService.AddStudent(&req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrStorageWriteFailed)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// Update godoc
// PUT /api/v1/students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req model.UpdateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.stateService.UpdateStudent(id, &req)
	if errors.Is(err, service.ErrStudentNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrStorageWriteFailed)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// Archive godoc
// POST /api/v1/students/:id/archive
// Soft delete: the student leaves active rosters, history stays.
func (h *StudentHandler) Archive(c *gin.Context) {
	h.setArchived(c, true)
}

// Restore godoc
// POST /api/v1/students/:id/restore
func (h *StudentHandler) Restore(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *StudentHandler) setArchived(c *gin.Context, archived bool) {
	id := c.Param("id")

	var err error
	if archived {
		err = h.stateService.ArchiveStudent(id)
	} else {
		err = h.stateService.RestoreStudent(id)
	}

	if errors.Is(err, service.ErrStudentNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrStorageWriteFailed)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
