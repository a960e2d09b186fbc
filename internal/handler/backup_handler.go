package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scholarspoint/sphub-backend/internal/response"
	"github.com/scholarspoint/sphub-backend/internal/service"
)

// maxImportBytes caps uploaded backup files.
const maxImportBytes = 32 << 20

// BackupHandler handles export, import and the CSV roster download.
type BackupHandler struct {
	stateService  *service.StateService
	exportService *service.ExportService
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(stateService *service.StateService, exportService *service.ExportService) *BackupHandler {
	return &BackupHandler{stateService: stateService, exportService: exportService}
}

// Export godoc
// GET /api/v1/backup/export
// Downloads the full state as a dated JSON backup file.
func (h *BackupHandler) Export(c *gin.Context) {
	backup := h.exportService.BuildBackup(h.stateService.Snapshot())

	filename := fmt.Sprintf("scholars-point-backup-%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, backup)
}

// Import godoc
// POST /api/v1/backup/import
// Restores a previously exported backup. The students array is mandatory;
// collections absent from the file are left untouched.
func (h *BackupHandler) Import(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	data, err := h.exportService.ParseBackup(raw)
	if errors.Is(err, service.ErrInvalidBackup) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidBackup)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if err := h.stateService.Import(data); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrStorageWriteFailed)
		return
	}

	snapshot := h.stateService.Snapshot()
	response.Success(c, http.StatusOK, gin.H{
		"students":   len(snapshot.Students),
		"attendance": len(snapshot.Attendance),
		"fees":       len(snapshot.Fees),
	})
}

// RosterCSV godoc
// GET /api/v1/backup/roster.csv
// Downloads the active roster as a spreadsheet-friendly CSV.
func (h *BackupHandler) RosterCSV(c *gin.Context) {
	csv, err := h.exportService.RosterCSV(h.stateService.Snapshot())
	if errors.Is(err, service.ErrNothingToExport) {
		response.Fail(c, http.StatusNotFound, response.ErrNothingToExport)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	filename := fmt.Sprintf("scholars-point-roster-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
