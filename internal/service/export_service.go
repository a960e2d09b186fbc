package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/scholarspoint/sphub-backend/internal/config"
	"github.com/scholarspoint/sphub-backend/internal/model"
	"github.com/scholarspoint/sphub-backend/internal/view"
)

// Import validation errors.
var (
	ErrInvalidBackup   = errors.New("backup file is not valid")
	ErrNothingToExport = errors.New("no students to export")
)

// ExportService produces backup files and the roster CSV, and validates
// incoming restore payloads.
type ExportService struct {
	cfg *config.Config
}

func NewExportService(cfg *config.Config) *ExportService {
	return &ExportService{cfg: cfg}
}

// BuildBackup wraps the current state with the backup envelope fields.
func (s *ExportService) BuildBackup(state *model.AppState) *model.Backup {
	return &model.Backup{
		Students:   state.Students,
		Attendance: state.Attendance,
		Fees:       state.Fees,
		BackupDate: time.Now().Format(time.RFC3339),
		AppVersion: s.cfg.AppVersion,
		ClassName:  s.cfg.ClassName,
	}
}

// ParseBackup decodes and validates an uploaded backup. A students array is
// mandatory; attendance and fees are optional and nil when absent, so a
// partial backup only replaces what it carries.
func (s *ExportService) ParseBackup(raw []byte) (*model.ImportData, error) {
	var probe struct {
		Students json.RawMessage `json:"students"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if len(probe.Students) == 0 || string(probe.Students) == "null" {
		return nil, fmt.Errorf("%w: missing students array", ErrInvalidBackup)
	}

	var data model.ImportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if data.Students == nil {
		return nil, fmt.Errorf("%w: students is not an array", ErrInvalidBackup)
	}
	return &data, nil
}

// RosterCSV renders the full directory (archived included) as CSV, sorted by
// roll number. The column set is fixed for spreadsheet import compatibility.
func (s *ExportService) RosterCSV(state *model.AppState) (string, error) {
	if len(state.Students) == 0 {
		return "", ErrNothingToExport
	}
	students := make([]model.Student, len(state.Students))
	copy(students, state.Students)
	view.SortByRoll(students)

	var b strings.Builder
	b.WriteString("Roll No,Name,Grade,Phone,DOB,Enrollment Date,Monthly Fee\n")
	for _, st := range students {
		dob := st.DOB
		if dob == "" {
			dob = "N/A"
		}
		fmt.Fprintf(&b, "%d,%s,%s,%s,%s,%s,%s\n",
			st.RollNumber,
			csvField(st.Name),
			csvField(st.Grade),
			st.Phone,
			dob,
			st.EnrollmentDate,
			strconv.FormatFloat(st.MonthlyFee, 'f', -1, 64),
		)
	}
	return b.String(), nil
}

// csvField always quotes, doubling any embedded quotes.
func csvField(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
