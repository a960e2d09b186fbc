package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/scholarspoint/sphub-backend/internal/config"
	"github.com/scholarspoint/sphub-backend/internal/model"
)

func exportService() *ExportService {
	return NewExportService(&config.Config{
		AppVersion: "2026.1.0",
		ClassName:  "Scholars Point",
	})
}

func TestBuildBackupEnvelope(t *testing.T) {
	s := exportService()
	state := &model.AppState{
		Students: []model.Student{{ID: "a", Name: "Aarav"}},
	}

	backup := s.BuildBackup(state)
	if backup.AppVersion != "2026.1.0" || backup.ClassName != "Scholars Point" {
		t.Errorf("envelope = %s/%s", backup.AppVersion, backup.ClassName)
	}
	if backup.BackupDate == "" {
		t.Error("backup date not set")
	}
	if len(backup.Students) != 1 {
		t.Errorf("students = %d, want 1", len(backup.Students))
	}
}

func TestParseBackupRequiresStudents(t *testing.T) {
	s := exportService()

	for _, raw := range []string{
		`{"attendance": []}`,
		`{"students": null}`,
		`not json at all`,
		`{"students": "oops"}`,
	} {
		if _, err := s.ParseBackup([]byte(raw)); !errors.Is(err, ErrInvalidBackup) {
			t.Errorf("ParseBackup(%q) err = %v, want ErrInvalidBackup", raw, err)
		}
	}
}

func TestParseBackupPartialCollections(t *testing.T) {
	s := exportService()

	data, err := s.ParseBackup([]byte(`{"students": [{"id": "a", "name": "Aarav"}]}`))
	if err != nil {
		t.Fatalf("ParseBackup: %v", err)
	}
	if len(data.Students) != 1 {
		t.Errorf("students = %d, want 1", len(data.Students))
	}
	// Absent collections stay nil so the import leaves them untouched.
	if data.Attendance != nil || data.Fees != nil {
		t.Error("absent collections should decode as nil")
	}
}

func TestRosterCSV(t *testing.T) {
	s := exportService()
	state := &model.AppState{
		Students: []model.Student{
			{ID: "b", RollNumber: 2, Name: `Riya "RJ" Patel`, Grade: "Grade 7", Phone: "9876500000", EnrollmentDate: "2026-01-15", MonthlyFee: 700},
			{ID: "a", RollNumber: 1, Name: "Aarav, Jr.", Grade: "Grade 7", Phone: "9876543210", DOB: "2014-05-02", EnrollmentDate: "2026-01-10", MonthlyFee: 600},
			{ID: "c", RollNumber: 3, Name: "Archived Kid", Archived: true},
		},
	}

	csv, err := s.RosterCSV(state)
	if err != nil {
		t.Fatalf("RosterCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header + 3 rows (archived included)", len(lines))
	}
	if lines[0] != "Roll No,Name,Grade,Phone,DOB,Enrollment Date,Monthly Fee" {
		t.Errorf("header = %q", lines[0])
	}
	// Sorted by roll, quotes doubled, missing DOB rendered as N/A.
	if lines[1] != `1,"Aarav, Jr.","Grade 7",9876543210,2014-05-02,2026-01-10,600` {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != `2,"Riya ""RJ"" Patel","Grade 7",9876500000,N/A,2026-01-15,700` {
		t.Errorf("row 2 = %q", lines[2])
	}
	if lines[3] != `3,"Archived Kid","",,N/A,,0` {
		t.Errorf("row 3 = %q", lines[3])
	}
}

func TestRosterCSVEmptyRoster(t *testing.T) {
	s := exportService()

	if _, err := s.RosterCSV(&model.AppState{}); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("err = %v, want ErrNothingToExport", err)
	}
}
