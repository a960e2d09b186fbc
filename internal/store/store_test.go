package store

import (
	"testing"

	"github.com/scholarspoint/sphub-backend/internal/model"
)

func TestAddStudentRollNumbersStrictlyIncrease(t *testing.T) {
	s := New()

	var rolls []int
	for i := 0; i < 5; i++ {
		st := s.AddStudent(model.Student{Name: "Student"})
		rolls = append(rolls, st.RollNumber)
	}

	for i, r := range rolls {
		if r != i+1 {
			t.Fatalf("roll %d = %d, want %d", i, r, i+1)
		}
	}
}

func TestAddStudentRollNumberCountsArchived(t *testing.T) {
	s := New()
	a := s.AddStudent(model.Student{Name: "A"})
	s.AddStudent(model.Student{Name: "B"})

	if !s.ArchiveStudent(a.ID) {
		t.Fatal("archive returned false for existing student")
	}

	c := s.AddStudent(model.Student{Name: "C"})
	if c.RollNumber != 3 {
		t.Fatalf("roll after archival = %d, want 3 (archived rolls are never reused)", c.RollNumber)
	}
}

func TestAddStudentForcesActive(t *testing.T) {
	s := New()
	st := s.AddStudent(model.Student{Name: "A", Archived: true, RollNumber: 99})
	if st.Archived {
		t.Error("new student stored as archived")
	}
	if st.RollNumber != 1 {
		t.Errorf("caller-supplied roll number honored: got %d, want 1", st.RollNumber)
	}
}

func TestArchivePreservesHistory(t *testing.T) {
	s := New()
	st := s.AddStudent(model.Student{Name: "A"})

	s.MarkAttendance([]model.AttendanceRecord{
		{Date: "2026-03-02", StudentID: st.ID, Status: model.StatusPresent},
	})
	s.UpsertFee(model.FeeRecord{
		ID: model.FeeRecordID(st.ID, 2, 2026), StudentID: st.ID,
		Month: 2, Year: 2026, Amount: 500, Status: model.FeePaid,
	})

	s.ArchiveStudent(st.ID)

	snap := s.Snapshot()
	if !snap.Students[0].Archived {
		t.Error("student not archived")
	}
	if len(snap.Attendance) != 1 || snap.Attendance[0].StudentID != st.ID {
		t.Error("attendance history lost after archival")
	}
	if len(snap.Fees) != 1 || snap.Fees[0].StudentID != st.ID {
		t.Error("fee history lost after archival")
	}
}

func TestUpdateStudentUnknownIDIsNoop(t *testing.T) {
	s := New()
	s.AddStudent(model.Student{Name: "A"})

	if s.UpdateStudent(model.Student{ID: "missing", Name: "X"}) {
		t.Error("update of unknown id reported success")
	}
	if got := s.Snapshot().Students[0].Name; got != "A" {
		t.Errorf("student mutated by missed update: %q", got)
	}
}

func TestMarkAttendanceUpsertsByCompositeKey(t *testing.T) {
	s := New()
	st := s.AddStudent(model.Student{Name: "A"})

	s.MarkAttendance([]model.AttendanceRecord{
		{Date: "2026-03-02", StudentID: st.ID, Status: model.StatusPresent},
	})
	s.MarkAttendance([]model.AttendanceRecord{
		{Date: "2026-03-02", StudentID: st.ID, Status: model.StatusLate},
	})

	snap := s.Snapshot()
	if len(snap.Attendance) != 1 {
		t.Fatalf("got %d records for one (date, student) key, want 1", len(snap.Attendance))
	}
	if snap.Attendance[0].Status != model.StatusLate {
		t.Errorf("status = %q, want latest (late)", snap.Attendance[0].Status)
	}
}

func TestMarkAttendanceLeavesOtherKeysUntouched(t *testing.T) {
	s := New()
	a := s.AddStudent(model.Student{Name: "A"})
	b := s.AddStudent(model.Student{Name: "B"})

	s.MarkAttendance([]model.AttendanceRecord{
		{Date: "2026-03-02", StudentID: a.ID, Status: model.StatusPresent},
		{Date: "2026-03-02", StudentID: b.ID, Status: model.StatusAbsent},
	})
	s.MarkAttendance([]model.AttendanceRecord{
		{Date: "2026-03-02", StudentID: a.ID, Status: model.StatusExcused},
	})

	snap := s.Snapshot()
	if len(snap.Attendance) != 2 {
		t.Fatalf("got %d records, want 2", len(snap.Attendance))
	}
	for _, r := range snap.Attendance {
		switch r.StudentID {
		case a.ID:
			if r.Status != model.StatusExcused {
				t.Errorf("student A status = %q, want excused", r.Status)
			}
		case b.ID:
			if r.Status != model.StatusAbsent {
				t.Errorf("student B status = %q, want absent (untouched)", r.Status)
			}
		}
	}
}

func TestUpsertFeeReplacesByID(t *testing.T) {
	s := New()
	st := s.AddStudent(model.Student{Name: "A"})
	id := model.FeeRecordID(st.ID, 2, 2026)

	s.UpsertFee(model.FeeRecord{ID: id, StudentID: st.ID, Month: 2, Year: 2026, Amount: 500, Status: model.FeePending})
	s.UpsertFee(model.FeeRecord{ID: id, StudentID: st.ID, Month: 2, Year: 2026, Amount: 500, Status: model.FeePaid, PaymentDate: "2026-03-05"})

	snap := s.Snapshot()
	if len(snap.Fees) != 1 {
		t.Fatalf("got %d fee records for one id, want 1", len(snap.Fees))
	}
	if snap.Fees[0].Status != model.FeePaid {
		t.Errorf("status = %q, want final (paid)", snap.Fees[0].Status)
	}
}

func TestImportStateRoundTrip(t *testing.T) {
	s := New()
	a := s.AddStudent(model.Student{Name: "A", MonthlyFee: 700})
	s.MarkAttendance([]model.AttendanceRecord{
		{Date: "2026-03-02", StudentID: a.ID, Status: model.StatusPresent},
	})
	s.UpsertFee(model.FeeRecord{ID: model.FeeRecordID(a.ID, 2, 2026), StudentID: a.ID, Month: 2, Year: 2026, Amount: 700, Status: model.FeePaid})

	exported := s.Snapshot()

	other := New()
	other.ImportState(&model.ImportData{
		Students:   exported.Students,
		Attendance: exported.Attendance,
		Fees:       exported.Fees,
	})

	got := other.Snapshot()
	if len(got.Students) != 1 || got.Students[0] != exported.Students[0] {
		t.Error("students did not round-trip")
	}
	if len(got.Attendance) != 1 || got.Attendance[0] != exported.Attendance[0] {
		t.Error("attendance did not round-trip")
	}
	if len(got.Fees) != 1 || got.Fees[0] != exported.Fees[0] {
		t.Error("fees did not round-trip")
	}
}

func TestImportStatePartial(t *testing.T) {
	s := New()
	st := s.AddStudent(model.Student{Name: "A"})
	s.MarkAttendance([]model.AttendanceRecord{
		{Date: "2026-03-02", StudentID: st.ID, Status: model.StatusPresent},
	})

	// Only students present: attendance must be untouched.
	s.ImportState(&model.ImportData{Students: []model.Student{}})

	snap := s.Snapshot()
	if len(snap.Students) != 0 {
		t.Errorf("students = %d, want 0 (replaced by empty array)", len(snap.Students))
	}
	if len(snap.Attendance) != 1 {
		t.Errorf("attendance = %d, want 1 (absent field leaves collection alone)", len(snap.Attendance))
	}
}

func TestListenersObserveEveryMutation(t *testing.T) {
	s := New()

	var calls int
	var lastCount int
	s.Subscribe(func(snap *model.AppState) {
		calls++
		lastCount = len(snap.Students)
	})

	s.AddStudent(model.Student{Name: "A"})
	s.AddStudent(model.Student{Name: "B"})

	if calls != 2 {
		t.Errorf("listener called %d times, want 2", calls)
	}
	if lastCount != 2 {
		t.Errorf("listener saw %d students, want 2", lastCount)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := New()
	s.AddStudent(model.Student{Name: "A"})

	snap := s.Snapshot()
	snap.Students[0].Name = "mutated"

	if got := s.Snapshot().Students[0].Name; got != "A" {
		t.Errorf("store state mutated through snapshot: %q", got)
	}
}
