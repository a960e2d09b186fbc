// Package store owns the single authoritative in-memory application state:
// students, attendance records and fee records. All mutations go through it;
// registered listeners observe a snapshot after every successful mutation
// (persistence and websocket fan-out hang off that hook).
package store

import (
	"sync"

	"github.com/google/uuid"
	"github.com/scholarspoint/sphub-backend/internal/model"
)

// Listener receives a deep snapshot after each successful mutation.
type Listener func(snapshot *model.AppState)

// Store is the process-wide mutable state container. There is one logical
// writer (the signed-in operator), but gin serves concurrently, so access is
// serialized with a mutex.
type Store struct {
	mu        sync.RWMutex
	state     model.AppState
	listeners []Listener
}

// New creates an empty Store.
func New() *Store {
	s := &Store{}
	s.state.Normalize()
	return s
}

// Hydrate replaces the entire state without notifying listeners. Called once
// at startup with the gateway's loaded state.
func (s *Store) Hydrate(state *model.AppState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = *state.Clone()
	s.state.Normalize()
}

// Subscribe registers a post-mutation listener. Not safe to call after the
// store starts serving mutations.
func (s *Store) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *model.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// notify runs inside the write lock so listeners observe mutations in order,
// matching the one-writer, run-to-completion model of the original app.
func (s *Store) notify() {
	snap := s.state.Clone()
	for _, l := range s.listeners {
		l(snap)
	}
}

// AddStudent assigns the next roll number over the entire student set,
// archived included, forces archived=false, and appends. Returns the stored
// student. The resulting roll number is strictly greater than every roll
// number ever assigned.
func (s *Store) AddStudent(candidate model.Student) model.Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxRoll := 0
	for _, st := range s.state.Students {
		if st.RollNumber > maxRoll {
			maxRoll = st.RollNumber
		}
	}

	candidate.RollNumber = maxRoll + 1
	candidate.Archived = false
	if candidate.ID == "" {
		candidate.ID = uuid.New().String()
	}

	s.state.Students = append(s.state.Students, candidate)
	s.notify()
	return candidate
}

// UpdateStudent replaces the student with matching id. Every field except
// identity may change. Returns false (no-op) when the id is unknown.
func (s *Store) UpdateStudent(student model.Student) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, st := range s.state.Students {
		if st.ID == student.ID {
			s.state.Students[i] = student
			s.notify()
			return true
		}
	}
	return false
}

// ArchiveStudent soft-deletes by id. Attendance and fee history is untouched.
func (s *Store) ArchiveStudent(id string) bool {
	return s.setArchived(id, true)
}

// RestoreStudent clears the archived flag by id.
func (s *Store) RestoreStudent(id string) bool {
	return s.setArchived(id, false)
}

func (s *Store) setArchived(id string, archived bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, st := range s.state.Students {
		if st.ID == id {
			s.state.Students[i].Archived = archived
			s.notify()
			return true
		}
	}
	return false
}

// MarkAttendance upserts each record by its (date, studentId) composite key.
// Existing records with matching keys are replaced; everything else is left
// untouched. Serves both single-cell toggles and whole-class saves.
func (s *Store) MarkAttendance(records []model.AttendanceRecord) {
	if len(records) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := make(map[string]int, len(s.state.Attendance))
	for i, r := range s.state.Attendance {
		index[attendanceKey(r.Date, r.StudentID)] = i
	}

	for _, rec := range records {
		key := attendanceKey(rec.Date, rec.StudentID)
		if i, ok := index[key]; ok {
			s.state.Attendance[i] = rec
		} else {
			s.state.Attendance = append(s.state.Attendance, rec)
			index[key] = len(s.state.Attendance) - 1
		}
	}

	s.notify()
}

// UpsertFee removes any fee record sharing the new record's id, then appends
// it: replace-by-id. The id encodes the (studentId, month, year) period key,
// so at most one record exists per period.
func (s *Store) UpsertFee(record model.FeeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.state.Fees[:0]
	for _, f := range s.state.Fees {
		if f.ID != record.ID {
			filtered = append(filtered, f)
		}
	}
	s.state.Fees = append(filtered, record)
	s.notify()
}

// ImportState wholesale-replaces each collection present in data; nil fields
// leave the matching collection unchanged. This is the only operation that
// can shrink or reset a collection.
func (s *Store) ImportState(data *model.ImportData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data.Students != nil {
		s.state.Students = append([]model.Student{}, data.Students...)
	}
	if data.Attendance != nil {
		s.state.Attendance = append([]model.AttendanceRecord{}, data.Attendance...)
	}
	if data.Fees != nil {
		s.state.Fees = append([]model.FeeRecord{}, data.Fees...)
	}
	s.notify()
}

func attendanceKey(date, studentID string) string {
	return date + "|" + studentID
}
