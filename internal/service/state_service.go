package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/scholarspoint/sphub-backend/internal/model"
	"github.com/scholarspoint/sphub-backend/internal/storage"
	"github.com/scholarspoint/sphub-backend/internal/store"
	"github.com/scholarspoint/sphub-backend/internal/view"
)

// ErrStudentNotFound is returned when a mutate-by-id misses. Most callers
// treat it as a no-op rather than a failure, per the best-effort model.
var ErrStudentNotFound = errors.New("student not found")

const saveTimeout = 5 * time.Second

// StateService wires the store to the persistence gateway: every mutation is
// followed by a full snapshot save through a post-mutation listener. A failed
// save is surfaced to the caller while the in-memory state stays authoritative
// for the session.
type StateService struct {
	store   *store.Store
	gateway storage.Gateway
	log     zerolog.Logger

	// Guarded by the store's mutation lock in practice (listeners run under
	// it and there is one logical writer); the mutex covers direct reads.
	mu          sync.Mutex
	lastSaveErr error
}

// NewStateService creates the service and registers its persistence listener.
func NewStateService(st *store.Store, gw storage.Gateway, log zerolog.Logger) *StateService {
	s := &StateService{
		store:   st,
		gateway: gw,
		log:     log.With().Str("component", "state_service").Logger(),
	}
	st.Subscribe(s.persist)
	return s
}

// Hydrate loads the stored state into the store. Called once at startup;
// the gateway already degrades unreadable data to an empty state.
func (s *StateService) Hydrate(ctx context.Context) error {
	state, err := s.gateway.Load(ctx)
	if err != nil {
		return err
	}
	s.store.Hydrate(state)
	s.log.Info().
		Int("students", len(state.Students)).
		Int("attendance", len(state.Attendance)).
		Int("fees", len(state.Fees)).
		Msg("State hydrated")
	return nil
}

// persist is the post-mutation hook. The listener runs synchronously inside
// the mutation, so the recorded error belongs to the mutation just applied.
func (s *StateService) persist(snapshot *model.AppState) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	err := s.gateway.Save(ctx, snapshot)
	if err != nil {
		s.log.Error().Err(err).Msg("Snapshot save failed, state kept in memory")
	}

	s.mu.Lock()
	s.lastSaveErr = err
	s.mu.Unlock()
}

// saveErr returns the outcome of the persistence hook for the mutation that
// just completed.
func (s *StateService) saveErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaveErr
}

// Snapshot returns a deep copy of the current state.
func (s *StateService) Snapshot() *model.AppState {
	return s.store.Snapshot()
}

// Store exposes the underlying store for additional listeners (websocket
// fan-out, backup worker).
func (s *StateService) Store() *store.Store {
	return s.store
}

// AddStudent enrolls a student from the request payload. Enrollment date
// defaults to today and the roll number is assigned by the store.
func (s *StateService) AddStudent(req *model.CreateStudentRequest) (model.Student, error) {
	enrollment := req.EnrollmentDate
	if enrollment == "" {
		enrollment = view.DateString(time.Now())
	}
	feeDay := req.FeeDay
	if feeDay == 0 {
		feeDay = 1
	}

	added := s.store.AddStudent(model.Student{
		Name:           req.Name,
		Grade:          req.Grade,
		Phone:          req.Phone,
		DOB:            req.DOB,
		EnrollmentDate: enrollment,
		MonthlyFee:     req.MonthlyFee,
		FeeDay:         feeDay,
		Photo:          req.Photo,
	})
	return added, s.saveErr()
}

// UpdateStudent replaces the student with the given id.
func (s *StateService) UpdateStudent(id string, req *model.UpdateStudentRequest) (model.Student, error) {
	existing, ok := findStudent(s.store.Snapshot().Students, id)
	if !ok {
		return model.Student{}, ErrStudentNotFound
	}

	roll := req.RollNumber
	if roll == 0 {
		roll = existing.RollNumber
	}
	enrollment := req.EnrollmentDate
	if enrollment == "" {
		enrollment = existing.EnrollmentDate
	}

	updated := model.Student{
		ID:             id,
		RollNumber:     roll,
		Name:           req.Name,
		Grade:          req.Grade,
		Phone:          req.Phone,
		DOB:            req.DOB,
		EnrollmentDate: enrollment,
		MonthlyFee:     req.MonthlyFee,
		FeeDay:         req.FeeDay,
		Archived:       req.Archived,
		Photo:          req.Photo,
	}
	if updated.FeeDay == 0 {
		updated.FeeDay = existing.FeeDay
	}

	if !s.store.UpdateStudent(updated) {
		return model.Student{}, ErrStudentNotFound
	}
	return updated, s.saveErr()
}

// ArchiveStudent soft-deletes by id; history stays intact.
func (s *StateService) ArchiveStudent(id string) error {
	if !s.store.ArchiveStudent(id) {
		return ErrStudentNotFound
	}
	return s.saveErr()
}

// RestoreStudent reverses an archival.
func (s *StateService) RestoreStudent(id string) error {
	if !s.store.RestoreStudent(id) {
		return ErrStudentNotFound
	}
	return s.saveErr()
}

// MarkAttendance upserts the given records by (date, studentId).
func (s *StateService) MarkAttendance(inputs []model.AttendanceRecordInput) error {
	records := make([]model.AttendanceRecord, 0, len(inputs))
	for _, in := range inputs {
		records = append(records, model.AttendanceRecord{
			Date:      in.Date,
			StudentID: in.StudentID,
			Status:    in.Status,
			Note:      in.Note,
		})
	}
	s.store.MarkAttendance(records)
	return s.saveErr()
}

// CycleAttendance advances one cell through the fixed status cycle and
// returns the record written.
func (s *StateService) CycleAttendance(date, studentID string) (model.AttendanceRecord, error) {
	existing, marked := view.FindRecord(s.store.Snapshot(), date, studentID)

	record := model.AttendanceRecord{
		Date:      date,
		StudentID: studentID,
		Status:    view.NextStatus(existing.Status, marked),
	}
	s.store.MarkAttendance([]model.AttendanceRecord{record})
	return record, s.saveErr()
}

// MarkHoliday marks every active student as holiday on the given date,
// returning how many records were written.
func (s *StateService) MarkHoliday(date string) (int, error) {
	active := view.ActiveRoster(s.store.Snapshot().Students)
	records := make([]model.AttendanceRecord, 0, len(active))
	for _, st := range active {
		records = append(records, model.AttendanceRecord{
			Date:      date,
			StudentID: st.ID,
			Status:    model.StatusHoliday,
		})
	}
	s.store.MarkAttendance(records)
	return len(records), s.saveErr()
}

// SetFeeStatus upserts the fee record for a (student, month, year) period.
// The amount is copied from the student's monthlyFee; paymentDate is set only
// on a paid transition.
func (s *StateService) SetFeeStatus(req *model.SetFeeStatusRequest) (model.FeeRecord, error) {
	student, ok := findStudent(s.store.Snapshot().Students, req.StudentID)
	if !ok {
		return model.FeeRecord{}, ErrStudentNotFound
	}

	record := model.FeeRecord{
		ID:        model.FeeRecordID(req.StudentID, req.Month, req.Year),
		StudentID: req.StudentID,
		Month:     req.Month,
		Year:      req.Year,
		Amount:    student.MonthlyFee,
		Status:    req.Status,
	}
	if req.Status == model.FeePaid {
		record.PaymentDate = view.DateString(time.Now())
	}

	s.store.UpsertFee(record)
	return record, s.saveErr()
}

// Import wholesale-replaces the collections present in data.
func (s *StateService) Import(data *model.ImportData) error {
	s.store.ImportState(data)
	return s.saveErr()
}

func findStudent(students []model.Student, id string) (model.Student, bool) {
	for _, st := range students {
		if st.ID == id {
			return st, true
		}
	}
	return model.Student{}, false
}
