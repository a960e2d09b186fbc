package model

// AppState is the full application state: the exact shape persisted under the
// single durable storage key.
type AppState struct {
	Students   []Student          `json:"students"`
	Attendance []AttendanceRecord `json:"attendance"`
	Fees       []FeeRecord        `json:"fees"`
}

// Normalize repairs entity-level defaults on freshly decoded state: missing
// collections become empty slices so downstream code never sees nil.
// Roll-number migration is the storage gateway's job, not this one.
func (s *AppState) Normalize() {
	if s.Students == nil {
		s.Students = []Student{}
	}
	if s.Attendance == nil {
		s.Attendance = []AttendanceRecord{}
	}
	if s.Fees == nil {
		s.Fees = []FeeRecord{}
	}
}

// Clone returns a deep copy of the state.
func (s *AppState) Clone() *AppState {
	out := &AppState{
		Students:   make([]Student, len(s.Students)),
		Attendance: make([]AttendanceRecord, len(s.Attendance)),
		Fees:       make([]FeeRecord, len(s.Fees)),
	}
	copy(out.Students, s.Students)
	copy(out.Attendance, s.Attendance)
	copy(out.Fees, s.Fees)
	return out
}

// Backup is the downloadable superset of AppState. It must remain importable
// through the restore path.
type Backup struct {
	Students   []Student          `json:"students"`
	Attendance []AttendanceRecord `json:"attendance"`
	Fees       []FeeRecord        `json:"fees"`
	BackupDate string             `json:"backupDate"`
	AppVersion string             `json:"appVersion"`
	ClassName  string             `json:"className"`
}

// ImportData is the partial-collections payload accepted by the restore path.
// Each field is optional and independently applied; nil leaves the matching
// collection untouched.
type ImportData struct {
	Students   []Student          `json:"students"`
	Attendance []AttendanceRecord `json:"attendance"`
	Fees       []FeeRecord        `json:"fees"`
}
