package model

// AttendanceStatus is the per-day marking for one student.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusExcused AttendanceStatus = "excused"
	StatusHoliday AttendanceStatus = "holiday"
)

// ValidStatus reports whether s is one of the five recognized statuses.
func ValidStatus(s AttendanceStatus) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused, StatusHoliday:
		return true
	}
	return false
}

// AttendanceRecord is one row per (date, studentId). The composite key is
// unique: upserting an existing key replaces the prior record.
type AttendanceRecord struct {
	Date      string           `json:"date"` // YYYY-MM-DD
	StudentID string           `json:"studentId"`
	Status    AttendanceStatus `json:"status"`
	Note      string           `json:"note,omitempty"`
}

// MarkAttendanceRequest carries one or more records to upsert. The same
// payload serves single-cell toggles and whole-class daily saves.
type MarkAttendanceRequest struct {
	Records []AttendanceRecordInput `json:"records" binding:"required,min=1,dive"`
}

// AttendanceRecordInput is a single record in a mark request.
type AttendanceRecordInput struct {
	Date      string           `json:"date" binding:"required,datetime=2006-01-02"`
	StudentID string           `json:"studentId" binding:"required"`
	Status    AttendanceStatus `json:"status" binding:"required,oneof=present absent late excused holiday"`
	Note      string           `json:"note"`
}

// CycleAttendanceRequest advances a single cell through the fixed status
// cycle; an unmarked cell's first advance lands on present.
type CycleAttendanceRequest struct {
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	StudentID string `json:"studentId" binding:"required"`
}

// HolidayRequest marks every active student as holiday on one date.
type HolidayRequest struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
}
