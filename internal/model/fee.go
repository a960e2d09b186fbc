package model

import "fmt"

// PaymentStatus is the collection state of one student's month.
type PaymentStatus string

const (
	FeePaid    PaymentStatus = "paid"
	FeeUnpaid  PaymentStatus = "unpaid"
	FeePending PaymentStatus = "pending"
)

// FeeRecord is one row per (studentId, month, year). The id is derived from
// that logical key but treated as opaque everywhere else. Absence of a record
// is equivalent to unpaid.
type FeeRecord struct {
	ID        string        `json:"id"`
	StudentID string        `json:"studentId"`
	Month     int           `json:"month"` // 0-11
	Year      int           `json:"year"`
	Amount    float64       `json:"amount"`
	Status    PaymentStatus `json:"status"`
	// PaymentDate is set only when the status transitions to paid.
	PaymentDate string `json:"paymentDate,omitempty"`
}

// FeeRecordID derives the conventional fee record id for a period key.
// The id must stay consistent with (studentId, month, year) for lookups.
func FeeRecordID(studentID string, month, year int) string {
	return fmt.Sprintf("%s-%d-%d", studentID, month, year)
}

// SetFeeStatusRequest moves one student's (month, year) record to a status.
type SetFeeStatusRequest struct {
	StudentID string        `json:"studentId" binding:"required"`
	Month     int           `json:"month" binding:"min=0,max=11"`
	Year      int           `json:"year" binding:"required,min=2000,max=2100"`
	Status    PaymentStatus `json:"status" binding:"required,oneof=paid unpaid pending"`
}
