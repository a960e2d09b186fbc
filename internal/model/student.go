package model

// Student represents one enrolled person at the center.
//
// JSON field names match the legacy browser-app storage format so that old
// backups restore without translation.
type Student struct {
	ID string `json:"id"`
	// RollNumber is assigned append-only at creation: one plus the maximum
	// roll number ever assigned, across active AND archived students.
	RollNumber int    `json:"rollNumber"`
	Name       string `json:"name"`
	Grade      string `json:"grade"`
	Phone      string `json:"phone"`
	// DOB is an optional YYYY-MM-DD date. Students without one are excluded
	// from all birthday computations.
	DOB            string  `json:"dob,omitempty"`
	EnrollmentDate string  `json:"enrollmentDate"`
	MonthlyFee     float64 `json:"monthlyFee"`
	// FeeDay is the informational due day of the month (1-31), not enforced.
	FeeDay int `json:"feeDay"`
	// Archived is a soft delete: the student leaves active rosters but all
	// attendance and fee history stays.
	Archived bool `json:"archived"`
	// Photo is an opaque base64 image string, uninterpreted by the core.
	Photo string `json:"photo,omitempty"`
}

// CreateStudentRequest is the payload for enrolling a new student.
// Roll number and archived state are assigned by the store, never the caller.
type CreateStudentRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=100"`
	Grade          string  `json:"grade" binding:"required,max=40"`
	Phone          string  `json:"phone" binding:"max=20"`
	DOB            string  `json:"dob" binding:"omitempty,datetime=2006-01-02"`
	EnrollmentDate string  `json:"enrollmentDate" binding:"omitempty,datetime=2006-01-02"`
	MonthlyFee     float64 `json:"monthlyFee" binding:"min=0"`
	FeeDay         int     `json:"feeDay" binding:"omitempty,min=1,max=31"`
	Photo          string  `json:"photo"`
}

// UpdateStudentRequest is the payload for editing an existing student.
// Everything except identity may change, roll number included.
type UpdateStudentRequest struct {
	RollNumber     int     `json:"rollNumber" binding:"omitempty,min=1"`
	Name           string  `json:"name" binding:"required,min=1,max=100"`
	Grade          string  `json:"grade" binding:"required,max=40"`
	Phone          string  `json:"phone" binding:"max=20"`
	DOB            string  `json:"dob" binding:"omitempty,datetime=2006-01-02"`
	EnrollmentDate string  `json:"enrollmentDate" binding:"omitempty,datetime=2006-01-02"`
	MonthlyFee     float64 `json:"monthlyFee" binding:"min=0"`
	FeeDay         int     `json:"feeDay" binding:"omitempty,min=1,max=31"`
	Archived       bool    `json:"archived"`
	Photo          string  `json:"photo"`
}
