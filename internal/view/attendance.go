package view

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/scholarspoint/sphub-backend/internal/model"
)

// DateString formats a time as the YYYY-MM-DD strings attendance records use.
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}

// DaySplit is the dashboard's partition of one day's attendance.
type DaySplit struct {
	Date         string `json:"date"`
	PresentCount int    `json:"presentCount"`
	AbsentCount  int    `json:"absentCount"`
	// AbsentStudents joins active students against the day's absent records.
	AbsentStudents []model.Student                   `json:"absentStudents"`
	Statuses       map[string]model.AttendanceStatus `json:"statuses"`
}

// SplitDay tallies present and absent records for one date and lists the
// active students marked absent. Statuses maps studentId to that day's mark.
func SplitDay(state *model.AppState, date string) DaySplit {
	split := DaySplit{
		Date:           date,
		AbsentStudents: []model.Student{},
		Statuses:       map[string]model.AttendanceStatus{},
	}

	absent := map[string]bool{}
	for _, r := range state.Attendance {
		if r.Date != date {
			continue
		}
		split.Statuses[r.StudentID] = r.Status
		switch r.Status {
		case model.StatusPresent:
			split.PresentCount++
		case model.StatusAbsent:
			split.AbsentCount++
			absent[r.StudentID] = true
		}
	}

	for _, s := range ActiveRoster(state.Students) {
		if absent[s.ID] {
			split.AbsentStudents = append(split.AbsentStudents, s)
		}
	}
	return split
}

// MonthlyScore is one student's attendance summary for a month.
type MonthlyScore struct {
	StudentID string `json:"studentId"`
	Marked    int    `json:"marked"`
	Present   int    `json:"present"`
	Late      int    `json:"late"`
	// Percent weighs late as half credit: round((present + 0.5*late) /
	// marked * 100). Holiday and excused days count toward marked with zero
	// credit. Zero when nothing is marked.
	Percent int `json:"percent"`
}

// MonthlyReport is the month matrix plus per-student scores.
type MonthlyReport struct {
	Month int `json:"month"` // 0-11
	Year  int `json:"year"`
	Days  int `json:"days"`
	// Cells maps studentId to day-of-month to status; unmarked days are
	// absent from the inner map.
	Cells  map[string]map[int]model.AttendanceStatus `json:"cells"`
	Scores []MonthlyScore                            `json:"scores"`
}

// monthPrefix returns the "YYYY-MM-" prefix for records in (month0, year).
func monthPrefix(month0, year int) string {
	return fmt.Sprintf("%04d-%02d-", year, month0+1)
}

// BuildMonthlyReport computes the attendance matrix and scores for active
// students in the given 0-based month.
func BuildMonthlyReport(state *model.AppState, month0, year int) MonthlyReport {
	report := MonthlyReport{
		Month:  month0,
		Year:   year,
		Days:   daysInMonth(month0, year),
		Cells:  map[string]map[int]model.AttendanceStatus{},
		Scores: []MonthlyScore{},
	}

	prefix := monthPrefix(month0, year)
	active := ActiveRoster(state.Students)
	SortByRoll(active)

	perStudent := map[string][]model.AttendanceRecord{}
	for _, r := range state.Attendance {
		if strings.HasPrefix(r.Date, prefix) {
			perStudent[r.StudentID] = append(perStudent[r.StudentID], r)
		}
	}

	for _, s := range active {
		records := perStudent[s.ID]
		cells := map[int]model.AttendanceStatus{}
		score := MonthlyScore{StudentID: s.ID, Marked: len(records)}

		for _, r := range records {
			var day int
			if _, err := fmt.Sscanf(r.Date[len(prefix):], "%d", &day); err == nil {
				cells[day] = r.Status
			}
			switch r.Status {
			case model.StatusPresent:
				score.Present++
			case model.StatusLate:
				score.Late++
			}
		}

		score.Percent = MonthlyPercent(score.Present, score.Late, score.Marked)
		report.Cells[s.ID] = cells
		report.Scores = append(report.Scores, score)
	}

	return report
}

// MonthlyPercent applies the fixed late-is-half-credit weighting.
func MonthlyPercent(present, late, marked int) int {
	if marked == 0 {
		return 0
	}
	return int(math.Round((float64(present) + 0.5*float64(late)) / float64(marked) * 100))
}

// NextStatus advances a cell through the fixed cycle
// present -> absent -> late -> excused -> holiday -> present.
// An unmarked cell's first advance yields present.
func NextStatus(current model.AttendanceStatus, marked bool) model.AttendanceStatus {
	if !marked {
		return model.StatusPresent
	}
	switch current {
	case model.StatusPresent:
		return model.StatusAbsent
	case model.StatusAbsent:
		return model.StatusLate
	case model.StatusLate:
		return model.StatusExcused
	case model.StatusExcused:
		return model.StatusHoliday
	default:
		return model.StatusPresent
	}
}

// FindRecord looks up the record for an attendance key, if any.
func FindRecord(state *model.AppState, date, studentID string) (model.AttendanceRecord, bool) {
	for _, r := range state.Attendance {
		if r.Date == date && r.StudentID == studentID {
			return r, true
		}
	}
	return model.AttendanceRecord{}, false
}

func daysInMonth(month0, year int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month0+2), 0, 0, 0, 0, 0, time.UTC).Day()
}
