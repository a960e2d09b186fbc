package view

import (
	"sort"
	"time"

	"github.com/scholarspoint/sphub-backend/internal/model"
)

// BirthdayWindows groups students by upcoming birthday relative to a
// reference date. Year of birth is ignored; students without a DOB never
// appear.
type BirthdayWindows struct {
	Today []model.Student `json:"today"`
	// Tomorrow follows the calendar, so Dec 31 rolls into Jan 1.
	Tomorrow []model.Student `json:"tomorrow"`
	// ThisMonth holds later-this-month birthdays (day strictly greater than
	// today's), sorted ascending by day.
	ThisMonth []model.Student `json:"thisMonth"`
}

// birthdayMonthDay extracts (month, day) from a YYYY-MM-DD DOB.
func birthdayMonthDay(dob string) (int, int, bool) {
	t, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return 0, 0, false
	}
	return int(t.Month()), t.Day(), true
}

// BuildBirthdayWindows computes the three windows for the given students
// (callers pass the active roster) against ref.
func BuildBirthdayWindows(students []model.Student, ref time.Time) BirthdayWindows {
	windows := BirthdayWindows{
		Today:     []model.Student{},
		Tomorrow:  []model.Student{},
		ThisMonth: []model.Student{},
	}

	next := ref.AddDate(0, 0, 1)

	for _, s := range students {
		if s.DOB == "" {
			continue
		}
		month, day, ok := birthdayMonthDay(s.DOB)
		if !ok {
			continue
		}

		switch {
		case month == int(ref.Month()) && day == ref.Day():
			windows.Today = append(windows.Today, s)
		case month == int(next.Month()) && day == next.Day():
			windows.Tomorrow = append(windows.Tomorrow, s)
		case month == int(ref.Month()) && day > ref.Day():
			windows.ThisMonth = append(windows.ThisMonth, s)
		}
	}

	sort.Slice(windows.ThisMonth, func(i, j int) bool {
		_, di, _ := birthdayMonthDay(windows.ThisMonth[i].DOB)
		_, dj, _ := birthdayMonthDay(windows.ThisMonth[j].DOB)
		return di < dj
	})

	return windows
}
