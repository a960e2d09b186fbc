// Package view holds the derived computations over a state snapshot: pure,
// deterministic functions of (snapshot, reference date) with no side effects.
// Every view recomputes from scratch; nothing here caches.
package view

import (
	"sort"

	"github.com/scholarspoint/sphub-backend/internal/model"
)

// ActiveRoster returns non-archived students. All per-day and per-month views
// operate on this set; only the directory shows archived students too.
func ActiveRoster(students []model.Student) []model.Student {
	active := make([]model.Student, 0, len(students))
	for _, s := range students {
		if !s.Archived {
			active = append(active, s)
		}
	}
	return active
}

// Directory partitions the full student set for the directory view.
type Directory struct {
	Active   []model.Student `json:"active"`
	Archived []model.Student `json:"archived"`
}

// PartitionDirectory splits students into active and archived groups.
func PartitionDirectory(students []model.Student) Directory {
	dir := Directory{
		Active:   []model.Student{},
		Archived: []model.Student{},
	}
	for _, s := range students {
		if s.Archived {
			dir.Archived = append(dir.Archived, s)
		} else {
			dir.Active = append(dir.Active, s)
		}
	}
	return dir
}

// SortByRoll orders students by roll number ascending, in place.
func SortByRoll(students []model.Student) {
	sort.Slice(students, func(i, j int) bool {
		return students[i].RollNumber < students[j].RollNumber
	})
}

// BroadcastContacts returns the phone numbers of active students that have
// one, for the bulk-notice contact list.
func BroadcastContacts(students []model.Student) []string {
	phones := make([]string, 0, len(students))
	for _, s := range students {
		if !s.Archived && s.Phone != "" {
			phones = append(phones, s.Phone)
		}
	}
	return phones
}
