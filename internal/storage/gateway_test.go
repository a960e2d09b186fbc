package storage

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/scholarspoint/sphub-backend/internal/model"
)

func TestDecodeStateLegacyRollNumbers(t *testing.T) {
	// Data written before the roll-number feature: no rollNumber, no archived.
	raw := []byte(`{
		"students": [
			{"id": "a", "name": "First"},
			{"id": "b", "name": "Second"},
			{"id": "c", "name": "Third"}
		],
		"attendance": [],
		"fees": []
	}`)

	state := decodeState(raw, zerolog.Nop())

	for i, st := range state.Students {
		if st.RollNumber != i+1 {
			t.Errorf("student %d roll = %d, want %d (array order)", i, st.RollNumber, i+1)
		}
		if st.Archived {
			t.Errorf("student %d archived, want false default", i)
		}
	}
}

func TestDecodeStateMixedRollNumbers(t *testing.T) {
	// One explicit roll number among legacy entries: later assignments must
	// stay above it.
	raw := []byte(`{
		"students": [
			{"id": "a", "name": "Legacy"},
			{"id": "b", "name": "Explicit", "rollNumber": 7},
			{"id": "c", "name": "Legacy2"}
		]
	}`)

	state := decodeState(raw, zerolog.Nop())

	if got := state.Students[0].RollNumber; got != 1 {
		t.Errorf("first legacy roll = %d, want 1", got)
	}
	if got := state.Students[1].RollNumber; got != 7 {
		t.Errorf("explicit roll = %d, want 7 (kept)", got)
	}
	if got := state.Students[2].RollNumber; got != 8 {
		t.Errorf("roll after explicit 7 = %d, want 8", got)
	}
}

func TestDecodeStateMalformedYieldsEmpty(t *testing.T) {
	state := decodeState([]byte(`{not json`), zerolog.Nop())

	if state == nil {
		t.Fatal("nil state for malformed payload")
	}
	if len(state.Students) != 0 || len(state.Attendance) != 0 || len(state.Fees) != 0 {
		t.Error("malformed payload produced non-empty state")
	}
}

func TestDecodeStateMissingCollections(t *testing.T) {
	state := decodeState([]byte(`{"students": []}`), zerolog.Nop())

	if state.Attendance == nil || state.Fees == nil {
		t.Error("missing collections not normalized to empty slices")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	orig := &model.AppState{
		Students: []model.Student{{
			ID: "a", RollNumber: 1, Name: "Asha", Grade: "10th",
			Phone: "9876543210", DOB: "2010-05-04", EnrollmentDate: "2026-01-10",
			MonthlyFee: 800, FeeDay: 5,
		}},
		Attendance: []model.AttendanceRecord{
			{Date: "2026-03-02", StudentID: "a", Status: model.StatusLate, Note: "bus"},
		},
		Fees: []model.FeeRecord{
			{ID: "a-2-2026", StudentID: "a", Month: 2, Year: 2026, Amount: 800, Status: model.FeePaid, PaymentDate: "2026-03-05"},
		},
	}

	raw, err := encodeState(orig)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got := decodeState(raw, zerolog.Nop())
	if got.Students[0] != orig.Students[0] {
		t.Errorf("student round-trip mismatch: %+v", got.Students[0])
	}
	if got.Attendance[0] != orig.Attendance[0] {
		t.Errorf("attendance round-trip mismatch: %+v", got.Attendance[0])
	}
	if got.Fees[0] != orig.Fees[0] {
		t.Errorf("fee round-trip mismatch: %+v", got.Fees[0])
	}
}

func TestStoredShapeFieldNames(t *testing.T) {
	// The durable format must keep the legacy JSON field names.
	raw, err := encodeState(&model.AppState{
		Students: []model.Student{{ID: "a", RollNumber: 1, Name: "Asha", EnrollmentDate: "2026-01-10", MonthlyFee: 800}},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"students", "attendance", "fees"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("stored document missing %q", key)
		}
	}

	var students []map[string]json.RawMessage
	if err := json.Unmarshal(doc["students"], &students); err != nil {
		t.Fatalf("unmarshal students: %v", err)
	}
	for _, key := range []string{"rollNumber", "enrollmentDate", "monthlyFee", "archived"} {
		if _, ok := students[0][key]; !ok {
			t.Errorf("student document missing legacy field %q", key)
		}
	}
}
