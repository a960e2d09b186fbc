package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/scholarspoint/sphub-backend/internal/config"
	"github.com/scholarspoint/sphub-backend/internal/model"
	"github.com/scholarspoint/sphub-backend/internal/service"
	"github.com/scholarspoint/sphub-backend/internal/store"
	"github.com/scholarspoint/sphub-backend/internal/validator"
)

// nullGateway accepts every save; handler tests exercise HTTP behavior, not
// persistence.
type nullGateway struct{}

func (nullGateway) Load(ctx context.Context) (*model.AppState, error) {
	return &model.AppState{}, nil
}

func (nullGateway) Save(ctx context.Context, state *model.AppState) error {
	return nil
}

type testEnv struct {
	router *gin.Engine
	state  *service.StateService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Setup()

	cfg := &config.Config{
		CountryCode:      "91",
		ClassName:        "Scholars Point",
		AppVersion:       "2026.1.0",
		AdminAlertPhones: []string{"8454047703"},
	}

	stateService := service.NewStateService(store.New(), nullGateway{}, zerolog.Nop())
	whatsappService := service.NewWhatsAppService(cfg)
	exportService := service.NewExportService(cfg)

	students := NewStudentHandler(stateService)
	attendance := NewAttendanceHandler(stateService)
	fees := NewFeeHandler(stateService)
	backup := NewBackupHandler(stateService, exportService)
	messages := NewMessageHandler(stateService, whatsappService)

	r := gin.New()
	r.GET("/students", students.List)
	r.POST("/students", students.Create)
	r.PUT("/students/:id", students.Update)
	r.POST("/students/:id/archive", students.Archive)
	r.GET("/attendance/day", attendance.Day)
	r.POST("/attendance/mark", attendance.Mark)
	r.POST("/attendance/cycle", attendance.Cycle)
	r.POST("/fees/status", fees.SetStatus)
	r.POST("/backup/import", backup.Import)
	r.GET("/backup/roster.csv", backup.RosterCSV)
	r.POST("/messages/absence", messages.AbsenceAlert)

	return &testEnv{router: r, state: stateService}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return envelope.Data
}

func TestCreateStudentEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/students", gin.H{
		"name": "Aarav", "grade": "Grade 7", "monthlyFee": 600,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w)
	student := data["student"].(map[string]interface{})
	if student["rollNumber"].(float64) != 1 {
		t.Errorf("rollNumber = %v, want 1", student["rollNumber"])
	}
}

func TestCreateStudentValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/students", gin.H{"grade": "Grade 7"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var envelope struct {
		Error struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q", envelope.Error.Code)
	}
	if _, ok := envelope.Error.Fields["name"]; !ok {
		t.Errorf("fields = %v, want a name entry", envelope.Error.Fields)
	}
}

func TestAttendanceMarkAndDay(t *testing.T) {
	env := newTestEnv(t)

	created := decodeData(t, env.do(t, http.MethodPost, "/students", gin.H{
		"name": "Aarav", "grade": "Grade 7",
	}))
	id := created["student"].(map[string]interface{})["id"].(string)

	w := env.do(t, http.MethodPost, "/attendance/mark", gin.H{
		"records": []gin.H{{"date": "2026-03-02", "studentId": id, "status": "absent"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("mark status = %d, body %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/attendance/day?date=2026-03-02", nil)
	day := decodeData(t, w)
	if day["absentCount"].(float64) != 1 {
		t.Errorf("absentCount = %v, want 1", day["absentCount"])
	}

	// Bad date is rejected before any lookup.
	if w := env.do(t, http.MethodGet, "/attendance/day?date=02-03-2026", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", w.Code)
	}
}

func TestSetFeeStatusUnknownStudent(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/fees/status", gin.H{
		"studentId": "ghost", "month": 2, "year": 2026, "status": "paid",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestBackupImportRejectsInvalid(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/backup/import", bytes.NewReader([]byte(`{"fees": []}`)))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRosterCSVEmpty(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodGet, "/backup/roster.csv", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestAbsenceMessageLink(t *testing.T) {
	env := newTestEnv(t)

	created := decodeData(t, env.do(t, http.MethodPost, "/students", gin.H{
		"name": "Aarav", "grade": "Grade 7", "phone": "9876543210",
	}))
	id := created["student"].(map[string]interface{})["id"].(string)

	w := env.do(t, http.MethodPost, "/messages/absence", gin.H{
		"studentId": id, "date": "2026-03-02",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	link := decodeData(t, w)["link"].(string)
	if !strings.HasPrefix(link, "https://wa.me/919876543210") {
		t.Errorf("link = %q", link)
	}
}
