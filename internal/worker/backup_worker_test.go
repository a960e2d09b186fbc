package worker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/scholarspoint/sphub-backend/internal/config"
	"github.com/scholarspoint/sphub-backend/internal/model"
	"github.com/scholarspoint/sphub-backend/internal/service"
	"github.com/scholarspoint/sphub-backend/internal/store"
)

type noopGateway struct{}

func (noopGateway) Load(ctx context.Context) (*model.AppState, error) {
	return &model.AppState{}, nil
}

func (noopGateway) Save(ctx context.Context, state *model.AppState) error {
	return nil
}

func testWorker(t *testing.T, keep int) (*BackupWorker, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		AppVersion:     "2026.1.0",
		ClassName:      "Scholars Point",
		BackupDir:      dir,
		BackupInterval: time.Hour,
		BackupKeep:     keep,
	}

	stateService := service.NewStateService(store.New(), noopGateway{}, zerolog.Nop())
	_, err := stateService.AddStudent(&model.CreateStudentRequest{Name: "Aarav", Grade: "Grade 7"})
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}

	return NewBackupWorker(stateService, service.NewExportService(cfg), cfg, zerolog.Nop()), dir
}

func TestWriteBackup(t *testing.T) {
	w, dir := testWorker(t, 5)

	if err := w.writeBackup(); err != nil {
		t.Fatalf("writeBackup: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("files = %d, want 1", len(entries))
	}

	raw, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	var backup model.Backup
	if err := json.Unmarshal(raw, &backup); err != nil {
		t.Fatalf("decode backup: %v", err)
	}
	if len(backup.Students) != 1 || backup.AppVersion != "2026.1.0" {
		t.Errorf("backup = %d students, version %q", len(backup.Students), backup.AppVersion)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	w, dir := testWorker(t, 2)

	names := []string{
		"auto-backup-2026-03-01-120000.json",
		"auto-backup-2026-03-02-120000.json",
		"auto-backup-2026-03-03-120000.json",
		"auto-backup-2026-03-04-120000.json",
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatalf("seed file: %v", err)
		}
	}
	// Unrelated files survive pruning.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if err := w.prune(); err != nil {
		t.Fatalf("prune: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	var kept []string
	for _, e := range entries {
		kept = append(kept, e.Name())
	}
	if len(kept) != 3 {
		t.Fatalf("kept = %v, want the 2 newest plus notes.txt", kept)
	}
	for _, name := range []string{names[2], names[3], "notes.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing after prune", name)
		}
	}
}
