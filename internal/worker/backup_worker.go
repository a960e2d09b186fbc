package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/scholarspoint/sphub-backend/internal/config"
	"github.com/scholarspoint/sphub-backend/internal/service"
)

// BackupWorker periodically writes a dated JSON backup of the full state to
// disk and prunes old files. It is a safety net behind the manual export.
type BackupWorker struct {
	stateService  *service.StateService
	exportService *service.ExportService
	cfg           *config.Config
	log           zerolog.Logger
}

// NewBackupWorker creates a new BackupWorker.
func NewBackupWorker(stateService *service.StateService, exportService *service.ExportService, cfg *config.Config, log zerolog.Logger) *BackupWorker {
	return &BackupWorker{
		stateService:  stateService,
		exportService: exportService,
		cfg:           cfg,
		log:           log.With().Str("component", "backup_worker").Logger(),
	}
}

// Start begins the periodic loop. Call in a goroutine. One backup is written
// immediately so a fresh deployment is covered from minute one.
func (w *BackupWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.cfg.BackupInterval).Msg("Worker started")

	w.runOnce()

	ticker := time.NewTicker(w.cfg.BackupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.runOnce()
		}
	}
}

func (w *BackupWorker) runOnce() {
	if err := w.writeBackup(); err != nil {
		w.log.Error().Err(err).Msg("Backup write failed")
		return
	}
	if err := w.prune(); err != nil {
		w.log.Warn().Err(err).Msg("Backup prune failed")
	}
}

func (w *BackupWorker) writeBackup() error {
	if err := os.MkdirAll(w.cfg.BackupDir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	backup := w.exportService.BuildBackup(w.stateService.Snapshot())
	payload, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}

	name := fmt.Sprintf("auto-backup-%s.json", time.Now().Format("2006-01-02-150405"))
	path := filepath.Join(w.cfg.BackupDir, name)

	// Write to a temp file first so a crash never leaves a truncated backup.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize backup: %w", err)
	}

	w.log.Info().Str("file", name).Int("bytes", len(payload)).Msg("Backup written")
	return nil
}

// prune keeps the newest BackupKeep auto-backups and removes the rest.
func (w *BackupWorker) prune() error {
	entries, err := os.ReadDir(w.cfg.BackupDir)
	if err != nil {
		return err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "auto-backup-") && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= w.cfg.BackupKeep {
		return nil
	}

	// Timestamped names sort chronologically.
	sort.Strings(names)
	for _, name := range names[:len(names)-w.cfg.BackupKeep] {
		if err := os.Remove(filepath.Join(w.cfg.BackupDir, name)); err != nil {
			w.log.Warn().Err(err).Str("file", name).Msg("Prune remove failed")
		}
	}
	return nil
}
