// Package storage persists the full application state as a single JSON
// document under one fixed string key. Backends differ only in where that
// key lives (Postgres row or Redis key); load-time repair of legacy data
// is shared.
package storage

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/scholarspoint/sphub-backend/internal/model"
)

// Gateway loads and saves the whole {students, attendance, fees} tuple.
// Save fully overwrites the previous value; there are no incremental writes.
type Gateway interface {
	// Load returns the stored state. A missing key or an unparseable value
	// yields an empty state, never an error: the app degrades to a fresh
	// start rather than refusing to boot.
	Load(ctx context.Context) (*model.AppState, error)
	// Save serializes state and overwrites the storage key. A failed write
	// is surfaced to the caller; the in-memory state stays valid.
	Save(ctx context.Context, state *model.AppState) error
}

// decodeState parses a raw stored payload and runs the legacy repair pass.
// A parse failure is logged and treated as "no prior data".
func decodeState(raw []byte, log zerolog.Logger) *model.AppState {
	var state model.AppState
	if err := json.Unmarshal(raw, &state); err != nil {
		log.Warn().Err(err).Msg("Stored state unparseable, starting fresh")
		return emptyState()
	}
	state.Normalize()
	migrateRollNumbers(&state)
	return &state
}

func emptyState() *model.AppState {
	s := &model.AppState{}
	s.Normalize()
	return s
}

// migrateRollNumbers repairs data written before the roll-number feature:
// students missing a roll number get currentMax+1 in stored order, and
// explicit roll numbers advance currentMax so later assignments stay unique
// and monotonic. Runs once at load, never on subsequent reads.
func migrateRollNumbers(state *model.AppState) {
	currentMax := 0
	for i := range state.Students {
		if state.Students[i].RollNumber == 0 {
			currentMax++
			state.Students[i].RollNumber = currentMax
		} else if state.Students[i].RollNumber > currentMax {
			currentMax = state.Students[i].RollNumber
		}
	}
}

func encodeState(state *model.AppState) ([]byte, error) {
	return json.Marshal(state)
}
