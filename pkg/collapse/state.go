package collapse

import (
	"log"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// State is the on-disk form of the collapse map, saved as
// collapse-state.json so folders stay collapsed across sessions.
//
// File format (JSON):
//
//	{
//	  "version": 1,
//	  "collapsed": {
//	    "folder_3": true
//	  }
//	}
//
// Only collapsed folders are written. Selection is never persisted.
type State struct {
	Version   int             `json:"version"`
	Collapsed map[string]bool `json:"collapsed"`
}

// StateVersion is the current schema version.
const StateVersion = 1

const stateFileName = "collapse-state.json"

// StatePath returns the state file path inside dir.
func StatePath(dir string) string {
	return filepath.Join(dir, stateFileName)
}

// Save writes the tracker's collapsed folders to path.
func (t *Tracker) Save(path string) error {
	state := State{
		Version:   StateVersion,
		Collapsed: make(map[string]bool),
	}
	for id, c := range t.Snapshot() {
		if c {
			state.Collapsed[id] = true
		}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load restores collapsed folders from path. A missing file leaves the
// tracker untouched; a corrupt or newer-version file is logged to logger
// (the standard logger when nil) and ignored.
// Ids that no longer exist are kept and simply never match a folder.
func (t *Tracker) Load(path string, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Printf("warning: invalid collapse state file, using defaults: %v", err)
		return
	}
	if state.Version > StateVersion {
		logger.Printf("warning: collapse state version %d is newer than supported %d, using defaults", state.Version, StateVersion)
		return
	}
	t.Restore(Map(state.Collapsed))
}
