package detect

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DatabaseFileName is the bundled addon catalog shipped beside the
// executable. Read-only; never written by this tool.
const DatabaseFileName = "addon_database.json"

// Database is the bundled, version-keyed addon catalog used only for
// detection.
type Database struct {
	Addons []DatabaseEntry `json:"addons"`
}

// DatabaseEntry is one catalog addon with its per-game-version records,
// keyed by the game version id rendered as a string.
type DatabaseEntry struct {
	ID       int                    `json:"id"`
	Name     string                 `json:"name"`
	Versions map[string]VersionInfo `json:"versions"`
}

// VersionInfo records which folders a given game-version build of the
// addon installs and when it was uploaded.
type VersionInfo struct {
	Folders    []string `json:"folders"`
	UploadDate string   `json:"upload_date"`
}

// DefaultDatabasePath resolves the bundled database beside the executable.
func DefaultDatabasePath() string {
	exe, err := os.Executable()
	if err != nil {
		return DatabaseFileName
	}
	return filepath.Join(filepath.Dir(exe), DatabaseFileName)
}

// loadDatabase reads and parses the bundled catalog. Errors are returned
// so the engine can fail detection silently, as a missing database is not
// a user-facing error.
func loadDatabase(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var db Database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, err
	}
	return &db, nil
}
