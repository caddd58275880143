package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultFileName is the config file name, kept beside the data directory.
const DefaultFileName = "config.json"

// Store owns the persisted document. Load fails open: a missing or corrupt
// file yields a fresh empty document, never an error to the caller.
type Store struct {
	path string
	doc  *Document
	mu   sync.RWMutex
	log  *log.Logger
}

// NewStore creates a store persisting to the given file path.
func NewStore(path string, logger *log.Logger) *Store {
	return &Store{
		path: path,
		doc:  NewDocument(),
		log:  logger,
	}
}

// DefaultPath returns the config file location under the XDG data dir.
func DefaultPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, _ := os.UserHomeDir()
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "wow-addon-updater", DefaultFileName)
}

// Path returns the config file path the store persists to.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document from disk and runs the legacy migration.
// Any read or parse failure results in a fresh empty document.
func (s *Store) Load() {
	s.mu.Lock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("Failed to read config, starting fresh", "path", s.path, "error", err)
		}
		s.doc = NewDocument()
		s.mu.Unlock()
		return
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Warn("Failed to parse config, starting fresh", "path", s.path, "error", err)
		s.doc = NewDocument()
		s.mu.Unlock()
		return
	}

	doc.normalize()
	s.doc = &doc
	migrated := s.migrateLegacy()
	s.mu.Unlock()

	if migrated {
		if err := s.Save(); err != nil {
			s.log.Warn("Failed to persist migrated config", "error", err)
		}
	}
}

// migrateLegacy folds the pre-multi-installation schema into a single
// "Default" installation. Idempotent: documents without legacy data are
// untouched. Caller holds the lock; returns whether anything changed.
func (s *Store) migrateLegacy() bool {
	doc := s.doc

	hasLegacy := doc.Settings.AddonPath != "" ||
		len(doc.LegacyAddons) > 0 ||
		len(doc.LegacyFolderMap) > 0

	if !hasLegacy || len(doc.Installations) > 0 {
		return false
	}

	inst := &Installation{
		ID:            uuid.NewString(),
		Name:          "Default",
		AddonPath:     doc.Settings.AddonPath,
		GameVersionID: doc.Settings.GameVersionID,
		IncludeElvUI:  doc.Settings.IncludeElvUI,
		Addons:        make(map[string]*AddonState, len(doc.LegacyAddons)),
		FolderMapping: make(map[string][]string, len(doc.LegacyFolderMap)),
	}
	for name, state := range doc.LegacyAddons {
		inst.Addons[name] = state
	}
	for name, folders := range doc.LegacyFolderMap {
		inst.FolderMapping[name] = folders
	}

	doc.Installations[inst.ID] = inst
	doc.ActiveInstallID = inst.ID

	// Auto-scan settings stay global; only the single-installation
	// fields are cleared.
	doc.Settings.AddonPath = ""
	doc.Settings.GameVersionID = 0
	doc.Settings.IncludeElvUI = false
	doc.LegacyAddons = make(map[string]*AddonState)
	doc.LegacyFolderMap = make(map[string][]string)

	s.log.Info("Migrated legacy config to installation", "installation", inst.Name, "addons", len(inst.Addons))
	return true
}

// Save serializes the full document, overwriting the file.
func (s *Store) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.doc, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Doc returns the in-memory document. Callers mutate it directly and then
// call Save; operations are sequential so there is no concurrent writer.
func (s *Store) Doc() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// ScanEligible reports whether the installation can take part in a scan:
// named, pointing at an existing addon directory, with a game version set.
func (i *Installation) ScanEligible() bool {
	if i.Name == "" || i.AddonPath == "" || i.GameVersionID <= 0 {
		return false
	}
	info, err := os.Stat(i.AddonPath)
	return err == nil && info.IsDir()
}
