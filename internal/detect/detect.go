// Package detect matches locally installed addon folders against the
// bundled version-keyed catalog to infer which addons are installed
// without prior tracking.
package detect

import (
	"errors"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Vrilya/wow-addon-updater/internal/catalog"
	"github.com/Vrilya/wow-addon-updater/internal/config"
	"github.com/Vrilya/wow-addon-updater/internal/install"
)

// DetectedPlaceholderDate seeds modified_date for addons registered by
// detection; it predates any real release so the first scan flags them.
const DetectedPlaceholderDate = "2010-01-01 00:00:00"

// DetectedVersion is the local version recorded for addons that were
// detected but whose installed release is unknown.
const DetectedVersion = "Detected"

// Detected is one addon identity inferred from installed folders.
type Detected struct {
	ID         int
	Name       string
	Folders    []string
	UploadDate time.Time
}

// Engine is the addon detection engine.
type Engine struct {
	store        *config.Store
	catalog      *catalog.Client
	pipeline     *install.Pipeline
	log          *log.Logger
	databasePath string

	// delay between per-addon downloads during bulk installs
	delay time.Duration
}

// NewEngine creates a detection engine reading the bundled catalog at
// databasePath.
func NewEngine(store *config.Store, catalogClient *catalog.Client, pipeline *install.Pipeline, databasePath string, logger *log.Logger) *Engine {
	return &Engine{
		store:        store,
		catalog:      catalogClient,
		pipeline:     pipeline,
		log:          logger,
		databasePath: databasePath,
		delay:        500 * time.Millisecond,
	}
}

// Detect matches the installation's on-disk folders against the bundled
// catalog for its game version. The returned map never contains the skin
// addon; its presence is reported out-of-band via the second result.
// Detection failures are silent: an unreadable directory or a missing
// database yields an empty result.
func (e *Engine) Detect(addonPath string, gameVersionID int, includeSkin bool) (map[int]*Detected, bool) {
	detected := make(map[int]*Detected)

	installedFolders := listFolders(addonPath)
	if len(installedFolders) == 0 {
		return detected, false
	}

	skinDetected := false
	if includeSkin {
		for _, folder := range installedFolders {
			if folder == catalog.SkinFolders[0] {
				skinDetected = true
				break
			}
		}
	}

	db, err := loadDatabase(e.databasePath)
	if err != nil {
		e.log.Debug("Addon database unavailable", "path", e.databasePath, "error", err)
		return detected, skinDetected
	}

	// Skin folders are matched separately, never against the catalog
	var searchFolders []string
	for _, folder := range installedFolders {
		if !catalog.IsSkinFolder(folder) {
			searchFolders = append(searchFolders, folder)
		}
	}

	versionKey := strconv.Itoa(gameVersionID)

	for _, folder := range searchFolders {
		entry, uploadDate, ok := bestMatch(db, folder, versionKey)
		if !ok {
			continue
		}

		d, exists := detected[entry.ID]
		if !exists {
			d = &Detected{
				ID:         entry.ID,
				Name:       entry.Name,
				UploadDate: uploadDate,
			}
			detected[entry.ID] = d
		}

		if !containsString(d.Folders, folder) {
			d.Folders = append(d.Folders, folder)
		}
	}

	return detected, skinDetected
}

// bestMatch finds the catalog entry whose folder list for the given game
// version contains the folder, preferring the latest parseable upload
// date. Entries with unparseable dates are never candidates.
func bestMatch(db *Database, folder, versionKey string) (*DatabaseEntry, time.Time, bool) {
	var best *DatabaseEntry
	var bestDate time.Time

	for i := range db.Addons {
		entry := &db.Addons[i]

		info, ok := entry.Versions[versionKey]
		if !ok {
			continue
		}
		if !containsString(info.Folders, folder) {
			continue
		}

		uploadDate, err := time.Parse("2006-01-02", info.UploadDate)
		if err != nil {
			if uploadDate, err = time.Parse("2006-01-02 15:04:05", info.UploadDate); err != nil {
				continue
			}
		}

		if best == nil || uploadDate.After(bestDate) {
			best = entry
			bestDate = uploadDate
		}
	}

	return best, bestDate, best != nil
}

// AddDetected registers detected addons in the installation's config.
// New addons get the "Detected" placeholder state; already-tracked addons
// only have missing online-state fields backfilled, never an existing
// local version overwritten. Returns the count of newly added addons.
// The caller persists.
func (e *Engine) AddDetected(detected map[int]*Detected, inst *config.Installation) int {
	added := 0

	for _, d := range sortedDetected(detected) {
		state, exists := inst.Addons[d.Name]
		if !exists {
			inst.Addons[d.Name] = &config.AddonState{
				ID:           d.ID,
				ModifiedDate: DetectedPlaceholderDate,
				LocalVersion: DetectedVersion,
			}
			inst.FolderMapping[d.Name] = d.Folders
			added++
			continue
		}

		if _, ok := inst.FolderMapping[d.Name]; !ok {
			inst.FolderMapping[d.Name] = d.Folders
		}

		// Backfill persistent update-state fields introduced after this
		// addon was first tracked
		if state.OnlineModifiedDate == "" {
			state.UpdateAvailable = false
			state.LastChecked = ""
			state.OnlineVersion = ""
			if state.LocalVersion == "" {
				state.LocalVersion = DetectedVersion
			}
		}
	}

	return added
}

// BulkInstallResult aggregates a bulk install of detected addons.
type BulkInstallResult struct {
	Installed int
	Total     int
	Failed    []string
}

// InstallAllDetected downloads and installs every detected addon into the
// installation, sequentially, selecting each addon's first release
// compatible with the installation's game version. Individual failures
// are collected and do not abort the batch; the config is saved once at
// the end.
func (e *Engine) InstallAllDetected(detected map[int]*Detected, inst *config.Installation, progress func(current, total int, name string)) *BulkInstallResult {
	result := &BulkInstallResult{Total: len(detected)}
	if len(detected) == 0 {
		return result
	}

	current := 0
	for _, d := range sortedDetected(detected) {
		current++
		if progress != nil {
			progress(current, result.Total, d.Name)
		}

		if err := e.installDetected(d, inst); err != nil {
			e.log.Error("Failed to install detected addon",
				"addon", d.Name, "installation", inst.Name, "error", err)
			result.Failed = append(result.Failed, d.Name+" ("+err.Error()+")")
		} else {
			result.Installed++
			e.log.Info("Installed detected addon", "addon", d.Name, "installation", inst.Name)
		}

		// Pause between downloads so the remote host is not overloaded
		if e.delay > 0 {
			time.Sleep(e.delay)
		}
	}

	if err := e.store.Save(); err != nil {
		e.log.Warn("Failed to save config after bulk install", "error", err)
	}

	return result
}

func (e *Engine) installDetected(d *Detected, inst *config.Installation) error {
	releases, err := e.catalog.Releases(d.ID)
	if err != nil {
		return err
	}

	release := catalog.FirstCompatible(releases, inst.GameVersionID)
	if release == nil {
		return ErrNoCompatibleVersion
	}

	onlineModified := release.DateModified
	onlineVersion := release.Version()

	res, err := e.pipeline.Download(d.ID, release.ID, inst.AddonPath)
	if err != nil {
		return err
	}

	state, ok := inst.Addons[d.Name]
	if !ok {
		state = &config.AddonState{ID: d.ID}
		inst.Addons[d.Name] = state
	}
	state.ModifiedDate = onlineModified
	state.LocalVersion = onlineVersion
	state.OnlineVersion = onlineVersion

	// The archive's actual top-level folders supersede the detected set
	inst.FolderMapping[d.Name] = res.Folders

	return nil
}

// ErrNoCompatibleVersion marks a detected addon with no release for the
// installation's game version.
var ErrNoCompatibleVersion = errors.New("no compatible version")

// sortedDetected orders detected addons by name for stable progress and
// reporting.
func sortedDetected(detected map[int]*Detected) []*Detected {
	out := make([]*Detected, 0, len(detected))
	for _, d := range detected {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func listFolders(path string) []string {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil
	}

	var folders []string
	for _, entry := range entries {
		if entry.IsDir() {
			folders = append(folders, entry.Name())
		}
	}
	return folders
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
