package detect

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vrilya/wow-addon-updater/internal/config"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// writeDatabase writes a detection catalog file and returns its path.
func writeDatabase(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DatabaseFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// addonDir creates an addon path with the given installed folders.
func addonDir(t *testing.T, folders ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, folder := range folders {
		require.NoError(t, os.MkdirAll(filepath.Join(root, folder), 0755))
	}
	return root
}

func testEngine(t *testing.T, databasePath string) *Engine {
	t.Helper()
	store := config.NewStore(filepath.Join(t.TempDir(), "config.json"), testLogger())
	store.Load()
	e := NewEngine(store, nil, nil, databasePath, testLogger())
	e.delay = 0
	return e
}

const sampleDatabase = `{
	"addons": [
		{
			"id": 10,
			"name": "WeakAuras",
			"versions": {
				"67408": {"folders": ["WeakAuras", "WeakAuras_Options"], "upload_date": "2024-05-01"},
				"517":   {"folders": ["WeakAuras"], "upload_date": "2024-06-01"}
			}
		},
		{
			"id": 20,
			"name": "OldFork",
			"versions": {
				"67408": {"folders": ["WeakAuras"], "upload_date": "2020-01-01"}
			}
		},
		{
			"id": 30,
			"name": "Details",
			"versions": {
				"67408": {"folders": ["Details"], "upload_date": "2024-03-15 12:00:00"}
			}
		}
	]
}`

func TestDetectMatchesFoldersForGameVersion(t *testing.T) {
	e := testEngine(t, writeDatabase(t, sampleDatabase))
	path := addonDir(t, "WeakAuras", "WeakAuras_Options", "Details", "Unknown")

	detected, skin := e.Detect(path, 67408, true)

	assert.False(t, skin)
	require.Len(t, detected, 2)

	wa := detected[10]
	require.NotNil(t, wa, "latest upload date wins over the fork")
	assert.Equal(t, "WeakAuras", wa.Name)
	assert.ElementsMatch(t, []string{"WeakAuras", "WeakAuras_Options"}, wa.Folders)

	require.NotNil(t, detected[30])
	assert.Equal(t, []string{"Details"}, detected[30].Folders)
}

func TestDetectReportsSkinFoldersSeparately(t *testing.T) {
	e := testEngine(t, writeDatabase(t, sampleDatabase))
	path := addonDir(t, "ElvUI", "ElvUI_Options", "Details")

	detected, skin := e.Detect(path, 67408, true)

	assert.True(t, skin)
	// Skin folders never match the catalog
	require.Len(t, detected, 1)
	assert.NotNil(t, detected[30])

	_, skinOff := e.Detect(path, 67408, false)
	assert.False(t, skinOff, "skin detection disabled")
}

func TestDetectMissingDatabaseIsSilent(t *testing.T) {
	e := testEngine(t, filepath.Join(t.TempDir(), "missing.json"))
	path := addonDir(t, "WeakAuras")

	detected, skin := e.Detect(path, 67408, true)
	assert.Empty(t, detected)
	assert.False(t, skin)
}

func TestDetectEmptyAddonPathIsSilent(t *testing.T) {
	e := testEngine(t, writeDatabase(t, sampleDatabase))

	detected, _ := e.Detect(filepath.Join(t.TempDir(), "nope"), 67408, true)
	assert.Empty(t, detected)
}

func TestAddDetectedRegistersWithPlaceholders(t *testing.T) {
	e := testEngine(t, "")
	inst := &config.Installation{
		ID:            "inst-1",
		Name:          "Classic",
		Addons:        make(map[string]*config.AddonState),
		FolderMapping: make(map[string][]string),
	}

	detected := map[int]*Detected{
		10: {ID: 10, Name: "WeakAuras", Folders: []string{"WeakAuras"}},
	}

	added := e.AddDetected(detected, inst)
	assert.Equal(t, 1, added)

	state := inst.Addons["WeakAuras"]
	require.NotNil(t, state)
	assert.Equal(t, 10, state.ID)
	assert.Equal(t, DetectedPlaceholderDate, state.ModifiedDate)
	assert.Equal(t, DetectedVersion, state.LocalVersion)
	assert.Equal(t, []string{"WeakAuras"}, inst.FolderMapping["WeakAuras"])
}

func TestAddDetectedPreservesExistingState(t *testing.T) {
	e := testEngine(t, "")
	inst := &config.Installation{
		ID:   "inst-1",
		Name: "Classic",
		Addons: map[string]*config.AddonState{
			"WeakAuras": {ID: 10, ModifiedDate: "2024-01-01 00:00:00", OnlineModifiedDate: "2024-01-01 00:00:00", LocalVersion: "5.9"},
		},
		FolderMapping: make(map[string][]string),
	}

	detected := map[int]*Detected{
		10: {ID: 10, Name: "WeakAuras", Folders: []string{"WeakAuras"}},
	}

	added := e.AddDetected(detected, inst)
	assert.Zero(t, added)

	// Already-tracked addon keeps its real version and dates
	state := inst.Addons["WeakAuras"]
	assert.Equal(t, "5.9", state.LocalVersion)
	assert.Equal(t, "2024-01-01 00:00:00", state.ModifiedDate)
	// Missing folder mapping is backfilled from detection
	assert.Equal(t, []string{"WeakAuras"}, inst.FolderMapping["WeakAuras"])
}

func TestAddDetectedBackfillsPreUpdateStateRecords(t *testing.T) {
	e := testEngine(t, "")
	inst := &config.Installation{
		ID:   "inst-1",
		Name: "Classic",
		Addons: map[string]*config.AddonState{
			// Record from before online update state existed
			"WeakAuras": {ID: 10, ModifiedDate: "2024-01-01 00:00:00"},
		},
		FolderMapping: map[string][]string{"WeakAuras": {"WeakAuras"}},
	}

	e.AddDetected(map[int]*Detected{
		10: {ID: 10, Name: "WeakAuras", Folders: []string{"WeakAuras"}},
	}, inst)

	state := inst.Addons["WeakAuras"]
	assert.Equal(t, DetectedVersion, state.LocalVersion)
	assert.False(t, state.UpdateAvailable)
}

func TestSortedDetectedIsDeterministic(t *testing.T) {
	detected := map[int]*Detected{
		3: {ID: 3, Name: "Charlie"},
		1: {ID: 1, Name: "Alpha"},
		2: {ID: 2, Name: "Bravo"},
	}

	out := sortedDetected(detected)
	require.Len(t, out, 3)
	assert.Equal(t, "Alpha", out[0].Name)
	assert.Equal(t, "Bravo", out[1].Name)
	assert.Equal(t, "Charlie", out[2].Name)
}
