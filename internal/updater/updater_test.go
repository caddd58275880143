package updater

import (
	"archive/zip"
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vrilya/wow-addon-updater/internal/catalog"
	"github.com/Vrilya/wow-addon-updater/internal/config"
	"github.com/Vrilya/wow-addon-updater/internal/install"
	"github.com/Vrilya/wow-addon-updater/internal/scan"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func zipResponse(t *testing.T, entries map[string]string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       io.NopCloser(bytes.NewReader(buf.Bytes())),
	}
}

// testUpdater builds an updater whose every HTTP request goes through
// transport.
func testUpdater(t *testing.T, transport roundTripFunc) (*Updater, *config.Store) {
	t.Helper()

	store := config.NewStore(filepath.Join(t.TempDir(), "config.json"), testLogger())
	store.Load()

	if transport == nil {
		transport = func(req *http.Request) (*http.Response, error) {
			t.Fatalf("unexpected request: %s", req.URL.String())
			return nil, nil
		}
	}

	u := New(store, testLogger())
	client := &http.Client{Transport: transport}
	u.catalog = catalog.NewClient(client, "", testLogger())
	u.skin = catalog.NewSkinClient(client, "", testLogger())
	u.pipeline = install.NewPipeline(u.catalog, client, "", testLogger())
	return u, store
}

func TestUpdateAddonInstallsAndRecordsState(t *testing.T) {
	u, store := testUpdater(t, func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.Path, "/api/v1/mods/42/files/100") {
			return jsonResponse(`{"data":{"id":100,"displayName":"2.0.zip","fileName":"WeakAuras.zip","dateModified":"2024-06-01T00:00:00Z","gameVersionTypeIds":[67408]}}`), nil
		}
		if strings.Contains(req.URL.Host, "forgecdn.net") {
			return zipResponse(t, map[string]string{
				"WeakAuras/WeakAuras.toc":         "## Version: 2.0",
				"WeakAuras_Options/WeakAuras.toc": "## Version: 2.0",
			}), nil
		}
		t.Fatalf("unexpected request: %s", req.URL.String())
		return nil, nil
	})

	inst, err := store.AddInstallation("Classic", t.TempDir(), 67408)
	require.NoError(t, err)
	inst.Addons["WeakAuras"] = &config.AddonState{ID: 42, LocalVersion: "1.0", UpdateAvailable: true}
	inst.FolderMapping["WeakAuras"] = []string{"OldFolder"}

	addon := scan.Addon{Name: "WeakAuras", ModID: 42, FileID: 100, InstallationID: inst.ID}
	require.NoError(t, u.UpdateAddon(addon))

	state := inst.Addons["WeakAuras"]
	assert.False(t, state.UpdateAvailable)
	assert.Equal(t, "2.0", state.LocalVersion)
	assert.Equal(t, "2.0", state.OnlineVersion)
	assert.Equal(t, "2024-06-01T00:00:00Z", state.ModifiedDate)
	assert.Equal(t, "2024-06-01T00:00:00Z", state.OnlineModifiedDate)

	// Folder mapping replaced by the archive's actual manifest
	assert.Equal(t, []string{"WeakAuras", "WeakAuras_Options"}, inst.FolderMapping["WeakAuras"])
}

func TestUpdateAddonFailedDownloadLeavesStateUntouched(t *testing.T) {
	u, store := testUpdater(t, func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.Path, "/api/v1/") {
			return jsonResponse(`{"data":{"id":100,"displayName":"2.0","fileName":"WeakAuras.zip","dateModified":"2024-06-01T00:00:00Z"}}`), nil
		}
		return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader(""))}, nil
	})

	inst, err := store.AddInstallation("Classic", t.TempDir(), 67408)
	require.NoError(t, err)
	inst.Addons["WeakAuras"] = &config.AddonState{ID: 42, LocalVersion: "1.0", UpdateAvailable: true}

	addon := scan.Addon{Name: "WeakAuras", ModID: 42, FileID: 100, InstallationID: inst.ID}
	require.Error(t, u.UpdateAddon(addon))

	state := inst.Addons["WeakAuras"]
	assert.True(t, state.UpdateAvailable, "failed install must stay flagged")
	assert.Equal(t, "1.0", state.LocalVersion)
}

func TestUpdateAddonUnknownInstallation(t *testing.T) {
	u, _ := testUpdater(t, nil)
	err := u.UpdateAddon(scan.Addon{Name: "X", ModID: 1, FileID: 1, InstallationID: "nope"})
	require.ErrorIs(t, err, ErrInstallationNotFound)
}

func TestUpdateAddonWithoutModID(t *testing.T) {
	u, store := testUpdater(t, nil)
	inst, err := store.AddInstallation("Classic", t.TempDir(), 67408)
	require.NoError(t, err)

	err = u.UpdateAddon(scan.Addon{Name: "Mystery", InstallationID: inst.ID})
	require.ErrorIs(t, err, ErrNoReleaseInfo)
}

func TestDeleteAddonRemovesFoldersAndState(t *testing.T) {
	u, store := testUpdater(t, nil)

	addonPath := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(addonPath, "WeakAuras"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(addonPath, "WeakAuras", "main.lua"), []byte("x"), 0644))

	inst, err := store.AddInstallation("Classic", addonPath, 67408)
	require.NoError(t, err)
	inst.Addons["WeakAuras"] = &config.AddonState{ID: 42}
	inst.FolderMapping["WeakAuras"] = []string{"WeakAuras"}

	addon := scan.Addon{Name: "WeakAuras", ModID: 42, InstallationID: inst.ID}
	require.NoError(t, u.DeleteAddon(addon, false))

	_, statErr := os.Stat(filepath.Join(addonPath, "WeakAuras"))
	assert.True(t, os.IsNotExist(statErr))
	assert.NotContains(t, inst.Addons, "WeakAuras")
	assert.NotContains(t, inst.FolderMapping, "WeakAuras")
}

func TestDeleteAddonWithBackup(t *testing.T) {
	u, store := testUpdater(t, nil)

	addonPath := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(addonPath, "WeakAuras"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(addonPath, "WeakAuras", "main.lua"), []byte("keep me"), 0644))

	inst, err := store.AddInstallation("Classic", addonPath, 67408)
	require.NoError(t, err)
	inst.Addons["WeakAuras"] = &config.AddonState{ID: 42}
	inst.FolderMapping["WeakAuras"] = []string{"WeakAuras"}

	addon := scan.Addon{Name: "WeakAuras", ModID: 42, InstallationID: inst.ID}
	require.NoError(t, u.DeleteAddon(addon, true))

	backups, err := u.Backups().List("WeakAuras")
	require.NoError(t, err)
	require.Len(t, backups, 1)
}

func TestDeleteSkinDisablesTracking(t *testing.T) {
	u, store := testUpdater(t, nil)

	addonPath := t.TempDir()
	for _, folder := range catalog.SkinFolders {
		require.NoError(t, os.MkdirAll(filepath.Join(addonPath, folder), 0755))
	}

	inst, err := store.AddInstallation("Classic", addonPath, 67408)
	require.NoError(t, err)
	inst.IncludeElvUI = true
	inst.Addons[catalog.SkinAddonName] = &config.AddonState{LocalVersion: "13.45"}

	addon := scan.Addon{Name: catalog.SkinAddonName, InstallationID: inst.ID}
	require.NoError(t, u.DeleteAddon(addon, false))

	assert.False(t, inst.IncludeElvUI)
	for _, folder := range catalog.SkinFolders {
		_, statErr := os.Stat(filepath.Join(addonPath, folder))
		assert.True(t, os.IsNotExist(statErr), folder)
	}
}

func TestUpdateAllSkipsCurrentAddons(t *testing.T) {
	u, store := testUpdater(t, func(req *http.Request) (*http.Response, error) {
		t.Fatalf("no request expected, got %s", req.URL.String())
		return nil, nil
	})

	_, err := store.AddInstallation("Classic", t.TempDir(), 67408)
	require.NoError(t, err)

	addons := []scan.Addon{
		{Name: "Current", NeedsUpdate: false},
	}
	updated, failed := u.UpdateAll(addons, nil)
	assert.Zero(t, updated)
	assert.Empty(t, failed)
}
