package cmd

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Vrilya/wow-addon-updater/internal/config"
	"github.com/Vrilya/wow-addon-updater/internal/updater"
)

func testUpdater(t *testing.T) (*updater.Updater, *config.Store) {
	t.Helper()
	logger := log.New(io.Discard)
	store := config.NewStore(filepath.Join(t.TempDir(), "config.json"), logger)
	store.Load()
	return updater.New(store, logger), store
}

func trackAddon(t *testing.T, store *config.Store, instName, addonName string) *config.Installation {
	t.Helper()
	inst, err := store.AddInstallation(instName, t.TempDir(), 67408)
	if err != nil {
		t.Fatal(err)
	}
	inst.Addons[addonName] = &config.AddonState{ID: 1, LocalVersion: "1.0"}
	inst.FolderMapping[addonName] = []string{addonName}
	return inst
}

func TestFindTrackedAddonPrefersActiveInstallation(t *testing.T) {
	u, store := testUpdater(t)

	active := trackAddon(t, store, "Classic", "WeakAuras")
	trackAddon(t, store, "Retail", "WeakAuras")

	addon, err := findTrackedAddon(u, "WeakAuras", "")
	if err != nil {
		t.Fatal(err)
	}
	if addon.InstallationID != active.ID {
		t.Fatalf("resolved to %s, want active installation", addon.InstallationName)
	}
}

func TestFindTrackedAddonRejectsAmbiguousName(t *testing.T) {
	u, store := testUpdater(t)

	// Active installation does not track the addon; two others do.
	if _, err := store.AddInstallation("Classic", t.TempDir(), 67408); err != nil {
		t.Fatal(err)
	}
	trackAddon(t, store, "Retail", "WeakAuras")
	trackAddon(t, store, "Wrath", "WeakAuras")

	_, err := findTrackedAddon(u, "WeakAuras", "")
	if err == nil {
		t.Fatal("expected ambiguity error")
	}
	if !strings.Contains(err.Error(), "several installations") {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "Retail") || !strings.Contains(err.Error(), "Wrath") {
		t.Fatalf("error should name the candidate installations: %v", err)
	}
}

func TestFindTrackedAddonWithInstallationQualifier(t *testing.T) {
	u, store := testUpdater(t)

	if _, err := store.AddInstallation("Classic", t.TempDir(), 67408); err != nil {
		t.Fatal(err)
	}
	trackAddon(t, store, "Retail", "WeakAuras")
	wrath := trackAddon(t, store, "Wrath", "WeakAuras")

	addon, err := findTrackedAddon(u, "WeakAuras", "Wrath")
	if err != nil {
		t.Fatal(err)
	}
	if addon.InstallationID != wrath.ID {
		t.Fatalf("resolved to %s, want Wrath", addon.InstallationName)
	}

	if _, err := findTrackedAddon(u, "WeakAuras", "Classic"); err == nil {
		t.Fatal("expected error for installation that does not track the addon")
	}
	if _, err := findTrackedAddon(u, "WeakAuras", "Nowhere"); err == nil {
		t.Fatal("expected error for unknown installation")
	}
}

func TestFindTrackedAddonSingleMatchOutsideActive(t *testing.T) {
	u, store := testUpdater(t)

	if _, err := store.AddInstallation("Classic", t.TempDir(), 67408); err != nil {
		t.Fatal(err)
	}
	retail := trackAddon(t, store, "Retail", "Details")

	addon, err := findTrackedAddon(u, "Details", "")
	if err != nil {
		t.Fatal(err)
	}
	if addon.InstallationID != retail.ID {
		t.Fatalf("resolved to %s, want Retail", addon.InstallationName)
	}

	if _, err := findTrackedAddon(u, "NotTracked", ""); err == nil {
		t.Fatal("expected error for untracked addon")
	}
}
