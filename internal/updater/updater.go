// Package updater wires the catalog, download pipeline, scan and detection
// engines behind a single facade the commands talk to.
package updater

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Vrilya/wow-addon-updater/internal/backup"
	"github.com/Vrilya/wow-addon-updater/internal/catalog"
	"github.com/Vrilya/wow-addon-updater/internal/config"
	"github.com/Vrilya/wow-addon-updater/internal/detect"
	"github.com/Vrilya/wow-addon-updater/internal/install"
	"github.com/Vrilya/wow-addon-updater/internal/scan"
)

var (
	// ErrInstallationNotFound means the addon references no known installation
	ErrInstallationNotFound = errors.New("installation not found")
	// ErrNoReleaseInfo means the addon carries no catalog identifiers to update from
	ErrNoReleaseInfo = errors.New("addon has no release information")
)

// Updater owns the shared HTTP clients and engines. One instance serves a
// whole command invocation.
type Updater struct {
	store    *config.Store
	catalog  *catalog.Client
	skin     *catalog.SkinClient
	pipeline *install.Pipeline
	backups  *backup.Manager
	scanner  *scan.Engine
	detector *detect.Engine
	log      *log.Logger
}

// New builds an updater around a loaded store. The user agent comes from
// settings when a custom one is configured.
func New(store *config.Store, logger *log.Logger) *Updater {
	userAgent := catalog.DefaultUserAgent
	settings := store.Doc().Settings
	if settings.UseCustomUserAgent && settings.CustomUserAgent != "" {
		userAgent = settings.CustomUserAgent
	}

	apiClient := &http.Client{Timeout: 30 * time.Second}
	downloadClient := &http.Client{Timeout: 5 * time.Minute}

	catalogClient := catalog.NewClient(apiClient, userAgent, logger)
	skinClient := catalog.NewSkinClient(apiClient, userAgent, logger)
	pipeline := install.NewPipeline(catalogClient, downloadClient, userAgent, logger)

	return &Updater{
		store:    store,
		catalog:  catalogClient,
		skin:     skinClient,
		pipeline: pipeline,
		backups:  backup.NewManager(filepath.Dir(store.Path())),
		scanner:  scan.NewEngine(store, catalogClient, skinClient, logger),
		detector: detect.NewEngine(store, catalogClient, pipeline, detect.DefaultDatabasePath(), logger),
		log:      logger,
	}
}

// Store returns the underlying config store.
func (u *Updater) Store() *config.Store {
	return u.store
}

// Catalog returns the catalog client for search commands.
func (u *Updater) Catalog() *catalog.Client {
	return u.catalog
}

// Detector returns the detection engine.
func (u *Updater) Detector() *detect.Engine {
	return u.detector
}

// Backups returns the backup manager.
func (u *Updater) Backups() *backup.Manager {
	return u.backups
}

// LoadAddons projects the stored state without touching the network.
func (u *Updater) LoadAddons() []scan.Addon {
	return u.scanner.LoadAddons()
}

// ScanForUpdates runs a full scan across all eligible installations.
func (u *Updater) ScanForUpdates(progress scan.Progress) []scan.Addon {
	return u.scanner.ScanForUpdates(progress)
}

// UpdateAddon downloads and installs the latest compatible release of one
// addon. Stored state only changes after the install succeeds, so a failed
// download leaves the addon flagged for update on the next run.
func (u *Updater) UpdateAddon(a scan.Addon) error {
	inst, ok := u.store.Installation(a.InstallationID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInstallationNotFound, a.InstallationID)
	}

	if a.Name == catalog.SkinAddonName {
		return u.updateSkin(inst)
	}

	if a.ModID <= 0 {
		return fmt.Errorf("%w: %s", ErrNoReleaseInfo, a.Name)
	}

	release, err := u.resolveRelease(&a, inst.GameVersionID)
	if err != nil {
		return err
	}

	res, err := u.pipeline.Download(a.ModID, release.ID, inst.AddonPath)
	if err != nil {
		return fmt.Errorf("failed to install %s: %w", a.Name, err)
	}

	version := catalog.CleanVersion(release.Version())

	state := inst.Addons[a.Name]
	if state == nil {
		state = &config.AddonState{ID: a.ModID}
		inst.Addons[a.Name] = state
	}
	state.ID = a.ModID
	state.ModifiedDate = release.DateModified
	state.OnlineModifiedDate = release.DateModified
	state.UpdateAvailable = false
	state.LocalVersion = version
	state.OnlineVersion = version
	inst.FolderMapping[a.Name] = res.Folders

	u.log.Info("Updated addon", "name", a.Name, "version", version, "installation", inst.Name)
	return u.store.Save()
}

// resolveRelease returns the release to install. Scan results carry the
// compatible release id; projections loaded from the config do not, so the
// release list is consulted again.
func (u *Updater) resolveRelease(a *scan.Addon, gameVersionID int) (*catalog.Release, error) {
	if a.FileID > 0 {
		release, err := u.catalog.Release(a.ModID, a.FileID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch release for %s: %w", a.Name, err)
		}
		return release, nil
	}

	releases, err := u.catalog.Releases(a.ModID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch releases for %s: %w", a.Name, err)
	}
	release := catalog.FirstCompatible(releases, gameVersionID)
	if release == nil {
		return nil, fmt.Errorf("%s has no release compatible with this game version", a.Name)
	}
	return release, nil
}

// updateSkin reinstalls the UI skin from its own distribution endpoint.
func (u *Updater) updateSkin(inst *config.Installation) error {
	info, err := u.skin.Info()
	if err != nil {
		return fmt.Errorf("failed to fetch %s info: %w", catalog.SkinAddonName, err)
	}

	folders, err := u.pipeline.DownloadArchive(info.URL, inst.AddonPath)
	if err != nil {
		return fmt.Errorf("failed to install %s: %w", catalog.SkinAddonName, err)
	}

	state := inst.Addons[catalog.SkinAddonName]
	if state == nil {
		state = &config.AddonState{}
		inst.Addons[catalog.SkinAddonName] = state
	}
	state.ModifiedDate = info.LastUpdate
	state.OnlineModifiedDate = info.LastUpdate
	state.UpdateAvailable = false
	state.LocalVersion = info.Version
	state.OnlineVersion = info.Version
	inst.FolderMapping[catalog.SkinAddonName] = folders

	u.log.Info("Updated addon", "name", catalog.SkinAddonName, "version", info.Version, "installation", inst.Name)
	return u.store.Save()
}

// InstallAddon installs a catalog addon into an installation and records its
// state so future scans track it.
func (u *Updater) InstallAddon(name string, modID, fileID int, installationID string) error {
	inst, ok := u.store.Installation(installationID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInstallationNotFound, installationID)
	}

	release, err := u.catalog.Release(modID, fileID)
	if err != nil {
		return fmt.Errorf("failed to fetch release for %s: %w", name, err)
	}

	res, err := u.pipeline.Download(modID, fileID, inst.AddonPath)
	if err != nil {
		return fmt.Errorf("failed to install %s: %w", name, err)
	}

	version := catalog.CleanVersion(release.Version())

	inst.Addons[name] = &config.AddonState{
		ID:                 modID,
		ModifiedDate:       release.DateModified,
		OnlineModifiedDate: release.DateModified,
		UpdateAvailable:    false,
		LastChecked:        time.Now().Format("2006-01-02 15:04:05"),
		LocalVersion:       version,
		OnlineVersion:      version,
	}
	inst.FolderMapping[name] = res.Folders

	u.log.Info("Installed addon", "name", name, "version", version, "installation", inst.Name)
	return u.store.Save()
}

// DeleteAddon removes an addon's folders from disk and drops it from the
// config. With backup enabled the folders are copied aside first.
func (u *Updater) DeleteAddon(a scan.Addon, withBackup bool) error {
	inst, ok := u.store.Installation(a.InstallationID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInstallationNotFound, a.InstallationID)
	}

	folders := inst.FolderMapping[a.Name]
	if a.Name == catalog.SkinAddonName && len(folders) == 0 {
		folders = catalog.SkinFolders
	}

	if withBackup && len(folders) > 0 {
		if _, err := u.backups.Create(a.Name, inst.AddonPath, folders); err != nil {
			return fmt.Errorf("backup failed, addon not removed: %w", err)
		}
	}

	if err := u.pipeline.DeleteFolders(inst.AddonPath, folders); err != nil {
		return err
	}

	delete(inst.Addons, a.Name)
	delete(inst.FolderMapping, a.Name)
	if a.Name == catalog.SkinAddonName {
		inst.IncludeElvUI = false
	}

	u.log.Info("Removed addon", "name", a.Name, "installation", inst.Name)
	return u.store.Save()
}

// UpdateAll updates every addon flagged stale, reporting progress per addon.
// It returns the number updated and the names that failed.
func (u *Updater) UpdateAll(addons []scan.Addon, progress func(current, total int, name string)) (int, []string) {
	var stale []scan.Addon
	for _, a := range addons {
		if a.NeedsUpdate {
			stale = append(stale, a)
		}
	}

	updated := 0
	var failed []string
	for i, a := range stale {
		if progress != nil {
			progress(i+1, len(stale), a.Name)
		}
		if err := u.UpdateAddon(a); err != nil {
			u.log.Error("Update failed", "name", a.Name, "error", err)
			failed = append(failed, a.Name)
			continue
		}
		updated++
	}
	return updated, failed
}
