// Package scan implements the update-reconciliation engine: for every
// scan-eligible installation, for every tracked addon, fetch remote
// metadata, pick the compatible release and decide whether the local copy
// is stale. Results are written back into the config document as each
// addon completes, so a partial scan keeps prior progress.
package scan

import (
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Vrilya/wow-addon-updater/internal/catalog"
	"github.com/Vrilya/wow-addon-updater/internal/config"
	"github.com/Vrilya/wow-addon-updater/internal/toc"
)

// NoCompatibleVersion is recorded as the online version when no release
// carries the installation's game version tag.
const NoCompatibleVersion = "No compatible version available"

// NotInstalled is the display value for addons with no recorded local
// version.
const NotInstalled = "Not installed"

// Progress reports per-addon scan progress as (current, total, name).
// It is invoked from the scanning goroutine; callers marshal as needed.
type Progress func(current, total int, name string)

// Engine is the reconcile engine. Scans are strictly sequential, one
// addon at a time, with a short delay between network round trips so the
// remote host is never hammered.
type Engine struct {
	store   *config.Store
	catalog *catalog.Client
	skin    *catalog.SkinClient
	log     *log.Logger

	// delay between per-addon network round trips
	delay time.Duration
}

// NewEngine creates a reconcile engine.
func NewEngine(store *config.Store, catalogClient *catalog.Client, skinClient *catalog.SkinClient, logger *log.Logger) *Engine {
	return &Engine{
		store:   store,
		catalog: catalogClient,
		skin:    skinClient,
		log:     logger,
		delay:   100 * time.Millisecond,
	}
}

// ScanForUpdates checks every scan-eligible installation's tracked addons
// against the catalog, persists the outcome and returns the aggregated,
// sorted result list. Per-addon failures are logged and skipped; they
// never abort the scan.
func (e *Engine) ScanForUpdates(progress Progress) []Addon {
	var all []Addon

	var eligible []*config.Installation
	for _, inst := range e.store.Installations() {
		if inst.ScanEligible() {
			eligible = append(eligible, inst)
		}
	}
	if len(eligible) == 0 {
		return all
	}

	total := 0
	for _, inst := range eligible {
		total += len(trackedAddonNames(inst))
		if inst.IncludeElvUI {
			total++
		}
	}

	current := 0
	scanTime := time.Now().Format(scanTimeFormat)

	for _, inst := range eligible {
		addons := e.scanInstallation(inst, progress, &current, total, scanTime)
		all = append(all, addons...)
	}

	if err := e.store.Save(); err != nil {
		e.log.Warn("Failed to save config after scan", "error", err)
	}

	SortAddons(all, e.store.Doc().Settings.SortMode)
	return all
}

// trackedAddonNames returns the installation's addon names in stable
// order, excluding the skin addon, which is reconciled separately.
func trackedAddonNames(inst *config.Installation) []string {
	names := make([]string, 0, len(inst.Addons))
	for name := range inst.Addons {
		if name == catalog.SkinAddonName {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Engine) scanInstallation(inst *config.Installation, progress Progress, current *int, total int, scanTime string) []Addon {
	var addons []Addon

	for _, name := range trackedAddonNames(inst) {
		state := inst.Addons[name]

		*current++
		report(progress, *current, total, name)

		releases, err := e.catalog.Releases(state.ID)
		if err != nil {
			e.log.Error("Failed to check addon version",
				"addon", name, "installation", inst.Name, "error", err)
			e.sleep()
			continue
		}

		release := catalog.FirstCompatible(releases, inst.GameVersionID)
		if release == nil {
			state.UpdateAvailable = false
			state.LastChecked = scanTime
			state.OnlineVersion = NoCompatibleVersion

			addons = append(addons, Addon{
				Name:             name,
				ModID:            state.ID,
				LocalVersion:     displayVersion(state.LocalVersion),
				OnlineVersion:    NoCompatibleVersion,
				NeedsUpdate:      false,
				InstallationID:   inst.ID,
				InstallationName: inst.Name,
			})
			e.sleep()
			continue
		}

		onlineVersion := release.Version()
		onlineModified := release.DateModified

		lastUpdated := parseTimestamp(state.ModifiedDate)
		if state.ModifiedDate != "" && lastUpdated == nil {
			e.log.Warn("Unparseable modified date",
				"addon", name, "value", state.ModifiedDate)
		}

		needsUpdate := e.needsUpdate(lastUpdated, onlineModified, state.LocalVersion, onlineVersion)

		// Persist immediately so a partial scan retains this addon's result
		state.OnlineModifiedDate = onlineModified
		state.UpdateAvailable = needsUpdate
		state.LastChecked = scanTime
		state.OnlineVersion = onlineVersion

		addons = append(addons, Addon{
			Name:             name,
			ModID:            state.ID,
			FileID:           release.ID,
			LocalVersion:     displayVersion(state.LocalVersion),
			OnlineVersion:    onlineVersion,
			NeedsUpdate:      needsUpdate,
			LastUpdated:      lastUpdated,
			Folders:          e.folderMapping(inst, name),
			InstallationID:   inst.ID,
			InstallationName: inst.Name,
		})

		e.sleep()
	}

	if inst.IncludeElvUI {
		*current++
		report(progress, *current, total, catalog.SkinAddonName)

		if addon := e.scanSkin(inst, scanTime); addon != nil {
			addons = append(addons, *addon)
		}
		e.sleep()
	}

	return addons
}

// needsUpdate applies the staleness rule: date comparison when both sides
// parse, string-equality fallback otherwise. Date parsing is best-effort;
// version equality is the backstop.
func (e *Engine) needsUpdate(lastUpdated *time.Time, onlineModified, localVersion, onlineVersion string) bool {
	if lastUpdated != nil && onlineModified != "" {
		if onlineDate := parseTimestamp(onlineModified); onlineDate != nil {
			return lastUpdated.Before(*onlineDate)
		}
	}
	return localVersion == "" || localVersion != onlineVersion
}

// scanSkin reconciles the skin addon: one universal release from a fixed
// endpoint, local version read from the on-disk TOC tag rather than from
// the persisted record.
func (e *Engine) scanSkin(inst *config.Installation, scanTime string) *Addon {
	info, err := e.skin.Info()
	if err != nil {
		e.log.Error("Failed to check skin addon version",
			"installation", inst.Name, "error", err)
		return nil
	}

	folders := e.folderMapping(inst, catalog.SkinAddonName)
	localVersion := toc.ReadVersion(inst.AddonPath, folders)
	needsUpdate := localVersion != info.Version

	state, ok := inst.Addons[catalog.SkinAddonName]
	if !ok {
		state = &config.AddonState{ModifiedDate: info.LastUpdate}
		inst.Addons[catalog.SkinAddonName] = state
	}

	// Both date fields carry the remote timestamp: modified_date feeds the
	// LastUpdated display, online_modified_date the comparisons.
	state.ModifiedDate = info.LastUpdate
	state.OnlineModifiedDate = info.LastUpdate
	state.UpdateAvailable = needsUpdate
	state.LastChecked = scanTime
	state.OnlineVersion = info.Version
	state.LocalVersion = displayVersion(localVersion)

	return &Addon{
		Name:             catalog.SkinAddonName,
		LocalVersion:     displayVersion(localVersion),
		OnlineVersion:    info.Version,
		NeedsUpdate:      needsUpdate,
		LastUpdated:      parseTimestamp(info.LastUpdate),
		Folders:          folders,
		InstallationID:   inst.ID,
		InstallationName: inst.Name,
	}
}

// folderMapping returns the recorded folder mapping for an addon, falling
// back to a TOC text search when none has been captured yet.
func (e *Engine) folderMapping(inst *config.Installation, name string) []string {
	if folders, ok := inst.FolderMapping[name]; ok {
		return folders
	}
	return toc.FindAddonFolders(name, inst.AddonPath)
}

func (e *Engine) sleep() {
	if e.delay > 0 {
		time.Sleep(e.delay)
	}
}

func report(progress Progress, current, total int, name string) {
	if progress != nil {
		progress(current, total, name)
	}
}

func displayVersion(v string) string {
	if v == "" {
		return NotInstalled
	}
	return v
}
