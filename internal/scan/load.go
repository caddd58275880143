package scan

import (
	"github.com/Vrilya/wow-addon-updater/internal/catalog"
	"github.com/Vrilya/wow-addon-updater/internal/config"
)

// LoadAddons rebuilds the addon projection from the persisted document
// without touching the network. Used for listings between scans.
func (e *Engine) LoadAddons() []Addon {
	var all []Addon

	for _, inst := range e.store.Installations() {
		all = append(all, e.loadInstallation(inst)...)
	}

	SortAddons(all, e.store.Doc().Settings.SortMode)
	return all
}

func (e *Engine) loadInstallation(inst *config.Installation) []Addon {
	var addons []Addon

	for _, name := range trackedAddonNames(inst) {
		state := inst.Addons[name]

		addons = append(addons, Addon{
			Name:             name,
			ModID:            state.ID,
			LocalVersion:     orUnknown(state.LocalVersion),
			OnlineVersion:    orUnknown(state.OnlineVersion),
			NeedsUpdate:      state.UpdateAvailable,
			LastUpdated:      parseTimestamp(state.ModifiedDate),
			Folders:          e.folderMapping(inst, name),
			InstallationID:   inst.ID,
			InstallationName: inst.Name,
		})
	}

	// The skin addon only appears while it is enabled for the installation
	if state, ok := inst.Addons[catalog.SkinAddonName]; ok && inst.IncludeElvUI {
		lastUpdated := parseTimestamp(state.ModifiedDate)
		if lastUpdated == nil {
			lastUpdated = parseTimestamp(state.OnlineModifiedDate)
		}

		addons = append(addons, Addon{
			Name:             catalog.SkinAddonName,
			LocalVersion:     orUnknown(state.LocalVersion),
			OnlineVersion:    orUnknown(state.OnlineVersion),
			NeedsUpdate:      state.UpdateAvailable,
			LastUpdated:      lastUpdated,
			Folders:          e.folderMapping(inst, catalog.SkinAddonName),
			InstallationID:   inst.ID,
			InstallationName: inst.Name,
		})
	}

	return addons
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}
