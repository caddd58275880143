package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Vrilya/wow-addon-updater/internal/scan"
	"github.com/Vrilya/wow-addon-updater/internal/updater"
)

var addonsCmd = &cobra.Command{
	Use:   "addons",
	Short: "Manage tracked addons",
	Long: `Manage the tracked addons across all installations.

Examples:
  wow-addon-updater addons list
  wow-addon-updater addons search "weak auras"
  wow-addon-updater addons install "WeakAuras"
  wow-addon-updater addons update --all
  wow-addon-updater addons remove WeakAuras --backup`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// findTrackedAddon resolves a tracked addon by name. With an installation
// qualifier only that installation is searched. Without one the active
// installation wins; a name tracked in several other installations is
// rejected as ambiguous.
func findTrackedAddon(u *updater.Updater, name, installation string) (scan.Addon, error) {
	addons := u.LoadAddons()

	if installation != "" {
		inst, err := resolveInstallation(u.Store(), installation)
		if err != nil {
			return scan.Addon{}, err
		}
		for i := range addons {
			if addons[i].Name == name && addons[i].InstallationID == inst.ID {
				return addons[i], nil
			}
		}
		return scan.Addon{}, fmt.Errorf("addon %s is not tracked in installation %s", name, inst.Name)
	}

	active := u.Store().ActiveInstallation()
	var matches []scan.Addon
	for i := range addons {
		if addons[i].Name != name {
			continue
		}
		if active != nil && addons[i].InstallationID == active.ID {
			return addons[i], nil
		}
		matches = append(matches, addons[i])
	}

	switch len(matches) {
	case 0:
		return scan.Addon{}, fmt.Errorf("addon not tracked: %s", name)
	case 1:
		return matches[0], nil
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.InstallationName
	}
	return scan.Addon{}, fmt.Errorf("addon %s is tracked in several installations (%s), qualify with --installation",
		name, strings.Join(names, ", "))
}

func init() {
	rootCmd.AddCommand(addonsCmd)
}
